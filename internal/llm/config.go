package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskExtract turns free-form text into structured task drafts.
	TaskExtract TaskType = "extract"
	// TaskClassify assigns a priority/category label to a single task.
	TaskClassify TaskType = "classify"
	// TaskSummarize condenses an activity feed into a short digest.
	TaskSummarize TaskType = "summarize"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// Config holds all configuration for the LLM subsystem.
type Config struct {
	Enabled             bool
	LogCalls            bool
	Endpoint            string
	Model               string
	TimeoutMs           int
	MaxRetries          int
	ConfidenceThreshold float64
	Tasks               map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults.
// The LLM is disabled by default; extraction falls back to errors
// rather than silent no-ops when callers invoke it anyway.
func DefaultConfig() Config {
	return Config{
		Enabled:             false,
		LogCalls:            false,
		Endpoint:            "http://localhost:11434",
		Model:               "llama3.2",
		TimeoutMs:           10000,
		MaxRetries:          1,
		ConfidenceThreshold: 0.6,
		Tasks: map[TaskType]TaskConfig{
			TaskExtract:   {Temperature: 0.1, MaxTokens: 1024, TimeoutMs: 12000},
			TaskClassify:  {Temperature: 0.0, MaxTokens: 256, TimeoutMs: 6000},
			TaskSummarize: {Temperature: 0.3, MaxTokens: 2048, TimeoutMs: 15000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	return ApplyEnv(DefaultConfig())
}

// ApplyEnv overlays TASKSTREAM_LLM_* environment variables onto cfg, which
// typically comes from the YAML config file. Env vars win when set.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("TASKSTREAM_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TASKSTREAM_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TASKSTREAM_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TASKSTREAM_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TASKSTREAM_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TASKSTREAM_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("TASKSTREAM_LLM_CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.ConfidenceThreshold = f
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskExtract, "TASKSTREAM_LLM_EXTRACT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskClassify, "TASKSTREAM_LLM_CLASSIFY_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSummarize, "TASKSTREAM_LLM_SUMMARIZE_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *Config, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}

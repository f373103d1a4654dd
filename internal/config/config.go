package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// configVersion is the config schema version this build understands.
const configVersion = "1.0.0"

const (
	minTimeout = time.Second
	maxTimeout = 5 * time.Minute
)

// Duration wraps time.Duration so YAML values like "30s" parse directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ServerConfig holds the HTTP API listener settings.
type ServerConfig struct {
	Addr          string   `yaml:"addr"`
	ReadTimeout   Duration `yaml:"readTimeout"`
	WriteTimeout  Duration `yaml:"writeTimeout"`
	ShutdownGrace Duration `yaml:"shutdownGrace"`

	// RatePerSecond bounds accepted requests across all clients; Burst is the
	// short-term allowance above that rate.
	RatePerSecond float64 `yaml:"ratePerSecond"`
	Burst         int     `yaml:"burst"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SyncConfig controls the background integration sync loop.
type SyncConfig struct {
	Interval      Duration `yaml:"interval"`
	RetryAttempts int      `yaml:"retryAttempts"`
	BackoffFactor int      `yaml:"backoffFactor"`
	MaxBackoff    Duration `yaml:"maxBackoff"`
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	UseTLS         bool     `yaml:"useTLS"`
	FromAddress    string   `yaml:"fromAddress"`
	AllowedDomains []string `yaml:"allowedDomains"`
	RequireAuth    bool     `yaml:"requireAuth"`
}

// SlackConfig holds Slack workspace settings.
type SlackConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Token          string `yaml:"token"`
	DefaultChannel string `yaml:"defaultChannel"`
}

// LLMConfig holds the Ollama-backed NLP settings. Environment variables
// (TASKSTREAM_LLM_*) override these values at startup.
type LLMConfig struct {
	Enabled             bool    `yaml:"enabled"`
	LogCalls            bool    `yaml:"logCalls"`
	Endpoint            string  `yaml:"endpoint"`
	Model               string  `yaml:"model"`
	TimeoutMs           int     `yaml:"timeoutMs"`
	MaxRetries          int     `yaml:"maxRetries"`
	ConfidenceThreshold float64 `yaml:"confidenceThreshold"`
}

// AnalyticsConfig tunes the metrics engine.
type AnalyticsConfig struct {
	// DefaultWindowDays is the reporting window used when a request does
	// not ask for one.
	DefaultWindowDays int `yaml:"defaultWindowDays"`
	// RollingWindowDays is the trailing window for rolling-mode metrics.
	RollingWindowDays int `yaml:"rollingWindowDays"`
	// WorkdayHours is the assumed daily capacity per assignee.
	WorkdayHours int `yaml:"workdayHours"`
}

// JiraConfig holds Jira instance settings.
type JiraConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url"`
	Username   string `yaml:"username"`
	APIToken   string `yaml:"apiToken"`
	ProjectKey string `yaml:"projectKey"`
}

// Config is the root configuration for the TaskStream backend.
type Config struct {
	Version  string         `yaml:"version"`
	Debug    bool           `yaml:"debug"`
	Timeout  Duration       `yaml:"timeout"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Sync     SyncConfig     `yaml:"sync"`
	Email    EmailConfig    `yaml:"email"`
	Slack    SlackConfig    `yaml:"slack"`
	Jira     JiraConfig     `yaml:"jira"`

	LLM       LLMConfig       `yaml:"llm"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// Default returns a Config with working defaults. All integrations are
// disabled until explicitly configured.
func Default() Config {
	return Config{
		Version: configVersion,
		Timeout: Duration(30 * time.Second),
		Server: ServerConfig{
			Addr:          ":8080",
			ReadTimeout:   Duration(10 * time.Second),
			WriteTimeout:  Duration(30 * time.Second),
			ShutdownGrace: Duration(15 * time.Second),
			RatePerSecond: 50,
			Burst:         100,
		},
		Database: DatabaseConfig{Path: ""},
		Sync: SyncConfig{
			Interval:      Duration(5 * time.Minute),
			RetryAttempts: 3,
			BackoffFactor: 2,
			MaxBackoff:    Duration(time.Hour),
		},
		Email: EmailConfig{
			Port:        587,
			UseTLS:      true,
			RequireAuth: true,
		},
		LLM: LLMConfig{
			Endpoint:            "http://localhost:11434",
			Model:               "llama3.2",
			TimeoutMs:           10000,
			MaxRetries:          1,
			ConfidenceThreshold: 0.6,
		},
		Analytics: AnalyticsConfig{
			DefaultWindowDays: 30,
			RollingWindowDays: 7,
			WorkdayHours:      8,
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (if non-empty), then environment variable overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Context: "config read", Message: err.Error()}
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &Error{Context: "config parse", Message: err.Error()}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays TASKSTREAM_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKSTREAM_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TASKSTREAM_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TASKSTREAM_DEBUG"); v != "" {
		cfg.Debug, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TASKSTREAM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("TASKSTREAM_SYNC_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Sync.Interval = Duration(d)
		}
	}
	if v := os.Getenv("TASKSTREAM_SLACK_TOKEN"); v != "" {
		cfg.Slack.Token = v
		cfg.Slack.Enabled = true
	}
	if v := os.Getenv("TASKSTREAM_SLACK_CHANNEL"); v != "" {
		cfg.Slack.DefaultChannel = v
	}
	if v := os.Getenv("TASKSTREAM_JIRA_URL"); v != "" {
		cfg.Jira.URL = v
		cfg.Jira.Enabled = true
	}
	if v := os.Getenv("TASKSTREAM_JIRA_USER"); v != "" {
		cfg.Jira.Username = v
	}
	if v := os.Getenv("TASKSTREAM_JIRA_TOKEN"); v != "" {
		cfg.Jira.APIToken = v
	}
	if v := os.Getenv("TASKSTREAM_SMTP_HOST"); v != "" {
		cfg.Email.Host = v
		cfg.Email.Enabled = true
	}
	if v := os.Getenv("TASKSTREAM_SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Email.Port = n
		}
	}
	if v := os.Getenv("TASKSTREAM_SMTP_USER"); v != "" {
		cfg.Email.Username = v
	}
	if v := os.Getenv("TASKSTREAM_SMTP_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
}

// Validate checks version compatibility, timeout bounds, and the credential
// completeness of every enabled integration.
func (c *Config) Validate() error {
	if c.Version != configVersion {
		return &Error{
			Context: "config version",
			Message: fmt.Sprintf("expected version %s, found %q", configVersion, c.Version),
		}
	}

	if c.Timeout.Std() < minTimeout || c.Timeout.Std() > maxTimeout {
		return &Error{
			Context: "timeout range",
			Message: fmt.Sprintf("timeout must be between %s and %s, found %s", minTimeout, maxTimeout, c.Timeout.Std()),
		}
	}

	if c.Sync.Interval.Std() <= 0 {
		return &Error{Context: "sync interval", Message: "sync interval must be positive"}
	}
	if c.Sync.RetryAttempts < 1 {
		return &Error{Context: "sync retries", Message: "retry attempts must be at least 1"}
	}
	if c.Sync.BackoffFactor < 1 {
		return &Error{Context: "sync backoff", Message: "backoff factor must be at least 1"}
	}

	if c.Slack.Enabled && c.Slack.Token == "" {
		return &Error{Context: "slack token", Message: "slack is enabled but no token is set"}
	}

	if c.Jira.Enabled {
		if c.Jira.URL == "" {
			return &Error{Context: "jira url", Message: "jira is enabled but no URL is set"}
		}
		if c.Jira.Username == "" || c.Jira.APIToken == "" {
			return &Error{Context: "jira auth", Message: "jira is enabled but username/apiToken is incomplete"}
		}
	}

	if c.Email.Enabled {
		if c.Email.Host == "" {
			return &Error{Context: "email host", Message: "email is enabled but no host is set"}
		}
		if c.Email.RequireAuth && (c.Email.Username == "" || c.Email.Password == "") {
			return &Error{Context: "email auth", Message: "email requires auth but username/password is missing"}
		}
		if c.Email.UseTLS && c.Email.Port != 465 && c.Email.Port != 587 {
			return &Error{
				Context: "email port",
				Message: fmt.Sprintf("TLS delivery expects port 465 or 587, found %d", c.Email.Port),
			}
		}
	}

	if c.Server.RatePerSecond <= 0 || c.Server.Burst <= 0 {
		return &Error{Context: "server rate limit", Message: "ratePerSecond and burst must be positive"}
	}

	if c.LLM.Enabled {
		if c.LLM.Endpoint == "" || c.LLM.Model == "" {
			return &Error{Context: "llm", Message: "llm is enabled but endpoint/model is incomplete"}
		}
		if c.LLM.TimeoutMs <= 0 {
			return &Error{Context: "llm timeout", Message: "llm timeoutMs must be positive"}
		}
	}
	if c.LLM.ConfidenceThreshold < 0 || c.LLM.ConfidenceThreshold > 1 {
		return &Error{Context: "llm confidence", Message: "confidenceThreshold must be between 0 and 1"}
	}

	if c.Analytics.DefaultWindowDays < 1 || c.Analytics.RollingWindowDays < 1 {
		return &Error{Context: "analytics windows", Message: "window sizes must be at least one day"}
	}
	if c.Analytics.WorkdayHours < 1 || c.Analytics.WorkdayHours > 24 {
		return &Error{Context: "analytics capacity", Message: "workdayHours must be between 1 and 24"}
	}

	return nil
}

// Error is a configuration-specific error carrying the failed check and a
// human-readable message. It serializes to JSON so log pipelines can index it.
type Error struct {
	Context string
	Message string
}

func (e *Error) Error() string {
	data := map[string]string{
		"context": e.Context,
		"message": e.Message,
	}
	encoded, _ := json.Marshal(data)
	return string(encoded)
}

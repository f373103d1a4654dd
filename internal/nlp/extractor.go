package nlp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/llm"
)

// ErrEmptyInput indicates there was no text to extract tasks from.
var ErrEmptyInput = errors.New("no input text")

const defaultCacheSize = 256

// Result holds the outcome of one extraction call.
type Result struct {
	Drafts    []TaskDraft `json:"drafts"`
	Discarded int         `json:"discarded"` // drafts dropped below the confidence threshold
	Model     string      `json:"model,omitempty"`
	Cached    bool        `json:"cached"`
}

// Classification holds a suggested priority for a single task.
type Classification struct {
	Priority   domain.TaskPriority `json:"priority"`
	Confidence float64             `json:"confidence"`
	Rationale  string              `json:"rationale,omitempty"`
}

// Summary holds a condensed digest of an activity feed.
type Summary struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights,omitempty"`
}

// Extractor turns free-form text into structured task drafts.
type Extractor interface {
	// Extract finds task drafts in text. Drafts whose confidence falls
	// below the configured threshold are dropped and counted.
	Extract(ctx context.Context, text string) (*Result, error)

	// ExtractBatch runs Extract over texts on a bounded worker pool.
	// Results are returned in input order with per-item errors.
	ExtractBatch(ctx context.Context, texts []string) ([]BatchItem, error)

	// ClassifyPriority suggests a priority for a single task.
	ClassifyPriority(ctx context.Context, title, description string) (*Classification, error)

	// SummarizeActivity condenses activity entries into a short digest.
	SummarizeActivity(ctx context.Context, entries []string) (*Summary, error)

	// Available reports whether the backing model can be reached.
	Available(ctx context.Context) bool
}

type extractor struct {
	client  llm.Client
	cfg     llm.Config
	cache   *resultCache
	workers int
}

// Option configures an Extractor.
type Option func(*extractor)

// WithCacheSize sets the LRU cache capacity.
func WithCacheSize(n int) Option {
	return func(e *extractor) { e.cache = newResultCache(n) }
}

// WithBatchWorkers sets the batch extraction concurrency.
func WithBatchWorkers(n int) Option {
	return func(e *extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewExtractor creates an Extractor backed by an LLM client.
func NewExtractor(client llm.Client, cfg llm.Config, opts ...Option) Extractor {
	e := &extractor{
		client:  client,
		cfg:     cfg,
		cache:   newResultCache(defaultCacheSize),
		workers: 4,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *extractor) Extract(ctx context.Context, text string) (*Result, error) {
	if !e.cfg.Enabled {
		return nil, llm.ErrDisabled
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	key := cacheKey(text)
	if cached, ok := e.cache.get(key); ok {
		cached.Cached = true
		return &cached, nil
	}

	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExtract,
		SystemPrompt: extractSystemPrompt,
		UserPrompt:   text,
	})
	if err != nil {
		return nil, fmt.Errorf("llm extraction failed: %w", err)
	}

	payload, err := llm.ExtractJSON[extractionPayload](resp.Text, validateExtraction)
	if err != nil {
		return nil, fmt.Errorf("extracting task drafts: %w", err)
	}

	result := Result{Model: resp.Model}
	for _, d := range payload.Tasks {
		if d.Confidence < e.cfg.ConfidenceThreshold {
			result.Discarded++
			continue
		}
		if d.Priority == "" {
			d.Priority = domain.PriorityMedium
		}
		result.Drafts = append(result.Drafts, d)
	}

	e.cache.put(key, result)
	return &result, nil
}

func (e *extractor) ClassifyPriority(ctx context.Context, title, description string) (*Classification, error) {
	if !e.cfg.Enabled {
		return nil, llm.ErrDisabled
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyInput
	}

	prompt := "Title: " + title
	if description != "" {
		prompt += "\nDescription: " + description
	}

	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskClassify,
		SystemPrompt: classifySystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("llm classification failed: %w", err)
	}

	payload, err := llm.ExtractJSON[classificationPayload](resp.Text, validateClassification)
	if err != nil {
		return nil, fmt.Errorf("extracting classification: %w", err)
	}

	return &Classification{
		Priority:   payload.Priority,
		Confidence: payload.Confidence,
		Rationale:  payload.Rationale,
	}, nil
}

func (e *extractor) SummarizeActivity(ctx context.Context, entries []string) (*Summary, error) {
	if !e.cfg.Enabled {
		return nil, llm.ErrDisabled
	}
	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}

	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSummarize,
		SystemPrompt: summarizeSystemPrompt,
		UserPrompt:   strings.Join(entries, "\n"),
	})
	if err != nil {
		return nil, fmt.Errorf("llm summarization failed: %w", err)
	}

	payload, err := llm.ExtractJSON[summaryPayload](resp.Text, validateSummary)
	if err != nil {
		return nil, fmt.Errorf("extracting summary: %w", err)
	}

	return &Summary{Summary: payload.Summary, Highlights: payload.Highlights}, nil
}

func (e *extractor) Available(ctx context.Context) bool {
	return e.cfg.Enabled && e.client.Available(ctx)
}

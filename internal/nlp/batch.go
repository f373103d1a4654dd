package nlp

import (
	"context"

	"github.com/taskstream/taskstream/internal/llm"
	"golang.org/x/sync/errgroup"
)

// BatchItem pairs one input text with its extraction outcome.
type BatchItem struct {
	Index  int     `json:"index"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

func (e *extractor) ExtractBatch(ctx context.Context, texts []string) ([]BatchItem, error) {
	if !e.cfg.Enabled {
		return nil, llm.ErrDisabled
	}
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	items := make([]BatchItem, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, text := range texts {
		g.Go(func() error {
			res, err := e.Extract(ctx, text)
			items[i] = BatchItem{Index: i, Result: res, Err: err}
			// Item failures are reported per item; only context
			// cancellation aborts the batch.
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

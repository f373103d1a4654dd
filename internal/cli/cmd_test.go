package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskstream/taskstream/internal/config"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/integration"
	"github.com/taskstream/taskstream/internal/nlp"
	"github.com/taskstream/taskstream/internal/repository"
	"github.com/taskstream/taskstream/internal/testutil"
)

type staticAdapter struct{ name string }

func (a *staticAdapter) Name() string                              { return a.name }
func (a *staticAdapter) Send(context.Context, integration.Message) error { return nil }
func (a *staticAdapter) Ping(context.Context) error                { return nil }
func (a *staticAdapter) Status(context.Context) integration.Status {
	return integration.Status{
		Name:         a.name,
		Kind:         "chat",
		Connected:    true,
		SuccessRate:  1,
		BreakerState: "closed",
	}
}

type cannedExtractor struct {
	result *nlp.Result
	err    error
}

func (c *cannedExtractor) Extract(context.Context, string) (*nlp.Result, error) {
	return c.result, c.err
}

func (c *cannedExtractor) ExtractBatch(context.Context, []string) ([]nlp.BatchItem, error) {
	return nil, c.err
}

func (c *cannedExtractor) ClassifyPriority(context.Context, string, string) (*nlp.Classification, error) {
	return nil, c.err
}

func (c *cannedExtractor) SummarizeActivity(context.Context, []string) (*nlp.Summary, error) {
	return nil, c.err
}

func (c *cannedExtractor) Available(context.Context) bool { return c.err == nil }

func testBuilder(t *testing.T, app *App) AppBuilder {
	t.Helper()
	return func(string) (*App, func(), error) {
		return app, func() {}, nil
	}
}

func newTestHub(t *testing.T) *integration.SyncManager {
	t.Helper()
	database := testutil.NewTestDB(t)
	hub := integration.NewSyncManager(config.SyncConfig{},
		repository.NewSQLiteNotificationRepo(database),
		repository.NewSQLiteSyncRunRepo(database), nil)
	require.NoError(t, hub.Register(&staticAdapter{name: "slack"}))
	return hub
}

func TestStatusCommand(t *testing.T) {
	root := NewRootCmd(testBuilder(t, &App{Hub: newTestHub(t)}))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"status"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "slack")
	assert.Contains(t, out.String(), "connected")
}

func TestStatusCommand_NoIntegrations(t *testing.T) {
	root := NewRootCmd(testBuilder(t, &App{}))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"status"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "no integrations configured")
}

func TestExtractCommand_Arg(t *testing.T) {
	app := &App{Extractor: &cannedExtractor{result: &nlp.Result{
		Drafts: []nlp.TaskDraft{{
			Title:      "Review the budget",
			Assignee:   "helen",
			DueDate:    "2026-09-01",
			Priority:   domain.PriorityHigh,
			Confidence: 0.92,
		}},
		Discarded: 1,
	}}}
	root := NewRootCmd(testBuilder(t, app))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"extract", "review the budget with helen by sept 1"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Review the budget")
	assert.Contains(t, out.String(), "@helen")
	assert.Contains(t, out.String(), "discarded")
}

func TestExtractCommand_Stdin(t *testing.T) {
	app := &App{Extractor: &cannedExtractor{result: &nlp.Result{}}}
	root := NewRootCmd(testBuilder(t, app))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("notes from standup"))
	root.SetArgs([]string{"extract"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "no tasks found")
}

func TestExtractCommand_EmptyInput(t *testing.T) {
	app := &App{Extractor: &cannedExtractor{result: &nlp.Result{}}}
	root := NewRootCmd(testBuilder(t, app))

	root.SetIn(strings.NewReader("   "))
	root.SetArgs([]string{"extract"})
	require.Error(t, root.Execute())
}

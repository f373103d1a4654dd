package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskstream/taskstream/internal/analytics"
	"github.com/taskstream/taskstream/internal/api"
	"github.com/taskstream/taskstream/internal/cli"
	"github.com/taskstream/taskstream/internal/config"
	"github.com/taskstream/taskstream/internal/db"
	"github.com/taskstream/taskstream/internal/integration"
	"github.com/taskstream/taskstream/internal/llm"
	"github.com/taskstream/taskstream/internal/nlp"
	"github.com/taskstream/taskstream/internal/repository"
	"github.com/taskstream/taskstream/internal/service"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	root := cli.NewRootCmd(buildApp)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildApp(cfgPath string) (*cli.App, func(), error) {
	if cfgPath == "" {
		cfgPath = os.Getenv("TASKSTREAM_CONFIG")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".taskstream", "taskstream.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	cleanup := func() {
		_ = database.Close()
		_ = logger.Sync()
	}

	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	activity := repository.NewSQLiteActivityRepo(database)
	notifications := repository.NewSQLiteNotificationRepo(database)
	runs := repository.NewSQLiteSyncRunRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.Debug {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	hub := integration.NewSyncManager(cfg.Sync, notifications, runs, logger)
	registerAdapters(hub, cfg, logger)

	llmCfg := llm.ApplyEnv(llmConfigFrom(cfg.LLM))
	var llmObserver llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		llmObserver = llm.NewLogObserver(os.Stderr)
	}
	client := llm.NewOllamaClient(llmCfg, llmObserver)
	extractor := nlp.NewExtractor(client, llmCfg)

	limiter := rate.NewLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.Burst)
	engine := analytics.NewEngine(tasks,
		analytics.WithCapacityMinutes(cfg.Analytics.WorkdayHours*60),
		analytics.WithRollingWindow(cfg.Analytics.RollingWindowDays))

	router := api.NewRouter(api.Deps{
		Projects:            service.NewProjectService(projects, uow, observers...),
		Tasks:               service.NewTaskService(tasks, projects, notifications, uow, observers...),
		Activity:            service.NewActivityService(activity),
		Notifications:       service.NewNotificationService(notifications),
		Hub:                 hub,
		Analytics:           engine,
		AnalyticsWindowDays: cfg.Analytics.DefaultWindowDays,
		Extractor:           extractor,
		Logger:              logger,
		Limiter:             limiter,
	})

	return &cli.App{
		Config:    *cfg,
		Logger:    logger,
		Hub:       hub,
		Extractor: extractor,
		Handler:   router,
		Limiter:   limiter,
	}, cleanup, nil
}

// llmConfigFrom maps the YAML llm section onto the llm package's config.
// Per-task temperature and token settings keep their defaults.
func llmConfigFrom(section config.LLMConfig) llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Enabled = section.Enabled
	cfg.LogCalls = section.LogCalls
	if section.Endpoint != "" {
		cfg.Endpoint = section.Endpoint
	}
	if section.Model != "" {
		cfg.Model = section.Model
	}
	if section.TimeoutMs > 0 {
		cfg.TimeoutMs = section.TimeoutMs
	}
	if section.MaxRetries >= 0 {
		cfg.MaxRetries = section.MaxRetries
	}
	if section.ConfidenceThreshold > 0 {
		cfg.ConfidenceThreshold = section.ConfidenceThreshold
	}
	return cfg
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// registerAdapters wires every integration the config enables. A disabled or
// incomplete integration is skipped, not fatal.
func registerAdapters(hub *integration.SyncManager, cfg *config.Config, logger *zap.Logger) {
	if slack, err := integration.NewSlackAdapter(cfg.Slack); err == nil {
		mustRegister(hub, slack, logger)
	} else if !errors.Is(err, integration.ErrNotConfigured) {
		logger.Warn("slack adapter unavailable", zap.Error(err))
	}

	if jira, err := integration.NewJiraAdapter(cfg.Jira); err == nil {
		mustRegister(hub, jira, logger)
	} else if !errors.Is(err, integration.ErrNotConfigured) {
		logger.Warn("jira adapter unavailable", zap.Error(err))
	}

	if email, err := integration.NewEmailAdapter(cfg.Email); err == nil {
		mustRegister(hub, email, logger)
	} else if !errors.Is(err, integration.ErrNotConfigured) {
		logger.Warn("email adapter unavailable", zap.Error(err))
	}
}

func mustRegister(hub *integration.SyncManager, a integration.Adapter, logger *zap.Logger) {
	if err := hub.Register(a); err != nil {
		logger.Warn("registering adapter", zap.String("adapter", a.Name()), zap.Error(err))
	}
}

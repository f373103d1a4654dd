package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/taskstream/taskstream/internal/api"
	"github.com/taskstream/taskstream/internal/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newServeCmd(build AppBuilder, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the background sync loop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := build(*cfgPath)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if *cfgPath != "" {
				go func() {
					err := config.Watch(ctx, *cfgPath,
						func(next *config.Config) {
							applyReload(app, next)
							app.Logger.Info("config reloaded",
								zap.String("path", *cfgPath),
								zap.Duration("syncInterval", next.Sync.Interval.Std()),
								zap.Float64("ratePerSecond", next.Server.RatePerSecond))
						},
						func(err error) {
							app.Logger.Warn("config reload failed", zap.Error(err))
						})
					if err != nil && ctx.Err() == nil {
						app.Logger.Warn("config watcher stopped", zap.Error(err))
					}
				}()
			}

			if app.Hub != nil {
				app.Hub.Start(ctx)
				defer app.Hub.Stop()
			}

			srv := api.NewServer(app.Config.Server, app.Handler, app.Logger)
			if err := srv.Run(ctx); err != nil {
				app.Logger.Error("server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

// applyReload pushes the runtime-tunable parts of a reloaded config into the
// running subsystems. Listener settings still require a restart.
func applyReload(app *App, next *config.Config) {
	if app.Hub != nil {
		app.Hub.SetInterval(next.Sync.Interval.Std())
	}
	if app.Limiter != nil {
		app.Limiter.SetLimit(rate.Limit(next.Server.RatePerSecond))
		app.Limiter.SetBurst(next.Server.Burst)
	}
}

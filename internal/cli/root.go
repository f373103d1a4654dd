package cli

import (
	"net/http"

	"github.com/spf13/cobra"
	"github.com/taskstream/taskstream/internal/config"
	"github.com/taskstream/taskstream/internal/integration"
	"github.com/taskstream/taskstream/internal/nlp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// App holds the wired subsystems CLI commands run against. Limiter is the
// API rate limiter handle, kept so config reloads can retune it.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Hub       *integration.SyncManager
	Extractor nlp.Extractor
	Handler   http.Handler
	Limiter   *rate.Limiter
}

// AppBuilder constructs an App from a config file path. The returned cleanup
// releases resources (database handles, loggers) when the command finishes.
type AppBuilder func(cfgPath string) (*App, func(), error)

// NewRootCmd creates the top-level "taskstream" command and registers all
// subcommands. The App is built lazily so --config is honored.
func NewRootCmd(build AppBuilder) *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "taskstream",
		Short:         "TaskStream backend: API server, integrations, and NLP task extraction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: $TASKSTREAM_CONFIG)")

	root.AddCommand(
		newServeCmd(build, &cfgPath),
		newStatusCmd(build, &cfgPath),
		newExtractCmd(build, &cfgPath),
	)
	return root
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskstream/taskstream/internal/cli/formatter"
)

func newStatusCmd(build AppBuilder, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show integration adapter health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := build(*cfgPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if app.Hub == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no integrations configured")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatuses(app.Hub.Statuses(cmd.Context())))
			return nil
		},
	}
}

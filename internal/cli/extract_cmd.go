package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskstream/taskstream/internal/cli/formatter"
)

func newExtractCmd(build AppBuilder, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   `extract "<free-form text>"`,
		Short: "Extract structured task drafts from text",
		Long:  "Run the NLP extractor over the given text, or over stdin when no argument is passed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := build(*cfgPath)
			if err != nil {
				return err
			}
			defer cleanup()

			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(raw)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no input text (pass an argument or pipe text on stdin)")
			}

			result, err := app.Extractor.Extract(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("extraction failed: %w (enable with TASKSTREAM_LLM_ENABLED=true)", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExtraction(result))
			return nil
		},
	}
}

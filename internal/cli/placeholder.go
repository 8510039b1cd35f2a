package cli

import (
	"github.com/spf13/cobra"

	"github.com/tunelab/tdspec/internal/specgen"
	"github.com/tunelab/tdspec/internal/tdtext"
)

// NewPlaceholderCommand creates the placeholder command.
func NewPlaceholderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "placeholder",
		Short: "Print the no-op tuning spec",
		Long: `Print the placeholder tuning spec: an entry point that yields the
variant op unchanged. Useful for bootstrapping a tuning session before
any candidate has been rendered.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			renderer := specgen.New(tdtext.NewParser(), specgen.WithLogger(rootOpts.Logger()))
			text, err := renderer.PlaceholderSpec()
			if err != nil {
				formatter.Failure(ErrCodeRender, err.Error(), nil)
				return WrapExitError(ExitFailure, "placeholder spec", err)
			}
			return formatter.SuccessText(text, map[string]string{"spec": text})
		},
	}
}

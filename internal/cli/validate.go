package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tunelab/tdspec/internal/tdtext"
)

// ValidationReport is the success payload of the validate command.
type ValidationReport struct {
	Path       string   `json:"path"`
	Sequences  []string `json:"sequences"`
	EntryPoint bool     `json:"entry_point"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec.mlir>",
		Short: "Check a tuning spec for structural validity",
		Long: `Check a rendered tuning spec for structural validity: balanced
delimiters, well-formed sequence symbols, and yields. Semantic checking
is left to the consuming compiler.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		formatter.Failure(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read spec", err)
	}

	mod, err := tdtext.NewParser().ParseModule(string(data))
	if err != nil {
		formatter.Failure(ErrCodeInvalid, fmt.Sprintf("%s: %v", path, err), nil)
		return WrapExitError(ExitFailure, "invalid spec", err)
	}

	report := ValidationReport{
		Path:       path,
		Sequences:  mod.Sequences,
		EntryPoint: mod.HasEntryPoint(),
	}
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "%s: ok (%d sequences)\n", path, len(mod.Sequences))
	for _, name := range mod.Sequences {
		marker := ""
		if name == tdtext.EntryPointName {
			marker = " (entry point)"
		}
		fmt.Fprintf(formatter.Writer, "  @%s%s\n", name, marker)
	}
	if !report.EntryPoint {
		fmt.Fprintln(formatter.Writer, "  warning: no entry point sequence")
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tunelab/tdspec/internal/specgen"
	"github.com/tunelab/tdspec/internal/store"
	"github.com/tunelab/tdspec/internal/tdtext"
	"github.com/tunelab/tdspec/internal/tuning"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output string // output file (single job) or directory (multiple)
	DBPath string // optional spec store
}

// RenderResult is the per-job success payload.
type RenderResult struct {
	SequenceName string `json:"sequence_name"`
	Hash         string `json:"hash"`
	StoreID      string `json:"store_id,omitempty"`
	OutputPath   string `json:"output_path,omitempty"`
	Spec         string `json:"spec,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <job.yaml | job-dir>",
		Short: "Render tuning specs from job definitions",
		Long: `Render transform-dialect tuning specs from job definitions.

A job names a root operation, an ordered list of tuning configurations,
and the matcher sequence to emit. Jobs are read from a single YAML file
or from a directory of CUE files declaring a top-level "tuning" struct.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file, or directory when rendering multiple jobs")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record rendered specs in this session database")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	jobs, err := loadJobs(path)
	if err != nil {
		formatter.Failure(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load jobs", err)
	}
	formatter.VerboseLog("Loaded %d job(s) from %s", len(jobs), path)

	var st *store.Store
	if opts.DBPath != "" {
		st, err = store.Open(opts.DBPath)
		if err != nil {
			formatter.Failure(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "open spec store", err)
		}
		defer st.Close()
	}

	renderer := specgen.New(tdtext.NewParser(), specgen.WithLogger(opts.Logger()))

	results := make([]RenderResult, 0, len(jobs))
	for _, job := range jobs {
		formatter.VerboseLog("Rendering sequence %s (%d configs)", job.SequenceName, len(job.Configs))

		text, err := renderer.Render(job.BuildOp(), job.Configs, job.SequenceName)
		if err != nil {
			formatter.Failure(ErrCodeRender, err.Error(), renderDetails(err))
			return WrapExitError(ExitFailure, fmt.Sprintf("render %s", job.SequenceName), err)
		}

		result := RenderResult{
			SequenceName: job.SequenceName,
			Hash:         store.ContentHash(text),
			Spec:         text,
		}

		if st != nil {
			id, err := st.Put(context.Background(), job.SequenceName, len(job.Configs), text)
			if err != nil {
				formatter.Failure(ErrCodeStore, err.Error(), nil)
				return WrapExitError(ExitCommandError, "record spec", err)
			}
			result.StoreID = id
		}

		if opts.Output != "" {
			outPath, err := writeSpec(opts.Output, job.SequenceName, text, len(jobs) > 1)
			if err != nil {
				formatter.Failure(ErrCodeWrite, err.Error(), nil)
				return WrapExitError(ExitCommandError, "write spec", err)
			}
			result.OutputPath = outPath
			result.Spec = ""
		}

		results = append(results, result)
	}

	return outputRenderResults(formatter, results)
}

// loadJobs reads jobs from a YAML file or a CUE directory.
func loadJobs(path string) ([]*tuning.Job, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return tuning.LoadJobDir(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		job, err := tuning.LoadJobFile(path)
		if err != nil {
			return nil, err
		}
		return []*tuning.Job{job}, nil
	default:
		return nil, fmt.Errorf("unsupported job file %s: expected .yaml or a directory of CUE files", path)
	}
}

// writeSpec writes rendered text to the output target. With multiple
// jobs the target is a directory and each spec lands in
// <dir>/<sequenceName>.mlir.
func writeSpec(output, sequenceName, text string, multi bool) (string, error) {
	path := output
	if multi {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return "", err
		}
		path = filepath.Join(output, sequenceName+".mlir")
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// renderDetails surfaces the offending text for render errors so a bug
// report carries the full module.
func renderDetails(err error) interface{} {
	var re *specgen.RenderError
	if errors.As(err, &re) {
		return map[string]string{"spec_text": re.Text}
	}
	return nil
}

func outputRenderResults(f *OutputFormatter, results []RenderResult) error {
	if f.Format == "json" {
		return f.Success(results)
	}
	for _, r := range results {
		switch {
		case r.OutputPath != "":
			fmt.Fprintf(f.Writer, "wrote %s (%s)\n", r.OutputPath, shortHash(r.Hash))
		default:
			if _, err := fmt.Fprint(f.Writer, r.Spec); err != nil {
				return err
			}
		}
		if r.StoreID != "" {
			f.VerboseLog("recorded %s as %s", r.SequenceName, r.StoreID)
		}
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

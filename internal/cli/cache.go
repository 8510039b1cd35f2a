package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunelab/tdspec/internal/store"
)

// CacheOptions holds flags for the cache subcommands.
type CacheOptions struct {
	*RootOptions
	DBPath string
}

// CacheEntry is the JSON payload for one stored spec.
type CacheEntry struct {
	ID           string `json:"id"`
	Hash         string `json:"hash"`
	SequenceName string `json:"sequence_name"`
	ConfigCount  int    `json:"config_count"`
	CreatedAt    string `json:"created_at"`
	Spec         string `json:"spec,omitempty"`
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the rendered-spec session database",
	}
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "session database path")
	cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newCacheListCommand(opts))
	cmd.AddCommand(newCacheShowCommand(opts))
	return cmd
}

func newCacheListCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored specs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList(opts, cmd)
		},
	}
}

func newCacheShowCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id | hash-prefix>",
		Short:         "Print one stored spec",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheShow(opts, args[0], cmd)
		},
	}
}

func runCacheList(opts *CacheOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		formatter.Failure(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open spec store", err)
	}
	defer st.Close()

	records, err := st.List(context.Background())
	if err != nil {
		formatter.Failure(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list specs", err)
	}

	if formatter.Format == "json" {
		entries := make([]CacheEntry, len(records))
		for i, rec := range records {
			entries[i] = cacheEntry(rec, false)
		}
		return formatter.Success(entries)
	}

	for _, rec := range records {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s  configs=%d  %s\n",
			rec.ID, shortHash(rec.Hash), rec.SequenceName, rec.ConfigCount, rec.CreatedAt)
	}
	fmt.Fprintf(formatter.Writer, "%d spec(s)\n", len(records))
	return nil
}

func runCacheShow(opts *CacheOptions, key string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		formatter.Failure(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open spec store", err)
	}
	defer st.Close()

	rec, err := st.Get(context.Background(), key)
	if err != nil {
		formatter.Failure(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitFailure, "spec lookup", err)
	}

	return formatter.SuccessText(rec.Text, cacheEntry(rec, true))
}

func cacheEntry(rec *store.Record, withSpec bool) CacheEntry {
	entry := CacheEntry{
		ID:           rec.ID,
		Hash:         rec.Hash,
		SequenceName: rec.SequenceName,
		ConfigCount:  rec.ConfigCount,
		CreatedAt:    rec.CreatedAt,
	}
	if withSpec {
		entry.Spec = rec.Text
	}
	return entry
}

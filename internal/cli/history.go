package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/uppmon/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Hash     string // optional - only the latest build with this document hash
}

// HistoryResult holds the listed builds.
type HistoryResult struct {
	Builds []store.Build `json:"builds"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded builds",
		Long: `List the builds recorded by "uppmon build --db".

Builds are listed oldest first. With --hash only the most recent build
that produced the given document hash is shown.

Examples:
  uppmon history --db ./uppmon.db
  uppmon history --db ./uppmon.db --hash 3f2a... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "show the latest build with this document hash")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := openExistingStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var builds []store.Build
	if opts.Hash != "" {
		b, err := st.LatestByHash(ctx, opts.Hash)
		if errors.Is(err, store.ErrNotFound) {
			builds = []store.Build{}
		} else if err != nil {
			return WrapExitError(ExitCommandError, "failed to look up build", err)
		} else {
			b.XML = ""
			builds = []store.Build{b}
		}
	} else {
		builds, err = st.ListBuilds(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list builds", err)
		}
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: HistoryResult{Builds: builds}})
	}

	w := cmd.OutOrStdout()
	if len(builds) == 0 {
		fmt.Fprintln(w, "No builds found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tHASH\tBASE\tTEMPLATES\tSPECS")
	for _, b := range builds {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			b.Seq, b.ID, shortHash(b.DocumentHash), b.Base, len(b.Templates), b.SpecDir)
	}
	return tw.Flush()
}

// openExistingStore opens a history database that must already exist.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

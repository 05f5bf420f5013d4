package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/uppmon/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	XMLOnly  bool // print only the stored document
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <build-id>",
		Short: "Show a recorded build",
		Long: `Show one recorded build: its document hash, the templates it
contains with their id ranges, and the stored XML.

Examples:
  uppmon show --db ./uppmon.db 0192f7c4-...
  uppmon show --db ./uppmon.db 0192f7c4-... --xml > system.xml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.XMLOnly, "xml", false, "print only the stored XML document")

	return cmd
}

func runShow(opts *ShowOptions, buildID string, cmd *cobra.Command) error {
	st, err := openExistingStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	b, err := st.ReadBuild(commandContext(cmd), buildID)
	if errors.Is(err, store.ErrNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("build not found: %s", buildID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read build", err)
	}

	w := cmd.OutOrStdout()
	if opts.XMLOnly {
		_, err := io.WriteString(w, b.XML)
		return err
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: b, BuildID: b.ID})
	}

	fmt.Fprintf(w, "Build %s (seq %d)\n", b.ID, b.Seq)
	fmt.Fprintf(w, "  Specs:    %s\n", b.SpecDir)
	fmt.Fprintf(w, "  Hash:     %s\n", b.DocumentHash)
	fmt.Fprintf(w, "  Base:     %d\n", b.Base)
	fmt.Fprintf(w, "  Versions: uppmon %s, schema %s\n", b.ToolVersion, b.IRVersion)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Templates:")
	for _, t := range b.Templates {
		fmt.Fprintf(w, "  %s: %s, ids [%d, %d), %s\n", t.Name, t.Kind, t.Base, t.Base+t.Size, shortHash(t.TemplateHash))
	}
	return nil
}

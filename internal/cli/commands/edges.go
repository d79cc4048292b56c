package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/lineagesync/pkg/core"
	"github.com/spf13/cobra"
)

// EdgesOptions holds options for the edges command.
type EdgesOptions struct {
	Kind string
}

// NewEdgesCommand creates the edges command.
func NewEdgesCommand() *cobra.Command {
	opts := &EdgesOptions{}

	cmd := &cobra.Command{
		Use:   "edges",
		Short: "List lineage processes stored in the catalog",
		Example: `  # All processes
  lineagesync edges

  # Table-level lineage only, as JSON
  lineagesync edges --kind table -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEdges(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "all", "Edge kind to list (all|table|column)")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"all", "table", "column"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// parseEdgeKind maps the --kind flag to an edge kind; "" means every kind.
func parseEdgeKind(s string) (core.EdgeKind, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return "", nil
	case "table":
		return core.EdgeTable, nil
	case "column":
		return core.EdgeColumn, nil
	default:
		return "", fmt.Errorf("unknown edge kind %q (expected all, table or column)", s)
	}
}

func runEdges(cmd *cobra.Command, opts *EdgesOptions) error {
	kind, err := parseEdgeKind(opts.Kind)
	if err != nil {
		return err
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	edges, err := cc.Store.ListEdges(cmd.Context(), kind)
	if err != nil {
		return err
	}
	if edges == nil {
		edges = []core.LineageEdge{}
	}

	r := cc.Renderer
	if done, err := r.Structured(edges); done {
		return err
	}

	r.Header(1, fmt.Sprintf("Lineage processes (%d)", len(edges)))
	rows := make([][]any, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []any{e.Kind, e.ProcessName, e.ProcessKey})
	}
	r.Table([]string{"Kind", "Process", "Key"}, rows)
	return nil
}

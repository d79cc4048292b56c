package commands

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/leapstack-labs/lineagesync/pkg/core"
	"github.com/spf13/cobra"
)

// crawlers lists the connector types the crawl command can read.
var crawlers = []core.ConnectorType{core.ConnectorPostgres, core.ConnectorS3, core.ConnectorDuckDB}

// NewVersionCommand creates the version command. With --short it prints the
// bare version; otherwise it adds the toolchain, VCS revision and crawlers.
func NewVersionCommand(version string) *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the lineagesync version, the Go toolchain and VCS revision it was built from, and the connectors it can crawl.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if short {
				_, _ = fmt.Fprintln(out, version)
				return
			}
			_, _ = fmt.Fprintf(out, "lineagesync v%s\n", version)
			_, _ = fmt.Fprintf(out, "  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			_, _ = fmt.Fprintf(out, "  revision: %s\n", vcsRevision())
			names := make([]string, len(crawlers))
			for i, c := range crawlers {
				names[i] = string(c)
			}
			_, _ = fmt.Fprintf(out, "  crawlers: %s\n", strings.Join(names, ", "))
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}

// vcsRevision returns the short commit the binary was built from, marked
// "-dirty" for modified trees, or "unknown" outside a VCS build.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var rev, dirty string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if rev == "" {
		return "unknown"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return rev + dirty
}

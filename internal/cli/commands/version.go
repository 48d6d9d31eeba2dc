package commands

import (
	"fmt"
	"runtime"

	"github.com/leapstack-labs/inspectomop/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display inspectomop version, build and adapter information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "inspectomop v%s\n", version)
			_, _ = fmt.Fprintln(w, "OMOP CDM database inspector")
			_, _ = fmt.Fprintf(w, "go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			_, _ = fmt.Fprintf(w, "adapters: %v\n", adapter.ListAdapters())
		},
	}
}

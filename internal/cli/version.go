package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Samyk00/LinkVault/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "linkvault %s (commit=%s, built=%s, go=%s, snapshot=v%d)\n",
				version.Version, version.Commit, version.BuildDate, version.GoVersion, version.SnapshotVersion)
		},
	}
}

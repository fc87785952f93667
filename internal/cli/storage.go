package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Samyk00/LinkVault/internal/app"
	"github.com/Samyk00/LinkVault/internal/config"
)

// warnPercent is where storage usage is printed as a warning.
const warnPercent = 80

func newStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "Show how much of the storage quota the dataset uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *app.Engine, cfg *config.Config) error {
				size, err := e.Store.StorageSize(cmd.Context())
				if err != nil {
					return err
				}
				printStorage(cmd.OutOrStdout(), e, cfg, size)
				return nil
			})
		},
	}
}

func printStorage(w io.Writer, e *app.Engine, cfg *config.Config, size int64) {
	quota := e.Store.Quota()
	percent := float64(size) * 100 / float64(quota)
	counts := e.Store.Counts()

	_, _ = bold.Fprintf(w, "Backend:   %s (namespace %q)\n", e.Backend.Name(), cfg.Namespace)

	usage := fmt.Sprintf("Usage:     %s of %s (%.1f%%)\n", humanize.IBytes(uint64(size)), humanize.IBytes(uint64(quota)), percent)
	if percent >= warnPercent {
		_, _ = yellow.Fprint(w, usage)
	} else {
		_, _ = fmt.Fprint(w, usage)
	}

	_, _ = fmt.Fprintf(w, "Links:     %s active, %s favorites, %s in trash\n",
		humanize.Comma(int64(counts.All)), humanize.Comma(int64(counts.Favorites)), humanize.Comma(int64(counts.Trash)))
	_, _ = fmt.Fprintf(w, "Folders:   %d\n", len(e.Store.Folders()))
}

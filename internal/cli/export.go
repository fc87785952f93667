package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/Samyk00/LinkVault/internal/app"
	"github.com/Samyk00/LinkVault/internal/config"
	"github.com/Samyk00/LinkVault/internal/persistence"
)

func newExportCmd() *cobra.Command {
	var out, label string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of every link, folder and setting",
		Example: dedent.Dedent(`
			# Write linkvault-backup-YYYY-MM-DD.json in the current directory
			linkvault export

			# Name the backup after what it is for
			linkvault export --label "before cleanup"

			# Print to stdout
			linkvault export --out -`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *app.Engine, _ *config.Config) error {
				data, err := e.Store.ExportData(cmd.Context())
				if err != nil {
					return err
				}

				if out == "-" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if out == "" {
					out = persistence.BackupFilename(label, time.Now())
				}
				if err := os.WriteFile(out, data, 0o600); err != nil {
					return fmt.Errorf("failed to write backup: %w", err)
				}
				printOK(cmd.OutOrStdout(), "Exported %s to %s", humanize.IBytes(uint64(len(data))), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", `output file ("-" for stdout)`)
	cmd.Flags().StringVarP(&label, "label", "l", "", "label folded into the default file name")
	return cmd
}

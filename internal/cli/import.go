package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/Samyk00/LinkVault/internal/app"
	"github.com/Samyk00/LinkVault/internal/config"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole dataset with a backup",
		Long: `Replaces every link, folder and setting with the contents of a backup
written by export. The backup is validated first; a rejected file leaves the
dataset untouched.`,
		Example: dedent.Dedent(`
			linkvault import linkvault-backup-2026-03-14.json

			# Read from stdin
			cat backup.json | linkvault import -`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			return withEngine(cmd, func(e *app.Engine, _ *config.Config) error {
				snap, err := e.Store.ImportData(cmd.Context(), data)
				if err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Imported %d links and %d folders", len(snap.Links), len(snap.Folders))
				return nil
			})
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return data, nil
}

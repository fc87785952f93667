package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Samyk00/LinkVault/internal/app"
	"github.com/Samyk00/LinkVault/internal/config"
)

var errResetAborted = errors.New("reset aborted")

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every link, folder and setting",
		Long: `Wipes the dataset and seeds the platform folders again. There is no undo;
run export first if you may want the data back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *app.Engine, cfg *config.Config) error {
				if !yes {
					counts := e.Store.Counts()
					_, _ = red.Fprintf(cmd.ErrOrStderr(), "This permanently deletes %d links from namespace %q.\n",
						counts.All+counts.Trash, cfg.Namespace)
					_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Type 'yes' to continue: ")

					answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
						return errResetAborted
					}
				}

				if err := e.Store.Reset(cmd.Context()); err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Dataset reset")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

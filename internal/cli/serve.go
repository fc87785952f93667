package cli

import (
	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/Samyk00/LinkVault/internal/app"
	"github.com/Samyk00/LinkVault/internal/config"
	"github.com/Samyk00/LinkVault/internal/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Example: dedent.Dedent(`
			# Serve from a local SQLite file
			LINKVAULT_BACKEND=sqlite LINKVAULT_SQLITE_PATH=vault.db linkvault serve

			# Share one dataset between several instances through Redis
			LINKVAULT_BACKEND=redis LINKVAULT_REDIS_ADDR=localhost:6379 linkvault serve`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}

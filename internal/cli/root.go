// Package cli is the linkvault command line: the HTTP server plus offline
// maintenance commands that open the same dataset directly.
package cli

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Samyk00/LinkVault/internal/app"
	"github.com/Samyk00/LinkVault/internal/config"
	"github.com/Samyk00/LinkVault/internal/logger"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	bold   = color.New(color.Bold)
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "linkvault",
		Short: "Bookmark vault with folders, favorites and a trash",
		Long: `linkvault keeps links saved from YouTube, GitHub, Reddit and other sites,
organised in two-level folders, with favorites and a recoverable trash.

Every command reads its configuration from LINKVAULT_* environment variables.
Processes pointed at the same backend and namespace share one dataset and
pick up each other's writes.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(
		newServeCmd(),
		newExportCmd(),
		newImportCmd(),
		newStorageCmd(),
		newResetCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// withEngine opens the configured dataset for a one-shot command. Logs stay
// at warn and above so command output is not drowned.
func withEngine(cmd *cobra.Command, fn func(*app.Engine, *config.Config) error) error {
	cfg := config.Load()
	level := cfg.LogLevel
	if level == "info" {
		level = "warn"
	}
	log := logger.New(level, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	engine, err := app.OpenEngine(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	return fn(engine, cfg)
}

func printOK(w io.Writer, format string, args ...any) {
	_, _ = green.Fprint(w, "✔ ")
	_, _ = bold.Fprintf(w, format+"\n", args...)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/ohada_reporting_app/internal/platform/app"
	"github.com/SscSPs/ohada_reporting_app/internal/platform/config"
	"github.com/spf13/cobra"
)

// cli holds the state shared by the subcommands. The application is built
// lazily so commands that only need configuration do not connect to a backend.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
	app    *app.App
}

func (c *cli) preRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	c.cfg = cfg
	// command output goes to stdout, logs to stderr
	c.logger = app.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(c.logger)
	return nil
}

func (c *cli) application(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.New(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
	}
}

// newRootCommand creates the command tree.
func newRootCommand(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "ohada_cli",
		Short:             "Generate OHADA ledgers and trial balances from SAP extracts",
		SilenceUsage:      true,
		PersistentPreRunE: c.preRun,
	}

	rootCmd.AddCommand(reportCommand(c))
	rootCmd.AddCommand(typesCommand())
	rootCmd.AddCommand(journalCommand(c))
	rootCmd.AddCommand(cacheCommands(c))
	rootCmd.AddCommand(tokenCommand(c))

	return rootCmd
}

func main() {
	c := &cli{}
	err := newRootCommand(c).Execute()
	c.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	cfgPkg "github.com/xhad/kbase/pkg/config"
	"github.com/xhad/kbase/pkg/logger"
)

var (
	cfgFile  string
	logLevel string
	cfg      *cfgPkg.Config
)

var rootCmd = &cobra.Command{
	Use:   "kbase",
	Short: "Marketplace knowledge base",
	Long: `kbase collects marketplace documents, embeds them and upserts them into the
knowledge base, then answers questions against it.

With no subcommand it uploads and then starts the interactive query.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		if err := runUpload(cmd.Context(), d); err != nil {
			return err
		}
		return runQuery(cmd.Context(), d, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := cfgPkg.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	logger.Init(c.Log.Level, c.Log.Format)

	if err := c.RequireStore(); err != nil {
		return err
	}

	var errs []error
	for _, verr := range c.Validate() {
		errs = append(errs, verr)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	cfg = c
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

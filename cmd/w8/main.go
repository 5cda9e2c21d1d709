package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"w8/internal/app"
	"w8/internal/config"
	"w8/internal/logging"
)

func main() {
	cfg, cfgErr := config.Load()
	rootCmd := newRootCmd(&cfg)
	if cfgErr != nil {
		fmt.Fprintln(os.Stderr, "w8 config warning:", cfgErr)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "w8:", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var verbose bool
	scan := newScanCmd(cfg, &verbose)
	root := &cobra.Command{
		Use:           "w8",
		Short:         "Get file, package and directory weights for your project.",
		Version:       "1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          scan.RunE,
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug output to stderr")
	// The bare command behaves like scan.
	root.Flags().AddFlagSet(scan.Flags())
	root.AddCommand(scan, newBrowseCmd(cfg, &verbose), newHistoryCmd(cfg, &verbose))
	return root
}

func newScanCmd(cfg *config.Config, verbose *bool) *cobra.Command {
	var upload, browse, saveConfig, noHistory bool
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Weigh a source tree and write a snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Path = args[0]
			}
			if noHistory {
				cfg.History = false
			}
			logger, err := logging.New(*verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if saveConfig {
				if err := config.SaveConfig(*cfg, config.ConfigPath()); err != nil {
					logger.Warn("config not saved", zap.Error(err))
				}
			}
			_, err = app.Scan(context.Background(), app.Options{
				Config: *cfg,
				Logger: logger,
				Out:    cmd.OutOrStdout(),
				Upload: upload,
				Browse: browse,
			})
			return err
		},
	}
	config.BindScanFlags(cmd.Flags(), cfg)
	cmd.Flags().BoolVar(&cfg.History, "history", cfg.History, "Record the run in the history ledger")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history ledger")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload the snapshot to the configured artifact bucket")
	cmd.Flags().BoolVar(&browse, "browse", false, "Open the interactive browser after the scan")
	cmd.Flags().BoolVar(&saveConfig, "save-config", false, "Persist the effective settings to the config file")
	return cmd
}

func newBrowseCmd(cfg *config.Config, verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [snapshot]",
		Short: "Explore a snapshot (defaults to the newest one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(*verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return app.BrowseSnapshot(app.Options{Config: *cfg, Logger: logger, Out: cmd.OutOrStdout()}, path)
		},
	}
	config.BindOutputFlags(cmd.Flags(), cfg)
	return cmd
}

func newHistoryCmd(cfg *config.Config, verbose *bool) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(*verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return app.History(app.Options{Config: *cfg, Logger: logger, Out: cmd.OutOrStdout()}, limit)
		},
	}
	config.BindOutputFlags(cmd.Flags(), cfg)
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")
	return cmd
}

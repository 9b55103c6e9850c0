package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"portfolio/internal/domain/config"
	"portfolio/internal/logger"
)

type rootOptions struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Personal portfolio and blog server",
		Long: `portfolio serves a personal site with a blog page that aggregates
articles published on dev.to (or any RSS/Atom feed) and filters them by tag.

Example usage:
  portfolio serve               # serve on :8080 and revalidate every 30m
  portfolio serve --dev         # reload pages and theme on change
  portfolio build               # write the static site to public/
  portfolio tags --limit 0      # list every tag with its count`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(opts.configPath)
			if err != nil {
				return fmt.Errorf("config %s: %w", opts.configPath, err)
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			if err := logger.Init(cfg.Log); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "site.yaml", "config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newBuildCmd(opts),
		newTagsCmd(opts),
	)
	return cmd
}

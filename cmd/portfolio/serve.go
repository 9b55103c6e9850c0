package main

import (
	"errors"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"portfolio/internal/app"
	"portfolio/internal/domain/content"
	"portfolio/internal/index"
	"portfolio/internal/ingest"
	"portfolio/internal/logger"
	"portfolio/internal/render"
	"portfolio/internal/revalidate"
	"portfolio/internal/serve"
	"syscall"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr string
		dev  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site, revalidating articles in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}
			if cmd.Flags().Changed("dev") {
				cfg.Serve.Dev = dev
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, err := ingest.NewSource(cfg.Source)
			if err != nil {
				return err
			}
			st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
			if err != nil {
				return err
			}
			defer st.Close()

			cache := revalidate.New(src, revalidate.Options{
				Interval: cfg.Revalidate.Interval,
				Schedule: cfg.Revalidate.Schedule,
				Timeout:  cfg.Source.Timeout,
				Store:    st,
			})
			if snap, err := st.Load(); err == nil {
				logger.Infof("[serve] using stored snapshot from %s (%d articles)", snap.FetchedAt.Format("2006-01-02 15:04"), len(snap.Articles))
				cache.Seed(snap)
			} else if !errors.Is(err, index.ErrNotFound) {
				logger.Warnf("[serve] stored snapshot unreadable: %v", err)
			}
			if err := cache.Start(); err != nil {
				return err
			}
			defer cache.Close()

			pages, warns, err := ingest.ParsePages(cfg.Build.PagesDir)
			if err != nil {
				return err
			}
			for _, w := range warns {
				logger.Warnf("[serve] %s: %s", w.Path, w.Msg)
			}
			tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir, cfg.Site.Theme)
			if err != nil {
				return err
			}
			logger.Infof("[serve] theme %s, %d pages", tpl.Source, len(pages))

			srv := serve.New(cfg, cache, app.NewSite(cfg.Site, tpl, pages))
			defer srv.Close()
			cache.OnChange(func(content.Snapshot) { srv.Broadcast("reload") })

			go func() {
				if _, err := cache.Get(ctx); err != nil {
					logger.Warnf("[serve] initial fetch failed: %v", err)
				}
			}()

			return srv.ListenAndServe(ctx, cfg.Serve.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&dev, "dev", false, "watch pages and theme and live-reload browsers")
	return cmd
}

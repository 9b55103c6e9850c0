package ingest

import (
	"context"
	"fmt"
	"net/http"
	"portfolio/internal/domain/config"
	"portfolio/internal/domain/content"
	"portfolio/internal/logger"
	"portfolio/internal/metrics"
	"time"
)

// Source fetches the complete article list in one call. A failed call yields
// no articles at all.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (content.Snapshot, error)
}

const (
	userAgent      = "portfolio/1.0 (+https://joelw.dev)"
	maxPayloadSize = 8 << 20
)

func NewSource(cfg config.SourceConfig) (Source, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	switch cfg.Type {
	case config.SourceDevTo, "":
		return NewDevToSource(client, cfg.BaseURL, cfg.Username), nil
	case config.SourceFeed:
		return NewFeedSource(client, cfg.FeedURL, cfg.Username), nil
	default:
		return nil, fmt.Errorf("ingest: unsupported source type %q", cfg.Type)
	}
}

// Fetch runs src once and records the outcome.
func Fetch(ctx context.Context, src Source) (content.Snapshot, error) {
	start := time.Now()
	snap, err := src.Fetch(ctx)
	metrics.FetchDuration.WithLabelValues(src.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchTotal.WithLabelValues(src.Name(), "error").Inc()
		logger.Warnf("[ingest] %s fetch failed after %s: %v", src.Name(), time.Since(start).Round(time.Millisecond), err)
		return content.Snapshot{}, err
	}
	metrics.FetchTotal.WithLabelValues(src.Name(), "ok").Inc()
	logger.Infof("[ingest] %s fetched %d articles in %s", src.Name(), len(snap.Articles), time.Since(start).Round(time.Millisecond))
	return snap, nil
}

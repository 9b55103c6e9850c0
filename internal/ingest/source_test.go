package ingest

import (
	"context"
	"errors"
	"portfolio/internal/domain/config"
	"portfolio/internal/domain/content"
	"portfolio/internal/metrics"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	cfg := config.Default().Source

	src, err := NewSource(cfg)
	require.NoError(t, err)
	assert.IsType(t, &DevToSource{}, src)
	assert.Equal(t, "https://dev.to/api/articles?username=joelzwarrington", src.(*DevToSource).endpoint())

	cfg.Type = config.SourceFeed
	cfg.FeedURL = "https://dev.to/feed/joelzwarrington"
	src, err = NewSource(cfg)
	require.NoError(t, err)
	assert.IsType(t, &FeedSource{}, src)

	cfg.Type = "gopher"
	_, err = NewSource(cfg)
	assert.Error(t, err)
}

type stubSource struct {
	name string
	snap content.Snapshot
	err  error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(context.Context) (content.Snapshot, error) {
	return s.snap, s.err
}

func TestFetchRecordsOutcome(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.FetchTotal.WithLabelValues("stub-ingest", "ok"))
	errBefore := testutil.ToFloat64(metrics.FetchTotal.WithLabelValues("stub-ingest", "error"))

	snap, err := Fetch(context.Background(), stubSource{
		name: "stub-ingest",
		snap: content.Snapshot{Articles: []content.Article{{ID: 1}}},
	})
	require.NoError(t, err)
	assert.Len(t, snap.Articles, 1)

	_, err = Fetch(context.Background(), stubSource{name: "stub-ingest", err: errors.New("down")})
	assert.Error(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.FetchTotal.WithLabelValues("stub-ingest", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.FetchTotal.WithLabelValues("stub-ingest", "error")))
}

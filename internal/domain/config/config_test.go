package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	domainerr "portfolio/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.Equal(t, 30*time.Minute, Default().Revalidate.Interval)
	assert.Equal(t, SourceDevTo, Default().Source.Type)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
site:
  title: Example
  email: me@example.com
source:
  username: someone
  timeout: 5s
revalidate:
  interval: 10m
  schedule: "@every 1h"
serve:
  addr: ":9090"
  dev: true
`))
	require.NoError(t, err)

	assert.Equal(t, "Example", cfg.Site.Title)
	assert.Equal(t, "me@example.com", cfg.Site.Email)
	assert.Equal(t, "https://joelw.dev", cfg.Site.SiteURL)
	assert.Equal(t, "someone", cfg.Source.Username)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Revalidate.Interval)
	assert.Equal(t, "@every 1h", cfg.Revalidate.Schedule)
	assert.Equal(t, ":9090", cfg.Serve.Addr)
	assert.True(t, cfg.Serve.Dev)
	assert.False(t, cfg.Build.Now.IsZero())
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_HANDLE", "from-env")

	cfg, err := Parse([]byte("source:\n  username: ${PORTFOLIO_TEST_HANDLE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Source.Username)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Site.Title = " "
	cfg.Site.SiteURL = "ftp://nope"
	cfg.Source.Type = "carrier-pigeon"
	cfg.Revalidate.Interval = 0
	cfg.Revalidate.Schedule = "not a cron"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerr.ErrInvalid))

	var ve domainerr.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := make([]string, 0, len(ve.Items))
	for _, it := range ve.Items {
		fields = append(fields, it.Field)
	}
	assert.ElementsMatch(t, []string{
		"site.title",
		"site.site_url",
		"source.type",
		"revalidate.interval",
		"revalidate.schedule",
		"log.level",
	}, fields)
}

func TestValidateFeedSource(t *testing.T) {
	cfg := Default()
	cfg.Source.Type = SourceFeed
	assert.Error(t, cfg.Validate())

	cfg.Source.FeedURL = "https://dev.to/feed/someone"
	assert.NoError(t, cfg.Validate())
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Site.Title, cfg.Site.Title)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: From File\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From File", cfg.Site.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

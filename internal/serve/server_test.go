package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"portfolio/internal/app"
	"portfolio/internal/blog"
	"portfolio/internal/domain/config"
	"portfolio/internal/domain/content"
	"portfolio/internal/render"
	"portfolio/internal/revalidate"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArticles struct {
	snap content.Snapshot
	err  error
}

func (f *fakeArticles) Get(context.Context) (content.Snapshot, error) {
	return f.snap, f.err
}

func (f *fakeArticles) Status() revalidate.Status {
	st := revalidate.Status{Source: f.snap.Source, Articles: len(f.snap.Articles), FetchedAt: f.snap.FetchedAt, Fingerprint: f.snap.Fingerprint}
	if f.err != nil {
		st.LastError = f.err.Error()
	}
	return st
}

func testSnapshot() content.Snapshot {
	return content.Snapshot{
		Articles: []content.Article{
			{ID: 1, Title: "Go one", Tags: []string{"go"}, PublishedAt: "2024-01-01T00:00:00Z"},
			{ID: 2, Title: "Ruby", Tags: []string{"ruby"}, PublishedAt: "2024-01-02T00:00:00Z"},
			{ID: 3, Title: "Go web", Tags: []string{"go", "web"}, PublishedAt: "2024-01-03T00:00:00Z"},
		},
		FetchedAt:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Fingerprint: "fp1",
		Source:      "devto",
	}
}

func newTestServer(t *testing.T, articles Articles, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	root := t.TempDir()
	cfg.Build.PagesDir = filepath.Join(root, "pages")
	cfg.Build.ThemeDir = filepath.Join(root, "themes")
	if mutate != nil {
		mutate(&cfg)
	}
	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir, cfg.Site.Theme)
	require.NoError(t, err)
	return New(cfg, articles, app.NewSite(cfg.Site, tpl, nil))
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPages(t *testing.T) {
	h := newTestServer(t, &fakeArticles{snap: testSnapshot()}, nil).Handler()

	tests := []struct {
		path string
		code int
		want string
	}{
		{"/", http.StatusOK, "Hello, my name is"},
		{"/about", http.StatusOK, "<title>About | Joel Warrington</title>"},
		{"/contact", http.StatusOK, "Want to get in touch"},
		{"/blog", http.StatusOK, "<title>Blog | Joel Warrington</title>"},
		{"/blog/", http.StatusOK, "<title>Blog | Joel Warrington</title>"},
		{"/blog/hello-world", http.StatusOK, "Blog Page: hello-world"},
		{"/does/not/exist", http.StatusNotFound, "404: page not found"},
		{"/static/nope.css", http.StatusNotFound, "404: page not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestBlogFilterByQuery(t *testing.T) {
	h := newTestServer(t, &fakeArticles{snap: testSnapshot()}, nil).Handler()

	rec := get(t, h, "/blog?tag=go")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<article class="card" data-id="1">`)
	assert.Contains(t, body, `<article class="card" hidden data-id="2">`)
	assert.Contains(t, body, `<article class="card" data-id="3">`)
	assert.Equal(t, "public, s-maxage=1800, stale-while-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, `"fp1"`, rec.Header().Get("ETag"))

	rec = get(t, h, "/blog")
	assert.NotContains(t, rec.Body.String(), " hidden ")
}

func TestAPIArticles(t *testing.T) {
	h := newTestServer(t, &fakeArticles{snap: testSnapshot()}, nil).Handler()

	rec := get(t, h, "/api/articles?tag=web&tag=ruby&tag=web")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var view blog.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, []string{"web", "ruby"}, view.Selected)
	assert.Equal(t, []string{"go", "ruby", "web"}, view.Tags)
	require.Len(t, view.Articles, 2)
	assert.EqualValues(t, 2, view.Articles[0].ID)
	assert.EqualValues(t, 3, view.Articles[1].ID)

	rec = get(t, h, "/api/articles")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Articles, 3)
	assert.Empty(t, view.Selected)
}

func TestUpstreamFailureWithoutSnapshot(t *testing.T) {
	h := newTestServer(t, &fakeArticles{err: errors.New("GET https://dev.to: unexpected status 503")}, nil).Handler()

	rec := get(t, h, "/blog")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "500: error processing your request")

	rec = get(t, h, "/api/articles")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"articles unavailable"}`, rec.Body.String())

	rec = get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code, "pages without articles still render")

	rec = get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, &fakeArticles{snap: testSnapshot()}, nil).Handler()

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Cache  revalidate.Status `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 3, body.Cache.Articles)
	assert.Equal(t, "fp1", body.Cache.Fingerprint)

	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `portfolio_http_requests_total{code="200",route="GET /healthz"}`)
}

func TestStaticAssets(t *testing.T) {
	h := newTestServer(t, &fakeArticles{snap: testSnapshot()}, nil).Handler()

	rec := get(t, h, "/static/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestDevEventsOnlyInDevMode(t *testing.T) {
	h := newTestServer(t, &fakeArticles{snap: testSnapshot()}, nil).Handler()
	assert.Equal(t, http.StatusNotFound, get(t, h, "/dev/events").Code)
}

func TestLiveReloadBroadcast(t *testing.T) {
	s := newTestServer(t, &fakeArticles{snap: testSnapshot()}, func(c *config.Config) { c.Serve.Dev = true })
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/dev/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	line, err := rd.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: hello\n", line)
	_, _ = rd.ReadString('\n')

	s.Broadcast("reload")
	line, err = rd.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: reload\n", line)

	home := get(t, s.Handler(), "/")
	assert.Contains(t, home.Body.String(), "/static/live.js")
}

func TestReloadPicksUpPages(t *testing.T) {
	s := newTestServer(t, &fakeArticles{snap: testSnapshot()}, nil)
	h := s.Handler()
	assert.NotContains(t, get(t, h, "/about").Body.String(), "Freshly written")

	require.NoError(t, os.MkdirAll(s.cfg.Build.PagesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.cfg.Build.PagesDir, "about.md"),
		[]byte("---\ntitle: About\n---\nFreshly written.\n"), 0o644))
	require.NoError(t, s.reload())

	body, err := io.ReadAll(get(t, h, "/about").Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "Freshly written."))
}

type brokenBlogRenderer struct {
	render.Renderer
}

func (brokenBlogRenderer) RenderBlog(context.Context, render.BlogPage) ([]byte, error) {
	return nil, errors.New(`template: blog.tmpl: can't evaluate field Missing`)
}

func TestRenderFailureIsNotCacheable(t *testing.T) {
	cfg := config.Default()
	tpl, err := render.NewTemplateRenderer("", "")
	require.NoError(t, err)
	s := New(cfg, &fakeArticles{snap: testSnapshot()}, app.NewSite(cfg.Site, brokenBlogRenderer{tpl}, nil))

	rec := get(t, s.Handler(), "/blog?tag=go")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "500: error processing your request")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("ETag"))
}

func TestAPIFailureIsNotCacheable(t *testing.T) {
	h := newTestServer(t, &fakeArticles{err: errors.New("upstream down")}, nil).Handler()

	rec := get(t, h, "/api/articles")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

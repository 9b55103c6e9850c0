package build

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"portfolio/internal/app"
	"portfolio/internal/blog"
	"portfolio/internal/domain/config"
	"portfolio/internal/domain/content"
	"portfolio/internal/domain/site"
	"portfolio/internal/index"
	"portfolio/internal/ingest"
	"portfolio/internal/logger"
	"portfolio/internal/render"
	"time"
)

type Builder struct {
	Cfg config.Config
	// Source and Renderer default to the ones the config describes.
	Source   ingest.Source
	Renderer render.Renderer
}

type Result struct {
	Articles    int
	Tags        []string
	Files       int
	Fingerprint string
	Warnings    []ingest.Warning
}

// Run fetches the articles once and writes the whole site. A failed fetch
// aborts before anything is written.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	src := b.Source
	if src == nil {
		var err error
		if src, err = ingest.NewSource(b.Cfg.Source); err != nil {
			return nil, err
		}
	}
	snap, err := ingest.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	pages, warns, err := ingest.ParsePages(b.Cfg.Build.PagesDir)
	if err != nil {
		return nil, fmt.Errorf("parse pages: %w", err)
	}
	for _, w := range warns {
		logger.Warnf("[build] %s: %s", w.Path, w.Msg)
	}

	if err := b.persist(snap); err != nil {
		return nil, err
	}

	tpl := b.Renderer
	if tpl == nil {
		themeDir := b.Cfg.Build.ThemeDir
		r, err := render.NewTemplateRenderer(themeDir, b.Cfg.Site.Theme)
		if err != nil {
			return nil, fmt.Errorf("load themes(%s): %w", themeDir, err)
		}
		tpl = r.WithClock(func() time.Time { return b.Cfg.Build.Now })
	}

	outDir := filepath.Clean(b.Cfg.Build.PublicDir)
	if err := os.MkdirAll(filepath.Dir(outDir), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}
	stage, err := os.MkdirTemp(filepath.Dir(outDir), "."+filepath.Base(outDir)+"-build-")
	if err != nil {
		return nil, fmt.Errorf("mkdir staging dir: %w", err)
	}
	defer os.RemoveAll(stage)
	if err := os.Chmod(stage, 0o755); err != nil {
		return nil, err
	}

	s := app.NewSite(b.Cfg.Site, tpl, pages)
	files, err := b.writeSite(ctx, s, snap.Articles, stage)
	if err != nil {
		return nil, err
	}
	if err := publish(stage, outDir); err != nil {
		return nil, fmt.Errorf("publish %s: %w", outDir, err)
	}

	logger.Infof("[build] wrote %d files for %d articles to %s", files, len(snap.Articles), outDir)
	return &Result{
		Articles:    len(snap.Articles),
		Tags:        blog.CommonTags(snap.Articles),
		Files:       files,
		Fingerprint: snap.Fingerprint,
		Warnings:    warns,
	}, nil
}

// writeSite renders every route and the theme assets under dir.
func (b *Builder) writeSite(ctx context.Context, s *app.Site, articles []content.Article, dir string) (int, error) {
	rb := app.NewRouteBuilder(articles)
	files := 0
	for _, rt := range rb.Routes() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		data, err := b.renderRoute(ctx, s, rb, rt, articles)
		if err != nil {
			return 0, fmt.Errorf("build %s: %w", rt, err)
		}
		if err := writeFile(dir, rt.OutPath, data); err != nil {
			return 0, err
		}
		files++
	}

	n, err := copyStaticAssets(s.Static(), dir)
	if err != nil {
		return 0, fmt.Errorf("copy static assets: %w", err)
	}
	return files + n, nil
}

// publish swaps the staged tree in for outDir. The previous tree is removed
// only after the new one is in place.
func publish(stage, outDir string) error {
	old := stage + ".old"
	hadOld := false
	if _, err := os.Stat(outDir); err == nil {
		if err := os.Rename(outDir, old); err != nil {
			return err
		}
		hadOld = true
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.Rename(stage, outDir); err != nil {
		if hadOld {
			_ = os.Rename(old, outDir)
		}
		return err
	}
	if hadOld {
		return os.RemoveAll(old)
	}
	return nil
}

func (b *Builder) persist(snap content.Snapshot) error {
	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()
	if err := st.Save(snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (b *Builder) renderRoute(ctx context.Context, s *app.Site, rb *app.RouteBuilder, rt site.Route, articles []content.Article) ([]byte, error) {
	switch rt.Kind {
	case site.RouteHome:
		return s.Home(ctx)
	case site.RouteAbout:
		return s.About(ctx)
	case site.RouteContact:
		return s.Contact(ctx)
	case site.RouteBlog:
		return s.Blog(ctx, articles, nil, rb.StaticHref)
	case site.RouteBlogTag:
		return s.Blog(ctx, articles, []string{rt.Key}, rb.StaticHref)
	case site.RouteAPI:
		return json.MarshalIndent(blog.Derive(articles, nil), "", "  ")
	case site.RouteNotFound:
		return s.NotFound(ctx, "")
	case site.RouteError:
		return s.Error(ctx, "")
	default:
		return nil, fmt.Errorf("unsupported route kind %q", rt.Kind)
	}
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func copyStaticAssets(static fs.FS, outDir string) (int, error) {
	if static == nil {
		return 0, nil
	}
	n := 0
	err := fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// a theme without a static directory
			if path == "." && os.IsNotExist(err) {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		n++
		return writeFile(filepath.Join(outDir, "static"), filepath.FromSlash(path), in)
	})
	return n, err
}

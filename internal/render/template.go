package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"github.com/dustin/go-humanize"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"portfolio/internal/domain/content"
	"strings"
	"time"
)

//go:embed theme
var defaultTheme embed.FS

var requiredTemplates = []string{
	"partials.tmpl",
	"home.tmpl",
	"about.tmpl",
	"contact.tmpl",
	"blog.tmpl",
	"post.tmpl",
	"404.tmpl",
	"500.tmpl",
}

type TemplateRenderer struct {
	tpl    *template.Template
	static fs.FS
	now    func() time.Time
	// Source is the directory the theme was loaded from, or "embedded".
	Source string
}

// NewTemplateRenderer loads themeDir/themeName when that directory exists and
// falls back to the built-in theme otherwise.
func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	root, source, err := themeFS(themeDir, themeName)
	if err != nil {
		return nil, err
	}
	if err := CheckThemeTemplates(root); err != nil {
		return nil, fmt.Errorf("render: theme %s: %w", source, err)
	}

	r := &TemplateRenderer{now: time.Now, Source: source}
	tpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(root, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse theme %s: %w", source, err)
	}
	r.tpl = tpl

	static, err := fs.Sub(root, "static")
	if err != nil {
		return nil, err
	}
	r.static = static
	return r, nil
}

func themeFS(themeDir, themeName string) (fs.FS, string, error) {
	if themeDir != "" && themeName != "" {
		dir := filepath.Join(themeDir, themeName)
		if st, err := os.Stat(filepath.Join(dir, "templates")); err == nil && st.IsDir() {
			return os.DirFS(dir), dir, nil
		}
	}
	sub, err := fs.Sub(defaultTheme, "theme")
	if err != nil {
		return nil, "", err
	}
	return sub, "embedded", nil
}

// WithClock fixes the time relative dates are computed against.
func (r *TemplateRenderer) WithClock(now func() time.Time) *TemplateRenderer {
	r.now = now
	return r
}

func (r *TemplateRenderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"ago": func(a content.Article) string {
			t := a.Published()
			if t.IsZero() {
				return a.PublishedAt
			}
			return humanize.RelTime(t, r.now(), "ago", "from now")
		},
		"date": func(a content.Article, layout string) string {
			t := a.Published()
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"minRead": func(n int) string {
			return fmt.Sprintf("%d min read", n)
		},
		"nowYear": func() int {
			return r.now().Year()
		},
		"brand": func(siteURL string) string {
			s := strings.TrimPrefix(strings.TrimPrefix(siteURL, "https://"), "http://")
			return strings.TrimSuffix(s, "/")
		},
		"mailto": func(addr string) string {
			if addr == "" || strings.HasPrefix(addr, "mailto:") {
				return addr
			}
			return "mailto:" + addr
		},
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderAbout(ctx context.Context, page TextPage) ([]byte, error) {
	return r.exec("about.tmpl", page)
}

func (r *TemplateRenderer) RenderContact(ctx context.Context, page ContactPage) ([]byte, error) {
	return r.exec("contact.tmpl", page)
}

func (r *TemplateRenderer) RenderBlog(ctx context.Context, page BlogPage) ([]byte, error) {
	return r.exec("blog.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page ErrorPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) RenderError(ctx context.Context, page ErrorPage) ([]byte, error) {
	return r.exec("500.tmpl", page)
}

func (r *TemplateRenderer) Static() fs.FS {
	return r.static
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CheckThemeTemplates reports the first template a theme is missing.
func CheckThemeTemplates(theme fs.FS) error {
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(theme, "templates/"+name); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}

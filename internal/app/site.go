package app

import (
	"context"
	"fmt"
	"io/fs"
	"portfolio/internal/domain/config"
	"portfolio/internal/domain/content"
	"portfolio/internal/domain/site"
	"portfolio/internal/render"
	"sync"
)

// Site renders every page of the portfolio. Markdown pages can be swapped
// at runtime with SetPages.
type Site struct {
	Cfg      config.SiteConfig
	Renderer render.Renderer
	Markdown *render.MarkdownRenderer
	Dev      bool

	mu    sync.RWMutex
	pages map[string]content.Page
}

func NewSite(cfg config.SiteConfig, r render.Renderer, pages map[string]content.Page) *Site {
	s := &Site{
		Cfg:      cfg,
		Renderer: r,
		Markdown: render.NewMarkdownRenderer(),
	}
	s.SetPages(pages)
	return s
}

func (s *Site) SetPages(pages map[string]content.Page) {
	if pages == nil {
		pages = map[string]content.Page{}
	}
	s.mu.Lock()
	s.pages = pages
	s.mu.Unlock()
}

func (s *Site) SetRenderer(r render.Renderer) {
	s.mu.Lock()
	s.Renderer = r
	s.mu.Unlock()
}

func (s *Site) page(slug string) (*content.Page, render.Renderer) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.pages[slug]; ok {
		return &p, s.Renderer
	}
	return nil, s.Renderer
}

func (s *Site) base(kind site.RouteKind, title string) render.Base {
	b := render.NewBase(s.Cfg, kind, title)
	b.Dev = s.Dev
	return b
}

func (s *Site) Home(ctx context.Context) ([]byte, error) {
	p, r := s.page("index")
	intro, err := s.Markdown.RenderPage(p)
	if err != nil {
		return nil, fmt.Errorf("render index.md: %w", err)
	}
	return r.RenderHome(ctx, render.HomePage{Base: s.base(site.RouteHome, ""), Intro: intro})
}

func (s *Site) About(ctx context.Context) ([]byte, error) {
	p, r := s.page("about")
	body, err := s.Markdown.RenderPage(p)
	if err != nil {
		return nil, fmt.Errorf("render about.md: %w", err)
	}
	page := render.TextPage{Base: s.base(site.RouteAbout, "About"), HTML: body}
	if p != nil {
		page.Page = *p
		if p.Title != "" {
			page.Title = site.PageTitle(p.Title, s.Cfg.Author)
		}
	}
	return r.RenderAbout(ctx, page)
}

func (s *Site) Contact(ctx context.Context) ([]byte, error) {
	p, r := s.page("contact")
	body, err := s.Markdown.RenderPage(p)
	if err != nil {
		return nil, fmt.Errorf("render contact.md: %w", err)
	}
	return r.RenderContact(ctx, render.ContactPage{Base: s.base(site.RouteContact, "Contact"), HTML: body})
}

// Blog renders the listing for one selection; href builds the tag chip links.
func (s *Site) Blog(ctx context.Context, articles []content.Article, selected []string, href render.TagHref) ([]byte, error) {
	r := s.renderer()
	page := render.NewBlogPage(s.base(site.RouteBlog, "Blog"), articles, selected, href)
	return r.RenderBlog(ctx, page)
}

func (s *Site) Post(ctx context.Context, slug string) ([]byte, error) {
	r := s.renderer()
	return r.RenderPost(ctx, render.PostPage{Base: s.base(site.RoutePost, "Blog"), Slug: slug})
}

func (s *Site) NotFound(ctx context.Context, path string) ([]byte, error) {
	r := s.renderer()
	return r.RenderNotFound(ctx, render.ErrorPage{Base: s.base(site.RouteNotFound, "Page not found"), Code: 404, Path: path})
}

func (s *Site) Error(ctx context.Context, msg string) ([]byte, error) {
	r := s.renderer()
	return r.RenderError(ctx, render.ErrorPage{Base: s.base(site.RouteError, "Error"), Code: 500, Message: msg})
}

func (s *Site) renderer() render.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Renderer
}

// Static returns the assets of the current theme.
func (s *Site) Static() fs.FS {
	return s.renderer().Static()
}

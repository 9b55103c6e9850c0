package render

import (
	"html/template"
	"portfolio/internal/blog"
	"portfolio/internal/domain/config"
	"portfolio/internal/domain/content"
	"portfolio/internal/domain/site"
	"time"
)

// Base carries what the shared header and footer need.
type Base struct {
	Site      config.SiteConfig
	Title     string
	Nav       []site.NavLink
	Active    site.RouteKind
	Dev       bool
	Generated time.Time
}

func NewBase(cfg config.SiteConfig, kind site.RouteKind, page string) Base {
	return Base{
		Site:   cfg,
		Title:  site.PageTitle(page, cfg.Author),
		Nav:    site.Navigation(),
		Active: kind,
	}
}

type HomePage struct {
	Base
	// Intro replaces the site description when pages/index.md exists.
	Intro template.HTML
}

type TextPage struct {
	Base
	Page content.Page
	HTML template.HTML
}

type ContactPage struct {
	Base
	HTML template.HTML
}

type TagChip struct {
	Name   string
	Active bool
	Href   string
}

type BlogPage struct {
	Base
	Cards    []blog.Card
	Tags     []TagChip
	Selected []string
	Visible  int
	// ClearHref resets the selection; empty when nothing is selected.
	ClearHref string
}

// TagHref maps a selection to the link that shows it.
type TagHref func(selection []string) string

// NewBlogPage derives the blog listing for one selection. Every article gets
// a card; the ones outside the filter are rendered hidden.
func NewBlogPage(base Base, all []content.Article, selected []string, href TagHref) BlogPage {
	view := blog.Derive(all, selected)
	chips := make([]TagChip, 0, len(view.Tags))
	for _, t := range view.Tags {
		chips = append(chips, TagChip{
			Name:   t,
			Active: blog.Contains(view.Selected, t),
			Href:   href(blog.Toggle(view.Selected, t)),
		})
	}
	page := BlogPage{
		Base:     base,
		Cards:    blog.Cards(all, view.Articles),
		Tags:     chips,
		Selected: view.Selected,
		Visible:  len(view.Articles),
	}
	if len(view.Selected) > 0 {
		page.ClearHref = href(nil)
	}
	return page
}

type PostPage struct {
	Base
	Slug string
}

type ErrorPage struct {
	Base
	Code    int
	Path    string
	Message string
}

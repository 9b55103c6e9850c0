package app

import (
	"fmt"
	"path"
	"path/filepath"
	"portfolio/internal/blog"
	"portfolio/internal/domain/content"
	"portfolio/internal/domain/site"
	"strings"
)

// RouteBuilder lays out the static site for one article list. Every common
// tag gets its own single-selection blog page.
type RouteBuilder struct {
	tags []string
	segs map[string]string
}

func NewRouteBuilder(articles []content.Article) *RouteBuilder {
	rb := &RouteBuilder{
		tags: blog.CommonTags(articles),
		segs: make(map[string]string),
	}
	used := make(map[string]bool)
	for _, t := range rb.tags {
		seg := safePathSegment(t)
		for i := 2; used[seg]; i++ {
			seg = fmt.Sprintf("%s-%d", safePathSegment(t), i)
		}
		used[seg] = true
		rb.segs[t] = seg
	}
	return rb
}

func (rb *RouteBuilder) PageRoutes() []site.Route {
	return []site.Route{
		{Kind: site.RouteHome, OutPath: "index.html"},
		{Kind: site.RouteAbout, Slug: "about", OutPath: filepath.Join("about", "index.html")},
		{Kind: site.RouteContact, Slug: "contact", OutPath: filepath.Join("contact", "index.html")},
		{Kind: site.RouteBlog, Slug: "blog", OutPath: filepath.Join("blog", "index.html")},
		{Kind: site.RouteAPI, Slug: "articles", OutPath: filepath.Join("api", "articles.json")},
		{Kind: site.RouteNotFound, OutPath: "404.html"},
		{Kind: site.RouteError, OutPath: "500.html"},
	}
}

func (rb *RouteBuilder) TagRoutes() []site.Route {
	routes := make([]site.Route, 0, len(rb.tags))
	for _, t := range rb.tags {
		seg := rb.segs[t]
		routes = append(routes, site.Route{
			Kind:    site.RouteBlogTag,
			Slug:    seg,
			Key:     t,
			OutPath: filepath.Join("blog", "tags", seg, "index.html"),
		})
	}
	return routes
}

func (rb *RouteBuilder) Routes() []site.Route {
	return append(rb.PageRoutes(), rb.TagRoutes()...)
}

// StaticHref links a selection to a prebuilt page. Only single-tag pages
// exist, so the most recently added tag wins.
func (rb *RouteBuilder) StaticHref(selection []string) string {
	if len(selection) == 0 {
		return "/blog/"
	}
	seg, ok := rb.segs[selection[len(selection)-1]]
	if !ok {
		return "/blog/"
	}
	return path.Join("/blog/tags", seg) + "/"
}

// DynamicHref links a selection to the served blog page.
func DynamicHref(selection []string) string {
	q := blog.Query(selection)
	if q == "" {
		return "/blog"
	}
	return "/blog?" + q
}

func safePathSegment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "untitled"
	}
	repl := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}
	return strings.Map(repl, s)
}

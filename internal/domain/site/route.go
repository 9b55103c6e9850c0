package site

import (
	"fmt"
	"strings"
)

type RouteKind string

const (
	RouteHome     RouteKind = "home"
	RouteAbout    RouteKind = "about"
	RouteContact  RouteKind = "contact"
	RouteBlog     RouteKind = "blog"
	RouteBlogTag  RouteKind = "blog-tag"
	RoutePost     RouteKind = "post"
	RouteAPI      RouteKind = "api"
	RouteNotFound RouteKind = "404"
	RouteError    RouteKind = "500"
)

type Route struct {
	Kind    RouteKind
	Slug    string
	Key     string
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// NavLink is one entry of the top navigation bar.
type NavLink struct {
	Label string
	Href  string
	Kind  RouteKind
}

func Navigation() []NavLink {
	return []NavLink{
		{Label: "Blog", Href: "/blog", Kind: RouteBlog},
		{Label: "About", Href: "/about", Kind: RouteAbout},
		{Label: "Contact", Href: "/contact", Kind: RouteContact},
	}
}

// PageTitle formats a browser title the way every page of the site does.
func PageTitle(page, owner string) string {
	switch {
	case page == "":
		return owner
	case owner == "":
		return page
	default:
		return fmt.Sprintf("%s | %s", page, owner)
	}
}

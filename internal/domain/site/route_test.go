package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteString(t *testing.T) {
	r := Route{Kind: RouteBlogTag, Key: "go", OutPath: "blog/tags/go/index.html"}
	assert.Equal(t, "blog-tag key=go out=blog/tags/go/index.html", r.String())
	assert.Equal(t, "home", Route{Kind: RouteHome}.String())
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Blog | Joel", PageTitle("Blog", "Joel"))
	assert.Equal(t, "Joel", PageTitle("", "Joel"))
	assert.Equal(t, "Blog", PageTitle("Blog", ""))
}

func TestNavigationOrder(t *testing.T) {
	nav := Navigation()
	if assert.Len(t, nav, 3) {
		assert.Equal(t, "/blog", nav[0].Href)
		assert.Equal(t, "/about", nav[1].Href)
		assert.Equal(t, "/contact", nav[2].Href)
	}
}

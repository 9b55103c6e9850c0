package app

import (
	"path/filepath"
	"portfolio/internal/domain/content"
	"portfolio/internal/domain/site"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRoutesFollowCommonTags(t *testing.T) {
	rb := NewRouteBuilder([]content.Article{
		{ID: 1, Tags: []string{"go", "Web Dev"}},
		{ID: 2, Tags: []string{"go", "web-dev"}},
	})

	routes := rb.TagRoutes()
	require.Len(t, routes, 3)
	assert.Equal(t, site.Route{
		Kind:    site.RouteBlogTag,
		Slug:    "go",
		Key:     "go",
		OutPath: filepath.Join("blog", "tags", "go", "index.html"),
	}, routes[0])
	assert.Equal(t, "web-dev", routes[1].Slug)
	assert.Equal(t, "web-dev-2", routes[2].Slug, "colliding segments are numbered")
	assert.Equal(t, "web-dev", routes[2].Key)
}

func TestRoutesIncludeEveryPage(t *testing.T) {
	rb := NewRouteBuilder(nil)
	kinds := map[site.RouteKind]bool{}
	for _, r := range rb.Routes() {
		kinds[r.Kind] = true
	}
	for _, k := range []site.RouteKind{site.RouteHome, site.RouteAbout, site.RouteContact, site.RouteBlog, site.RouteAPI, site.RouteNotFound, site.RouteError} {
		assert.True(t, kinds[k], "missing %s", k)
	}
	assert.Empty(t, rb.TagRoutes())
}

func TestHrefs(t *testing.T) {
	rb := NewRouteBuilder([]content.Article{{ID: 1, Tags: []string{"go", "web dev"}}})

	assert.Equal(t, "/blog/", rb.StaticHref(nil))
	assert.Equal(t, "/blog/tags/go/", rb.StaticHref([]string{"go"}))
	assert.Equal(t, "/blog/tags/web-dev/", rb.StaticHref([]string{"go", "web dev"}))
	assert.Equal(t, "/blog/", rb.StaticHref([]string{"unknown"}))

	assert.Equal(t, "/blog", DynamicHref(nil))
	assert.Equal(t, "/blog?tag=go&tag=web+dev", DynamicHref([]string{"go", "web dev"}))
}

package render

import (
	"context"
	"io/fs"
)

type Renderer interface {
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
	RenderAbout(ctx context.Context, page TextPage) ([]byte, error)
	RenderContact(ctx context.Context, page ContactPage) ([]byte, error)
	RenderBlog(ctx context.Context, page BlogPage) ([]byte, error)
	RenderPost(ctx context.Context, page PostPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page ErrorPage) ([]byte, error)
	RenderError(ctx context.Context, page ErrorPage) ([]byte, error)
	// Static holds the theme's assets, served under /static/.
	Static() fs.FS
}

package render

import (
	"bytes"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"html/template"
	"portfolio/internal/domain/content"
	"regexp"
)

type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Matching(regexp.MustCompile(`^[A-Za-z0-9_-]+$`)).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)).OnElements("span", "div", "a")
	policy.RequireNoFollowOnLinks(false)

	return &MarkdownRenderer{md: md, policy: policy}
}

// Render converts markdown to sanitized HTML. Raw HTML inside the source is
// kept only as far as the sanitizer allows.
func (r *MarkdownRenderer) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// RenderPage renders the body of p; a nil page renders as empty.
func (r *MarkdownRenderer) RenderPage(p *content.Page) (template.HTML, error) {
	if p == nil || len(bytes.TrimSpace(p.Body)) == 0 {
		return "", nil
	}
	return r.Render(p.Body)
}

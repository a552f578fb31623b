// Package markdown renders backend-generated text (summaries, insights,
// lesson paragraphs) to HTML.
package markdown

import (
	"bytes"
	"html"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown to sanitised HTML. Raw HTML in the source is
// dropped, never passed through.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer with GFM, code highlighting and hard line breaks.
func New() *Renderer {
	return &Renderer{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)}
}

// Render converts src to HTML.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// RenderOrText renders src, falling back to escaped paragraphs if the
// markdown cannot be converted.
func (r *Renderer) RenderOrText(src string) template.HTML {
	out, err := r.Render(src)
	if err == nil {
		return out
	}
	var b strings.Builder
	for _, para := range strings.Split(src, "\n\n") {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(strings.TrimSpace(para)))
		b.WriteString("</p>")
	}
	return template.HTML(b.String())
}

// Package sanitize renders assistant replies, which are written in light
// markdown, into HTML that is safe to insert into the chat widget.
package sanitize

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// Policy converts markdown and filters the result to a small tag allowlist.
type Policy struct {
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
}

// NewChatPolicy allows paragraphs, line breaks, emphasis and lists.
func NewChatPolicy() *Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "ul", "ol", "li", "code")
	return &Policy{
		policy:   p,
		markdown: goldmark.New(goldmark.WithRendererOptions(ghtml.WithHardWraps())),
	}
}

// HTML renders text as sanitized HTML. Raw HTML in the input never survives.
func (p *Policy) HTML(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(text), &buf); err != nil {
		return html.EscapeString(text)
	}
	return strings.TrimSpace(p.policy.Sanitize(buf.String()))
}

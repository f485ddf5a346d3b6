package ui

import (
	"html/template"
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"cellscope/internal/errors"
)

// renderMarkdown converts embedded Markdown to HTML. Parser state is not
// reusable across documents, so each call builds a fresh one.
func renderMarkdown(src []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(src)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return template.HTML(markdown.Render(doc, renderer))
}

// handleMethods renders the analysis methods page from embedded Markdown.
func (a *App) handleMethods(w http.ResponseWriter, r *http.Request) {
	src, err := embeddedFiles.ReadFile("methods.md")
	if err != nil {
		a.renderError(w, errors.RenderError("methods source missing", err))
		return
	}
	a.renderTemplate(w, "methods.html", map[string]interface{}{
		"Content": renderMarkdown(src),
	})
}

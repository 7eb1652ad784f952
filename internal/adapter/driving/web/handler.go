// Package web serves the HTML landing page.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: .25rem .5rem; text-align: left; }
pre { background: #f4f4f4; padding: .75rem; overflow-x: auto; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Handler is the web driving adapter. The landing page is rendered once at
// construction since its source is embedded in the binary.
type Handler struct {
	page   []byte
	logger *slog.Logger
}

// NewHandler renders the landing page and returns a Handler serving it.
func NewHandler(title string, logger *slog.Logger) (*Handler, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		// RenderMarkdown output is sanitized by bluemonday.
		Body: template.HTML(RenderMarkdown(indexMarkdown)), //nolint:gosec
	})
	if err != nil {
		return nil, fmt.Errorf("render landing page: %w", err)
	}

	return &Handler{page: buf.Bytes(), logger: logger}, nil
}

// Index serves the landing page.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.page); err != nil {
		h.logger.Debug("failed to write landing page", "error", err)
	}
}

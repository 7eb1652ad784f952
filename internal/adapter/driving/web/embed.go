package web

import _ "embed"

// indexMarkdown is the landing page source, rendered once at startup.
//
//go:embed content/index.md
var indexMarkdown string

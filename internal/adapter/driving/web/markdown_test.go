package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	result := RenderMarkdown("hello world")
	assert.Contains(t, result, "hello world")
}

func TestRenderMarkdown_InlineCode(t *testing.T) {
	result := RenderMarkdown("use `PATCH /model1/{name}`")
	assert.Contains(t, result, "<code>PATCH /model1/{name}</code>")
}

func TestRenderMarkdown_Table(t *testing.T) {
	result := RenderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |")
	assert.Contains(t, result, "<table>")
	assert.Contains(t, result, "<td>1</td>")
}

func TestRenderMarkdown_HeadingIDs(t *testing.T) {
	result := RenderMarkdown("## API")
	assert.Contains(t, result, `<h2 id="api">API</h2>`)
}

func TestRenderMarkdown_OmitsRawHTML(t *testing.T) {
	result := RenderMarkdown("<div class=\"banner\">hi</div>\n\ntext <b>bold</b>")
	assert.NotContains(t, result, "banner")
	assert.NotContains(t, result, "<b>")
	assert.Contains(t, result, "text")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

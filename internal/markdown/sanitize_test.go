package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_KeepsRenderedMarkup(t *testing.T) {
	got := Sanitize(Render("# Title\n\n5. five\n\n---\n\nuse `x`"))
	assert.Contains(t, got, `<h1 class="md-h1">Title</h1>`)
	assert.Contains(t, got, `<ol class="md-ol" start="5">`)
	assert.Contains(t, got, `<code class="md-code">x</code>`)
	assert.Contains(t, got, `class="md-hr"`)
}

func TestSanitize_KeepsLanguageClass(t *testing.T) {
	html := RenderHTML(Parse("```go\nx\n```"), RenderOptions{LanguageClass: true})
	assert.Contains(t, Sanitize(html), `<code class="language-go">`)
}

func TestSanitize_StripsDangerous(t *testing.T) {
	got := Sanitize(`<p onclick="x()">hi</p><script>alert(1)</script>`)
	assert.Equal(t, "<p>hi</p>", got)

	got = Sanitize(`<a href="javascript:alert(1)">x</a>`)
	assert.NotContains(t, got, "javascript:")

	got = Sanitize(`<h1 class="evil">x</h1><ol start="x1">`)
	assert.NotContains(t, got, "evil")
	assert.NotContains(t, got, "x1")
}

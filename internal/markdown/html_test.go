package markdown

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Bold(t *testing.T) {
	assert.Contains(t, Render("**bold**"), "<strong>bold</strong>")
}

func TestRender_Heading(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`<h1[^>]*>Title</h1>`), Render("# Title"))
	assert.Equal(t, `<h2 class="md-h2">Sub</h2>`, Render("## Sub"))
	assert.Equal(t, `<h3 class="md-h3">Sub <code class="md-code">x</code></h3>`, Render("### Sub `x`"))
}

func TestRender_SingleUnorderedList(t *testing.T) {
	got := Render("- a\n- b")
	assert.Equal(t, 1, strings.Count(got, "<ul"))
	assert.Equal(t, 2, strings.Count(got, "<li>"))
	assert.Equal(t, "<ul class=\"md-ul\">\n<li>a</li>\n<li>b</li>\n</ul>", got)
}

func TestRender_EscapesFirst(t *testing.T) {
	got := Render("<script>alert(1)</script>")
	assert.NotContains(t, got, "<script>")
	assert.Equal(t, "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>", got)
}

func TestRender_EscapesOnlyAmpLtGt(t *testing.T) {
	assert.Equal(t, `<p>a &amp; "b" 'c'</p>`, Render(`a & "b" 'c'`))
}

func TestRender_EscapesCode(t *testing.T) {
	got := Render("```html\n<b>&</b>\n```\n`<i>`")
	assert.Equal(t, "<pre class=\"md-pre\"><code>&lt;b&gt;&amp;&lt;/b&gt;</code></pre>\n<p><code class=\"md-code\">&lt;i&gt;</code></p>", got)
}

func TestRender_Deterministic(t *testing.T) {
	src := "# T\n\nSome **bold** and *em* and `code`.\n\n- x\n- y\n\n1. one\n\n---\n\n```go\nfmt.Println(1)\n```"
	assert.Equal(t, Render(src), Render(src))
}

func TestRender_Paragraphs(t *testing.T) {
	got := Render("one\ntwo\n\n\n\nthree")
	assert.Equal(t, "<p>one\ntwo</p>\n<p>three</p>", got)
	assert.NotContains(t, got, "\n\n\n")
}

func TestRender_CollapsesBlankRunsInCode(t *testing.T) {
	assert.Equal(t, "<pre class=\"md-pre\"><code>a\n\nb</code></pre>", Render("```\na\n\n\n\nb\n```"))
	assert.Equal(t, "<pre class=\"md-pre\"><code>a\n\nb</code></pre>", Render("```\na\n\nb\n```"))
	assert.NotContains(t, Render("x\n\n```\n\n\n\ny\n\n\n\nz\n```\n\n\n\nw"), "\n\n\n")
}

func TestRender_EmptyAndBlank(t *testing.T) {
	assert.Equal(t, "", Render(""))
	assert.Equal(t, "", Render("\n\n  \n"))
}

func TestRender_Rule(t *testing.T) {
	assert.Equal(t, "<p>a</p>\n<hr class=\"md-hr\">\n<p>b</p>", Render("a\n---\nb"))
	assert.Equal(t, "<p>----</p>", Render("----"))
}

func TestRenderHTML_OrderedLists(t *testing.T) {
	doc := Parse("1. a\n2. b")

	assert.Equal(t, "<ol class=\"md-ol\">\n<li>a</li>\n<li>b</li>\n</ol>", RenderHTML(doc, RenderOptions{}))
	assert.Equal(t, "<li>a</li>\n<li>b</li>", RenderHTML(doc, RenderOptions{LegacyOrderedLists: true}))

	assert.Equal(t, "<ol class=\"md-ol\" start=\"5\">\n<li>e</li>\n</ol>", Render("5. e"))
}

func TestRenderHTML_LanguageClass(t *testing.T) {
	doc := Parse("```go\nx := 1\n```")
	assert.Equal(t, `<pre class="md-pre"><code class="language-go">x := 1</code></pre>`, RenderHTML(doc, RenderOptions{LanguageClass: true}))
	assert.Equal(t, `<pre class="md-pre"><code>x := 1</code></pre>`, RenderHTML(doc, RenderOptions{}))

	// Languages that could break out of the attribute are dropped.
	doc = Parse("```a\"onload=x\ny\n```")
	assert.Equal(t, `<pre class="md-pre"><code>y</code></pre>`, RenderHTML(doc, RenderOptions{LanguageClass: true}))
}

func TestRenderHTML_Nil(t *testing.T) {
	assert.Equal(t, "", RenderHTML(nil, RenderOptions{}))
}

func TestCache(t *testing.T) {
	c := NewCache(0)
	src := "1. a"
	assert.Equal(t, Render(src), c.RenderHTML(src, RenderOptions{}))
	assert.Equal(t, "<li>a</li>", c.RenderHTML(src, RenderOptions{LegacyOrderedLists: true}))
	assert.Equal(t, Render(src), c.RenderHTML(src, RenderOptions{}))
}

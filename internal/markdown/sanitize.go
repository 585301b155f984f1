package markdown

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is bluemonday's user-generated-content policy, extended with the class hooks and list attributes RenderHTML emits. A policy is safe for concurrent use
// once built.
var policy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^(md-[a-z0-9]+|language-[A-Za-z0-9_+#.-]+)$`)).OnElements("h1", "h2", "h3", "pre", "code", "ul", "ol", "hr")
	p.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")
	return p
})

// Sanitize removes anything from an HTML fragment that could execute script or break out of its container, keeping the markup RenderHTML produces. It is
// meant for HTML that will be served to a browser, including HTML that did not come from RenderHTML.
func Sanitize(html string) string {
	return policy().Sanitize(html)
}

package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RenderOptions tune RenderHTML.
type RenderOptions struct {
	// LegacyOrderedLists emits ordered list items as bare <li> elements with no enclosing <ol>, matching the dashboard's historical output.
	LegacyOrderedLists bool

	// LanguageClass adds class="language-<lang>" to the <code> of fenced blocks that declare a language, for client-side highlighters.
	LanguageClass bool
}

// Render converts markdown source to an HTML fragment with default options.
func Render(source string) string {
	return RenderHTML(Parse(source), RenderOptions{})
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeHTML escapes '&', '<', and '>' only.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var (
	languageRE  = regexp.MustCompile(`^[A-Za-z0-9_+#.-]+$`)
	blankRunsRE = regexp.MustCompile(`\n{3,}`)
)

// RenderHTML renders doc as an HTML fragment. Blocks are separated by "\n", and no run of newlines in the fragment, including inside code blocks, is longer
// than two.
func RenderHTML(doc *Document, opts RenderOptions) string {
	if doc == nil {
		return ""
	}
	blocks := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		blocks = append(blocks, renderBlockHTML(b, opts))
	}
	return blankRunsRE.ReplaceAllString(strings.Join(blocks, "\n"), "\n\n")
}

func renderBlockHTML(b Block, opts RenderOptions) string {
	switch b := b.(type) {
	case *Heading:
		return fmt.Sprintf(`<h%d class="md-h%d">%s</h%d>`, b.Level, b.Level, renderInlinesHTML(b.Content), b.Level)
	case *CodeBlock:
		codeOpen := "<code>"
		if opts.LanguageClass && languageRE.MatchString(b.Language) {
			codeOpen = fmt.Sprintf(`<code class="language-%s">`, b.Language)
		}
		return `<pre class="md-pre">` + codeOpen + escapeHTML(b.Code) + "</code></pre>"
	case *List:
		var sb strings.Builder
		items := make([]string, len(b.Items))
		for i, item := range b.Items {
			items[i] = "<li>" + renderInlinesHTML(item) + "</li>"
		}
		switch {
		case b.Ordered && opts.LegacyOrderedLists:
			return strings.Join(items, "\n")
		case b.Ordered:
			sb.WriteString(`<ol class="md-ol"`)
			if b.Start != 1 {
				sb.WriteString(` start="` + strconv.Itoa(b.Start) + `"`)
			}
			sb.WriteString(">\n")
		default:
			sb.WriteString(`<ul class="md-ul">` + "\n")
		}
		for _, item := range items {
			sb.WriteString(item)
			sb.WriteString("\n")
		}
		if b.Ordered {
			sb.WriteString("</ol>")
		} else {
			sb.WriteString("</ul>")
		}
		return sb.String()
	case *Rule:
		return `<hr class="md-hr">`
	case *Paragraph:
		lines := make([]string, len(b.Lines))
		for i, line := range b.Lines {
			lines[i] = renderInlinesHTML(line)
		}
		return "<p>" + strings.Join(lines, "\n") + "</p>"
	default:
		panic(fmt.Sprintf("markdown: unknown block %T", b))
	}
}

func renderInlinesHTML(inlines []Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		switch in := in.(type) {
		case Text:
			sb.WriteString(escapeHTML(string(in)))
		case Code:
			sb.WriteString(`<code class="md-code">` + escapeHTML(string(in)) + "</code>")
		case *Strong:
			sb.WriteString("<strong>" + renderInlinesHTML(in.Content) + "</strong>")
		case *Emphasis:
			sb.WriteString("<em>" + renderInlinesHTML(in.Content) + "</em>")
		default:
			panic(fmt.Sprintf("markdown: unknown inline %T", in))
		}
	}
	return sb.String()
}

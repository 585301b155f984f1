package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Outline summarizes a markdown document for listings.
type Outline struct {
	Title    string           // First level-1 heading; else the first heading; else the first non-blank line.
	Overview string           // Text of the first top-level paragraph, with whitespace collapsed.
	Headings []OutlineHeading // All headings, in document order.
}

// OutlineHeading is a heading in an Outline.
type OutlineHeading struct {
	Level int
	Text  string
}

// ParseOutline parses src as CommonMark and summarizes it. Unlike Parse, it accepts the full CommonMark syntax (setext headings, block quotes, links), since
// plans written by hand or by other tools use it.
func ParseOutline(src []byte) Outline {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var out Outline
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			out.Headings = append(out.Headings, OutlineHeading{Level: n.Level, Text: collapseSpace(inlineText(src, n))})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if out.Overview == "" && n.Parent() == root {
				out.Overview = collapseSpace(inlineText(src, n))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, h := range out.Headings {
		if h.Level == 1 {
			out.Title = h.Text
			break
		}
	}
	if out.Title == "" && len(out.Headings) > 0 {
		out.Title = out.Headings[0].Text
	}
	if out.Title == "" {
		out.Title = firstLine(string(src))
	}
	return out
}

// inlineText concatenates the text of n's inline descendants. Soft and hard line breaks become spaces.
func inlineText(src []byte, n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.RawHTML:
			// Dropped: listings show text only.
		default:
			sb.WriteString(inlineText(src, c))
		}
	}
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

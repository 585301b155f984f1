package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/codalotl/artifactview/internal/q/uni"
)

// TextOptions tune RenderText.
type TextOptions struct {
	Color bool // If true, use ANSI styles for headings, emphasis, and code.
	Width int  // If > 0, wrap paragraphs and list items to this many columns. Long words are never split.
}

// ANSI styles for RenderText.
const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiDim       = "\x1b[2m"
	ansiItalic    = "\x1b[3m"
	ansiUnderline = "\x1b[4m"
	ansiCyan      = "\x1b[36m"
)

const defaultRuleWidth = 40

// RenderText renders doc for a terminal. Blocks are separated by a blank line. Without Color, headings 1 and 2 are underlined with "=" and "-", and code spans
// keep their backticks.
func RenderText(doc *Document, opts TextOptions) string {
	if doc == nil {
		return ""
	}
	blocks := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		blocks = append(blocks, renderBlockText(b, opts))
	}
	return strings.Join(blocks, "\n\n")
}

func renderBlockText(b Block, opts TextOptions) string {
	switch b := b.(type) {
	case *Heading:
		words := inlineWords(b.Content, opts.Color)
		text := strings.Join(renderWords(words, 0, opts.Color), "\n")
		if opts.Color {
			style := ansiBold
			if b.Level == 1 {
				style += ansiUnderline
			}
			return style + text + ansiReset
		}
		switch b.Level {
		case 1:
			return text + "\n" + strings.Repeat("=", uni.TextWidth(text, nil))
		case 2:
			return text + "\n" + strings.Repeat("-", uni.TextWidth(text, nil))
		default:
			return text
		}
	case *CodeBlock:
		lines := strings.Split(b.Code, "\n")
		for i, line := range lines {
			lines[i] = "    " + line
			if opts.Color {
				lines[i] = ansiDim + lines[i] + ansiReset
			}
		}
		return strings.Join(lines, "\n")
	case *List:
		var out []string
		for i, item := range b.Items {
			marker := "• "
			if b.Ordered {
				marker = strconv.Itoa(b.Start+i) + ". "
			}
			indent := strings.Repeat(" ", uni.TextWidth(marker, nil))
			lines := renderWords(inlineWords(item, opts.Color), wrapWidth(opts.Width, len(indent)), opts.Color)
			for j, line := range lines {
				if j == 0 {
					out = append(out, marker+line)
				} else {
					out = append(out, indent+line)
				}
			}
		}
		return strings.Join(out, "\n")
	case *Rule:
		w := opts.Width
		if w <= 0 {
			w = defaultRuleWidth
		}
		return strings.Repeat("─", w)
	case *Paragraph:
		if opts.Width <= 0 {
			lines := make([]string, len(b.Lines))
			for i, line := range b.Lines {
				lines[i] = strings.Join(renderWords(inlineWords(line, opts.Color), 0, opts.Color), "")
			}
			return strings.Join(lines, "\n")
		}
		var words []word
		for _, line := range b.Lines {
			words = append(words, inlineWords(line, opts.Color)...)
		}
		return strings.Join(renderWords(words, opts.Width, opts.Color), "\n")
	default:
		panic(fmt.Sprintf("markdown: unknown block %T", b))
	}
}

func wrapWidth(width, indent int) int {
	if width <= 0 {
		return 0
	}
	return max(1, width-indent)
}

// piece is a run of text in a single style.
type piece struct {
	text  string
	style string // ANSI prefix; "" for unstyled.
}

// word is a maximal run of non-space text, possibly spanning several styles (ex: "**foo**bar").
type word []piece

func (w word) width() int {
	n := 0
	for _, p := range w {
		n += uni.TextWidth(p.text, nil)
	}
	return n
}

// inlineWords flattens inlines into space-separated words. Runs of spaces collapse.
func inlineWords(inlines []Inline, color bool) []word {
	var words []word
	var cur word
	endWord := func() {
		if len(cur) > 0 {
			words = append(words, cur)
			cur = nil
		}
	}

	var walk func(inlines []Inline, style string)
	addText := func(s, style string) {
		for i, part := range strings.Split(s, " ") {
			if i > 0 {
				endWord()
			}
			if part != "" {
				cur = append(cur, piece{text: part, style: style})
			}
		}
	}
	walk = func(inlines []Inline, style string) {
		for _, in := range inlines {
			switch in := in.(type) {
			case Text:
				addText(string(in), style)
			case Code:
				if color {
					addText(string(in), style+ansiCyan)
				} else {
					addText("`"+string(in)+"`", style)
				}
			case *Strong:
				walk(in.Content, style+ansiBold)
			case *Emphasis:
				walk(in.Content, style+ansiItalic)
			}
		}
	}
	walk(inlines, "")
	endWord()
	return words
}

// renderWords lays words out greedily in lines of at most width columns (no limit if width <= 0), joining words with a single space.
func renderWords(words []word, width int, color bool) []string {
	var lines []string
	var sb strings.Builder
	used := 0
	for _, w := range words {
		ww := w.width()
		if used > 0 && width > 0 && used+1+ww > width {
			lines = append(lines, sb.String())
			sb.Reset()
			used = 0
		}
		if used > 0 {
			sb.WriteString(" ")
			used++
		}
		for _, p := range w {
			if color && p.style != "" {
				sb.WriteString(p.style + p.text + ansiReset)
			} else {
				sb.WriteString(p.text)
			}
		}
		used += ww
	}
	if used > 0 || len(lines) == 0 {
		lines = append(lines, sb.String())
	}
	return lines
}

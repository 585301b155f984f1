package markdown

import (
	"strconv"
	"strings"
)

const fence = "```"

// Parse tokenizes source into a Document. It never fails: lines that match no construct become paragraph text, and an unterminated ``` fence is treated as
// paragraph text too.
func Parse(source string) *Document {
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	doc := &Document{}

	var para *Paragraph
	var list *List
	endRuns := func() {
		para = nil
		list = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if strings.HasPrefix(line, fence) {
			if end := closingFence(lines, i+1); end >= 0 {
				endRuns()
				doc.Blocks = append(doc.Blocks, &CodeBlock{
					Language: strings.TrimSpace(line[len(fence):]),
					Code:     strings.TrimSpace(strings.Join(lines[i+1:end], "\n")),
				})
				i = end
				continue
			}
		}

		if strings.TrimSpace(line) == "" {
			endRuns()
			continue
		}

		if line == "---" {
			endRuns()
			doc.Blocks = append(doc.Blocks, &Rule{})
			continue
		}

		if level, text, ok := headingLine(line); ok {
			endRuns()
			doc.Blocks = append(doc.Blocks, &Heading{Level: level, Content: parseInlines(text)})
			continue
		}

		if text, ok := strings.CutPrefix(line, "- "); ok {
			if list == nil || list.Ordered {
				endRuns()
				list = &List{}
				doc.Blocks = append(doc.Blocks, list)
			}
			list.Items = append(list.Items, parseInlines(text))
			continue
		}

		if n, text, ok := orderedItemLine(line); ok {
			if list == nil || !list.Ordered {
				endRuns()
				list = &List{Ordered: true, Start: n}
				doc.Blocks = append(doc.Blocks, list)
			}
			list.Items = append(list.Items, parseInlines(text))
			continue
		}

		if para == nil {
			endRuns()
			para = &Paragraph{}
			doc.Blocks = append(doc.Blocks, para)
		}
		para.Lines = append(para.Lines, parseInlines(line))
	}

	return doc
}

// closingFence returns the index of the first line at or after start that is a bare ``` (surrounding whitespace allowed), or -1. A fence with a language
// opens a block, so it never closes one.
func closingFence(lines []string, start int) int {
	for i := start; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == fence {
			return i
		}
	}
	return -1
}

// headingLine recognizes "# text", "## text", and "### text".
func headingLine(line string) (level int, text string, ok bool) {
	for level = 3; level >= 1; level-- {
		if rest, found := strings.CutPrefix(line, strings.Repeat("#", level)+" "); found {
			return level, strings.TrimSpace(rest), true
		}
	}
	return 0, "", false
}

// orderedItemLine recognizes "<digits>. text".
func orderedItemLine(line string) (n int, text string, ok bool) {
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits == 0 || !strings.HasPrefix(line[digits:], ". ") {
		return 0, "", false
	}
	n, err := strconv.Atoi(line[:digits])
	if err != nil {
		// Too many digits to fit an int; still an item.
		n = 1
	}
	return n, line[digits+2:], true
}

// parseInlines parses a single line of text.
func parseInlines(s string) []Inline {
	return parseInlinesWith(s, true, true)
}

// parseInlinesWith parses code spans, then (if allowed) **strong** and *emphasis*. Strong content may contain emphasis; emphasis content may contain only code
// and text. Delimiters inside code spans are ignored. Empty spans ("``", "****", "**") are left as literal text.
func parseInlinesWith(s string, allowStrong, allowEm bool) []Inline {
	var out []Inline
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Text(text.String()))
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case s[i] == '`':
			if j := strings.IndexByte(s[i+1:], '`'); j > 0 {
				flush()
				out = append(out, Code(s[i+1:i+1+j]))
				i += j + 2
				continue
			}
		case allowStrong && strings.HasPrefix(s[i:], "**"):
			if j := indexOutsideCode(s[i+2:], "**"); j > 0 {
				flush()
				out = append(out, &Strong{Content: parseInlinesWith(s[i+2:i+2+j], false, true)})
				i += j + 4
				continue
			}
		case allowEm && s[i] == '*':
			if j := indexOutsideCode(s[i+1:], "*"); j > 0 {
				flush()
				out = append(out, &Emphasis{Content: parseInlinesWith(s[i+1:i+1+j], false, false)})
				i += j + 2
				continue
			}
		}
		text.WriteByte(s[i])
		i++
	}
	flush()
	return out
}

// indexOutsideCode returns the index of the first delim in s that is not inside a `code` span, or -1.
func indexOutsideCode(s, delim string) int {
	for k := 0; k < len(s); k++ {
		if s[k] == '`' {
			if j := strings.IndexByte(s[k+1:], '`'); j > 0 {
				k += j + 1
				continue
			}
		}
		if strings.HasPrefix(s[k:], delim) {
			return k
		}
	}
	return -1
}

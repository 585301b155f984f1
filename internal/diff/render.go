package diff

import (
	"fmt"
	"strings"
)

// row is an Entry annotated with its positions in both texts.
type row struct {
	index     int // Index into the Result.
	entry     Entry
	oldBefore int // Number of old lines before this row.
	newBefore int // Number of new lines before this row.
}

func (r Result) rows() []row {
	rows := make([]row, len(r))
	oldPos, newPos := 0, 0
	for i, e := range r {
		rows[i] = row{index: i, entry: e, oldBefore: oldPos, newBefore: newPos}
		switch e.Kind {
		case KindSame:
			oldPos++
			newPos++
		case KindRemoved:
			oldPos++
		case KindAdded:
			newPos++
		}
	}
	return rows
}

// hunkRange is a half-open range [start, end) of rows.
type hunkRange struct {
	start, end int
}

// hunkRanges groups changed rows with contextSize rows of surrounding context. Two changes separated by at most 2*contextSize unchanged rows share a hunk.
func hunkRanges(rows []row, contextSize int) []hunkRange {
	if contextSize < 0 {
		contextSize = 0
	}
	var hunks []hunkRange
	for i, rw := range rows {
		if rw.entry.Kind == KindSame {
			continue
		}
		start := max(0, i-contextSize)
		end := min(len(rows), i+1+contextSize)
		if len(hunks) > 0 && start <= hunks[len(hunks)-1].end {
			hunks[len(hunks)-1].end = max(hunks[len(hunks)-1].end, end)
			continue
		}
		hunks = append(hunks, hunkRange{start: start, end: end})
	}
	return hunks
}

// RenderPretty returns a human-oriented, colorized rendering of r without unified-diff hunk headers. Each line is prefixed like a unified diff: " " for context,
// "-" for removals, and "+" for additions. Within paired changed lines (see Pairs), intra-line additions and deletions are highlighted.
//
// If fromFilename and toFilename are both empty, no header is printed. Otherwise a single cyan header line is emitted in one of these forms:
//   - "add <to>:" when only toFilename is set
//   - "delete <from>:" when only fromFilename is set
//   - "<name>:" when both are equal
//   - "<from> -> <to>:" otherwise
//
// contextSize controls how many unchanged lines are shown before and after each group of changes. Two change groups separated by at most 2*contextSize unchanged
// lines are merged into a single group with the intervening lines shown as context.
//
// The returned string uses "\n" as the line separator. If there are no changes and no header is requested, the result is the empty string.
//
// The output contains ANSI 256-color escape sequences and is intended for terminals. For a traditional unified diff, use RenderUnified.
func (r Result) RenderPretty(fromFilename string, toFilename string, contextSize int) string {
	// Colors (ANSI) for pretty output.
	const (
		reset     = "\x1b[0m"
		blackFG   = "\x1b[30m"
		pinkLine  = "\x1b[48;5;224m" // light pink for removed lines
		pinkSpan  = "\x1b[48;5;217m" // slightly darker pink for removed spans
		greenLine = "\x1b[48;5;194m" // light green for added lines
		greenSpan = "\x1b[48;5;114m" // slightly darker green for added spans
		cyanBold  = "\x1b[1;36m"
	)

	var out []string

	if header := prettyHeader(fromFilename, toFilename); header != "" {
		out = append(out, cyanBold+header+reset)
	}

	spansByIndex := make(map[int][]Span)
	for _, p := range r.Pairs() {
		spansByIndex[p.Removed] = p.Spans
		spansByIndex[p.Added] = p.Spans
	}

	// Render a changed line's content, emphasizing changed spans with a darker background and reapplying the base after each.
	renderContent := func(rw row, baseBg, spanBg string) string {
		spans, ok := spansByIndex[rw.index]
		if !ok {
			return rw.entry.Content
		}
		var b strings.Builder
		for _, sp := range spans {
			text := sp.NewText
			if rw.entry.Kind == KindRemoved {
				text = sp.OldText
			}
			if text == "" {
				continue
			}
			if sp.Op == OpEqual {
				b.WriteString(text)
				continue
			}
			b.WriteString(reset)
			b.WriteString(blackFG)
			b.WriteString(spanBg)
			b.WriteString(text)
			b.WriteString(reset)
			b.WriteString(blackFG)
			b.WriteString(baseBg)
		}
		return b.String()
	}

	rows := r.rows()
	for _, h := range hunkRanges(rows, contextSize) {
		for _, rw := range rows[h.start:h.end] {
			switch rw.entry.Kind {
			case KindSame:
				out = append(out, blackFG+" "+rw.entry.Content+reset)
			case KindRemoved:
				out = append(out, blackFG+pinkLine+"-"+renderContent(rw, pinkLine, pinkSpan)+reset)
			case KindAdded:
				out = append(out, blackFG+greenLine+"+"+renderContent(rw, greenLine, greenSpan)+reset)
			}
		}
	}

	return strings.Join(out, defaultEOL)
}

func prettyHeader(fromFilename, toFilename string) string {
	switch {
	case fromFilename == "" && toFilename == "":
		return ""
	case fromFilename == "":
		return fmt.Sprintf("add %s:", toFilename)
	case toFilename == "":
		return fmt.Sprintf("delete %s:", fromFilename)
	case fromFilename == toFilename:
		return fmt.Sprintf("%s:", fromFilename)
	default:
		return fmt.Sprintf("%s -> %s:", fromFilename, toFilename)
	}
}

// RenderUnified returns a unified diff. If color, the diff will include ANSI color markers.
//
// Hunk headers follow the GNU convention: "@@ -l,s +l,s @@", where a side with zero lines reports the line before the hunk (0 at the start of a file).
func (r Result) RenderUnified(color bool, fromFilename string, toFilename string, contextSize int) string {
	// Colors (ANSI). Applied only if color==true.
	const (
		reset    = "\x1b[0m"
		red      = "\x1b[31m"
		green    = "\x1b[32m"
		magenta  = "\x1b[35m"
		cyanBold = "\x1b[1;36m"
	)

	colorize := func(s, code string) string {
		if !color {
			return s
		}
		return code + s + reset
	}

	var out []string
	out = append(out, colorize("--- "+fromFilename, cyanBold))
	out = append(out, colorize("+++ "+toFilename, cyanBold))

	rows := r.rows()
	for _, h := range hunkRanges(rows, contextSize) {
		first := rows[h.start]
		oldCount, newCount := 0, 0
		for _, rw := range rows[h.start:h.end] {
			switch rw.entry.Kind {
			case KindSame:
				oldCount++
				newCount++
			case KindRemoved:
				oldCount++
			case KindAdded:
				newCount++
			}
		}
		oldStart := first.oldBefore
		if oldCount > 0 {
			oldStart++
		}
		newStart := first.newBefore
		if newCount > 0 {
			newStart++
		}

		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)
		out = append(out, colorize(header, magenta))
		for _, rw := range rows[h.start:h.end] {
			switch rw.entry.Kind {
			case KindSame:
				out = append(out, " "+rw.entry.Content)
			case KindRemoved:
				out = append(out, colorize("-"+rw.entry.Content, red))
			case KindAdded:
				out = append(out, colorize("+"+rw.entry.Content, green))
			}
		}
	}

	return strings.Join(out, defaultEOL)
}

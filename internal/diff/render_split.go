package diff

import (
	"strconv"
	"strings"

	"github.com/codalotl/artifactview/internal/q/uni"
)

// splitSide is one half of a side-by-side row. A zero lineNumber means the side is blank.
type splitSide struct {
	lineNumber int
	marker     byte // ' ', '-', or '+'
	text       string
}

// RenderSplit returns a side-by-side view of r that fits in width terminal columns: old lines on the left, new lines on the right, each prefixed with its line
// number. Unchanged lines appear on both sides; within a change block the i-th removed line is shown next to the i-th added line, and the shorter side is padded
// with blank rows. Text that does not fit its column is truncated with "…". Tabs are expanded to 4 spaces.
//
// contextSize selects rows as in RenderUnified; non-adjacent hunks are separated by a "···" row. No trailing spaces are trimmed so columns line up. If r has no
// changes, the result is the empty string.
func (r Result) RenderSplit(width int, contextSize int) string {
	rows := r.rows()
	hunks := hunkRanges(rows, contextSize)
	if len(hunks) == 0 {
		return ""
	}

	oldLines, newLines := 0, 0
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		oldLines, newLines = last.oldBefore, last.newBefore
		switch last.entry.Kind {
		case KindSame:
			oldLines++
			newLines++
		case KindRemoved:
			oldLines++
		case KindAdded:
			newLines++
		}
	}
	gutter := len(strconv.Itoa(max(oldLines, newLines)))

	const separator = " │ "
	// Each side is: gutter, space, marker, space, text.
	textWidth := (width-len([]rune(separator)))/2 - gutter - 3
	if textWidth < 1 {
		textWidth = 1
	}

	renderSide := func(s splitSide) string {
		if s.lineNumber == 0 {
			return strings.Repeat(" ", gutter+3+textWidth)
		}
		num := strconv.Itoa(s.lineNumber)
		num = strings.Repeat(" ", gutter-len(num)) + num
		text := strings.ReplaceAll(s.text, "\t", "    ")
		return num + " " + string(s.marker) + " " + uni.Fit(text, textWidth, "…", nil)
	}

	var out []string
	for hi, h := range hunks {
		if hi > 0 {
			out = append(out, "···")
		}
		for _, pair := range pairSides(rows[h.start:h.end]) {
			out = append(out, renderSide(pair[0])+separator+renderSide(pair[1]))
		}
	}
	return strings.Join(out, defaultEOL)
}

// pairSides lays rows out as (left, right) pairs. Runs of removed and added rows are zipped together.
func pairSides(rows []row) [][2]splitSide {
	var out [][2]splitSide
	var removed, added []splitSide

	flush := func() {
		n := max(len(removed), len(added))
		for i := 0; i < n; i++ {
			var p [2]splitSide
			if i < len(removed) {
				p[0] = removed[i]
			}
			if i < len(added) {
				p[1] = added[i]
			}
			out = append(out, p)
		}
		removed, added = nil, nil
	}

	for _, rw := range rows {
		switch rw.entry.Kind {
		case KindSame:
			flush()
			out = append(out, [2]splitSide{
				{lineNumber: rw.oldBefore + 1, marker: ' ', text: rw.entry.Content},
				{lineNumber: rw.newBefore + 1, marker: ' ', text: rw.entry.Content},
			})
		case KindRemoved:
			removed = append(removed, splitSide{lineNumber: rw.oldBefore + 1, marker: '-', text: rw.entry.Content})
		case KindAdded:
			added = append(added, splitSide{lineNumber: rw.newBefore + 1, marker: '+', text: rw.entry.Content})
		}
	}
	flush()
	return out
}

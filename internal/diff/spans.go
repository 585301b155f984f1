package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is an intra-line operation from an old line to a new line.
type Op int

// Operations from old line to new line.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

// Span is a diff within a line. Spans never contain '\n'.
//
// Operations:
//   - OpEqual: OldText == NewText
//   - OpInsert: OldText=="" && NewText!=""
//   - OpDelete: OldText!="" && NewText==""
//   - OpReplace: OldText != "" and NewText != ""
type Span struct {
	Op      Op
	OldText string // Substring of the removed line; empty for inserts.
	NewText string // Substring of the added line; empty for deletes.
}

// Pair is a Removed entry matched with an Added entry of the same change block, along with the intra-line spans between them.
//
// Invariants:
//   - concat(Spans.OldText) == r[Removed].Content
//   - concat(Spans.NewText) == r[Added].Content
type Pair struct {
	Removed int // Index into the Result of the KindRemoved entry.
	Added   int // Index into the Result of the KindAdded entry.
	Spans   []Span
}

// Pairs matches removed and added lines for intra-line highlighting. Within each change block (a maximal run of non-Same entries), the i-th Removed entry is paired
// with the i-th Added entry; leftover lines are unpaired (pure removals or additions). Identical pairs are skipped.
func (r Result) Pairs() []Pair {
	var pairs []Pair
	dmp := diffmatchpatch.New()

	for start := 0; start < len(r); {
		if r[start].Kind == KindSame {
			start++
			continue
		}
		end := start
		var removed, added []int
		for end < len(r) && r[end].Kind != KindSame {
			if r[end].Kind == KindRemoved {
				removed = append(removed, end)
			} else {
				added = append(added, end)
			}
			end++
		}

		n := min(len(removed), len(added))
		for i := 0; i < n; i++ {
			oldLine := r[removed[i]].Content
			newLine := r[added[i]].Content
			if oldLine == newLine {
				continue
			}
			spans := diffsToSpans(dmp.DiffMain(oldLine, newLine, false))
			pairs = append(pairs, Pair{Removed: removed[i], Added: added[i], Spans: spans})
		}
		start = end
	}
	return pairs
}

// maxSandwichedEqualLen is the longest equal run between two changes that is absorbed into a single change. Highlighting "a" in "abc" -> "xay" is noisier than
// highlighting the whole thing.
const maxSandwichedEqualLen = 8

// diffsToSpans converts diffmatchpatch diffs to Span entries, coalescing adjacent changes and absorbing short equal runs sandwiched between changes.
func diffsToSpans(diffs []diffmatchpatch.Diff) []Span {
	var spans []Span
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var s Span
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			s = Span{Op: OpEqual, OldText: d.Text, NewText: d.Text}
		case diffmatchpatch.DiffDelete:
			s = Span{Op: OpDelete, OldText: d.Text}
		case diffmatchpatch.DiffInsert:
			s = Span{Op: OpInsert, NewText: d.Text}
		}
		spans = appendCoalesced(spans, s)
	}

	// Iteratively merge small equals sandwiched between non-equals:
	for {
		changed := false
		var normalized []Span
		for i := 0; i < len(spans); i++ {
			if i+2 < len(spans) && spans[i].Op != OpEqual && spans[i+1].Op == OpEqual && spans[i+2].Op != OpEqual && len(spans[i+1].OldText) <= maxSandwichedEqualLen {
				normalized = appendCoalesced(normalized, mergeSpans(spans[i], spans[i+1], spans[i+2]))
				changed = true
				i += 2
				continue
			}
			normalized = appendCoalesced(normalized, spans[i])
		}
		spans = normalized
		if !changed {
			break
		}
	}
	return spans
}

// appendCoalesced appends s to spans, merging it into the last span when both are equal or both are non-equal.
func appendCoalesced(spans []Span, s Span) []Span {
	if len(spans) == 0 {
		return append(spans, s)
	}
	last := spans[len(spans)-1]
	if (last.Op == OpEqual) != (s.Op == OpEqual) {
		return append(spans, s)
	}
	spans[len(spans)-1] = mergeSpans(last, s)
	return spans
}

// mergeSpans concatenates the old and new sides of spans into one span. The result is OpEqual only if every input is OpEqual.
func mergeSpans(spans ...Span) Span {
	var oldBuf, newBuf strings.Builder
	allEqual := true
	for _, s := range spans {
		oldBuf.WriteString(s.OldText)
		newBuf.WriteString(s.NewText)
		if s.Op != OpEqual {
			allEqual = false
		}
	}
	if allEqual {
		return Span{Op: OpEqual, OldText: oldBuf.String(), NewText: newBuf.String()}
	}
	var op Op
	switch {
	case oldBuf.Len() > 0 && newBuf.Len() > 0:
		op = OpReplace
	case oldBuf.Len() > 0:
		op = OpDelete
	default:
		op = OpInsert
	}
	return Span{Op: op, OldText: oldBuf.String(), NewText: newBuf.String()}
}

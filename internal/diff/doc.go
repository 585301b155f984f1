// Package diff computes and renders line diffs between an "old" and a "new" string, as shown in the file-history viewer.
//
// Algorithm: DiffLines is a common-prefix / common-suffix diff, not a minimal edit script. It splits both texts on '\n', emits the shared leading lines as KindSame,
// then every remaining old line between the shared prefix and shared suffix as KindRemoved, then every remaining new line as KindAdded, and finally the shared
// trailing lines as KindSame. A Result therefore has the shape [Same*][Removed*][Added*][Same*]. It runs in O(n) and never fails.
//
// Representation: A Result is an ordered slice of Entry. KindSame entries carry the 1-based line number of the line in the old text; KindAdded and KindRemoved
// entries have LineNumber == 0.
//
// Invariants:
//   - concat(Same+Removed contents, in order) == lines of the old text
//   - concat(Same+Added contents, in order) == lines of the new text
//   - Same line numbers strictly increase and equal the line's position in the old text
//
// Splitting: "" splits to [""], not []. Line contents never contain '\n'. DiffLines does not normalize "\r\n"; callers that want that call NormalizeEOL on both
// inputs first.
//
// Getting a diff:
//
//	r := diff.DiffLines(oldText, newText)
//	fmt.Println(r.RenderUnified(false, "old.txt", "new.txt", 3))
//
// Rendering: For human consumption:
//   - Result.RenderPretty emits a colorized view (no @@ hunk headers) with "+"/"-"/" " line markers and highlighted intra-line changes (see Result.Pairs).
//   - Result.RenderUnified emits a unified diff. Set color to true to include ANSI colors.
//   - Result.RenderSplit emits a side-by-side view that fits a terminal width.
//
// Caching: results are recomputed on every call. Cache memoizes DiffLines by a hash of the input pair for callers that re-render the same pair repeatedly.
package diff

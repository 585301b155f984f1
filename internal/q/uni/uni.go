// Package uni measures and fits text into fixed-width terminal columns, respecting grapheme cluster boundaries.
package uni

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Options control width calculation.
//
// Currently only relevant for East Asian code points and their locale.
type Options struct {
	EastAsianWidth   bool // if true, treats certain East Asian code points as 2 wide (e.g., Chinese, Japanese, Korean). Use if the locale is one of CJK.
	TreatEmojiAsWide bool // Only considered if EastAsianWidth. If true, treats emoji as wide (2 columns).
}

// TextWidth returns the text width of str for monospace fonts in terminals. If opts is nil, locale is assumed to be non-East Asian.
func TextWidth(str string, opts *Options) int {
	return conditionFromOptions(opts).StringWidth(str)
}

// Truncate returns the longest prefix of str, cut on a grapheme boundary, that fits in width columns. If str had to be cut and tail is non-empty, tail is appended and
// counted against width (ex: Truncate("hello", 4, "…", nil) == "hel…"). If width is too small to hold even tail, "" is returned.
func Truncate(str string, width int, tail string, opts *Options) string {
	if width <= 0 {
		return ""
	}
	cond := conditionFromOptions(opts)
	if cond.StringWidth(str) <= width {
		return str
	}

	budget := width - cond.StringWidth(tail)
	if budget < 0 {
		return ""
	}

	var b strings.Builder
	used := 0
	iter := graphemes.FromString(str)
	for iter.Next() {
		g := iter.Value()
		w := cond.StringWidth(g)
		if used+w > budget {
			break
		}
		b.WriteString(g)
		used += w
	}
	b.WriteString(tail)
	return b.String()
}

// PadRight appends spaces to str until it occupies width columns. str is returned unchanged if it is already at least width wide.
func PadRight(str string, width int, opts *Options) string {
	w := TextWidth(str, opts)
	if w >= width {
		return str
	}
	return str + strings.Repeat(" ", width-w)
}

// Fit truncates (with tail) or pads str so it occupies exactly width columns. A wide grapheme that straddles the boundary is dropped and replaced by padding.
func Fit(str string, width int, tail string, opts *Options) string {
	return PadRight(Truncate(str, width, tail, opts), width, opts)
}

func conditionFromOptions(opts *Options) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true

	if opts == nil {
		return cond
	}

	cond.EastAsianWidth = opts.EastAsianWidth
	if opts.EastAsianWidth && opts.TreatEmojiAsWide {
		cond.StrictEmojiNeutral = false
	}

	return cond
}

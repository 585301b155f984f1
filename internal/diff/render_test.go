package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPretty_SimpleReplace(t *testing.T) {
	r := DiffLines("old\n", "new\n")

	// Methodology: if the Println looks good, grab actual from the assert.Equal failure and paste into exp.
	rendered := r.RenderPretty("", "", 0)
	// fmt.Println(rendered)
	exp := "\x1b[30m\x1b[48;5;224m-\x1b[0m\x1b[30m\x1b[48;5;217mold\x1b[0m\x1b[30m\x1b[48;5;224m\x1b[0m\n" +
		"\x1b[30m\x1b[48;5;194m+\x1b[0m\x1b[30m\x1b[48;5;114mnew\x1b[0m\x1b[30m\x1b[48;5;194m\x1b[0m"
	assert.Equal(t, exp, rendered)
}

func TestRenderPretty_UnpairedLinesAreNotSpanHighlighted(t *testing.T) {
	r := DiffLines("a", "a\nb")
	rendered := r.RenderPretty("", "", 0)
	assert.Equal(t, "\x1b[30m\x1b[48;5;194m+b\x1b[0m", rendered)
}

func TestRenderPretty_Filename(t *testing.T) {
	// Use a simple change to ensure body lines are present so header positioning is testable.
	d := DiffLines("old\n", "new\n")

	cases := []struct {
		name       string
		from       string
		to         string
		wantHeader string // empty means no header expected
	}{
		{name: "no filenames", from: "", to: "", wantHeader: ""},
		{name: "add file", from: "", to: "somefile.go", wantHeader: "add somefile.go:"},
		{name: "delete file", from: "somefile.go", to: "", wantHeader: "delete somefile.go:"},
		{name: "same name", from: "same.go", to: "same.go", wantHeader: "same.go:"},
		{name: "rename", from: "old.go", to: "new.go", wantHeader: "old.go -> new.go:"},
	}

	const cyanBold = "\x1b[1;36m"
	const reset = "\x1b[0m"

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := d.RenderPretty(tc.from, tc.to, 3)
			firstLine := r
			if idx := strings.Index(firstLine, "\n"); idx >= 0 {
				firstLine = firstLine[:idx]
			}
			if tc.wantHeader == "" {
				assert.False(t, strings.HasPrefix(firstLine, cyanBold), "expected no header, got: %q", firstLine)
				return
			}
			exp := cyanBold + tc.wantHeader + reset
			assert.Equal(t, exp, firstLine)
		})
	}
}

func TestRenderPretty_Context(t *testing.T) {
	// Construct a simple 5-line input with a single change in the middle.
	a := "a\nb\nc\nd\ne\n"
	b := "a\nb\nX\nd\ne\n"

	d := DiffLines(a, b)

	// With zero context, surrounding unchanged lines should not appear.
	r0 := d.RenderPretty("", "", 0)
	assert.NotContains(t, r0, " b")
	assert.NotContains(t, r0, " d")

	// With context=1, we expect exactly one unchanged line of context on each side.
	r1 := d.RenderPretty("", "", 1)
	assert.Contains(t, r1, " b")
	assert.Contains(t, r1, " d")
	assert.NotContains(t, r1, " a")
}

func TestRenderPretty_NoChanges(t *testing.T) {
	assert.Equal(t, "", DiffLines("a\nb", "a\nb").RenderPretty("", "", 3))
}

func TestRenderUnified_SimpleReplace_NoColor(t *testing.T) {
	old := "a\nb\nc\n"
	new := "a\nX\nc\n"

	d := DiffLines(old, new)

	r := d.RenderUnified(false, "old.go", "new.go", 1)

	exp := strings.Join([]string{
		"--- old.go",
		"+++ new.go",
		"@@ -1,3 +1,3 @@",
		" a",
		"-b",
		"+X",
		" c",
	}, "\n")

	assert.Equal(t, exp, r)
}

func TestRenderUnified_SimpleReplace_Color(t *testing.T) {
	old := "a\nb\nc\n"
	new := "a\nX\nc\n"

	d := DiffLines(old, new)

	const (
		reset    = "\x1b[0m"
		red      = "\x1b[31m"
		green    = "\x1b[32m"
		magenta  = "\x1b[35m"
		cyanBold = "\x1b[1;36m"
	)

	r := d.RenderUnified(true, "old.go", "new.go", 1)

	exp := strings.Join([]string{
		cyanBold + "--- old.go" + reset,
		cyanBold + "+++ new.go" + reset,
		magenta + "@@ -1,3 +1,3 @@" + reset,
		" a",
		red + "-b" + reset,
		green + "+X" + reset,
		" c",
	}, "\n")

	assert.Equal(t, exp, r)
}

func TestRenderUnified_WholesaleMiddle(t *testing.T) {
	// The prefix/suffix diff reports everything between the first and last change as replaced, even the shared "c".
	d := DiffLines("a\nb\nc\nd\ne\n", "a\nX\nc\nY\ne\n")

	r := d.RenderUnified(false, "a.go", "a.go", 1)

	exp := strings.Join([]string{
		"--- a.go",
		"+++ a.go",
		"@@ -1,5 +1,5 @@",
		" a",
		"-b",
		"-c",
		"-d",
		"+X",
		"+c",
		"+Y",
		" e",
	}, "\n")

	assert.Equal(t, exp, r)
}

func TestRenderUnified_AddToEmpty(t *testing.T) {
	d := DiffLines("", "a\nb\n")

	r := d.RenderUnified(false, "/dev/null", "new.txt", 0)

	exp := strings.Join([]string{
		"--- /dev/null",
		"+++ new.txt",
		"@@ -0,0 +1,2 @@",
		"+a",
		"+b",
	}, "\n")

	assert.Equal(t, exp, r)
}

func TestRenderUnified_SeparateHunks(t *testing.T) {
	// Hand-built: two changes far apart. DiffLines never produces this shape, but renderers accept any valid Result.
	r := Result{Same("a", 1), Removed("b"), Added("B"), Same("c", 3), Same("d", 4), Same("e", 5), Same("f", 6), Removed("g"), Added("G")}

	got := r.RenderUnified(false, "x", "x", 1)

	exp := strings.Join([]string{
		"--- x",
		"+++ x",
		"@@ -1,3 +1,3 @@",
		" a",
		"-b",
		"+B",
		" c",
		"@@ -6,2 +6,2 @@",
		" f",
		"-g",
		"+G",
	}, "\n")

	assert.Equal(t, exp, got)
}

func TestRenderUnified_NoChanges(t *testing.T) {
	r := DiffLines("a", "a").RenderUnified(false, "a", "b", 3)
	assert.Equal(t, "--- a\n+++ b", r)
}

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func renderText(src string, opts TextOptions) string {
	return RenderText(Parse(src), opts)
}

func TestRenderText_Plain(t *testing.T) {
	src := "# Title\n\nHello **world** and `go test`.\n\n## Sub\n\n### Small\n\n```\nx := 1\n```\n\n- a\n- b\n\n3. c\n4. d"
	want := strings.Join([]string{
		"Title\n=====",
		"Hello world and `go test`.",
		"Sub\n---",
		"Small",
		"    x := 1",
		"• a\n• b",
		"3. c\n4. d",
	}, "\n\n")
	assert.Equal(t, want, renderText(src, TextOptions{}))
}

func TestRenderText_Rule(t *testing.T) {
	assert.Equal(t, strings.Repeat("─", defaultRuleWidth), renderText("---", TextOptions{}))
	assert.Equal(t, strings.Repeat("─", 10), renderText("---", TextOptions{Width: 10}))
}

func TestRenderText_ParagraphLinesKeptWithoutWidth(t *testing.T) {
	assert.Equal(t, "one\ntwo", renderText("one\ntwo", TextOptions{}))
}

func TestRenderText_Wrap(t *testing.T) {
	assert.Equal(t, "aaa bbb\nccc", renderText("aaa bbb ccc", TextOptions{Width: 7}))
	assert.Equal(t, "aaa bbb\nccc", renderText("aaa\nbbb ccc", TextOptions{Width: 7}))
	assert.Equal(t, "abcdefghij\nx", renderText("abcdefghij x", TextOptions{Width: 4}))
	assert.Equal(t, "1. aaa bbb\n   ccc", renderText("1. aaa bbb ccc", TextOptions{Width: 10}))
}

func TestRenderText_Color(t *testing.T) {
	assert.Equal(t, ansiBold+"b"+ansiReset, renderText("**b**", TextOptions{Color: true}))
	assert.Equal(t, ansiItalic+"i"+ansiReset, renderText("*i*", TextOptions{Color: true}))
	assert.Equal(t, "run "+ansiCyan+"make"+ansiReset, renderText("run `make`", TextOptions{Color: true}))
	assert.Equal(t, ansiBold+ansiUnderline+"T"+ansiReset, renderText("# T", TextOptions{Color: true}))
	assert.Equal(t, ansiDim+"    x"+ansiReset, renderText("```\nx\n```", TextOptions{Color: true}))
}

func TestRenderText_Nil(t *testing.T) {
	assert.Equal(t, "", RenderText(nil, TextOptions{}))
}

package artifacts

import (
	"testing"

	"github.com/codalotl/artifactview/internal/diff"
	"github.com/stretchr/testify/assert"
)

func TestFileChange_Base(t *testing.T) {
	assert.Equal(t, "prev", FileChange{PreviousContent: "prev", OldContent: "old"}.Base())
	assert.Equal(t, "old", FileChange{OldContent: "old"}.Base())
	assert.Equal(t, "", FileChange{}.Base())
}

func TestFileChange_Diff(t *testing.T) {
	fc := FileChange{OldContent: "x := 1", Content: "x := 2", Type: TypeEdit}
	assert.Equal(t, diff.Result{diff.Removed("x := 1"), diff.Added("x := 2")}, fc.Diff(false))

	fc = FileChange{PreviousContent: "a\r\nb\r\n", Content: "a\nb\n"}
	assert.True(t, fc.Diff(false).HasChanges())
	assert.False(t, fc.Diff(true).HasChanges())
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "plain", in: []byte("hi\n"), want: "hi\n"},
		{name: "utf8 bom", in: []byte("\xef\xbb\xbfhi"), want: "hi"},
		{name: "utf16le bom", in: []byte{0xff, 0xfe, 'h', 0, 'i', 0}, want: "hi"},
		{name: "utf16be bom", in: []byte{0xfe, 0xff, 0, 'h', 0, 'i'}, want: "hi"},
		{name: "empty", in: nil, want: ""},
		{name: "invalid utf-8", in: []byte("caf\xe9\nline2"), want: "caf\xe9\nline2"},
		{name: "utf8 bom then invalid utf-8", in: []byte("\xef\xbb\xbf\xff\xfe"), want: "\xff\xfe"},
		{name: "utf8 bom only strips one", in: []byte("\xef\xbb\xbf\xef\xbb\xbfx"), want: "\xef\xbb\xbfx"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeText(tc.in)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

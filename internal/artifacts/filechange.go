package artifacts

import (
	"time"

	"github.com/codalotl/artifactview/internal/diff"
)

// Change types.
const (
	TypeWrite = "write" // The file was created or overwritten wholesale.
	TypeEdit  = "edit"  // Part of the file was replaced.
)

// FileChange is one recorded modification of a file.
type FileChange struct {
	Content         string    `json:"content"`                   // Content after the change.
	PreviousContent string    `json:"previousContent,omitempty"` // Full content before the change, when a prior backup exists.
	OldContent      string    `json:"oldContent,omitempty"`      // The replaced text of an edit, when only a fragment is known.
	Type            string    `json:"type"`                      // TypeWrite or TypeEdit.
	Timestamp       time.Time `json:"timestamp"`
	FilePath        string    `json:"filePath"`
	PreviousHash    string    `json:"previousHash,omitempty"` // Backup file name PreviousContent was read from.
}

// Base returns the text the change started from: PreviousContent if non-empty, else OldContent.
func (fc FileChange) Base() string {
	if fc.PreviousContent != "" {
		return fc.PreviousContent
	}
	return fc.OldContent
}

// Diff returns the line diff from Base() to Content. If normalize is true, CRLF and CR line endings are converted to "\n" on both sides first.
func (fc FileChange) Diff(normalize bool) diff.Result {
	oldText, newText := fc.Base(), fc.Content
	if normalize {
		oldText, newText = diff.NormalizeEOL(oldText), diff.NormalizeEOL(newText)
	}
	return diff.DiffLines(oldText, newText)
}

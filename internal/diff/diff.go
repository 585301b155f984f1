package diff

import (
	"fmt"
	"strings"
)

// Kind classifies a line of a Result.
type Kind int

// Line kinds.
const (
	KindSame Kind = iota
	KindAdded
	KindRemoved
)

// String returns "same", "added", or "removed". These strings are also the JSON wire names used by the dashboard.
func (k Kind) String() string {
	switch k {
	case KindSame:
		return "same"
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler, so Kinds encode as their String in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindSame, KindAdded, KindRemoved:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("diff: cannot marshal %v", k)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "same":
		*k = KindSame
	case "added":
		*k = KindAdded
	case "removed":
		*k = KindRemoved
	default:
		return fmt.Errorf("diff: unknown kind %q", text)
	}
	return nil
}

// Entry is one line of a Result.
type Entry struct {
	Kind       Kind   `json:"kind"`                 // KindSame, KindAdded, or KindRemoved.
	Content    string `json:"content"`              // The line without its '\n'.
	LineNumber int    `json:"lineNumber,omitempty"` // 1-based line number in the old text for KindSame; 0 otherwise.
}

// Same returns a KindSame entry.
func Same(content string, lineNumber int) Entry {
	return Entry{Kind: KindSame, Content: content, LineNumber: lineNumber}
}

// Added returns a KindAdded entry.
func Added(content string) Entry {
	return Entry{Kind: KindAdded, Content: content}
}

// Removed returns a KindRemoved entry.
func Removed(content string) Entry {
	return Entry{Kind: KindRemoved, Content: content}
}

// Result is a line diff from old text to new text. See the package docs for its invariants.
//
// Results returned by Cache are shared; treat every Result as immutable.
type Result []Entry

// OldLines returns the contents of the Same and Removed entries, in order. By the Result invariants this is the old text split on '\n'.
func (r Result) OldLines() []string {
	lines := make([]string, 0, len(r))
	for _, e := range r {
		if e.Kind != KindAdded {
			lines = append(lines, e.Content)
		}
	}
	return lines
}

// NewLines returns the contents of the Same and Added entries, in order. By the Result invariants this is the new text split on '\n'.
func (r Result) NewLines() []string {
	lines := make([]string, 0, len(r))
	for _, e := range r {
		if e.Kind != KindRemoved {
			lines = append(lines, e.Content)
		}
	}
	return lines
}

// Stats counts the entries of a Result by kind.
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Stats returns entry counts by kind.
func (r Result) Stats() Stats {
	var s Stats
	for _, e := range r {
		switch e.Kind {
		case KindSame:
			s.Unchanged++
		case KindAdded:
			s.Added++
		case KindRemoved:
			s.Removed++
		}
	}
	return s
}

// HasChanges reports whether r contains any Added or Removed entry.
func (r Result) HasChanges() bool {
	for _, e := range r {
		if e.Kind != KindSame {
			return true
		}
	}
	return false
}

// NormalizeEOL converts "\r\n" and lone "\r" line endings to "\n".
func NormalizeEOL(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", defaultEOL)
	return strings.ReplaceAll(text, "\r", defaultEOL)
}

// defaultEOL is the EOL ('\n').
//
// This constant exists because the design may change to allow configurable EOLs (maybe Windows needs "\r\n"), and this provides a nice hook to find callsites.
const defaultEOL = "\n"

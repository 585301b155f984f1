package diff

import (
	"fmt"
	"strings"
)

// Validate checks the invariants a Result must satisfy on its own and returns an error on the first violation:
//   - no Content contains '\n'
//   - Added and Removed entries have LineNumber == 0
//   - each Same entry's LineNumber is its 1-based position among the Same and Removed entries (i.e., its line number in the old text)
//   - unknown kinds are rejected
func (r Result) Validate() error {
	oldPos := 0
	for i, e := range r {
		if strings.Contains(e.Content, defaultEOL) {
			return fmt.Errorf("entry[%d]: Content contains EOL", i)
		}
		switch e.Kind {
		case KindSame:
			oldPos++
			if e.LineNumber != oldPos {
				return fmt.Errorf("entry[%d]: KindSame has LineNumber %d, want %d", i, e.LineNumber, oldPos)
			}
		case KindRemoved:
			oldPos++
			if e.LineNumber != 0 {
				return fmt.Errorf("entry[%d]: KindRemoved requires LineNumber==0", i)
			}
		case KindAdded:
			if e.LineNumber != 0 {
				return fmt.Errorf("entry[%d]: KindAdded requires LineNumber==0", i)
			}
		default:
			return fmt.Errorf("entry[%d]: unknown kind %d", i, int(e.Kind))
		}
	}
	return nil
}

// validateAgainst runs Validate and additionally checks that r reconstructs oldLines and newLines.
func (r Result) validateAgainst(oldLines, newLines []string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := sameLines(r.OldLines(), oldLines); err != nil {
		return fmt.Errorf("diff: entries do not reconstruct old text: %w", err)
	}
	if err := sameLines(r.NewLines(), newLines); err != nil {
		return fmt.Errorf("diff: entries do not reconstruct new text: %w", err)
	}
	return nil
}

func sameLines(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("got %d lines, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			return fmt.Errorf("line %d: got %q, want %q", i+1, got[i], want[i])
		}
	}
	return nil
}

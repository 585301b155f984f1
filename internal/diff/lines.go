package diff

import (
	"fmt"
	"strings"
)

// DiffLines diffs oldText to newText line by line using the common-prefix / common-suffix algorithm described in the package docs.
//
// It is total: any pair of strings, including empty and identical ones, produces a Result. If oldText == newText, every entry is KindSame.
func DiffLines(oldText, newText string) Result {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)
	oldLen, newLen := len(oldLines), len(newLines)

	shorter := oldLen
	if newLen < shorter {
		shorter = newLen
	}

	result := make(Result, 0, max(oldLen, newLen))

	prefixLen := 0
	for prefixLen < shorter && oldLines[prefixLen] == newLines[prefixLen] {
		result = append(result, Same(oldLines[prefixLen], prefixLen+1))
		prefixLen++
	}

	// The suffix may not overlap the prefix on either side.
	suffixLen := 0
	for suffixLen < shorter-prefixLen && oldLines[oldLen-1-suffixLen] == newLines[newLen-1-suffixLen] {
		suffixLen++
	}

	for _, line := range oldLines[prefixLen : oldLen-suffixLen] {
		result = append(result, Removed(line))
	}
	for _, line := range newLines[prefixLen : newLen-suffixLen] {
		result = append(result, Added(line))
	}
	for i := oldLen - suffixLen; i < oldLen; i++ {
		result = append(result, Same(oldLines[i], i+1))
	}

	if err := result.validateAgainst(oldLines, newLines); err != nil {
		panic(fmt.Errorf("DiffLines: validate failed with %v", err))
	}

	return result
}

// splitLines splits text on '\n'. Like strings.Split, "" yields [""] and a trailing '\n' yields a trailing "".
func splitLines(text string) []string {
	return strings.Split(text, defaultEOL)
}

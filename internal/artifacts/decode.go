package artifacts

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadText reads path as text. A UTF-16 byte order mark selects that encoding and is removed, as is a UTF-8 one. Other bytes, including invalid UTF-8, are
// kept as-is. A missing file wraps ErrNotFound.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", err
	}
	return decodeText(data)
}

var utf8BOM = []byte("\xef\xbb\xbf")

func decodeText(data []byte) (string, error) {
	// BOMOverride would run UTF-8 input through a replacing decoder.
	if rest, ok := bytes.CutPrefix(data, utf8BOM); ok {
		return string(rest), nil
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(decoded), nil
}

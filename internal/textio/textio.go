// Package textio reads text files into UTF-8 strings, honouring Unicode
// byte order marks.
package textio

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode converts raw file bytes to a UTF-8 string. A leading BOM selects
// UTF-16 (either endianness) or UTF-8 and is stripped; without one the
// bytes are treated as UTF-8. Malformed sequences become U+FFFD.
func Decode(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(decoded), nil
}

// ReadFile reads and decodes a text file.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return Decode(data)
}

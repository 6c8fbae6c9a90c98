// Package encoding normalizes names stored in mesh file headers.
//
// STL headers and solid names predate UTF-8 in most CAD tools; exporters on
// Windows write them in the ANSI code page.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LegacyToUTF8 converts Windows-1252 bytes to a UTF-8 string.
// Input that is already valid UTF-8 is returned unchanged.
func LegacyToUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToLegacy converts a UTF-8 string to Windows-1252 bytes.
// Returns the original bytes if the string has no Windows-1252 form.
func UTF8ToLegacy(s string) []byte {
	result, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// HeaderName extracts a name from a fixed-size header field. The field ends
// at the first null byte; surrounding spaces are trimmed.
func HeaderName(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return strings.TrimSpace(LegacyToUTF8(data))
}

// FixedHeader encodes s into a null-padded field of size bytes, truncating
// when s is too long.
func FixedHeader(s string, size int) []byte {
	result := make([]byte, size)
	copy(result, UTF8ToLegacy(s))
	return result
}

package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacyToUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "ascii", in: []byte("bracket"), want: "bracket"},
		{name: "utf8 kept", in: []byte("Gehäuse"), want: "Gehäuse"},
		{name: "windows-1252", in: []byte{'G', 'e', 'h', 0xE4, 'u', 's', 'e'}, want: "Gehäuse"},
		{name: "empty", in: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LegacyToUTF8(tt.in))
		})
	}
}

func TestHeaderName(t *testing.T) {
	field := make([]byte, 80)
	copy(field, []byte{' ', 'T', 'e', 'i', 'l', ' ', 0xDF, ' '})

	assert.Equal(t, "Teil ß", HeaderName(field))
	assert.Empty(t, HeaderName(make([]byte, 80)))
}

func TestFixedHeader(t *testing.T) {
	assert.Equal(t, []byte{'G', 'e', 'h', 0xE4, 'u', 's', 'e', 0, 0, 0}, FixedHeader("Gehäuse", 10))
	assert.Equal(t, "abcd", string(FixedHeader("abcdefghijkl", 4)))

	// Characters outside Windows-1252 fall back to the UTF-8 bytes.
	assert.Equal(t, "零件", HeaderName(FixedHeader("零件", 16)))
}

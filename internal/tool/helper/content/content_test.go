package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line", "line1", []string{"line1"}},
		{"multiple lines LF", "line1\nline2\nline3", []string{"line1", "line2", "line3"}},
		{"trailing newline", "line1\n", []string{"line1"}},
		{"empty string", "", nil},
		{"only newline", "\n", []string{""}},
		{"CRLF", "line1\r\nline2\r\n", []string{"line1", "line2"}},
		{"mixed endings", "line1\nline2\r\nline3", []string{"line1", "line2", "line3"}},
		{"dangling CR is content", "line1\rline2", []string{"line1\rline2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitLines(tt.input))
			assert.Equal(t, len(tt.expected), CountLines(tt.input))
		})
	}
}

func TestIsBinaryContent(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		binary bool
	}{
		{"plain text", []byte("hello\nworld"), false},
		{"empty", nil, false},
		{"nul byte", []byte("abc\x00def"), true},
		{"utf16 le bom", []byte{0xFF, 0xFE, 'a', 0x00}, false},
		{"utf32 be bom", []byte{0x00, 0x00, 0xFE, 0xFF, 0x00, 0x00, 0x00, 'a'}, false},
		{"nul past sample window", append(repeat('a', binarySampleSize), 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.binary, IsBinaryContent(tt.data))
		})
	}
}

func repeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

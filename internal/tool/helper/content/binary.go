package content

import "bytes"

// binarySampleSize is how many leading bytes are scanned for NUL, the same window git uses.
const binarySampleSize = 8000

// Byte order marks of encodings that legitimately contain NUL bytes.
var wideBOMs = [][]byte{
	{0xFF, 0xFE},
	{0xFE, 0xFF},
	{0x00, 0x00, 0xFE, 0xFF},
}

// IsBinaryContent reports whether data looks binary: a NUL byte within the
// sample window, unless the data starts with a UTF-16 or UTF-32 BOM.
func IsBinaryContent(data []byte) bool {
	for _, bom := range wideBOMs {
		if bytes.HasPrefix(data, bom) {
			return false
		}
	}
	sample := data[:min(len(data), binarySampleSize)]
	return bytes.IndexByte(sample, 0) >= 0
}

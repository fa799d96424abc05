// Package content holds pure helpers for classifying byte content.
package content

import "bytes"

// binarySampleSize is how many leading bytes are scanned for NUL, as git does.
const binarySampleSize = 8000

// wideBOMs mark UTF-16 and UTF-32 text, which is full of NUL bytes.
var wideBOMs = [][]byte{
	{0xFF, 0xFE},
	{0xFE, 0xFF},
	{0x00, 0x00, 0xFE, 0xFF},
}

// IsBinaryContent reports whether data looks binary: a NUL byte within the
// first binarySampleSize bytes, unless the data starts with a wide-text BOM.
func IsBinaryContent(data []byte) bool {
	for _, bom := range wideBOMs {
		if bytes.HasPrefix(data, bom) {
			return false
		}
	}
	return bytes.IndexByte(data[:min(len(data), binarySampleSize)], 0) >= 0
}

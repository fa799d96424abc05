package content

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrNotUTF8 is returned when bytes cannot be decoded as UTF-8 text.
var ErrNotUTF8 = errors.New("content is not valid UTF-8")

// DecodeText converts data to a string, rejecting anything that is not valid UTF-8.
// The offset of the first invalid byte is reported to help locate the problem.
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	offset := 0
	for offset < len(data) {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		offset += size
	}
	return "", fmt.Errorf("%w: invalid byte at offset %d", ErrNotUTF8, offset)
}

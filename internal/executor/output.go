package executor

import (
	"github.com/Cyclone1070/mizu/internal/content"
)

// binaryPlaceholder replaces output that looks like binary data.
const binaryPlaceholder = "[Binary Content]"

// outputBuffer keeps the first limit bytes a command writes and counts the
// rest. Writes always succeed so a chatty child never blocks on a full pipe.
// It has a single writer and is read only after the writer finished.
type outputBuffer struct {
	data    []byte
	limit   int
	dropped int64
}

func newOutputBuffer(limit int) *outputBuffer {
	return &outputBuffer{limit: limit}
}

func (b *outputBuffer) Write(p []byte) (int, error) {
	keep := min(len(p), max(b.limit-len(b.data), 0))
	b.data = append(b.data, p[:keep]...)
	b.dropped += int64(len(p) - keep)
	return len(p), nil
}

// binary reports whether the captured prefix looks like binary data.
func (b *outputBuffer) binary() bool {
	return content.IsBinaryContent(b.data)
}

// String returns the captured text, or binaryPlaceholder for binary output.
func (b *outputBuffer) String() string {
	if b.binary() {
		return binaryPlaceholder
	}
	return string(b.data)
}

// Truncated reports whether anything written is missing from String.
func (b *outputBuffer) Truncated() bool {
	return b.dropped > 0 || b.binary()
}

package buffer

import (
	"strings"

	"github.com/riverfjs/docmark-go/internal/util"
)

// TextBuffer accumulates rendered plain text and tracks the current
// UTF-16 offset and line number.
type TextBuffer struct {
	parts       []string
	utf16Offset int
	byteOffset  int
	lines       int
}

// New creates a new TextBuffer.
func New() *TextBuffer {
	return &TextBuffer{parts: make([]string, 0)}
}

// Write appends text to the buffer.
func (tb *TextBuffer) Write(text string) {
	if text == "" {
		return
	}
	tb.parts = append(tb.parts, text)
	tb.utf16Offset += util.UTF16Len(text)
	tb.byteOffset += len(text)
	tb.lines += strings.Count(text, "\n")
}

// UTF16Offset returns the current UTF-16 offset.
func (tb *TextBuffer) UTF16Offset() int {
	return tb.utf16Offset
}

// ByteOffset returns the current byte offset.
func (tb *TextBuffer) ByteOffset() int {
	return tb.byteOffset
}

// Line returns the 0-based line the next write lands on.
func (tb *TextBuffer) Line() int {
	return tb.lines
}

// TrailingNewlineCount counts trailing newline characters in the buffer.
func (tb *TextBuffer) TrailingNewlineCount() int {
	count := 0
	for i := len(tb.parts) - 1; i >= 0; i-- {
		part := tb.parts[i]
		for j := len(part) - 1; j >= 0; j-- {
			if part[j] != '\n' {
				return count
			}
			count++
		}
	}
	return count
}

// PopLast removes and returns the last written part.
// Used for replacing just-written bullet prefixes in task lists.
func (tb *TextBuffer) PopLast() string {
	if len(tb.parts) == 0 {
		return ""
	}
	last := tb.parts[len(tb.parts)-1]
	tb.parts = tb.parts[:len(tb.parts)-1]
	tb.utf16Offset -= util.UTF16Len(last)
	tb.byteOffset -= len(last)
	tb.lines -= strings.Count(last, "\n")
	return last
}

// String returns the accumulated text.
func (tb *TextBuffer) String() string {
	return strings.Join(tb.parts, "")
}

// Reset clears the buffer.
func (tb *TextBuffer) Reset() {
	tb.parts = tb.parts[:0]
	tb.utf16Offset = 0
	tb.byteOffset = 0
	tb.lines = 0
}

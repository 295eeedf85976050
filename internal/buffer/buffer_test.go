package buffer

import "testing"

func TestTextBuffer(t *testing.T) {
	tb := New()
	tb.Write("a😀")
	tb.Write("\n\n")
	tb.Write("中")

	if got := tb.String(); got != "a😀\n\n中" {
		t.Errorf("String() = %q", got)
	}
	if got := tb.UTF16Offset(); got != 6 {
		t.Errorf("UTF16Offset() = %d, want 6", got)
	}
	if got := tb.ByteOffset(); got != len("a😀\n\n中") {
		t.Errorf("ByteOffset() = %d", got)
	}
	if got := tb.Line(); got != 2 {
		t.Errorf("Line() = %d, want 2", got)
	}

	if last := tb.PopLast(); last != "中" {
		t.Errorf("PopLast() = %q", last)
	}
	if got := tb.TrailingNewlineCount(); got != 2 {
		t.Errorf("TrailingNewlineCount() = %d, want 2", got)
	}
	tb.PopLast()
	if tb.Line() != 0 || tb.UTF16Offset() != 3 {
		t.Errorf("after PopLast: line %d, utf16 %d", tb.Line(), tb.UTF16Offset())
	}

	tb.Reset()
	if tb.String() != "" || tb.ByteOffset() != 0 {
		t.Error("Reset() should clear the buffer")
	}
}

package util

import "unicode/utf8"

// UTF16Len returns the length of text measured in UTF-16 code units.
//
// Browsers index strings (and selection offsets) in UTF-16 code units.
// Characters outside the BMP take 2 units (a surrogate pair); all others take 1.
func UTF16Len(text string) int {
	count := 0
	for _, r := range text {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// UTF16ToByte 将 UTF-16 偏移转换为字节偏移，超出范围时截断到 len(text)
func UTF16ToByte(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	units := 0
	for i, r := range text {
		if units >= offset {
			return i
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return len(text)
}

// UTF16Cursor 按字节偏移单调前进并累计 UTF-16 偏移
//
// 块按顺序产生，因此只需要一次线性扫描。
type UTF16Cursor struct {
	text  string
	byteP int
	units int
}

// NewUTF16Cursor creates a cursor at offset 0.
func NewUTF16Cursor(text string) *UTF16Cursor {
	return &UTF16Cursor{text: text}
}

// At returns the UTF-16 offset of byte offset pos. pos must not go backwards.
func (c *UTF16Cursor) At(pos int) int {
	if pos > len(c.text) {
		pos = len(c.text)
	}
	for c.byteP < pos {
		r, size := utf8.DecodeRuneInString(c.text[c.byteP:])
		if r > 0xFFFF {
			c.units += 2
		} else {
			c.units++
		}
		c.byteP += size
	}
	return c.units
}

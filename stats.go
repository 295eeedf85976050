package docmark

import (
	"strings"
	"unicode"

	"github.com/riverfjs/docmark-go/internal/util"
)

// Stats 文档统计信息
type Stats struct {
	Blocks int `json:"blocks"`
	Words  int `json:"words"`
	// Characters 以 UTF-16 code units 计数，与浏览器选区偏移一致
	Characters int `json:"characters"`
	Images     int `json:"images"`
	Pages      int `json:"pages"`
}

// DocumentStats 计算文档统计信息
func DocumentStats(doc *Document) Stats {
	return Stats{
		Blocks:     len(Segment(doc.Markdown)),
		Words:      CountWords(doc.Markdown),
		Characters: util.UTF16Len(doc.Markdown),
		Images:     len(doc.Images),
		Pages:      doc.PageCount,
	}
}

// CountWords 计算词数
//
// 以空白分词；CJK 字符每个字算一个词。
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case isCJK(r):
			count++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// Preview 返回去掉标记后的前 n 个字符，用于历史列表
func Preview(markdown string, n int) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "#>-*|` "))
		if line == "" || strings.Trim(line, "-|: ") == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > n {
			return string(runes[:n]) + "…"
		}
		return line
	}
	return ""
}

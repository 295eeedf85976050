package converter

import (
	"regexp"
	"strings"
)

var (
	// codeRegionRe 匹配代码块和行内代码
	codeRegionRe = regexp.MustCompile("(```[\\s\\S]*?```|`[^`\\n]+`)")

	// LaTeX 块级公式：\[...\]
	latexMathRe = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)

	// LaTeX 行内公式：\(...\)
	latexInlineRe = regexp.MustCompile(`\\\((.*?)\\\)`)
)

// NormalizeMath 将 \[...\] 和 \(...\) 改写为 $$...$$ 和 $...$
// 跳过代码块和行内代码中的内容
func NormalizeMath(text string) string {
	if !strings.Contains(text, `\[`) && !strings.Contains(text, `\(`) {
		return text
	}
	parts := codeRegionRe.Split(text, -1)
	matches := codeRegionRe.FindAllString(text, -1)

	var result strings.Builder
	for i, part := range parts {
		result.WriteString(rewriteDelimiters(part))
		if i < len(matches) {
			result.WriteString(matches[i])
		}
	}
	return result.String()
}

func rewriteDelimiters(text string) string {
	text = latexMathRe.ReplaceAllStringFunc(text, func(match string) string {
		content := latexMathRe.FindStringSubmatch(match)[1]
		if strings.TrimSpace(content) == "" {
			return match
		}
		return "$$" + content + "$$"
	})
	return latexInlineRe.ReplaceAllStringFunc(text, func(match string) string {
		content := strings.TrimSpace(latexInlineRe.FindStringSubmatch(match)[1])
		if content == "" {
			return match
		}
		return "$" + content + "$"
	})
}

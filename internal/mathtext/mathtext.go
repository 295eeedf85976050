// Package mathtext 将 TeX 公式转换为可读的 Unicode 文本
//
// 只覆盖 OCR 输出中常见的命令：希腊字母、运算符、上下标、分数、根号、
// 字体命令和矩阵类环境。无法识别的命令原样保留，转换永远不会失败。
package mathtext

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var commandRe = regexp.MustCompile(`^\\([a-zA-Z]+|.)`)

// Convert 将 TeX 转换为 Unicode；内部出错时返回原文
func Convert(tex string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = tex
		}
	}()
	return strings.TrimSpace(convert(tex))
}

func convert(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		ch := s[i]
		switch {
		case ch == '\\':
			cmd, next := readCommand(s, i)
			out, next := command(cmd, s, next)
			b.WriteString(out)
			i = next
		case ch == '{':
			group, next := readGroup(s, i)
			b.WriteString(convert(group))
			i = next
		case ch == '}':
			i++
		case ch == '_' || ch == '^':
			arg, next := readArg(s, i+1)
			if ch == '_' {
				b.WriteString(subscript(arg))
			} else {
				b.WriteString(superscript(arg))
			}
			i = next
		case ch == '~' || ch == '&':
			b.WriteByte(' ')
			i++
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
				i++
			}
			b.WriteByte(' ')
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return b.String()
}

// command 处理一个命令，返回输出和新的读取位置
func command(cmd, s string, i int) (string, int) {
	if sym, ok := symbols[cmd]; ok {
		return sym, i
	}
	if mark, ok := accents[cmd]; ok {
		arg, next := readArg(s, i)
		return combine(arg, mark), next
	}
	if style, ok := styles[cmd]; ok {
		arg, next := readArg(s, i)
		return restyle(arg, style.upper, style.lower, style.digit), next
	}
	if passthrough[cmd] {
		raw, next := readRawArg(s, i)
		return raw, next
	}

	switch cmd {
	case `\left`, `\right`:
		i = skipSpaces(s, i)
		if i < len(s) && s[i] == '.' {
			i++
		}
		return "", i
	case `\not`:
		arg, next := readArg(s, i)
		arg = strings.TrimSpace(arg)
		if neg, ok := negations[arg]; ok {
			return neg, next
		}
		return combine(arg, '\u0338'), next
	case `\frac`, `\dfrac`, `\tfrac`:
		num, next := readArg(s, i)
		den, next := readArg(s, next)
		return fraction(num, den), next
	case `\sqrt`:
		index, next := readOptional(s, i)
		arg, next := readArg(s, next)
		return root(index, arg), next
	case `\mathbb`:
		arg, next := readArg(s, i)
		return mapRunes(arg, blackboard), next
	case `\binom`, `\tbinom`, `\dbinom`:
		n, next := readArg(s, i)
		k, next := readArg(s, next)
		return "C(" + n + "," + k + ")", next
	case `\boxed`:
		arg, next := readArg(s, i)
		return "[" + arg + "]", next
	case `\pmod`:
		arg, next := readArg(s, i)
		return " (mod " + arg + ")", next
	case `\color`, `\label`, `\tag`:
		_, next := readRawArg(s, i)
		return "", next
	case `\begin`:
		name, next := readRawArg(s, i)
		body, next := readEnvironment(s, next, name)
		return environment(name, body), next
	case `\end`:
		_, next := readRawArg(s, i)
		return "", next
	}
	return cmd, i
}

func readCommand(s string, i int) (string, int) {
	if m := commandRe.FindString(s[i:]); m != "" {
		return m, i + len(m)
	}
	return `\`, i + 1
}

// readGroup 读取 {…}，返回不含花括号的内容；缺少右括号时读到末尾
func readGroup(s string, i int) (string, int) {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[i+1 : j], j + 1
			}
		}
	}
	return s[i+1:], len(s)
}

// readArg 读取一个参数并转换：花括号组、命令或单个字符
func readArg(s string, i int) (string, int) {
	i = skipSpaces(s, i)
	if i >= len(s) {
		return "", i
	}
	switch s[i] {
	case '{':
		group, next := readGroup(s, i)
		return strings.TrimSpace(convert(group)), next
	case '\\':
		cmd, next := readCommand(s, i)
		return command(cmd, s, next)
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i : i+size], i + size
}

// readRawArg 读取参数但不转换
func readRawArg(s string, i int) (string, int) {
	i = skipSpaces(s, i)
	if i < len(s) && s[i] == '{' {
		return readGroup(s, i)
	}
	return readArg(s, i)
}

func readOptional(s string, i int) (string, int) {
	j := skipSpaces(s, i)
	if j >= len(s) || s[j] != '[' {
		return "", i
	}
	end := strings.IndexByte(s[j:], ']')
	if end < 0 {
		return "", i
	}
	return convert(s[j+1 : j+end]), j + end + 1
}

func readEnvironment(s string, i int, name string) (string, int) {
	marker := `\end{` + name + `}`
	end := strings.Index(s[i:], marker)
	if end < 0 {
		return s[i:], len(s)
	}
	return s[i : i+end], i + end + len(marker)
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

func environment(name, body string) string {
	if name == "array" {
		body = strings.TrimSpace(body)
		if strings.HasPrefix(body, "{") {
			_, next := readGroup(body, 0)
			body = body[next:]
		}
	}
	rows := splitRows(body)
	if delims, ok := matrices[name]; ok {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			cells := strings.Split(row, "&")
			for i, cell := range cells {
				cells[i] = strings.TrimSpace(convert(cell))
			}
			lines = append(lines, strings.Join(cells, "  "))
		}
		return delims[0] + strings.Join(lines, "; ") + delims[1]
	}
	if name == "cases" {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			parts := strings.SplitN(row, "&", 2)
			line := strings.TrimSpace(convert(parts[0]))
			if len(parts) == 2 {
				if cond := strings.TrimSpace(convert(parts[1])); cond != "" {
					line += ", " + cond
				}
			}
			lines = append(lines, line)
		}
		return "{ " + strings.Join(lines, "; ")
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.TrimSpace(convert(strings.ReplaceAll(row, "&", ""))))
	}
	return strings.Join(lines, "\n")
}

func splitRows(body string) []string {
	var rows []string
	for _, row := range strings.Split(body, `\\`) {
		if strings.TrimSpace(row) != "" {
			rows = append(rows, row)
		}
	}
	return rows
}

func superscript(arg string) string {
	if mapped, ok := mapAll(arg, superscripts); ok {
		return mapped
	}
	if utf8.RuneCountInString(arg) == 1 {
		return "^" + arg
	}
	return "^(" + arg + ")"
}

func subscript(arg string) string {
	if mapped, ok := mapAll(arg, subscripts); ok {
		return mapped
	}
	if utf8.RuneCountInString(arg) == 1 {
		return "_" + arg
	}
	return "_(" + arg + ")"
}

// mapAll 仅当所有字符都可映射时成功
func mapAll(s string, table map[rune]rune) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	var b strings.Builder
	for _, r := range s {
		m, ok := table[r]
		if !ok {
			return "", false
		}
		b.WriteRune(m)
	}
	return b.String(), true
}

func mapRunes(s string, table map[rune]rune) string {
	var b strings.Builder
	for _, r := range s {
		if m, ok := table[r]; ok {
			b.WriteRune(m)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func restyle(s string, upper, lower, digit rune) string {
	var b strings.Builder
	for _, r := range s {
		var m rune
		switch {
		case r >= 'A' && r <= 'Z':
			m = upper + r - 'A'
		case r >= 'a' && r <= 'z':
			m = lower + r - 'a'
		case r >= '0' && r <= '9' && digit != 0:
			m = digit + r - '0'
		default:
			b.WriteRune(r)
			continue
		}
		if h, ok := holes[m]; ok {
			m = h
		}
		b.WriteRune(m)
	}
	return b.String()
}

// combine 在每个非空白字符后追加组合字符
func combine(s string, mark rune) string {
	if s == "" {
		return string(mark)
	}
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		if !unicode.IsSpace(r) {
			b.WriteRune(mark)
		}
	}
	return b.String()
}

func fraction(num, den string) string {
	num, den = strings.TrimSpace(num), strings.TrimSpace(den)
	if f, ok := fractions[[2]string{num, den}]; ok {
		return f
	}
	return group(num) + "/" + group(den)
}

func root(index, arg string) string {
	radix := "√"
	switch strings.TrimSpace(index) {
	case "", "2":
	case "3":
		radix = "∛"
	case "4":
		radix = "∜"
	default:
		if sup, ok := mapAll(index, superscripts); ok {
			radix = sup + "√"
		} else {
			radix = "(" + index + ")√"
		}
	}
	return radix + group(strings.TrimSpace(arg))
}

// group 多字符表达式加括号
func group(s string) string {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.Is(unicode.Mn, r) {
			return "(" + s + ")"
		}
	}
	return s
}

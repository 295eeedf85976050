// Package segment 将 Markdown 切分为顶层块，每个块保留原始源码与位置
//
// 切分基于 goldmark 语法树：每个顶层节点对应一个块，块的源码是原始字符串
// 按行切出来的片段。一个块从它的第一行开始，到下一个块开始之前结束，
// 末尾的空行不计入。未闭合的代码/公式围栏一直延伸到输入末尾。
package segment

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/riverfjs/docmark-go/internal/mathblock"
	"github.com/riverfjs/docmark-go/internal/parser"
	"github.com/riverfjs/docmark-go/internal/types"
	"github.com/riverfjs/docmark-go/internal/util"
)

// Segment 将 markdown 切分为有序、不重叠的块
//
// 不返回错误：无法识别的结构退化为把剩余内容当作一个块。
func Segment(markdown string) []types.Block {
	if strings.TrimSpace(markdown) == "" {
		return []types.Block{}
	}
	idx := newLineIndex(markdown)
	extents, ok := parseExtents(markdown, idx)
	if !ok || len(extents) == 0 {
		extents = fallbackExtent(idx)
	}
	return buildBlocks(markdown, idx, extents)
}

// extent 一个顶层节点占据的行范围
type extent struct {
	kind      types.BlockType
	startLine int // 0-based
	openFence bool
}

func parseExtents(markdown string, idx *lineIndex) (extents []extent, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			extents, ok = nil, false
		}
	}()

	source := []byte(markdown)
	doc := parser.ParseAST(source)

	prevLine := -1
	prevEnd := -1
	for _, node := range parser.TopLevel(doc) {
		lo, hi := nodeSpan(node, source)
		line := -1
		if fenced, isFenced := node.(*ast.FencedCodeBlock); isFenced {
			line = fencedStartLine(fenced, idx)
		} else if math, isMath := node.(*mathblock.Block); isMath {
			line = idx.lineOf(math.Opening)
		} else if lo >= 0 {
			line = idx.lineOf(lo)
		}
		if line < 0 {
			// 没有位置信息（分隔线、空围栏）：从上一个块的最后一行之后找
			if _, isBreak := node.(*ast.ThematicBreak); isBreak {
				line = idx.nextMatching(prevEnd+1, thematicBreak)
			}
			if line < 0 {
				line = idx.nextNonBlank(prevEnd + 1)
			}
		}
		if len(extents) == 0 {
			// 文档开头被解析器吞掉的内容（如链接引用定义）并入第一个块
			if first := idx.nextNonBlank(0); first >= 0 && first < line {
				line = first
			}
		}
		if line < 0 || line <= prevLine {
			continue
		}
		extents = append(extents, extent{
			kind:      blockType(node),
			startLine: line,
			openFence: isOpenFence(node, source, idx, line),
		})
		prevLine = line
		if end := endLine(node, source, idx, line, hi); end > prevEnd {
			prevEnd = end
		}
	}
	return extents, true
}

var thematicBreak = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})\r?\n?$`)

// endLine 节点占据的最后一行，包括结束围栏和 setext 下划线
func endLine(node ast.Node, source []byte, idx *lineIndex, start, hi int) int {
	last := start
	if hi > 0 && idx.lineOf(hi-1) > last {
		last = idx.lineOf(hi - 1)
	}
	switch n := node.(type) {
	case *ast.FencedCodeBlock:
		if closing, open := fenceClose(n, source, idx, start); !open {
			return closing
		}
	case *mathblock.Block:
		if n.Closed && idx.lineOf(n.Closing) > last {
			return idx.lineOf(n.Closing)
		}
	case *ast.Heading:
		// setext 标题的下划线不在 Lines() 里
		if !bytes.HasPrefix(bytes.TrimLeft(idx.line(source, start), " "), []byte("#")) && last+1 < len(idx.starts) {
			return last + 1
		}
	}
	return last
}

// fallbackExtent 整个非空输入作为一个段落
func fallbackExtent(idx *lineIndex) []extent {
	first := idx.nextNonBlank(0)
	if first < 0 {
		return nil
	}
	return []extent{{kind: types.BlockParagraph, startLine: first}}
}

func buildBlocks(markdown string, idx *lineIndex, extents []extent) []types.Block {
	blocks := make([]types.Block, 0, len(extents))
	cursor := util.NewUTF16Cursor(markdown)
	for i, ext := range extents {
		start := idx.starts[ext.startLine]
		var end int
		if i+1 < len(extents) {
			end = idx.trimEnd(start, idx.starts[extents[i+1].startLine])
		} else if ext.openFence {
			end = len(markdown)
		} else {
			end = idx.trimEnd(start, len(markdown))
		}
		if end <= start {
			continue
		}
		startPt := idx.point(start)
		startPt.UTF16 = cursor.At(start)
		endPt := idx.point(end)
		endPt.UTF16 = cursor.At(end)
		blocks = append(blocks, types.Block{
			Index:    len(blocks),
			Type:     ext.kind,
			Source:   markdown[start:end],
			Position: types.Position{Start: startPt, End: endPt},
		})
	}
	return blocks
}

// blockType 将 goldmark 节点映射为块类型
func blockType(node ast.Node) types.BlockType {
	switch node.(type) {
	case *ast.Heading:
		return types.BlockHeading
	case *ast.Paragraph, *ast.TextBlock:
		return types.BlockParagraph
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return types.BlockCode
	case *mathblock.Block:
		return types.BlockMath
	case *ast.List:
		return types.BlockList
	case *east.Table:
		return types.BlockTable
	case *ast.Blockquote:
		return types.BlockBlockquote
	case *ast.ThematicBreak:
		return types.BlockThematicBreak
	case *ast.HTMLBlock:
		return types.BlockHTML
	}
	return types.BlockType(strings.ToLower(node.Kind().String()))
}

// nodeSpan 返回节点及其后代所有源码片段的最小起点和最大终点
func nodeSpan(node ast.Node, source []byte) (lo, hi int) {
	lo, hi = -1, -1
	add := func(seg text.Segment) {
		if seg.Start < 0 || seg.Stop > len(source) || seg.Stop < seg.Start {
			return
		}
		if lo < 0 || seg.Start < lo {
			lo = seg.Start
		}
		if seg.Stop > hi {
			hi = seg.Stop
		}
	}
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				add(lines.At(i))
			}
		}
		switch v := n.(type) {
		case *ast.Text:
			add(v.Segment)
		case *ast.RawHTML:
			for i := 0; i < v.Segments.Len(); i++ {
				add(v.Segments.At(i))
			}
		case *ast.FencedCodeBlock:
			if v.Info != nil {
				add(v.Info.Segment)
			}
		case *ast.HTMLBlock:
			if v.HasClosure() {
				add(v.ClosureLine)
			}
		case *mathblock.Block:
			add(text.NewSegment(v.Opening, v.Opening+2))
		case *mathblock.Inline:
			add(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return lo, hi
}

// fencedStartLine 围栏代码块的起始行：info 所在行，或第一行内容的上一行
func fencedStartLine(n *ast.FencedCodeBlock, idx *lineIndex) int {
	if n.Info != nil {
		return idx.lineOf(n.Info.Segment.Start)
	}
	if n.Lines().Len() > 0 {
		return idx.lineOf(n.Lines().At(0).Start) - 1
	}
	return -1
}

// isOpenFence 判断围栏块是否缺少结束标记；start 为块的起始行
func isOpenFence(node ast.Node, source []byte, idx *lineIndex, start int) bool {
	switch n := node.(type) {
	case *mathblock.Block:
		return !n.Closed
	case *ast.FencedCodeBlock:
		_, open := fenceClose(n, source, idx, start)
		return open
	}
	return false
}

// fenceClose 返回围栏代码块的结束行；open 为 true 表示没有结束围栏
func fenceClose(n *ast.FencedCodeBlock, source []byte, idx *lineIndex, start int) (closing int, open bool) {
	if start < 0 {
		return -1, false
	}
	fence := bytes.TrimLeft(idx.line(source, start), " ")
	char := byte('`')
	if len(fence) > 0 {
		char = fence[0]
	}
	width := 0
	for width < len(fence) && fence[width] == char {
		width++
	}
	lastContent := start
	if n.Lines().Len() > 0 {
		lastContent = idx.lineOf(n.Lines().At(n.Lines().Len() - 1).Start)
	}
	next := idx.nextNonBlank(lastContent + 1)
	if next < 0 {
		return -1, true
	}
	closing := bytes.TrimSpace(idx.line(source, next))
	if len(closing) < width {
		return -1, true
	}
	for _, c := range closing {
		if c != char {
			return -1, true
		}
	}
	return next, false
}

// lineIndex 行起点索引
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(s string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && i+1 < len(s) {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: s, starts: starts}
}

func (li *lineIndex) lineOf(offset int) int {
	if offset < 0 {
		return -1
	}
	return sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
}

func (li *lineIndex) lineEnd(line int) int {
	if line+1 < len(li.starts) {
		return li.starts[line+1]
	}
	return len(li.text)
}

func (li *lineIndex) line(source []byte, line int) []byte {
	return source[li.starts[line]:li.lineEnd(line)]
}

func (li *lineIndex) isBlank(line int) bool {
	return strings.TrimSpace(li.text[li.starts[line]:li.lineEnd(line)]) == ""
}

// nextNonBlank 从 line 开始的第一个非空行，没有则返回 -1
func (li *lineIndex) nextNonBlank(line int) int {
	if line < 0 {
		line = 0
	}
	for ; line < len(li.starts); line++ {
		if !li.isBlank(line) {
			return line
		}
	}
	return -1
}

// nextMatching 从 line 开始第一个匹配 re 的行，没有则返回 -1
func (li *lineIndex) nextMatching(line int, re *regexp.Regexp) int {
	if line < 0 {
		line = 0
	}
	for ; line < len(li.starts); line++ {
		if re.MatchString(li.text[li.starts[line]:li.lineEnd(line)]) {
			return line
		}
	}
	return -1
}

// trimEnd 去掉 [start, end) 末尾的空行和最后一个换行符
func (li *lineIndex) trimEnd(start, end int) int {
	line := li.lineOf(end - 1)
	for line >= 0 && li.starts[line] >= start && li.isBlank(line) {
		end = li.starts[line]
		line--
	}
	if end > start && li.text[end-1] == '\n' {
		end--
	}
	if end > start && li.text[end-1] == '\r' {
		end--
	}
	return end
}

func (li *lineIndex) point(offset int) types.Point {
	line := li.lineOf(offset)
	if line < 0 {
		line = 0
	}
	return types.Point{
		Line:   line + 1,
		Column: offset - li.starts[line] + 1,
		Offset: offset,
	}
}

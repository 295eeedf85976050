// Package mathblock 为 goldmark 增加 $$...$$ 块级公式与 $...$ 行内公式
package mathblock

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindBlock is the NodeKind of display math blocks.
var KindBlock = ast.NewNodeKind("MathBlock")

// KindInline is the NodeKind of inline math spans.
var KindInline = ast.NewNodeKind("InlineMath")

// Block 块级公式节点，Lines() 保存公式内容行
type Block struct {
	ast.BaseBlock

	// Opening 是开头 $$ 的字节偏移
	Opening int
	// Closed 表示遇到了结束的 $$
	Closed bool
	// Closing 是结束 $$ 所在行的字节偏移，未闭合时为 -1
	Closing int

	singleLine bool
}

// Kind implements ast.Node.
func (b *Block) Kind() ast.NodeKind { return KindBlock }

// IsRaw implements ast.Node. Math content is never inline-parsed.
func (b *Block) IsRaw() bool { return true }

// Dump implements ast.Node.
func (b *Block) Dump(source []byte, level int) {
	ast.DumpHelper(b, source, level, map[string]string{}, nil)
}

// TeX returns the TeX content of the block.
func (b *Block) TeX(source []byte) string {
	var buf bytes.Buffer
	lines := b.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}

// Inline 行内公式节点
type Inline struct {
	ast.BaseInline

	Value   text.Segment
	Display bool // $$...$$ 出现在段落内部
}

// Kind implements ast.Node.
func (n *Inline) Kind() ast.NodeKind { return KindInline }

// Dump implements ast.Node.
func (n *Inline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Value": string(n.Value.Value(source)),
	}, nil)
}

var blockInfoKey = parser.NewContextKey()

type blockParser struct{}

// NewBlockParser returns a parser.BlockParser for $$ fenced math.
func NewBlockParser() parser.BlockParser {
	return &blockParser{}
}

func (p *blockParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *blockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos+1 >= len(line) || line[pos] != '$' || line[pos+1] != '$' {
		return nil, parser.NoChildren
	}
	node := &Block{Opening: segment.Start + pos, Closing: -1}

	// $$ x $$ 写在同一行
	rest := line[pos+2:]
	trimmed := bytes.TrimRight(rest, " \t\r\n")
	if len(trimmed) >= 2 && bytes.HasSuffix(trimmed, []byte("$$")) {
		start := segment.Start + pos + 2
		stop := start + len(trimmed) - 2
		node.Lines().Append(text.NewSegment(start, stop))
		node.Closed = true
		node.Closing = node.Opening
		node.singleLine = true
		return node, parser.NoChildren
	}
	if !util.IsBlank(rest) {
		start := segment.Start + pos + 2
		node.Lines().Append(text.NewSegment(start, segment.Stop))
	}
	pc.Set(blockInfoKey, node)
	return node, parser.NoChildren
}

func (p *blockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	b := node.(*Block)
	if b.singleLine {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 {
		closing := bytes.TrimRight(line[pos:], " \t\r\n")
		isSuffix := bytes.HasSuffix(closing, []byte("$$"))
		if isSuffix || bytes.HasPrefix(closing, []byte("$$")) {
			if isSuffix && len(closing) > 2 {
				b.Lines().Append(text.NewSegment(segment.Start+pos, segment.Start+pos+len(closing)-2))
			}
			b.Closed = true
			b.Closing = segment.Start + pos
			newline := 1
			if len(line) == 0 || line[len(line)-1] != '\n' {
				newline = 0
			}
			reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
			return parser.Close
		}
	}
	b.Lines().Append(text.NewSegment(segment.Start, segment.Stop))
	if segment.Len() > 0 {
		reader.Advance(segment.Len() - 1)
	}
	return parser.Continue | parser.NoChildren
}

func (p *blockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	pc.Set(blockInfoKey, nil)
}

func (p *blockParser) CanInterruptParagraph() bool { return true }

func (p *blockParser) CanAcceptIndentedLine() bool { return false }

type inlineParser struct{}

// NewInlineParser returns a parser.InlineParser for $ and $$ spans.
func NewInlineParser() parser.InlineParser {
	return &inlineParser{}
}

func (p *inlineParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *inlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	n := 1
	if len(line) > 1 && line[1] == '$' {
		n = 2
	}
	if len(line) <= n || line[n] == ' ' || line[n] == '\t' || line[n] == '\n' {
		return nil
	}
	closeAt := findClosing(line, n)
	if closeAt < 0 {
		return nil
	}
	node := &Inline{
		Value:   text.NewSegment(segment.Start+n, segment.Start+closeAt),
		Display: n == 2,
	}
	block.Advance(closeAt + n)
	return node
}

// findClosing 查找与开头等长的结束定界符
// 单个 $ 时：结束符前不能是空白，后面不能紧跟数字（避免 "$5 and $10"）
func findClosing(line []byte, n int) int {
	for i := n; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
			continue
		case '\n':
			return -1
		case '$':
		default:
			continue
		}
		if n == 2 {
			if i+1 < len(line) && line[i+1] == '$' && i > n {
				return i
			}
			continue
		}
		if i+1 < len(line) && line[i+1] == '$' {
			i++
			continue
		}
		prev := line[i-1]
		if prev == ' ' || prev == '\t' {
			continue
		}
		if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
			continue
		}
		return i
	}
	return -1
}

type extension struct{}

// Extension 是可传给 goldmark.WithExtensions 的公式扩展
var Extension goldmark.Extender = &extension{}

func (e *extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(NewBlockParser(), 650)),
		parser.WithInlineParsers(util.Prioritized(NewInlineParser(), 450)),
	)
}

package converter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/riverfjs/docmark-go/internal/buffer"
	"github.com/riverfjs/docmark-go/internal/mathblock"
	"github.com/riverfjs/docmark-go/internal/mathtext"
	"github.com/riverfjs/docmark-go/internal/types"
)

// Options 渲染选项
type Options struct {
	Config     *types.RenderConfig
	ShowImages bool
	// ImageMap 图片 ID 到 data URL 的映射，用于解析 ![alt](id)
	ImageMap map[string]string
}

// EventWalker 遍历 goldmark AST 并生成 (text, spans, images)
type EventWalker struct {
	buf    *buffer.TextBuffer
	source []byte
	config *types.RenderConfig
	opts   Options

	scopes []spanScope
	spans  []Span
	images []ImageRef

	// Block-level state
	blockCount int    // 用于段落间距
	listStack  []*int // nil=unordered, *int=ordered(next_number)
	defDepth   int
	itemIndent string // 当前 item 的缩进，用于 task list marker 替换

	// Table state
	tableAlignments []east.Alignment
	tableRows       [][]string
	currentRow      []string
	cellParts       []string
	inTableCell     bool

	blockquoteScopes []spanScope
}

// NewEventWalker 创建新的 EventWalker
func NewEventWalker(source []byte, opts Options) *EventWalker {
	if opts.Config == nil {
		opts.Config = types.DefaultRenderConfig()
	}
	if opts.Config.MarkdownSymbol == nil {
		opts.Config.MarkdownSymbol = types.DefaultSymbol()
	}
	return &EventWalker{
		buf:    buffer.New(),
		source: source,
		config: opts.Config,
		opts:   opts,
		scopes: make([]spanScope, 0),
		spans:  make([]Span, 0),
	}
}

// Walk 遍历 AST 节点
func (w *EventWalker) Walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	// --- Inline elements ---
	case *ast.Text:
		if entering {
			w.onText(n.Segment, n.SoftLineBreak(), n.HardLineBreak())
		}

	case *ast.String:
		if entering {
			w.write(string(n.Value))
		}

	case *ast.CodeSpan:
		if entering {
			w.onInlineCode(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Emphasis:
		kind := SpanItalic
		if n.Level == 2 {
			kind = SpanBold
		}
		if entering {
			w.pushSpan(kind, "", 0)
		} else {
			w.popSpan(kind)
		}

	case *east.Strikethrough:
		if entering {
			w.pushSpan(SpanStrikethrough, "", 0)
		} else {
			w.popSpan(SpanStrikethrough)
		}

	case *mathblock.Inline:
		if entering {
			w.onInlineMath(n)
		}

	// --- Links & Images ---
	case *ast.Link:
		if entering {
			w.pushSpan(SpanLink, string(n.Destination), 0)
		} else {
			w.popSpan(SpanLink)
		}

	case *ast.Image:
		if entering {
			w.onImage(n)
		}
		// alt 文本不进入渲染文本
		return ast.WalkSkipChildren, nil

	case *ast.AutoLink:
		if entering {
			url := string(n.URL(w.source))
			w.pushSpan(SpanLink, url, 0)
			w.write(url)
			return ast.WalkSkipChildren, nil
		}
		w.popSpan(SpanLink)

	case *ast.RawHTML:
		if entering {
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				w.write(string(seg.Value(w.source)))
			}
		}

	// --- Block elements ---
	case *ast.Paragraph:
		if entering {
			w.onStartParagraph()
		} else {
			w.onEndParagraph()
		}

	case *ast.Heading:
		if entering {
			w.ensureBlockSpacing()
			w.pushSpan(SpanHeading, "", n.Level)
		} else {
			w.popSpan(SpanHeading)
			w.blockCount++
		}

	case *ast.Blockquote:
		if entering {
			w.onStartBlockquote()
		} else {
			w.onEndBlockquote()
		}

	case *ast.List:
		if entering {
			w.onStartList(n)
		} else {
			w.onEndList()
		}

	case *ast.ListItem:
		if entering {
			w.onStartItem()
		} else {
			w.onEndItem()
		}

	case *east.TaskCheckBox:
		if entering {
			w.onTaskCheckBox(n.IsChecked)
		}

	case *east.DefinitionList:
		if entering {
			if w.defDepth == 0 && len(w.listStack) == 0 {
				w.ensureBlockSpacing()
			}
			w.defDepth++
		} else {
			w.defDepth--
			w.blockCount++
		}

	case *east.DefinitionTerm:
		if entering {
			w.ensureNewline()
		}

	case *east.DefinitionDescription:
		if entering {
			w.ensureNewline()
			w.write("  ")
		} else {
			w.ensureNewline()
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			w.onCodeBlock(n)
		}
		return ast.WalkSkipChildren, nil

	case *mathblock.Block:
		if entering {
			w.onMathBlock(n)
		}
		return ast.WalkSkipChildren, nil

	case *ast.ThematicBreak:
		if entering {
			w.ensureBlockSpacing()
			w.write(w.config.MarkdownSymbol.Rule)
			w.blockCount++
		}

	case *ast.HTMLBlock:
		if entering {
			w.onHTMLBlock(n)
		}
		return ast.WalkSkipChildren, nil

	// --- Table ---
	case *east.Table:
		if entering {
			w.ensureBlockSpacing()
			w.tableAlignments = n.Alignments
			w.tableRows = make([][]string, 0)
		} else {
			w.onEndTable()
		}

	case *east.TableHeader, *east.TableRow:
		if entering {
			w.currentRow = make([]string, 0)
		} else {
			w.tableRows = append(w.tableRows, w.currentRow)
			w.currentRow = nil
		}

	case *east.TableCell:
		if entering {
			w.cellParts = make([]string, 0)
			w.inTableCell = true
		} else {
			w.currentRow = append(w.currentRow, strings.Join(w.cellParts, ""))
			w.cellParts = nil
			w.inTableCell = false
		}
	}

	return ast.WalkContinue, nil
}

// Result 返回渲染结果，末尾换行被去掉
func (w *EventWalker) Result() Rendered {
	out := w.buf.String()
	trimmed := strings.TrimRight(out, "\n")
	limit := w.buf.UTF16Offset() - (len(out) - len(trimmed))

	spans := make([]Span, 0, len(w.spans))
	for _, s := range w.spans {
		if s.Offset >= limit {
			continue
		}
		if s.Offset+s.Length > limit {
			s.Length = limit - s.Offset
		}
		spans = append(spans, s)
	}
	return Rendered{Text: trimmed, Spans: spans, Images: w.images}
}

// --- Text handling ---

// write 写入文本；表格单元格内的内容先暂存
func (w *EventWalker) write(s string) {
	if w.inTableCell {
		w.cellParts = append(w.cellParts, strings.ReplaceAll(s, "\n", " "))
		return
	}
	w.buf.Write(s)
}

func (w *EventWalker) onText(seg text.Segment, softBreak bool, hardBreak bool) {
	content := string(seg.Value(w.source))
	// 软换行按换行渲染
	if softBreak || hardBreak {
		content += "\n"
	}
	w.write(content)
}

func (w *EventWalker) onInlineCode(n *ast.CodeSpan) {
	code := extractCodeSpanText(n, w.source)
	if w.inTableCell {
		w.write(code)
		return
	}
	start := w.buf.UTF16Offset()
	w.buf.Write(code)
	w.addSpan(Span{Kind: SpanCode, Offset: start, Length: w.buf.UTF16Offset() - start})
}

func (w *EventWalker) onInlineMath(n *mathblock.Inline) {
	value := w.mathText(string(n.Value.Value(w.source)))
	if w.inTableCell {
		w.write(value)
		return
	}
	start := w.buf.UTF16Offset()
	w.buf.Write(value)
	w.addSpan(Span{Kind: SpanMath, Offset: start, Length: w.buf.UTF16Offset() - start})
}

func (w *EventWalker) mathText(tex string) string {
	if !w.config.MathUnicode {
		return strings.TrimSpace(tex)
	}
	return mathtext.Convert(tex)
}

// --- Paragraph ---

func (w *EventWalker) inContainer() bool {
	return len(w.listStack) > 0 || w.defDepth > 0
}

func (w *EventWalker) onStartParagraph() {
	if !w.inContainer() {
		w.ensureBlockSpacing()
	}
}

func (w *EventWalker) onEndParagraph() {
	if !w.inContainer() {
		w.blockCount++
	} else if w.buf.TrailingNewlineCount() == 0 {
		// loose list 中段落结束时写入换行，避免多段落粘连
		w.buf.Write("\n")
	}
}

// --- Code & math blocks ---

func (w *EventWalker) onCodeBlock(n ast.Node) {
	lang := ""
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		lang = strings.TrimSpace(strings.Split(string(fenced.Language(w.source)), ",")[0])
	}

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(w.source))
	}
	rawCode := strings.TrimSuffix(code.String(), "\n")

	w.ensureBlockSpacing()
	start := w.buf.UTF16Offset()
	w.buf.Write(rawCode)
	w.addSpan(Span{Kind: SpanPre, Offset: start, Length: w.buf.UTF16Offset() - start, Language: lang})
	w.blockCount++
}

func (w *EventWalker) onMathBlock(n *mathblock.Block) {
	w.ensureBlockSpacing()
	start := w.buf.UTF16Offset()
	w.buf.Write(w.mathText(n.TeX(w.source)))
	w.addSpan(Span{Kind: SpanMath, Offset: start, Length: w.buf.UTF16Offset() - start})
	w.blockCount++
}

// onHTMLBlock 原始 HTML 按文本显示
func (w *EventWalker) onHTMLBlock(n *ast.HTMLBlock) {
	var raw strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		raw.Write(line.Value(w.source))
	}
	if n.HasClosure() {
		raw.Write(n.ClosureLine.Value(w.source))
	}
	w.ensureBlockSpacing()
	w.buf.Write(strings.TrimRight(raw.String(), "\n"))
	w.blockCount++
}

// --- Blockquote ---

func (w *EventWalker) onStartBlockquote() {
	w.ensureBlockSpacing()
	w.buf.Write(w.config.MarkdownSymbol.Quote)
	w.blockquoteScopes = append(w.blockquoteScopes, spanScope{
		kind:        SpanBlockquote,
		startOffset: w.buf.UTF16Offset(),
	})
}

func (w *EventWalker) onEndBlockquote() {
	if len(w.blockquoteScopes) > 0 {
		scope := w.blockquoteScopes[len(w.blockquoteScopes)-1]
		w.blockquoteScopes = w.blockquoteScopes[:len(w.blockquoteScopes)-1]
		w.addSpan(Span{
			Kind:   SpanBlockquote,
			Offset: scope.startOffset,
			Length: w.buf.UTF16Offset() - scope.startOffset,
		})
	}
	w.blockCount++
}

// --- Images ---

// onImage 记录图片；ShowImages 关闭时图片不出现在渲染结果中
func (w *EventWalker) onImage(n *ast.Image) {
	if !w.opts.ShowImages {
		return
	}
	ref := string(n.Destination)
	src := ref
	if resolved, ok := w.opts.ImageMap[ref]; ok {
		src = resolved
	}
	w.images = append(w.images, ImageRef{
		Line:   w.buf.Line(),
		Offset: w.buf.UTF16Offset(),
		Src:    src,
		Ref:    ref,
		Alt:    plainText(n, w.source),
	})
}

// --- Lists ---

func (w *EventWalker) onStartList(n *ast.List) {
	if !w.inContainer() {
		w.ensureBlockSpacing()
	}
	if n.IsOrdered() {
		start := n.Start
		w.listStack = append(w.listStack, &start)
	} else {
		w.listStack = append(w.listStack, nil)
	}
}

func (w *EventWalker) onStartItem() {
	depth := len(w.listStack)
	indent := strings.Repeat("  ", depth-1)

	// 嵌套列表：父项文本后没有换行时，插入换行确保子项独占一行
	w.ensureNewline()
	w.itemIndent = indent

	if current := w.listStack[depth-1]; current != nil {
		w.buf.Write(fmt.Sprintf("%s%d. ", indent, *current))
		*current++
	} else {
		// 先写 bullet，如果后面遇到 TaskCheckBox 会被替换
		w.buf.Write(fmt.Sprintf("%s%s ", indent, w.config.MarkdownSymbol.Bullet))
	}
}

func (w *EventWalker) onEndItem() {
	w.ensureNewline()
}

// onTaskCheckBox 将刚写入的 bullet 替换为任务标记
func (w *EventWalker) onTaskCheckBox(checked bool) {
	w.buf.PopLast()
	symbol := w.config.MarkdownSymbol.TaskUncompleted
	if checked {
		symbol = w.config.MarkdownSymbol.TaskCompleted
	}
	w.buf.Write(fmt.Sprintf("%s%s ", w.itemIndent, symbol))
}

func (w *EventWalker) onEndList() {
	if len(w.listStack) > 0 {
		w.listStack = w.listStack[:len(w.listStack)-1]
	}
	if !w.inContainer() {
		w.blockCount++
	}
}

// --- Tables ---

func (w *EventWalker) onEndTable() {
	tableText := formatTable(w.tableRows, w.tableAlignments)
	start := w.buf.UTF16Offset()
	w.buf.Write(tableText)
	w.addSpan(Span{Kind: SpanTable, Offset: start, Length: w.buf.UTF16Offset() - start})
	w.tableRows = nil
	w.blockCount++
}

// formatTable 按显示宽度对齐各列，东亚宽字符占两列
func formatTable(rows [][]string, alignments []east.Alignment) string {
	if len(rows) == 0 {
		return ""
	}

	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	colWidths := make([]int, numCols)
	for _, row := range rows {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for rowIdx, row := range rows {
		cells := make([]string, numCols)
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := east.AlignNone
			if i < len(alignments) {
				align = alignments[i]
			}
			cells[i] = pad(cell, colWidths[i], align)
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, " | "), " "))

		// 表头之后加分隔线
		if rowIdx == 0 && len(rows) > 1 {
			sep := make([]string, numCols)
			for i := range sep {
				sep[i] = strings.Repeat("-", colWidths[i])
			}
			lines = append(lines, strings.Join(sep, "-+-"))
		}
	}
	return strings.Join(lines, "\n")
}

func pad(cell string, width int, align east.Alignment) string {
	gap := width - runewidth.StringWidth(cell)
	if gap <= 0 {
		return cell
	}
	switch align {
	case east.AlignRight:
		return strings.Repeat(" ", gap) + cell
	case east.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	}
	return cell + strings.Repeat(" ", gap)
}

// --- Span helpers ---

func (w *EventWalker) pushSpan(kind SpanKind, url string, level int) {
	w.scopes = append(w.scopes, spanScope{
		kind:        kind,
		startOffset: w.buf.UTF16Offset(),
		url:         url,
		level:       level,
	})
}

func (w *EventWalker) popSpan(kind SpanKind) {
	// 从栈顶查找匹配的 scope
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if w.scopes[i].kind == kind {
			scope := w.scopes[i]
			w.scopes = append(w.scopes[:i], w.scopes[i+1:]...)
			w.addSpan(Span{
				Kind:   scope.kind,
				Offset: scope.startOffset,
				Length: w.buf.UTF16Offset() - scope.startOffset,
				URL:    scope.url,
				Level:  scope.level,
			})
			return
		}
	}
}

func (w *EventWalker) addSpan(s Span) {
	if s.Length > 0 {
		w.spans = append(w.spans, s)
	}
}

func (w *EventWalker) ensureNewline() {
	if w.buf.ByteOffset() > 0 && w.buf.TrailingNewlineCount() == 0 {
		w.buf.Write("\n")
	}
}

func (w *EventWalker) ensureBlockSpacing() {
	// 块之间保留一个空行（\n\n），避免多余换行
	if w.blockCount > 0 {
		if needed := 2 - w.buf.TrailingNewlineCount(); needed > 0 {
			w.buf.Write(strings.Repeat("\n", needed))
		}
	}
}

// --- Utilities ---

func extractCodeSpanText(n *ast.CodeSpan, source []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
	}
	return buf.String()
}

// plainText 收集节点下所有文本，用于图片 alt
func plainText(n ast.Node, source []byte) string {
	var buf strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

package selection

import (
	"sort"
	"strings"

	"github.com/riverfjs/docmark-go/internal/render"
	"github.com/riverfjs/docmark-go/internal/types"
	"github.com/riverfjs/docmark-go/internal/util"
)

// FormatPlainText 剪贴板纯文本格式
const FormatPlainText = "text/plain"

// Point 选区端点：节点 id 加上节点内的 UTF-16 偏移
//
// 对行节点，Offset 是行内偏移；对其他节点，0 表示节点开头，
// 大于 0 表示节点末尾。
type Point struct {
	Node   int `json:"node"`
	Offset int `json:"offset"`
}

// Selection 一次用户选区
type Selection struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Collapsed reports whether the selection covers nothing.
func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

// CopyEvent 复制事件
type CopyEvent interface {
	SetData(format, data string)
	PreventDefault()
}

// Mapper 把选区映射回块的 markdown 源码
type Mapper struct {
	prefs *types.Preferences
	pass  *render.Pass
}

// NewMapper creates a mapper over one render pass.
func NewMapper(prefs *types.Preferences, pass *render.Pass) *Mapper {
	return &Mapper{prefs: prefs, pass: pass}
}

// HandleCopy 处理复制事件
//
// 返回 true 时事件已被改写为选中块的源码；返回 false 时事件未被触碰，
// 由默认复制行为处理。
func (m *Mapper) HandleCopy(sel Selection, ev CopyEvent) bool {
	if m.prefs == nil || !m.prefs.CopyAsMarkdown() {
		return false
	}
	text, ok := m.Source(sel)
	if !ok {
		return false
	}
	ev.SetData(FormatPlainText, text)
	ev.PreventDefault()
	return true
}

// Source 返回选区覆盖的所有块源码，以空行连接
func (m *Mapper) Source(sel Selection) (string, bool) {
	start, end, ok := m.Resolve(sel)
	if !ok {
		return "", false
	}

	// 按块索引去重
	seen := make(map[int]struct{})
	var sources []string
	for i := start; i <= end; i++ {
		if _, dup := seen[i]; dup {
			continue
		}
		block, found := m.pass.Block(i)
		if !found {
			continue
		}
		seen[i] = struct{}{}
		sources = append(sources, block.Source)
	}
	if len(sources) == 0 {
		return "", false
	}
	return strings.Join(sources, "\n\n"), true
}

// Resolve 返回选区首尾所在的块索引，start <= end
func (m *Mapper) Resolve(sel Selection) (start, end int, ok bool) {
	if m.pass == nil || sel.Collapsed() {
		return 0, 0, false
	}
	a, ok := m.blockIndex(sel.Anchor.Node)
	if !ok {
		return 0, 0, false
	}
	f, ok := m.blockIndex(sel.Focus.Node)
	if !ok {
		return 0, 0, false
	}
	if a > f {
		a, f = f, a
	}
	return a, f, true
}

// blockIndex 沿父链向上找到旁路表中的节点
func (m *Mapper) blockIndex(node int) (int, bool) {
	for {
		if idx, ok := m.pass.BlockOf(node); ok {
			return idx, true
		}
		if node == render.Container {
			return 0, false
		}
		parent, ok := m.pass.Parent(node)
		if !ok {
			return 0, false
		}
		node = parent
	}
}

// DefaultText 返回选区覆盖的渲染文本，即浏览器默认复制的内容
func DefaultText(pass *render.Pass, sel Selection) string {
	if pass == nil || sel.Collapsed() {
		return ""
	}
	a, ok := offset(pass, sel.Anchor)
	if !ok {
		return ""
	}
	f, ok := offset(pass, sel.Focus)
	if !ok {
		return ""
	}
	return pass.Slice(a, f)
}

func offset(pass *render.Pass, p Point) (int, bool) {
	n, ok := pass.Node(p.Node)
	if !ok {
		return 0, false
	}
	if n.Kind == render.KindLine {
		off := p.Offset
		if off < 0 {
			off = 0
		}
		if limit := util.UTF16Len(n.Text); off > limit {
			off = limit
		}
		return n.Start + off, true
	}
	if p.Offset <= 0 {
		return n.Start, true
	}
	return n.End, true
}

// BlockSelection 构造覆盖块 from 到 to（含）的选区
func BlockSelection(pass *render.Pass, from, to int) (Selection, bool) {
	if from > to {
		from, to = to, from
	}
	a, ok := pass.BlockNode(from)
	if !ok {
		return Selection{}, false
	}
	f, ok := pass.BlockNode(to)
	if !ok {
		return Selection{}, false
	}
	return Selection{Anchor: Point{Node: a, Offset: 0}, Focus: Point{Node: f, Offset: 1}}, true
}

// Event 记录剪贴板写入的 CopyEvent 实现
type Event struct {
	data      map[string]string
	prevented bool
}

// NewEvent creates an empty event.
func NewEvent() *Event {
	return &Event{data: make(map[string]string)}
}

// SetData stores data under format.
func (e *Event) SetData(format, data string) {
	e.data[format] = data
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// Data returns the payload stored for format.
func (e *Event) Data(format string) (string, bool) {
	d, ok := e.data[format]
	return d, ok
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Formats returns the stored formats in sorted order.
func (e *Event) Formats() []string {
	formats := make([]string, 0, len(e.data))
	for f := range e.data {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

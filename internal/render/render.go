package render

import (
	"strings"

	"github.com/riverfjs/docmark-go/internal/converter"
	"github.com/riverfjs/docmark-go/internal/types"
	"github.com/riverfjs/docmark-go/internal/util"
)

// NodeKind 渲染树节点类型；块节点使用块的类型名
type NodeKind string

const (
	KindContainer NodeKind = "container"
	KindLine      NodeKind = "line"
	KindImage     NodeKind = "image"
)

// Container 容器节点的 id
const Container = 0

// Node 渲染树中的一个节点
//
// id 按前序遍历分配，因此 id 的大小即文档顺序。
type Node struct {
	ID       int              `json:"id" yaml:"id"`
	Parent   int              `json:"parent" yaml:"parent"`
	Kind     NodeKind         `json:"kind" yaml:"kind"`
	Text     string           `json:"text,omitempty" yaml:"text,omitempty"`
	Src      string           `json:"src,omitempty" yaml:"src,omitempty"`
	Alt      string           `json:"alt,omitempty" yaml:"alt,omitempty"`
	Spans    []converter.Span `json:"spans,omitempty" yaml:"spans,omitempty"`
	Children []int            `json:"children,omitempty" yaml:"children,omitempty"`

	// 在整体渲染文本中的 UTF-16 区间
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Pass 一次渲染的结果：节点树加上节点到块的旁路表
//
// 块变化后应丢弃整个 Pass 重新构建。
type Pass struct {
	nodes   []Node
	blockOf map[int]int
	nodeOf  []int // 块在 blocks 中的位置 → 块节点 id
	blocks  []types.Block
	text    string
}

type buildOptions struct {
	config *types.RenderConfig
}

// Option 配置 Build
type Option func(*buildOptions)

// WithConfig 指定渲染配置
func WithConfig(cfg *types.RenderConfig) Option {
	return func(o *buildOptions) {
		o.config = cfg
	}
}

// Build 为一组块构建渲染树
func Build(blocks []types.Block, prefs *types.Preferences, imageMap map[string]string, opts ...Option) *Pass {
	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}
	showImages := prefs != nil && prefs.ShowImages()

	p := &Pass{
		nodes:   []Node{{ID: Container, Parent: -1, Kind: KindContainer}},
		blockOf: make(map[int]int, len(blocks)),
		nodeOf:  make([]int, len(blocks)),
		blocks:  blocks,
	}

	var full strings.Builder
	offset := 0
	for i, block := range blocks {
		if i > 0 {
			full.WriteString("\n\n")
			offset += 2
		}
		r := converter.RenderBlock(block.Source, converter.Options{
			Config:     o.config,
			ShowImages: showImages,
			ImageMap:   imageMap,
		})
		full.WriteString(r.Text)
		p.nodeOf[i] = p.addBlock(block, r, offset)
		offset += util.UTF16Len(r.Text)
	}

	p.text = full.String()
	p.nodes[Container].End = offset
	return p
}

func (p *Pass) addBlock(block types.Block, r converter.Rendered, offset int) int {
	id := p.add(Node{
		Parent: Container,
		Kind:   NodeKind(block.Type),
		Spans:  r.Spans,
		Start:  offset,
		End:    offset + util.UTF16Len(r.Text),
	})
	p.blockOf[id] = block.Index

	images := r.Images
	emitImages := func(line int) {
		for len(images) > 0 && images[0].Line <= line {
			img := images[0]
			images = images[1:]
			p.add(Node{Parent: id, Kind: KindImage, Src: img.Src, Alt: img.Alt, Start: offset, End: offset})
		}
	}

	if r.Text != "" {
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				offset++
			}
			end := offset + util.UTF16Len(line)
			p.add(Node{Parent: id, Kind: KindLine, Text: line, Start: offset, End: end})
			offset = end
			emitImages(i)
		}
	}
	// 行号超出文本的图片（只有图片的段落）挂在块末尾
	for _, img := range images {
		p.add(Node{Parent: id, Kind: KindImage, Src: img.Src, Alt: img.Alt, Start: offset, End: offset})
	}
	return id
}

func (p *Pass) add(n Node) int {
	n.ID = len(p.nodes)
	p.nodes = append(p.nodes, n)
	parent := &p.nodes[n.Parent]
	parent.Children = append(parent.Children, n.ID)
	return n.ID
}

// Nodes returns all nodes in document order.
func (p *Pass) Nodes() []Node {
	return p.nodes
}

// Node returns the node with the given id.
func (p *Pass) Node(id int) (Node, bool) {
	if id < 0 || id >= len(p.nodes) {
		return Node{}, false
	}
	return p.nodes[id], true
}

// Parent 返回父节点 id；容器和未知节点返回 false
func (p *Pass) Parent(id int) (int, bool) {
	if id <= Container || id >= len(p.nodes) {
		return 0, false
	}
	return p.nodes[id].Parent, true
}

// BlockOf 旁路表查询：只有块节点有记录
func (p *Pass) BlockOf(id int) (int, bool) {
	idx, ok := p.blockOf[id]
	return idx, ok
}

// BlockNode 返回块索引对应的块节点 id
func (p *Pass) BlockNode(index int) (int, bool) {
	i, ok := p.position(index)
	if !ok {
		return 0, false
	}
	return p.nodeOf[i], true
}

// Block 返回块索引对应的块
func (p *Pass) Block(index int) (types.Block, bool) {
	i, ok := p.position(index)
	if !ok {
		return types.Block{}, false
	}
	return p.blocks[i], true
}

// position 块索引在 blocks 中的位置；Segment 的结果满足 Index == 位置
func (p *Pass) position(index int) (int, bool) {
	if index >= 0 && index < len(p.blocks) && p.blocks[index].Index == index {
		return index, true
	}
	for i, b := range p.blocks {
		if b.Index == index {
			return i, true
		}
	}
	return 0, false
}

// Blocks returns the blocks the pass was built from.
func (p *Pass) Blocks() []types.Block {
	return p.blocks
}

// BlockTable returns a copy of the node → block index side table.
func (p *Pass) BlockTable() map[int]int {
	table := make(map[int]int, len(p.blockOf))
	for k, v := range p.blockOf {
		table[k] = v
	}
	return table
}

// Text 返回节点覆盖的渲染文本，图片节点为空
func (p *Pass) Text(id int) string {
	n, ok := p.Node(id)
	if !ok || n.Kind == KindImage {
		return ""
	}
	if n.Kind == KindLine {
		return n.Text
	}
	return p.Slice(n.Start, n.End)
}

// Slice 按 UTF-16 区间截取整体渲染文本
func (p *Pass) Slice(start, end int) string {
	if start > end {
		start, end = end, start
	}
	lo := util.UTF16ToByte(p.text, start)
	hi := util.UTF16ToByte(p.text, end)
	return p.text[lo:hi]
}

// Len returns the rendered text length in UTF-16 code units.
func (p *Pass) Len() int {
	return p.nodes[Container].End
}

// View 渲染树的可序列化视图
type View struct {
	Nodes   []Node      `json:"nodes" yaml:"nodes"`
	BlockOf map[int]int `json:"blockOf" yaml:"blockOf"`
	Text    string      `json:"text" yaml:"text"`
}

// View returns a serialisable snapshot of the pass.
func (p *Pass) View() View {
	return View{Nodes: p.nodes, BlockOf: p.BlockTable(), Text: p.text}
}

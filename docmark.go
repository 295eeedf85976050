// Package docmark 把 PDF 和图片转换为 Markdown，并按块回溯选区对应的源码
//
// 核心功能：
//   - 调用 OCR 服务把文档转换为逐页 Markdown
//   - 把 Markdown 切分为顶层块，每个块保留原始源码
//   - 渲染为纯文本节点树，并把复制选区映射回块的 Markdown 源码
//   - 文档持久化与导出（Markdown、ZIP、PNG）
//
// 示例：
//
//	blocks := docmark.Segment(markdown)
//	pass := docmark.Render(blocks, prefs, doc.ImageMap)
//	text, ok := docmark.Copy(pass, prefs, sel)
package docmark

import (
	"github.com/riverfjs/docmark-go/internal/render"
	"github.com/riverfjs/docmark-go/internal/segment"
	"github.com/riverfjs/docmark-go/internal/selection"
)

// 导出类型别名
type (
	Pass      = render.Pass
	Node      = render.Node
	Selection = selection.Selection
	Point     = selection.Point
	CopyEvent = selection.CopyEvent
)

// Segment 把 markdown 切分为顶层块
func Segment(markdown string) []Block {
	return segment.Segment(markdown)
}

// Render 为块构建渲染树
func Render(blocks []Block, prefs *Preferences, imageMap map[string]string, opts ...Option) *Pass {
	o := applyOptions(opts...)
	return render.Build(blocks, prefs, imageMap, render.WithConfig(o.Config))
}

// RenderDocument 切分并渲染整篇文档
func RenderDocument(doc *Document, prefs *Preferences, opts ...Option) *Pass {
	return Render(Segment(doc.Markdown), prefs, doc.ImageMap, opts...)
}

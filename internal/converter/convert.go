package converter

import (
	"github.com/yuin/goldmark/ast"

	"github.com/riverfjs/docmark-go/internal/parser"
)

// RenderBlock 解析一段 markdown 并渲染为纯文本
//
// 通常传入单个块的源码；多个块也能渲染，块之间以空行分隔。
func RenderBlock(source string, opts Options) Rendered {
	src := []byte(source)
	return RenderNode(src, parser.ParseAST(src), opts)
}

// RenderNode 渲染已解析的节点
func RenderNode(source []byte, node ast.Node, opts Options) Rendered {
	walker := NewEventWalker(source, opts)
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		return walker.Walk(n, entering)
	})
	return walker.Result()
}

package parser

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/riverfjs/docmark-go/internal/mathblock"
)

// StandardOptions goldmark 扩展配置
//
// 不启用 Footnote：脚注扩展会把脚注定义移动到文档末尾，破坏顶层节点的文档顺序。
var StandardOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM,            // tables, strikethrough, tasklists, autolinks
		extension.DefinitionList, // 定义列表
		mathblock.Extension,      // $$...$$ 与 $...$
	),
}

// ParseAST 仅解析为 AST，不遍历
func ParseAST(source []byte) ast.Node {
	md := goldmark.New(StandardOptions...)
	reader := text.NewReader(source)
	return md.Parser().Parse(reader)
}

// TopLevel 返回文档节点的直接子节点
func TopLevel(doc ast.Node) []ast.Node {
	nodes := make([]ast.Node, 0, doc.ChildCount())
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		nodes = append(nodes, c)
	}
	return nodes
}

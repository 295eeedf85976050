package types

import (
	"sync"
	"time"
)

// BlockType 块的结构类型
type BlockType string

const (
	BlockHeading       BlockType = "heading"
	BlockParagraph     BlockType = "paragraph"
	BlockCode          BlockType = "code"
	BlockMath          BlockType = "math"
	BlockList          BlockType = "list"
	BlockTable         BlockType = "table"
	BlockBlockquote    BlockType = "blockquote"
	BlockThematicBreak BlockType = "thematic_break"
	BlockHTML          BlockType = "html"
)

// Point 原始 Markdown 中的一个位置
type Point struct {
	Line   int `json:"line" yaml:"line"`     // 1-based
	Column int `json:"column" yaml:"column"` // 1-based, 字节
	Offset int `json:"offset" yaml:"offset"` // 0-based 字节偏移
	UTF16  int `json:"utf16" yaml:"utf16"`   // 0-based UTF-16 code unit 偏移
}

// Position 块在原文中的范围，End 为开区间
type Position struct {
	Start Point `json:"start" yaml:"start"`
	End   Point `json:"end" yaml:"end"`
}

// Block 一个顶层 Markdown 块及其原始源码
type Block struct {
	Index    int       `json:"index" yaml:"index"`
	Type     BlockType `json:"type" yaml:"type"`
	Source   string    `json:"source" yaml:"source"`
	Position Position  `json:"position" yaml:"position"`
}

// Image 文档中提取出的图片
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"` // data URL
	Alt string `json:"alt"`
}

// Document 一次转换的结果
type Document struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Timestamp time.Time         `json:"timestamp"`
	Markdown  string            `json:"markdown"`
	Images    []Image           `json:"images"`
	ImageMap  map[string]string `json:"imageMap,omitempty"`
	PageCount int               `json:"pageCount,omitempty"`
	FileSize  int64             `json:"fileSize,omitempty"`
}

// PageImage OCR 返回的页内图片
type PageImage struct {
	ID     string `json:"id"`
	Base64 string `json:"image_base64,omitempty"`
}

// Page OCR 返回的单页结果
type Page struct {
	Index    int         `json:"index"`
	Markdown string      `json:"markdown"`
	Images   []PageImage `json:"images"`
}

// Preferences 进程级 UI 偏好
//
// 在启动时创建，由用户切换，渲染器和复制处理器读取。
// 显式传递给需要它的组件。
type Preferences struct {
	mu             sync.RWMutex
	copyAsMarkdown bool
	showImages     bool
}

// NewPreferences 返回默认偏好（两项均开启）
func NewPreferences() *Preferences {
	return &Preferences{
		copyAsMarkdown: true,
		showImages:     true,
	}
}

// CopyAsMarkdown reports whether copy events are rewritten to markdown source.
func (p *Preferences) CopyAsMarkdown() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.copyAsMarkdown
}

// SetCopyAsMarkdown toggles markdown copy.
func (p *Preferences) SetCopyAsMarkdown(enabled bool) {
	p.mu.Lock()
	p.copyAsMarkdown = enabled
	p.mu.Unlock()
}

// ShowImages reports whether extracted images are rendered.
func (p *Preferences) ShowImages() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.showImages
}

// SetShowImages toggles image rendering.
func (p *Preferences) SetShowImages(enabled bool) {
	p.mu.Lock()
	p.showImages = enabled
	p.mu.Unlock()
}

// PreferencesSnapshot 偏好的可序列化快照
type PreferencesSnapshot struct {
	CopyAsMarkdown bool `json:"copyAsMarkdown" yaml:"copy_as_markdown" mapstructure:"copy_as_markdown"`
	ShowImages     bool `json:"showImages" yaml:"show_images" mapstructure:"show_images"`
}

// Snapshot returns the current values.
func (p *Preferences) Snapshot() PreferencesSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PreferencesSnapshot{CopyAsMarkdown: p.copyAsMarkdown, ShowImages: p.showImages}
}

// Apply overwrites both values.
func (p *Preferences) Apply(s PreferencesSnapshot) {
	p.mu.Lock()
	p.copyAsMarkdown = s.CopyAsMarkdown
	p.showImages = s.ShowImages
	p.mu.Unlock()
}

// Symbol 定义渲染纯文本时使用的符号
type Symbol struct {
	Bullet          string `json:"bullet" yaml:"bullet" mapstructure:"bullet"`
	TaskCompleted   string `json:"taskCompleted" yaml:"task_completed" mapstructure:"task_completed"`
	TaskUncompleted string `json:"taskUncompleted" yaml:"task_uncompleted" mapstructure:"task_uncompleted"`
	Rule            string `json:"rule" yaml:"rule" mapstructure:"rule"`
	Quote           string `json:"quote" yaml:"quote" mapstructure:"quote"`
	Image           string `json:"image" yaml:"image" mapstructure:"image"`
}

// DefaultSymbol 返回默认符号配置
func DefaultSymbol() *Symbol {
	return &Symbol{
		Bullet:          "•",
		TaskCompleted:   "☑",
		TaskUncompleted: "☐",
		Rule:            "────────",
		Quote:           "",
		Image:           "🖼",
	}
}

// RenderConfig 渲染配置
type RenderConfig struct {
	MarkdownSymbol *Symbol `json:"symbols" yaml:"symbols" mapstructure:"symbols"`
	// MathUnicode 将公式转换为 Unicode，关闭时保留 TeX 原文
	MathUnicode bool `json:"mathUnicode" yaml:"math_unicode" mapstructure:"math_unicode"`
}

// DefaultRenderConfig 返回默认渲染配置
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		MarkdownSymbol: DefaultSymbol(),
		MathUnicode:    true,
	}
}

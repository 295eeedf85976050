package converter

// SpanKind 渲染文本上的样式类型
type SpanKind string

const (
	SpanBold          SpanKind = "bold"
	SpanItalic        SpanKind = "italic"
	SpanStrikethrough SpanKind = "strikethrough"
	SpanCode          SpanKind = "code"
	SpanPre           SpanKind = "pre"
	SpanLink          SpanKind = "link"
	SpanBlockquote    SpanKind = "blockquote"
	SpanMath          SpanKind = "math"
	SpanHeading       SpanKind = "heading"
	SpanTable         SpanKind = "table"
)

// Span 渲染文本中的一段样式，偏移和长度以 UTF-16 code unit 计
type Span struct {
	Kind     SpanKind `json:"kind" yaml:"kind"`
	Offset   int      `json:"offset" yaml:"offset"`
	Length   int      `json:"length" yaml:"length"`
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
	Level    int      `json:"level,omitempty" yaml:"level,omitempty"`
}

// ImageRef 渲染结果中的一张图片
type ImageRef struct {
	Line   int    `json:"line" yaml:"line"`     // 图片所在的渲染行（0-based）
	Offset int    `json:"offset" yaml:"offset"` // UTF-16 偏移
	Src    string `json:"src" yaml:"src"`       // 解析后的地址，通常是 data URL
	Ref    string `json:"ref" yaml:"ref"`       // markdown 中写的原始地址
	Alt    string `json:"alt" yaml:"alt"`
}

// Rendered 一个块的渲染结果
type Rendered struct {
	Text   string     `json:"text" yaml:"text"`
	Spans  []Span     `json:"spans" yaml:"spans"`
	Images []ImageRef `json:"images,omitempty" yaml:"images,omitempty"`
}

// spanScope 用于跟踪未闭合的样式
type spanScope struct {
	kind        SpanKind
	startOffset int
	url         string
	level       int
}

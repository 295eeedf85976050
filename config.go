package docmark

import (
	"sync"

	"github.com/riverfjs/docmark-go/internal/types"
)

// 导出类型别名
type (
	Symbol       = types.Symbol
	RenderConfig = types.RenderConfig
	Block        = types.Block
	BlockType    = types.BlockType
	Document     = types.Document
	Image        = types.Image
	Page         = types.Page
	PageImage    = types.PageImage
	Preferences  = types.Preferences
)

var (
	defaultConfig     *RenderConfig
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the default render configuration (singleton).
func DefaultConfig() *RenderConfig {
	defaultConfigOnce.Do(func() {
		defaultConfig = types.DefaultRenderConfig()
	})
	return defaultConfig
}

// NewPreferences returns preferences with markdown copy and images enabled.
func NewPreferences() *Preferences {
	return types.NewPreferences()
}

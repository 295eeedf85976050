package segment

import (
	"sync"

	"github.com/riverfjs/docmark-go/internal/types"
)

// Memo 缓存最近一次切分结果，以内容为键
//
// 内容变化时整体替换；返回的切片视为只读。
type Memo struct {
	mu       sync.Mutex
	markdown string
	blocks   []types.Block
	valid    bool
	hits     int
	misses   int
}

// Blocks returns the blocks for markdown, segmenting only when the content changed.
func (m *Memo) Blocks(markdown string) []types.Block {
	blocks, _ := m.Lookup(markdown)
	return blocks
}

// Lookup 与 Blocks 相同，并报告是否命中缓存
func (m *Memo) Lookup(markdown string) (blocks []types.Block, hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.markdown == markdown {
		m.hits++
		return m.blocks, true
	}
	m.misses++
	m.markdown = markdown
	m.blocks = Segment(markdown)
	m.valid = true
	return m.blocks, false
}

// Stats returns cache hit and miss counts.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

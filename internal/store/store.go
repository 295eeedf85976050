// Package store 持久化转换后的文档
package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/riverfjs/docmark-go/internal/types"
)

var (
	// ErrNotFound 文档不存在
	ErrNotFound = errors.New("document not found")
	// ErrInvalidDocument 文档为空或缺少 id
	ErrInvalidDocument = errors.New("document must have an id")
)

// Store 文档仓库
type Store interface {
	// Put 插入或覆盖同 id 的文档
	Put(ctx context.Context, doc *types.Document) error
	// All 按时间倒序返回全部文档
	All(ctx context.Context) ([]*types.Document, error)
	// Get 返回文档，不存在时返回 ErrNotFound
	Get(ctx context.Context, id string) (*types.Document, error)
	// Delete 删除文档，不存在时不报错
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Estimate(ctx context.Context) (Estimate, error)
	Close() error
}

// Estimate 存储用量
type Estimate struct {
	Usage        int64   `json:"usage"`
	Quota        int64   `json:"quota"`
	UsagePercent float64 `json:"usagePercent"`
}

func newEstimate(usage, quota int64) Estimate {
	e := Estimate{Usage: usage, Quota: quota}
	if quota > 0 {
		e.UsagePercent = float64(usage) / float64(quota) * 100
	}
	return e
}

func sortNewestFirst(docs []*types.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Timestamp.After(docs[j].Timestamp)
	})
}

type nameSource []*types.Document

func (s nameSource) String(i int) string {
	return strings.ToLower(s[i].Name)
}

func (s nameSource) Len() int {
	return len(s)
}

// Search 按名称模糊匹配，结果按匹配分数排序；空查询原样返回
func Search(docs []*types.Document, query string) []*types.Document {
	query = strings.TrimSpace(query)
	if query == "" {
		return docs
	}
	matches := fuzzy.FindFrom(strings.ToLower(query), nameSource(docs))
	out := make([]*types.Document, len(matches))
	for i, m := range matches {
		out[i] = docs[m.Index]
	}
	return out
}

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)

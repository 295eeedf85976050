package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/docmark-go/internal/types"
)

func newDoc(id, name string, ts time.Time) *types.Document {
	return &types.Document{
		ID:        id,
		Name:      name,
		Timestamp: ts,
		Markdown:  "# " + name,
		Images:    []types.Image{{ID: "img-0.jpeg", URL: "data:image/jpeg;base64,AAAA", Alt: "Extracted image img-0.jpeg from page 0"}},
		ImageMap:  map[string]string{"img-0.jpeg": "data:image/jpeg;base64,AAAA"},
		PageCount: 2,
		FileSize:  1024,
	}
}

// stores 对每种实现运行同一组用例
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "docs.db"), 1<<20)
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemory(1 << 20),
		"sqlite": sqlite,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ts := time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC)
			doc := newDoc("a", "report.pdf", ts)
			require.NoError(t, s.Put(ctx, doc))

			got, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, doc.Name, got.Name)
			assert.Equal(t, doc.Markdown, got.Markdown)
			assert.True(t, ts.Equal(got.Timestamp), "timestamp %v != %v", got.Timestamp, ts)
			assert.Equal(t, doc.Images, got.Images)
			assert.Equal(t, doc.ImageMap, got.ImageMap)
			assert.Equal(t, 2, got.PageCount)
			assert.Equal(t, int64(1024), got.FileSize)
		})
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			doc := newDoc("a", "first.pdf", time.Now())
			require.NoError(t, s.Put(ctx, doc))
			doc.Name = "second.pdf"
			require.NoError(t, s.Put(ctx, doc))

			all, err := s.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "second.pdf", all[0].Name)
		})
	}
}

func TestStore_AllNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, newDoc("old", "old.pdf", base)))
			require.NoError(t, s.Put(ctx, newDoc("new", "new.pdf", base.Add(2*time.Hour))))
			require.NoError(t, s.Put(ctx, newDoc("mid", "mid.pdf", base.Add(time.Hour))))

			all, err := s.All(ctx)
			require.NoError(t, err)
			ids := make([]string, len(all))
			for i, d := range all {
				ids[i] = d.ID
			}
			assert.Equal(t, []string{"new", "mid", "old"}, ids)
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, newDoc("a", "a.pdf", time.Now())))
			require.NoError(t, s.Put(ctx, newDoc("b", "b.pdf", time.Now())))

			require.NoError(t, s.Delete(ctx, "a"))
			require.NoError(t, s.Delete(ctx, "a"), "deleting a missing document is not an error")
			_, err := s.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Clear(ctx))
			all, err := s.All(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestStore_Estimate(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, newDoc("a", "a.pdf", time.Now())))
			est, err := s.Estimate(ctx)
			require.NoError(t, err)
			assert.Greater(t, est.Usage, int64(0))
			assert.Equal(t, int64(1<<20), est.Quota)
			assert.InDelta(t, float64(est.Usage)/float64(1<<20)*100, est.UsagePercent, 1e-9)
		})
	}
}

func TestStore_InvalidDocument(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Put(ctx, nil), ErrInvalidDocument)
			assert.ErrorIs(t, s.Put(ctx, &types.Document{}), ErrInvalidDocument)
		})
	}
}

func TestSearch(t *testing.T) {
	docs := []*types.Document{
		{ID: "1", Name: "Quarterly Report.pdf"},
		{ID: "2", Name: "invoice-2024.png"},
		{ID: "3", Name: "report-draft.pdf"},
	}

	got := Search(docs, "report")
	require.Len(t, got, 2)
	for _, d := range got {
		assert.Contains(t, []string{"1", "3"}, d.ID)
	}

	assert.Len(t, Search(docs, "  "), 3)
	assert.Empty(t, Search(docs, "zzz"))
	assert.Equal(t, "2", Search(docs, "INV")[0].ID)
}

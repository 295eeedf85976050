package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/riverfjs/docmark-go/internal/types"
)

// SQLite 基于 SQLite 的文档存储
//
// images 和 image_map 以 JSON 文本保存，时间戳以 RFC3339Nano 文本保存。
type SQLite struct {
	db    *sql.DB
	quota int64
}

// OpenSQLite 打开（必要时创建）path 处的数据库。path 为 ":memory:" 时使用内存库。
func OpenSQLite(path string, quota int64) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// 内存库每个连接是独立的数据库
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, quota: quota}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		markdown TEXT NOT NULL,
		images TEXT NOT NULL,
		image_map TEXT,
		page_count INTEGER NOT NULL DEFAULT 0,
		file_size INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_documents_timestamp ON documents(timestamp DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) Put(ctx context.Context, doc *types.Document) error {
	if doc == nil || doc.ID == "" {
		return ErrInvalidDocument
	}
	images := doc.Images
	if images == nil {
		images = []types.Image{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}
	var imageMap sql.NullString
	if doc.ImageMap != nil {
		b, err := json.Marshal(doc.ImageMap)
		if err != nil {
			return fmt.Errorf("encode image map: %w", err)
		}
		imageMap = sql.NullString{String: string(b), Valid: true}
	}

	query := `
	INSERT INTO documents (id, name, timestamp, markdown, images, image_map, page_count, file_size)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		timestamp = excluded.timestamp,
		markdown = excluded.markdown,
		images = excluded.images,
		image_map = excluded.image_map,
		page_count = excluded.page_count,
		file_size = excluded.file_size
	`
	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Name,
		doc.Timestamp.UTC().Format(time.RFC3339Nano),
		doc.Markdown,
		string(imagesJSON),
		imageMap,
		doc.PageCount,
		doc.FileSize,
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, name, timestamp, markdown, images, image_map, page_count, file_size FROM documents`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*types.Document, error) {
	var (
		doc        types.Document
		ts, images string
		imageMap   sql.NullString
	)
	if err := row.Scan(&doc.ID, &doc.Name, &ts, &doc.Markdown, &images, &imageMap, &doc.PageCount, &doc.FileSize); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	doc.Timestamp = t

	if err := json.Unmarshal([]byte(images), &doc.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	if imageMap.Valid {
		if err := json.Unmarshal([]byte(imageMap.String), &doc.ImageMap); err != nil {
			return nil, fmt.Errorf("decode image map: %w", err)
		}
	}
	return &doc, nil
}

func (s *SQLite) All(ctx context.Context) ([]*types.Document, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	// 文本时间戳的时区可能不同，按解析后的时间排序
	sortNewestFirst(docs)
	return docs, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*types.Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	return nil
}

// Estimate 返回数据库页占用的字节数
func (s *SQLite) Estimate(ctx context.Context) (Estimate, error) {
	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, `PRAGMA page_count`).Scan(&pageCount); err != nil {
		return Estimate{}, fmt.Errorf("page count: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `PRAGMA page_size`).Scan(&pageSize); err != nil {
		return Estimate{}, fmt.Errorf("page size: %w", err)
	}
	return newEstimate(pageCount*pageSize, s.quota), nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

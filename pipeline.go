package docmark

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/riverfjs/docmark-go/internal/converter"
	"github.com/riverfjs/docmark-go/internal/imageutil"
	"github.com/riverfjs/docmark-go/internal/ocr"
	"github.com/riverfjs/docmark-go/internal/store"
)

// ErrNoFile 没有提供文件
var ErrNoFile = errors.New("no file provided")

// Input 待转换的文件
type Input = ocr.Input

// Gateway 文档转换服务
type Gateway interface {
	Process(ctx context.Context, in Input, model string) ([]Page, error)
}

// Store 文档仓库
type Store = store.Store

// AssembleDocument 把逐页结果合并为一篇文档
//
// 多页文档的每页前加 "---" 分隔线和 "# Page N" 标题；页内图片按页序收集，
// ImageMap 按图片 id 去重，先出现者优先。
func AssembleDocument(name string, size int64, pages []Page) *Document {
	parts := make([]string, len(pages))
	for i, page := range pages {
		header := ""
		if len(pages) > 1 {
			header = fmt.Sprintf("\n\n---\n\n# Page %d\n\n", page.Index)
		}
		parts[i] = header + page.Markdown
	}

	images := make([]Image, 0)
	imageMap := make(map[string]string)
	for _, page := range pages {
		for _, img := range page.Images {
			if img.Base64 == "" {
				continue
			}
			url := imageutil.ToDataURL(img.Base64)
			images = append(images, Image{
				ID:  img.ID,
				URL: url,
				Alt: fmt.Sprintf("Extracted image %s from page %d", img.ID, page.Index),
			})
			if _, ok := imageMap[img.ID]; !ok {
				imageMap[img.ID] = url
			}
		}
	}

	return &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Timestamp: time.Now(),
		Markdown:  converter.NormalizeMath(strings.Join(parts, "\n\n")),
		Images:    images,
		ImageMap:  imageMap,
		PageCount: len(pages),
		FileSize:  size,
	}
}

// Converter 串联转换服务、文档组装和存储
type Converter struct {
	gateway Gateway
	store   Store
	opts    *Options
}

// NewConverter creates a converter. st 为 nil 时结果不保存。
func NewConverter(gateway Gateway, st Store, opts ...Option) *Converter {
	return &Converter{gateway: gateway, store: st, opts: applyOptions(opts...)}
}

// ProcessFile 转换单个文件并保存
func (c *Converter) ProcessFile(ctx context.Context, in Input) (*Document, error) {
	doc, err := c.processFile(ctx, in)
	if err != nil {
		Logger.Error().Err(err).Str("name", in.Name).Msg("error converting document")
		return nil, fmt.Errorf("failed to convert document: %w", err)
	}
	return doc, nil
}

func (c *Converter) processFile(ctx context.Context, in Input) (*Document, error) {
	if len(in.Data) == 0 {
		return nil, ErrNoFile
	}
	start := time.Now()

	pages, err := c.gateway.Process(ctx, in, c.opts.Model)
	if err != nil {
		return nil, err
	}
	doc := AssembleDocument(in.Name, int64(len(in.Data)), pages)

	if c.store != nil {
		if err := c.store.Put(ctx, doc); err != nil {
			return nil, err
		}
	}

	Logger.Info().
		Str("id", doc.ID).
		Str("name", doc.Name).
		Int("pages", doc.PageCount).
		Int("images", len(doc.Images)).
		Dur("elapsed", time.Since(start)).
		Msg("document converted")
	return doc, nil
}

// Result 批量转换中单个文件的结果
type Result struct {
	Name     string    `json:"name"`
	Document *Document `json:"document,omitempty"`
	Err      error     `json:"-"`
}

// ProcessFiles 并发转换多个文件，结果与输入顺序一致
//
// 单个文件失败不影响其他文件；只有 ctx 被取消时返回错误。
func (c *Converter) ProcessFiles(ctx context.Context, inputs []Input) ([]Result, error) {
	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for i, in := range inputs {
		results[i].Name = in.Name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			doc, err := c.ProcessFile(gctx, in)
			results[i].Document = doc
			results[i].Err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Package export 生成文档的下载文件
package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/riverfjs/docmark-go/internal/imageutil"
	"github.com/riverfjs/docmark-go/internal/types"
	"github.com/riverfjs/docmark-go/internal/util"
)

const (
	ContentTypeMarkdown = "text/markdown; charset=utf-8"
	ContentTypeZip      = "application/zip"
	ContentTypePNG      = "image/png"

	imageDir = "images"
)

// ErrImageNotFound 文档中没有该图片
var ErrImageNotFound = errors.New("image not found")

// File 一个可下载文件
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Markdown 文档的 .md 文件
func Markdown(doc *types.Document) *File {
	return &File{
		Name:        util.MarkdownFilename(doc.Name),
		ContentType: ContentTypeMarkdown,
		Data:        []byte(doc.Markdown),
	}
}

// Archive 打包 markdown 和全部图片
//
// 图片写入 images/ 目录，markdown 中对图片 id 的引用改写为相对路径。
func Archive(doc *types.Document) (*File, error) {
	md := Markdown(doc)
	base := strings.TrimSuffix(md.Name, ".md")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	markdown := doc.Markdown
	seen := make(map[string]struct{}, len(doc.Images))
	type entry struct {
		name string
		data []byte
	}
	var images []entry
	for _, img := range doc.Images {
		if _, dup := seen[img.ID]; dup {
			continue
		}
		seen[img.ID] = struct{}{}

		d, err := imageutil.ParseDataURL(img.URL)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", img.ID, err)
		}
		name := imageEntryName(img.ID, d.MIMEType)
		images = append(images, entry{name: name, data: d.Data})
		markdown = strings.ReplaceAll(markdown, "]("+img.ID+")", "]("+name+")")
	}

	if err := writeEntry(zw, base+".md", []byte(markdown)); err != nil {
		return nil, err
	}
	for _, e := range images {
		if err := writeEntry(zw, e.name, e.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return &File{Name: base + ".zip", ContentType: ContentTypeZip, Data: buf.Bytes()}, nil
}

func imageEntryName(id, mimeType string) string {
	name := util.SanitizeFilename(id)
	if name == "" {
		name = "image"
	}
	if path.Ext(name) == "" {
		name += "." + util.GetExt(mimeType)
	}
	return path.Join(imageDir, name)
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ImageOptions 图片导出选项
type ImageOptions struct {
	// PNG 重新编码为 PNG
	PNG bool
	// Thumb 大于 0 时缩放到最长边不超过该值（输出 PNG）
	Thumb int
}

// Image 导出单张图片
func Image(doc *types.Document, id string, opts ImageOptions) (*File, error) {
	img, ok := FindImage(doc, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, id)
	}

	switch {
	case opts.Thumb > 0:
		data, err := imageutil.Thumbnail(img.URL, opts.Thumb)
		if err != nil {
			return nil, err
		}
		return &File{Name: pngName(img), ContentType: ContentTypePNG, Data: data}, nil
	case opts.PNG:
		data, err := imageutil.ToPNG(img.URL)
		if err != nil {
			return nil, err
		}
		return &File{Name: pngName(img), ContentType: ContentTypePNG, Data: data}, nil
	}

	d, err := imageutil.ParseDataURL(img.URL)
	if err != nil {
		return nil, err
	}
	return &File{Name: util.ImageFilename(img.Alt, img.URL), ContentType: d.MIMEType, Data: d.Data}, nil
}

func pngName(img types.Image) string {
	name := util.ImageFilename(img.Alt, img.URL)
	return strings.TrimSuffix(name, path.Ext(name)) + ".png"
}

// FindImage 按 id 查找图片，先查 Images 再查 ImageMap
func FindImage(doc *types.Document, id string) (types.Image, bool) {
	for _, img := range doc.Images {
		if img.ID == id {
			return img, true
		}
	}
	if url, ok := doc.ImageMap[id]; ok {
		return types.Image{ID: id, URL: url, Alt: id}, true
	}
	return types.Image{}, false
}

package docmark

import "github.com/riverfjs/docmark-go/internal/export"

// ContentType 导出文件的种类
type ContentType int

const (
	// ContentTypeMarkdown represents a markdown download.
	ContentTypeMarkdown ContentType = iota
	// ContentTypeArchive represents a ZIP with markdown and images.
	ContentTypeArchive
	// ContentTypeImage represents a single image.
	ContentTypeImage
)

// String returns the string representation of ContentType.
func (ct ContentType) String() string {
	switch ct {
	case ContentTypeMarkdown:
		return "markdown"
	case ContentTypeArchive:
		return "archive"
	case ContentTypeImage:
		return "image"
	default:
		return "unknown"
	}
}

// File 可下载的导出文件
type File struct {
	Kind        ContentType
	Name        string
	ContentType string
	Data        []byte
}

// ImageOptions 图片导出选项
type ImageOptions = export.ImageOptions

// ErrImageNotFound 文档中没有该图片
var ErrImageNotFound = export.ErrImageNotFound

func wrap(kind ContentType, f *export.File) *File {
	return &File{Kind: kind, Name: f.Name, ContentType: f.ContentType, Data: f.Data}
}

// ExportMarkdown 导出 .md 文件
func ExportMarkdown(doc *Document) *File {
	return wrap(ContentTypeMarkdown, export.Markdown(doc))
}

// ExportArchive 导出包含 markdown 和全部图片的 ZIP
func ExportArchive(doc *Document) (*File, error) {
	f, err := export.Archive(doc)
	if err != nil {
		return nil, err
	}
	return wrap(ContentTypeArchive, f), nil
}

// ExportImage 导出单张图片，可转为 PNG 或缩略图
func ExportImage(doc *Document, id string, opts ImageOptions) (*File, error) {
	f, err := export.Image(doc, id, opts)
	if err != nil {
		return nil, err
	}
	return wrap(ContentTypeImage, f), nil
}

package util

import (
	"path/filepath"
	"regexp"
	"strings"
)

// MIMEToExt maps image MIME types to file extensions.
var MIMEToExt = map[string]string{
	"image/jpeg":      "jpeg",
	"image/jpg":       "jpeg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"image/bmp":       "bmp",
	"image/tiff":      "tiff",
	"application/pdf": "pdf",
}

var (
	imageExtPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)
	dataURLType     = regexp.MustCompile(`^data:image/(\w+);`)
	unsafeChars     = regexp.MustCompile(`[^\p{L}\p{N}_\-\. ]+`)
)

// GetExt returns the extension for a MIME type, "bin" when unknown.
func GetExt(mimeType string) string {
	ext, ok := MIMEToExt[strings.ToLower(mimeType)]
	if !ok {
		return "bin"
	}
	return ext
}

// MarkdownFilename 下载文件名：去掉原扩展名，加 .md
func MarkdownFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = SanitizeFilename(base)
	if base == "" {
		base = "document"
	}
	return base + ".md"
}

// ImageFilename 图片下载文件名
//
// 去掉 alt 中已有的图片扩展名，扩展名取自 data URL 的类型，默认 png。
func ImageFilename(alt, dataURL string) string {
	clean := imageExtPattern.ReplaceAllString(alt, "")
	clean = SanitizeFilename(clean)
	if clean == "" {
		clean = "image"
	}
	ext := "png"
	if m := dataURLType.FindStringSubmatch(dataURL); m != nil {
		ext = m[1]
	}
	return clean + "." + ext
}

// SanitizeFilename 去掉路径分隔符和控制字符
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	return strings.TrimSpace(name)
}

// Package imageutil 处理 data URL 形式的图片：解码、转 PNG、生成缩略图
package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMIME 无法识别图片类型时使用
const DefaultMIME = "image/jpeg"

// ErrInvalidDataURL data URL 格式错误
var ErrInvalidDataURL = errors.New("invalid data URL")

// DataURL 解析后的 data URL
type DataURL struct {
	MIMEType string
	Data     []byte
}

// ParseDataURL 解析 base64 编码的 data URL
func ParseDataURL(s string) (*DataURL, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrInvalidDataURL
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("%w: not base64", ErrInvalidDataURL)
	}
	data, err := decodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if mediaType == "" {
		mediaType = SniffMIME(data)
	}
	return &DataURL{MIMEType: mediaType, Data: data}, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// String 重新编码为 data URL
func (d *DataURL) String() string {
	return FormatDataURL(d.MIMEType, d.Data)
}

// FormatDataURL 构造 base64 data URL
func FormatDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SniffMIME 从内容识别图片类型，非图片返回 DefaultMIME
func SniffMIME(data []byte) string {
	mt := http.DetectContentType(data)
	if strings.HasPrefix(mt, "image/") {
		return mt
	}
	// DetectContentType 不识别 TIFF
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return "image/tiff"
	}
	return DefaultMIME
}

// ToDataURL 把 OCR 返回的 base64 补成 data URL；已是 data URL 时原样返回
func ToDataURL(b64 string) string {
	if strings.HasPrefix(b64, "data:") {
		return b64
	}
	mimeType := DefaultMIME
	if data, err := decodeBase64(b64); err == nil {
		mimeType = SniffMIME(data)
	}
	return "data:" + mimeType + ";base64," + b64
}

// Decode 解码 data URL 中的图片
func Decode(dataURL string) (image.Image, string, error) {
	d, err := ParseDataURL(dataURL)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(d.Data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// ToPNG 把 data URL 中的图片重新编码为 PNG
func ToPNG(dataURL string) ([]byte, error) {
	img, _, err := Decode(dataURL)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

// Thumbnail 等比缩放到最长边不超过 maxSide，输出 PNG
func Thumbnail(dataURL string, maxSide int) ([]byte, error) {
	if maxSide <= 0 {
		return nil, fmt.Errorf("thumbnail size must be positive, got %d", maxSide)
	}
	img, _, err := Decode(dataURL)
	if err != nil {
		return nil, err
	}
	return encodePNG(Scale(img, maxSide))
}

// Scale 等比缩放，不放大
func Scale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}
	nw, nh := maxSide, maxSide
	if w >= h {
		nh = max(1, h*maxSide/w)
	} else {
		nw = max(1, w*maxSide/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func jpegDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return FormatDataURL("image/jpeg", buf.Bytes())
}

func TestParseDataURL(t *testing.T) {
	d, err := ParseDataURL("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", d.MIMEType)
	assert.Equal(t, []byte("hello"), d.Data)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", d.String())

	// 缺少填充
	d, err = ParseDataURL("data:image/png;base64,aGVsbG8")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), d.Data)

	for _, bad := range []string{"", "http://x/y.png", "data:image/png;base64", "data:text/plain,hello", "data:image/png;base64,!!!"} {
		_, err := ParseDataURL(bad)
		assert.ErrorIs(t, err, ErrInvalidDataURL, bad)
	}
}

func TestSniffMIME(t *testing.T) {
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, testImage(2, 2)))

	assert.Equal(t, "image/png", SniffMIME(pngBuf.Bytes()))
	assert.Equal(t, "image/tiff", SniffMIME([]byte("II*\x00rest")))
	assert.Equal(t, DefaultMIME, SniffMIME([]byte("not an image")))
}

func TestToDataURL(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AAAA", ToDataURL("data:image/png;base64,AAAA"))

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, testImage(2, 2)))
	b64 := FormatDataURL("", pngBuf.Bytes())[len("data:;base64,"):]
	assert.Equal(t, "data:image/png;base64,"+b64, ToDataURL(b64))

	assert.Equal(t, "data:image/jpeg;base64,AAAA", ToDataURL("AAAA"))
}

func TestToPNG(t *testing.T) {
	out, err := ToPNG(jpegDataURL(t, 20, 10))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestThumbnail(t *testing.T) {
	out, err := Thumbnail(jpegDataURL(t, 200, 100), 50)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())

	_, err = Thumbnail(jpegDataURL(t, 10, 10), 0)
	assert.Error(t, err)
}

func TestScale_NoUpscale(t *testing.T) {
	img := testImage(10, 30)
	assert.Same(t, img, Scale(img, 100))

	scaled := Scale(img, 15)
	assert.Equal(t, 5, scaled.Bounds().Dx())
	assert.Equal(t, 15, scaled.Bounds().Dy())
}

func TestDecode_NotAnImage(t *testing.T) {
	_, _, err := Decode(FormatDataURL("image/png", []byte("garbage")))
	assert.Error(t, err)
}

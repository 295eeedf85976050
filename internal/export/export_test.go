package export

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/docmark-go/internal/imageutil"
	"github.com/riverfjs/docmark-go/internal/types"
)

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return imageutil.FormatDataURL("image/png", buf.Bytes())
}

func testDoc(t *testing.T) *types.Document {
	url := pngDataURL(t, 40, 20)
	return &types.Document{
		ID:       "doc-1",
		Name:     "scan.final.pdf",
		Markdown: "# Scan\n\n![img-0.png](img-0.png)\n\n![chart](chart)",
		Images: []types.Image{
			{ID: "img-0.png", URL: url, Alt: "Extracted image img-0.png from page 0"},
			{ID: "chart", URL: url, Alt: "Extracted image chart from page 1"},
			{ID: "img-0.png", URL: url, Alt: "duplicate"},
		},
		ImageMap: map[string]string{"img-0.png": url, "chart": url},
	}
}

func TestMarkdown(t *testing.T) {
	f := Markdown(testDoc(t))
	assert.Equal(t, "scan.final.md", f.Name)
	assert.Equal(t, ContentTypeMarkdown, f.ContentType)
	assert.Equal(t, "# Scan\n\n![img-0.png](img-0.png)\n\n![chart](chart)", string(f.Data))
}

func TestArchive(t *testing.T) {
	f, err := Archive(testDoc(t))
	require.NoError(t, err)
	assert.Equal(t, "scan.final.zip", f.Name)
	assert.Equal(t, ContentTypeZip, f.ContentType)

	zr, err := zip.NewReader(bytes.NewReader(f.Data), int64(len(f.Data)))
	require.NoError(t, err)

	contents := map[string][]byte{}
	var names []string
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		contents[zf.Name] = data
		names = append(names, zf.Name)
	}
	assert.Equal(t, []string{"scan.final.md", "images/img-0.png", "images/chart.png"}, names)
	assert.Equal(t, "# Scan\n\n![img-0.png](images/img-0.png)\n\n![chart](images/chart.png)", string(contents["scan.final.md"]))

	_, err = png.Decode(bytes.NewReader(contents["images/chart.png"]))
	assert.NoError(t, err)
}

func TestArchive_BadImage(t *testing.T) {
	doc := &types.Document{Name: "a.pdf", Images: []types.Image{{ID: "x", URL: "not-a-data-url"}}}
	_, err := Archive(doc)
	assert.ErrorIs(t, err, imageutil.ErrInvalidDataURL)
}

func TestImage(t *testing.T) {
	doc := testDoc(t)

	f, err := Image(doc, "chart", ImageOptions{})
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, "Extracted image chart from page 1.png", f.Name)

	thumb, err := Image(doc, "chart", ImageOptions{Thumb: 10})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(thumb.Data))
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())

	_, err = Image(doc, "missing", ImageOptions{})
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestFindImage_FallsBackToImageMap(t *testing.T) {
	doc := &types.Document{ImageMap: map[string]string{"only-map": "data:image/png;base64,AAAA"}}
	img, ok := FindImage(doc, "only-map")
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,AAAA", img.URL)
}

package docmark

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/riverfjs/docmark-go/internal/ocr"
	"github.com/riverfjs/docmark-go/internal/store"
)

type fakeGateway struct {
	pages []Page
	err   error
	calls int32
}

func (f *fakeGateway) Process(_ context.Context, in Input, model string) ([]Page, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	if strings.HasSuffix(in.Name, ".txt") {
		return nil, ocr.ErrUnsupportedType
	}
	return f.pages, nil
}

func TestAssembleDocument_SinglePage(t *testing.T) {
	doc := AssembleDocument("a.png", 42, []Page{{Index: 0, Markdown: "hello \\(x\\)"}})
	if doc.Markdown != "hello $x$" {
		t.Errorf("markdown = %q", doc.Markdown)
	}
	if doc.PageCount != 1 || doc.FileSize != 42 || doc.Name != "a.png" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.ID == "" || doc.Timestamp.IsZero() {
		t.Error("id and timestamp must be set")
	}
	if len(doc.Images) != 0 {
		t.Errorf("images = %v", doc.Images)
	}
}

func TestAssembleDocument_MultiPage(t *testing.T) {
	pages := []Page{
		{Index: 0, Markdown: "first", Images: []PageImage{
			{ID: "img-0.jpeg", Base64: "AAAA"},
			{ID: "img-empty.jpeg"},
		}},
		{Index: 1, Markdown: "second", Images: []PageImage{
			{ID: "img-0.jpeg", Base64: "data:image/png;base64,BBBB"},
			{ID: "img-1.png", Base64: "data:image/png;base64,CCCC"},
		}},
	}
	doc := AssembleDocument("b.pdf", 10, pages)

	want := "\n\n---\n\n# Page 0\n\nfirst\n\n\n\n---\n\n# Page 1\n\nsecond"
	if doc.Markdown != want {
		t.Errorf("markdown =\n%q\nwant\n%q", doc.Markdown, want)
	}

	if len(doc.Images) != 3 {
		t.Fatalf("images = %d, want 3", len(doc.Images))
	}
	if doc.Images[0].URL != "data:image/jpeg;base64,AAAA" {
		t.Errorf("image 0 url = %q", doc.Images[0].URL)
	}
	if doc.Images[1].Alt != "Extracted image img-0.jpeg from page 1" {
		t.Errorf("image 1 alt = %q", doc.Images[1].Alt)
	}

	// 同 id 先出现者优先
	if doc.ImageMap["img-0.jpeg"] != "data:image/jpeg;base64,AAAA" {
		t.Errorf("image map img-0 = %q", doc.ImageMap["img-0.jpeg"])
	}
	if len(doc.ImageMap) != 2 {
		t.Errorf("image map = %v", doc.ImageMap)
	}
}

// 每页末尾的围栏、公式和 setext 标题不能被下一页的分隔线吃掉
func TestAssembleDocument_SegmentRoundTrip(t *testing.T) {
	pages := []Page{
		{Index: 0, Markdown: "```go\nx := 1\n```"},
		{Index: 1, Markdown: "$$\ny^2\n$$"},
		{Index: 2, Markdown: "Title\n====="},
	}
	doc := AssembleDocument("c.pdf", 1, pages)

	want := []string{
		"---", "# Page 0", "```go\nx := 1\n```",
		"---", "# Page 1", "$$\ny^2\n$$",
		"---", "# Page 2", "Title\n=====",
	}
	blocks := Segment(doc.Markdown)
	if len(blocks) != len(want) {
		t.Fatalf("blocks = %d, want %d: %+v", len(blocks), len(want), blocks)
	}
	for i, b := range blocks {
		if b.Source != want[i] {
			t.Errorf("block %d source = %q, want %q", i, b.Source, want[i])
		}
		again := Segment(b.Source)
		if len(again) != 1 || again[0].Source != b.Source || again[0].Type != b.Type {
			t.Errorf("block %d does not round-trip: %+v", i, again)
		}
	}
}

func TestProcessFile(t *testing.T) {
	gw := &fakeGateway{pages: []Page{{Index: 0, Markdown: "# Title"}}}
	st := store.NewMemory(0)
	c := NewConverter(gw, st)

	doc, err := c.ProcessFile(context.Background(), Input{Name: "x.pdf", MIMEType: "application/pdf", Data: []byte("%PDF")})
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	saved, err := st.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("document not saved: %v", err)
	}
	if saved.Markdown != "# Title" {
		t.Errorf("saved markdown = %q", saved.Markdown)
	}
}

func TestProcessFile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		gw     *fakeGateway
		in     Input
		target error
	}{
		{"no file", &fakeGateway{}, Input{Name: "x.pdf"}, ErrNoFile},
		{"unsupported", &fakeGateway{}, Input{Name: "x.txt", Data: []byte("hi")}, ocr.ErrUnsupportedType},
		{"gateway error", &fakeGateway{err: &ocr.APIError{StatusCode: 500, Message: "boom"}}, Input{Name: "x.pdf", Data: []byte("x")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConverter(tt.gw, nil).ProcessFile(context.Background(), tt.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "failed to convert document: ") {
				t.Errorf("error = %q", err)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error %v is not %v", err, tt.target)
			}
		})
	}

	var apiErr *ocr.APIError
	_, err := NewConverter(tests[2].gw, nil).ProcessFile(context.Background(), tests[2].in)
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
		t.Errorf("expected wrapped APIError, got %v", err)
	}
}

func TestProcessFiles(t *testing.T) {
	gw := &fakeGateway{pages: []Page{{Index: 0, Markdown: "ok"}}}
	c := NewConverter(gw, store.NewMemory(0), WithConcurrency(2))

	inputs := []Input{
		{Name: "a.pdf", Data: []byte("a")},
		{Name: "b.txt", Data: []byte("b")},
		{Name: "c.png", Data: []byte("c")},
	}
	results, err := c.ProcessFiles(context.Background(), inputs)
	if err != nil {
		t.Fatalf("ProcessFiles: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	for i, r := range results {
		if r.Name != inputs[i].Name {
			t.Errorf("result %d name = %q", i, r.Name)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("unexpected errors: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, ocr.ErrUnsupportedType) {
		t.Errorf("result 1 err = %v", results[1].Err)
	}
}

func TestProcessFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gw := &fakeGateway{pages: []Page{{Markdown: "x"}}}
	_, err := NewConverter(gw, nil).ProcessFiles(ctx, []Input{{Name: "a.pdf", Data: []byte("a")}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

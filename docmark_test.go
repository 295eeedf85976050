package docmark

import (
	"strings"
	"testing"
)

func TestSegment_TitleTextTable(t *testing.T) {
	blocks := Segment("# Title\n\nSome text.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	want := []struct {
		typ    BlockType
		source string
	}{
		{"heading", "# Title"},
		{"paragraph", "Some text."},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |"},
	}
	if len(blocks) != len(want) {
		t.Fatalf("blocks = %d, want %d", len(blocks), len(want))
	}
	for i, w := range want {
		if blocks[i].Type != w.typ || blocks[i].Source != w.source {
			t.Errorf("block %d = %s %q, want %s %q", i, blocks[i].Type, blocks[i].Source, w.typ, w.source)
		}
	}
}

func TestCopy_RoundTrip(t *testing.T) {
	md := "Intro with **bold**.\n\n```python\nprint('hi')\n```\n\n> quote"
	prefs := NewPreferences()
	pass := Render(Segment(md), prefs, nil)

	for i, block := range pass.Blocks() {
		sel, ok := BlockSelection(pass, i, i)
		if !ok {
			t.Fatalf("BlockSelection(%d) failed", i)
		}
		text, intercepted := Copy(pass, prefs, sel)
		if !intercepted {
			t.Fatalf("block %d: copy not intercepted", i)
		}
		if text != block.Source {
			t.Errorf("block %d: copied %q, want %q", i, text, block.Source)
		}
	}

	all, _ := BlockSelection(pass, 0, 2)
	text, _ := Copy(pass, prefs, all)
	if text != md {
		t.Errorf("full copy = %q, want %q", text, md)
	}
}

func TestCopy_DisabledFallsBackToRenderedText(t *testing.T) {
	prefs := NewPreferences()
	prefs.SetCopyAsMarkdown(false)
	pass := Render(Segment("Intro with **bold**."), prefs, nil)

	sel, _ := BlockSelection(pass, 0, 0)
	text, intercepted := Copy(pass, prefs, sel)
	if intercepted {
		t.Error("copy intercepted with markdown copy disabled")
	}
	if text != "Intro with bold." {
		t.Errorf("default text = %q", text)
	}
}

func TestRenderDocument_Images(t *testing.T) {
	doc := &Document{
		Markdown: "![img-0.jpeg](img-0.jpeg)",
		ImageMap: map[string]string{"img-0.jpeg": "data:image/jpeg;base64,AAAA"},
	}
	pass := RenderDocument(doc, NewPreferences())
	found := false
	for _, n := range pass.Nodes() {
		if n.Kind == "image" && strings.HasPrefix(n.Src, "data:image/jpeg") {
			found = true
		}
	}
	if !found {
		t.Error("image node with resolved src not found")
	}
}

package render

import (
	"testing"

	"github.com/riverfjs/docmark-go/internal/segment"
	"github.com/riverfjs/docmark-go/internal/types"
)

const sample = "# Title\n\nSome **bold** text.\nSecond line.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"

func TestBuild_Structure(t *testing.T) {
	blocks := segment.Segment(sample)
	pass := Build(blocks, types.NewPreferences(), nil)

	nodes := pass.Nodes()
	if nodes[0].Kind != KindContainer || nodes[0].Parent != -1 {
		t.Fatalf("node 0 = %+v, want container", nodes[0])
	}
	if len(nodes[0].Children) != len(blocks) {
		t.Fatalf("container children = %d, want %d", len(nodes[0].Children), len(blocks))
	}

	for i, id := range nodes[0].Children {
		idx, ok := pass.BlockOf(id)
		if !ok || idx != blocks[i].Index {
			t.Errorf("BlockOf(%d) = %d, %v; want %d", id, idx, ok, blocks[i].Index)
		}
		if nodes[id].Kind != NodeKind(blocks[i].Type) {
			t.Errorf("node %d kind = %s, want %s", id, nodes[id].Kind, blocks[i].Type)
		}
		for _, child := range nodes[id].Children {
			if _, ok := pass.BlockOf(child); ok {
				t.Errorf("line node %d must not be in the side table", child)
			}
			if parent, _ := pass.Parent(child); parent != id {
				t.Errorf("Parent(%d) = %d, want %d", child, parent, id)
			}
		}
	}

	// 前序 id
	for i, n := range nodes {
		if n.ID != i {
			t.Errorf("nodes[%d].ID = %d", i, n.ID)
		}
	}
}

func TestBuild_Text(t *testing.T) {
	pass := Build(segment.Segment(sample), types.NewPreferences(), nil)

	want := "Title\n\nSome bold text.\nSecond line.\n\na | b\n--+--\n1 | 2"
	if got := pass.Text(Container); got != want {
		t.Errorf("container text =\n%q\nwant\n%q", got, want)
	}

	para := pass.Nodes()[0].Children[1]
	if got := pass.Text(para); got != "Some bold text.\nSecond line." {
		t.Errorf("paragraph text = %q", got)
	}
	lines := pass.Nodes()[para].Children
	if len(lines) != 2 || pass.Text(lines[1]) != "Second line." {
		t.Errorf("paragraph lines = %v", lines)
	}
}

func TestBuild_Images(t *testing.T) {
	md := "![fig](img-0.jpeg)\n\nafter"
	imageMap := map[string]string{"img-0.jpeg": "data:image/jpeg;base64,AAAA"}
	blocks := segment.Segment(md)

	prefs := types.NewPreferences()
	pass := Build(blocks, prefs, imageMap)
	var images []Node
	for _, n := range pass.Nodes() {
		if n.Kind == KindImage {
			images = append(images, n)
		}
	}
	if len(images) != 1 {
		t.Fatalf("image nodes = %d, want 1", len(images))
	}
	if images[0].Src != imageMap["img-0.jpeg"] || images[0].Alt != "fig" {
		t.Errorf("image node = %+v", images[0])
	}
	if pass.Text(images[0].ID) != "" {
		t.Error("image node must not carry text")
	}
	if _, ok := pass.BlockOf(images[0].Parent); !ok {
		t.Error("image parent must be a block node")
	}

	prefs.SetShowImages(false)
	for _, n := range Build(blocks, prefs, imageMap).Nodes() {
		if n.Kind == KindImage {
			t.Fatalf("image node rendered with ShowImages off: %+v", n)
		}
	}
}

func TestParent_Bounds(t *testing.T) {
	pass := Build(segment.Segment("a\n\nb"), types.NewPreferences(), nil)
	if _, ok := pass.Parent(Container); ok {
		t.Error("container has no parent")
	}
	if _, ok := pass.Parent(999); ok {
		t.Error("unknown node has no parent")
	}
	if _, ok := pass.Node(-1); ok {
		t.Error("Node(-1) should fail")
	}
}

func TestBlockNode(t *testing.T) {
	pass := Build(segment.Segment("a\n\nb\n\nc"), types.NewPreferences(), nil)
	for i := 0; i < 3; i++ {
		id, ok := pass.BlockNode(i)
		if !ok {
			t.Fatalf("BlockNode(%d) missing", i)
		}
		if idx, _ := pass.BlockOf(id); idx != i {
			t.Errorf("BlockOf(BlockNode(%d)) = %d", i, idx)
		}
	}
	if _, ok := pass.BlockNode(3); ok {
		t.Error("BlockNode(3) should not exist")
	}
}

func TestBlockNode_Subset(t *testing.T) {
	blocks := segment.Segment("a\n\nb\n\nc")[1:]
	pass := Build(blocks, types.NewPreferences(), nil)

	if _, ok := pass.BlockNode(0); ok {
		t.Error("BlockNode(0) should not exist in a subset")
	}
	for _, want := range []int{1, 2} {
		id, ok := pass.BlockNode(want)
		if !ok {
			t.Fatalf("BlockNode(%d) missing", want)
		}
		if idx, _ := pass.BlockOf(id); idx != want {
			t.Errorf("BlockOf(BlockNode(%d)) = %d", want, idx)
		}
		if b, _ := pass.Block(want); b.Index != want {
			t.Errorf("Block(%d).Index = %d", want, b.Index)
		}
	}
}

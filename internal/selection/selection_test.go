package selection

import (
	"testing"

	"github.com/riverfjs/docmark-go/internal/render"
	"github.com/riverfjs/docmark-go/internal/segment"
	"github.com/riverfjs/docmark-go/internal/types"
)

const doc = "# Title\n\nSome **bold** text.\n\n- one\n- two\n\n```go\nx := 1\n```\n"

func setup(t *testing.T) (*types.Preferences, *render.Pass) {
	t.Helper()
	prefs := types.NewPreferences()
	return prefs, render.Build(segment.Segment(doc), prefs, nil)
}

// lineOf 返回块 index 下第 n 个行节点
func lineOf(t *testing.T, pass *render.Pass, index, n int) int {
	t.Helper()
	id, ok := pass.BlockNode(index)
	if !ok {
		t.Fatalf("no block node for %d", index)
	}
	node, _ := pass.Node(id)
	return node.Children[n]
}

func TestHandleCopy_SingleBlock(t *testing.T) {
	prefs, pass := setup(t)
	m := NewMapper(prefs, pass)
	line := lineOf(t, pass, 1, 0)

	ev := NewEvent()
	sel := Selection{Anchor: Point{Node: line, Offset: 2}, Focus: Point{Node: line, Offset: 7}}
	if !m.HandleCopy(sel, ev) {
		t.Fatal("HandleCopy returned false")
	}
	got, _ := ev.Data(FormatPlainText)
	if got != "Some **bold** text." {
		t.Errorf("copied = %q", got)
	}
	if !ev.DefaultPrevented() {
		t.Error("default not prevented")
	}
}

func TestHandleCopy_MultiBlock(t *testing.T) {
	prefs, pass := setup(t)
	m := NewMapper(prefs, pass)

	// 反向选择：focus 在 anchor 之前
	sel := Selection{
		Anchor: Point{Node: lineOf(t, pass, 3, 0), Offset: 1},
		Focus:  Point{Node: lineOf(t, pass, 1, 0), Offset: 3},
	}
	ev := NewEvent()
	if !m.HandleCopy(sel, ev) {
		t.Fatal("HandleCopy returned false")
	}
	want := "Some **bold** text.\n\n- one\n- two\n\n```go\nx := 1\n```"
	if got, _ := ev.Data(FormatPlainText); got != want {
		t.Errorf("copied =\n%q\nwant\n%q", got, want)
	}
}

func TestHandleCopy_Disabled(t *testing.T) {
	prefs, pass := setup(t)
	prefs.SetCopyAsMarkdown(false)
	m := NewMapper(prefs, pass)

	line := lineOf(t, pass, 0, 0)
	ev := NewEvent()
	if m.HandleCopy(Selection{Anchor: Point{Node: line}, Focus: Point{Node: line, Offset: 3}}, ev) {
		t.Fatal("HandleCopy intercepted with markdown copy disabled")
	}
	if len(ev.Formats()) != 0 || ev.DefaultPrevented() {
		t.Error("event must be untouched")
	}
}

func TestHandleCopy_NoInterception(t *testing.T) {
	prefs, pass := setup(t)
	m := NewMapper(prefs, pass)
	line := lineOf(t, pass, 0, 0)

	tests := []struct {
		name string
		sel  Selection
	}{
		{"collapsed", Selection{Anchor: Point{Node: line, Offset: 2}, Focus: Point{Node: line, Offset: 2}}},
		{"zero value", Selection{}},
		{"container", Selection{Anchor: Point{Node: render.Container}, Focus: Point{Node: line, Offset: 1}}},
		{"unknown node", Selection{Anchor: Point{Node: 9999}, Focus: Point{Node: line, Offset: 1}}},
		{"negative node", Selection{Anchor: Point{Node: -1}, Focus: Point{Node: line, Offset: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvent()
			if m.HandleCopy(tt.sel, ev) {
				t.Error("HandleCopy returned true")
			}
			if ev.DefaultPrevented() {
				t.Error("default prevented")
			}
		})
	}
}

func TestHandleCopy_BlockNodeEndpoints(t *testing.T) {
	prefs, pass := setup(t)
	sel, ok := BlockSelection(pass, 2, 0)
	if !ok {
		t.Fatal("BlockSelection failed")
	}
	ev := NewEvent()
	if !NewMapper(prefs, pass).HandleCopy(sel, ev) {
		t.Fatal("HandleCopy returned false")
	}
	want := "# Title\n\nSome **bold** text.\n\n- one\n- two"
	if got, _ := ev.Data(FormatPlainText); got != want {
		t.Errorf("copied = %q, want %q", got, want)
	}
}

func TestDefaultText(t *testing.T) {
	_, pass := setup(t)

	line := lineOf(t, pass, 1, 0)
	sel := Selection{Anchor: Point{Node: line, Offset: 5}, Focus: Point{Node: line, Offset: 9}}
	if got := DefaultText(pass, sel); got != "bold" {
		t.Errorf("DefaultText = %q, want %q", got, "bold")
	}

	all, _ := BlockSelection(pass, 0, 1)
	if got := DefaultText(pass, all); got != "Title\n\nSome bold text." {
		t.Errorf("DefaultText(blocks 0-1) = %q", got)
	}

	if got := DefaultText(pass, Selection{}); got != "" {
		t.Errorf("DefaultText(empty) = %q", got)
	}
}

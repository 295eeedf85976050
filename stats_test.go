package docmark

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello world", 2},
		{"  spaced   out\n\nwords ", 3},
		{"中文测试", 4},
		{"mixed 中文 text", 4},
	}
	for _, tt := range tests {
		if got := CountWords(tt.text); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestDocumentStats(t *testing.T) {
	doc := &Document{
		Markdown:  "# 标题\n\nsome text 📌",
		Images:    []Image{{ID: "a"}},
		PageCount: 3,
	}
	s := DocumentStats(doc)
	if s.Blocks != 2 || s.Images != 1 || s.Pages != 3 {
		t.Errorf("stats = %+v", s)
	}
	// "# 标题\n\nsome text " = 16 units, 📌 = 2
	if s.Characters != 18 {
		t.Errorf("characters = %d, want 18", s.Characters)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		md   string
		n    int
		want string
	}{
		{"# Title\n\nbody", 20, "Title"},
		{"\n\n---\n\n# Page 0\n\ntext", 20, "Page 0"},
		{"abcdefgh", 3, "abc…"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := Preview(tt.md, tt.n); got != tt.want {
			t.Errorf("Preview(%q) = %q, want %q", tt.md, got, tt.want)
		}
	}
}

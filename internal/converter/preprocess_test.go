package converter

import "testing"

func TestNormalizeMath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"display", `before \[x^2\] after`, `before $$x^2$$ after`},
		{"display multiline", "\\[\na + b\n\\]", "$$\na + b\n$$"},
		{"inline", `value \( x \) here`, `value $x$ here`},
		{"inline code untouched", "`\\(x\\)` and \\(y\\)", "`\\(x\\)` and $y$"},
		{"fenced code untouched", "```\n\\[x\\]\n```", "```\n\\[x\\]\n```"},
		{"empty delimiters kept", `\[ \]`, `\[ \]`},
		{"no math", "plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMath(tt.input); got != tt.want {
				t.Errorf("NormalizeMath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package mathtext

import "testing"

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"greek", `\alpha + \beta`, "α + β"},
		{"superscript", `E = mc^2`, "E = mc²"},
		{"subscript group", `x_{i}`, "xᵢ"},
		{"unmappable superscript", `e^{\pi q}`, "e^(π q)"},
		{"common fraction", `\frac{1}{2}`, "½"},
		{"general fraction", `\frac{a+b}{c}`, "(a+b)/c"},
		{"square root", `\sqrt{x}`, "√x"},
		{"cube root", `\sqrt[3]{8}`, "∛8"},
		{"blackboard", `\mathbb{R}`, "ℝ"},
		{"bold", `\mathbf{A}`, "𝐀"},
		{"italic h hole", `\mathit{h}`, "ℎ"},
		{"text passthrough", `\text{if } x > 0`, "if  x > 0"},
		{"negation", `a \not= b`, "a ≠ b"},
		{"sum limits", `\sum_{i=1}^{n} i`, "∑ᵢ₌₁ⁿ i"},
		{"left right", `\left( x \right.`, "( x"},
		{"unknown command kept", `\foo`, `\foo`},
		{"pmatrix", `\begin{pmatrix} a & b \\ c & d \end{pmatrix}`, "(a  b; c  d)"},
		{"cases", `\begin{cases} 1 & x > 0 \\ 0 & \text{otherwise} \end{cases}`, "{ 1, x > 0; 0, otherwise"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Convert(tt.input); got != tt.want {
				t.Errorf("Convert(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConvert_Unbalanced(t *testing.T) {
	// 缺少右括号不应 panic
	for _, input := range []string{`\frac{1`, `x^{`, `\sqrt[3`, `\begin{matrix} a`, `\`} {
		_ = Convert(input)
	}
}

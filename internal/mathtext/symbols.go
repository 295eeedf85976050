package mathtext

// symbols 无参数命令到 Unicode 的映射
var symbols = map[string]string{
	// 希腊字母
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ", `\epsilon`: "ϵ",
	`\varepsilon`: "ε", `\zeta`: "ζ", `\eta`: "η", `\theta`: "θ", `\vartheta`: "ϑ",
	`\iota`: "ι", `\kappa`: "κ", `\lambda`: "λ", `\mu`: "μ", `\nu`: "ν",
	`\xi`: "ξ", `\pi`: "π", `\varpi`: "ϖ", `\rho`: "ρ", `\varrho`: "ϱ",
	`\sigma`: "σ", `\varsigma`: "ς", `\tau`: "τ", `\upsilon`: "υ", `\phi`: "ϕ",
	`\varphi`: "φ", `\chi`: "χ", `\psi`: "ψ", `\omega`: "ω",
	`\Gamma`: "Γ", `\Delta`: "Δ", `\Theta`: "Θ", `\Lambda`: "Λ", `\Xi`: "Ξ",
	`\Pi`: "Π", `\Sigma`: "Σ", `\Upsilon`: "Υ", `\Phi`: "Φ", `\Psi`: "Ψ",
	`\Omega`: "Ω",

	// 运算符
	`\times`: "×", `\div`: "÷", `\pm`: "±", `\mp`: "∓", `\cdot`: "⋅",
	`\ast`: "∗", `\star`: "⋆", `\circ`: "∘", `\bullet`: "∙", `\oplus`: "⊕",
	`\otimes`: "⊗", `\cap`: "∩", `\cup`: "∪", `\wedge`: "∧", `\vee`: "∨",
	`\land`: "∧", `\lor`: "∨", `\lnot`: "¬", `\neg`: "¬", `\setminus`: "∖",
	`\sum`: "∑", `\prod`: "∏", `\coprod`: "∐", `\int`: "∫", `\iint`: "∬",
	`\iiint`: "∭", `\oint`: "∮", `\partial`: "∂", `\nabla`: "∇", `\infty`: "∞",
	`\bigcup`: "⋃", `\bigcap`: "⋂", `\bigoplus`: "⨁", `\bigotimes`: "⨂",

	// 关系
	`\leq`: "≤", `\le`: "≤", `\geq`: "≥", `\ge`: "≥", `\neq`: "≠", `\ne`: "≠",
	`\approx`: "≈", `\equiv`: "≡", `\sim`: "∼", `\simeq`: "≃", `\cong`: "≅",
	`\propto`: "∝", `\ll`: "≪", `\gg`: "≫", `\in`: "∈", `\notin`: "∉",
	`\ni`: "∋", `\subset`: "⊂", `\supset`: "⊃", `\subseteq`: "⊆", `\supseteq`: "⊇",
	`\perp`: "⊥", `\parallel`: "∥", `\mid`: "∣", `\models`: "⊨", `\vdash`: "⊢",

	// 箭头
	`\to`: "→", `\rightarrow`: "→", `\leftarrow`: "←", `\gets`: "←",
	`\leftrightarrow`: "↔", `\Rightarrow`: "⇒", `\Leftarrow`: "⇐",
	`\Leftrightarrow`: "⇔", `\implies`: "⟹", `\iff`: "⟺", `\mapsto`: "↦",
	`\uparrow`: "↑", `\downarrow`: "↓", `\longrightarrow`: "⟶", `\longleftarrow`: "⟵",

	// 逻辑与集合
	`\forall`: "∀", `\exists`: "∃", `\nexists`: "∄", `\emptyset`: "∅",
	`\varnothing`: "∅", `\therefore`: "∴", `\because`: "∵",

	// 杂项
	`\ldots`: "…", `\dots`: "…", `\cdots`: "⋯", `\vdots`: "⋮", `\ddots`: "⋱",
	`\prime`: "′", `\degree`: "°", `\angle`: "∠", `\triangle`: "△",
	`\hbar`: "ℏ", `\ell`: "ℓ", `\Re`: "ℜ", `\Im`: "ℑ", `\aleph`: "ℵ",
	`\langle`: "⟨", `\rangle`: "⟩", `\lceil`: "⌈", `\rceil`: "⌉",
	`\lfloor`: "⌊", `\rfloor`: "⌋", `\|`: "‖", `\{`: "{", `\}`: "}",
	`\%`: "%", `\$`: "$", `\&`: "&", `\#`: "#", `\_`: "_",
	`\quad`: "  ", `\qquad`: "    ", `\,`: " ", `\;`: " ", `\:`: " ", `\!`: "",
	`\ `: " ", `\\`: "\n",

	// 函数名
	`\sin`: "sin", `\cos`: "cos", `\tan`: "tan", `\cot`: "cot", `\sec`: "sec",
	`\csc`: "csc", `\log`: "log", `\ln`: "ln", `\exp`: "exp", `\lim`: "lim",
	`\max`: "max", `\min`: "min", `\sup`: "sup", `\inf`: "inf", `\det`: "det",
	`\arcsin`: "arcsin", `\arccos`: "arccos", `\arctan`: "arctan",
	`\sinh`: "sinh", `\cosh`: "cosh", `\tanh`: "tanh", `\gcd`: "gcd",
	`\deg`: "deg", `\dim`: "dim", `\ker`: "ker", `\Pr`: "Pr", `\arg`: "arg",

	// 只影响排版的命令
	`\displaystyle`: "", `\textstyle`: "", `\limits`: "", `\nolimits`: "",
	`\big`: "", `\Big`: "", `\bigg`: "", `\Bigg`: "",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶',
	'7': '⁷', '8': '⁸', '9': '⁹', '+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽',
	')': '⁾', 'a': 'ᵃ', 'b': 'ᵇ', 'c': 'ᶜ', 'd': 'ᵈ', 'e': 'ᵉ', 'f': 'ᶠ',
	'g': 'ᵍ', 'h': 'ʰ', 'i': 'ⁱ', 'j': 'ʲ', 'k': 'ᵏ', 'l': 'ˡ', 'm': 'ᵐ',
	'n': 'ⁿ', 'o': 'ᵒ', 'p': 'ᵖ', 'r': 'ʳ', 's': 'ˢ', 't': 'ᵗ', 'u': 'ᵘ',
	'v': 'ᵛ', 'w': 'ʷ', 'x': 'ˣ', 'y': 'ʸ', 'z': 'ᶻ', 'T': 'ᵀ', '′': '′',
	'∗': '*', '*': '*',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆',
	'7': '₇', '8': '₈', '9': '₉', '+': '₊', '-': '₋', '=': '₌', '(': '₍',
	')': '₎', 'a': 'ₐ', 'e': 'ₑ', 'h': 'ₕ', 'i': 'ᵢ', 'j': 'ⱼ', 'k': 'ₖ',
	'l': 'ₗ', 'm': 'ₘ', 'n': 'ₙ', 'o': 'ₒ', 'p': 'ₚ', 'r': 'ᵣ', 's': 'ₛ',
	't': 'ₜ', 'u': 'ᵤ', 'v': 'ᵥ', 'x': 'ₓ',
}

// fractions 常见分数的单字符形式
var fractions = map[[2]string]string{
	{"1", "2"}: "½", {"1", "3"}: "⅓", {"2", "3"}: "⅔", {"1", "4"}: "¼",
	{"3", "4"}: "¾", {"1", "5"}: "⅕", {"1", "6"}: "⅙", {"1", "8"}: "⅛",
}

// accents 重音命令对应的组合字符
var accents = map[string]rune{
	`\hat`: '\u0302', `\widehat`: '\u0302', `\bar`: '\u0304', `\overline`: '\u0305',
	`\tilde`: '\u0303', `\widetilde`: '\u0303', `\vec`: '\u20D7', `\dot`: '\u0307',
	`\ddot`: '\u0308', `\underline`: '\u0332', `\check`: '\u030C', `\breve`: '\u0306',
}

// negations \not 后常见关系的预组合形式
var negations = map[string]string{
	"=": "≠", "<": "≮", ">": "≯", "∈": "∉", "≡": "≢", "∼": "≁", "⊂": "⊄",
	"⊃": "⊅", "⊆": "⊈", "⊇": "⊉", "≤": "≰", "≥": "≱", "∃": "∄",
}

// styles 字体命令，按基准码点平移
var styles = map[string]struct{ upper, lower, digit rune }{
	`\mathbf`:   {0x1D400, 0x1D41A, 0x1D7CE},
	`\mathit`:   {0x1D434, 0x1D44E, 0},
	`\mathsf`:   {0x1D5A0, 0x1D5BA, 0x1D7E2},
	`\mathtt`:   {0x1D670, 0x1D68A, 0x1D7F6},
	`\mathcal`:  {0x1D49C, 0x1D4B6, 0},
	`\mathfrak`: {0x1D504, 0x1D51E, 0},
}

// holes 字母表平移后落在保留码点上的字符
var holes = map[rune]rune{
	0x1D455: 'ℎ', 0x1D49D: 'ℬ', 0x1D4A0: 'ℰ', 0x1D4A1: 'ℱ', 0x1D4A3: 'ℋ',
	0x1D4A4: 'ℐ', 0x1D4A7: 'ℒ', 0x1D4A8: 'ℳ', 0x1D4AD: 'ℛ', 0x1D4BA: 'ℯ',
	0x1D4BC: 'ℊ', 0x1D4C4: 'ℴ', 0x1D506: 'ℭ', 0x1D50B: 'ℌ', 0x1D50C: 'ℑ',
	0x1D515: 'ℜ', 0x1D51D: 'ℨ',
}

// blackboard \mathbb 的常用字母，Unicode 中有若干例外码点
var blackboard = map[rune]rune{
	'C': 'ℂ', 'H': 'ℍ', 'N': 'ℕ', 'P': 'ℙ', 'Q': 'ℚ', 'R': 'ℝ', 'Z': 'ℤ',
	'A': '𝔸', 'B': '𝔹', 'D': '𝔻', 'E': '𝔼', 'F': '𝔽', 'G': '𝔾', 'I': '𝕀',
	'J': '𝕁', 'K': '𝕂', 'L': '𝕃', 'M': '𝕄', 'O': '𝕆', 'S': '𝕊', 'T': '𝕋',
	'U': '𝕌', 'V': '𝕍', 'W': '𝕎', 'X': '𝕏', 'Y': '𝕐',
	'0': '𝟘', '1': '𝟙', '2': '𝟚', '3': '𝟛', '4': '𝟜', '5': '𝟝', '6': '𝟞',
	'7': '𝟟', '8': '𝟠', '9': '𝟡',
}

// passthrough 参数原样输出的命令
var passthrough = map[string]bool{
	`\text`: true, `\textrm`: true, `\textbf`: true, `\textit`: true,
	`\mathrm`: true, `\operatorname`: true, `\mbox`: true, `\mathop`: true,
}

// matrices 矩阵环境的左右定界符
var matrices = map[string][2]string{
	"matrix": {"", ""}, "pmatrix": {"(", ")"}, "bmatrix": {"[", "]"},
	"Bmatrix": {"{", "}"}, "vmatrix": {"|", "|"}, "Vmatrix": {"‖", "‖"},
	"array": {"", ""},
}

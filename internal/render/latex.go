package render

import (
	"strings"
)

// Segment is a run of markup, either plain text or inline math.
type Segment struct {
	Text string
	Math bool
}

var inlineDelims = [][2]string{{`\(`, `\)`}, {"$", "$"}}

// Split breaks markup into plain and math segments using the $...$ and
// \(...\) inline delimiters. An unterminated delimiter is kept as text.
func Split(markup string) []Segment {
	var out []Segment
	rest := markup
	for rest != "" {
		open, delim := nextDelim(rest)
		if open < 0 {
			out = append(out, Segment{Text: rest})
			break
		}
		start := open + len(delim[0])
		end := strings.Index(rest[start:], delim[1])
		if end < 0 {
			out = append(out, Segment{Text: rest})
			break
		}
		if open > 0 {
			out = append(out, Segment{Text: rest[:open]})
		}
		out = append(out, Segment{Text: rest[start : start+end], Math: true})
		rest = rest[start+end+len(delim[1]):]
	}
	return out
}

func nextDelim(s string) (int, [2]string) {
	best := -1
	var which [2]string
	for _, d := range inlineDelims {
		i := strings.Index(s, d[0])
		if i >= 0 && (best < 0 || i < best) {
			best, which = i, d
		}
	}
	return best, which
}

var symbols = strings.NewReplacer(
	`\times`, "×",
	`\cdot`, "·",
	`\div`, "÷",
	`\pm`, "±",
	`\pi`, "π",
	`\theta`, "θ",
	`\infty`, "∞",
	`\leq`, "≤",
	`\geq`, "≥",
	`\neq`, "≠",
	`\approx`, "≈",
	`\left`, "",
	`\right`, "",
	`\,`, " ",
	`\ `, " ",
)

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', 'n': 'ⁿ', 'x': 'ˣ', '(': '⁽', ')': '⁾',
}

// Convert turns the supported LaTeX subset into plain Unicode text.
func Convert(math string) string {
	s := unwrap(math, `\LARGE`)
	s = unwrap(s, `\large`)
	s = unwrap(s, `\text`)
	s = replaceCommand(s, `\sqrt`, 1, func(args []string) string { return "√(" + args[0] + ")" })
	s = replaceCommand(s, `\frac`, 2, func(args []string) string { return "(" + args[0] + ")/(" + args[1] + ")" })
	s = symbols.Replace(s)
	s = superscript(s)
	return strings.TrimSpace(s)
}

func unwrap(s, cmd string) string {
	return replaceCommand(s, cmd, 1, func(args []string) string { return args[0] })
}

// replaceCommand rewrites every cmd{a}{b}... with n brace groups.
func replaceCommand(s, cmd string, n int, fn func([]string) string) string {
	for {
		i := strings.Index(s, cmd+"{")
		if i < 0 {
			return s
		}
		pos := i + len(cmd)
		args := make([]string, 0, n)
		for len(args) < n {
			arg, next, ok := braceGroup(s, pos)
			if !ok {
				return s
			}
			args = append(args, arg)
			pos = next
		}
		s = s[:i] + fn(args) + s[pos:]
	}
}

// braceGroup reads {...} at s[pos], honoring nesting.
func braceGroup(s string, pos int) (string, int, bool) {
	if pos >= len(s) || s[pos] != '{' {
		return "", pos, false
	}
	depth := 0
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[pos+1 : i], i + 1, true
			}
		}
	}
	return "", pos, false
}

func superscript(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '^' {
			b.WriteByte(s[i])
			continue
		}
		var exp string
		if arg, next, ok := braceGroup(s, i+1); ok {
			exp, i = arg, next-1
		} else if i+1 < len(s) {
			exp, i = s[i+1:i+2], i+1
		}
		b.WriteString(toSuperscript(exp))
	}
	return b.String()
}

func toSuperscript(exp string) string {
	var b strings.Builder
	for _, r := range exp {
		sup, ok := superscripts[r]
		if !ok {
			return "^(" + exp + ")"
		}
		b.WriteRune(sup)
	}
	return b.String()
}

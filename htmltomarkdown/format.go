package htmltomarkdown

import (
	"regexp"
	"strings"
)

var blockPrefixRe = regexp.MustCompile(`^\s*([#>|*+-]|\d+[.)]\s)`)

// escapeTags rewrites "<" that would open an HTML tag as "&lt;". Fenced
// blocks and inline code spans are left alone.
func escapeTags(md string) string {
	lines := strings.Split(md, "\n")
	fenced := false
	for i, line := range lines {
		if isFence(line) {
			fenced = !fenced
			continue
		}
		if fenced {
			continue
		}
		lines[i] = escapeLine(line)
	}
	return strings.Join(lines, "\n")
}

func escapeLine(line string) string {
	if !strings.Contains(line, "<") {
		return line
	}

	var b strings.Builder
	inCode := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '`':
			inCode = !inCode
		case ch == '<' && !inCode && opensTag(line, i):
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func opensTag(line string, i int) bool {
	if i > 0 && line[i-1] == '\\' {
		return false
	}
	if i+1 >= len(line) {
		return false
	}
	next := line[i+1]
	return next == '/' || next == '!' || next == '?' ||
		(next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z')
}

// wrap breaks paragraph lines longer than width at word boundaries.
// Headings, lists, quotes, tables, indented code and fenced blocks are
// kept as they are.
func wrap(md string, width int) string {
	var out []string
	fenced := false
	for _, line := range strings.Split(md, "\n") {
		if isFence(line) {
			fenced = !fenced
			out = append(out, line)
			continue
		}
		if fenced || len(line) <= width || strings.HasPrefix(line, "    ") || blockPrefixRe.MatchString(line) {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, w := range strings.Fields(line) {
		if cur.Len() > 0 && cur.Len()+1+len(w) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func isFence(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~")
}

package services

import (
	"fmt"
	"strings"
)

// renderPrompt fills {name} slots in a template in a single pass.
// Literal braces are written {{ and }}. Substituted values are never
// rescanned, so a document containing braces cannot inject slots.
// Every slot named in vars must appear at least once.
func renderPrompt(tmpl string, vars map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))
	seen := make(map[string]bool, len(vars))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated slot at offset %d", i)
			}
			name := tmpl[i+1 : i+1+end]
			val, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("unknown slot {%s}", name)
			}
			b.WriteString(val)
			seen[name] = true
			i += end + 1
		case c == '}':
			return "", fmt.Errorf("unescaped '}' at offset %d", i)
		default:
			b.WriteByte(c)
		}
	}

	for name := range vars {
		if !seen[name] {
			return "", fmt.Errorf("template has no {%s} slot", name)
		}
	}
	return b.String(), nil
}

package clauseparser

import (
	"regexp"
	"strings"
)

var thinkBlock = regexp.MustCompile(`(?is)<think>.*?</think>`)

// stripThinking removes <think>...</think> blocks.
// An unterminated block swallows the rest of the output.
func stripThinking(s string) string {
	s = thinkBlock.ReplaceAllString(s, "")
	if i := strings.Index(strings.ToLower(s), "<think>"); i >= 0 {
		s = s[:i]
	}
	return s
}

// stripFences removes the outermost markdown code fence pair if present.
func stripFences(s string) string {
	lines := strings.Split(s, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			start = i
			break
		}
	}
	if start < 0 {
		return s
	}

	end := len(lines)
	for i := len(lines) - 1; i > start; i-- {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
			end = i
			break
		}
	}

	return strings.Join(lines[start+1:end], "\n")
}

func clean(raw string) string {
	return strings.TrimSpace(stripFences(stripThinking(raw)))
}

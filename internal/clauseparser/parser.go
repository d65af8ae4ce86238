package clauseparser

import (
	"encoding/json"
	"strings"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

// Parser recovers clauses from model output.
type Parser struct {
	// DefaultContact fills clauses without a contact.
	DefaultContact string
}

// New creates a Parser. An empty contact selects domain.DefaultContact.
func New(defaultContact string) *Parser {
	if defaultContact == "" {
		defaultContact = domain.DefaultContact
	}
	return &Parser{DefaultContact: defaultContact}
}

// Parse extracts clauses from raw. It never panics.
func (p *Parser) Parse(raw string) (result domain.ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("clause parser recovered from panic: %v", r)
			result = domain.EmptyParse()
		}
	}()

	text := clean(raw)
	if text == "" {
		return domain.EmptyParse()
	}

	if objs, rejected, ok := parseStrict(text); ok {
		return p.finish(domain.StrategyStrict, objs, rejected)
	}
	if objs, rejected, ok := parseBracket(text); ok {
		return p.finish(domain.StrategyBracket, objs, rejected)
	}
	if objs := parseFields(text); len(objs) > 0 {
		return p.finish(domain.StrategyLines, objs, 0)
	}

	logger.Debug("clause parser: no strategy matched %d bytes", len(raw))
	return domain.EmptyParse()
}

func (p *Parser) finish(strategy domain.ParseStrategy, objs []map[string]any, rejected int) domain.ParseResult {
	clauses, dropped := normalise(objs, p.contact())
	skipped := dropped + rejected

	result := domain.ParseResult{
		Strategy: strategy,
		Clauses:  clauses,
		Skipped:  skipped,
	}
	switch {
	case len(clauses) == 0:
		result.Outcome = domain.ParseEmpty
	case skipped > 0:
		result.Outcome = domain.ParsePartial
	default:
		result.Outcome = domain.ParseSuccess
	}

	logger.Debug("clause parser: strategy=%s outcome=%s clauses=%d skipped=%d",
		strategy, result.Outcome, len(clauses), skipped)
	return result
}

func (p *Parser) contact() string {
	if p == nil || p.DefaultContact == "" {
		return domain.DefaultContact
	}
	return p.DefaultContact
}

// parseStrict decodes the whole text. rejected counts array elements that
// are not objects.
func parseStrict(text string) ([]map[string]any, int, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, 0, false
	}

	switch val := v.(type) {
	case []any:
		objs, rejected := objects(val)
		return objs, rejected, true
	case map[string]any:
		if inner, ok := lookup(val, "clauses").([]any); ok {
			objs, rejected := objects(inner)
			return objs, rejected, true
		}
		return []map[string]any{val}, 0, true
	default:
		return nil, 0, false
	}
}

// parseBracket tries each '[' in turn and decodes the first balanced
// array that contains at least one object.
func parseBracket(text string) ([]map[string]any, int, bool) {
	for start := strings.IndexByte(text, '['); start >= 0; {
		if end := matchBracket(text, start); end > start {
			var arr []any
			if err := json.Unmarshal([]byte(text[start:end+1]), &arr); err == nil {
				objs, rejected := objects(arr)
				if len(objs) > 0 {
					return objs, rejected, true
				}
			}
		}

		next := strings.IndexByte(text[start+1:], '[')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, 0, false
}

// matchBracket returns the index of the ']' closing the '[' at start, or -1.
// Brackets inside JSON strings are ignored.
func matchBracket(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func objects(arr []any) ([]map[string]any, int) {
	objs := make([]map[string]any, 0, len(arr))
	rejected := 0
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			objs = append(objs, m)
		} else {
			rejected++
		}
	}
	return objs, rejected
}

// lookup finds a key case-insensitively.
func lookup(m map[string]any, key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return v
		}
	}
	return nil
}

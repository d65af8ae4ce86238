package clauseparser

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// quotedField matches "key": value fragments, including inside truncated JSON.
	quotedField = regexp.MustCompile(`(?i)"(title|summary|keywords|contact|id)"\s*:\s*("(?:[^"\\]|\\.)*"|\[[^\]]*\]|-?\d+)`)

	// lineField matches marker lines such as "- Title: Sick leave" or "summary = ...".
	lineField = regexp.MustCompile(`(?i)^[\s\-*•>#\d.)]*"?(title|summary|keywords|contact|id)"?\s*[:=]\s*(.*?)\s*,?\s*$`)
)

type field struct {
	key   string
	value any
}

// parseFields groups key/value fragments into objects. A repeated key
// starts a new object.
func parseFields(text string) []map[string]any {
	fields := quotedFields(text)
	if len(fields) == 0 {
		fields = lineFields(text)
	}

	var objs []map[string]any
	var cur map[string]any
	for _, f := range fields {
		if cur == nil || cur[f.key] != nil {
			cur = make(map[string]any, 5)
			objs = append(objs, cur)
		}
		cur[f.key] = f.value
	}
	return objs
}

func quotedFields(text string) []field {
	matches := quotedField.FindAllStringSubmatch(text, -1)
	fields := make([]field, 0, len(matches))
	for _, m := range matches {
		var v any
		if err := json.Unmarshal([]byte(m[2]), &v); err != nil {
			v = strings.Trim(m[2], `"`)
		}
		fields = append(fields, field{key: strings.ToLower(m[1]), value: v})
	}
	return fields
}

func lineFields(text string) []field {
	var fields []field
	for _, line := range strings.Split(text, "\n") {
		m := lineField.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		raw := strings.TrimSpace(m[2])
		fields = append(fields, field{key: key, value: lineValue(key, raw)})
	}
	return fields
}

func lineValue(key, raw string) any {
	if key == "keywords" && strings.HasPrefix(raw, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return arr
		}
		return strings.Trim(raw, "[]")
	}
	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s
		}
	}
	return strings.Trim(raw, `"'`)
}

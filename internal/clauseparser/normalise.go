package clauseparser

import (
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

// titleWords bounds a title derived from a summary.
const titleWords = 6

// normalise converts decoded objects into clauses and returns how many
// were dropped for lacking both a title and a summary.
func normalise(objs []map[string]any, contact string) ([]domain.Clause, int) {
	clauses := make([]domain.Clause, 0, len(objs))
	ids := make([]int, 0, len(objs))
	dropped := 0

	for _, obj := range objs {
		title := stringField(lookup(obj, "title"))
		summary := stringField(lookup(obj, "summary"))
		if title == "" && summary == "" {
			dropped++
			continue
		}
		if title == "" {
			title = deriveTitle(summary)
		}
		if summary == "" {
			summary = title
		}

		c := domain.Clause{
			Title:    title,
			Summary:  summary,
			Keywords: keywordsField(lookup(obj, "keywords")),
			Contact:  stringField(lookup(obj, "contact")),
		}
		if c.Contact == "" {
			c.Contact = contact
		}
		clauses = append(clauses, c)
		ids = append(ids, idField(lookup(obj, "id")))
	}

	assignIDs(clauses, ids)
	return clauses, dropped
}

// assignIDs keeps the first occurrence of each positive id and gives every
// other clause the next unused integer starting at 1.
func assignIDs(clauses []domain.Clause, ids []int) {
	used := make(map[int]bool, len(ids))
	keep := make([]bool, len(ids))
	for i, id := range ids {
		if id > 0 && !used[id] {
			used[id] = true
			keep[i] = true
		}
	}

	next := 1
	for i := range clauses {
		if keep[i] {
			clauses[i].ID = ids[i]
			continue
		}
		for used[next] {
			next++
		}
		clauses[i].ID = next
		used[next] = true
	}
}

func deriveTitle(summary string) string {
	words := strings.Fields(summary)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.TrimRight(strings.Join(words, " "), ".,;:!?")
}

func stringField(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// keywordsField accepts a JSON array or a comma-separated string.
// The result is never nil.
func keywordsField(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := stringField(item); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(strings.Trim(strings.TrimSpace(part), `"'`)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// idField returns a positive integral id or 0.
func idField(v any) int {
	switch val := v.(type) {
	case float64:
		if val >= 1 && val <= math.MaxInt32 && val == math.Trunc(val) {
			return int(val)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

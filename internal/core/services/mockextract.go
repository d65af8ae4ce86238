package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

// maxMockClauses bounds deterministic extraction output.
const maxMockClauses = 3

// maxSummaryLen bounds a summary taken from the source document.
const maxSummaryLen = 240

type mockRule struct {
	pattern  *regexp.Regexp
	title    string
	summary  string
	keywords []string
}

// mockRules are checked in order; the first maxMockClauses matches win.
var mockRules = []mockRule{
	{
		pattern:  regexp.MustCompile(`(?i)\b(sick|illness|medical leave)\b`),
		title:    "Sick Leave",
		summary:  "Employees are entitled to paid sick leave when they are unwell.",
		keywords: []string{"sick leave", "illness", "medical"},
	},
	{
		pattern:  regexp.MustCompile(`(?i)\b(parental|maternity|paternity)\b`),
		title:    "Parental Leave",
		summary:  "Employees may take parental leave following the birth or adoption of a child.",
		keywords: []string{"parental leave", "maternity", "paternity"},
	},
	{
		pattern:  regexp.MustCompile(`(?i)\b(annual leave|vacation|pto|paid time off|holiday entitlement)\b`),
		title:    "Annual Leave",
		summary:  "Employees accrue paid annual leave each year.",
		keywords: []string{"annual leave", "vacation", "pto"},
	},
	{
		pattern:  regexp.MustCompile(`(?i)\b(remote work|remotely|work from home|working from home|telework)\b`),
		title:    "Remote Work",
		summary:  "Employees may work remotely subject to manager approval.",
		keywords: []string{"remote work", "work from home"},
	},
	{
		pattern:  regexp.MustCompile(`(?i)\b(harass\w*|bullying|discriminat\w*)\b`),
		title:    "Anti-Harassment",
		summary:  "Harassment of any kind is prohibited and must be reported to HR.",
		keywords: []string{"harassment", "conduct", "reporting"},
	},
	{
		pattern:  regexp.MustCompile(`(?i)\b(expenses?|reimburs\w*)\b`),
		title:    "Expense Reimbursement",
		summary:  "Business expenses are reimbursed when submitted with receipts.",
		keywords: []string{"expenses", "reimbursement", "receipts"},
	},
	{
		pattern:  regexp.MustCompile(`(?i)\bovertime\b`),
		title:    "Overtime",
		summary:  "Approved overtime is compensated according to policy.",
		keywords: []string{"overtime", "hours", "compensation"},
	},
	{
		pattern:  regexp.MustCompile(`(?i)\b(probation\w*)\b`),
		title:    "Probation Period",
		summary:  "New employees complete a probation period before confirmation.",
		keywords: []string{"probation", "new hire"},
	},
}

var sentenceRE = regexp.MustCompile(`[^.!?\n]+[.!?]?`)

// mockExtract produces clauses from a fixed rule table. It is a pure
// function of text and contact.
func mockExtract(text, contact string) []domain.Clause {
	sentences := splitSentences(text)
	clauses := make([]domain.Clause, 0, maxMockClauses)

	for _, rule := range mockRules {
		if len(clauses) == maxMockClauses {
			break
		}
		if !rule.pattern.MatchString(text) {
			continue
		}

		summary := rule.summary
		for _, s := range sentences {
			if rule.pattern.MatchString(s) {
				summary = truncate(s, maxSummaryLen)
				break
			}
		}

		clauses = append(clauses, domain.Clause{
			ID:       len(clauses) + 1,
			Title:    rule.title,
			Summary:  summary,
			Keywords: append([]string{}, rule.keywords...),
			Contact:  contact,
		})
	}

	if len(clauses) == 0 {
		summary := "General HR policy guidance."
		if len(sentences) > 0 {
			summary = truncate(sentences[0], maxSummaryLen)
		}
		clauses = append(clauses, domain.Clause{
			ID:       1,
			Title:    "General HR Policy",
			Summary:  summary,
			Keywords: []string{"policy", "general"},
			Contact:  contact,
		})
	}

	return clauses
}

func splitSentences(text string) []string {
	var out []string
	for _, m := range sentenceRE.FindAllString(text, -1) {
		if s := strings.TrimSpace(m); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

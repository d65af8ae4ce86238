package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClause_Text(t *testing.T) {
	tests := []struct {
		name   string
		clause Clause
		want   string
	}{
		{
			name:   "title summary keywords",
			clause: Clause{Title: "Sick Leave", Summary: "Employees accrue sick days.", Keywords: []string{"sick leave", "absence"}},
			want:   "Sick Leave: Employees accrue sick days. (sick leave, absence)",
		},
		{
			name:   "no keywords",
			clause: Clause{Title: "Remote Work", Summary: "Work from home twice a week."},
			want:   "Remote Work: Work from home twice a week.",
		},
		{
			name:   "title only",
			clause: Clause{Title: "Overtime"},
			want:   "Overtime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.clause.Text())
		})
	}
}

func TestClause_IsIndexable(t *testing.T) {
	assert.True(t, Clause{Title: "A", Summary: "B"}.IsIndexable())
	assert.False(t, Clause{Title: "A"}.IsIndexable())
	assert.False(t, Clause{Summary: "B"}.IsIndexable())
	assert.False(t, Clause{Title: "  ", Summary: "B"}.IsIndexable())
}

func TestClause_CloneDoesNotAlias(t *testing.T) {
	original := Clause{Title: "A", Summary: "B", Keywords: []string{"x"}}

	clone := original.Clone()
	clone.Keywords[0] = "changed"

	assert.Equal(t, "x", original.Keywords[0])
}

func TestMergeBatches(t *testing.T) {
	batches := []ClauseBatch{
		{ID: "a", Clauses: []Clause{{ID: 1, Title: "Sick Leave"}}},
		{ID: "b", Clauses: []Clause{}},
		{ID: "c", Clauses: []Clause{{ID: 1, Title: "Parental Leave"}, {ID: 2, Title: "Overtime"}}},
	}

	got := MergeBatches(batches)

	titles := make([]string, len(got))
	for i, c := range got {
		titles[i] = c.Title
	}
	assert.Equal(t, []string{"Sick Leave", "Parental Leave", "Overtime"}, titles)
	assert.NotNil(t, MergeBatches(nil))
	assert.Empty(t, MergeBatches(nil))
}

func TestParseOutcome_String(t *testing.T) {
	assert.Equal(t, "success", ParseSuccess.String())
	assert.Equal(t, "partial", ParsePartial.String())
	assert.Equal(t, "empty", ParseEmpty.String())
	assert.Equal(t, "Unknown", ParseOutcome(99).String())
}

func TestEmptyParse(t *testing.T) {
	r := EmptyParse()

	assert.Equal(t, ParseEmpty, r.Outcome)
	assert.Equal(t, StrategyNone, r.Strategy)
	assert.NotNil(t, r.Clauses)
	assert.Empty(t, r.Clauses)
}

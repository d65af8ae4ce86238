package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

func TestNew(t *testing.T) {
	n := New()
	require.NotNil(t, n)
	assert.Equal(t, domain.FormatHTML, n.Format())
	assert.Contains(t, n.Extensions(), ".html")
	assert.Contains(t, n.Extensions(), ".htm")
}

func TestNormalise_Success(t *testing.T) {
	page := `<html><head><title>Leave Policy</title><style>p{color:red}</style></head>
<body><h1>Annual Leave</h1><p>Employees receive <b>25 days</b> per year.</p>
<script>track()</script><ul><li>Carry over 5 days</li><li>Ask your manager</li></ul></body></html>`

	doc, err := New().Normalise("leave.html", []byte(page))

	require.NoError(t, err)
	assert.Equal(t, "Leave Policy", doc.Title)
	assert.Equal(t, "Annual Leave\nEmployees receive 25 days per year.\nCarry over 5 days\nAsk your manager", doc.Text)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		file     string
		expected string
	}{
		{"title tag", "<title> Handbook </title>", "x.html", "Handbook"},
		{"entities", "<title>Pay &amp; Benefits</title>", "x.html", "Pay & Benefits"},
		{"h1 fallback", "<h1><span>Remote</span> Work</h1>", "x.html", "Remote Work"},
		{"empty title uses h1", "<title></title><h1>Expenses</h1>", "x.html", "Expenses"},
		{"file name", "<p>body</p>", "/intranet/sick_leave.html", "sick leave"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractTitle(tt.content, tt.file))
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "no tags", "no tags"},
		{"breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"comments", "a<!-- hidden -->b", "ab"},
		{"entities", "<p>&lt;confidential&gt;</p>", "<confidential>"},
		{"spaces", "<p>too    many   spaces</p>", "too many spaces"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripHTML(tt.input))
		})
	}
}

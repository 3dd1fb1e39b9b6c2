package processors

import (
	"strings"
	"testing"
)

func TestJDCleanerPlainTextPassthrough(t *testing.T) {
	cleaner := NewJDCleaner()

	input := "Senior Data Analyst\n\nWe are looking for someone with SQL and Tableau experience."
	got := cleaner.Clean(input)

	if got != input {
		t.Errorf("plain text should pass through unchanged, got %q", got)
	}
}

func TestJDCleanerStripsMarkup(t *testing.T) {
	cleaner := NewJDCleaner()

	input := `<html><head><title>Job</title><script>track();</script></head>
<body><h1>Data Analyst</h1><p>Experience with <b>SQL</b> required.</p>
<ul><li>Tableau</li><li>Python</li></ul>
<footer>Apply now | Cookie policy</footer></body></html>`

	got := cleaner.Clean(input)

	for _, want := range []string{"Data Analyst", "SQL", "Tableau", "Python"} {
		if !strings.Contains(got, want) {
			t.Errorf("cleaned text missing %q:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"<", "track()", "Cookie policy"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("cleaned text should not contain %q:\n%s", unwanted, got)
		}
	}
}

func TestJDCleanerStripsComments(t *testing.T) {
	cleaner := NewJDCleaner()

	got := cleaner.Clean("Requirements: Excel <!-- internal note --> and reporting")
	if strings.Contains(got, "internal note") {
		t.Errorf("comments should be removed, got %q", got)
	}
	if !strings.Contains(got, "Excel") || !strings.Contains(got, "reporting") {
		t.Errorf("surrounding text should survive, got %q", got)
	}
}

func TestJDCleanerCollapsesWhitespace(t *testing.T) {
	cleaner := NewJDCleaner()

	got := cleaner.Clean("SQL    experience\n\n\n\n\nrequired   ")
	if got != "SQL experience\n\nrequired" {
		t.Errorf("unexpected whitespace normalization: %q", got)
	}
}

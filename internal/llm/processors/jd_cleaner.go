package processors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// JDCleaner normalizes pasted job description text before it is sent to the AI
// provider. Pasted postings frequently carry HTML markup, boilerplate banners
// and runaway whitespace from the source site.
type JDCleaner struct {
	// Tags whose content never describes the job
	removeTags []string
}

// NewJDCleaner creates a new job description cleaner instance
func NewJDCleaner() *JDCleaner {
	return &JDCleaner{
		removeTags: []string{
			"script", "style", "noscript", "iframe", "object", "embed",
			"form", "input", "button", "select", "textarea",
			"nav", "header", "footer", "aside", "menu",
			"svg", "meta", "link", "title", "base",
		},
	}
}

var (
	htmlTagPattern = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	commentPattern = regexp.MustCompile(`<!--[\s\S]*?-->`)
	spacesPattern  = regexp.MustCompile(`[ \t]+`)
	newlinePattern = regexp.MustCompile(`\n{3,}`)
)

// Clean strips markup and normalizes whitespace. Plain-text input passes
// through with only whitespace normalization.
func (jc *JDCleaner) Clean(text string) string {
	text = commentPattern.ReplaceAllString(text, "")

	if htmlTagPattern.MatchString(text) {
		if extracted, err := jc.extractText(text); err == nil {
			text = extracted
		} else {
			// Unparseable markup, fall back to dropping tags outright
			text = htmlTagPattern.ReplaceAllString(text, " ")
		}
	}

	return jc.normalizeWhitespace(text)
}

// extractText parses the markup and pulls visible text out of it
func (jc *JDCleaner) extractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, tag := range jc.removeTags {
		doc.Find(tag).Remove()
	}

	// Keep block boundaries as newlines so section headings stay separated.
	// A block with only inline children (links, bold, spans) is a leaf for
	// this purpose; blocks containing nested blocks are skipped so their
	// content is not emitted twice.
	const blockTags = "p, li, h1, h2, h3, h4, h5, h6, div, section, article, td, th"

	var sb strings.Builder
	doc.Find(blockTags).Each(func(i int, s *goquery.Selection) {
		if s.ChildrenFiltered(blockTags+", ul, ol, table, tr").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	})

	if sb.Len() == 0 {
		return doc.Find("body").Text(), nil
	}

	return sb.String(), nil
}

// normalizeWhitespace collapses runs of spaces and blank lines
func (jc *JDCleaner) normalizeWhitespace(text string) string {
	text = spacesPattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = newlinePattern.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// EstimateTokens returns the approximate token count for the cleaned text
func (jc *JDCleaner) EstimateTokens(text string) int {
	// Rough estimation: ~4 characters per token
	return len(text) / 4
}

package analyzer

import (
	"strings"
	"unicode"

	"pathlight-utils/pkg/models"
)

// Matcher performs exact keyword matching against a resume snapshot.
// Comparison is case-insensitive substring containment, checked section by
// section in a fixed order; the first section that contains the keyword wins
// and determines the rationale.
type Matcher struct {
	// strict folds non-alphanumeric characters out of both sides before
	// comparison so "Node.js" also matches "Nodejs"
	strict bool
}

// NewMatcher creates a matcher. strict enables punctuation folding.
func NewMatcher(strict bool) *Matcher {
	return &Matcher{strict: strict}
}

// Rationale strings for exact matches, one per resume section
const (
	rationaleProfile     = "found in profile summary"
	rationaleSkills      = "found in skills"
	rationaleNarratives  = "found in accomplishment stories"
	rationaleWorkHistory = "found in work history"
)

// MatchKeywords marks each keyword matched or unmatched against the snapshot.
// The input slice is not modified; a new slice is returned. A nil or empty
// snapshot leaves every keyword unmatched.
func (m *Matcher) MatchKeywords(keywords []models.Keyword, snapshot *models.ResumeSnapshot) []models.Keyword {
	result := make([]models.Keyword, len(keywords))
	copy(result, keywords)

	if snapshot == nil || snapshot.IsEmpty() {
		for i := range result {
			result[i].Matched = false
			result[i].MatchRationale = ""
		}
		return result
	}

	sections := m.buildSections(snapshot)

	for i := range result {
		result[i].Matched = false
		result[i].MatchRationale = ""

		needle := m.fold(result[i].Text)
		if needle == "" {
			continue
		}

		for _, section := range sections {
			if strings.Contains(section.text, needle) {
				result[i].Matched = true
				result[i].MatchRationale = section.rationale
				break
			}
		}
	}

	return result
}

// Contains reports whether a single term appears anywhere in the snapshot
func (m *Matcher) Contains(term string, snapshot *models.ResumeSnapshot) bool {
	if snapshot == nil || snapshot.IsEmpty() {
		return false
	}

	needle := m.fold(term)
	if needle == "" {
		return false
	}

	for _, section := range m.buildSections(snapshot) {
		if strings.Contains(section.text, needle) {
			return true
		}
	}
	return false
}

type matchSection struct {
	text      string
	rationale string
}

// buildSections flattens the snapshot into folded text blocks in match order:
// profile summary, skills, accomplishment stories, work history
func (m *Matcher) buildSections(snapshot *models.ResumeSnapshot) []matchSection {
	sections := make([]matchSection, 0, 4)

	if snapshot.ProfileSummary != "" {
		sections = append(sections, matchSection{
			text:      m.fold(snapshot.ProfileSummary),
			rationale: rationaleProfile,
		})
	}

	if len(snapshot.Skills) > 0 {
		sections = append(sections, matchSection{
			text:      m.fold(strings.Join(snapshot.Skills, "\n")),
			rationale: rationaleSkills,
		})
	}

	if len(snapshot.NarrativeStories) > 0 {
		var sb strings.Builder
		for _, story := range snapshot.NarrativeStories {
			sb.WriteString(story.Challenge)
			sb.WriteString("\n")
			for _, action := range story.Actions {
				sb.WriteString(action)
				sb.WriteString("\n")
			}
			sb.WriteString(story.Result)
			sb.WriteString("\n")
		}
		sections = append(sections, matchSection{
			text:      m.fold(sb.String()),
			rationale: rationaleNarratives,
		})
	}

	if len(snapshot.WorkHistory) > 0 {
		var sb strings.Builder
		for _, exp := range snapshot.WorkHistory {
			sb.WriteString(exp.Title)
			sb.WriteString("\n")
			sb.WriteString(exp.Company)
			sb.WriteString("\n")
			sb.WriteString(exp.ScopeText)
			sb.WriteString("\n")
		}
		sections = append(sections, matchSection{
			text:      m.fold(sb.String()),
			rationale: rationaleWorkHistory,
		})
	}

	return sections
}

// fold lowercases the text, and in strict mode additionally drops everything
// that is not a letter, digit or space
func (m *Matcher) fold(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if !m.strict {
		return lowered
	}

	var sb strings.Builder
	sb.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

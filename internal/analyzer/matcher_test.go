package analyzer

import (
	"testing"

	"pathlight-utils/pkg/models"
)

func testSnapshot() *models.ResumeSnapshot {
	return &models.ResumeSnapshot{
		ProfileSummary: "Operations leader with a background in process improvement and SQL reporting.",
		Skills:         []string{"Excel", "Tableau", "Stakeholder Management"},
		NarrativeStories: []models.NarrativeStory{
			{
				Challenge: "Quarterly close took two weeks",
				Actions:   []string{"Automated reconciliation with Python scripts", "Trained the team on the new workflow"},
				Result:    "Cut close time to four days",
			},
		},
		WorkHistory: []models.WorkExperience{
			{
				Title:     "Operations Manager",
				Company:   "Acme Logistics",
				ScopeText: "Managed vendor contracts and led a team of 12 coordinators",
			},
		},
	}
}

func kw(text string) models.Keyword {
	return models.Keyword{Text: text, Category: models.CategorySkill, Priority: models.PriorityMedium, TargetSection: models.SectionSkills}
}

func TestMatchKeywordsSectionOrder(t *testing.T) {
	matcher := NewMatcher(false)
	snapshot := testSnapshot()

	tests := []struct {
		name          string
		keyword       string
		wantMatched   bool
		wantRationale string
	}{
		{"profile hit", "process improvement", true, "found in profile summary"},
		{"profile wins over later sections", "SQL", true, "found in profile summary"},
		{"skills hit", "Tableau", true, "found in skills"},
		{"case insensitive skills hit", "tableau", true, "found in skills"},
		{"narrative action hit", "Python", true, "found in accomplishment stories"},
		{"narrative result hit", "close time", true, "found in accomplishment stories"},
		{"work history hit", "vendor contracts", true, "found in work history"},
		{"work history title hit", "Operations Manager", true, "found in work history"},
		{"miss", "Kubernetes", false, ""},
		{"substring of nothing", "machine learning", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.MatchKeywords([]models.Keyword{kw(tt.keyword)}, snapshot)
			if len(result) != 1 {
				t.Fatalf("expected 1 keyword, got %d", len(result))
			}
			if result[0].Matched != tt.wantMatched {
				t.Errorf("keyword %q: matched = %v, want %v", tt.keyword, result[0].Matched, tt.wantMatched)
			}
			if result[0].MatchRationale != tt.wantRationale {
				t.Errorf("keyword %q: rationale = %q, want %q", tt.keyword, result[0].MatchRationale, tt.wantRationale)
			}
		})
	}
}

func TestMatchKeywordsDoesNotModifyInput(t *testing.T) {
	matcher := NewMatcher(false)
	input := []models.Keyword{kw("Tableau")}

	_ = matcher.MatchKeywords(input, testSnapshot())

	if input[0].Matched {
		t.Error("input slice should not be modified")
	}
}

func TestMatchKeywordsIdempotent(t *testing.T) {
	matcher := NewMatcher(false)
	snapshot := testSnapshot()
	keywords := []models.Keyword{kw("Tableau"), kw("Kubernetes"), kw("SQL")}

	first := matcher.MatchKeywords(keywords, snapshot)
	second := matcher.MatchKeywords(first, snapshot)

	for i := range first {
		if first[i].Matched != second[i].Matched || first[i].MatchRationale != second[i].MatchRationale {
			t.Errorf("keyword %q: results differ between runs", first[i].Text)
		}
	}
}

func TestMatchKeywordsEmptySnapshot(t *testing.T) {
	matcher := NewMatcher(false)

	for _, snapshot := range []*models.ResumeSnapshot{nil, {}} {
		result := matcher.MatchKeywords([]models.Keyword{kw("SQL")}, snapshot)
		if result[0].Matched {
			t.Error("nothing should match an empty snapshot")
		}
	}
}

func TestMatchKeywordsStrictFolding(t *testing.T) {
	snapshot := &models.ResumeSnapshot{Skills: []string{"Nodejs", "CI/CD pipelines"}}

	loose := NewMatcher(false)
	if got := loose.MatchKeywords([]models.Keyword{kw("Node.js")}, snapshot); got[0].Matched {
		t.Error("default matching should not fold punctuation")
	}

	strict := NewMatcher(true)
	if got := strict.MatchKeywords([]models.Keyword{kw("Node.js")}, snapshot); !got[0].Matched {
		t.Error("strict matching should fold punctuation so Node.js matches Nodejs")
	}
	if got := strict.MatchKeywords([]models.Keyword{kw("CICD")}, snapshot); !got[0].Matched {
		t.Error("strict matching should fold slash so CICD matches CI/CD")
	}
}

func TestContains(t *testing.T) {
	matcher := NewMatcher(false)
	snapshot := testSnapshot()

	if !matcher.Contains("tableau", snapshot) {
		t.Error("Contains should find skills case-insensitively")
	}
	if matcher.Contains("Kubernetes", snapshot) {
		t.Error("Contains should not find absent terms")
	}
	if matcher.Contains("", snapshot) {
		t.Error("empty term should never match")
	}
}

func TestComputeMatchScore(t *testing.T) {
	tests := []struct {
		name    string
		matched int
		total   int
		want    int
	}{
		{"empty list", 0, 0, 0},
		{"none matched", 0, 5, 0},
		{"all matched", 5, 5, 100},
		{"rounds half up", 1, 8, 13},  // 12.5 -> 13
		{"two thirds", 2, 3, 67},      // 66.67 -> 67
		{"one third", 1, 3, 33},       // 33.33 -> 33
		{"one of seven", 1, 7, 14},    // 14.29 -> 14
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords := make([]models.Keyword, tt.total)
			for i := range keywords {
				keywords[i] = kw("term")
				keywords[i].Matched = i < tt.matched
			}
			if got := models.ComputeMatchScore(keywords); got != tt.want {
				t.Errorf("ComputeMatchScore(%d/%d) = %d, want %d", tt.matched, tt.total, got, tt.want)
			}
		})
	}
}

func TestComputeMatchScoreBounds(t *testing.T) {
	// Score must stay within [0, 100] for any matched/total split
	for total := 1; total <= 20; total++ {
		for matched := 0; matched <= total; matched++ {
			keywords := make([]models.Keyword, total)
			for i := range keywords {
				keywords[i] = kw("term")
				keywords[i].Matched = i < matched
			}
			got := models.ComputeMatchScore(keywords)
			if got < 0 || got > 100 {
				t.Fatalf("score %d out of bounds for %d/%d", got, matched, total)
			}
		}
	}
}

package models

import "strings"

// NarrativeStory is a single challenge/actions/result accomplishment record
type NarrativeStory struct {
	Challenge string   `json:"challenge"`
	Actions   []string `json:"actions"`
	Result    string   `json:"result"`
}

// WorkExperience is one entry in the candidate's work history
type WorkExperience struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	ScopeText string `json:"scope_text"`
	Start     string `json:"start"`
	End       string `json:"end,omitempty"`
	IsCurrent bool   `json:"is_current"`
}

// ResumeSnapshot is a normalized, read-only view of the candidate's resume
// content at matching time. It is constructed fresh for each request and is
// never persisted as its own entity.
type ResumeSnapshot struct {
	ProfileSummary   string           `json:"profile_summary"`
	Skills           []string         `json:"skills"`
	NarrativeStories []NarrativeStory `json:"narrative_stories"`
	WorkHistory      []WorkExperience `json:"work_history"`
}

// DedupeSkills removes duplicate skill entries under case-insensitive
// comparison, preserving order and original casing of the first occurrence.
func (s *ResumeSnapshot) DedupeSkills() {
	if len(s.Skills) == 0 {
		return
	}

	seen := make(map[string]bool, len(s.Skills))
	deduped := s.Skills[:0]
	for _, skill := range s.Skills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, skill)
	}
	s.Skills = deduped
}

// HasSkill reports whether the skill list already contains the given text
// under case-insensitive comparison
func (s *ResumeSnapshot) HasSkill(text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	for _, skill := range s.Skills {
		if strings.ToLower(strings.TrimSpace(skill)) == needle {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the snapshot. Tailored resumes keep their own
// copy so later edits to the master resume cannot reach a stored record.
func (s *ResumeSnapshot) Clone() *ResumeSnapshot {
	clone := &ResumeSnapshot{
		ProfileSummary: s.ProfileSummary,
	}

	if s.Skills != nil {
		clone.Skills = make([]string, len(s.Skills))
		copy(clone.Skills, s.Skills)
	}

	if s.NarrativeStories != nil {
		clone.NarrativeStories = make([]NarrativeStory, len(s.NarrativeStories))
		for i, story := range s.NarrativeStories {
			copied := NarrativeStory{
				Challenge: story.Challenge,
				Result:    story.Result,
			}
			if story.Actions != nil {
				copied.Actions = make([]string, len(story.Actions))
				copy(copied.Actions, story.Actions)
			}
			clone.NarrativeStories[i] = copied
		}
	}

	if s.WorkHistory != nil {
		clone.WorkHistory = make([]WorkExperience, len(s.WorkHistory))
		copy(clone.WorkHistory, s.WorkHistory)
	}

	return clone
}

// IsEmpty reports whether the snapshot carries no resume content at all
func (s *ResumeSnapshot) IsEmpty() bool {
	return s.ProfileSummary == "" &&
		len(s.Skills) == 0 &&
		len(s.NarrativeStories) == 0 &&
		len(s.WorkHistory) == 0
}

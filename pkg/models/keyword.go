package models

import "strings"

// KeywordCategory classifies an extracted keyword
type KeywordCategory string

const (
	CategorySkill         KeywordCategory = "skill"
	CategorySoftSkill     KeywordCategory = "soft_skill"
	CategoryTechnical     KeywordCategory = "technical"
	CategoryCertification KeywordCategory = "certification"
	CategoryExperience    KeywordCategory = "experience"
	CategoryIndustry      KeywordCategory = "industry"
)

// KeywordPriority indicates how important a keyword is for the job description
type KeywordPriority string

const (
	PriorityHigh   KeywordPriority = "high"
	PriorityMedium KeywordPriority = "medium"
	PriorityLow    KeywordPriority = "low"
)

// TargetSection suggests where in the resume a keyword should be evidenced
type TargetSection string

const (
	SectionProfile         TargetSection = "profile"
	SectionSkills          TargetSection = "skills"
	SectionAccomplishments TargetSection = "accomplishments"
	SectionWorkExperience  TargetSection = "work_experience"
)

// Keyword represents a single term extracted from a job description
type Keyword struct {
	Text           string          `json:"text"`
	Category       KeywordCategory `json:"category"`
	Priority       KeywordPriority `json:"priority"`
	TargetSection  TargetSection   `json:"target_section"`
	Matched        bool            `json:"matched"`
	MatchRationale string          `json:"match_rationale,omitempty"`
}

// IsValid checks if the category is one of the known values
func (c KeywordCategory) IsValid() bool {
	switch c {
	case CategorySkill, CategorySoftSkill, CategoryTechnical,
		CategoryCertification, CategoryExperience, CategoryIndustry:
		return true
	}
	return false
}

// IsValid checks if the priority is one of the known values
func (p KeywordPriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// IsValid checks if the target section is one of the known values
func (s TargetSection) IsValid() bool {
	switch s {
	case SectionProfile, SectionSkills, SectionAccomplishments, SectionWorkExperience:
		return true
	}
	return false
}

// Normalize trims the keyword text and coerces unknown metadata to safe
// defaults. Returns false when the keyword is empty after trimming and
// should be dropped.
func (k *Keyword) Normalize() bool {
	k.Text = strings.TrimSpace(k.Text)
	if k.Text == "" {
		return false
	}

	k.Category = KeywordCategory(strings.ToLower(strings.TrimSpace(string(k.Category))))
	if !k.Category.IsValid() {
		k.Category = CategorySkill
	}

	k.Priority = KeywordPriority(strings.ToLower(strings.TrimSpace(string(k.Priority))))
	if !k.Priority.IsValid() {
		k.Priority = PriorityMedium
	}

	k.TargetSection = TargetSection(strings.ToLower(strings.TrimSpace(string(k.TargetSection))))
	if !k.TargetSection.IsValid() {
		k.TargetSection = SectionSkills
	}

	return true
}

// EqualsText compares keyword text case-insensitively after trimming
func (k *Keyword) EqualsText(text string) bool {
	return strings.EqualFold(strings.TrimSpace(k.Text), strings.TrimSpace(text))
}

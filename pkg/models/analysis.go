package models

import (
	"math"
	"time"
)

// JDAnalysis is the persisted record of one job-description evaluation
type JDAnalysis struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	JobTitle    string    `json:"job_title"`
	CompanyName string    `json:"company_name"`
	JDText      string    `json:"jd_text"`
	Keywords    []Keyword `json:"keywords"`
	MatchScore  int       `json:"match_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecomputeScore recalculates the aggregate match score from the keyword
// matched flags: round(100 * matched / total), 0 for an empty keyword list.
func (a *JDAnalysis) RecomputeScore() {
	a.MatchScore = ComputeMatchScore(a.Keywords)
}

// ComputeMatchScore returns round(100 * matched / total) for a keyword list,
// 0 when the list is empty
func ComputeMatchScore(keywords []Keyword) int {
	if len(keywords) == 0 {
		return 0
	}

	matched := 0
	for _, kw := range keywords {
		if kw.Matched {
			matched++
		}
	}

	return int(math.Round(float64(matched) / float64(len(keywords)) * 100))
}

// TailoredResumeStatus tracks where a tailored resume is in the application
// pipeline. This is a user-editable label, not an enforced workflow: the
// source product allows any status to move to any other status directly.
type TailoredResumeStatus string

const (
	StatusDraft              TailoredResumeStatus = "draft"
	StatusSent               TailoredResumeStatus = "sent"
	StatusUnderReview        TailoredResumeStatus = "under_review"
	StatusInterviewScheduled TailoredResumeStatus = "interview_scheduled"
	StatusInterviewed        TailoredResumeStatus = "interviewed"
	StatusOfferReceived      TailoredResumeStatus = "offer_received"
	StatusRejected           TailoredResumeStatus = "rejected"
	StatusPositionFilled     TailoredResumeStatus = "position_filled"
	StatusWithdrawn          TailoredResumeStatus = "withdrawn"
)

// IsValid checks if the status is one of the known values
func (s TailoredResumeStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusUnderReview, StatusInterviewScheduled,
		StatusInterviewed, StatusOfferReceived, StatusRejected,
		StatusPositionFilled, StatusWithdrawn:
		return true
	}
	return false
}

// TailoredContent is the point-in-time copy of narrative and work-history
// content captured when a tailored resume is assembled
type TailoredContent struct {
	NarrativeStories []NarrativeStory `json:"narrative_stories"`
	WorkHistory      []WorkExperience `json:"work_history"`
}

// TailoredResume is a derived, versioned resume artifact scoped to one
// JDAnalysis. Its content is frozen at creation time: later edits to the
// master resume do not change a previously generated record.
type TailoredResume struct {
	ID                 string               `json:"id"`
	UserID             string               `json:"user_id"`
	SourceAnalysisID   string               `json:"source_analysis_id"`
	CompanyName        string               `json:"company_name"`
	JobTitle           string               `json:"job_title"`
	TailoredProfile    string               `json:"tailored_profile"`
	TailoredSkills     []string             `json:"tailored_skills"`
	TailoredNarratives TailoredContent      `json:"tailored_narratives"`
	MatchScore         int                  `json:"match_score"`
	Status             TailoredResumeStatus `json:"status"`
	Notes              string               `json:"notes,omitempty"`
	InterviewDate      *time.Time           `json:"interview_date,omitempty"`
	RecruiterContact   string               `json:"recruiter_contact,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

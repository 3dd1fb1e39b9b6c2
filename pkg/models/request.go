package models

// AnalyzeRequest represents the request payload for a job-description analysis
type AnalyzeRequest struct {
	UserID         string          `json:"user_id" validate:"required,user_id"`
	JobTitle       string          `json:"job_title,omitempty"`
	CompanyName    string          `json:"company_name,omitempty"`
	JobDescription string          `json:"job_description" validate:"required"`
	ResumeSnapshot *ResumeSnapshot `json:"resume_snapshot,omitempty"`
}

// AddKeywordRequest represents the request to manually resolve an unmatched
// keyword by adding it to the candidate's skill list
type AddKeywordRequest struct {
	UserID      string `json:"user_id" validate:"required,user_id"`
	AnalysisID  string `json:"analysis_id" validate:"required,analysis_id"`
	KeywordText string `json:"keyword_text" validate:"required"`
}

// TailorRequest represents the request to generate a tailored resume from a
// saved analysis
type TailorRequest struct {
	UserID     string `json:"user_id" validate:"required,user_id"`
	AnalysisID string `json:"analysis_id" validate:"required,analysis_id"`
}

// StatusUpdateRequest represents a status change on a tailored resume
type StatusUpdateRequest struct {
	UserID           string `json:"user_id" validate:"required,user_id"`
	Status           string `json:"status" validate:"required,tailored_status"`
	Notes            string `json:"notes,omitempty"`
	InterviewDate    string `json:"interview_date,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	RecruiterContact string `json:"recruiter_contact,omitempty"`
}

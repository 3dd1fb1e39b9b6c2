package models

import "time"

// AnalyzeResponse represents the response from an analysis request
type AnalyzeResponse struct {
	Success    bool      `json:"success"`
	AnalysisID string    `json:"analysis_id,omitempty"`
	Keywords   []Keyword `json:"keywords"`
	MatchScore int       `json:"match_score"`
	// Degraded is set when the semantic-match fallback occurred and the
	// score reflects exact-match-only results
	Degraded  bool      `json:"degraded,omitempty"`
	Warning   string    `json:"warning,omitempty"`
	Saved     bool      `json:"saved"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// TailorResponse represents the response from a tailor request
type TailorResponse struct {
	Success   bool            `json:"success"`
	Resume    *TailoredResume `json:"resume,omitempty"`
	Saved     bool            `json:"saved"`
	Warning   string          `json:"warning,omitempty"`
	RequestID string          `json:"request_id"`
	Timestamp time.Time       `json:"timestamp"`
}

// TailoredListResponse represents the response listing tailored resumes
type TailoredListResponse struct {
	Success bool              `json:"success"`
	Resumes []*TailoredResume `json:"resumes"`
	Count   int               `json:"count"`
}

// AnalysisListResponse represents the response listing saved analyses
type AnalysisListResponse struct {
	Success  bool          `json:"success"`
	Analyses []*JDAnalysis `json:"analyses"`
	Count    int           `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

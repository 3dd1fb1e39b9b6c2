package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pathlight-utils/internal/config"
	"pathlight-utils/internal/llm/processors"
	"pathlight-utils/internal/logging"
	"pathlight-utils/pkg/models"
	"pathlight-utils/pkg/utils"
)

// AIClient is the slice of the AI manager the analyzer needs
type AIClient interface {
	ExtractKeywords(ctx context.Context, jobDescription, jobTitle, companyName string) ([]models.Keyword, error)
	JudgeKeywordMatches(ctx context.Context, resumeText string, keywords []models.Keyword) ([]models.Keyword, error)
}

// SnapshotLoader fetches resume content from the main application and pushes
// skill additions back to it
type SnapshotLoader interface {
	Fetch(ctx context.Context, userID string) (*models.ResumeSnapshot, error)
	AddSkill(ctx context.Context, userID, skill string) error
}

// Store persists analyses and tailored resumes
type Store interface {
	SaveAnalysis(ctx context.Context, analysis *models.JDAnalysis) error
	GetAnalysis(ctx context.Context, userID, analysisID string) (*models.JDAnalysis, error)
	ListAnalyses(ctx context.Context, userID string) ([]*models.JDAnalysis, error)
	SaveTailoredResume(ctx context.Context, resume *models.TailoredResume) error
	GetTailoredResume(ctx context.Context, userID, resumeID string) (*models.TailoredResume, error)
	ListTailoredResumes(ctx context.Context, userID string) ([]*models.TailoredResume, error)
	ListTailoredByAnalysis(ctx context.Context, userID, analysisID string) ([]*models.TailoredResume, error)
}

// AnalyzeResult carries the outcome of one analysis run, including the
// degradation and persistence flags the response surface reports
type AnalyzeResult struct {
	Analysis *models.JDAnalysis
	// Degraded is set when semantic judging was skipped or failed and the
	// score reflects exact matching only
	Degraded bool
	// Saved is false when the record could not be persisted; the analysis
	// content is still returned
	Saved bool
}

// Service implements the job-description analysis pipeline
type Service struct {
	config    *config.Config
	ai        AIClient
	snapshots SnapshotLoader
	store     Store
	matcher   *Matcher
	jdCleaner *processors.JDCleaner
	logger    logging.Logger
}

// NewService creates the analysis service with its collaborators
func NewService(cfg *config.Config, ai AIClient, snapshots SnapshotLoader, store Store) *Service {
	return &Service{
		config:    cfg,
		ai:        ai,
		snapshots: snapshots,
		store:     store,
		matcher:   NewMatcher(cfg.Analyzer.StrictMatching),
		jdCleaner: processors.NewJDCleaner(),
		logger:    logging.GetGlobalLogger(),
	}
}

// Analyze runs the full pipeline for one job description: clean, extract
// keywords, load the resume snapshot, match, optionally judge semantically,
// score and persist.
func (s *Service) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*AnalyzeResult, error) {
	startTime := time.Now()

	jdText := s.jdCleaner.Clean(req.JobDescription)
	if jdText == "" {
		return nil, fmt.Errorf("%w: job description is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	s.logger.Info("Starting job description analysis", map[string]interface{}{
		"user_id":   req.UserID,
		"jd_length": len(jdText),
		"company":   req.CompanyName,
	})

	// An empty keyword list is a valid outcome (score 0), only call or
	// parse failures abort
	keywords, err := s.ai.ExtractKeywords(ctx, jdText, req.JobTitle, req.CompanyName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	snapshot, err := s.loadSnapshot(ctx, req)
	if err != nil {
		return nil, err
	}

	keywords = s.matcher.MatchKeywords(keywords, snapshot)

	degraded := false
	if unmatched := countUnmatched(keywords); unmatched > 0 && s.config.Analyzer.SemanticMatching {
		keywords, degraded = s.judgeUnmatched(ctx, keywords, snapshot)
	}

	analysis := &models.JDAnalysis{
		ID:          utils.GenerateAnalysisID(),
		UserID:      req.UserID,
		JobTitle:    req.JobTitle,
		CompanyName: req.CompanyName,
		JDText:      jdText,
		Keywords:    keywords,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	analysis.RecomputeScore()

	saved := true
	if err := s.store.SaveAnalysis(ctx, analysis); err != nil {
		// Persistence failure is reported, not fatal: the caller still
		// gets the analysis content
		s.logger.Error("Failed to persist analysis", map[string]interface{}{
			"analysis_id": analysis.ID,
			"user_id":     req.UserID,
			"error":       err.Error(),
		})
		saved = false
	}

	s.logger.Info("Job description analysis completed", map[string]interface{}{
		"analysis_id":     analysis.ID,
		"keyword_count":   len(keywords),
		"match_score":     analysis.MatchScore,
		"degraded":        degraded,
		"saved":           saved,
		"processing_time": time.Since(startTime),
	})

	return &AnalyzeResult{Analysis: analysis, Degraded: degraded, Saved: saved}, nil
}

// loadSnapshot resolves the resume content for the request: an inline
// snapshot wins, otherwise the loader fetches the user's stored resume.
// A user with no resume gets an empty snapshot, not an error.
func (s *Service) loadSnapshot(ctx context.Context, req *models.AnalyzeRequest) (*models.ResumeSnapshot, error) {
	if req.ResumeSnapshot != nil {
		snapshot := req.ResumeSnapshot.Clone()
		snapshot.DedupeSkills()
		return snapshot, nil
	}

	if s.snapshots == nil {
		return &models.ResumeSnapshot{}, nil
	}

	snapshot, err := s.snapshots.Fetch(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("Failed to fetch resume snapshot, matching against empty resume", map[string]interface{}{
			"user_id": req.UserID,
			"error":   err.Error(),
		})
		return &models.ResumeSnapshot{}, nil
	}
	if snapshot == nil {
		return &models.ResumeSnapshot{}, nil
	}

	snapshot.DedupeSkills()
	return snapshot, nil
}

// judgeUnmatched sends only the exact-match misses to the AI judge. When the
// judge fails the exact results stand and the degraded flag is set.
func (s *Service) judgeUnmatched(ctx context.Context, keywords []models.Keyword, snapshot *models.ResumeSnapshot) ([]models.Keyword, bool) {
	unmatched := make([]models.Keyword, 0, len(keywords))
	for _, kw := range keywords {
		if !kw.Matched {
			unmatched = append(unmatched, kw)
		}
	}

	judged, err := s.ai.JudgeKeywordMatches(ctx, flattenSnapshot(snapshot), unmatched)
	if err != nil {
		s.logger.Warn("Semantic match judging failed, reporting exact matches only", map[string]interface{}{
			"unmatched_count": len(unmatched),
			"error":           err.Error(),
		})
		return keywords, true
	}

	byText := make(map[string]models.Keyword, len(judged))
	for _, kw := range judged {
		byText[strings.ToLower(strings.TrimSpace(kw.Text))] = kw
	}

	result := make([]models.Keyword, len(keywords))
	copy(result, keywords)
	for i := range result {
		if result[i].Matched {
			continue
		}
		if verdict, ok := byText[strings.ToLower(strings.TrimSpace(result[i].Text))]; ok {
			result[i].Matched = verdict.Matched
			result[i].MatchRationale = verdict.MatchRationale
		}
	}

	return result, false
}

// AddKeyword resolves an unmatched keyword by adding it to the user's skill
// list and marking the keyword matched on the stored analysis. The score is
// recomputed and the analysis re-persisted; a persistence failure still
// returns the recomputed analysis flagged unsaved.
func (s *Service) AddKeyword(ctx context.Context, req *models.AddKeywordRequest) (*AnalyzeResult, error) {
	keywordText := strings.TrimSpace(req.KeywordText)
	if keywordText == "" {
		return nil, fmt.Errorf("%w: keyword_text is required", ErrInvalidInput)
	}

	analysis, err := s.store.GetAnalysis(ctx, req.UserID, req.AnalysisID)
	if err != nil {
		return nil, err
	}

	// Push the skill to the main application first so the analysis only
	// reflects resume content that actually exists
	if s.snapshots != nil {
		if err := s.snapshots.AddSkill(ctx, req.UserID, keywordText); err != nil {
			return nil, fmt.Errorf("%w: failed to add skill: %v", ErrPersistenceFailed, err)
		}
	}

	found := false
	for i := range analysis.Keywords {
		if analysis.Keywords[i].EqualsText(keywordText) {
			analysis.Keywords[i].Matched = true
			analysis.Keywords[i].MatchRationale = rationaleSkills
			found = true
		}
	}
	if !found {
		// The term is not part of the extracted set; the skill addition
		// stands but the score is unchanged
		s.logger.Debug("Added skill is not an extracted keyword", map[string]interface{}{
			"analysis_id": req.AnalysisID,
			"keyword":     keywordText,
		})
	}

	analysis.RecomputeScore()
	analysis.UpdatedAt = time.Now().UTC()

	saved := true
	if err := s.store.SaveAnalysis(ctx, analysis); err != nil {
		saved = false
		s.logger.Error("Failed to persist updated analysis", map[string]interface{}{
			"analysis_id": analysis.ID,
			"error":       err.Error(),
		})
	}

	s.logger.Info("Keyword resolved via skill addition", map[string]interface{}{
		"analysis_id": analysis.ID,
		"keyword":     keywordText,
		"match_score": analysis.MatchScore,
	})

	return &AnalyzeResult{Analysis: analysis, Saved: saved}, nil
}

// GetAnalysis returns one saved analysis scoped to the user
func (s *Service) GetAnalysis(ctx context.Context, userID, analysisID string) (*models.JDAnalysis, error) {
	return s.store.GetAnalysis(ctx, userID, analysisID)
}

// ListAnalyses returns the user's saved analyses, newest first
func (s *Service) ListAnalyses(ctx context.Context, userID string) ([]*models.JDAnalysis, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return s.store.ListAnalyses(ctx, userID)
}

func countUnmatched(keywords []models.Keyword) int {
	count := 0
	for _, kw := range keywords {
		if !kw.Matched {
			count++
		}
	}
	return count
}

// flattenSnapshot renders the snapshot as plain text for the AI judge
func flattenSnapshot(snapshot *models.ResumeSnapshot) string {
	if snapshot == nil {
		return ""
	}

	var sb strings.Builder

	if snapshot.ProfileSummary != "" {
		sb.WriteString("PROFILE:\n")
		sb.WriteString(snapshot.ProfileSummary)
		sb.WriteString("\n\n")
	}

	if len(snapshot.Skills) > 0 {
		sb.WriteString("SKILLS:\n")
		sb.WriteString(strings.Join(snapshot.Skills, ", "))
		sb.WriteString("\n\n")
	}

	if len(snapshot.NarrativeStories) > 0 {
		sb.WriteString("ACCOMPLISHMENTS:\n")
		for _, story := range snapshot.NarrativeStories {
			sb.WriteString("- Challenge: ")
			sb.WriteString(story.Challenge)
			sb.WriteString("\n  Actions: ")
			sb.WriteString(strings.Join(story.Actions, "; "))
			sb.WriteString("\n  Result: ")
			sb.WriteString(story.Result)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(snapshot.WorkHistory) > 0 {
		sb.WriteString("WORK HISTORY:\n")
		for _, exp := range snapshot.WorkHistory {
			sb.WriteString("- ")
			sb.WriteString(exp.Title)
			if exp.Company != "" {
				sb.WriteString(" at ")
				sb.WriteString(exp.Company)
			}
			sb.WriteString(": ")
			sb.WriteString(exp.ScopeText)
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String())
}

package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pathlight-utils/pkg/models"
	"pathlight-utils/pkg/utils"
)

// TailorResult carries the outcome of one tailoring run
type TailorResult struct {
	Resume *models.TailoredResume
	// Saved is false when the record could not be persisted; the tailored
	// content is still returned
	Saved bool
}

// Tailor assembles a tailored resume from a saved analysis and the user's
// current resume content. The content is deep-copied at this point: later
// edits to the master resume never reach the stored record.
func (s *Service) Tailor(ctx context.Context, req *models.TailorRequest) (*TailorResult, error) {
	analysis, err := s.store.GetAnalysis(ctx, req.UserID, req.AnalysisID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: analysis %s not found", ErrMissingSource, req.AnalysisID)
		}
		return nil, err
	}
	if len(analysis.Keywords) == 0 {
		return nil, fmt.Errorf("%w: analysis %s has no keywords to tailor against", ErrMissingSource, analysis.ID)
	}

	snapshot, err := s.fetchSnapshotForTailoring(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		return nil, fmt.Errorf("%w: user has no resume content to tailor", ErrMissingSource)
	}

	frozen := snapshot.Clone()
	frozen.DedupeSkills()

	now := time.Now().UTC()
	resume := &models.TailoredResume{
		ID:               utils.GenerateTailoredResumeID(),
		UserID:           req.UserID,
		SourceAnalysisID: analysis.ID,
		CompanyName:      analysis.CompanyName,
		JobTitle:         analysis.JobTitle,
		// Skill order is preserved from the snapshot so the record reads
		// the same as the resume it was cut from
		TailoredProfile: frozen.ProfileSummary,
		TailoredSkills:  frozen.Skills,
		TailoredNarratives: models.TailoredContent{
			NarrativeStories: frozen.NarrativeStories,
			WorkHistory:      frozen.WorkHistory,
		},
		MatchScore: analysis.MatchScore,
		Status:     models.StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	saved := true
	if err := s.store.SaveTailoredResume(ctx, resume); err != nil {
		s.logger.Error("Failed to persist tailored resume", map[string]interface{}{
			"resume_id":   resume.ID,
			"analysis_id": analysis.ID,
			"error":       err.Error(),
		})
		saved = false
	}

	s.logger.Info("Tailored resume assembled", map[string]interface{}{
		"resume_id":   resume.ID,
		"analysis_id": analysis.ID,
		"match_score": resume.MatchScore,
		"saved":       saved,
	})

	return &TailorResult{Resume: resume, Saved: saved}, nil
}

// fetchSnapshotForTailoring loads the user's resume; unlike analysis, a
// loader failure here is fatal since there is nothing to tailor without it
func (s *Service) fetchSnapshotForTailoring(ctx context.Context, userID string) (*models.ResumeSnapshot, error) {
	if s.snapshots == nil {
		return nil, fmt.Errorf("%w: no resume source configured", ErrMissingSource)
	}

	snapshot, err := s.snapshots.Fetch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load resume: %v", ErrMissingSource, err)
	}
	if snapshot == nil {
		return nil, fmt.Errorf("%w: user has no resume content to tailor", ErrMissingSource)
	}

	return snapshot, nil
}

// UpdateStatus changes the pipeline status of a tailored resume. Any status
// may move to any other status; last write wins. A persistence failure still
// returns the updated record flagged unsaved.
func (s *Service) UpdateStatus(ctx context.Context, userID, resumeID string, req *models.StatusUpdateRequest) (*TailorResult, error) {
	status := models.TailoredResumeStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	resume, err := s.store.GetTailoredResume(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	resume.Status = status
	if req.Notes != "" {
		resume.Notes = req.Notes
	}
	if req.RecruiterContact != "" {
		resume.RecruiterContact = req.RecruiterContact
	}
	if req.InterviewDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.InterviewDate)
		if err != nil {
			return nil, fmt.Errorf("%w: interview_date must be RFC 3339", ErrInvalidInput)
		}
		resume.InterviewDate = &parsed
	}
	resume.UpdatedAt = time.Now().UTC()

	saved := true
	if err := s.store.SaveTailoredResume(ctx, resume); err != nil {
		saved = false
		s.logger.Error("Failed to persist status update", map[string]interface{}{
			"resume_id": resume.ID,
			"error":     err.Error(),
		})
	}

	s.logger.Info("Tailored resume status updated", map[string]interface{}{
		"resume_id": resume.ID,
		"status":    string(status),
		"saved":     saved,
	})

	return &TailorResult{Resume: resume, Saved: saved}, nil
}

// GetTailoredResume returns one tailored resume scoped to the user
func (s *Service) GetTailoredResume(ctx context.Context, userID, resumeID string) (*models.TailoredResume, error) {
	return s.store.GetTailoredResume(ctx, userID, resumeID)
}

// ListTailoredResumes returns the user's tailored resumes, newest first
func (s *Service) ListTailoredResumes(ctx context.Context, userID string) ([]*models.TailoredResume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return s.store.ListTailoredResumes(ctx, userID)
}

// ListTailoredByAnalysis returns the user's tailored resumes cut from one
// analysis, newest first
func (s *Service) ListTailoredByAnalysis(ctx context.Context, userID, analysisID string) ([]*models.TailoredResume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	return s.store.ListTailoredByAnalysis(ctx, userID, analysisID)
}


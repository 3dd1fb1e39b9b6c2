package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"pathlight-utils/internal/analyzer"
	"pathlight-utils/internal/config"
	"pathlight-utils/pkg/models"
)

type fakeAI struct {
	keywords []models.Keyword
	err      error
	judgeErr error
}

func (f *fakeAI) ExtractKeywords(ctx context.Context, jd, title, company string) ([]models.Keyword, error) {
	return f.keywords, f.err
}

func (f *fakeAI) JudgeKeywordMatches(ctx context.Context, resumeText string, keywords []models.Keyword) ([]models.Keyword, error) {
	if f.judgeErr != nil {
		return nil, f.judgeErr
	}
	return keywords, nil
}

type fakeStore struct {
	analyses map[string]*models.JDAnalysis
	resumes  []*models.TailoredResume
	saveErr  error
}

func (f *fakeStore) SaveAnalysis(ctx context.Context, a *models.JDAnalysis) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.analyses == nil {
		f.analyses = make(map[string]*models.JDAnalysis)
	}
	f.analyses[a.ID] = a
	return nil
}

func (f *fakeStore) GetAnalysis(ctx context.Context, userID, id string) (*models.JDAnalysis, error) {
	if a, ok := f.analyses[id]; ok {
		return a, nil
	}
	return nil, analyzer.ErrNotFound
}

func (f *fakeStore) ListAnalyses(ctx context.Context, userID string) ([]*models.JDAnalysis, error) {
	var out []*models.JDAnalysis
	for _, a := range f.analyses {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) SaveTailoredResume(ctx context.Context, r *models.TailoredResume) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.resumes = append(f.resumes, r)
	return nil
}

func (f *fakeStore) GetTailoredResume(ctx context.Context, userID, id string) (*models.TailoredResume, error) {
	for _, r := range f.resumes {
		if r.UserID == userID && r.ID == id {
			return r, nil
		}
	}
	return nil, analyzer.ErrNotFound
}

func (f *fakeStore) ListTailoredResumes(ctx context.Context, userID string) ([]*models.TailoredResume, error) {
	var out []*models.TailoredResume
	for _, r := range f.resumes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTailoredByAnalysis(ctx context.Context, userID, analysisID string) ([]*models.TailoredResume, error) {
	var out []*models.TailoredResume
	for _, r := range f.resumes {
		if r.UserID == userID && r.SourceAnalysisID == analysisID {
			out = append(out, r)
		}
	}
	return out, nil
}

func testService(ai analyzer.AIClient) *analyzer.Service {
	return testServiceWithStore(ai, &fakeStore{})
}

func testServiceWithStore(ai analyzer.AIClient, store *fakeStore) *analyzer.Service {
	cfg := &config.Config{}
	cfg.Analyzer.MaxKeywords = 15
	cfg.Analyzer.SemanticMatching = false
	return analyzer.NewService(cfg, ai, nil, store)
}

func postJSON(t *testing.T, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	ai := &fakeAI{keywords: []models.Keyword{
		{Text: "SQL", Category: models.CategorySkill, Priority: models.PriorityHigh, TargetSection: models.SectionSkills},
	}}
	handler := AnalyzeHandler(testService(ai))

	body := `{"user_id":"user_1","job_description":"Need SQL experience","resume_snapshot":{"skills":["SQL"]}}`
	rec := postJSON(t, handler, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp models.AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !resp.Success {
		t.Error("response should be successful")
	}
	if resp.MatchScore != 100 {
		t.Errorf("match score = %d, want 100", resp.MatchScore)
	}
	if !strings.HasPrefix(resp.AnalysisID, "jda_") {
		t.Errorf("analysis ID = %q", resp.AnalysisID)
	}
}

func TestAnalyzeHandlerValidation(t *testing.T) {
	handler := AnalyzeHandler(testService(&fakeAI{}))

	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"job_description":"Need SQL"}`},
		{"missing job_description", `{"user_id":"user_1"}`},
		{"malformed user_id", `{"user_id":"has space","job_description":"Need SQL"}`},
		{"invalid json", `{"user_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAnalyzeHandlerExtractionFailureMapsTo502(t *testing.T) {
	ai := &fakeAI{err: errors.New("provider unavailable")}
	handler := AnalyzeHandler(testService(ai))

	body := `{"user_id":"user_1","job_description":"Need SQL experience"}`
	rec := postJSON(t, handler, body)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Error != "extraction_failed" {
		t.Errorf("error code = %q, want extraction_failed", resp.Error)
	}
}

func TestAnalyzeHandlerJoinsDegradedAndUnsavedWarnings(t *testing.T) {
	ai := &fakeAI{
		keywords: []models.Keyword{
			{Text: "Kubernetes", Category: models.CategorySkill, Priority: models.PriorityHigh, TargetSection: models.SectionSkills},
		},
		judgeErr: errors.New("provider timeout"),
	}
	store := &fakeStore{saveErr: errors.New("redis down")}
	cfg := &config.Config{}
	cfg.Analyzer.MaxKeywords = 15
	cfg.Analyzer.SemanticMatching = true
	handler := AnalyzeHandler(analyzer.NewService(cfg, ai, nil, store))

	body := `{"user_id":"user_1","job_description":"Need Kubernetes experience","resume_snapshot":{"skills":["SQL"]}}`
	rec := postJSON(t, handler, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp models.AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !resp.Degraded {
		t.Error("response should be degraded")
	}
	if resp.Saved {
		t.Error("response should not be saved")
	}
	if !strings.Contains(resp.Warning, "Semantic matching was unavailable") {
		t.Errorf("warning %q should mention the degraded judge", resp.Warning)
	}
	if !strings.Contains(resp.Warning, "could not be saved") {
		t.Errorf("warning %q should mention the failed save", resp.Warning)
	}
}

func TestAddKeywordHandlerUnknownAnalysisMapsTo404(t *testing.T) {
	handler := AddKeywordHandler(testService(&fakeAI{}))

	body := `{"user_id":"user_1","analysis_id":"jda_a1b2c3d4e5f6","keyword_text":"SQL"}`
	rec := postJSON(t, handler, body)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

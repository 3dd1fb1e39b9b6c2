package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"pathlight-utils/pkg/models"
)

func getJSON(t *testing.T, handler echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func tailoredFixture(id, analysisID string) *models.TailoredResume {
	now := time.Now()
	return &models.TailoredResume{
		ID:               id,
		UserID:           "user_1",
		SourceAnalysisID: analysisID,
		Status:           models.StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestListTailoredHandlerFiltersByAnalysis(t *testing.T) {
	store := &fakeStore{resumes: []*models.TailoredResume{
		tailoredFixture("tlr_aaaaaaaaaa", "jda_a1b2c3d4e5"),
		tailoredFixture("tlr_bbbbbbbbbb", "jda_a1b2c3d4e5"),
		tailoredFixture("tlr_cccccccccc", "jda_f6g7h8i9j0"),
	}}
	handler := ListTailoredHandler(testServiceWithStore(&fakeAI{}, store))

	rec := getJSON(t, handler, "/api/v1/resume/tailored?user_id=user_1&analysis_id=jda_a1b2c3d4e5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp models.TailoredListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	for _, resume := range resp.Resumes {
		if resume.SourceAnalysisID != "jda_a1b2c3d4e5" {
			t.Errorf("resume %s cut from %s, want jda_a1b2c3d4e5", resume.ID, resume.SourceAnalysisID)
		}
	}

	rec = getJSON(t, handler, "/api/v1/resume/tailored?user_id=user_1")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("unfiltered count = %d, want 3", resp.Count)
	}
}

func TestListTailoredHandlerRejectsMalformedAnalysisID(t *testing.T) {
	handler := ListTailoredHandler(testService(&fakeAI{}))

	rec := getJSON(t, handler, "/api/v1/resume/tailored?user_id=user_1&analysis_id=notanid")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

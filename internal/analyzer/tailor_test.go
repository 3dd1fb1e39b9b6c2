package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pathlight-utils/pkg/models"
)

func setupAnalysisForTailoring(t *testing.T, store *memStore, loader *stubLoader) *Service {
	t.Helper()

	ai := &stubAI{extractFunc: extractFixed("SQL", "Tableau", "Kubernetes")}
	svc := NewService(testConfig(), ai, loader, store)
	return svc
}

func savedAnalysis(t *testing.T, svc *Service) *models.JDAnalysis {
	t.Helper()

	result, err := svc.Analyze(context.Background(), analyzeReq(testSnapshot()))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	return result.Analysis
}

func TestTailorCreatesFrozenCopy(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	result, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if err != nil {
		t.Fatalf("Tailor returned error: %v", err)
	}

	resume := result.Resume
	if !strings.HasPrefix(resume.ID, "tlr_") {
		t.Errorf("resume ID %q should have tlr_ prefix", resume.ID)
	}
	if resume.Status != models.StatusDraft {
		t.Errorf("status = %q, want draft", resume.Status)
	}
	if resume.SourceAnalysisID != analysis.ID {
		t.Errorf("source analysis = %q, want %q", resume.SourceAnalysisID, analysis.ID)
	}
	if resume.MatchScore != analysis.MatchScore {
		t.Errorf("match score = %d, want %d", resume.MatchScore, analysis.MatchScore)
	}
	if resume.CompanyName != "Acme" || resume.JobTitle != "Data Analyst" {
		t.Errorf("job context not carried over: %q at %q", resume.JobTitle, resume.CompanyName)
	}
	if !result.Saved {
		t.Error("tailored resume should be saved")
	}
}

func TestTailorContentIsolatedFromMasterResume(t *testing.T) {
	store := newMemStore()
	master := testSnapshot()
	loader := &stubLoader{snapshot: master}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	result, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if err != nil {
		t.Fatalf("Tailor returned error: %v", err)
	}

	// Mutate the master resume after tailoring
	master.ProfileSummary = "Completely rewritten summary"
	master.Skills[0] = "Replaced"
	master.NarrativeStories[0].Challenge = "Replaced challenge"
	master.WorkHistory[0].ScopeText = "Replaced scope"

	resume := result.Resume
	if resume.TailoredProfile == master.ProfileSummary {
		t.Error("tailored profile should not reflect later edits")
	}
	for _, skill := range resume.TailoredSkills {
		if skill == "Replaced" {
			t.Error("tailored skills should not reflect later edits")
		}
	}
	if resume.TailoredNarratives.NarrativeStories[0].Challenge == "Replaced challenge" {
		t.Error("tailored narratives should not reflect later edits")
	}
	if resume.TailoredNarratives.WorkHistory[0].ScopeText == "Replaced scope" {
		t.Error("tailored work history should not reflect later edits")
	}
}

func TestTailorSkillOrderPreserved(t *testing.T) {
	store := newMemStore()
	snapshot := &models.ResumeSnapshot{
		ProfileSummary: "Analyst",
		Skills:         []string{"Excel", "Tableau", "SQL", "Word"},
	}
	loader := &stubLoader{snapshot: snapshot}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	result, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if err != nil {
		t.Fatalf("Tailor returned error: %v", err)
	}

	// Value equality with the snapshot, order preserved
	want := []string{"Excel", "Tableau", "SQL", "Word"}
	got := result.Resume.TailoredSkills
	if len(got) != len(want) {
		t.Fatalf("skills = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("skills[%d] = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestTailorAnalysisWithoutKeywords(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)

	// Analysis produced from a JD the provider found nothing in
	ai := &stubAI{extractFunc: func(ctx context.Context, jd, title, company string) ([]models.Keyword, error) {
		return nil, nil
	}}
	empty := NewService(testConfig(), ai, loader, store)
	analysis := savedAnalysis(t, empty)

	_, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if !errors.Is(err, ErrMissingSource) {
		t.Errorf("error = %v, want ErrMissingSource for zero keywords", err)
	}
	if len(store.resumes) != 0 {
		t.Error("no tailored resume should be created")
	}
}

func TestTailorTwiceCreatesDistinctRecords(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	req := &models.TailorRequest{UserID: "user_1", AnalysisID: analysis.ID}
	first, err := svc.Tailor(context.Background(), req)
	if err != nil {
		t.Fatalf("first Tailor returned error: %v", err)
	}
	second, err := svc.Tailor(context.Background(), req)
	if err != nil {
		t.Fatalf("second Tailor returned error: %v", err)
	}

	if first.Resume.ID == second.Resume.ID {
		t.Error("each tailoring run must get its own identity")
	}
	if first.Resume.Status != models.StatusDraft || second.Resume.Status != models.StatusDraft {
		t.Error("both records should start as draft")
	}
	if len(store.resumes) != 2 {
		t.Errorf("stored records = %d, want 2", len(store.resumes))
	}
}

func TestTailorMissingAnalysis(t *testing.T) {
	svc := setupAnalysisForTailoring(t, newMemStore(), &stubLoader{snapshot: testSnapshot()})

	_, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: "jda_missing0000000",
	})
	if !errors.Is(err, ErrMissingSource) {
		t.Errorf("error = %v, want ErrMissingSource", err)
	}
}

func TestTailorEmptyResume(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	// Resume content disappears between analysis and tailoring
	loader.snapshot = &models.ResumeSnapshot{}

	_, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if !errors.Is(err, ErrMissingSource) {
		t.Errorf("error = %v, want ErrMissingSource", err)
	}
}

func TestTailorPersistenceFailureReturnsUnsaved(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	store.saveErr = errors.New("redis down")
	result, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if err != nil {
		t.Fatalf("persistence failure should not fail tailoring: %v", err)
	}
	if result.Saved {
		t.Error("saved flag should be false when the store rejects the write")
	}
	if result.Resume == nil {
		t.Error("tailored content should still be returned")
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	result, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if err != nil {
		t.Fatalf("Tailor returned error: %v", err)
	}
	resumeID := result.Resume.ID

	// Any status may move to any other status, including backwards
	transitions := []string{"sent", "under_review", "interview_scheduled", "rejected", "draft", "offer_received"}
	for _, status := range transitions {
		updated, err := svc.UpdateStatus(context.Background(), "user_1", resumeID, &models.StatusUpdateRequest{
			UserID: "user_1",
			Status: status,
		})
		if err != nil {
			t.Fatalf("UpdateStatus(%q) returned error: %v", status, err)
		}
		if string(updated.Resume.Status) != status {
			t.Errorf("status = %q, want %q", updated.Resume.Status, status)
		}
		if !updated.Saved {
			t.Errorf("UpdateStatus(%q) should persist the change", status)
		}
	}

	// Last write wins in storage
	stored, err := store.GetTailoredResume(context.Background(), "user_1", resumeID)
	if err != nil {
		t.Fatalf("GetTailoredResume returned error: %v", err)
	}
	if stored.Status != models.StatusOfferReceived {
		t.Errorf("stored status = %q, want offer_received", stored.Status)
	}
}

func TestUpdateStatusWithInterviewDetails(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	result, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if err != nil {
		t.Fatalf("Tailor returned error: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), "user_1", result.Resume.ID, &models.StatusUpdateRequest{
		UserID:           "user_1",
		Status:           "interview_scheduled",
		Notes:            "Panel interview, bring portfolio",
		InterviewDate:    "2026-09-15T14:00:00Z",
		RecruiterContact: "jordan@acme.example",
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	resume := updated.Resume
	if resume.Notes != "Panel interview, bring portfolio" {
		t.Errorf("notes = %q", resume.Notes)
	}
	if resume.RecruiterContact != "jordan@acme.example" {
		t.Errorf("recruiter contact = %q", resume.RecruiterContact)
	}
	if resume.InterviewDate == nil {
		t.Fatal("interview date should be set")
	}
	want := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	if !resume.InterviewDate.Equal(want) {
		t.Errorf("interview date = %v, want %v", resume.InterviewDate, want)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	result, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if err != nil {
		t.Fatalf("Tailor returned error: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), "user_1", result.Resume.ID, &models.StatusUpdateRequest{
		UserID: "user_1",
		Status: "ghosted",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateStatusUnknownResume(t *testing.T) {
	svc := setupAnalysisForTailoring(t, newMemStore(), &stubLoader{snapshot: testSnapshot()})

	_, err := svc.UpdateStatus(context.Background(), "user_1", "tlr_missing0000000", &models.StatusUpdateRequest{
		UserID: "user_1",
		Status: "sent",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatusPersistenceFailureReturnsUnsaved(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	result, err := svc.Tailor(context.Background(), &models.TailorRequest{
		UserID:     "user_1",
		AnalysisID: analysis.ID,
	})
	if err != nil {
		t.Fatalf("Tailor returned error: %v", err)
	}

	store.saveErr = errors.New("redis down")
	updated, err := svc.UpdateStatus(context.Background(), "user_1", result.Resume.ID, &models.StatusUpdateRequest{
		UserID: "user_1",
		Status: "sent",
	})
	if err != nil {
		t.Fatalf("persistence failure should not fail the update: %v", err)
	}
	if updated.Saved {
		t.Error("saved flag should be false when the store rejects the write")
	}
	if updated.Resume == nil || updated.Resume.Status != models.StatusSent {
		t.Fatalf("updated record should still be returned, got %+v", updated.Resume)
	}
}

func TestListTailoredResumesScopedToUser(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)
	analysis := savedAnalysis(t, svc)

	if _, err := svc.Tailor(context.Background(), &models.TailorRequest{UserID: "user_1", AnalysisID: analysis.ID}); err != nil {
		t.Fatalf("Tailor returned error: %v", err)
	}

	resumes, err := svc.ListTailoredResumes(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("ListTailoredResumes returned error: %v", err)
	}
	if len(resumes) != 1 {
		t.Errorf("user_1 should have 1 tailored resume, got %d", len(resumes))
	}

	other, err := svc.ListTailoredResumes(context.Background(), "user_2")
	if err != nil {
		t.Fatalf("ListTailoredResumes returned error: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("user_2 should have no tailored resumes, got %d", len(other))
	}
}

func TestListTailoredByAnalysisFiltersOnSource(t *testing.T) {
	store := newMemStore()
	loader := &stubLoader{snapshot: testSnapshot()}
	svc := setupAnalysisForTailoring(t, store, loader)

	first := savedAnalysis(t, svc)
	second := savedAnalysis(t, svc)

	for _, analysisID := range []string{first.ID, first.ID, second.ID} {
		if _, err := svc.Tailor(context.Background(), &models.TailorRequest{UserID: "user_1", AnalysisID: analysisID}); err != nil {
			t.Fatalf("Tailor returned error: %v", err)
		}
	}

	resumes, err := svc.ListTailoredByAnalysis(context.Background(), "user_1", first.ID)
	if err != nil {
		t.Fatalf("ListTailoredByAnalysis returned error: %v", err)
	}
	if len(resumes) != 2 {
		t.Fatalf("analysis %s should have 2 tailored resumes, got %d", first.ID, len(resumes))
	}
	for _, resume := range resumes {
		if resume.SourceAnalysisID != first.ID {
			t.Errorf("resume %s cut from %s, want %s", resume.ID, resume.SourceAnalysisID, first.ID)
		}
	}

	all, err := svc.ListTailoredResumes(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("ListTailoredResumes returned error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered listing should have 3 resumes, got %d", len(all))
	}
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talenthub/internal/model"
	"talenthub/internal/repository"
	"talenthub/internal/scoring"
	"talenthub/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memAnalysisStore struct {
	runs []model.AnalysisRun
}

func (s *memAnalysisStore) Create(run *model.AnalysisRun) error {
	s.runs = append(s.runs, *run)
	return nil
}

func (s *memAnalysisStore) FindByID(userID, analysisID uuid.UUID) (*model.AnalysisRun, error) {
	for i := range s.runs {
		if s.runs[i].ID == analysisID && s.runs[i].UserID == userID {
			return &s.runs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memAnalysisStore) FindByUser(userID uuid.UUID, page, pageSize int) ([]model.AnalysisRun, int64, error) {
	var out []model.AnalysisRun
	for i := range s.runs {
		if s.runs[i].UserID == userID {
			out = append(out, s.runs[i])
		}
	}
	return out, int64(len(out)), nil
}

func (s *memAnalysisStore) Stats(userID uuid.UUID) (*repository.AnalysisStats, error) {
	stats := &repository.AnalysisStats{}
	for i := range s.runs {
		if s.runs[i].UserID == userID {
			stats.Count++
		}
	}
	return stats, nil
}

type stubMatchCounter struct{ count int64 }

func (s *stubMatchCounter) CountByUser(uuid.UUID) (int64, error) { return s.count, nil }

type stubJobFinder struct {
	jobs map[uuid.UUID]*model.Job
}

func (s *stubJobFinder) FindByID(id uuid.UUID) (*model.Job, error) {
	if job, ok := s.jobs[id]; ok {
		return job, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubJobFinder) FindRecent(limit int) ([]model.Job, error) {
	var out []model.Job
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	return out, nil
}

type stubAnalyzer struct {
	judgment *scoring.Judgment
	err      error
	calls    int
}

func (s *stubAnalyzer) AnalyzeCandidate(_ context.Context, _ string, _ *service.JobContext, _ *service.BehavioralSummary) (*scoring.Judgment, error) {
	s.calls++
	return s.judgment, s.err
}

type stubNotifier struct {
	calls  int
	userID uuid.UUID
	title  string
	body   string
	err    error
}

func (s *stubNotifier) Notify(_ context.Context, userID uuid.UUID, _, title, body string) error {
	s.calls++
	s.userID = userID
	s.title = title
	s.body = body
	return s.err
}

func newAnalysisUsecase(store *memAnalysisStore, jobs *stubJobFinder, analyzer *stubAnalyzer) *AnalysisUsecase {
	return NewAnalysisUsecase(store, &stubMatchCounter{}, jobs, nil, analyzer, nil, nil, nil, zap.NewNop())
}

func TestAnalyzeTextPersistsScoredRun(t *testing.T) {
	store := &memAnalysisStore{}
	jobs := &stubJobFinder{jobs: map[uuid.UUID]*model.Job{}}
	analyzer := &stubAnalyzer{judgment: &scoring.Judgment{
		FinalScore:     82,
		Reasoning:      "Strong match.",
		PositivePoints: []string{"Go"},
	}}
	uc := newAnalysisUsecase(store, jobs, analyzer)
	userID := uuid.New()

	run, err := uc.AnalyzeText(context.Background(), userID, "  Jane\n\nDoe  ", nil)
	if err != nil {
		t.Fatal(err)
	}

	if run.MatchScore != 82 {
		t.Errorf("MatchScore = %d", run.MatchScore)
	}
	if run.Recommendation != "Highly Recommended" {
		t.Errorf("Recommendation = %q", run.Recommendation)
	}
	if run.CVText != "Jane Doe" {
		t.Errorf("CVText = %q, want normalized text", run.CVText)
	}
	if len(store.runs) != 1 {
		t.Fatalf("stored runs = %d", len(store.runs))
	}
	if store.runs[0].ID != run.ID {
		t.Error("stored run does not match returned run")
	}
}

func TestAnalyzeTextEmptyCVSkipsModelCall(t *testing.T) {
	store := &memAnalysisStore{}
	jobID := uuid.New()
	jobs := &stubJobFinder{jobs: map[uuid.UUID]*model.Job{
		jobID: {ID: jobID, Title: "Marketer", Field: "Marketing", RequiredSkills: model.EncodeList([]string{"Social Media", "Content Creation"})},
	}}
	analyzer := &stubAnalyzer{judgment: &scoring.Judgment{FinalScore: 90}}
	uc := newAnalysisUsecase(store, jobs, analyzer)

	run, err := uc.AnalyzeText(context.Background(), uuid.New(), "   ", &jobID)
	if err != nil {
		t.Fatal(err)
	}

	if analyzer.calls != 0 {
		t.Errorf("model called %d times for an empty CV", analyzer.calls)
	}
	if run.MatchScore != 10 {
		t.Errorf("MatchScore = %d, want 10", run.MatchScore)
	}
	weaknesses := model.DecodeList(run.Weaknesses)
	var skillGaps int
	for _, w := range weaknesses {
		if strings.Contains(w, "Social Media") || strings.Contains(w, "Content Creation") {
			skillGaps++
		}
	}
	if skillGaps != 2 {
		t.Errorf("required skills not surfaced: %v", weaknesses)
	}
}

func TestAnalyzeTextFallsBackToDefaultOnModelFailure(t *testing.T) {
	store := &memAnalysisStore{}
	jobs := &stubJobFinder{jobs: map[uuid.UUID]*model.Job{}}
	analyzer := &stubAnalyzer{err: service.ErrAnalysisFailed}
	uc := newAnalysisUsecase(store, jobs, analyzer)

	run, err := uc.AnalyzeText(context.Background(), uuid.New(), "some cv text", nil)
	if err != nil {
		t.Fatal(err)
	}

	if run.MatchScore != 25 {
		t.Errorf("MatchScore = %d, want default 25", run.MatchScore)
	}
	if run.Recommendation != "Low Match" {
		t.Errorf("Recommendation = %q", run.Recommendation)
	}
	if len(store.runs) != 1 {
		t.Errorf("degraded result should still be persisted, stored = %d", len(store.runs))
	}
}

func TestAnalyzeTextNotifiesUser(t *testing.T) {
	store := &memAnalysisStore{}
	analyzer := &stubAnalyzer{judgment: &scoring.Judgment{FinalScore: 82}}
	notifier := &stubNotifier{}
	uc := NewAnalysisUsecase(store, &stubMatchCounter{}, &stubJobFinder{jobs: map[uuid.UUID]*model.Job{}}, nil, analyzer, nil, nil, notifier, zap.NewNop())
	userID := uuid.New()

	if _, err := uc.AnalyzeText(context.Background(), userID, "cv text", nil); err != nil {
		t.Fatal(err)
	}

	if notifier.calls != 1 {
		t.Fatalf("notify calls = %d", notifier.calls)
	}
	if notifier.userID != userID {
		t.Errorf("notified user = %s", notifier.userID)
	}
	if !strings.Contains(notifier.body, "82") || !strings.Contains(notifier.body, "Highly Recommended") {
		t.Errorf("body = %q", notifier.body)
	}
}

func TestAnalyzeTextNotifierFailureDoesNotSurface(t *testing.T) {
	store := &memAnalysisStore{}
	analyzer := &stubAnalyzer{judgment: &scoring.Judgment{FinalScore: 50}}
	notifier := &stubNotifier{err: errors.New("fcm down")}
	uc := NewAnalysisUsecase(store, &stubMatchCounter{}, &stubJobFinder{jobs: map[uuid.UUID]*model.Job{}}, nil, analyzer, nil, nil, notifier, zap.NewNop())

	run, err := uc.AnalyzeText(context.Background(), uuid.New(), "cv text", nil)
	if err != nil {
		t.Fatalf("notification failure must not fail the run: %v", err)
	}
	if len(store.runs) != 1 || store.runs[0].ID != run.ID {
		t.Error("run must be persisted despite the notification failure")
	}
}

func TestAnalyzeTextUnknownJob(t *testing.T) {
	uc := newAnalysisUsecase(&memAnalysisStore{}, &stubJobFinder{jobs: map[uuid.UUID]*model.Job{}}, &stubAnalyzer{})
	missing := uuid.New()

	_, err := uc.AnalyzeText(context.Background(), uuid.New(), "cv", &missing)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetByIDIsOwnerScoped(t *testing.T) {
	store := &memAnalysisStore{}
	owner := uuid.New()
	intruder := uuid.New()
	run := model.AnalysisRun{ID: uuid.New(), UserID: owner, MatchScore: 70}
	store.runs = append(store.runs, run)

	uc := newAnalysisUsecase(store, &stubJobFinder{}, &stubAnalyzer{})

	got, err := uc.GetByID(owner, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MatchScore != 70 {
		t.Errorf("MatchScore = %d", got.MatchScore)
	}

	if _, err := uc.GetByID(intruder, run.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user read err = %v, want ErrNotFound", err)
	}
}

func TestGetHistoryClampsPaging(t *testing.T) {
	uc := newAnalysisUsecase(&memAnalysisStore{}, &stubJobFinder{}, &stubAnalyzer{})

	_, pagination, err := uc.GetHistory(uuid.New(), -3, 9999)
	if err != nil {
		t.Fatal(err)
	}
	if pagination.Page != 1 {
		t.Errorf("Page = %d, want clamped to 1", pagination.Page)
	}
	if pagination.PageSize != 10 {
		t.Errorf("PageSize = %d, want clamped to 10", pagination.PageSize)
	}
}

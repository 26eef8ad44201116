package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talenthub/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memBehaviorStore struct {
	searches     []model.SearchEvent
	views        []model.JobViewEvent
	applications []model.ApplicationEvent

	keywords     []model.FieldCount
	searchLocs   []model.FieldCount
	viewLocs     []model.FieldCount
	searchTypes  []model.FieldCount
	viewTypes    []model.FieldCount
	band         model.SalaryBand
	createErr    error
	summarizeErr error
}

func (s *memBehaviorStore) CreateSearchEvent(ev *model.SearchEvent) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.searches = append(s.searches, *ev)
	return nil
}

func (s *memBehaviorStore) CreateViewEvent(ev *model.JobViewEvent) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.views = append(s.views, *ev)
	return nil
}

func (s *memBehaviorStore) CreateApplicationEvent(ev *model.ApplicationEvent) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.applications = append(s.applications, *ev)
	return nil
}

func (s *memBehaviorStore) SearchKeywordCounts(uuid.UUID, int) ([]model.FieldCount, error) {
	return s.keywords, s.summarizeErr
}

func (s *memBehaviorStore) SearchLocationCounts(uuid.UUID, int) ([]model.FieldCount, error) {
	return s.searchLocs, s.summarizeErr
}

func (s *memBehaviorStore) ViewLocationCounts(uuid.UUID, int) ([]model.FieldCount, error) {
	return s.viewLocs, s.summarizeErr
}

func (s *memBehaviorStore) SearchJobTypeCounts(uuid.UUID, int) ([]model.FieldCount, error) {
	return s.searchTypes, s.summarizeErr
}

func (s *memBehaviorStore) ViewJobTypeCounts(uuid.UUID, int) ([]model.FieldCount, error) {
	return s.viewTypes, s.summarizeErr
}

func (s *memBehaviorStore) SalaryBand(uuid.UUID) (*model.SalaryBand, error) {
	return &s.band, s.summarizeErr
}

func TestRecordSearchAssignsIdentity(t *testing.T) {
	store := &memBehaviorStore{}
	uc := NewBehaviorUsecase(store, nil, nil, zap.NewNop())

	uc.RecordSearch(model.SearchEvent{UserID: uuid.New(), Keyword: "golang"})

	if len(store.searches) != 1 {
		t.Fatalf("searches = %d", len(store.searches))
	}
	ev := store.searches[0]
	if ev.ID == uuid.Nil {
		t.Error("event ID not assigned")
	}
	if ev.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}
}

func TestRecordIsFireAndForget(t *testing.T) {
	store := &memBehaviorStore{createErr: errors.New("db down")}
	uc := NewBehaviorUsecase(store, nil, nil, zap.NewNop())

	// None of these may panic or surface the storage failure.
	uc.RecordSearch(model.SearchEvent{UserID: uuid.New()})
	uc.RecordView(model.JobViewEvent{UserID: uuid.New(), JobID: uuid.New()})
	uc.RecordApplication(model.ApplicationEvent{UserID: uuid.New(), JobID: uuid.New()})
}

func TestRecordApplicationNotifiesRecruiter(t *testing.T) {
	store := &memBehaviorStore{}
	recruiterID := uuid.New()
	jobID := uuid.New()
	jobs := &stubJobFinder{jobs: map[uuid.UUID]*model.Job{
		jobID: {ID: jobID, RecruiterID: recruiterID, Title: "Backend Engineer"},
	}}
	notifier := &stubNotifier{}
	uc := NewBehaviorUsecase(store, jobs, notifier, zap.NewNop())

	uc.RecordApplication(model.ApplicationEvent{UserID: uuid.New(), JobID: jobID, Title: "Backend Engineer"})

	if len(store.applications) != 1 {
		t.Fatalf("applications = %d", len(store.applications))
	}
	if notifier.calls != 1 {
		t.Fatalf("notify calls = %d", notifier.calls)
	}
	if notifier.userID != recruiterID {
		t.Errorf("notified user = %s, want the recruiter", notifier.userID)
	}
	if !strings.Contains(notifier.body, "Backend Engineer") {
		t.Errorf("body = %q", notifier.body)
	}
}

func TestRecordApplicationUnknownJobSkipsNotification(t *testing.T) {
	store := &memBehaviorStore{}
	notifier := &stubNotifier{}
	uc := NewBehaviorUsecase(store, &stubJobFinder{jobs: map[uuid.UUID]*model.Job{}}, notifier, zap.NewNop())

	uc.RecordApplication(model.ApplicationEvent{UserID: uuid.New(), JobID: uuid.New()})

	if len(store.applications) != 1 {
		t.Error("event must still be recorded")
	}
	if notifier.calls != 0 {
		t.Errorf("notify calls = %d, want none for an unknown job", notifier.calls)
	}
}

func TestRecordApplicationNoRecruiterOnPosting(t *testing.T) {
	jobID := uuid.New()
	jobs := &stubJobFinder{jobs: map[uuid.UUID]*model.Job{
		jobID: {ID: jobID, Title: "Backend Engineer"},
	}}
	notifier := &stubNotifier{}
	uc := NewBehaviorUsecase(&memBehaviorStore{}, jobs, notifier, zap.NewNop())

	uc.RecordApplication(model.ApplicationEvent{UserID: uuid.New(), JobID: jobID})

	if notifier.calls != 0 {
		t.Errorf("notify calls = %d, posting has no recruiter to notify", notifier.calls)
	}
}

func TestSummarizeMergesSearchAndViewSignals(t *testing.T) {
	store := &memBehaviorStore{
		keywords: []model.FieldCount{{Value: "golang", Count: 4}},
		searchLocs: []model.FieldCount{
			{Value: "Jakarta", Count: 3},
			{Value: "Bandung", Count: 1},
		},
		viewLocs: []model.FieldCount{
			{Value: "Bandung", Count: 3},
			{Value: "Surabaya", Count: 1},
		},
		searchTypes: []model.FieldCount{{Value: "remote", Count: 2}},
		viewTypes:   []model.FieldCount{{Value: "remote", Count: 1}},
		band:        model.SalaryBand{Min: 8_000_000, Max: 15_000_000},
	}
	uc := NewBehaviorUsecase(store, nil, nil, zap.NewNop())

	summary, err := uc.Summarize(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	// Bandung totals 4 across both signals and outranks Jakarta's 3.
	if summary.TopLocations[0].Value != "Bandung" || summary.TopLocations[0].Count != 4 {
		t.Errorf("TopLocations = %v", summary.TopLocations)
	}
	if summary.TopLocations[1].Value != "Jakarta" {
		t.Errorf("TopLocations = %v", summary.TopLocations)
	}
	if summary.TopJobTypes[0].Value != "remote" || summary.TopJobTypes[0].Count != 3 {
		t.Errorf("TopJobTypes = %v", summary.TopJobTypes)
	}
	if summary.SalaryBand.Min != 8_000_000 {
		t.Errorf("SalaryBand = %+v", summary.SalaryBand)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	store := &memBehaviorStore{
		keywords:   []model.FieldCount{{Value: "golang", Count: 2}},
		searchLocs: []model.FieldCount{{Value: "Jakarta", Count: 2}},
	}
	uc := NewBehaviorUsecase(store, nil, nil, zap.NewNop())
	userID := uuid.New()

	first, err := uc.Summarize(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := uc.Summarize(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}

	if len(first.TopKeywords) != len(second.TopKeywords) ||
		first.TopKeywords[0] != second.TopKeywords[0] {
		t.Errorf("summaries differ: %v vs %v", first.TopKeywords, second.TopKeywords)
	}
	if len(store.searches)+len(store.views)+len(store.applications) != 0 {
		t.Error("summarize must not write events")
	}
}

func TestMergeCountsTieBreaksByValue(t *testing.T) {
	merged := mergeCounts(
		[]model.FieldCount{{Value: "b", Count: 2}, {Value: "a", Count: 2}},
		[]model.FieldCount{{Value: "c", Count: 2}},
		5,
	)
	if merged[0].Value != "a" || merged[1].Value != "b" || merged[2].Value != "c" {
		t.Errorf("merged = %v, want alphabetical tie-break", merged)
	}
}

func TestMergeCountsHonorsLimit(t *testing.T) {
	merged := mergeCounts(
		[]model.FieldCount{{Value: "a", Count: 5}, {Value: "b", Count: 4}, {Value: "c", Count: 3}},
		nil,
		2,
	)
	if len(merged) != 2 {
		t.Errorf("merged = %v, want 2 entries", merged)
	}
}

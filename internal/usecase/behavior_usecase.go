package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"talenthub/internal/model"
	"talenthub/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type behaviorStore interface {
	CreateSearchEvent(ev *model.SearchEvent) error
	CreateViewEvent(ev *model.JobViewEvent) error
	CreateApplicationEvent(ev *model.ApplicationEvent) error
	SearchKeywordCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error)
	SearchLocationCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error)
	ViewLocationCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error)
	SearchJobTypeCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error)
	ViewJobTypeCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error)
	SalaryBand(userID uuid.UUID) (*model.SalaryBand, error)
}

type BehaviorUsecase struct {
	store    behaviorStore
	jobs     jobFinder
	notifier notifier
	logger   *zap.Logger
}

func NewBehaviorUsecase(store behaviorStore, jobs jobFinder, notifier notifier, logger *zap.Logger) *BehaviorUsecase {
	return &BehaviorUsecase{store: store, jobs: jobs, notifier: notifier, logger: logger}
}

const (
	topKeywordLimit = 10
	topFieldLimit   = 5
)

// Record* methods are fire-and-forget: a storage failure is logged and
// never surfaced, so analytics can't break the action they accompany.

func (uc *BehaviorUsecase) RecordSearch(ev model.SearchEvent) {
	ev.ID = uuid.New()
	ev.CreatedAt = time.Now()
	if err := uc.store.CreateSearchEvent(&ev); err != nil {
		uc.logger.Warn("search event not recorded",
			zap.String("user_id", ev.UserID.String()),
			zap.Error(err))
	}
}

func (uc *BehaviorUsecase) RecordView(ev model.JobViewEvent) {
	ev.ID = uuid.New()
	ev.CreatedAt = time.Now()
	if err := uc.store.CreateViewEvent(&ev); err != nil {
		uc.logger.Warn("view event not recorded",
			zap.String("user_id", ev.UserID.String()),
			zap.Error(err))
	}
}

func (uc *BehaviorUsecase) RecordApplication(ev model.ApplicationEvent) {
	ev.ID = uuid.New()
	ev.CreatedAt = time.Now()
	if err := uc.store.CreateApplicationEvent(&ev); err != nil {
		uc.logger.Warn("application event not recorded",
			zap.String("user_id", ev.UserID.String()),
			zap.Error(err))
	}
	uc.notifyRecruiter(ev)
}

// notifyRecruiter tells the posting's recruiter about a new application.
// Best-effort like the event write itself.
func (uc *BehaviorUsecase) notifyRecruiter(ev model.ApplicationEvent) {
	if uc.notifier == nil || uc.jobs == nil {
		return
	}
	job, err := uc.jobs.FindByID(ev.JobID)
	if err != nil || job.RecruiterID == uuid.Nil {
		return
	}
	body := fmt.Sprintf("A candidate applied to %s.", job.Title)
	if err := uc.notifier.Notify(context.Background(), job.RecruiterID, "", "New application", body); err != nil {
		uc.logger.Warn("recruiter notification failed",
			zap.String("recruiter_id", job.RecruiterID.String()),
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
}

// Summarize derives the user's preference profile fresh on every call.
func (uc *BehaviorUsecase) Summarize(_ context.Context, userID uuid.UUID) (*service.BehavioralSummary, error) {
	keywords, err := uc.store.SearchKeywordCounts(userID, topKeywordLimit)
	if err != nil {
		return nil, err
	}

	searchLocs, err := uc.store.SearchLocationCounts(userID, topFieldLimit)
	if err != nil {
		return nil, err
	}
	viewLocs, err := uc.store.ViewLocationCounts(userID, topFieldLimit)
	if err != nil {
		return nil, err
	}

	searchTypes, err := uc.store.SearchJobTypeCounts(userID, topFieldLimit)
	if err != nil {
		return nil, err
	}
	viewTypes, err := uc.store.ViewJobTypeCounts(userID, topFieldLimit)
	if err != nil {
		return nil, err
	}

	band, err := uc.store.SalaryBand(userID)
	if err != nil {
		return nil, err
	}

	return &service.BehavioralSummary{
		TopKeywords:  keywords,
		TopLocations: mergeCounts(searchLocs, viewLocs, topFieldLimit),
		TopJobTypes:  mergeCounts(searchTypes, viewTypes, topFieldLimit),
		SalaryBand:   *band,
	}, nil
}

// mergeCounts combines two grouped aggregates, re-ranking by total count
// descending with value as the tie-breaker so output is deterministic.
func mergeCounts(a, b []model.FieldCount, limit int) []model.FieldCount {
	totals := make(map[string]int64, len(a)+len(b))
	for _, fc := range a {
		totals[fc.Value] += fc.Count
	}
	for _, fc := range b {
		totals[fc.Value] += fc.Count
	}

	merged := make([]model.FieldCount, 0, len(totals))
	for value, count := range totals {
		merged = append(merged, model.FieldCount{Value: value, Count: count})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Count != merged[j].Count {
			return merged[i].Count > merged[j].Count
		}
		return merged[i].Value < merged[j].Value
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

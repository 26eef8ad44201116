package repository

import (
	"talenthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BehaviorRepository struct {
	db *gorm.DB
}

func NewBehaviorRepository(db *gorm.DB) *BehaviorRepository {
	return &BehaviorRepository{db}
}

func (r *BehaviorRepository) CreateSearchEvent(ev *model.SearchEvent) error {
	return r.db.Create(ev).Error
}

func (r *BehaviorRepository) CreateViewEvent(ev *model.JobViewEvent) error {
	return r.db.Create(ev).Error
}

func (r *BehaviorRepository) CreateApplicationEvent(ev *model.ApplicationEvent) error {
	return r.db.Create(ev).Error
}

// Grouped aggregates below order by count desc then value asc so repeated
// calls with no new events produce identical output.

func (r *BehaviorRepository) SearchKeywordCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error) {
	var counts []model.FieldCount
	err := r.db.Model(&model.SearchEvent{}).
		Where("user_id = ? AND keyword <> ''", userID).
		Select("keyword AS value, COUNT(*) AS count").
		Group("keyword").
		Order("count DESC, value ASC").
		Limit(limit).
		Scan(&counts).Error
	return counts, err
}

func (r *BehaviorRepository) SearchLocationCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error) {
	var counts []model.FieldCount
	err := r.db.Model(&model.SearchEvent{}).
		Where("user_id = ? AND location <> ''", userID).
		Select("location AS value, COUNT(*) AS count").
		Group("location").
		Order("count DESC, value ASC").
		Limit(limit).
		Scan(&counts).Error
	return counts, err
}

func (r *BehaviorRepository) ViewLocationCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error) {
	var counts []model.FieldCount
	err := r.db.Model(&model.JobViewEvent{}).
		Where("user_id = ? AND location <> ''", userID).
		Select("location AS value, COUNT(*) AS count").
		Group("location").
		Order("count DESC, value ASC").
		Limit(limit).
		Scan(&counts).Error
	return counts, err
}

func (r *BehaviorRepository) SearchJobTypeCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error) {
	var counts []model.FieldCount
	err := r.db.Model(&model.SearchEvent{}).
		Where("user_id = ? AND job_type <> ''", userID).
		Select("job_type AS value, COUNT(*) AS count").
		Group("job_type").
		Order("count DESC, value ASC").
		Limit(limit).
		Scan(&counts).Error
	return counts, err
}

func (r *BehaviorRepository) ViewJobTypeCounts(userID uuid.UUID, limit int) ([]model.FieldCount, error) {
	var counts []model.FieldCount
	err := r.db.Model(&model.JobViewEvent{}).
		Where("user_id = ? AND job_type <> ''", userID).
		Select("job_type AS value, COUNT(*) AS count").
		Group("job_type").
		Order("count DESC, value ASC").
		Limit(limit).
		Scan(&counts).Error
	return counts, err
}

// SalaryBand averages the salary ranges the user has searched with.
func (r *BehaviorRepository) SalaryBand(userID uuid.UUID) (*model.SalaryBand, error) {
	var band model.SalaryBand
	err := r.db.Model(&model.SearchEvent{}).
		Where("user_id = ? AND (salary_min > 0 OR salary_max > 0)", userID).
		Select("COALESCE(AVG(salary_min), 0)::bigint AS min, COALESCE(AVG(salary_max), 0)::bigint AS max").
		Scan(&band).Error
	if err != nil {
		return nil, err
	}
	return &band, nil
}

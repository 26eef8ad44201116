package repository

import (
	"errors"
	"time"

	"talenthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db}
}

// Upsert refreshes the (user, job) analytics row. Deliberately
// read-then-write: the data is advisory, so a concurrent writer racing on
// the same pair is a benign last-writer-wins, not a correctness hazard.
func (r *MatchRepository) Upsert(match *model.JobMatch) error {
	var existing model.JobMatch
	err := r.db.First(&existing, "user_id = ? AND job_id = ?", match.UserID, match.JobID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		match.CreatedAt = time.Now()
		match.UpdatedAt = match.CreatedAt
		return r.db.Create(match).Error
	case err != nil:
		return err
	}

	existing.MatchScore = match.MatchScore
	existing.Reason = match.Reason
	existing.Level = match.Level
	existing.UpdatedAt = time.Now()
	*match = existing
	return r.db.Save(&existing).Error
}

func (r *MatchRepository) FindByUser(userID uuid.UUID) ([]model.JobMatch, error) {
	var matches []model.JobMatch
	err := r.db.Where("user_id = ?", userID).Order("match_score DESC").Find(&matches).Error
	return matches, err
}

func (r *MatchRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.JobMatch{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

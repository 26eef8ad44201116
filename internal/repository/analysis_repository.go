package repository

import (
	"time"

	"talenthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnalysisStats struct {
	Count    int64      `json:"count"`
	AvgScore float64    `json:"avg_score"`
	MinScore int        `json:"min_score"`
	MaxScore int        `json:"max_score"`
	First    *time.Time `json:"first"`
	Last     *time.Time `json:"last"`
}

type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db}
}

func (r *AnalysisRepository) Create(run *model.AnalysisRun) error {
	return r.db.Create(run).Error
}

// FindByID is owner-scoped: the analysis ID alone never fetches another
// user's record.
func (r *AnalysisRepository) FindByID(userID, analysisID uuid.UUID) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	err := r.db.First(&run, "user_id = ? AND id = ?", userID, analysisID).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *AnalysisRepository) FindByUser(userID uuid.UUID, page, pageSize int) ([]model.AnalysisRun, int64, error) {
	var total int64
	if err := r.db.Model(&model.AnalysisRun{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []model.AnalysisRun
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&runs).Error
	return runs, total, err
}

// Stats is a single aggregate query, recomputed on demand.
func (r *AnalysisRepository) Stats(userID uuid.UUID) (*AnalysisStats, error) {
	var stats AnalysisStats
	err := r.db.Model(&model.AnalysisRun{}).
		Where("user_id = ?", userID).
		Select(`COUNT(*) AS count,
			COALESCE(AVG(match_score), 0) AS avg_score,
			COALESCE(MIN(match_score), 0) AS min_score,
			COALESCE(MAX(match_score), 0) AS max_score,
			MIN(created_at) AS first,
			MAX(created_at) AS last`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

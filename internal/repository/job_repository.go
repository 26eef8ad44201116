package repository

import (
	"talenthub/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// SearchByEmbedding returns the topK jobs nearest to the candidate
// embedding, using the pgvector distance operator.
func (r *JobRepository) SearchByEmbedding(embedding pgvector.Vector, topK int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.Raw(`
        SELECT *
        FROM jobs
        WHERE embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, topK).Scan(&jobs).Error
	return jobs, err
}

func (r *JobRepository) Create(job *model.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) Update(job *model.Job) error {
	return r.db.Save(job).Error
}

func (r *JobRepository) FindByID(id uuid.UUID) (*model.Job, error) {
	var job model.Job
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) FindRecent(limit int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.Order("created_at DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// FindMissingEmbeddings lists jobs whose embedding column is still empty,
// for the start-up backfill pass.
func (r *JobRepository) FindMissingEmbeddings(limit int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.Where("embedding IS NULL").Limit(limit).Find(&jobs).Error
	return jobs, err
}

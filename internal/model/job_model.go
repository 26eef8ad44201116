package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Job struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecruiterID    uuid.UUID       `gorm:"type:uuid;index" json:"recruiter_id"`
	Title          string          `gorm:"type:varchar(255)" json:"title"`
	Company        string          `gorm:"type:varchar(255)" json:"company"`
	Location       string          `gorm:"type:varchar(255)" json:"location"`
	JobType        string          `gorm:"type:varchar(100)" json:"job_type"`
	Field          string          `gorm:"type:varchar(100)" json:"field"`
	Salary         string          `gorm:"type:varchar(100)" json:"salary"`
	Description    string          `gorm:"type:text" json:"description"`
	RequiredSkills string          `gorm:"type:jsonb" json:"required_skills"`
	ExperienceMin  int             `json:"experience_min"`
	Embedding      pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

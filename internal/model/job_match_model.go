package model

import (
	"time"

	"github.com/google/uuid"
)

// JobMatch is the per-user/per-job match analytics row. One row per
// (user, job) pair, refreshed in place on every recommendation pass.
type JobMatch struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_match_user_job" json:"user_id"`
	JobID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_match_user_job" json:"job_id"`
	MatchScore int       `json:"match_score"`
	Reason     string    `gorm:"type:text" json:"reason"`
	Level      string    `gorm:"type:varchar(50)" json:"level"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (JobMatch) TableName() string {
	return "job_matches"
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Behavioral signal rows are append-only. They are never updated or deleted
// and are only ever read in aggregate.

type SearchEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Keyword   string    `gorm:"type:varchar(255)" json:"keyword"`
	Location  string    `gorm:"type:varchar(255)" json:"location"`
	JobType   string    `gorm:"type:varchar(100)" json:"job_type"`
	SalaryMin int64     `json:"salary_min"`
	SalaryMax int64     `json:"salary_max"`
	CreatedAt time.Time `json:"created_at"`
}

func (SearchEvent) TableName() string {
	return "search_events"
}

type JobViewEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	JobID     uuid.UUID `gorm:"type:uuid" json:"job_id"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Company   string    `gorm:"type:varchar(255)" json:"company"`
	Location  string    `gorm:"type:varchar(255)" json:"location"`
	JobType   string    `gorm:"type:varchar(100)" json:"job_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (JobViewEvent) TableName() string {
	return "job_view_events"
}

type ApplicationEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	JobID     uuid.UUID `gorm:"type:uuid" json:"job_id"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func (ApplicationEvent) TableName() string {
	return "application_events"
}

// FieldCount is one ranked entry of a grouped behavioral aggregate.
type FieldCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type SalaryBand struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

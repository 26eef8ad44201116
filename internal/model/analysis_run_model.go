package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisRun is one complete scoring pass over a single CV. Rows are
// insert-only: a re-analysis creates a new run, it never updates an old one.
type AnalysisRun struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;index:idx_analysis_user" json:"user_id"`
	CVText           string    `gorm:"type:text" json:"cv_text"`
	FileURL          string    `gorm:"type:text" json:"file_url"`
	FileName         string    `gorm:"type:varchar(255)" json:"file_name"`
	FileSize         int64     `json:"file_size"`
	MatchScore       int       `json:"match_score"`
	Strengths        string    `gorm:"type:jsonb" json:"strengths"`
	Weaknesses       string    `gorm:"type:jsonb" json:"weaknesses"`
	Suggestions      string    `gorm:"type:jsonb" json:"suggestions"`
	DetailedAnalysis string    `gorm:"type:text" json:"detailed_analysis"`
	Recommendation   string    `gorm:"type:varchar(50)" json:"recommendation"`
	CreatedAt        time.Time `gorm:"index:idx_analysis_user" json:"created_at"`
}

func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// EncodeList stores an ordered string list in a jsonb column.
func EncodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeList reads a jsonb-encoded string list back; garbage decodes to nil.
func DecodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisRunDTO struct {
	ID               uuid.UUID `json:"id"`
	MatchScore       int       `json:"match_score"`
	Recommendation   string    `json:"recommendation"`
	Strengths        []string  `json:"strengths"`
	Weaknesses       []string  `json:"weaknesses"`
	Suggestions      []string  `json:"suggestions"`
	DetailedAnalysis string    `json:"detailed_analysis"`
	FileURL          string    `json:"file_url,omitempty"`
	FileName         string    `json:"file_name,omitempty"`
	FileSize         int64     `json:"file_size,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type AnalysisStatsDTO struct {
	Count                int64      `json:"count"`
	AvgScore             float64    `json:"avg_score"`
	MinScore             int        `json:"min_score"`
	MaxScore             int        `json:"max_score"`
	TotalRecommendations int64      `json:"total_recommendations"`
	FirstAnalysisAt      *time.Time `json:"first_analysis_at"`
	LastAnalysisAt       *time.Time `json:"last_analysis_at"`
}

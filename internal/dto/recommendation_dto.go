package dto

import "github.com/google/uuid"

// JobRecommendation is generated fresh per request; only the match
// analytics subset of it is persisted.
type JobRecommendation struct {
	JobID          uuid.UUID `json:"job_id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Salary         string    `json:"salary"`
	RequiredSkills []string  `json:"required_skills"`
	MatchScore     int       `json:"match_score"`
	Reason         string    `json:"reason"`
	Level          string    `json:"level"`
}

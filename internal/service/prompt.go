package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"talenthub/internal/model"
)

// Typed prompt payloads. Each shape passed to the model is an explicit
// struct so prompt building gets compile-time field checks.

type JobContext struct {
	ID             string   `json:"id,omitempty"`
	Title          string   `json:"title"`
	Company        string   `json:"company,omitempty"`
	Field          string   `json:"field,omitempty"`
	Location       string   `json:"location,omitempty"`
	JobType        string   `json:"job_type,omitempty"`
	Salary         string   `json:"salary,omitempty"`
	Description    string   `json:"description,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	ExperienceMin  int      `json:"experience_min,omitempty"`
}

type CandidateContext struct {
	CVText          string   `json:"cv_text,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	ExperienceYears int      `json:"experience_years,omitempty"`
	Education       string   `json:"education,omitempty"`
	Positions       []string `json:"positions,omitempty"`
}

// BehavioralSummary is the derived preference profile fed into prompts for
// personalization. Computed fresh per call, never persisted.
type BehavioralSummary struct {
	TopKeywords  []model.FieldCount `json:"top_keywords"`
	TopLocations []model.FieldCount `json:"top_locations"`
	TopJobTypes  []model.FieldCount `json:"top_job_types"`
	SalaryBand   model.SalaryBand   `json:"salary_band"`
}

// Rubric bands are embedded as prose so the model's self-reported penalties
// stay consistent with the score it produces.
const scoringRubric = `Scoring rubric: start from 100 and apply penalties.
- Field mismatch: same field 0; adjacent field deduct 10-25; unrelated field deduct 30-50.
- Experience gap: meets the requirement 0; short by 1-2 years deduct 10-20; short by more than 2 years deduct 25-40.
- Skills gap: deduct 5 points per missing required skill, up to 30.`

const judgmentSchema = `{
  "final_score": <number 0-100>,
  "reasoning": "<free-text explanation of the score>",
  "positive_points": ["<strength>", ...],
  "major_red_flags": ["<serious problem>", ...],
  "minor_concerns": ["<small problem>", ...],
  "critical_missing_skills": ["<required skill absent from the CV>", ...],
  "penalties": {
    "field_mismatch": <points deducted, 0 if none>,
    "experience_gap": <points deducted, 0 if none>,
    "skills_gap": <points deducted, 0 if none>
  },
  "profile": {
    "skills": ["<skill>", ...],
    "experience_years": <number, fractions allowed>,
    "education": "<highest education level>",
    "positions": ["<prior position>", ...],
    "projects": ["<notable project>", ...]
  }
}`

const recommendationSchema = `{
  "recommendations": [
    {
      "job_id": "<id copied exactly from the job list>",
      "match_score": <number 0-100>,
      "reason": "<one-sentence justification>"
    }
  ]
}`

// BuildAnalysisPrompt assembles the single-turn CV analysis instruction.
func BuildAnalysisPrompt(cvText string, job *JobContext, history *BehavioralSummary) string {
	var sb strings.Builder

	sb.WriteString("You are an experienced technical recruiter. Analyze the candidate's CV against the job below.\n\n")
	sb.WriteString(scoringRubric)
	sb.WriteString("\n\nReturn your answer STRICTLY as JSON following this schema, with no other text:\n")
	sb.WriteString(judgmentSchema)

	sb.WriteString("\n\nJob:\n")
	sb.WriteString(mustJSON(job))

	if history != nil {
		sb.WriteString("\n\nCandidate's recent activity on the platform (use for context only):\n")
		sb.WriteString(mustJSON(history))
	}

	sb.WriteString("\n\nCV:\n")
	sb.WriteString(cvText)

	return sb.String()
}

// BuildRecommendPrompt assembles the job recommendation instruction over the
// retrieved corpus.
func BuildRecommendPrompt(candidate *CandidateContext, corpus []JobContext, history *BehavioralSummary) string {
	var sb strings.Builder

	sb.WriteString("You are a job matching assistant. Rank how well each job below fits the candidate.\n\n")
	sb.WriteString(scoringRubric)
	sb.WriteString("\n\nOnly recommend jobs from the provided list, referencing them by job_id. ")
	sb.WriteString("Return your answer STRICTLY as JSON following this schema, with no other text:\n")
	sb.WriteString(recommendationSchema)

	sb.WriteString("\n\nCandidate:\n")
	sb.WriteString(mustJSON(candidate))

	if history != nil {
		sb.WriteString("\n\nCandidate's recent activity on the platform:\n")
		sb.WriteString(mustJSON(history))
	}

	sb.WriteString("\n\nJobs:\n")
	sb.WriteString(mustJSON(corpus))

	return sb.String()
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

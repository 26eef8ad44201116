package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"talenthub/internal/scoring"
	"talenthub/internal/util"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrAnalysisFailed covers every way an analysis call can fail: transport
// errors, non-success status, timeouts, missing credentials, unparseable
// output. Callers fall back to a conservative default judgment instead of
// propagating it to users.
var ErrAnalysisFailed = errors.New("analysis failed")

type RawRecommendation struct {
	JobID      string
	MatchScore float64
	Reason     string
}

// Orchestrator builds prompts, performs the single external call and parses
// the semi-structured response into typed results.
type Orchestrator struct {
	generator TextGenerator
	logger    *zap.Logger
}

func NewOrchestrator(generator TextGenerator, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{generator: generator, logger: logger}
}

// AnalyzeCandidate runs one CV analysis call. At most one external request
// per invocation, no retry.
func (o *Orchestrator) AnalyzeCandidate(ctx context.Context, cvText string, job *JobContext, history *BehavioralSummary) (*scoring.Judgment, error) {
	prompt := BuildAnalysisPrompt(cvText, job, history)

	raw, err := o.generator.GenerateText(ctx, prompt)
	if err != nil {
		o.logger.Warn("analysis call failed",
			zap.Int("cv_len", len(cvText)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	judgment, err := ParseJudgment(raw)
	if err != nil {
		o.logger.Warn("analysis response unparseable",
			zap.Int("response_len", len(raw)),
			zap.Error(err))
		return nil, err
	}
	return judgment, nil
}

// Recommend runs one recommendation call over the retrieved corpus.
func (o *Orchestrator) Recommend(ctx context.Context, candidate *CandidateContext, corpus []JobContext, history *BehavioralSummary) ([]RawRecommendation, error) {
	prompt := BuildRecommendPrompt(candidate, corpus, history)

	raw, err := o.generator.GenerateText(ctx, prompt)
	if err != nil {
		o.logger.Warn("recommendation call failed",
			zap.Int("corpus_size", len(corpus)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	return ParseRecommendations(raw)
}

// ParseJudgment carves the JSON payload out of free text and reads it into a
// typed judgment. Any shape problem yields ErrAnalysisFailed.
func ParseJudgment(raw string) (*scoring.Judgment, error) {
	payload, ok := util.CarveJSON(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in model output", ErrAnalysisFailed)
	}
	if !gjson.Valid(payload) {
		return nil, fmt.Errorf("%w: carved payload is not valid JSON", ErrAnalysisFailed)
	}

	parsed := gjson.Parse(payload)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrAnalysisFailed)
	}

	return &scoring.Judgment{
		FinalScore:            parsed.Get("final_score").Float(),
		Reasoning:             parsed.Get("reasoning").String(),
		PositivePoints:        stringList(parsed.Get("positive_points")),
		MajorRedFlags:         stringList(parsed.Get("major_red_flags")),
		MinorConcerns:         stringList(parsed.Get("minor_concerns")),
		CriticalMissingSkills: stringList(parsed.Get("critical_missing_skills")),
		FieldMismatchPenalty:  parsed.Get("penalties.field_mismatch").Float(),
		ExperienceGapPenalty:  parsed.Get("penalties.experience_gap").Float(),
		SkillsGapPenalty:      parsed.Get("penalties.skills_gap").Float(),
		Profile: scoring.CandidateProfile{
			Skills:          stringList(parsed.Get("profile.skills")),
			ExperienceYears: ExperienceYears(parsed.Get("profile.experience_years")),
			Education:       parsed.Get("profile.education").String(),
			Positions:       stringList(parsed.Get("profile.positions")),
			Projects:        stringList(parsed.Get("profile.projects")),
		},
	}, nil
}

// ParseRecommendations accepts either a bare array or the schema's wrapper
// object; models oscillate between the two.
func ParseRecommendations(raw string) ([]RawRecommendation, error) {
	payload, ok := util.CarveJSON(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON payload in model output", ErrAnalysisFailed)
	}
	if !gjson.Valid(payload) {
		return nil, fmt.Errorf("%w: carved payload is not valid JSON", ErrAnalysisFailed)
	}

	parsed := gjson.Parse(payload)
	items := parsed
	if parsed.IsObject() {
		items = parsed.Get("recommendations")
	}
	if !items.IsArray() {
		return nil, fmt.Errorf("%w: no recommendation list in model output", ErrAnalysisFailed)
	}

	var recs []RawRecommendation
	items.ForEach(func(_, item gjson.Result) bool {
		recs = append(recs, RawRecommendation{
			JobID:      item.Get("job_id").String(),
			MatchScore: item.Get("match_score").Float(),
			Reason:     item.Get("reason").String(),
		})
		return true
	})
	return recs, nil
}

// ExperienceYears coerces the model's experience figure (integer, fraction
// or numeric string) into a non-negative integer, rounding half up.
func ExperienceYears(v gjson.Result) int {
	f := v.Float()
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	return int(math.Floor(f + 0.5))
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	v.ForEach(func(_, item gjson.Result) bool {
		if s := item.String(); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}

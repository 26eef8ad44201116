// Package scoring converts the untrusted judgment returned by the
// generative model into a bounded, auditable match result. Everything here
// is pure: no I/O, no state, every call fully determined by its inputs.
package scoring

import (
	"fmt"
	"math"
	"strings"
)

// Judgment is the parsed (but still untrusted) output of one analysis call.
// Numeric fields may be out of range, lists may be empty or missing.
type Judgment struct {
	FinalScore            float64
	Reasoning             string
	PositivePoints        []string
	MajorRedFlags         []string
	MinorConcerns         []string
	CriticalMissingSkills []string
	FieldMismatchPenalty  float64
	ExperienceGapPenalty  float64
	SkillsGapPenalty      float64
	Profile               CandidateProfile
}

// CandidateProfile is recomputed on every analysis call; it is never
// persisted with its own identity.
type CandidateProfile struct {
	Skills          []string
	ExperienceYears int
	Education       string
	Positions       []string
	Projects        []string
}

// Result is the validated outcome of scoring one CV.
type Result struct {
	MatchScore       int
	Strengths        []string
	Weaknesses       []string
	Suggestions      []string
	DetailedAnalysis string
	Recommendation   string
}

const (
	redFlagMarker = "⚠ "
	concernMarker = "• "

	noStrengthsPlaceholder  = "No notable strengths were identified in the CV"
	noWeaknessesPlaceholder = "No significant weaknesses were identified"
	manualReviewMessage     = "The CV could not be analyzed automatically. Manual review is required."
)

var genericSuggestions = []string{
	"Quantify achievements with concrete numbers and outcomes",
	"Tailor the CV to the specific job description",
	"Add links to portfolio work or public projects",
}

// Clamp bounds a raw model score into [0,100].
func Clamp(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// Tier maps a clamped score to its recommendation label.
func Tier(score int) string {
	switch {
	case score >= 80:
		return "Highly Recommended"
	case score >= 60:
		return "Good Match"
	case score >= 40:
		return "Potential Match"
	default:
		return "Low Match"
	}
}

// Score turns a judgment into the final analysis result.
func Score(j *Judgment) *Result {
	score := Clamp(j.FinalScore)

	strengths := compact(j.PositivePoints)
	if len(strengths) == 0 {
		strengths = []string{noStrengthsPlaceholder}
	}

	weaknesses := make([]string, 0, len(j.MajorRedFlags)+len(j.MinorConcerns))
	for _, f := range compact(j.MajorRedFlags) {
		weaknesses = append(weaknesses, redFlagMarker+f)
	}
	for _, c := range compact(j.MinorConcerns) {
		weaknesses = append(weaknesses, concernMarker+c)
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{noWeaknessesPlaceholder}
	}

	suggestions := make([]string, 0, len(j.CriticalMissingSkills))
	for _, skill := range compact(j.CriticalMissingSkills) {
		suggestions = append(suggestions, fmt.Sprintf("Learn %s to close a critical skills gap", skill))
	}
	for _, generic := range genericSuggestions {
		if len(suggestions) >= 3 {
			break
		}
		suggestions = append(suggestions, generic)
	}

	return &Result{
		MatchScore:       score,
		Strengths:        strengths,
		Weaknesses:       weaknesses,
		Suggestions:      suggestions,
		DetailedAnalysis: composeRationale(j),
		Recommendation:   Tier(score),
	}
}

// composeRationale concatenates the model's free-text reasoning with an
// itemized breakdown of the penalties that were actually applied.
func composeRationale(j *Judgment) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(j.Reasoning))

	type penalty struct {
		label string
		value float64
	}
	penalties := []penalty{
		{"Field mismatch", j.FieldMismatchPenalty},
		{"Experience gap", j.ExperienceGapPenalty},
		{"Skills gap", j.SkillsGapPenalty},
	}

	var lines []string
	for _, p := range penalties {
		if p.value > 0 {
			lines = append(lines, fmt.Sprintf("%s: -%g points", p.label, p.value))
		}
	}
	if len(lines) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("Penalty breakdown:\n")
		sb.WriteString(strings.Join(lines, "\n"))
	}
	return sb.String()
}

// DefaultResult is returned whenever no JSON judgment could be recovered
// from the model output. Score 25 deliberately signals "manual review
// required" rather than "scored zero on merit".
func DefaultResult() *Result {
	return &Result{
		MatchScore:       25,
		Strengths:        []string{noStrengthsPlaceholder},
		Weaknesses:       []string{redFlagMarker + manualReviewMessage},
		Suggestions:      append([]string(nil), genericSuggestions...),
		DetailedAnalysis: manualReviewMessage,
		Recommendation:   Tier(25),
	}
}

// EmptyCVResult handles the empty-extracted-text case before any external
// call: a guaranteed low score with the job's required skills surfaced as
// the gaps.
func EmptyCVResult(requiredSkills []string) *Result {
	weaknesses := []string{redFlagMarker + "The CV contained no extractable text"}
	suggestions := make([]string, 0, len(requiredSkills))
	for _, skill := range compact(requiredSkills) {
		weaknesses = append(weaknesses, concernMarker+fmt.Sprintf("No evidence of required skill: %s", skill))
		suggestions = append(suggestions, fmt.Sprintf("Learn %s to close a critical skills gap", skill))
	}
	for _, generic := range genericSuggestions {
		if len(suggestions) >= 3 {
			break
		}
		suggestions = append(suggestions, generic)
	}

	return &Result{
		MatchScore:       10,
		Strengths:        []string{noStrengthsPlaceholder},
		Weaknesses:       weaknesses,
		Suggestions:      suggestions,
		DetailedAnalysis: "The uploaded document produced no usable text, so no evidence of the required skills could be found.",
		Recommendation:   Tier(10),
	}
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

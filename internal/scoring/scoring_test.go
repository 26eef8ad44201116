package scoring

import (
	"math"
	"strings"
	"testing"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{-10, 0},
		{0, 0},
		{49.4, 49},
		{49.5, 50},
		{100, 100},
		{250, 100},
		{math.NaN(), 0},
	}
	for _, c := range cases {
		if got := Clamp(c.in); got != c.want {
			t.Errorf("Clamp(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestTier(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "Highly Recommended"},
		{80, "Highly Recommended"},
		{79, "Good Match"},
		{60, "Good Match"},
		{59, "Potential Match"},
		{40, "Potential Match"},
		{39, "Low Match"},
		{0, "Low Match"},
	}
	for _, c := range cases {
		if got := Tier(c.score); got != c.want {
			t.Errorf("Tier(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestScoreBoundsOutOfRangeJudgment(t *testing.T) {
	result := Score(&Judgment{FinalScore: 173})
	if result.MatchScore != 100 {
		t.Fatalf("MatchScore = %d, want 100", result.MatchScore)
	}
	if result.Recommendation != "Highly Recommended" {
		t.Fatalf("Recommendation = %q", result.Recommendation)
	}
}

func TestScoreMarkersAndOrdering(t *testing.T) {
	result := Score(&Judgment{
		FinalScore:     65,
		PositivePoints: []string{"Strong Go experience", "  "},
		MajorRedFlags:  []string{"No degree listed"},
		MinorConcerns:  []string{"Short tenures"},
	})

	if len(result.Strengths) != 1 || result.Strengths[0] != "Strong Go experience" {
		t.Fatalf("Strengths = %v", result.Strengths)
	}
	if len(result.Weaknesses) != 2 {
		t.Fatalf("Weaknesses = %v", result.Weaknesses)
	}
	if !strings.HasPrefix(result.Weaknesses[0], "⚠ ") {
		t.Errorf("red flag not marked: %q", result.Weaknesses[0])
	}
	if !strings.HasPrefix(result.Weaknesses[1], "• ") {
		t.Errorf("minor concern not marked: %q", result.Weaknesses[1])
	}
}

func TestScorePlaceholders(t *testing.T) {
	result := Score(&Judgment{FinalScore: 50})
	if len(result.Strengths) != 1 || result.Strengths[0] != noStrengthsPlaceholder {
		t.Errorf("Strengths = %v", result.Strengths)
	}
	if len(result.Weaknesses) != 1 || result.Weaknesses[0] != noWeaknessesPlaceholder {
		t.Errorf("Weaknesses = %v", result.Weaknesses)
	}
}

func TestScoreSuggestionsPaddedToThree(t *testing.T) {
	result := Score(&Judgment{
		FinalScore:            70,
		CriticalMissingSkills: []string{"Kubernetes"},
	})
	if len(result.Suggestions) != 3 {
		t.Fatalf("Suggestions = %v, want 3 entries", result.Suggestions)
	}
	if result.Suggestions[0] != "Learn Kubernetes to close a critical skills gap" {
		t.Errorf("first suggestion = %q", result.Suggestions[0])
	}
	for _, s := range result.Suggestions[1:] {
		if strings.HasPrefix(s, "Learn ") {
			t.Errorf("expected generic padding, got %q", s)
		}
	}
}

func TestScoreSuggestionsNotPaddedPastThree(t *testing.T) {
	result := Score(&Judgment{
		FinalScore:            70,
		CriticalMissingSkills: []string{"Kubernetes", "Terraform", "AWS", "Kafka"},
	})
	if len(result.Suggestions) != 4 {
		t.Fatalf("Suggestions = %v, want all 4 skill gaps kept", result.Suggestions)
	}
}

func TestComposeRationalePenaltyBreakdown(t *testing.T) {
	result := Score(&Judgment{
		FinalScore:           45,
		Reasoning:            "Solid candidate in an adjacent field.",
		FieldMismatchPenalty: 20,
		SkillsGapPenalty:     10,
	})

	if !strings.Contains(result.DetailedAnalysis, "Penalty breakdown:") {
		t.Fatalf("missing breakdown: %q", result.DetailedAnalysis)
	}
	if !strings.Contains(result.DetailedAnalysis, "Field mismatch: -20 points") {
		t.Errorf("missing field mismatch line: %q", result.DetailedAnalysis)
	}
	if !strings.Contains(result.DetailedAnalysis, "Skills gap: -10 points") {
		t.Errorf("missing skills gap line: %q", result.DetailedAnalysis)
	}
	if strings.Contains(result.DetailedAnalysis, "Experience gap") {
		t.Errorf("zero penalty should not be listed: %q", result.DetailedAnalysis)
	}
}

func TestComposeRationaleWithoutPenalties(t *testing.T) {
	result := Score(&Judgment{FinalScore: 85, Reasoning: "Excellent fit."})
	if result.DetailedAnalysis != "Excellent fit." {
		t.Errorf("DetailedAnalysis = %q", result.DetailedAnalysis)
	}
}

func TestDefaultResult(t *testing.T) {
	result := DefaultResult()
	if result.MatchScore != 25 {
		t.Fatalf("MatchScore = %d, want 25", result.MatchScore)
	}
	if result.Recommendation != "Low Match" {
		t.Errorf("Recommendation = %q", result.Recommendation)
	}
	if !strings.Contains(result.Weaknesses[0], manualReviewMessage) {
		t.Errorf("Weaknesses = %v", result.Weaknesses)
	}
	if len(result.Suggestions) != 3 {
		t.Errorf("Suggestions = %v", result.Suggestions)
	}
}

func TestEmptyCVResult(t *testing.T) {
	result := EmptyCVResult([]string{"Social Media", "Content Creation"})
	if result.MatchScore != 10 {
		t.Fatalf("MatchScore = %d, want 10", result.MatchScore)
	}
	if result.Recommendation != "Low Match" {
		t.Errorf("Recommendation = %q", result.Recommendation)
	}

	var found int
	for _, w := range result.Weaknesses {
		if strings.Contains(w, "Social Media") || strings.Contains(w, "Content Creation") {
			found++
		}
	}
	if found != 2 {
		t.Errorf("required skills not surfaced as gaps: %v", result.Weaknesses)
	}
	if result.Suggestions[0] != "Learn Social Media to close a critical skills gap" {
		t.Errorf("first suggestion = %q", result.Suggestions[0])
	}
}

func TestEmptyCVResultNoSkills(t *testing.T) {
	result := EmptyCVResult(nil)
	if result.MatchScore != 10 {
		t.Fatalf("MatchScore = %d, want 10", result.MatchScore)
	}
	if len(result.Suggestions) != 3 {
		t.Errorf("Suggestions = %v, want generic padding", result.Suggestions)
	}
}

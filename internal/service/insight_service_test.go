package service

import (
	"testing"

	"studperf_backend/internal/model"
)

func TestDeriveIndicators_StrongStudent(t *testing.T) {
	in := model.MetricInput{
		Attendance:    90,
		StudyHours:    4,
		InternalTotal: 200,
		Assignments:   5,
		Participation: model.ParticipationHigh,
	}
	indicators := deriveIndicators(in)
	if len(indicators) != 5 {
		t.Fatalf("expected 5 indicators, got %d", len(indicators))
	}
	for _, ind := range indicators {
		if ind.Type != TierSuccess {
			t.Errorf("%s: expected success, got %s", ind.Title, ind.Type)
		}
	}
}

func TestDeriveIndicators_WeakStudent(t *testing.T) {
	in := model.MetricInput{
		Attendance:    50,
		StudyHours:    1,
		InternalTotal: 100,
		Assignments:   1,
		Participation: model.ParticipationLow,
	}
	indicators := deriveIndicators(in)

	wantTypes := map[string]string{
		"Attendance":     TierError,
		"Study Hours":    TierWarning,
		"Internal Marks": TierError,
		"Assignments":    TierWarning,
		"Participation":  TierInfo,
	}
	for _, ind := range indicators {
		if want := wantTypes[ind.Title]; ind.Type != want {
			t.Errorf("%s: expected %s, got %s", ind.Title, want, ind.Type)
		}
	}
}

func TestDerivePatterns(t *testing.T) {
	in := model.MetricInput{
		Attendance:    55,
		StudyHours:    1,
		InternalTotal: 100,
		Assignments:   2,
		Participation: model.ParticipationLow,
	}
	patterns := derivePatterns(in, model.PredictionFail)
	if len(patterns) != 3 {
		t.Fatalf("expected 3 patterns, got %d", len(patterns))
	}
	if patterns[0].Title != "At-Risk Performance" {
		t.Errorf("expected at-risk pattern first, got %s", patterns[0].Title)
	}

	if got := derivePatterns(model.MetricInput{Attendance: 90, StudyHours: 3}, model.PredictionPass); len(got) != 0 {
		t.Errorf("expected no patterns, got %v", got)
	}
}

func TestDeriveSuggestions_Priorities(t *testing.T) {
	in := model.MetricInput{
		Attendance:    55,
		StudyHours:    1,
		InternalTotal: 100,
		Assignments:   2,
		Participation: model.ParticipationLow,
	}
	groups := deriveSuggestions(in, model.PredictionFail)
	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}
	wantPriorities := []string{"high", "high", "medium", "low"}
	for i, g := range groups {
		if g.Priority != wantPriorities[i] {
			t.Errorf("group %s: expected priority %s, got %s", g.Title, wantPriorities[i], g.Priority)
		}
		if len(g.Actions) == 0 {
			t.Errorf("group %s has no actions", g.Title)
		}
	}
}

package service

import (
	"math/rand"
	"reflect"
	"testing"

	"studperf_backend/internal/model"
)

func maxInput() model.MetricInput {
	return model.MetricInput{
		Attendance:    100,
		StudyHours:    6,
		InternalTotal: 250,
		Assignments:   6,
		Participation: model.ParticipationHigh,
	}
}

func TestCompositeScore_MaxInput(t *testing.T) {
	s := NewScoreService(nil)

	// 30 + 9.6 + 25 + 6 + 1.5 = 72.1 -> 72
	got := s.CompositeScore(maxInput())
	if got != 72 {
		t.Fatalf("expected 72, got %d", got)
	}
}

func TestCompositeScore_ZeroInput(t *testing.T) {
	s := NewScoreService(nil)

	in := model.MetricInput{Participation: model.ParticipationLow}
	// 2*0.15 = 0.3 -> 0
	got := s.CompositeScore(in)
	if got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestLabelForScore_Boundaries(t *testing.T) {
	s := NewScoreService(nil)

	cases := []struct {
		score int
		label string
		tier  string
	}{
		{80, LabelExcellent, TierSuccess},
		{79, LabelGood, TierInfo},
		{60, LabelGood, TierInfo},
		{59, LabelAverage, TierWarning},
		{40, LabelAverage, TierWarning},
		{39, LabelNeedsImprovement, TierError},
	}
	for _, c := range cases {
		label, tier := s.LabelForScore(c.score)
		if label != c.label || tier != c.tier {
			t.Errorf("score %d: expected (%s, %s), got (%s, %s)", c.score, c.label, c.tier, label, tier)
		}
	}
}

func TestDeriveGoals_AllMet(t *testing.T) {
	s := NewScoreService(nil)

	in := model.MetricInput{
		Attendance:    80,
		StudyHours:    3,
		InternalTotal: 180,
		Assignments:   6,
		Participation: model.ParticipationHigh,
	}
	goals := s.DeriveGoals(in)
	if len(goals) != 0 {
		t.Fatalf("expected no goals, got %d", len(goals))
	}

	score := s.Compute(in)
	if !score.AllGoalsMet {
		t.Error("expected AllGoalsMet to be true")
	}
}

func TestDeriveGoals_Idempotent(t *testing.T) {
	s := NewScoreService(nil)

	in := model.MetricInput{
		Attendance:    50,
		StudyHours:    1,
		InternalTotal: 100,
		Assignments:   2,
		Participation: model.ParticipationLow,
	}
	first := s.DeriveGoals(in)
	second := s.DeriveGoals(in)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical goal lists on repeated calls")
	}
	if len(first) != 5 {
		t.Fatalf("expected 5 goals, got %d", len(first))
	}
}

func TestDeriveGoals_ProgressPercent(t *testing.T) {
	s := NewScoreService(nil)

	in := model.MetricInput{
		Attendance:    50,
		StudyHours:    3,
		InternalTotal: 180,
		Assignments:   6,
		Participation: model.ParticipationHigh,
	}
	goals := s.DeriveGoals(in)
	if len(goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(goals))
	}
	g := goals[0]
	// 50/75 * 100 = 66.67 -> 67
	if g.ProgressPercent != 67 {
		t.Errorf("expected 67%%, got %d%%", g.ProgressPercent)
	}
	if g.Achieved {
		t.Error("expected goal not achieved")
	}
	if len(g.Tasks) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(g.Tasks))
	}
}

func TestAlerts_AllBreaches_FixedOrder(t *testing.T) {
	s := NewScoreService(nil)

	in := model.MetricInput{
		Attendance:    70,
		StudyHours:    1,
		InternalTotal: 100,
		Assignments:   1,
		Participation: model.ParticipationLow,
	}
	alerts, recommendations := s.AlertsAndRecommendations(in, "")

	want := []string{
		"Low attendance — aim for 75%+",
		"Study more — 2 hours/day recommended",
		"Internal marks low — revise regularly",
		"Submit more assignments",
	}
	if !reflect.DeepEqual(alerts, want) {
		t.Errorf("unexpected alerts: %v", alerts)
	}
	if len(recommendations) != 3 {
		t.Errorf("expected 3 static recommendations, got %d", len(recommendations))
	}
}

func TestAlerts_FailPrediction(t *testing.T) {
	s := NewScoreService(nil)

	alerts, _ := s.AlertsAndRecommendations(maxInput(), model.PredictionFail)
	if len(alerts) != 1 || alerts[0] != "Model predicted 'Fail' — act fast" {
		t.Errorf("unexpected alerts: %v", alerts)
	}
}

func TestAlerts_MissingMetricsNotFlagged(t *testing.T) {
	s := NewScoreService(nil)

	// 全 0 视为无数据，不触发阈值告警
	alerts, _ := s.AlertsAndRecommendations(model.MetricInput{Participation: model.ParticipationLow}, "")
	if len(alerts) != 0 {
		t.Errorf("expected no alerts for missing metrics, got %v", alerts)
	}
}

func TestSubjectMarks_SumInvariant(t *testing.T) {
	marks := model.SubjectMarks{SEPM: 10, CN: 20, TOC: 30, CVCC: 25, RM: 15}
	if got := marks.Sum(); got != 100 {
		t.Fatalf("expected sum 100, got %v", got)
	}
}

func TestSubjectBreakdown_ExplicitMarks(t *testing.T) {
	s := NewScoreService(nil)

	marks := &model.SubjectMarks{SEPM: 10, CN: 20, TOC: 30, CVCC: 25, RM: 15}
	bd := s.SubjectBreakdown(marks, 0)
	if bd.Estimated {
		t.Error("explicit marks must not be flagged as estimated")
	}
	wantScores := [5]float64{10, 20, 30, 25, 15}
	wantTiers := [5]string{HeatTierLow, HeatTierLow, HeatTierMid, HeatTierMid, HeatTierLow}
	for i, sc := range bd.Scores {
		if sc.Score != wantScores[i] {
			t.Errorf("subject %s: expected %v, got %v", sc.Key, wantScores[i], sc.Score)
		}
		if sc.Tier != wantTiers[i] {
			t.Errorf("subject %s: expected tier %s, got %s", sc.Key, wantTiers[i], sc.Tier)
		}
	}
}

func TestSubjectBreakdown_EstimateDeterministicWithoutRand(t *testing.T) {
	s := NewScoreService(nil)

	bd := s.SubjectBreakdown(nil, 200)
	if !bd.Estimated {
		t.Fatal("expected estimated breakdown")
	}
	for _, sc := range bd.Scores {
		if sc.Score != 40 {
			t.Errorf("expected equal split of 40, got %v", sc.Score)
		}
	}
}

func TestSubjectBreakdown_EstimateJitterClamped(t *testing.T) {
	s := NewScoreService(rand.New(rand.NewSource(42)))

	bd := s.SubjectBreakdown(nil, 250)
	for _, sc := range bd.Scores {
		if sc.Score < 0 || sc.Score > 50 {
			t.Errorf("subject %s out of range: %v", sc.Key, sc.Score)
		}
	}
}

func TestHeatTier(t *testing.T) {
	cases := []struct {
		score float64
		tier  string
	}{
		{24, HeatTierLow},
		{25, HeatTierMid},
		{34, HeatTierMid},
		{35, HeatTierHigh},
		{50, HeatTierHigh},
	}
	for _, c := range cases {
		if got := HeatTier(c.score); got != c.tier {
			t.Errorf("score %v: expected %s, got %s", c.score, c.tier, got)
		}
	}
}

func TestHeuristicPrediction_PassAt70(t *testing.T) {
	s := NewScoreService(nil)

	// 30 + 9.6 + 25 + 5 + 0.75 = 70.35 -> 70
	in := model.MetricInput{
		Attendance:    100,
		StudyHours:    6,
		InternalTotal: 250,
		Assignments:   5,
		Participation: model.ParticipationMedium,
	}
	if got := s.CompositeScore(in); got != 70 {
		t.Fatalf("precondition failed: expected composite 70, got %d", got)
	}

	result := s.HeuristicPrediction(in)
	if result.Prediction != model.PredictionPass {
		t.Errorf("expected Pass, got %s", result.Prediction)
	}
	if result.Confidence != 0.70 {
		t.Errorf("expected confidence 0.70, got %v", result.Confidence)
	}
	if result.Source != model.SourceHeuristic {
		t.Errorf("expected heuristic source, got %s", result.Source)
	}
}

func TestHeuristicPrediction_ConfidenceClamp(t *testing.T) {
	s := NewScoreService(nil)

	result := s.HeuristicPrediction(model.MetricInput{Participation: model.ParticipationLow})
	if result.Prediction != model.PredictionFail {
		t.Errorf("expected Fail, got %s", result.Prediction)
	}
	if result.Confidence != 0.45 {
		t.Errorf("expected floor 0.45, got %v", result.Confidence)
	}
}

func TestRiskScore(t *testing.T) {
	s := NewScoreService(nil)

	if got := s.RiskScore(model.PredictionFail, 0.8); got != 20 {
		t.Errorf("Fail 0.8: expected 20, got %d", got)
	}
	if got := s.RiskScore(model.PredictionPass, 0.8); got != 80 {
		t.Errorf("Pass 0.8: expected 80, got %d", got)
	}
}

func TestPerformancePie_Percentages(t *testing.T) {
	s := NewScoreService(nil)

	slices := s.PerformancePie(maxInput())
	if len(slices) != 4 {
		t.Fatalf("expected 4 slices, got %d", len(slices))
	}
	var total float64
	for _, sl := range slices {
		total += sl.Percent
	}
	if total < 99.9 || total > 100.1 {
		t.Errorf("percentages should sum to ~100, got %v", total)
	}
}

func TestFacultySuggestions(t *testing.T) {
	s := NewScoreService(nil)

	in := model.MetricInput{
		Attendance:    70,
		StudyHours:    1,
		InternalTotal: 100,
		Assignments:   1,
		Participation: model.ParticipationLow,
	}
	if got := s.FacultySuggestions(in); len(got) != 5 {
		t.Errorf("expected 5 suggestions, got %d", len(got))
	}
	if got := s.FacultySuggestions(maxInput()); len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}

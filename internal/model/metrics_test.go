package model

import "testing"

func TestParticipationWeight(t *testing.T) {
	cases := []struct {
		p      Participation
		weight float64
	}{
		{ParticipationHigh, 10},
		{ParticipationMedium, 5},
		{ParticipationLow, 2},
		{Participation("bogus"), 2},
	}
	for _, c := range cases {
		if got := c.p.Weight(); got != c.weight {
			t.Errorf("%s: expected weight %v, got %v", c.p, c.weight, got)
		}
	}
}

func TestParticipationOrdinal(t *testing.T) {
	if ParticipationLow.Ordinal() != 1 || ParticipationMedium.Ordinal() != 2 || ParticipationHigh.Ordinal() != 3 {
		t.Error("unexpected ordinal mapping")
	}
}

func TestMetricInputClamp(t *testing.T) {
	in := MetricInput{
		Attendance:    150,
		StudyHours:    -1,
		InternalTotal: 300,
		Assignments:   10,
		Participation: Participation("bogus"),
	}
	out := in.Clamp()

	if out.Attendance != 100 {
		t.Errorf("attendance: expected 100, got %v", out.Attendance)
	}
	if out.StudyHours != 0 {
		t.Errorf("study hours: expected 0, got %v", out.StudyHours)
	}
	if out.InternalTotal != 250 {
		t.Errorf("internal total: expected 250, got %v", out.InternalTotal)
	}
	if out.Assignments != 6 {
		t.Errorf("assignments: expected 6, got %d", out.Assignments)
	}
	if out.Participation != ParticipationMedium {
		t.Errorf("participation: expected Medium default, got %s", out.Participation)
	}
}

func TestSubjectMarksSum(t *testing.T) {
	m := SubjectMarks{SEPM: 10, CN: 20, TOC: 30, CVCC: 25, RM: 15}
	if got := m.Sum(); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestSubjectMarksClamp(t *testing.T) {
	m := SubjectMarks{SEPM: 60, CN: -5, TOC: 50, CVCC: 0, RM: 25}.Clamp()
	if m.SEPM != 50 || m.CN != 0 || m.TOC != 50 || m.CVCC != 0 || m.RM != 25 {
		t.Errorf("unexpected clamp result: %+v", m)
	}
}

func TestPredictionRecordInput(t *testing.T) {
	r := PredictionRecord{
		Attendance:    80,
		StudyHours:    3,
		InternalTotal: 180,
		Assignments:   4,
		Participation: ParticipationHigh,
	}
	in := r.Input()
	if in.Attendance != 80 || in.StudyHours != 3 || in.InternalTotal != 180 || in.Assignments != 4 || in.Participation != ParticipationHigh {
		t.Errorf("unexpected input: %+v", in)
	}
}

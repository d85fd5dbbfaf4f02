package service

import (
	"testing"
	"time"

	"studperf_backend/internal/model"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func activeEntry(id uint, dept string, attendance float64, prediction string) RosterEntry {
	now := time.Now()
	return RosterEntry{
		ID:            id,
		Name:          "Student",
		Department:    dept,
		Attendance:    fptr(attendance),
		StudyHours:    fptr(2),
		InternalMarks: fptr(150),
		Assignments:   iptr(4),
		Prediction:    prediction,
		Confidence:    0.8,
		LastActivity:  &now,
		IsActive:      true,
	}
}

func TestAggregateOverview_Counts(t *testing.T) {
	entries := []RosterEntry{
		activeEntry(1, "CSE", 95, model.PredictionPass),
		activeEntry(2, "CSE", 65, model.PredictionFail),
		activeEntry(3, "ECE", 72, model.PredictionPass),
		{ID: 4, Department: "", Prediction: "No Data"},
	}

	ov := aggregateOverview(entries)

	if ov.TotalRegistered != 4 {
		t.Errorf("expected 4 registered, got %d", ov.TotalRegistered)
	}
	if ov.ActiveCount != 3 {
		t.Errorf("expected 3 active, got %d", ov.ActiveCount)
	}
	if ov.AtRisk != 1 {
		t.Errorf("expected 1 at-risk, got %d", ov.AtRisk)
	}
	if ov.PassCount != 2 || ov.FailCount != 1 {
		t.Errorf("expected 2 pass / 1 fail, got %d / %d", ov.PassCount, ov.FailCount)
	}
	if ov.DeptCounts["CSE"] != 2 || ov.DeptCounts["ECE"] != 1 || ov.DeptCounts["Unknown"] != 1 {
		t.Errorf("unexpected dept counts: %v", ov.DeptCounts)
	}
}

func TestAggregateOverview_AttendanceBuckets(t *testing.T) {
	entries := []RosterEntry{
		activeEntry(1, "CSE", 55, model.PredictionFail),
		activeEntry(2, "CSE", 65, model.PredictionPass),
		activeEntry(3, "CSE", 72, model.PredictionPass),
		activeEntry(4, "CSE", 85, model.PredictionPass),
		activeEntry(5, "CSE", 95, model.PredictionPass),
		{ID: 6, Prediction: "No Data"}, // 无数据不进分布
	}

	ov := aggregateOverview(entries)

	wantCounts := []int{1, 1, 1, 1, 1}
	for i, b := range ov.AttendanceBuckets {
		if b.Count != wantCounts[i] {
			t.Errorf("bucket %s: expected %d, got %d", b.Name, wantCounts[i], b.Count)
		}
	}
}

func TestAggregateOverview_Averages(t *testing.T) {
	e1 := activeEntry(1, "CSE", 80, model.PredictionPass)
	e1.StudyHours = fptr(2)
	e1.InternalMarks = fptr(100)
	e2 := activeEntry(2, "CSE", 60, model.PredictionPass)
	e2.StudyHours = fptr(4)
	e2.InternalMarks = fptr(200)

	ov := aggregateOverview([]RosterEntry{e1, e2, {ID: 3, Prediction: "No Data"}})

	if ov.AvgAttendance != 70 {
		t.Errorf("expected avg attendance 70, got %v", ov.AvgAttendance)
	}
	if ov.AvgStudyHours != 3 {
		t.Errorf("expected avg study hours 3, got %v", ov.AvgStudyHours)
	}
	if ov.AvgInternalMarks != 150 {
		t.Errorf("expected avg marks 150, got %v", ov.AvgInternalMarks)
	}
}

func TestAggregateOverview_SubjectAverages(t *testing.T) {
	e1 := activeEntry(1, "CSE", 80, model.PredictionPass)
	e1.SubjectMarks = &model.SubjectMarks{SEPM: 10, CN: 20, TOC: 30, CVCC: 40, RM: 50}
	e2 := activeEntry(2, "CSE", 80, model.PredictionPass)
	e2.SubjectMarks = &model.SubjectMarks{SEPM: 30, CN: 40, TOC: 50, CVCC: 20, RM: 10}

	ov := aggregateOverview([]RosterEntry{e1, e2})

	if len(ov.SubjectAverages) != 5 {
		t.Fatalf("expected 5 subject averages, got %d", len(ov.SubjectAverages))
	}
	want := []float64{20, 30, 40, 30, 30}
	for i, sa := range ov.SubjectAverages {
		if sa.Average != want[i] {
			t.Errorf("subject %s: expected %v, got %v", sa.Subject, want[i], sa.Average)
		}
	}
}

func TestAggregateOverview_NoSubjectMarks(t *testing.T) {
	ov := aggregateOverview([]RosterEntry{activeEntry(1, "CSE", 80, model.PredictionPass)})
	if len(ov.SubjectAverages) != 0 {
		t.Errorf("expected no subject averages, got %v", ov.SubjectAverages)
	}
}

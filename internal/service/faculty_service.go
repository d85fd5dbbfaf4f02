package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"studperf_backend/internal/model"
	"studperf_backend/internal/repository"
	"studperf_backend/internal/util"
	"studperf_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FacultyService 教师端花名册与班级聚合。花名册快照写入 Redis，
// 数据库故障时退化为最近一次快照（离线兜底）。
type FacultyService struct {
	users       *repository.UserRepository
	predictions *repository.PredictionRepository
	cache       repository.RosterCache
}

func NewFacultyService(users *repository.UserRepository, predictions *repository.PredictionRepository, cache repository.RosterCache) *FacultyService {
	return &FacultyService{users: users, predictions: predictions, cache: cache}
}

const snapshotTTL = 24 * time.Hour

// RosterEntry 花名册里的一行：注册信息叠加最近一次提交。
// 指标用指针区分"无数据"和"零值"，没有历史的学生各指标为 null。
type RosterEntry struct {
	ID           uint                `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	USN          string              `json:"usn"`
	Department   string              `json:"department"`
	Attendance   *float64            `json:"attendance"`
	StudyHours   *float64            `json:"studyHours"`
	InternalMarks *float64           `json:"internalMarks"`
	Assignments  *int                `json:"assignments"`
	SubjectMarks *model.SubjectMarks `json:"subjectMarks,omitempty"`
	Prediction   string              `json:"prediction"`
	Confidence   float64             `json:"confidence"`
	LastActivity *time.Time          `json:"lastActivity"`
	IsActive     bool                `json:"isActive"`
}

// Roster 全部学生叠加最近一次提交；成功后刷新 Redis 快照
func (s *FacultyService) Roster(ctx context.Context) ([]RosterEntry, error) {
	students, err := s.users.ListStudents()
	if err != nil {
		return s.rosterFromSnapshot(ctx, err)
	}

	entries := make([]RosterEntry, 0, len(students))
	for i := range students {
		stu := &students[i]
		entry := RosterEntry{
			ID:         stu.ID,
			Name:       stu.Name,
			Email:      stu.Email,
			USN:        stu.USN,
			Department: stu.Department,
			Prediction: "No Data",
		}

		latest, err := s.predictions.LatestByUser(stu.ID)
		if err == nil {
			entry.IsActive = true
			entry.Attendance = &latest.Attendance
			entry.StudyHours = &latest.StudyHours
			entry.InternalMarks = &latest.InternalTotal
			entry.Assignments = &latest.Assignments
			entry.SubjectMarks = latest.SubjectMarks
			entry.Prediction = latest.Prediction
			entry.Confidence = latest.Confidence
			entry.LastActivity = &latest.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		entries = append(entries, entry)
	}

	s.storeSnapshot(ctx, repository.RosterSnapshotKey, entries)
	return entries, nil
}

// rosterFromSnapshot 数据库不可用时退化读取快照
func (s *FacultyService) rosterFromSnapshot(ctx context.Context, cause error) ([]RosterEntry, error) {
	raw, ok := s.cache.Get(ctx, repository.RosterSnapshotKey)
	if !ok {
		return nil, cause
	}
	var entries []RosterEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Log.Warn("Roster snapshot malformed, discarding", zap.Error(err))
		return nil, cause
	}
	logger.Log.Warn("Serving roster from cached snapshot", zap.Error(cause))
	return entries, nil
}

func (s *FacultyService) storeSnapshot(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, snapshotTTL); err != nil {
		logger.Log.Warn("Failed to store roster snapshot", zap.String("key", key), zap.Error(err))
	}
}

// AttendanceBucket 出勤率分布柱状图的一档
type AttendanceBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SubjectAverage 单科班级均分（满分 50）
type SubjectAverage struct {
	Subject string  `json:"subject"`
	Label   string  `json:"label"`
	Average float64 `json:"avg"`
}

// Overview 班级总览聚合
type Overview struct {
	TotalRegistered  int                `json:"totalRegistered"`
	ActiveCount      int                `json:"activeCount"`
	AtRisk           int                `json:"atRisk"`
	DeptCounts       map[string]int     `json:"deptCounts"`
	PassCount        int                `json:"passCount"`
	FailCount        int                `json:"failCount"`
	AvgAttendance    float64            `json:"avgAttendance"`
	AvgStudyHours    float64            `json:"avgStudyHours"`
	AvgInternalMarks float64            `json:"avgInternalMarks"`
	AttendanceBuckets []AttendanceBucket `json:"attendanceBuckets"`
	SubjectAverages  []SubjectAverage   `json:"subjectAverages"`
}

// Overview 各项计数与均值全部由当前花名册推导；均值只计有数据的学生
func (s *FacultyService) Overview(ctx context.Context) (*Overview, error) {
	entries, err := s.Roster(ctx)
	if err != nil {
		return s.overviewFromSnapshot(ctx, err)
	}

	ov := aggregateOverview(entries)
	s.storeSnapshot(ctx, repository.OverviewSnapshotKey, ov)
	return ov, nil
}

func aggregateOverview(entries []RosterEntry) *Overview {
	ov := &Overview{
		TotalRegistered: len(entries),
		DeptCounts:      map[string]int{},
		AttendanceBuckets: []AttendanceBucket{
			{Name: "<60%"},
			{Name: "60-69%"},
			{Name: "70-79%"},
			{Name: "80-89%"},
			{Name: "90-100%"},
		},
	}

	var attSum, studySum, marksSum float64
	var attCount, metricCount int
	var subjectSums [5]float64
	var subjectCount int

	for _, e := range entries {
		dept := e.Department
		if dept == "" {
			dept = "Unknown"
		}
		ov.DeptCounts[dept]++

		if e.IsActive {
			ov.ActiveCount++
		}
		switch e.Prediction {
		case model.PredictionPass:
			ov.PassCount++
		case model.PredictionFail:
			ov.FailCount++
			ov.AtRisk++
		}

		if e.Attendance != nil && *e.Attendance > 0 {
			attSum += *e.Attendance
			attCount++
			a := *e.Attendance
			switch {
			case a < 60:
				ov.AttendanceBuckets[0].Count++
			case a < 70:
				ov.AttendanceBuckets[1].Count++
			case a < 80:
				ov.AttendanceBuckets[2].Count++
			case a < 90:
				ov.AttendanceBuckets[3].Count++
			default:
				ov.AttendanceBuckets[4].Count++
			}
		}
		if e.IsActive {
			metricCount++
			if e.StudyHours != nil {
				studySum += *e.StudyHours
			}
			if e.InternalMarks != nil {
				marksSum += *e.InternalMarks
			}
		}
		if e.SubjectMarks != nil {
			subjectCount++
			values := e.SubjectMarks.Values()
			for i, v := range values {
				subjectSums[i] += v
			}
		}
	}

	if attCount > 0 {
		ov.AvgAttendance = round1(attSum / float64(attCount))
	}
	if metricCount > 0 {
		ov.AvgStudyHours = round1(studySum / float64(metricCount))
		ov.AvgInternalMarks = round1(marksSum / float64(metricCount))
	}

	ov.SubjectAverages = make([]SubjectAverage, 0, 5)
	if subjectCount > 0 {
		for i := range subjectSums {
			ov.SubjectAverages = append(ov.SubjectAverages, SubjectAverage{
				Subject: model.SubjectKeys[i],
				Label:   model.SubjectLabels[i],
				Average: round1(subjectSums[i] / float64(subjectCount)),
			})
		}
	}

	return ov
}

func (s *FacultyService) overviewFromSnapshot(ctx context.Context, cause error) (*Overview, error) {
	raw, ok := s.cache.Get(ctx, repository.OverviewSnapshotKey)
	if !ok {
		return nil, cause
	}
	var ov Overview
	if err := json.Unmarshal(raw, &ov); err != nil {
		return nil, cause
	}
	logger.Log.Warn("Serving overview from cached snapshot", zap.Error(cause))
	return &ov, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// TrendPoint 学生趋势图的一个点，置信度换算为 0-100 整数
type TrendPoint struct {
	Date       string `json:"date"`
	Prediction string `json:"prediction"`
	Confidence int    `json:"confidence"`
}

// StudentAnalytics 单个学生的历史趋势
type StudentAnalytics struct {
	Student RosterEntry  `json:"student"`
	Trend   []TrendPoint `json:"trend"`
}

// Analytics 最多取最近 20 条，倒转为旧到新的时间序
func (s *FacultyService) Analytics(studentID uint) (*StudentAnalytics, error) {
	stu, err := s.users.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if stu.Role != model.Student {
		return nil, util.ErrUserNotFound
	}

	history, err := s.predictions.ListByUser(studentID, util.HistoryMaxLimit)
	if err != nil {
		return nil, err
	}

	entry := RosterEntry{
		ID:         stu.ID,
		Name:       stu.Name,
		Email:      stu.Email,
		USN:        stu.USN,
		Department: stu.Department,
		Prediction: "No Data",
	}
	if len(history) > 0 {
		latest := history[0]
		entry.IsActive = true
		entry.Attendance = &latest.Attendance
		entry.StudyHours = &latest.StudyHours
		entry.InternalMarks = &latest.InternalTotal
		entry.Assignments = &latest.Assignments
		entry.SubjectMarks = latest.SubjectMarks
		entry.Prediction = latest.Prediction
		entry.Confidence = latest.Confidence
		entry.LastActivity = &latest.CreatedAt
	}

	trend := make([]TrendPoint, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		trend = append(trend, TrendPoint{
			Date:       h.CreatedAt.Format(util.TimeFormat),
			Prediction: h.Prediction,
			Confidence: int(math.Round(h.Confidence * 100)),
		})
	}

	return &StudentAnalytics{Student: entry, Trend: trend}, nil
}

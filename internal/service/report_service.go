package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"studperf_backend/internal/util"
	"studperf_backend/pkg/logger"

	"go.uber.org/zap"
)

// rosterCSVHeader 导出列顺序是对外约定，前端按位置解析
var rosterCSVHeader = []string{
	"id", "name", "email", "usn", "department",
	"attendance", "studyHours", "internalMarks", "assignments",
	"prediction", "confidence", "lastActivity",
}

// ReportService 教师端 CSV 导出，并把副本归档到对象存储
type ReportService struct {
	faculty *FacultyService
	storage *StorageService
}

func NewReportService(faculty *FacultyService, storage *StorageService) *ReportService {
	return &ReportService{faculty: faculty, storage: storage}
}

// ExportRoster 生成花名册 CSV。无数据的指标导出为空串而不是 0。
// 归档失败只记日志，不影响下载。
func (s *ReportService) ExportRoster(ctx context.Context) ([]byte, string, error) {
	entries, err := s.faculty.Roster(ctx)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.Name,
			e.Email,
			e.USN,
			e.Department,
			formatOptFloat(e.Attendance),
			formatOptFloat(e.StudyHours),
			formatOptFloat(e.InternalMarks),
			formatOptInt(e.Assignments),
			e.Prediction,
			formatConfidence(e),
			formatOptTime(e.LastActivity),
		}
		rows = append(rows, row)
	}

	data := util.WriteCSV(rosterCSVHeader, rows)
	filename := fmt.Sprintf("students_export_%s.csv", time.Now().Format("20060102_150405"))

	if _, err := s.storage.Provider.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), "text/csv"); err != nil {
		logger.Log.Warn("Failed to archive roster export", zap.String("filename", filename), zap.Error(err))
	}

	return data, filename, nil
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatOptInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatConfidence(e RosterEntry) string {
	if !e.IsActive {
		return ""
	}
	return strconv.FormatFloat(e.Confidence, 'f', -1, 64)
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(util.TimeFormat)
}

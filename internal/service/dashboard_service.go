package service

import (
	"errors"

	"studperf_backend/internal/model"
	"studperf_backend/internal/repository"
	"studperf_backend/internal/util"
	"studperf_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DashboardService 学生仪表盘聚合：最近一次提交的指标即时推导全部展示数据
type DashboardService struct {
	scores      *ScoreService
	predictions *repository.PredictionRepository
	motivations *repository.MotivationRepository
}

func NewDashboardService(scores *ScoreService, predictions *repository.PredictionRepository, motivations *repository.MotivationRepository) *DashboardService {
	return &DashboardService{
		scores:      scores,
		predictions: predictions,
		motivations: motivations,
	}
}

// Dashboard 仪表盘响应。HasData 为假时表示该用户还没有任何提交，
// 前端据此展示空态而不是全 0 的分数（"无数据"不等于"零分"）。
type Dashboard struct {
	HasData         bool                     `json:"hasData"`
	Metrics         *model.MetricInput       `json:"metrics,omitempty"`
	Score           *ComputedScore           `json:"score,omitempty"`
	Prediction      *model.PredictionResult  `json:"prediction,omitempty"`
	Alerts          []string                 `json:"alerts"`
	Recommendations []string                 `json:"recommendations"`
	Pie             []PieSlice               `json:"pie,omitempty"`
	Heatmap         *SubjectBreakdown        `json:"heatmap,omitempty"`
	Recent          []model.PredictionRecord `json:"recent"`
	Motivation      string                   `json:"motivation,omitempty"`
}

// Build 组装仪表盘；没有历史记录时返回空态
func (s *DashboardService) Build(userID uint) (*Dashboard, error) {
	dash := &Dashboard{
		Alerts:          []string{},
		Recommendations: []string{},
		Recent:          []model.PredictionRecord{},
		Motivation:      s.currentMotivation(),
	}

	latest, err := s.predictions.LatestByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dash, nil
		}
		return nil, err
	}

	in := latest.Input()
	score := s.scores.Compute(in)
	prediction := model.PredictionResult{
		Prediction: latest.Prediction,
		Confidence: latest.Confidence,
		Source:     latest.Source,
	}
	alerts, recommendations := s.scores.AlertsAndRecommendations(in, latest.Prediction)
	heatmap := s.scores.SubjectBreakdown(latest.SubjectMarks, in.InternalTotal)

	recent, err := s.predictions.ListByUser(userID, util.HistoryDefaultLimit)
	if err != nil {
		return nil, err
	}

	dash.HasData = true
	dash.Metrics = &in
	dash.Score = &score
	dash.Prediction = &prediction
	dash.Alerts = alerts
	dash.Recommendations = recommendations
	dash.Pie = s.scores.PerformancePie(in)
	dash.Heatmap = &heatmap
	dash.Recent = recent
	return dash, nil
}

// RotateMotivation 轮换到下一条启用的激励短句（每日后台任务）
func (s *DashboardService) RotateMotivation() error {
	ms, err := s.motivations.ListEnabled()
	if err != nil || len(ms) == 0 {
		return err
	}

	current := -1
	for i, m := range ms {
		if m.IsCurrentlyUsed {
			current = i
			break
		}
	}
	next := ms[(current+1)%len(ms)]
	return s.motivations.SetCurrent(next.ID)
}

// currentMotivation 当前启用的激励短句，取不到时不阻断仪表盘
func (s *DashboardService) currentMotivation() string {
	m, err := s.motivations.FindCurrent()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("Failed to load motivation", zap.Error(err))
		}
		return ""
	}
	return m.Content
}

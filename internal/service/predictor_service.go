package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"studperf_backend/internal/config"
	"studperf_backend/internal/model"
	"studperf_backend/internal/repository"
	"studperf_backend/internal/util"
	"studperf_backend/pkg/logger"
	"studperf_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ModelClient 远端 Pass/Fail 推理端点的抽象，便于测试替换
type ModelClient interface {
	Predict(ctx context.Context, in model.MetricInput) (model.PredictionResult, error)
}

// HTTPModelClient 通过 HTTP 调用外部模型服务
type HTTPModelClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPModelClient(cfg config.ModelConfig) *HTTPModelClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPModelClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type modelRequest struct {
	Attendance    float64 `json:"attendance"`
	StudyHours    float64 `json:"studyHours"`
	InternalTotal float64 `json:"internalTotal"`
	Assignments   int     `json:"assignments"`
	Participation string  `json:"participation"`
}

type modelResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// Predict 调用远端 /predict；上游 401/403 映射为会话过期，其余异常映射为
// 服务不可用（由调用方决定是否兜底）。
func (c *HTTPModelClient) Predict(ctx context.Context, in model.MetricInput) (model.PredictionResult, error) {
	body, err := json.Marshal(modelRequest{
		Attendance:    in.Attendance,
		StudyHours:    in.StudyHours,
		InternalTotal: in.InternalTotal,
		Assignments:   in.Assignments,
		Participation: string(in.Participation),
	})
	if err != nil {
		return model.PredictionResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return model.PredictionResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Log.Warn("Model endpoint unreachable", zap.Error(err))
		return model.PredictionResult{}, util.ErrModelUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return model.PredictionResult{}, util.ErrSessionExpired
	case resp.StatusCode != http.StatusOK:
		logger.Log.Warn("Model endpoint returned non-200", zap.Int("status", resp.StatusCode))
		return model.PredictionResult{}, util.ErrModelUnavailable
	}

	var out modelResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		logger.Log.Warn("Model response malformed", zap.Error(err))
		return model.PredictionResult{}, util.ErrModelUnavailable
	}
	if out.Prediction != model.PredictionPass && out.Prediction != model.PredictionFail {
		logger.Log.Warn("Model returned unknown label", zap.String("prediction", out.Prediction))
		return model.PredictionResult{}, util.ErrModelUnavailable
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		logger.Log.Warn("Model returned out-of-range confidence", zap.Float64("confidence", out.Confidence))
		return model.PredictionResult{}, util.ErrModelUnavailable
	}

	return model.PredictionResult{
		Prediction: out.Prediction,
		Confidence: out.Confidence,
		Source:     model.SourceModel,
	}, nil
}

// PredictorService 预测编排：归一化输入、调用模型、失败兜底、写入历史
type PredictorService struct {
	client      ModelClient
	scores      *ScoreService
	predictions *repository.PredictionRepository
}

func NewPredictorService(client ModelClient, scores *ScoreService, predictions *repository.PredictionRepository) *PredictorService {
	return &PredictorService{
		client:      client,
		scores:      scores,
		predictions: predictions,
	}
}

// NormalizeInput 截断指标；提交了科目明细时合计一律取五科之和
func NormalizeInput(in model.MetricInput, marks *model.SubjectMarks) (model.MetricInput, *model.SubjectMarks) {
	if marks != nil {
		clamped := marks.Clamp()
		marks = &clamped
		in.InternalTotal = clamped.Sum()
	}
	return in.Clamp(), marks
}

// resolve 模型优先，不可用时转入本地启发式；会话过期不兜底直接上抛
func (s *PredictorService) resolve(ctx context.Context, in model.MetricInput) (model.PredictionResult, error) {
	result, err := s.client.Predict(ctx, in)
	if err == util.ErrSessionExpired {
		return model.PredictionResult{}, err
	}
	if err != nil {
		logger.Log.Warn("Falling back to heuristic prediction", zap.Error(err))
		result = s.scores.HeuristicPrediction(in)
	}
	monitoring.PredictionCounter.WithLabelValues(string(result.Source), result.Prediction).Inc()
	return result, nil
}

// Predict 学生提交指标：预测成功后追加一条历史记录
func (s *PredictorService) Predict(ctx context.Context, userID uint, in model.MetricInput, marks *model.SubjectMarks) (model.PredictionResult, error) {
	in, marks = NormalizeInput(in, marks)

	result, err := s.resolve(ctx, in)
	if err != nil {
		return model.PredictionResult{}, err
	}

	record := &model.PredictionRecord{
		UserID:        userID,
		Attendance:    in.Attendance,
		StudyHours:    in.StudyHours,
		InternalTotal: in.InternalTotal,
		Assignments:   in.Assignments,
		Participation: in.Participation,
		SubjectMarks:  marks,
		Prediction:    result.Prediction,
		Confidence:    result.Confidence,
		Source:        result.Source,
	}
	if err := s.predictions.Append(record); err != nil {
		// 预测结论本身有效，历史写入失败只记日志不阻断
		logger.Log.Error("Failed to append prediction record",
			zap.Uint("user_id", userID), zap.Error(err))
	}

	return result, nil
}

// Simulate 模拟器（what-if）：同一套预测流程但不落历史
func (s *PredictorService) Simulate(ctx context.Context, in model.MetricInput, marks *model.SubjectMarks) (model.PredictionResult, ComputedScore, error) {
	in, _ = NormalizeInput(in, marks)

	result, err := s.resolve(ctx, in)
	if err != nil {
		return model.PredictionResult{}, ComputedScore{}, err
	}
	return result, s.scores.Compute(in), nil
}

// History 最新在前；limit 越界时回退默认值并封顶
func (s *PredictorService) History(userID uint, limit int) ([]model.PredictionRecord, error) {
	if limit <= 0 {
		limit = util.HistoryDefaultLimit
	}
	if limit > util.HistoryMaxLimit {
		limit = util.HistoryMaxLimit
	}
	return s.predictions.ListByUser(userID, limit)
}


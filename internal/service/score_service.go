package service

import (
	"math"
	"math/rand"
	"studperf_backend/internal/model"
)

// ScoreService 纯函数的评分引擎：综合分、评级、目标、提醒全部由原始指标
// 确定性推导，不访问网络和数据库，可并发复用。
type ScoreService struct {
	rng *rand.Rand // 科目估算的抖动源，nil 时均分不抖动（确定性）
}

func NewScoreService(rng *rand.Rand) *ScoreService {
	return &ScoreService{rng: rng}
}

const (
	LabelExcellent        = "Excellent"
	LabelGood             = "Good"
	LabelAverage          = "Average"
	LabelNeedsImprovement = "Needs Improvement"
)

const (
	TierSuccess = "success"
	TierInfo    = "info"
	TierWarning = "warning"
	TierError   = "error"
)

// ComputedScore 由最新指标即时推导，从不落库
type ComputedScore struct {
	CompositeScore int    `json:"compositeScore"`
	Label          string `json:"label"`
	RiskTier       string `json:"riskTier"`
	Goals          []Goal `json:"goals"`
	AllGoalsMet    bool   `json:"allGoalsMet"`
}

// Goal 未达标维度的目标卡片，含固定的三条任务清单
type Goal struct {
	Description     string   `json:"description"`
	CurrentProgress float64  `json:"currentProgress"`
	Target          float64  `json:"target"`
	ProgressPercent int      `json:"progressPercent"`
	Tasks           []string `json:"tasks"`
	Achieved        bool     `json:"achieved"`
}

// CompositeScore 加权综合分，四舍五入后截断到 [0,100]。
// 系数与缩放因子是对外兼容约定，不可调整。
func (s *ScoreService) CompositeScore(in model.MetricInput) int {
	score := in.Attendance*0.30 +
		in.StudyHours*8*0.20 +
		(in.InternalTotal/2.5)*0.25 +
		float64(in.Assignments)*10*0.10 +
		in.Participation.Weight()*0.15

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// LabelForScore 分数到评级与风险层级的映射，各档下界含等号
func (s *ScoreService) LabelForScore(score int) (label, tier string) {
	switch {
	case score >= 80:
		return LabelExcellent, TierSuccess
	case score >= 60:
		return LabelGood, TierInfo
	case score >= 40:
		return LabelAverage, TierWarning
	default:
		return LabelNeedsImprovement, TierError
	}
}

// Compute 一次性得到综合分、评级与目标列表
func (s *ScoreService) Compute(in model.MetricInput) ComputedScore {
	score := s.CompositeScore(in)
	label, tier := s.LabelForScore(score)
	goals := s.DeriveGoals(in)

	return ComputedScore{
		CompositeScore: score,
		Label:          label,
		RiskTier:       tier,
		Goals:          goals,
		AllGoalsMet:    len(goals) == 0,
	}
}

// DeriveGoals 五个固定维度，达标的维度不出卡片；全部达标返回空列表
func (s *ScoreService) DeriveGoals(in model.MetricInput) []Goal {
	goals := []Goal{}

	if in.Attendance < 75 {
		goals = append(goals, newGoal(
			"Increase attendance to 75%",
			in.Attendance, 75,
			[]string{
				"Attend all classes this week",
				"Avoid unnecessary leave",
				"Check attendance daily",
			},
		))
	}

	if in.StudyHours < 2 {
		goals = append(goals, newGoal(
			"Study for at least 2 hours/day",
			in.StudyHours, 2,
			[]string{
				"Create a study plan",
				"Use time-boxed study sessions",
				"Study one subject per day",
			},
		))
	}

	if in.InternalTotal < 150 {
		goals = append(goals, newGoal(
			"Achieve 150+ internal marks",
			in.InternalTotal, 150,
			[]string{
				"Revise weak subjects",
				"Attend remedial sessions",
				"Complete question bank",
			},
		))
	}

	if in.Assignments < 6 {
		goals = append(goals, newGoal(
			"Submit all assignments",
			float64(in.Assignments), 6,
			[]string{
				"Finish pending assignments",
				"Submit before deadline",
				"Clarify doubts with faculty",
			},
		))
	}

	if in.Participation != model.ParticipationHigh {
		goals = append(goals, newGoal(
			"Increase class participation",
			in.Participation.Ordinal(), 3,
			[]string{
				"Ask questions in class",
				"Join group discussions",
				"Volunteer in activities",
			},
		))
	}

	return goals
}

func newGoal(description string, progress, target float64, tasks []string) Goal {
	pct := int(math.Round(progress / target * 100))
	if pct > 100 {
		pct = 100
	}
	return Goal{
		Description:     description,
		CurrentProgress: progress,
		Target:          target,
		ProgressPercent: pct,
		Tasks:           tasks,
		Achieved:        pct >= 100,
	}
}

// AlertsAndRecommendations 阈值告警按固定顺序独立判定；建议是固定三条，
// 与输入无关（沿用既有产品行为：告警条件化、建议静态化）。
// 指标缺失（为 0）时不触发对应告警，避免把"无数据"当成告警。
func (s *ScoreService) AlertsAndRecommendations(in model.MetricInput, predictionLabel string) (alerts, recommendations []string) {
	alerts = []string{}

	if in.Attendance > 0 && in.Attendance < 75 {
		alerts = append(alerts, "Low attendance — aim for 75%+")
	}
	if in.StudyHours > 0 && in.StudyHours < 2 {
		alerts = append(alerts, "Study more — 2 hours/day recommended")
	}
	if in.InternalTotal > 0 && in.InternalTotal < 150 {
		alerts = append(alerts, "Internal marks low — revise regularly")
	}
	if in.Assignments > 0 && in.Assignments < 3 {
		alerts = append(alerts, "Submit more assignments")
	}
	if predictionLabel == model.PredictionFail {
		alerts = append(alerts, "Model predicted 'Fail' — act fast")
	}

	recommendations = []string{
		"Follow a weekly study schedule",
		"Solve previous question papers",
		"Focus on weak subject areas (see heatmap)",
	}

	return alerts, recommendations
}

const (
	HeatTierLow  = "low"
	HeatTierMid  = "mid"
	HeatTierHigh = "high"
)

// SubjectScore 单科分数与热力层级
type SubjectScore struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Tier  string  `json:"tier"`
}

// SubjectBreakdown 五科分布；Estimated 为真时仅是可视化估算，不可回存
type SubjectBreakdown struct {
	Scores    []SubjectScore `json:"scores"`
	Estimated bool           `json:"estimated"`
}

// SubjectBreakdown 有明细用明细；只有合计时按五科均分加 ±3 抖动估算，
// 每科截断到 [0,50]。估算值只用于展示。
func (s *ScoreService) SubjectBreakdown(marks *model.SubjectMarks, fallbackTotal float64) SubjectBreakdown {
	var values [5]float64
	estimated := false

	if marks != nil {
		values = marks.Values()
	} else if fallbackTotal > 0 {
		estimated = true
		for i := range values {
			share := fallbackTotal / 5
			if s.rng != nil {
				share += s.rng.Float64()*6 - 3
			}
			share = math.Round(share)
			if share < 0 {
				share = 0
			}
			if share > 50 {
				share = 50
			}
			values[i] = share
		}
	}

	scores := make([]SubjectScore, 5)
	for i := range values {
		scores[i] = SubjectScore{
			Key:   model.SubjectKeys[i],
			Label: model.SubjectLabels[i],
			Score: values[i],
			Tier:  HeatTier(values[i]),
		}
	}

	return SubjectBreakdown{Scores: scores, Estimated: estimated}
}

// HeatTier 单科热力层级：<25 低，25-34 中，>=35 高
func HeatTier(score float64) string {
	switch {
	case score < 25:
		return HeatTierLow
	case score < 35:
		return HeatTierMid
	default:
		return HeatTierHigh
	}
}

// PieSlice 综合分构成饼图的一片
type PieSlice struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// PerformancePie 各指标对综合分的贡献占比（仪表盘饼图）
func (s *ScoreService) PerformancePie(in model.MetricInput) []PieSlice {
	values := []PieSlice{
		{Name: "Attendance", Value: in.Attendance},
		{Name: "Study Hours", Value: in.StudyHours * 8},
		{Name: "Internal Marks", Value: in.InternalTotal / 2.5},
		{Name: "Assignments", Value: float64(in.Assignments) * 16.6},
	}

	var total float64
	for _, v := range values {
		total += v.Value
	}
	if total > 0 {
		for i := range values {
			values[i].Percent = values[i].Value / total * 100
		}
	}
	return values
}

// HeuristicPrediction 远端模型不可用时的本地兜底：综合分 >=65 判 Pass，
// 置信度取 score/100 截断到 [0.45,0.95]，来源标记为 heuristic。
func (s *ScoreService) HeuristicPrediction(in model.MetricInput) model.PredictionResult {
	score := s.CompositeScore(in)

	prediction := model.PredictionFail
	if score >= 65 {
		prediction = model.PredictionPass
	}

	confidence := float64(score) / 100
	if confidence < 0.45 {
		confidence = 0.45
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	return model.PredictionResult{
		Prediction: prediction,
		Confidence: confidence,
		Source:     model.SourceHeuristic,
	}
}

// RiskScore 教师端风险分：Fail 取 (1-置信度)，否则取置信度，换算成 0-100
func (s *ScoreService) RiskScore(prediction string, confidence float64) int {
	if prediction == model.PredictionFail {
		return int(math.Round((1 - confidence) * 100))
	}
	return int(math.Round(confidence * 100))
}

// FacultySuggestions 教师端干预建议，阈值规则独立判定
func (s *ScoreService) FacultySuggestions(in model.MetricInput) []string {
	suggestions := []string{}

	if in.Attendance < 75 {
		suggestions = append(suggestions, "Low attendance — recommend attendance counselling.")
	}
	if in.StudyHours < 2 {
		suggestions = append(suggestions, "Increase daily study hours to improve consistency.")
	}
	if in.InternalTotal < 150 {
		suggestions = append(suggestions, "Suggest remedial classes or revision plan.")
	}
	if in.Assignments < 3 {
		suggestions = append(suggestions, "Student is not completing assignments regularly.")
	}
	if in.Participation == model.ParticipationLow {
		suggestions = append(suggestions, "Encourage student to participate in class.")
	}

	return suggestions
}

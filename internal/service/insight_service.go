package service

import (
	"errors"
	"fmt"

	"studperf_backend/internal/model"
	"studperf_backend/internal/repository"

	"gorm.io/gorm"
)

// InsightService 洞察页聚合：指标解读卡片、表现模式、分优先级的行动建议
type InsightService struct {
	predictions *repository.PredictionRepository
}

func NewInsightService(predictions *repository.PredictionRepository) *InsightService {
	return &InsightService{predictions: predictions}
}

// Indicator 单项指标的解读卡片
type Indicator struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Type        string `json:"type"` // success | info | warning | error
}

// Pattern 从指标与预测结论识别出的表现模式
type Pattern struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
	Type        string `json:"type"`
}

// ActionGroup 一组按优先级排列的行动建议
type ActionGroup struct {
	Title    string   `json:"title"`
	Priority string   `json:"priority"` // high | medium | low
	Actions  []string `json:"actions"`
}

type Insights struct {
	HasData     bool          `json:"hasData"`
	Indicators  []Indicator   `json:"indicators"`
	Patterns    []Pattern     `json:"patterns"`
	Suggestions []ActionGroup `json:"suggestions"`
}

// Build 基于最近一次提交生成洞察；无历史时返回空态
func (s *InsightService) Build(userID uint) (*Insights, error) {
	out := &Insights{
		Indicators:  []Indicator{},
		Patterns:    []Pattern{},
		Suggestions: []ActionGroup{},
	}

	latest, err := s.predictions.LatestByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return out, nil
		}
		return nil, err
	}

	in := latest.Input()
	out.HasData = true
	out.Indicators = deriveIndicators(in)
	out.Patterns = derivePatterns(in, latest.Prediction)
	out.Suggestions = deriveSuggestions(in, latest.Prediction)
	return out, nil
}

func deriveIndicators(in model.MetricInput) []Indicator {
	indicators := make([]Indicator, 0, 5)

	att := Indicator{
		Title: "Attendance",
		Value: fmt.Sprintf("%.0f%%", in.Attendance),
	}
	switch {
	case in.Attendance >= 80:
		att.Description = "Excellent attendance!"
		att.Type = TierSuccess
	case in.Attendance >= 60:
		att.Description = "Good attendance, but can improve."
		att.Type = TierWarning
	default:
		att.Description = "Low attendance affecting academic performance."
		att.Type = TierError
	}
	indicators = append(indicators, att)

	study := Indicator{
		Title: "Study Hours",
		Value: fmt.Sprintf("%.1f hrs/day", in.StudyHours),
	}
	if in.StudyHours >= 3 {
		study.Description = "Strong study habits!"
		study.Type = TierSuccess
	} else {
		study.Description = "Increase study hours for better performance."
		study.Type = TierWarning
	}
	indicators = append(indicators, study)

	// 阈值按 250 分总分折算（单科 35/50 的比例）
	marks := Indicator{
		Title: "Internal Marks",
		Value: fmt.Sprintf("%.0f/250", in.InternalTotal),
	}
	if in.InternalTotal >= 175 {
		marks.Description = "Good internal marks!"
		marks.Type = TierSuccess
	} else {
		marks.Description = "Marks below average. More revision needed."
		marks.Type = TierError
	}
	indicators = append(indicators, marks)

	assignments := Indicator{
		Title: "Assignments",
		Value: fmt.Sprintf("%d", in.Assignments),
	}
	if in.Assignments >= 4 {
		assignments.Description = "Consistent assignment submission!"
		assignments.Type = TierSuccess
	} else {
		assignments.Description = "Submit more assignments to improve understanding."
		assignments.Type = TierWarning
	}
	indicators = append(indicators, assignments)

	participation := Indicator{
		Title: "Participation",
		Value: string(in.Participation),
	}
	if in.Participation == model.ParticipationHigh {
		participation.Description = "Good participation in activities!"
		participation.Type = TierSuccess
	} else {
		participation.Description = "Engage more in academic/skill activities."
		participation.Type = TierInfo
	}
	indicators = append(indicators, participation)

	return indicators
}

func derivePatterns(in model.MetricInput, predictionLabel string) []Pattern {
	patterns := []Pattern{}

	if predictionLabel == model.PredictionFail {
		patterns = append(patterns, Pattern{
			Title:       "At-Risk Performance",
			Description: "Your academic indicators suggest risk. Improvements needed in key areas.",
			Suggestion:  "Increase study hours, improve attendance, and revise internal tests.",
			Type:        TierWarning,
		})
	}

	if in.Attendance < 60 {
		patterns = append(patterns, Pattern{
			Title:       "Low Attendance Pattern",
			Description: "Your attendance is significantly below safe levels.",
			Suggestion:  "Aim for 75%+ attendance to avoid detainment risk.",
			Type:        TierError,
		})
	}

	if in.StudyHours < 2 {
		patterns = append(patterns, Pattern{
			Title:       "Low Study Time Trend",
			Description: "Study hours are below expected levels.",
			Suggestion:  "Try to schedule at least 2-3 hours of focused study daily.",
			Type:        TierWarning,
		})
	}

	return patterns
}

func deriveSuggestions(in model.MetricInput, predictionLabel string) []ActionGroup {
	groups := []ActionGroup{}

	if predictionLabel == model.PredictionFail {
		groups = append(groups, ActionGroup{
			Title:    "Boost Your Study Routine",
			Priority: "high",
			Actions: []string{
				"Increase study hours by at least 1 hour per day.",
				"Practice previous question papers regularly.",
				"Attend remedial classes if available.",
			},
		})
	}

	if in.InternalTotal < 175 {
		groups = append(groups, ActionGroup{
			Title:    "Improve Internal Performance",
			Priority: "high",
			Actions: []string{
				"Revise chapters weekly.",
				"Attempt practice quizzes.",
				"Meet faculty for doubt clarification.",
			},
		})
	}

	if in.Assignments < 3 {
		groups = append(groups, ActionGroup{
			Title:    "Complete Pending Assignments",
			Priority: "medium",
			Actions: []string{
				"Finish all pending assignments this week.",
				"Start tracking assignment deadlines.",
			},
		})
	}

	if in.Participation == model.ParticipationLow {
		groups = append(groups, ActionGroup{
			Title:    "Increase Academic Activities",
			Priority: "low",
			Actions: []string{
				"Participate in online quizzes, coding challenges, or seminars.",
			},
		})
	}

	return groups
}

package model

// Participation 课堂参与度等级
type Participation string

const (
	ParticipationLow    Participation = "Low"
	ParticipationMedium Participation = "Medium"
	ParticipationHigh   Participation = "High"
)

// Weight 综合评分中参与度的数值权重
func (p Participation) Weight() float64 {
	switch p {
	case ParticipationHigh:
		return 10
	case ParticipationMedium:
		return 5
	default:
		return 2
	}
}

// Ordinal 目标进度用的序数（Low=1, Medium=2, High=3）
func (p Participation) Ordinal() float64 {
	switch p {
	case ParticipationHigh:
		return 3
	case ParticipationMedium:
		return 2
	default:
		return 1
	}
}

func (p Participation) Valid() bool {
	return p == ParticipationLow || p == ParticipationMedium || p == ParticipationHigh
}

// MetricInput 一次评估提交的原始指标，已在边界处归一化并截断到合法域
type MetricInput struct {
	Attendance    float64       `json:"attendance"`    // [0,100] 百分比
	StudyHours    float64       `json:"studyHours"`    // [0,6] 小时/天
	InternalTotal float64       `json:"internalTotal"` // [0,250] 五科合计
	Assignments   int           `json:"assignments"`   // [0,6]
	Participation Participation `json:"participation"`
}

// Clamp 将各指标截断到各自的合法域
func (in MetricInput) Clamp() MetricInput {
	in.Attendance = clampFloat(in.Attendance, 0, 100)
	in.StudyHours = clampFloat(in.StudyHours, 0, 6)
	in.InternalTotal = clampFloat(in.InternalTotal, 0, 250)
	in.Assignments = int(clampFloat(float64(in.Assignments), 0, 6))
	if !in.Participation.Valid() {
		in.Participation = ParticipationMedium
	}
	return in
}

// SubjectKeys 固定的五门课程标识，顺序即展示顺序
var SubjectKeys = [5]string{"sepm", "cn", "toc", "cvcc", "rm"}

// SubjectLabels 与 SubjectKeys 对应的展示名
var SubjectLabels = [5]string{"SEPM", "CN", "TOC", "CV/CC", "RM"}

// SubjectMarks 按课程细分的平时分，每门 [0,50]
type SubjectMarks struct {
	SEPM float64 `json:"sepm"`
	CN   float64 `json:"cn"`
	TOC  float64 `json:"toc"`
	CVCC float64 `json:"cvcc"`
	RM   float64 `json:"rm"`
}

// Values 按固定顺序返回五门分数
func (m SubjectMarks) Values() [5]float64 {
	return [5]float64{m.SEPM, m.CN, m.TOC, m.CVCC, m.RM}
}

// Sum 五门合计，即 internalTotal 的唯一来源（不变量：细分时合计不可独立编辑）
func (m SubjectMarks) Sum() float64 {
	return m.SEPM + m.CN + m.TOC + m.CVCC + m.RM
}

// Clamp 每门截断到 [0,50]
func (m SubjectMarks) Clamp() SubjectMarks {
	m.SEPM = clampFloat(m.SEPM, 0, 50)
	m.CN = clampFloat(m.CN, 0, 50)
	m.TOC = clampFloat(m.TOC, 0, 50)
	m.CVCC = clampFloat(m.CVCC, 0, 50)
	m.RM = clampFloat(m.RM, 0, 50)
	return m
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package model

// PredictionSource 预测结果来源
type PredictionSource string

const (
	SourceModel     PredictionSource = "model"     // 远端模型服务
	SourceHeuristic PredictionSource = "heuristic" // 本地启发式兜底
)

const (
	PredictionPass = "Pass"
	PredictionFail = "Fail"
)

// PredictionResult 模型（或兜底启发式）返回的结论
type PredictionResult struct {
	Prediction string           `json:"prediction"` // "Pass" | "Fail"
	Confidence float64          `json:"confidence"` // [0,1]
	Source     PredictionSource `json:"source"`
}

// PredictionRecord 每次成功预测落库一条，按用户倒序展示
// swagger:model PredictionRecord
type PredictionRecord struct {
	BaseModel
	UserID        uint          `gorm:"index;not null" json:"userId"`
	Attendance    float64       `json:"attendance"`
	StudyHours    float64       `json:"studyHours"`
	InternalTotal float64       `json:"internalTotal"`
	Assignments   int           `json:"assignments"`
	Participation Participation `gorm:"size:10" json:"participation"`
	SubjectMarks  *SubjectMarks `gorm:"serializer:json" json:"subjectMarks,omitempty"`
	Prediction    string        `gorm:"size:10" json:"prediction"`
	Confidence    float64       `json:"confidence"`
	Source        PredictionSource `gorm:"size:16;default:'model'" json:"source"`
}

func (PredictionRecord) TableName() string {
	return "prediction_records"
}

// Input 还原该记录对应的指标输入
func (r *PredictionRecord) Input() MetricInput {
	return MetricInput{
		Attendance:    r.Attendance,
		StudyHours:    r.StudyHours,
		InternalTotal: r.InternalTotal,
		Assignments:   r.Assignments,
		Participation: r.Participation,
	}
}

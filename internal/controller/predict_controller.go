package controller

import (
	"errors"
	"strconv"

	"studperf_backend/internal/model"
	"studperf_backend/internal/service"
	"studperf_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PredictController struct {
	Predictor *service.PredictorService
	Scores    *service.ScoreService
}

func NewPredictController(predictor *service.PredictorService, scores *service.ScoreService) *PredictController {
	return &PredictController{Predictor: predictor, Scores: scores}
}

// SubjectMarksRequest 五科平时分明细
type SubjectMarksRequest struct {
	SEPM float64 `json:"sepm"`
	CN   float64 `json:"cn"`
	TOC  float64 `json:"toc"`
	CVCC float64 `json:"cvcc"`
	RM   float64 `json:"rm"`
}

// MetricRequest 指标提交请求。studyHours/internalTotal 同时接受历史版本的
// 下划线拼写（过渡期兼容，新客户端只发驼峰）。
type MetricRequest struct {
	Attendance    float64 `json:"attendance"`
	StudyHours    float64 `json:"studyHours"`
	InternalTotal float64 `json:"internalTotal"`
	Assignments   int     `json:"assignments"`
	Participation string  `json:"participation" binding:"required,oneof=Low Medium High"`

	LegacyStudyHours    float64 `json:"study_hours"`
	LegacyInternalTotal float64 `json:"internal_total"`

	SubjectMarks *SubjectMarksRequest `json:"subjectMarks"`
}

func (r *MetricRequest) toInput() (model.MetricInput, *model.SubjectMarks) {
	studyHours := r.StudyHours
	if studyHours == 0 && r.LegacyStudyHours > 0 {
		studyHours = r.LegacyStudyHours
	}
	internalTotal := r.InternalTotal
	if internalTotal == 0 && r.LegacyInternalTotal > 0 {
		internalTotal = r.LegacyInternalTotal
	}

	in := model.MetricInput{
		Attendance:    r.Attendance,
		StudyHours:    studyHours,
		InternalTotal: internalTotal,
		Assignments:   r.Assignments,
		Participation: model.Participation(r.Participation),
	}

	var marks *model.SubjectMarks
	if r.SubjectMarks != nil {
		marks = &model.SubjectMarks{
			SEPM: r.SubjectMarks.SEPM,
			CN:   r.SubjectMarks.CN,
			TOC:  r.SubjectMarks.TOC,
			CVCC: r.SubjectMarks.CVCC,
			RM:   r.SubjectMarks.RM,
		}
	}
	return in, marks
}

// Predict godoc
// @Summary 提交指标并获取 Pass/Fail 预测
// @Description 调用外部模型服务，不可用时转入本地启发式兜底；成功后写入历史
// @Tags 预测
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body MetricRequest true "学业指标"
// @Success 200 {object} util.Response{data=object} "预测结果"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "会话过期"
// @Router /api/predict [post]
func (c *PredictController) Predict(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MetricRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	in, marks := req.toInput()
	result, err := c.Predictor.Predict(ctx.Request.Context(), claims.UserID, in, marks)
	if err != nil {
		if errors.Is(err, util.ErrSessionExpired) {
			util.SessionExpired(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	norm, _ := service.NormalizeInput(in, marks)
	score := c.Scores.Compute(norm)
	alerts, recommendations := c.Scores.AlertsAndRecommendations(norm, result.Prediction)

	util.Success(ctx, gin.H{
		"prediction":      result,
		"score":           score,
		"alerts":          alerts,
		"recommendations": recommendations,
	})
}

// Simulate godoc
// @Summary 模拟器（what-if 分析）
// @Description 与 /predict 相同的评估流程，但不写入历史
// @Tags 预测
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body MetricRequest true "假设的学业指标"
// @Success 200 {object} util.Response{data=object} "模拟结果"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/predict/simulate [post]
func (c *PredictController) Simulate(ctx *gin.Context) {
	var req MetricRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	in, marks := req.toInput()
	result, score, err := c.Predictor.Simulate(ctx.Request.Context(), in, marks)
	if err != nil {
		if errors.Is(err, util.ErrSessionExpired) {
			util.SessionExpired(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"prediction": result,
		"score":      score,
	})
}

// History godoc
// @Summary 预测历史
// @Description 最新在前；limit 默认 5，上限 20
// @Tags 预测
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "返回条数"
// @Success 200 {object} util.Response{data=[]model.PredictionRecord} "历史记录"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/history [get]
func (c *PredictController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	records, err := c.Predictor.History(claims.UserID, limit)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		util.LogInternalError(ctx, err)
		return
	}
	if records == nil {
		records = []model.PredictionRecord{}
	}
	util.Success(ctx, records)
}

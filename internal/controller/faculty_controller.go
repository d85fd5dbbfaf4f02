package controller

import (
	"errors"

	"studperf_backend/internal/service"
	"studperf_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FacultyController struct {
	Faculty   *service.FacultyService
	Predictor *service.PredictorService
	Scores    *service.ScoreService
	Reports   *service.ReportService
}

func NewFacultyController(faculty *service.FacultyService, predictor *service.PredictorService, scores *service.ScoreService, reports *service.ReportService) *FacultyController {
	return &FacultyController{
		Faculty:   faculty,
		Predictor: predictor,
		Scores:    scores,
		Reports:   reports,
	}
}

// Predict godoc
// @Summary 教师端预测（任意指标组合）
// @Description 不关联学生账号、不写历史；返回风险分与干预建议
// @Tags 教师端
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body MetricRequest true "学业指标"
// @Success 200 {object} util.Response{data=object} "预测与干预建议"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无教师权限"
// @Router /api/faculty/predict [post]
func (c *FacultyController) Predict(ctx *gin.Context) {
	var req MetricRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	in, marks := req.toInput()
	result, _, err := c.Predictor.Simulate(ctx.Request.Context(), in, marks)
	if err != nil {
		if errors.Is(err, util.ErrSessionExpired) {
			util.SessionExpired(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	norm, _ := service.NormalizeInput(in, marks)
	util.Success(ctx, gin.H{
		"prediction":  result,
		"riskScore":   c.Scores.RiskScore(result.Prediction, result.Confidence),
		"suggestions": c.Scores.FacultySuggestions(norm),
	})
}

// Roster godoc
// @Summary 学生花名册
// @Description 全部学生叠加最近一次提交与预测结论
// @Tags 教师端
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.RosterEntry} "花名册"
// @Failure 403 {object} util.Response "无教师权限"
// @Router /api/faculty/students/latest [get]
func (c *FacultyController) Roster(ctx *gin.Context) {
	entries, err := c.Faculty.Roster(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Overview godoc
// @Summary 班级总览
// @Description 注册/活跃/风险计数、院系分布、通过率、均值、出勤分布与各科均分
// @Tags 教师端
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Overview} "班级聚合"
// @Failure 403 {object} util.Response "无教师权限"
// @Router /api/faculty/overview [get]
func (c *FacultyController) Overview(ctx *gin.Context) {
	ov, err := c.Faculty.Overview(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, ov)
}

// Analytics godoc
// @Summary 单个学生的历史趋势
// @Description 最多 20 条，旧到新排序，置信度换算为 0-100
// @Tags 教师端
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "学生 ID"
// @Success 200 {object} util.Response{data=service.StudentAnalytics} "趋势数据"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/faculty/students/{id}/analytics [get]
func (c *FacultyController) Analytics(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	analytics, err := c.Faculty.Analytics(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, analytics)
}

// Export godoc
// @Summary 导出花名册 CSV
// @Description 全字段加引号的 CSV，同时归档一份到对象存储
// @Tags 教师端
// @Produce  text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV 文件"
// @Failure 403 {object} util.Response "无教师权限"
// @Router /api/faculty/export [get]
func (c *FacultyController) Export(ctx *gin.Context) {
	data, filename, err := c.Reports.ExportRoster(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(200, "text/csv; charset=utf-8", data)
}

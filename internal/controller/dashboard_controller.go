package controller

import (
	"studperf_backend/internal/service"
	"studperf_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
	Insights         *service.InsightService
}

func NewDashboardController(dashboard *service.DashboardService, insights *service.InsightService) *DashboardController {
	return &DashboardController{DashboardService: dashboard, Insights: insights}
}

// Dashboard godoc
// @Summary 学生仪表盘
// @Description 基于最近一次提交聚合综合分、目标、告警、饼图、热力图与最近历史
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard} "仪表盘数据"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/dashboard [get]
func (c *DashboardController) Dashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dash, err := c.DashboardService.Build(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dash)
}

// InsightsPage godoc
// @Summary 学业洞察
// @Description 指标解读、表现模式与分优先级的行动建议
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Insights} "洞察数据"
// @Failure 401 {object} util.Response "未认证"
// @Router /api/insights [get]
func (c *DashboardController) InsightsPage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	insights, err := c.Insights.Build(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, insights)
}

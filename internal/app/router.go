package app

import (
	"studperf_backend/docs"
	"studperf_backend/internal/config"
	"studperf_backend/internal/middleware"
	"studperf_backend/internal/model"
	"studperf_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/signup", c.auth.Signup)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/profile", c.auth.Profile)

		authGroup.POST("/predict", c.predict.Predict)
		authGroup.POST("/predict/simulate", c.predict.Simulate)
		authGroup.GET("/history", c.predict.History)

		authGroup.GET("/dashboard", c.dashboard.Dashboard)
		authGroup.GET("/insights", c.dashboard.InsightsPage)

		// 教师端接口
		faculty := authGroup.Group("/faculty")
		faculty.Use(middleware.RoleMiddleware(model.Faculty))
		{
			faculty.POST("/predict", c.faculty.Predict)
			faculty.GET("/students/latest", c.faculty.Roster)
			faculty.GET("/overview", c.faculty.Overview)
			faculty.GET("/students/:id/analytics", c.faculty.Analytics)
			faculty.GET("/export", c.faculty.Export)
		}
	}
}

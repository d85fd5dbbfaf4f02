package app

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studperf_backend/internal/config"
	"studperf_backend/internal/controller"
	"studperf_backend/internal/middleware"
	"studperf_backend/internal/repository"
	"studperf_backend/internal/service"
	"studperf_backend/internal/util"
	"studperf_backend/pkg/database"
	"studperf_backend/pkg/logger"
	"studperf_backend/pkg/monitoring"
	"studperf_backend/pkg/security"
	"studperf_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	prediction *repository.PredictionRepository
	motivation *repository.MotivationRepository
	roster     repository.RosterCache
}

type services struct {
	score     *service.ScoreService
	auth      *service.AuthService
	predictor *service.PredictorService
	dashboard *service.DashboardService
	insight   *service.InsightService
	faculty   *service.FacultyService
	storage   *service.StorageService
	report    *service.ReportService
}

type controllers struct {
	auth      *controller.AuthController
	predict   *controller.PredictController
	dashboard *controller.DashboardController
	faculty   *controller.FacultyController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新回调入口（configwatcher 触发）
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		prediction: repository.NewPredictionRepository(db),
		motivation: repository.NewMotivationRepository(db),
		roster:     repository.NewRedisRosterCache(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.score = service.NewScoreService(rand.New(rand.NewSource(time.Now().UnixNano())))
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.prediction, cfg)
	s.predictor = service.NewPredictorService(
		service.NewHTTPModelClient(cfg.Model),
		s.score,
		repos.prediction,
	)
	s.dashboard = service.NewDashboardService(s.score, repos.prediction, repos.motivation)
	s.insight = service.NewInsightService(repos.prediction)
	s.faculty = service.NewFacultyService(repos.user, repos.prediction, repos.roster)
	s.report = service.NewReportService(s.faculty, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		predict:   controller.NewPredictController(s.predictor, s.score),
		dashboard: controller.NewDashboardController(s.dashboard, s.insight),
		faculty:   controller.NewFacultyController(s.faculty, s.predictor, s.score, s.report),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 定期刷新花名册快照（离线兜底）并每日轮换激励短句
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		for range ticker.C {
			if _, err := s.faculty.Overview(context.Background()); err != nil {
				logger.Log.Warn("roster snapshot refresh failed", zap.Error(err))
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			if err := s.dashboard.RotateMotivation(); err != nil {
				logger.Log.Warn("motivation rotation failed", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	// 热更新只替换配置快照；已建立的连接和中间件不重建
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.Config = newCfg
		logger.Log.Info("Configuration reloaded")
	})

	repos := app.initRepositories(db, rdb)
	svcs := app.initServices(repos, cfg)
	app.services = svcs
	ctrls := app.initControllers(svcs, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("studperf-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/reports", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(svcs)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}

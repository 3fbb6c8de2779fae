package app

import (
	"context"
	"js_learning_backend/internal/config"
	"js_learning_backend/internal/controller"
	"js_learning_backend/internal/repository"
	"js_learning_backend/internal/service"
	"js_learning_backend/pkg/database"
	"js_learning_backend/pkg/logger"
	"js_learning_backend/pkg/monitoring"
	"js_learning_backend/pkg/security"
	"js_learning_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	enrollment  *repository.EnrollmentRepository
	lesson      *repository.LessonRepository
	test        *repository.TestRepository
	testResult  *repository.TestResultRepository
	progress    *repository.ProgressRepository
	achievement *repository.AchievementRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     *service.StorageService
	course      *service.CourseService
	lesson      *service.LessonService
	test        *service.TestService
	grading     *service.GradingService
	achievement *service.AchievementService
	dashboard   *service.DashboardService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	course    *controller.CourseController
	lesson    *controller.LessonController
	test      *controller.TestController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		lesson:      repository.NewLessonRepository(db),
		test:        repository.NewTestRepository(db),
		testResult:  repository.NewTestResultRepository(db),
		progress:    repository.NewProgressRepository(db),
		achievement: repository.NewAchievementRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.achievement = service.NewAchievementService(repos.achievement, repos.progress)
	s.grading = service.NewGradingService(repos.test, repos.testResult, repos.progress, s.achievement, cfg.Testing.MaxAttempts)
	s.lesson = service.NewLessonService(repos.lesson, repos.course, repos.test, repos.progress, repos.enrollment, s.grading, s.achievement)
	s.test = service.NewTestService(repos.test, repos.lesson, repos.course)
	s.course = service.NewCourseService(repos.course, repos.enrollment, repos.lesson, repos.progress, s.storage, cfg, rdb)
	s.dashboard = service.NewDashboardService(repos.course, repos.enrollment, repos.lesson, repos.progress, repos.testResult, repos.achievement)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user),
		user:      controller.NewUserController(s.user),
		course:    controller.NewCourseController(s.course, s.lesson),
		lesson:    controller.NewLessonController(s.lesson),
		test:      controller.NewTestController(s.test, s.lesson, s.grading),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(&cfg.CORS))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(&cfg.RateLimit))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// OnConfigReload 配置热更新回调：目前只有尝试次数上限支持热更
func (a *App) OnConfigReload(cfg *config.Config) {
	if a.services != nil && a.services.grading != nil {
		a.services.grading.SetMaxAttempts(cfg.Testing.MaxAttempts)
		logger.Log.Info("max test attempts reloaded", zap.Int("maxAttempts", cfg.Testing.MaxAttempts))
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	// release 模式下迁移需要显式 --migrate
	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 不可用时课程目录缓存退化为直查数据库
		logger.Log.Warn("Failed to initialize redis, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("js-learning-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}

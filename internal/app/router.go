package app

import (
	"js_learning_backend/docs"
	"js_learning_backend/internal/config"
	"js_learning_backend/internal/middleware"
	"js_learning_backend/internal/model"
	"js_learning_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录对游客开放，登录学生附带选课状态
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.course.Catalog)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(cfg), c.course.Get)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.PUT("/profile/password", c.user.ChangePassword)

	rg.GET("/dashboard", c.dashboard.Student)

	rg.POST("/courses/:id/enroll", c.course.Enroll)
	rg.DELETE("/courses/:id/enroll", c.course.Unenroll)

	// 课时访问受顺序闯关限制
	rg.GET("/lessons/:id", c.lesson.Detail)
	rg.POST("/lessons/:id/complete", c.lesson.Complete)
	rg.POST("/lessons/:id/test/submit", c.test.Submit)
	rg.GET("/lessons/:id/test/results", c.test.Results)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/dashboard", c.dashboard.Teacher)

		teacher.GET("/courses", c.course.ListMine)
		teacher.POST("/courses", c.course.Create)
		teacher.PUT("/courses/:id", c.course.Update)
		teacher.DELETE("/courses/:id", c.course.Delete)
		teacher.POST("/courses/:id/image", c.course.UploadImage)
		teacher.GET("/courses/:id/results", c.dashboard.CourseResults)

		teacher.POST("/courses/:id/lessons", c.lesson.Create)
		teacher.PUT("/courses/:id/lessons/reorder", c.lesson.Reorder)
		teacher.PUT("/lessons/:id", c.lesson.Update)
		teacher.DELETE("/lessons/:id", c.lesson.Delete)

		teacher.POST("/lessons/:id/test", c.test.CreateTest)
		teacher.GET("/tests/:id", c.test.GetTest)
		teacher.PUT("/tests/:id", c.test.UpdateTest)
		teacher.DELETE("/tests/:id", c.test.DeleteTest)
		teacher.POST("/tests/:id/questions", c.test.AddQuestion)
		teacher.PUT("/questions/:id", c.test.UpdateQuestion)
		teacher.DELETE("/questions/:id", c.test.DeleteQuestion)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		admin.GET("/users", c.user.List)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)
		admin.PUT("/users/:id/role", c.user.SetRole)
	}
}

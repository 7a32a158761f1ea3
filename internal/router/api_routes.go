package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"school-web/internal/config"
	"school-web/internal/handler"
	"school-web/internal/importer"
	"school-web/internal/middleware"
	"school-web/internal/repository"
	"school-web/internal/service"
	"school-web/internal/utils"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	// Repositories
	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	importLogRepo := repository.NewImportLogRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	excelService := service.NewExcelService()

	// Staging store: Redis when available, in-memory fallback otherwise.
	var staging importer.StagingStore
	if redis != nil {
		staging = importer.NewRedisStaging(redis, cfg.StagingTTL)
	} else {
		utils.GetLogger().Warn("Redis unavailable; staged imports will not survive a restart")
		staging = importer.NewMemoryStaging()
	}
	sessions := importer.NewSessionManager()

	// Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	classHandler := handler.NewClassHandler(classRepo, excelService, cfg.ExportPath)
	teacherHandler := handler.NewTeacherHandler(teacherRepo, excelService, cfg.ExportPath)
	studentHandler := handler.NewStudentHandler(studentRepo, excelService, cfg.ExportPath)
	importHandler := handler.NewImportHandler(
		staging, sessions, excelService, importLogRepo,
		classRepo, teacherRepo, studentRepo,
		asynqClient, cfg,
	)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)

	// Class routes
	classes := protected.Group("/classes")
	classes.Get("/", classHandler.GetClasses)
	classes.Get("/export", classHandler.ExportClasses)
	classes.Get("/:id", classHandler.GetClass)
	classes.Post("/", classHandler.CreateClass)
	classes.Put("/:id", classHandler.UpdateClass)
	classes.Delete("/:id", classHandler.DeleteClass)

	// Teacher routes
	teachers := protected.Group("/teachers")
	teachers.Get("/", teacherHandler.GetTeachers)
	teachers.Get("/export", teacherHandler.ExportTeachers)
	teachers.Get("/:id", teacherHandler.GetTeacher)
	teachers.Post("/", teacherHandler.CreateTeacher)
	teachers.Put("/:id", teacherHandler.UpdateTeacher)
	teachers.Delete("/:id", teacherHandler.DeleteTeacher)

	// Student routes
	students := protected.Group("/students")
	students.Get("/", studentHandler.GetStudents)
	students.Get("/export", studentHandler.ExportStudents)
	students.Get("/:id", studentHandler.GetStudent)
	students.Post("/", studentHandler.CreateStudent)
	students.Put("/:id", studentHandler.UpdateStudent)
	students.Delete("/:id", studentHandler.DeleteStudent)

	// Bulk import routes
	imports := protected.Group("/imports")
	imports.Get("/logs", importHandler.RecentLogs)
	imports.Post("/:kind/upload", importHandler.UploadFile)
	imports.Get("/:kind/template", importHandler.DownloadTemplate)
	imports.Get("/:kind/sessions/:code", importHandler.OpenSession)
	imports.Put("/:kind/sessions/:code/cells", importHandler.EditCell)
	imports.Post("/:kind/sessions/:code/commit", importHandler.Commit)
	imports.Delete("/:kind/sessions/:code", importHandler.Abandon)
}

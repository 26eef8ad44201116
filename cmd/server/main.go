package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"talenthub/internal/config"
	"talenthub/internal/domain/fiber/handler"
	applogger "talenthub/internal/logger"
	"talenthub/internal/middleware"
	"talenthub/internal/model"
	"talenthub/internal/repository"
	"talenthub/internal/service"
	"talenthub/internal/usecase"
	"talenthub/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	embeddingBackfillBatch   = 50
	deviceTokenTTL           = 90 * 24 * time.Hour
	deviceTokenSweepInterval = 24 * time.Hour
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	zl, err := applogger.New(appConfig.Env)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer zl.Sync()

	skills, err := config.LoadSkillsConfig()
	if err != nil {
		zl.Warn("skills dictionary unavailable, continuing without it", zap.Error(err))
		skills = config.NewSkillsConfig(nil)
	}

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))
	app.Use(middleware.Auth())

	db := ConnectDB(zl)

	analysisRepo := repository.NewAnalysisRepository(db)
	jobRepo := repository.NewJobRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	gemini, err := service.NewGeminiService(ctx, zl)
	if err != nil {
		zl.Fatal("could not initialize gemini client", zap.Error(err))
	}
	orchestrator := service.NewOrchestrator(gemini, zl)
	cloudinary := service.NewCloudinaryService(zl)
	realtime := service.NewFirebaseRTDBService(zl)
	fcm := service.NewFCMService(zl)
	mailer := service.NewSMTPMailService(zl)
	extractor := util.NewExtractor(zl)

	notificationUC := usecase.NewNotificationUsecase(notificationRepo, fcm, mailer, zl)
	behaviorUC := usecase.NewBehaviorUsecase(behaviorRepo, jobRepo, notificationUC, zl)
	analysisUC := usecase.NewAnalysisUsecase(analysisRepo, matchRepo, jobRepo, extractor, orchestrator, cloudinary, behaviorUC, notificationUC, zl)
	recommendationUC := usecase.NewRecommendationUsecase(jobRepo, matchRepo, analysisRepo, orchestrator, gemini, behaviorUC, skills, zl)
	exportUC := usecase.NewExportUsecase(analysisRepo, zl)
	chatUC := usecase.NewChatUsecase(realtime, zl)

	handler.NewAnalysisHandler(analysisUC, exportUC, appConfig.UploadDir).RegisterRoutes(app)
	handler.NewRecommendationHandler(recommendationUC).RegisterRoutes(app)
	handler.NewBehaviorHandler(behaviorUC).RegisterRoutes(app)
	handler.NewChatHandler(chatUC).RegisterRoutes(app)
	handler.NewNotificationHandler(notificationUC).RegisterRoutes(app)

	go backfillEmbeddings(ctx, jobRepo, gemini, zl)

	go func() {
		ticker := time.NewTicker(deviceTokenSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			notificationUC.CleanupExpiredTokens(deviceTokenTTL)
		}
	}()

	zl.Info("server starting", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func ConnectDB(zl *zap.Logger) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
		dbConfig.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		zl.Fatal("could not connect to database", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		zl.Fatal("could not get database instance", zap.Error(err))
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.AnalysisRun{},
		&model.Job{},
		&model.JobMatch{},
		&model.SearchEvent{},
		&model.JobViewEvent{},
		&model.ApplicationEvent{},
		&model.Notification{},
		&model.DeviceToken{},
	)
	if err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	return db
}

// backfillEmbeddings embeds any jobs that were ingested before the
// embedding pipeline existed. One batch per start-up is enough; the
// remainder is picked up on the next restart.
func backfillEmbeddings(ctx context.Context, jobs *repository.JobRepository, embedder service.Embedder, zl *zap.Logger) {
	pending, err := jobs.FindMissingEmbeddings(embeddingBackfillBatch)
	if err != nil {
		zl.Warn("embedding backfill scan failed", zap.Error(err))
		return
	}
	for i := range pending {
		job := &pending[i]
		vec, err := embedder.GenerateEmbedding(ctx, job.Title+"\n"+job.Description)
		if err != nil {
			zl.Warn("embedding backfill failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
			continue
		}
		job.Embedding = pgvector.NewVector(vec)
		if err := jobs.Update(job); err != nil {
			zl.Warn("embedding backfill save failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	}
	if len(pending) > 0 {
		zl.Info("embedding backfill pass complete", zap.Int("jobs", len(pending)))
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/voxera-dev/voxera-api/internal/config"
	"github.com/voxera-dev/voxera-api/internal/database"
	"github.com/voxera-dev/voxera-api/internal/handler"
	"github.com/voxera-dev/voxera-api/internal/middleware"
	"github.com/voxera-dev/voxera-api/internal/models"
	"github.com/voxera-dev/voxera-api/internal/repository"
	"github.com/voxera-dev/voxera-api/internal/router"
	"github.com/voxera-dev/voxera-api/internal/service"
	"github.com/voxera-dev/voxera-api/pkg/ai"
	cloud "github.com/voxera-dev/voxera-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Test{},
		&models.Question{},
		&models.Interview{},
		&models.Response{},
		&models.Report{},
		&models.Score{},
		&models.Recording{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, report caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	} else {
		logger.Warn().Msg("nats url not configured, interview events stay node-local")
	}

	var storage service.FileStorage
	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		storage = uploader
	}

	var evaluator ai.Evaluator
	var transcriber ai.Transcriber
	if cfg.OpenAIAPIKey != "" {
		generator, err := ai.NewOpenAIGenerator(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.EvaluationModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create evaluation client: %v", err)
		}
		evaluator = ai.NewPipeline(generator, ai.PipelineConfig{
			Timeout: cfg.EvaluationTimeout,
			Logger:  logger,
		})

		if cfg.TranscriptionEnabled {
			transcriber, err = ai.NewOpenAITranscriber(cfg.OpenAIAPIKey, logger)
			if err != nil {
				log.Fatalf("failed to create transcription client: %v", err)
			}
		}
	} else {
		logger.Warn().Msg("openai api key not configured, report generation disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	testRepo := repository.NewTestRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	reportRepo := repository.NewReportRepository(db)
	recordingRepo := repository.NewRecordingRepository(db)

	monitorService := service.NewMonitorService(natsConn, "voxera.interviews", logger)
	testService := service.NewTestService(testRepo, validate, logger)
	interviewService := service.NewInterviewService(interviewRepo, testRepo, reportRepo, validate, monitorService, logger)
	responseService := service.NewResponseService(responseRepo, interviewRepo, testRepo, validate, monitorService, logger)
	reportService := service.NewReportService(reportRepo, interviewRepo, testRepo, evaluator, validate, redisClient, monitorService, service.ReportServiceConfig{
		Provider: "openai",
		CacheTTL: cfg.ReportCacheTTL,
	}, logger)
	uploadService := service.NewUploadService(storage, recordingRepo, transcriber, int(cfg.UploadMaxBytes/(1024*1024)), logger)

	testHandler := handler.NewTestHandler(testService, reportService, logger)
	interviewHandler := handler.NewInterviewHandler(interviewService, logger)
	responseHandler := handler.NewResponseHandler(responseService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	monitorHandler := handler.NewMonitorHandler(monitorService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TestHandler:      testHandler,
		InterviewHandler: interviewHandler,
		ResponseHandler:  responseHandler,
		ReportHandler:    reportHandler,
		UploadHandler:    uploadHandler,
		MonitorHandler:   monitorHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go monitorService.Start(runCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-runCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

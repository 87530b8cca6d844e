package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/siakad-go-api/internal/config"
	"github.com/noah-isme/siakad-go-api/internal/database"
	"github.com/noah-isme/siakad-go-api/internal/events"
	"github.com/noah-isme/siakad-go-api/internal/handler"
	"github.com/noah-isme/siakad-go-api/internal/middleware"
	"github.com/noah-isme/siakad-go-api/internal/observability"
	"github.com/noah-isme/siakad-go-api/internal/repository"
	"github.com/noah-isme/siakad-go-api/internal/router"
	"github.com/noah-isme/siakad-go-api/internal/service"
	"github.com/noah-isme/siakad-go-api/internal/utils"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "siakad-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.AppEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, dashboard caching disabled")
		redisClient = nil
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, domain events disabled")
		natsConn = nil
	}

	observability.RegisterMetrics()
	validate := validation.New()
	publisher := events.NewPublisher(natsConn, "siakad", logger)

	teacherRepo := repository.NewTeacherRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	seedRepo := repository.NewSeedRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	authService := service.NewAuthService(teacherRepo, activityService, validate, cfg.JWTSecret, cfg.JWTTTL, logger)
	studentService := service.NewStudentService(teacherRepo, referenceRepo, studentRepo, validate, logger)
	dashboardService := service.NewDashboardService(teacherRepo, studentRepo, attendanceRepo, redisClient, cfg.DashboardCacheTTL, logger)
	attendanceService := service.NewAttendanceService(studentService, attendanceRepo, publisher, activityService, dashboardService, validate, logger)
	gradeService := service.NewGradeService(studentService, gradeRepo, cfg.GradingScale, publisher, activityService, validate, logger)
	reportService := service.NewReportService(teacherRepo, referenceRepo, attendanceRepo, gradeRepo, activityService, validate, logger)
	seedService := service.NewSeedService(seedRepo, validate, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
			return utils.SendError(c, status, err.Error())
		},
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, studentService, validate, logger),
		ProfileHandler:    handler.NewProfileHandler(authService, validate, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, validate, logger),
		ReferenceHandler:  handler.NewReferenceHandler(studentService, validate, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, validate, logger),
		GradeHandler:      handler.NewGradeHandler(gradeService, validate, logger),
		ReportHandler:     handler.NewReportHandler(reportService, validate, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, validate, logger),
		SeedHandler:       handler.NewSeedHandler(seedService, validate, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		HealthProbes:      healthProbes(db, redisClient),
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("starting http server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, redisClient, natsConn, logger)
}

func waitForShutdown(app *fiber.App, redisClient *redis.Client, natsConn *nats.Conn, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if natsConn != nil {
		if err := natsConn.Drain(); err != nil {
			logger.Warn().Err(err).Msg("failed to drain nats connection")
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info().Msg("server stopped")
}

func healthProbes(db *gorm.DB, redisClient *redis.Client) []handler.HealthProbe {
	probes := []handler.HealthProbe{{
		Name:  "database",
		Check: func(ctx context.Context) error { return database.Ping(ctx, db) },
	}}
	if redisClient != nil {
		probes = append(probes, handler.HealthProbe{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	return probes
}

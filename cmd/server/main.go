package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gymdesk/gym-app/internal/api"
	"gymdesk/gym-app/internal/config"
	"gymdesk/gym-app/internal/metrics"
	"gymdesk/gym-app/internal/notify"
	"gymdesk/gym-app/internal/repository"
	"gymdesk/gym-app/internal/repository/memory"
	"gymdesk/gym-app/internal/repository/mongo"
	"gymdesk/gym-app/internal/revocation"
	"gymdesk/gym-app/internal/service"
	"gymdesk/gym-app/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	logger.Info("starting gym server", "driver", cfg.Database.Driver, "address", cfg.Server.Address)

	ctx := context.Background()

	// --- Repositories ---
	repos, closeRepos, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		logger.Error("could not open database", "error", err)
		os.Exit(1)
	}
	defer closeRepos()

	// --- Token revocation ---
	revoked, closeRevoked, err := newRevocationStore(ctx, cfg.Redis)
	if err != nil {
		logger.Error("could not connect to redis", "error", err)
		os.Exit(1)
	}
	defer closeRevoked()

	// --- Notifications ---
	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.Email.Provider == config.EmailProviderResend {
		sender = notify.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From)
	}
	notifier := notify.NewMailer(sender, cfg.Email.GymName)

	// --- File storage ---
	var files storage.FileStorage
	if cfg.S3.Enabled() {
		files, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			logger.Error("could not initialize s3 storage", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("s3 bucket not configured; avatar uploads disabled")
	}

	// --- Services ---
	assignments := service.NewAssignmentService(repos)
	services := api.Services{
		Auth: service.NewAuthService(repos, revoked, notifier, service.AuthConfig{
			JWTSecret:        cfg.JWT.Secret,
			JWTExpiration:    cfg.JWT.Expiration,
			AllowAdminSignup: cfg.Auth.AllowAdminSignup,
		}),
		Users:       service.NewUserService(repos.Users, files, cfg.S3.PresignExpiry),
		Members:     service.NewMemberService(repos, notifier, assignments),
		Assignments: assignments,
		Trainers:    service.NewTrainerService(repos, notifier),
		Plans:       service.NewWorkoutPlanService(repos),
		Schedules:   service.NewScheduleService(repos),
		Attendance:  service.NewAttendanceService(repos),
		BMI:         service.NewBMIService(repos.Members),
	}

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		created, err := services.Auth.EnsureAdmin(seedCtx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		cancel()
		if err != nil {
			logger.Error("could not seed admin account", "error", err)
			os.Exit(1)
		}
		if created {
			logger.Info("admin account created", "email", cfg.Admin.Email)
		}
	}

	// --- Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(api.Recovery(logger), api.RequestLogger(logger))

	opts := api.RouteOptions{MetricsPath: cfg.Metrics.Path}
	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.New()
	}
	api.SetupRoutes(router, services, opts)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		logger.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server exiting")
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// openRepositories selects the storage backend. The returned func releases it.
func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (repository.Repositories, func(), error) {
	if cfg.Driver == config.DriverMemory {
		slog.Warn("using in-memory storage; data is lost on restart")
		return memory.NewRepositories(), func() {}, nil
	}

	client, err := mongo.ConnectDB(ctx, cfg.URI)
	if err != nil {
		return repository.Repositories{}, nil, err
	}
	db := client.Database(cfg.Name)

	go func() { // Run index creation in the background
		indexCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(indexCtx, db)
		slog.Info("index creation completed")
	}()

	closeFn := func() {
		if err := mongo.DisconnectDB(client); err != nil {
			slog.Error("failed to disconnect mongodb", "error", err)
		}
	}
	return mongo.NewRepositories(db), closeFn, nil
}

func newRevocationStore(ctx context.Context, cfg config.RedisConfig) (revocation.Store, func(), error) {
	if cfg.Address == "" {
		return revocation.NewMemoryStore(), func() {}, nil
	}
	store, err := revocation.NewRedisStore(ctx, revocation.RedisConfig{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}, nil
}

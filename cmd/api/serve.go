package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/noah-isme/course-feedback-api/internal/action"
	"github.com/noah-isme/course-feedback-api/internal/handler"
	"github.com/noah-isme/course-feedback-api/internal/repository"
	"github.com/noah-isme/course-feedback-api/internal/service"
	"github.com/noah-isme/course-feedback-api/pkg/cache"
	"github.com/noah-isme/course-feedback-api/pkg/database"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, logr, err := bootstrap()
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	cacheEnabled := cfg.Cache.Enabled
	if cacheEnabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, course cache disabled", "error", err)
			cacheEnabled = false
		} else {
			redisRepo := repository.NewCacheRepository(redisClient)
			defer redisRepo.Close() //nolint:errcheck
			cacheRepo = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.CourseTTL, logr, cacheEnabled)

	validate := validator.New()

	accounts := repository.NewAccountRepository(db)
	courses := repository.NewCourseRepository(db)
	instructors := repository.NewInstructorRepository(db)
	students := repository.NewStudentRepository(db)
	sessions := repository.NewFeedbackSessionRepository(db)

	accountSvc := service.NewAccountService(accounts, instructors, students, logr)
	logic := &service.Logic{
		CourseService:          service.NewCourseService(db, courses, accounts, instructors, cacheSvc, validate, logr),
		FeedbackSessionService: service.NewFeedbackSessionService(sessions, courses, validate, logr),
		AccountService:         accountSvc,
		StudentService:         service.NewStudentService(students, logr),
		DataBundleService: service.NewDataBundleService(db, service.BundleStores{
			Accounts:    accounts,
			Courses:     courses,
			Instructors: instructors,
			Students:    students,
			Sessions:    sessions,
		}, cacheSvc, validate, logr),
	}

	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		Secret:          cfg.JWT.Secret,
		Issuer:          cfg.JWT.Issuer,
		Expiry:          cfg.JWT.Expiration,
		DevLoginEnabled: cfg.Auth.DevLoginEnabled,
	})

	router := handler.NewRouter(handler.RouterDeps{
		Config:   cfg,
		Logger:   logr,
		Metrics:  metrics,
		Tokens:   authSvc,
		Executor: action.NewExecutor(accountSvc, metrics, logr),
		Actions:  action.Deps{Logic: logic, Auth: authSvc},
		DB:       db,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

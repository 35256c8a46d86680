package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-registration-api/api/swagger"
	"github.com/noah-isme/course-registration-api/internal/handler"
	internalmiddleware "github.com/noah-isme/course-registration-api/internal/middleware"
	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/internal/repository"
	"github.com/noah-isme/course-registration-api/internal/service"
	"github.com/noah-isme/course-registration-api/pkg/config"
	"github.com/noah-isme/course-registration-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-registration-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-registration-api/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// @title Course Registration API
// @version 1.0.0
// @description Session calendar, capacity-limited enrollment and registration reporting
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	defaultMonth, err := models.ParseYearMonth(cfg.Registration.DefaultMonth)
	if err != nil {
		logr.Warn("invalid default month, using current month", zap.String("value", cfg.Registration.DefaultMonth))
		defaultMonth = models.YearMonthOf(time.Now().In(cfg.Registration.Location()))
	}

	kv, err := openStore(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer kv.Close() //nolint:errcheck
	registrations := repository.NewRegistrationRepository(kv, cfg.Store.Key)

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	generator := service.NewSessionGenerator(service.DefaultScheduleTemplate())
	ledger := service.NewEnrollmentLedger(cfg.Registration.MaxCapacity)
	calendarSvc := service.NewCalendarService(generator, ledger, cfg.Registration.Location())

	syncSvc := service.NewSyncService(cfg.Sync, metricsSvc, logr.Named("sync"))
	syncSvc.Start(ctx)
	defer syncSvc.Stop()

	registrationSvc := service.NewRegistrationService(calendarSvc, ledger, registrations, syncSvc, metricsSvc, validate, logr.Named("registration"))
	if _, err := registrationSvc.Restore(ctx); err != nil {
		return err
	}

	pivotSvc := service.NewPivotService(registrationSvc)
	exportSvc := service.NewExportService(registrationSvc, cfg.Registration.Location(), logr.Named("export"), nil, nil)
	paymentSvc := service.NewPaymentService(cfg.Payments, logr.Named("payments"))

	calendarHandler := handler.NewCalendarHandler(calendarSvc, defaultMonth)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc, pivotSvc, exportSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, registrations)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/calendar", calendarHandler.Month)
	api.GET("/sessions/:id", calendarHandler.Session)
	api.POST("/registrations", registrationHandler.Register)
	api.GET("/registrations", registrationHandler.List)
	api.GET("/registrations/summary", registrationHandler.Summary)
	api.GET("/registrations/export", registrationHandler.Export)
	api.GET("/payments", paymentHandler.Options)
	api.GET("/payments/:slug/checkout", paymentHandler.Checkout)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", kv.Name())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logr.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

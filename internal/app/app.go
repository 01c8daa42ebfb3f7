package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"studyfunnel_backend/internal/config"
	"studyfunnel_backend/internal/email"
	"studyfunnel_backend/internal/handlers"
	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/internal/middleware"
	"studyfunnel_backend/internal/repositories"
	"studyfunnel_backend/internal/routes"
	"studyfunnel_backend/internal/services"
	"studyfunnel_backend/internal/survey"
	"studyfunnel_backend/internal/validator"
	"studyfunnel_backend/internal/webhook"
	"studyfunnel_backend/internal/workers"
	"studyfunnel_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// SurveySource is the survey provider as seen by the formatter and the poller
type SurveySource interface {
	survey.DetailsSource
	workers.ResponseSource
}

// Dependencies overrides outbound collaborators. Nil fields are built from the config.
type Dependencies struct {
	SurveySource SurveySource
	Sink         webhook.Sink
	Location     *time.Location
	Now          func() time.Time
}

type Application struct {
	cfg          *config.Config
	db           *gorm.DB
	surveySource SurveySource
	services     *services.ServiceContainer
	router       *gin.Engine
}

// New wires repositories, services, handlers and the router around db
func New(cfg *config.Config, db *gorm.DB, deps Dependencies) (*Application, error) {
	if deps.Location == nil {
		loc, err := cfg.Region.Location()
		if err != nil {
			return nil, fmt.Errorf("failed to load region timezone: %w", err)
		}
		deps.Location = loc
	}
	if deps.SurveySource == nil {
		deps.SurveySource = survey.NewClient(cfg.Survey)
	}
	if deps.Sink == nil {
		sink, err := initializeSink(cfg)
		if err != nil {
			return nil, err
		}
		deps.Sink = sink
	}

	apperrors.Configure(cfg.Server.Env == "development", func(c *gin.Context, appErr *apperrors.AppError) {
		logger.CtxWithError(c.Request.Context(), "request failed", appErr, "path", c.Request.URL.Path)
	})

	serviceContainer := initializeServices(deps)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg, db)
	routes.RegisterRoutes(ginRouter, appHandlers, cfg.Auth.JWTSecret)

	return &Application{
		cfg:          cfg,
		db:           db,
		surveySource: deps.SurveySource,
		services:     serviceContainer,
		router:       ginRouter,
	}, nil
}

// SetupRouter returns only the HTTP router
func SetupRouter(cfg *config.Config, db *gorm.DB, deps Dependencies) (*gin.Engine, error) {
	a, err := New(cfg, db, deps)
	if err != nil {
		return nil, err
	}
	return a.Router(), nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) Services() *services.ServiceContainer {
	return a.services
}

func (a *Application) SurveyWorker() *workers.SurveyWorker {
	return workers.NewSurveyWorker(
		a.db,
		a.surveySource,
		a.services.NotificationService,
		repositories.NewSurveyResponseRepository(),
		a.cfg.Survey.PollInterval,
	)
}

// Serve runs the HTTP server and, when configured, the survey poller until ctx is done
func (a *Application) Serve(ctx context.Context) error {
	if a.cfg.Survey.Enabled() {
		a.SurveyWorker().Start(ctx)
	} else {
		logger.Warn("survey poller disabled: SURVEYMONKEY_TOKEN or SURVEY_ID not set")
	}

	address := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", address)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func initializeSink(cfg *config.Config) (webhook.Sink, error) {
	var sinks []webhook.Sink

	if cfg.Webhook.URL != "" {
		sinks = append(sinks, webhook.NewHTTPSink(cfg.Webhook))
		logger.Info("Webhook sink enabled")
	} else {
		logger.Warn("POWER_AUTOMATE_WEBHOOK_URL not set; webhook delivery disabled")
	}

	if cfg.Email.Enabled {
		templates, err := email.NewTemplateManager()
		if err != nil {
			return nil, fmt.Errorf("failed to load email templates: %w", err)
		}
		sinks = append(sinks, email.NewSink(email.NewSMTPMailer(cfg.Email), templates, cfg.Email))
		logger.Info("SMTP sink enabled", "host", cfg.Email.SMTPHost)
	}

	return webhook.Multi(sinks...), nil
}

func initializeServices(deps Dependencies) *services.ServiceContainer {
	participantRepo := repositories.NewParticipantRepository()
	notificationRepo := repositories.NewNotificationRepository()
	bookingRepo := repositories.NewBookingRepository()

	participantService := services.NewParticipantService(participantRepo)
	bookingService := services.NewBookingService(bookingRepo)
	notificationService := services.NewNotificationService(services.NotificationDeps{
		NotificationRepo:   notificationRepo,
		ParticipantService: participantService,
		BookingService:     bookingService,
		Formatter:          survey.NewFormatter(deps.SurveySource),
		Sink:               deps.Sink,
		Location:           deps.Location,
		Now:                deps.Now,
	})

	return &services.ServiceContainer{
		ParticipantService:  participantService,
		NotificationService: notificationService,
		BookingService:      bookingService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
		IntakeHandler:       handlers.NewIntakeHandler(baseHandler, services.NotificationService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		ParticipantHandler:  handlers.NewParticipantHandler(baseHandler, services.ParticipantService, services.BookingService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

package main

import (
	"github.com/campushive/backend/internal/config"
	"github.com/campushive/backend/internal/handlers"
	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/services"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/internal/utils"
	"github.com/campushive/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg       *config.Config
	taskQueue services.TaskQueue
	worker    *services.Worker
	reconcile *services.ReconcileService

	health         *handlers.HealthHandler
	auth           *handlers.AuthHandler
	user           *handlers.UserHandler
	project        *handlers.ProjectHandler
	member         *handlers.MemberHandler
	interaction    *handlers.InteractionHandler
	comment        *handlers.CommentHandler
	notification   *handlers.NotificationHandler
	recommendation *handlers.RecommendationHandler
	chat           *handlers.ChatHandler
	sse            *handlers.SSEHandler
	event          *handlers.EventHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database, cfg.Server.Mode); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	st := store.New(models.GetDB(), cfg.Database.Transactional)
	if !cfg.Database.Transactional {
		logger.Warn().Msg("transactional writes disabled, relying on reconcile job for drift")
	}

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	notificationService := services.NewNotificationService(st)
	taskQueue := services.NewTaskQueue(&cfg.Redis, notificationService.Deliver)

	// Start async worker if the queue is backed by Redis
	var worker *services.Worker
	if taskQueue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis, notificationService.Deliver)
		if worker != nil {
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start notification worker")
			}
		}
	}

	var reconcile *services.ReconcileService
	if cfg.Reconcile.Enabled {
		reconcile = services.NewReconcileService(st, cfg.Reconcile)
		if err := reconcile.Start(); err != nil {
			logger.Fatalf("Failed to start reconcile scheduler: %v", err)
		}
	}

	hub := services.NewChatHub()
	membershipService := services.NewMembershipService(st, taskQueue)
	toggleService := services.NewToggleService(st)
	chatService := services.NewChatService(st, hub, taskQueue)

	return &appServices{
		cfg:       cfg,
		taskQueue: taskQueue,
		worker:    worker,
		reconcile: reconcile,

		health:         handlers.NewHealthHandler(models.GetDB(), taskQueue, hub),
		auth:           handlers.NewAuthHandler(services.NewAuthService(st, &cfg.JWT)),
		user:           handlers.NewUserHandler(services.NewUserService(st), toggleService),
		project:        handlers.NewProjectHandler(services.NewProjectService(st), membershipService),
		member:         handlers.NewMemberHandler(membershipService),
		interaction:    handlers.NewInteractionHandler(toggleService),
		comment:        handlers.NewCommentHandler(services.NewCommentService(st, taskQueue)),
		notification:   handlers.NewNotificationHandler(notificationService),
		recommendation: handlers.NewRecommendationHandler(services.NewRecommendationService(st)),
		chat:           handlers.NewChatHandler(chatService),
		sse:            handlers.NewSSEHandler(hub, chatService),
		event:          handlers.NewEventHandler(services.NewEventService(st)),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.reconcile != nil {
		s.reconcile.Stop()
		logger.Info().Msg("Reconcile scheduler stopped")
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		if err := s.taskQueue.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close task queue")
		}
	}
}

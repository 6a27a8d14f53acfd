package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/config"
	"smartlib.id/backend/internal/handler"
	"smartlib.id/backend/internal/middleware"
	"smartlib.id/backend/internal/repository"
	"smartlib.id/backend/internal/service"
	"smartlib.id/backend/internal/tasks"
	"smartlib.id/backend/pkg/storage"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *tasks.Scheduler
	logger      *zap.Logger
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, fileStorage storage.FileStorage, logger *zap.Logger) *Server {
	// Repositories
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	seatRepo := repository.NewSeatRepository(db)
	bookingRepo := repository.NewSeatBookingRepository(db)
	bookRepo := repository.NewBookRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	accessRepo := repository.NewAccessRequestRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Search
	meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient, logger)

	// Notification core
	notificationSvc := service.NewNotificationService(notificationRepo, redisClient, logger)
	dispatcher := service.NewNotificationDispatcher(notificationSvc, logger)

	// Domain services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTLMinutes)
	userSvc := service.NewUserService(userRepo)
	bookingSvc := service.NewBookingService(bookingRepo, seatRepo, dispatcher)
	bookSvc := service.NewBookService(bookRepo, searchSvc)
	reservationSvc := service.NewReservationService(reservationRepo, bookRepo, dispatcher, cfg.LoanPeriod)
	eventSvc := service.NewEventService(eventRepo, fileStorage, dispatcher, notificationSvc, cfg.CloudinaryUploadFolder)
	auditSvc := service.NewAuditService(auditRepo)
	accessSvc := service.NewAccessService(accessRepo, libraryRepo, dispatcher, auditSvc, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	bookHandler := handler.NewBookHandler(bookSvc)
	reservationHandler := handler.NewReservationHandler(reservationSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	accessHandler := handler.NewAccessHandler(accessSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient, logger)

	// Background sweeps
	scheduler := tasks.NewScheduler(logger)
	scheduler.Register(&tasks.OverdueJob{Reservations: reservationSvc})
	scheduler.Register(&tasks.NoShowJob{Bookings: bookingSvc})
	scheduler.Register(&tasks.ReminderJob{Events: eventSvc})
	scheduler.Register(&tasks.RetentionJob{
		Notifications: notificationRepo,
		Retention:     cfg.NotificationRetention,
	})

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/users", userHandler.Create)
			adminGroup.GET("/users", userHandler.List)
			adminGroup.PUT("/users/:id", userHandler.Update)
			adminGroup.DELETE("/users/:id", userHandler.Delete)

			adminGroup.POST("/libraries", accessHandler.CreateLibrary)
			adminGroup.GET("/access-requests", accessHandler.ListPending)
			adminGroup.POST("/access-requests/approve", accessHandler.BulkApprove)
			adminGroup.POST("/access-requests/reject", accessHandler.BulkReject)
			adminGroup.GET("/activity-log", auditHandler.ListRecent)
		}

		// Librarian routes
		staffGroup := protected.Group("/staff")
		staffGroup.Use(authMiddleware.RequireRole("librarian"))
		{
			staffGroup.POST("/seats", bookingHandler.CreateSeat)
			staffGroup.POST("/books", bookHandler.Create)
			staffGroup.PUT("/books/:id", bookHandler.Update)
			staffGroup.DELETE("/books/:id", bookHandler.Delete)
			staffGroup.POST("/reservations/:id/ready", reservationHandler.MarkReady)
			staffGroup.POST("/reservations/:id/borrow", reservationHandler.Borrow)
			staffGroup.POST("/reservations/:id/return", reservationHandler.Return)
			staffGroup.POST("/events", eventHandler.Create)
			staffGroup.POST("/registrations/:id/attended", eventHandler.MarkAttended)
			staffGroup.POST("/registrations/:id/certificate", eventHandler.IssueCertificate)
		}

		// Seat bookings
		protected.GET("/seats", bookingHandler.ListSeats)
		protected.POST("/bookings", bookingHandler.Create)
		protected.GET("/bookings", bookingHandler.ListMine)
		protected.POST("/bookings/:id/check-in", bookingHandler.CheckIn)
		protected.POST("/bookings/:id/check-out", bookingHandler.CheckOut)
		protected.POST("/bookings/:id/cancel", bookingHandler.Cancel)

		// Book catalog and reservations
		protected.GET("/books", bookHandler.List)
		protected.GET("/books/search", bookHandler.Search)
		protected.GET("/books/:id", bookHandler.Get)
		protected.POST("/reservations", reservationHandler.Create)
		protected.GET("/reservations", reservationHandler.ListMine)
		protected.POST("/reservations/:id/cancel", reservationHandler.Cancel)

		// Events
		protected.GET("/events", eventHandler.List)
		protected.POST("/events/:id/register", eventHandler.Register)
		protected.GET("/registrations", eventHandler.ListMyRegistrations)
		protected.POST("/registrations/:id/cancel", eventHandler.CancelRegistration)

		// Library access
		protected.GET("/libraries", accessHandler.ListLibraries)
		protected.POST("/access-requests", accessHandler.Request)
		protected.GET("/access-requests", accessHandler.ListMine)

		// Notifications
		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.POST("/notifications/mark-all-read", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.Stream)
		protected.GET("/notifications/:id", notificationHandler.Get)
		protected.PATCH("/notifications/:id", notificationHandler.Update)
		protected.PUT("/notifications/:id", notificationHandler.Update)
		protected.DELETE("/notifications/:id", notificationHandler.Delete)
		protected.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   scheduler,
		logger:      logger,
	}
}

func (s *Server) Run(addr string) error {
	s.scheduler.Start()
	defer s.scheduler.Stop()
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

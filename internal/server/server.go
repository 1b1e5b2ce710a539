package server

import (
	"strings"
	"time"

	"contractdesk/internal/events"
	"contractdesk/internal/middleware"
	"contractdesk/pkg/storage"

	categoryHttp "contractdesk/internal/modules/category/delivery/http"
	categoryRepo "contractdesk/internal/modules/category/repository"
	categoryService "contractdesk/internal/modules/category/service"

	contractHttp "contractdesk/internal/modules/contract/delivery/http"
	contractRepo "contractdesk/internal/modules/contract/repository"
	contractService "contractdesk/internal/modules/contract/service"

	documentHttp "contractdesk/internal/modules/document/delivery/http"
	documentRepo "contractdesk/internal/modules/document/repository"
	documentService "contractdesk/internal/modules/document/service"

	reportHttp "contractdesk/internal/modules/report/delivery/http"
	reportService "contractdesk/internal/modules/report/service"

	searchService "contractdesk/internal/modules/search/service"

	userHttp "contractdesk/internal/modules/user/delivery/http"
	userRepo "contractdesk/internal/modules/user/repository"
	userService "contractdesk/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options carries configuration and the optional backends. Nil backends
// degrade gracefully: without Redis, events stay process-local and reports
// skip the cache; without Meilisearch, contract search falls back to SQL.
// Zero-valued settings take development defaults.
type Options struct {
	RedisClient        *redis.Client
	SearchService      searchService.ContractSearchService
	ExpiringWindowDays int

	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins string
}

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	contractSvc contractService.ContractService
}

func NewServer(db *gorm.DB, store storage.DocumentStorage, opts Options) *Server {
	if opts.ExpiringWindowDays <= 0 {
		opts.ExpiringWindowDays = 90
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "change-me"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	hub := events.NewHub(opts.RedisClient)
	wsHandler := events.NewWSHandler(hub)

	userRepository := userRepo.NewUserRepository(db)
	authSvc := userService.NewAuthService(userRepository, opts.JWTSecret, opts.TokenTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)
	adminSvc := userService.NewAdminService(userRepository)
	adminHandler := userHttp.NewAdminHandler(adminSvc)

	contractRepository := contractRepo.NewContractRepository(db)
	contractSvc := contractService.NewContractService(contractRepository, opts.SearchService, hub)
	contractHandler := contractHttp.NewContractHandler(contractSvc)

	categoryRepository := categoryRepo.NewCategoryRepository(db)
	categorySvc := categoryService.NewCategoryService(categoryRepository, contractRepository, hub)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	documentRepository := documentRepo.NewDocumentRepository(db)
	documentSvc := documentService.NewDocumentService(documentRepository, contractRepository, store)
	documentHandler := documentHttp.NewDocumentHandler(documentSvc)

	reportSvc := reportService.NewReportService(contractRepository, opts.RedisClient, hub, opts.ExpiringWindowDays)
	reportHandler := reportHttp.NewReportHandler(reportSvc)

	router := gin.New()

	setupCORS(router, opts.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepository, opts.JWTSecret)

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
		// Mutations require the admin role
		adminOnly := protected.Group("")
		adminOnly.Use(authMiddleware.RequireAdmin())
		{
			adminOnly.POST("/users", adminHandler.CreateUser)
			adminOnly.PUT("/users/:id", adminHandler.UpdateUser)
			adminOnly.DELETE("/users/:id", adminHandler.DeleteUser)

			adminOnly.POST("/contracts", contractHandler.CreateContract)
			adminOnly.PUT("/contracts/:id", contractHandler.UpdateContract)
			adminOnly.POST("/contracts/:id/terminate", contractHandler.TerminateContract)
			adminOnly.POST("/contracts/calculate-dates", contractHandler.CalculateDates)

			adminOnly.POST("/contracts/:id/documents", documentHandler.UploadDocument)
			adminOnly.DELETE("/documents/:id", documentHandler.DeleteDocument)

			adminOnly.POST("/categories", categoryHandler.CreateCategory)
			adminOnly.PUT("/categories/:id", categoryHandler.UpdateCategory)
			adminOnly.DELETE("/categories/:id", categoryHandler.DeleteCategory)
		}

		// User routes
		protected.GET("/users", adminHandler.GetAllUsers)

		// Contract routes
		protected.GET("/contracts", contractHandler.ListContracts)
		protected.GET("/contracts/:id", contractHandler.GetContract)

		// Document routes
		protected.GET("/contracts/:id/documents", documentHandler.GetDocuments)
		protected.GET("/documents/:id/download", documentHandler.DownloadDocument)

		// Category routes
		protected.GET("/categories", categoryHandler.GetAllCategories)

		// Reporting routes
		protected.GET("/reports/valid", reportHandler.GetValidContracts)
		protected.GET("/reports/expiring", reportHandler.GetExpiringContracts)

		// Change-event stream
		protected.GET("/events/ws", wsHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		contractSvc: contractSvc,
	}
}

// Engine exposes the router for tests and embedding.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// ContractService exposes the contract service for background jobs.
func (s *Server) ContractService() contractService.ContractService {
	return s.contractSvc
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

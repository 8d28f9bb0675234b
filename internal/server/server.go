package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rahu431/snapbill-service/internal/config"
	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/handler"
	"github.com/rahu431/snapbill-service/internal/middleware"
	"github.com/rahu431/snapbill-service/internal/service"
)

// Handlers bundles the handlers the server exposes
type Handlers struct {
	Auth      *handler.AuthHandler
	Admin     *handler.AdminHandler
	Invoice   *handler.InvoiceHandler
	Product   *handler.ProductHandler
	Profile   *handler.ProfileHandler
	Cart      *handler.CartHandler
	Assistant *handler.AssistantHandler
}

// Server is the HTTP server for the invoicing service
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config, auth service.AuthService, handlers Handlers) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())

	server := &Server{
		router: router,
		config: cfg,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	server.setupRoutes(auth, handlers)
	return server
}

// setupRoutes configures all application routes. Auth endpoints are public;
// everything else under /v1 requires a bearer token, and the admin endpoints
// additionally require the super admin role.
func (s *Server) setupRoutes(auth service.AuthService, handlers Handlers) {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI at /api-docs/index.html
	s.router.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})

	public := s.router.Group("/v1")
	handlers.Auth.RegisterRoutes(public)

	protected := s.router.Group("/v1")
	protected.Use(middleware.AuthMiddleware(auth))
	handlers.Invoice.RegisterRoutes(protected)
	handlers.Product.RegisterRoutes(protected)
	handlers.Profile.RegisterRoutes(protected)
	handlers.Cart.RegisterRoutes(protected)
	handlers.Assistant.RegisterRoutes(protected)

	admin := s.router.Group("/v1")
	admin.Use(middleware.AuthMiddleware(auth), middleware.RequireRole(domain.RoleSuperAdmin))
	handlers.Admin.RegisterRoutes(admin)
}

// Router returns the gin router instance, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pageza/chefbot-v2/backend/config"
	"github.com/pageza/chefbot-v2/backend/internal/api"
	"github.com/pageza/chefbot-v2/backend/internal/middleware"
	"github.com/pageza/chefbot-v2/backend/internal/service"
)

// Server wraps the gin engine and its HTTP listener.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// Deps carries the services the HTTP layer needs.
type Deps struct {
	Auth        *service.AuthService
	Recommender *service.Recommender
	Searches    *service.SearchLogService
	RateLimiter *middleware.RateLimiter
}

// New assembles the router and handlers.
func New(cfg *config.Config, deps Deps) *Server {
	router := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/health", api.HealthCheck)

	v1 := router.Group("/api/v1")

	api.NewAuthHandler(deps.Auth).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth))
	api.NewRecommendHandler(deps.Recommender, deps.Searches).RegisterRoutes(protected, deps.RateLimiter)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Package server provides HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"thethird/src/app/http/handler"
	"thethird/src/app/http/response"
	"thethird/src/app/middleware"
	"thethird/src/core/ports"
	"thethird/src/core/usecase"
	"thethird/src/infra/config"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	repo   ports.VotingRepository
	router *gin.Engine
	http   *http.Server

	healthHandler  *handler.HealthHandler
	teamHandler    *handler.TeamHandler
	sessionHandler *handler.SessionHandler
	voteHandler    *handler.VoteHandler
	resultsHandler *handler.ResultsHandler
	statsHandler   *handler.StatsHandler
}

// New wires services and handlers. cache must not be nil; pass a no-op
// cache when Redis is not configured.
func New(cfg *config.Config, log *slog.Logger, repo ports.VotingRepository, cache ports.ResultsCache) *Server {
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	var healthCache ports.ResultsCache
	if cfg.Redis.Enabled() {
		healthCache = cache
	}

	s := &Server{
		cfg:    cfg,
		log:    log,
		repo:   repo,
		router: gin.New(),

		healthHandler:  handler.NewHealthHandler(usecase.NewHealthService(repo, healthCache, log)),
		teamHandler:    handler.NewTeamHandler(usecase.NewTeamService(repo, log)),
		sessionHandler: handler.NewSessionHandler(usecase.NewSessionService(repo, log)),
		voteHandler:    handler.NewVoteHandler(usecase.NewVoteService(repo, log)),
		resultsHandler: handler.NewResultsHandler(usecase.NewResultsService(repo, cache, log)),
		statsHandler:   handler.NewStatsHandler(usecase.NewStatsService(repo, log)),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// Recovery first so it covers the rest of the chain.
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS(s.cfg.CORS))
	s.router.Use(middleware.Logging(s.log))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler.Health)
	s.router.GET("/health/detailed", s.healthHandler.DetailedHealth)

	v1 := s.router.Group("/v1")

	// Bootstrap: the caller becomes the team's first manager.
	v1.POST("/teams", s.teamHandler.Create)

	member := v1.Group("", middleware.Identify(s.repo))
	{
		teams := member.Group("/teams/:team_id")
		teams.GET("/players", s.teamHandler.ListPlayers)
		teams.POST("/players", s.teamHandler.AddPlayer)
		teams.POST("/matches", s.teamHandler.CreateMatch)
		teams.GET("/sessions", s.sessionHandler.List)
		teams.GET("/leaderboard", s.statsHandler.Leaderboard)
		teams.GET("/predictions", s.statsHandler.Predictions)
		teams.GET("/players/:player_id/badges", s.statsHandler.Badges)
		teams.GET("/players/:player_id/rivalries", s.statsHandler.Rivalries)

		sessions := member.Group("/sessions/:session_id")
		sessions.GET("", s.sessionHandler.Get)
		sessions.GET("/progress", s.sessionHandler.Progress)
		sessions.POST("/votes", s.voteHandler.Cast)
		sessions.GET("/results", s.resultsHandler.Results)
		sessions.POST("/reading", s.sessionHandler.StartReading)
		sessions.POST("/complete", s.sessionHandler.Complete)
		sessions.PUT("/reader", s.sessionHandler.AssignReader)
	}

	s.router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "The requested resource was not found", middleware.GetRequestID(c))
	})
}

// setupHTTPServer configures the underlying HTTP server.
func (s *Server) setupHTTPServer() {
	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func (s *Server) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", "addr", s.cfg.Server.Addr())
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		s.log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.log.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("server stopped gracefully")
	return nil
}

// Router returns the Gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

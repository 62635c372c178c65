package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mindguard/internal/config"
	"mindguard/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the pipeline over JSON HTTP
type Server struct {
	cfg      config.ServerConfig
	sessions *storage.SessionManager
	router   *gin.Engine
	log      zerolog.Logger
}

// New builds the router; sessions live only as long as the process
func New(cfg config.ServerConfig, pipeline ChatPipeline, log zerolog.Logger) *Server {
	sessions := storage.NewSessionManager(cfg.SessionTTL)
	handler := NewChatHandler(pipeline, sessions, log)

	return &Server{
		cfg:      cfg,
		sessions: sessions,
		router:   NewRouter(cfg, handler, log),
		log:      log,
	}
}

// NewRouter wires routes and middleware
func NewRouter(cfg config.ServerConfig, h *ChatHandler, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	if len(cfg.AllowedOrigins) > 0 {
		log.Info().Strs("origins", cfg.AllowedOrigins).Msg("CORS allow-list")
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))
	}

	api := r.Group("/api")
	api.POST("/chat", h.PostChat)
	api.GET("/moods", h.GetMoods)
	api.GET("/sessions/:id", h.GetSession)
	api.DELETE("/sessions/:id", h.DeleteSession)
	r.GET("/health", h.GetHealth)

	return r
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepSessions(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}

func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.log.Debug().Int("removed", n).Msg("expired sessions swept")
			}
		}
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

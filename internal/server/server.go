// Package server runs the read-only spectator feed: a JSON view, a QR code
// for phones and a WebSocket stream of events and state.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server ties together HTTP serving and WebSocket handling.
type Server struct {
	hub      *Hub
	handlers *Handlers
	http     *http.Server
	logger   *zap.Logger
}

// New builds the feed server. publicURL, when set, is what the QR code
// encodes instead of a URL derived from the request host.
func New(addr, publicURL string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("tv")
	hub := NewHub(logger)
	h := &Handlers{
		Hub:       hub,
		PublicURL: publicURL,
		logger:    logger,
	}
	s := &Server{
		hub:      hub,
		handlers: h,
		logger:   logger,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	api := r.Group("/api")
	api.GET("/view", s.handlers.HandleView)
	api.GET("/qr", s.handlers.HandleQR)
	r.GET("/ws", s.handlers.HandleWS)
	return r
}

// Hub returns the hub the game publishes to.
func (s *Server) Hub() *Hub { return s.hub }

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start runs the hub and serves until Shutdown.
func (s *Server) Start() error {
	go s.hub.Run()
	s.logger.Info("tv feed listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and disconnects spectators.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	return s.http.Shutdown(ctx)
}

// URL is the address the QR code should point phones at.
func (s *Server) URL(host string) string { return s.handlers.viewURL(host) }

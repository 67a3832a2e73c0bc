// Package adminapi exposes the check-in report over HTTP for operators,
// next to a liveness endpoint. It is a sidecar to the bot, enabled only
// when an address is configured.
package adminapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-checkin/internal/checkin"
)

type Server struct {
	reporter *checkin.Reporter
	token    string
	log      *zap.Logger
	srv      *http.Server
}

func New(addr, token string, reporter *checkin.Reporter, log *zap.Logger) *Server {
	s := &Server{
		reporter: reporter,
		token:    token,
		log:      log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", s.health)

	api := r.Group("/api", s.auth)
	api.GET("/report", s.report)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down admin api")
		return s.srv.Shutdown(shCtx)
	}
}

func (s *Server) auth(c *gin.Context) {
	if s.token == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin api token is not configured"})
		return
	}
	got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) report(c *gin.Context) {
	rep, err := s.reporter.Snapshot(c.Request.Context())
	if err != nil {
		s.log.Error("report snapshot failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

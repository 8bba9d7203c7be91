// Package server exposes the practice API that receives finalized results.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/typedesk/internal/model"
)

const shutdownTimeout = 5 * time.Second

// Store is the persistence the server needs.
type Store interface {
	InsertResult(ctx context.Context, r model.Result) (int64, error)
	GetResult(ctx context.Context, textID string) (model.Record, error)
	ListResults(ctx context.Context, f model.HistoryFilter) ([]model.Record, error)
	CountResults(ctx context.Context, f model.HistoryFilter) (int, error)
	Summary(ctx context.Context, subjectID string) (model.Summary, error)
}

// Options configures a Server.
type Options struct {
	// Token is the required bearer token; empty disables auth.
	Token string
	// Rate is submissions per second; zero or less disables limiting.
	Rate  float64
	Burst int
	Log   *zap.Logger
	Now   func() time.Time
}

// Server handles the practice API.
type Server struct {
	store   Store
	token   string
	limiter *rate.Limiter
	log     *zap.Logger
	now     func() time.Time
}

// New creates a server backed by st.
func New(st Store, opts Options) *Server {
	registerValidations()
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var limiter *rate.Limiter
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}
	return &Server{
		store:   st,
		token:   opts.Token,
		limiter: limiter,
		log:     log,
		now:     now,
	}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(recovery(s.log), requestLogger(s.log))

	router.GET("/health", s.health)

	api := router.Group("/api/practice", bearerAuth(s.token))
	api.POST("/submit", rateLimit(s.limiter), s.submit)
	api.GET("/stats", s.stats)
	api.GET("/history", s.history)
	api.GET("/history/:id", s.detail)
	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

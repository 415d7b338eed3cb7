// ABOUTME: JSON API server for the pipeline dashboard
// ABOUTME: Routes deal, bulk reassignment, analytics and audit endpoints with CORS
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/nehemiah-ic/rv-takehome/db"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
	"github.com/rs/cors"
)

// Seeder loads the sample data set.
type Seeder interface {
	Seed(ctx context.Context) (*db.SeedResult, error)
}

type Server struct {
	svc      *pipeline.Service
	seeder   Seeder
	logger   *log.Logger
	validate *validator.Validate
	origins  []string
}

func NewServer(svc *pipeline.Service, seeder Seeder, logger *log.Logger, origins []string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		svc:      svc,
		seeder:   seeder,
		logger:   logger,
		validate: newValidator(),
		origins:  origins,
	}
}

// Handler returns the full middleware-wrapped API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/deals/preview-bulk", s.handlePreviewBulk)
	mux.HandleFunc("POST /api/deals/bulk-reassign", s.handleBulkReassign)
	mux.HandleFunc("PATCH /api/deals/{id}/sales-rep", s.handleReassignDeal)
	mux.HandleFunc("PATCH /api/deals/{id}/territory", s.handleUpdateTerritory)

	mux.HandleFunc("GET /api/workload-analytics", s.handleWorkloadAnalytics)
	mux.HandleFunc("GET /api/territories", s.handleTerritories)
	mux.HandleFunc("GET /api/territories/options", s.handleTerritoryOptions)
	mux.HandleFunc("GET /api/sales-reps", s.handleSalesReps)
	mux.HandleFunc("GET /api/audit-trail", s.handleAuditTrail)

	mux.HandleFunc("POST /api/seed", s.handleSeed)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	})

	return corsHandler.Handler(s.requestLogger(mux))
}

// Start serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, port int) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xhad/kbase/internal/models"
	"github.com/xhad/kbase/pkg/logger"
)

// Asker answers a free-form prompt from retrieved context.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// RowLister reads every knowledge base row.
type RowLister interface {
	List(ctx context.Context) ([]models.Row, error)
}

// Answerer produces the naive substring answer for a query.
type Answerer interface {
	Answer(ctx context.Context, query string, rows []models.Row) (string, error)
}

type ServerConfig struct {
	Addr            string
	Asker           Asker
	Rows            RowLister
	Answerer        Answerer
	ShutdownTimeout time.Duration
}

type Server struct {
	config ServerConfig
	router *chi.Mux
	log    *logger.Logger
}

func NewWithConfig(config ServerConfig) *Server {
	if config.Addr == "" {
		config.Addr = ":5000"
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		config: config,
		router: chi.NewRouter(),
		log:    logger.New("server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestID)
	r.Use(s.countRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api/rag", func(r chi.Router) {
		r.Get("/ping", s.handlePing)
		r.Post("/ask", s.handleAsk)
	})
	r.Route("/api/kb", func(r chi.Router) {
		r.Post("/answer", s.handleAnswer)
		r.Get("/freelancers", s.handleFreelancerExists)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server is listening", "address", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Package server implements the faqchat HTTP backend: /chat answers questions
// from the knowledge base through an LLM provider and /reset clears the
// caller's conversation memory.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/errgroup"

	"github.com/diogo/faqchat/internal/history"
	"github.com/diogo/faqchat/internal/knowledge"
	"github.com/diogo/faqchat/internal/llm"
	"github.com/diogo/faqchat/internal/models"
)

// SessionCookie names the cookie that carries the session id
const SessionCookie = "faqchat_session"

const shutdownTimeout = 30 * time.Second

// Options wires the server's collaborators
type Options struct {
	Knowledge *knowledge.Base
	Provider  llm.Provider
	Store     *history.Store
	// TopK is how many knowledge chunks go into the system prompt.
	TopK int
	// HistoryWindow is how many prior turns are sent to the model.
	HistoryWindow int
	// RequestTimeout bounds each request. Zero disables the bound.
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// Server is the chat backend
type Server struct {
	kb       *knowledge.Base
	provider llm.Provider
	store    *history.Store
	topK     int
	window   int
	timeout  time.Duration
	log      zerolog.Logger
	router   chi.Router
}

// New builds a server and its routes
func New(opts Options) (*Server, error) {
	if opts.Provider == nil {
		return nil, errors.New("server: provider is required")
	}
	if opts.Knowledge == nil {
		opts.Knowledge = knowledge.New("", 0)
	}
	if opts.Store == nil {
		store, err := history.NewStore("")
		if err != nil {
			return nil, err
		}
		opts.Store = store
	}
	if opts.TopK <= 0 {
		opts.TopK = 2
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = models.HistoryWindow
	}

	s := &Server{
		kb:       opts.Knowledge,
		provider: opts.Provider,
		store:    opts.Store,
		topK:     opts.TopK,
		window:   opts.HistoryWindow,
		timeout:  opts.RequestTimeout,
		log:      opts.Logger,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get(models.PathHealth, s.handleHealth)
	r.Post(models.PathChat, s.handleChat)
	r.Post(models.PathReset, s.handleReset)

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		s.log.Info().Str("addr", addr).Str("provider", s.provider.Name()).Int("chunks", s.kb.Len()).Msg("starting faqchat server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		s.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("server shutdown error")
			return err
		}
		s.log.Info().Msg("server shutdown complete")
		return nil
	})

	return eg.Wait()
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	playgroundvalidator "github.com/go-playground/validator/v10"

	"github.com/nara/giftinator/internal/analytics"
	"github.com/nara/giftinator/internal/config"
	"github.com/nara/giftinator/internal/interview"
	"github.com/nara/giftinator/internal/oracle"
	"github.com/nara/giftinator/internal/resolve"
	"github.com/nara/giftinator/internal/server/middleware"
	"github.com/nara/giftinator/internal/server/ratelimit"
)

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	engine      *interview.Engine
	oracle      oracle.Client
	store       *analytics.Store
	recorder    analytics.Recorder
	validate    *playgroundvalidator.Validate
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	adminConfig *config.AdminConfig
}

// New creates a new server instance, wiring the oracle client, link
// resolver, analytics store, and interview engine from configuration.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	oracleCfg := oracle.DefaultConfig()
	client, err := oracle.NewGeminiClient(ctx, oracleCfg, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle client: %w", err)
	}

	// GoogleSearcher is nil when search credentials are absent; the resolver
	// must receive a nil interface in that case, not a typed nil.
	var searcher resolve.Searcher
	gs, err := resolve.NewGoogleSearcher(ctx, cfg.GoogleAPIKey, cfg.GoogleCSEID)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}
	if gs != nil {
		searcher = gs
	} else {
		log.Println("Product search not configured, all links will be search fallbacks")
	}
	resolver := resolve.New(searcher, cfg.AffiliateTag)

	s := &Server{
		oracle:   client,
		recorder: analytics.Noop{},
		validate: playgroundvalidator.New(),
	}

	if cfg.DatabaseURL != "" {
		store, err := analytics.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to analytics database: %w", err)
		}
		s.store = store
		s.recorder = store
	} else {
		log.Println("DATABASE_URL not set, analytics disabled")
	}

	engine, err := interview.New(interview.Config{
		Oracle:       client,
		OracleConfig: oracleCfg,
		Resolver:     resolver,
		Recorder:     s.recorder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create interview engine: %w", err)
	}
	s.engine = engine

	// Rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Admin authentication is optional; without it the analytics endpoints
	// report 503 rather than failing startup.
	if jwtConfig, err := config.NewJWTConfig(); err == nil {
		s.jwtService = NewJWTService(jwtConfig)
	} else {
		log.Printf("Admin API disabled: %v", err)
	}
	if adminConfig, err := config.NewAdminConfig(); err == nil {
		s.adminConfig = adminConfig
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/next-question", s.handleNextQuestion)
	mux.HandleFunc("POST /api/reveal", s.handleReveal)
	mux.HandleFunc("POST /api/refine-question", s.handleRefineQuestion)
	mux.HandleFunc("POST /api/refine-reveal", s.handleRefineReveal)

	mux.HandleFunc("POST /api/track-click", s.handleTrackClick)
	mux.HandleFunc("POST /api/submit-feedback", s.handleSubmitFeedback)

	mux.HandleFunc("POST /api/admin/login", s.handleAdminLogin)
	mux.Handle("GET /api/analytics", s.requireAdmin(http.HandlerFunc(s.handleAnalytics)))
	mux.Handle("GET /api/learning-insights", s.requireAdmin(http.HandlerFunc(s.handleLearningInsights)))

	mux.HandleFunc("GET /health", s.handleHealth)

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // reveal calls wait on the oracle
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.store != nil {
		s.store.Close()
	}
	if err := s.oracle.Close(); err != nil {
		log.Printf("Error closing oracle client: %v", err)
	}
	log.Println("Server stopped")
	return nil
}

// requireAdmin guards a handler behind bearer-token authorization. Without
// admin configuration the endpoint reports unavailable.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.jwtService == nil || s.store == nil {
			s.errorResponse(w, http.StatusServiceUnavailable, "admin API not configured")
			return
		}
		middleware.RequireAuth(s.jwtService)(next).ServeHTTP(w, r)
	})
}

// withCORS adds CORS headers. The API is key-less on the public side; the
// oracle and search credentials never leave the server.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		if !s.rateLimiter.Allow(clientID, r.URL.Path, r.Method) {
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// extractClientID extracts the client identifier from the request. For MVP,
// this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failureResponse maps a pipeline error to its status code and tells the
// client whether retrying the same request is worthwhile.
func (s *Server) failureResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}
	s.jsonResponse(w, status, map[string]any{
		"error":     err.Error(),
		"retryable": Retryable(err),
	})
}

// internal/httpserver/server.go
//
// HTTP server wiring for the find-word backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth, rate limited): /game/*.
//   - Progress endpoints (optional auth): /scores, /achievements, /stats, /wallet, /settings.
//   - Daily challenge endpoints (optional auth): /daily/*.
//   - Account endpoints: /auth/*.
//
// Games run in memory, one game.Runner each; the player's progress is kept
// in a progress.Profile persisted through store.KV.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/phamduncc/find-word/internal/daily"
	"github.com/phamduncc/find-word/internal/game"
	"github.com/phamduncc/find-word/internal/store"
	"github.com/phamduncc/find-word/internal/words"
)

// Options are the tunables of a Server.
type Options struct {
	JWTSecret     string
	JWTExpiry     time.Duration
	AllowedOrigin string
	SecureCookies bool

	RateLimit float64
	RateBurst int

	SessionTTL      time.Duration
	CleanupInterval time.Duration
	// TickInterval replaces the one-second game clock; tests shorten it.
	TickInterval time.Duration
	// Now replaces time.Now for the daily challenge date.
	Now func() time.Time
}

func (o *Options) defaults() {
	if o.JWTSecret == "" {
		o.JWTSecret = "dev-secret-change-me"
	}
	if o.JWTExpiry <= 0 {
		o.JWTExpiry = 14 * 24 * time.Hour
	}
	if o.AllowedOrigin == "" {
		o.AllowedOrigin = "http://localhost:5173"
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 2 * time.Hour
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = 10 * time.Minute
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Deps are the collaborators of a Server.
type Deps struct {
	// DB backs accounts and the daily leaderboard. Nil disables both.
	DB         *sql.DB
	KV         store.KV
	Validator  *words.Validator
	Pools      game.PoolSource
	Challenges *daily.Generator
}

// Server bundles the router, running games and player profiles.
type Server struct {
	r    *chi.Mux
	opts Options
	deps Deps
	db   *sql.DB

	dailyStore *daily.Store
	sessions   *sessionRegistry
	profiles   *profileCache
	limiter    *clientLimiter

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a Server, installs middleware, registers routes and starts
// the idle-session sweeper. Call Close to stop it.
func New(deps Deps, opts Options) *Server {
	opts.defaults()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		r:        chi.NewRouter(),
		opts:     opts,
		deps:     deps,
		db:       deps.DB,
		sessions: newSessionRegistry(),
		profiles: newProfileCache(deps.KV, deps.Challenges),
		limiter:  newClientLimiter(opts.RateLimit, opts.RateBurst),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if deps.DB != nil {
		s.dailyStore = daily.NewStore(deps.DB)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "find-word",
			"endpoints": []string{"/health", "POST /game/new", "/scores/{difficulty}", "/daily", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":         true,
			"sessions":   s.sessions.len(),
			"dictionary": deps.Validator.Dictionary().Len(),
		})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth(), s.withPlayer)
		s.mountGameRoutes(r)
		s.mountProgressRoutes(r)
		s.mountDailyRoutes(r)
	})
	s.mountAuthRoutes(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	go s.cleanupLoop()
	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// Close stops the sweeper and every running game.
func (s *Server) Close() {
	s.cancel()
	<-s.done
	s.sessions.stopAll()
}

func (s *Server) cleanupLoop() {
	defer close(s.done)
	t := time.NewTicker(s.opts.CleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			s.sessions.cleanup(s.opts.SessionTTL)
			s.profiles.cleanup(s.opts.SessionTTL, s.sessions.hasPlayer)
			s.limiter.cleanup(s.opts.SessionTTL)
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.opts.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs method, path, status and latency of every request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeBody decodes an optional JSON body into v. An empty body is fine.
func decodeBody(r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(v)
	return err == nil
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"clubpulse/server/internal/auth"
	"clubpulse/server/internal/config"
	"clubpulse/server/internal/member"
	"clubpulse/server/internal/notify"
	"clubpulse/server/internal/repository"
	"clubpulse/server/internal/roster"
)

type Server struct {
	cfg      config.Config
	store    *repository.Store
	syncer   *roster.Syncer
	notifier *notify.Broker
	redis    *redis.Client
}

// NewServer wires the handler set. store may be nil when the database is not
// configured; data routes then answer 501 instead of the process refusing to
// start.
func NewServer(cfg config.Config, store *repository.Store, syncer *roster.Syncer, notifier *notify.Broker, redisClient *redis.Client) (*Server, error) {
	if store != nil && cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required when the database is configured")
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		syncer:   syncer,
		notifier: notifier,
		redis:    redisClient,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/ping", s.handlePing)

	r.With(s.requireStore).Post("/api/auth/login", s.handleLogin)
	r.With(s.requireStore).Post("/api/auth/refresh", s.handleRefresh)
	r.With(s.requireStore).Post("/api/auth/reset-password", s.handleResetPassword)

	r.With(s.requireStore).Post("/api/admin/seed", s.handleSeedAdmin)

	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(s.requireStore, s.authMiddleware, s.requireAdmin)
		r.Post("/", s.handleRegisterMember)
		r.Get("/", s.handleListMembers)
		r.Patch("/", s.handlePatchMember)
		r.Get("/{uid}", s.handleGetMember)
		r.Put("/{uid}", s.handlePutMember)
		r.Delete("/{uid}", s.handleDeleteMember)
	})

	r.Route("/api/admin/teams", func(r chi.Router) {
		r.Use(s.requireStore, s.authMiddleware, s.requireAdmin)
		r.Post("/", s.handleCreateTeam)
		r.Get("/", s.handleListTeams)
		r.Post("/clean-members", s.handleCleanTeamMembers)
		r.Get("/watch", s.handleWatchRosters)
	})

	r.With(s.requireStore).Get("/api/events", s.handleListEvents)
	r.With(s.requireStore).Get("/api/events/past", s.handlePastEvents)
	r.With(s.requireStore).Get("/api/events/{id}", s.handleGetEvent)
	r.With(s.requireStore, s.authMiddleware, s.requireAdmin).Post("/api/events", s.handleCreateEvent)
	r.With(s.requireStore, s.authMiddleware, s.requireAdmin).Put("/api/events/{id}", s.handleUpdateEvent)
	r.With(s.requireStore, s.authMiddleware, s.requireAdmin).Delete("/api/events/{id}", s.handleDeleteEvent)
	r.With(s.requireStore, s.authMiddleware, s.requireAdmin).Get("/api/events/{id}/attendance", s.handleEventAttendance)

	r.With(s.requireStore).Post("/api/checkins", s.handleCheckin)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if s.redis != nil {
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			resp["redis"] = "unreachable"
		} else {
			resp["redis"] = "ok"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": s.cfg.PingMessage})
}

// requireStore gates every route that needs the database. Running without
// DATABASE_URL is a supported degraded mode for local frontend work.
func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeError(w, http.StatusNotImplemented, "server_missing_credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || claims.Role != member.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin_only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

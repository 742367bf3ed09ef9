package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-uid-keeper/internal/usecase"
)

// Server is the admin HTTP API: stats, record listing and CSV export, all
// behind a static bearer key. Prometheus metrics and the health probe are
// served unauthenticated.
type Server struct {
	recordUC usecase.RecordUseCase
	statsUC  usecase.StatsUseCase
	apiKey   string
	log      *zerolog.Logger
}

func NewServer(recordUC usecase.RecordUseCase, statsUC usecase.StatsUseCase, apiKey string, logger *zerolog.Logger) *Server {
	return &Server{
		recordUC: recordUC,
		statsUC:  statsUC,
		apiKey:   apiKey,
		log:      logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(s.authMiddleware)
		api.Get("/stats", s.handleStats)
		api.Get("/records", s.handleListRecords)
		api.Delete("/records/{uid}", s.handleDeleteRecord)
		api.Get("/export.csv", s.handleExportCSV)
	})

	return r
}

// authMiddleware checks the static bearer key configured for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin api key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}
		if parts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

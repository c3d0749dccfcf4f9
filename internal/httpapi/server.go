// Package httpapi serves the agent-facing JSON API and CSV exports. All
// endpoints sit behind a static API key and a per-client rate limit, and
// every JSON response uses the same ok/error envelope.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/supplify/crm/internal/repo"
	"github.com/supplify/crm/pkg/types"
)

// DefaultAPIKey is the development fallback used when no key is configured.
const DefaultAPIKey = "dev-agent-key"

// Server holds the HTTP handler state.
type Server struct {
	repo     *repo.Repository
	log      *zap.Logger
	apiKey   string
	limiter  *rateLimiter
	validate *validator.Validate
}

// New returns a Server over the given repository. An empty apiKey falls back
// to DefaultAPIKey; a nil logger is replaced with a no-op one.
func New(r *repo.Repository, log *zap.Logger, apiKey string) *Server {
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		repo:     r,
		log:      log,
		apiKey:   apiKey,
		limiter:  newRateLimiter(defaultRateLimit, defaultRateWindow),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeOK(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(s.requireAPIKey)
		api.Use(s.rateLimit)

		api.Route("/agent", func(agent chi.Router) {
			agent.Post("/company", s.handleUpsertCompany)
			agent.Post("/contact", s.handleUpsertContact)
			agent.Post("/deal", s.handleUpsertDeal)
			agent.Post("/activity", s.handleUpsertActivity)
			agent.Delete("/company/{id}", s.handleDelete(s.repo.DeleteCompany))
			agent.Delete("/contact/{id}", s.handleDelete(s.repo.DeleteContact))
			agent.Delete("/deal/{id}", s.handleDelete(s.repo.DeleteDeal))
			agent.Delete("/activity/{id}", s.handleDelete(s.repo.DeleteActivity))
			agent.Get("/search", s.handleSearch)
		})

		api.Route("/export", func(export chi.Router) {
			export.Get("/companies", s.handleExport(types.TableCompanies))
			export.Get("/contacts", s.handleExport(types.TableContacts))
			export.Get("/deals", s.handleExport(types.TableDeals))
			export.Get("/activities", s.handleExport(types.TableActivities))
		})
	})

	return r
}

// Package handler implements the HTTP handlers for the corporate travel API.
// All handlers are methods on Server. Methods are split into resource-specific
// files (health.go, travelrequest.go, export.go) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tcosta/corptravel/internal/domain"
	"github.com/tcosta/corptravel/internal/middleware"
	"github.com/tcosta/corptravel/internal/service"
	"github.com/tcosta/corptravel/spec"
)

// TravelRequestServicer defines the business operations the travel request
// handler depends on. Defining the interface here (in the consumer package)
// follows the Go convention: "accept interfaces, return concrete types". It
// lets handler tests inject a mock without touching the database or service
// layer.
type TravelRequestServicer interface {
	Create(ctx context.Context, actor domain.Actor, in service.CreateInput) (domain.TravelRequest, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.TravelRequest, error)
	List(ctx context.Context, actor domain.Actor, f domain.ListFilter, p domain.PaginationParams) ([]domain.TravelRequest, int64, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in service.UpdateInput) (domain.TravelRequest, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, next domain.Status) (domain.TravelRequest, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, actor domain.Actor, f domain.ListFilter) ([]domain.ExportRow, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	travel  TravelRequestServicer
	exports ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(travel TravelRequestServicer, exports ExportServicer) *Server {
	return &Server{travel: travel, exports: exports}
}

// Routes returns the API route tree. Everything under /v1 requires a caller
// identity; /healthz and /openapi.yaml are open.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPISpec)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireActor)

		r.Route("/travel-requests", func(r chi.Router) {
			r.Post("/", s.CreateTravelRequest)
			r.Get("/", s.ListTravelRequests)
			r.Get("/export", s.ExportTravelRequests)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetTravelRequest)
				r.Put("/", s.UpdateTravelRequest)
				r.Delete("/", s.DeleteTravelRequest)
				r.Patch("/status", s.ChangeTravelRequestStatus)
			})
		})
	})

	return r
}

// GetOpenAPISpec handles GET /openapi.yaml, serving the embedded API contract.
func (s *Server) GetOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

// actorFrom returns the identity placed in the context by the RequireActor
// middleware. Handlers under /v1 can rely on it being present; the fallback
// 401 covers a handler mounted without the middleware.
func actorFrom(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing caller identity")
		return domain.Actor{}, false
	}
	return actor, true
}

// idParam parses the {id} URL parameter. A malformed UUID is reported as
// not_found rather than a validation error: the path simply does not name
// an existing resource.
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "travel request not found")
		return uuid.Nil, false
	}
	return id, true
}

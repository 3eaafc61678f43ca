package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tcosta/corptravel/internal/domain"
	"github.com/tcosta/corptravel/internal/service"
)

// createTravelRequestBody is the JSON body for POST /v1/travel-requests.
// There is no status field: every request starts as REQUESTED.
type createTravelRequestBody struct {
	RequesterName string             `json:"requester_name"`
	Destination   string             `json:"destination"`
	DepartureDate openapi_types.Date `json:"departure_date"`
	ReturnDate    openapi_types.Date `json:"return_date"`
}

// updateTravelRequestBody is the JSON body for PUT /v1/travel-requests/{id}.
// Absent fields keep their stored values. A status field here is rejected:
// status only moves through the /status endpoint.
type updateTravelRequestBody struct {
	RequesterName *string             `json:"requester_name"`
	Destination   *string             `json:"destination"`
	DepartureDate *openapi_types.Date `json:"departure_date"`
	ReturnDate    *openapi_types.Date `json:"return_date"`
	Status        *string             `json:"status"`
}

// changeStatusBody is the JSON body for PATCH /v1/travel-requests/{id}/status.
type changeStatusBody struct {
	Status string `json:"status"`
}

type travelRequestResponse struct {
	ID            uuid.UUID          `json:"id"`
	RequesterID   uuid.UUID          `json:"requester_id"`
	RequesterName string             `json:"requester_name"`
	Destination   string             `json:"destination"`
	DepartureDate openapi_types.Date `json:"departure_date"`
	ReturnDate    openapi_types.Date `json:"return_date"`
	Status        string             `json:"status"`
	ApprovedBy    *uuid.UUID         `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time         `json:"approved_at,omitempty"`
	CancelledBy   *uuid.UUID         `json:"cancelled_by,omitempty"`
	CancelledAt   *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type paginationMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

type listTravelRequestsResponse struct {
	Data       []travelRequestResponse `json:"data"`
	Pagination paginationMeta          `json:"pagination"`
}

func toTravelRequestResponse(tr domain.TravelRequest) travelRequestResponse {
	return travelRequestResponse{
		ID:            tr.ID,
		RequesterID:   tr.RequesterID,
		RequesterName: tr.RequesterName,
		Destination:   tr.Destination,
		DepartureDate: openapi_types.Date{Time: tr.DepartureDate},
		ReturnDate:    openapi_types.Date{Time: tr.ReturnDate},
		Status:        string(tr.Status),
		ApprovedBy:    tr.ApprovedBy,
		ApprovedAt:    tr.ApprovedAt,
		CancelledBy:   tr.CancelledBy,
		CancelledAt:   tr.CancelledAt,
		CreatedAt:     tr.CreatedAt,
		UpdatedAt:     tr.UpdatedAt,
	}
}

// CreateTravelRequest handles POST /v1/travel-requests.
func (s *Server) CreateTravelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var body createTravelRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body")
		return
	}

	tr, err := s.travel.Create(r.Context(), actor, service.CreateInput{
		RequesterName: body.RequesterName,
		Destination:   body.Destination,
		DepartureDate: body.DepartureDate.Time,
		ReturnDate:    body.ReturnDate.Time,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTravelRequestResponse(tr))
}

// GetTravelRequest handles GET /v1/travel-requests/{id}.
func (s *Server) GetTravelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	tr, err := s.travel.Get(r.Context(), actor, id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTravelRequestResponse(tr))
}

// ListTravelRequests handles GET /v1/travel-requests.
func (s *Server) ListTravelRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	f, err := parseListFilter(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}
	p, err := parsePagination(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}

	requests, total, err := s.travel.List(r.Context(), actor, f, p)
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]travelRequestResponse, 0, len(requests))
	for _, tr := range requests {
		data = append(data, toTravelRequestResponse(tr))
	}
	writeJSON(w, http.StatusOK, listTravelRequestsResponse{
		Data:       data,
		Pagination: paginationMeta{Page: p.Page, PerPage: p.PerPage, Total: total},
	})
}

// UpdateTravelRequest handles PUT /v1/travel-requests/{id}.
func (s *Server) UpdateTravelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var body updateTravelRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body")
		return
	}
	if body.Status != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error",
			"status cannot be changed here, use PATCH /v1/travel-requests/{id}/status")
		return
	}

	in := service.UpdateInput{
		RequesterName: body.RequesterName,
		Destination:   body.Destination,
	}
	if body.DepartureDate != nil {
		in.DepartureDate = &body.DepartureDate.Time
	}
	if body.ReturnDate != nil {
		in.ReturnDate = &body.ReturnDate.Time
	}

	tr, err := s.travel.Update(r.Context(), actor, id, in)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTravelRequestResponse(tr))
}

// ChangeTravelRequestStatus handles PATCH /v1/travel-requests/{id}/status.
func (s *Server) ChangeTravelRequestStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var body changeStatusBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid request body")
		return
	}
	next, err := domain.ParseStatus(body.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	tr, err := s.travel.ChangeStatus(r.Context(), actor, id, next)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTravelRequestResponse(tr))
}

// DeleteTravelRequest handles DELETE /v1/travel-requests/{id}.
func (s *Server) DeleteTravelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.travel.Delete(r.Context(), actor, id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseListFilter builds a domain.ListFilter from query parameters.
// Empty values and unknown parameters are ignored. A range is only applied
// when both of its ends are present; a lone end is ignored, matching the
// original API's "both or neither" contract for ranges.
func parseListFilter(q url.Values) (domain.ListFilter, error) {
	var f domain.ListFilter

	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return domain.ListFilter{}, err
		}
		f.Status = &status
	}
	f.Destination = q.Get("destination")

	ranges := []struct {
		from, to string
		dst      **domain.DateRange
	}{
		{"departure_from", "departure_to", &f.Departure},
		{"return_from", "return_to", &f.Return},
		{"created_from", "created_to", &f.CreatedAt},
		{"travel_from", "travel_to", &f.Travel},
	}
	for _, r := range ranges {
		dr, err := parseDateRange(q, r.from, r.to)
		if err != nil {
			return domain.ListFilter{}, err
		}
		*r.dst = dr
	}

	if err := f.Validate(); err != nil {
		return domain.ListFilter{}, err
	}
	return f, nil
}

func parseDateRange(q url.Values, fromKey, toKey string) (*domain.DateRange, error) {
	rawFrom, rawTo := q.Get(fromKey), q.Get(toKey)
	if rawFrom == "" || rawTo == "" {
		return nil, nil
	}
	from, err := parseDate(fromKey, rawFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(toKey, rawTo)
	if err != nil {
		return nil, err
	}
	return &domain.DateRange{From: from, To: to}, nil
}

func parseDate(key, raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", domain.ErrValidation, key)
	}
	return t, nil
}

// parsePagination reads page and per_page, leaving defaulting and clamping
// to domain.NewPaginationParams. Non-numeric values are a validation error.
func parsePagination(q url.Values) (domain.PaginationParams, error) {
	var page, perPage *int
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PaginationParams{}, fmt.Errorf("%w: page must be an integer", domain.ErrValidation)
		}
		page = &n
	}
	if raw := q.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PaginationParams{}, fmt.Errorf("%w: per_page must be an integer", domain.ErrValidation)
		}
		perPage = &n
	}
	return domain.NewPaginationParams(page, perPage), nil
}

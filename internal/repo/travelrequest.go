// Package repo contains all database access logic for the corporate travel
// API. No business logic lives here — only SQL and type mapping. The one
// exception is ChangeStatus, which re-checks transition legality under a row
// lock because that check is inseparable from the transaction.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tcosta/corptravel/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
// Begin is needed by ChangeStatus; on a pgx.Tx it opens a savepoint, so the
// rollback trick keeps working in tests.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TravelRequestRepo defines the persistence operations for travel requests.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TravelRequestRepo interface {
	// Create inserts a new request and returns the persisted record (with
	// DB-generated id, status REQUESTED, created_at, updated_at populated).
	// Whatever status the input carries is ignored; the row always starts
	// as REQUESTED.
	Create(ctx context.Context, tr domain.TravelRequest) (domain.TravelRequest, error)

	// GetByID retrieves a single request by its UUID primary key.
	// Returns domain.ErrNotFound if no request with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TravelRequest, error)

	// List returns every request owned by requesterID that passes the
	// filter, newest-created first. Used by the export endpoint.
	List(ctx context.Context, requesterID uuid.UUID, f domain.ListFilter) ([]domain.TravelRequest, error)

	// ListPaged returns one page of matching requests plus the total count
	// across all pages. Ownership scoping and ordering are the same as List.
	ListPaged(ctx context.Context, requesterID uuid.UUID, f domain.ListFilter, p domain.PaginationParams) ([]domain.TravelRequest, int64, error)

	// Update overwrites the content fields (requester_name, destination,
	// dates) of an existing request and returns the updated record.
	// Status and audit fields are never touched here.
	// Returns domain.ErrNotFound if no request with that ID exists.
	Update(ctx context.Context, tr domain.TravelRequest) (domain.TravelRequest, error)

	// ChangeStatus applies an APPROVED or CANCELLED transition in a single
	// transaction: it locks the row, re-checks that the current status
	// still permits the transition, stamps the matching audit pair, and
	// persists everything atomically. Returns the updated record and the
	// status the row held before the change.
	//
	// Returns domain.ErrNotFound if the request does not exist and
	// domain.ErrConflict if the locked row no longer permits the
	// transition (a concurrent caller won the race).
	ChangeStatus(ctx context.Context, id uuid.UUID, next domain.Status, actorID uuid.UUID) (domain.TravelRequest, domain.Status, error)

	// Delete removes a request by ID. Returns domain.ErrNotFound if it
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// travelRequestCols is the canonical column list, shared by every SELECT and
// RETURNING clause so scanTravelRequest always sees the same shape.
const travelRequestCols = `id, requester_id, requester_name, destination,
		departure_date, return_date, status,
		approved_by, approved_at, cancelled_by, cancelled_at,
		created_at, updated_at`

// pgTravelRequestRepo is the Postgres implementation of TravelRequestRepo.
type pgTravelRequestRepo struct {
	db db
}

// NewTravelRequestRepo constructs a TravelRequestRepo backed by the provided
// db connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx
// for rollback isolation.
func NewTravelRequestRepo(db db) TravelRequestRepo {
	return &pgTravelRequestRepo{db: db}
}

// Create inserts a new request row and returns the full persisted record.
// The status column is left to its REQUESTED default on purpose.
func (r *pgTravelRequestRepo) Create(ctx context.Context, tr domain.TravelRequest) (domain.TravelRequest, error) {
	const q = `
		INSERT INTO travel_requests (requester_id, requester_name, destination, departure_date, return_date)
		VALUES (@requester_id, @requester_name, @destination, @departure_date, @return_date)
		RETURNING ` + travelRequestCols

	args := pgx.NamedArgs{
		"requester_id":   tr.RequesterID,
		"requester_name": tr.RequesterName,
		"destination":    tr.Destination,
		"departure_date": tr.DepartureDate,
		"return_date":    tr.ReturnDate,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTravelRequest(row)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("repo.TravelRequestRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a request by primary key.
func (r *pgTravelRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TravelRequest, error) {
	const q = `
		SELECT ` + travelRequestCols + `
		FROM travel_requests
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTravelRequest(row)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("repo.TravelRequestRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all matching requests for a requester, newest-created first.
func (r *pgTravelRequestRepo) List(ctx context.Context, requesterID uuid.UUID, f domain.ListFilter) ([]domain.TravelRequest, error) {
	where, args := listPredicates(requesterID, f)
	q := `
		SELECT ` + travelRequestCols + `
		FROM travel_requests
		WHERE ` + strings.Join(where, "\n		  AND ") + `
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TravelRequestRepo.List: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows, "repo.TravelRequestRepo.List")
}

// ListPaged returns one page of matching requests and the total match count.
func (r *pgTravelRequestRepo) ListPaged(ctx context.Context, requesterID uuid.UUID, f domain.ListFilter, p domain.PaginationParams) ([]domain.TravelRequest, int64, error) {
	where, args := listPredicates(requesterID, f)
	whereSQL := strings.Join(where, "\n		  AND ")

	var total int64
	countQ := `
		SELECT COUNT(*)
		FROM travel_requests
		WHERE ` + whereSQL
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TravelRequestRepo.ListPaged: count: %w", err)
	}

	args["limit"] = p.PerPage
	args["offset"] = p.Offset()
	pageQ := `
		SELECT ` + travelRequestCols + `
		FROM travel_requests
		WHERE ` + whereSQL + `
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, pageQ, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TravelRequestRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	requests, err := collectRequests(rows, "repo.TravelRequestRepo.ListPaged")
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Update overwrites the content fields of a request and returns the updated
// record. The caller (service layer) has already verified the request is
// still editable.
func (r *pgTravelRequestRepo) Update(ctx context.Context, tr domain.TravelRequest) (domain.TravelRequest, error) {
	const q = `
		UPDATE travel_requests
		SET requester_name = @requester_name,
		    destination    = @destination,
		    departure_date = @departure_date,
		    return_date    = @return_date,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + travelRequestCols

	args := pgx.NamedArgs{
		"id":             tr.ID,
		"requester_name": tr.RequesterName,
		"destination":    tr.Destination,
		"departure_date": tr.DepartureDate,
		"return_date":    tr.ReturnDate,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTravelRequest(row)
	if err != nil {
		return domain.TravelRequest{}, fmt.Errorf("repo.TravelRequestRepo.Update: %w", err)
	}
	return result, nil
}

// ChangeStatus applies a status transition atomically.
//
// The row is locked with SELECT ... FOR UPDATE and the transition predicate
// is evaluated against the locked state, so of two concurrent conflicting
// transitions exactly one commits; the loser sees the winner's status and
// gets domain.ErrConflict.
func (r *pgTravelRequestRepo) ChangeStatus(ctx context.Context, id uuid.UUID, next domain.Status, actorID uuid.UUID) (domain.TravelRequest, domain.Status, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.TravelRequest{}, "", fmt.Errorf("repo.TravelRequestRepo.ChangeStatus: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck — rollback after commit is a no-op

	const lockQ = `
		SELECT ` + travelRequestCols + `
		FROM travel_requests
		WHERE id = @id
		FOR UPDATE`

	current, err := scanTravelRequest(tx.QueryRow(ctx, lockQ, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TravelRequest{}, "", fmt.Errorf("repo.TravelRequestRepo.ChangeStatus: %w", err)
	}

	var updateQ string
	switch next {
	case domain.StatusApproved:
		if !current.Status.CanBeApproved() {
			return domain.TravelRequest{}, "", conflictErr(current.Status)
		}
		updateQ = `
			UPDATE travel_requests
			SET status      = @status,
			    approved_by = @actor_id,
			    approved_at = now(),
			    updated_at  = now()
			WHERE id = @id
			RETURNING ` + travelRequestCols
	case domain.StatusCancelled:
		if !current.Status.CanBeCancelled() {
			return domain.TravelRequest{}, "", conflictErr(current.Status)
		}
		updateQ = `
			UPDATE travel_requests
			SET status       = @status,
			    cancelled_by = @actor_id,
			    cancelled_at = now(),
			    updated_at   = now()
			WHERE id = @id
			RETURNING ` + travelRequestCols
	default:
		return domain.TravelRequest{}, "", fmt.Errorf("repo.TravelRequestRepo.ChangeStatus: %w: status %s is not a valid transition target", domain.ErrValidation, next)
	}

	args := pgx.NamedArgs{"id": id, "status": next, "actor_id": actorID}
	updated, err := scanTravelRequest(tx.QueryRow(ctx, updateQ, args))
	if err != nil {
		return domain.TravelRequest{}, "", fmt.Errorf("repo.TravelRequestRepo.ChangeStatus: update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.TravelRequest{}, "", fmt.Errorf("repo.TravelRequestRepo.ChangeStatus: commit: %w", err)
	}

	return updated, current.Status, nil
}

// Delete removes a request by primary key. Hard delete — there is no
// soft-delete or undo in this system.
func (r *pgTravelRequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM travel_requests WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TravelRequestRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TravelRequestRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// conflictErr reports a transition race loss, naming the status the caller
// actually observed under the lock.
func conflictErr(observed domain.Status) error {
	return fmt.Errorf("repo.TravelRequestRepo.ChangeStatus: %w: request is already %s",
		domain.ErrConflict, strings.ToLower(string(observed)))
}

// listPredicates renders the filter stages into WHERE clauses and named args.
// The ownership scope comes first and is always present; every other stage is
// optional. Clause order mirrors domain.ListFilter.Matches, which is the
// reference semantics these predicates must reproduce in SQL.
func listPredicates(requesterID uuid.UUID, f domain.ListFilter) ([]string, pgx.NamedArgs) {
	where := []string{"requester_id = @requester_id"}
	args := pgx.NamedArgs{"requester_id": requesterID}

	if f.Status != nil {
		where = append(where, "status = @status_filter")
		args["status_filter"] = *f.Status
	}
	if f.Destination != "" {
		where = append(where, "destination ILIKE @destination")
		args["destination"] = "%" + f.Destination + "%"
	}
	if f.Departure != nil {
		where = append(where, "departure_date BETWEEN @departure_from AND @departure_to")
		args["departure_from"] = f.Departure.From
		args["departure_to"] = f.Departure.To
	}
	if f.Return != nil {
		where = append(where, "return_date BETWEEN @return_from AND @return_to")
		args["return_from"] = f.Return.From
		args["return_to"] = f.Return.To
	}
	if f.CreatedAt != nil {
		where = append(where, "created_at BETWEEN @created_from AND @created_to")
		args["created_from"] = f.CreatedAt.From
		args["created_to"] = f.CreatedAt.To
	}
	if f.Travel != nil {
		// Three-way overlap: departure in range, return in range, or the
		// request's travel interval encloses the whole range.
		where = append(where, `(departure_date BETWEEN @travel_from AND @travel_to
		       OR return_date BETWEEN @travel_from AND @travel_to
		       OR (departure_date <= @travel_from AND return_date >= @travel_to))`)
		args["travel_from"] = f.Travel.From
		args["travel_to"] = f.Travel.To
	}

	return where, args
}

// collectRequests drains rows into a slice, wrapping errors with op.
func collectRequests(rows pgx.Rows, op string) ([]domain.TravelRequest, error) {
	var requests []domain.TravelRequest
	for rows.Next() {
		tr, err := scanTravelRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		requests = append(requests, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return requests, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing
// scanTravelRequest to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTravelRequest maps a single database row into a domain.TravelRequest.
// It handles the UUID conversions, date columns, and the two nullable audit
// pairs.
func scanTravelRequest(s scanner) (domain.TravelRequest, error) {
	var (
		tr          domain.TravelRequest
		id          pgtype.UUID
		requesterID pgtype.UUID
		depDate     pgtype.Date
		retDate     pgtype.Date
		approvedBy  pgtype.UUID
		approvedAt  pgtype.Timestamptz
		cancelledBy pgtype.UUID
		cancelledAt pgtype.Timestamptz
	)

	err := s.Scan(
		&id, &requesterID, &tr.RequesterName, &tr.Destination,
		&depDate, &retDate, &tr.Status,
		&approvedBy, &approvedAt, &cancelledBy, &cancelledAt,
		&tr.CreatedAt, &tr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelRequest{}, domain.ErrNotFound
		}
		return domain.TravelRequest{}, err
	}

	tr.ID = uuid.UUID(id.Bytes)
	tr.RequesterID = uuid.UUID(requesterID.Bytes)
	tr.DepartureDate = depDate.Time
	tr.ReturnDate = retDate.Time
	if approvedBy.Valid {
		u := uuid.UUID(approvedBy.Bytes)
		tr.ApprovedBy = &u
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		tr.ApprovedAt = &t
	}
	if cancelledBy.Valid {
		u := uuid.UUID(cancelledBy.Bytes)
		tr.CancelledBy = &u
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		tr.CancelledAt = &t
	}

	return tr, nil
}

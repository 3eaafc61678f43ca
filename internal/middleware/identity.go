package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tcosta/corptravel/internal/domain"
)

type contextKey string

// actorKey is the context key under which RequireActor stores the caller.
const actorKey contextKey = "actor"

// HeaderUserID and HeaderUserName carry the caller's identity, set by the
// authenticating gateway in front of this service.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
)

// RequireActor extracts the caller's identity from the request headers and
// stores it in the request context as a domain.Actor. Requests without a
// valid user ID are rejected with 401 and the standard error envelope.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if rawID == "" {
			writeUnauthorized(w, "missing "+HeaderUserID+" header")
			return
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			writeUnauthorized(w, HeaderUserID+" must be a valid UUID")
			return
		}

		actor := domain.Actor{
			ID:   id,
			Name: strings.TrimSpace(r.Header.Get(HeaderUserName)),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// ActorFromContext returns the actor stored by RequireActor. The second
// return is false when the middleware did not run for this request.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// writeUnauthorized mirrors internal/handler's error envelope; duplicated
// here to keep middleware free of a handler dependency.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "unauthorized", "message": message},
	})
}

package restapi

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDKey is the context key under which a request's correlation ID
// is stored.
const RequestIDKey contextKey = "request_id"

// Clients may carry their own correlation ID across services via
// X-Request-ID. Anything oversized or outside this safe-character set is
// discarded in favor of a fresh UUID so log lines stay grep-friendly.
var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-._:]+$`)

const maxRequestIDLength = 128

// RequestIDMiddleware assigns every request a correlation ID, echoes it in
// the X-Request-ID response header, and stores it in the context for the
// logging layer. It runs outermost so every later middleware sees the ID.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > maxRequestIDLength || !requestIDPattern.MatchString(id) {
			id = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the correlation ID for ctx, or "" when the request
// did not pass through RequestIDMiddleware.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

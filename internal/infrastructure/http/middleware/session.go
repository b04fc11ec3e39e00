package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SessionHeader carries the storefront session ID in both directions
const SessionHeader = "X-Session-ID"

// Session resolves the session ID of a request, minting a new one when the
// header is missing or not a UUID. The ID is echoed in the response header.
func Session() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if parsed, err := uuid.Parse(id); err == nil {
				id = parsed.String()
			} else {
				id = uuid.New().String()
			}

			w.Header().Set(SessionHeader, id)
			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("session.id", id))

			next.ServeHTTP(w, r.WithContext(telemetry.WithSessionID(r.Context(), id)))
		})
	}
}

// SessionID returns the session ID resolved by Session
func SessionID(ctx context.Context) string {
	return telemetry.SessionIDFromContext(ctx)
}

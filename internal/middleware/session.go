package middleware

import (
	"net/http"

	"github.com/fhuszti/booru-ms-go/internal/api_context"
	"github.com/fhuszti/booru-ms-go/internal/handler/api"
	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/uuid"
)

const SessionCookie = "session"

// WithSession resolves the session cookie into the request's caller. A
// missing, malformed or expired session leaves the caller anonymous.
func WithSession(resolver port.IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ck, err := r.Cookie(SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			token, err := uuid.Parse(ck.Value)
			if err != nil {
				logger.Debugf(r.Context(), "ignoring malformed session cookie: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			caller, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				api.WriteError(w, http.StatusInternalServerError, "Could not resolve session", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(api_context.WithCaller(r.Context(), caller)))
		})
	}
}

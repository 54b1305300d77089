package middleware

import (
	"net/http"

	"github.com/fhuszti/booru-ms-go/internal/api_context"
	"github.com/fhuszti/booru-ms-go/internal/handler/api"
	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
)

// RequirePermission rejects callers that may not perform op on res. Every
// denial gets the same body so it does not reveal why.
func RequirePermission(access port.AccessControl, op model.Operation, res model.Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := api_context.CallerFromContext(r.Context())
			ok, err := access.Can(r.Context(), caller, op, res)
			if err != nil {
				api.WriteError(w, http.StatusInternalServerError, "Could not check permissions", err)
				return
			}
			if !ok {
				api.WriteError(w, http.StatusUnauthorized, api.UnauthorizedMsg, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

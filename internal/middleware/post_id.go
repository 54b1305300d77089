package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fhuszti/booru-ms-go/internal/api_context"
	"github.com/fhuszti/booru-ms-go/internal/handler/api"
	"github.com/go-chi/chi/v5"
)

func WithPostID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "" {
				api.WriteError(w, http.StatusBadRequest, "ID is required", nil)
				return
			}
			parsedID, err := strconv.ParseInt(id, 10, 64)
			if err != nil || parsedID <= 0 {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("ID %q is not a valid post id", id), nil)
				return
			}

			// stash it in context and call the real handler
			ctx := context.WithValue(r.Context(), api_context.PostIDKey, parsedID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

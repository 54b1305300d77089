package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/fhuszti/booru-ms-go/internal/api_context"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/usecase/post"
)

func GetPostHandler(renderer port.HTTPRenderer, svc port.PostGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.PostIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		raw, etag, err := renderer.RenderGetPost(r.Context(), svc, id)
		if err != nil {
			if errors.Is(err, post.ErrPostNotFound) {
				WriteError(w, http.StatusNotFound, "Post not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not get post details", err)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=300")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			log.Printf("✅  Returning cached post #%d", id)
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
		log.Printf("✅  Successfully returned details for post #%d", id)
	}
}

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/fhuszti/booru-ms-go/internal/api_context"
	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/usecase/post"
)

type UploadResult struct {
	PostID int64  `json:"post_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

type UploadFailure struct {
	Error   string         `json:"error"`
	Results []UploadResult `json:"results"`
}

// UploadPostsHandler ingests every file field of a multipart batch. When all
// files succeed the body is the list of new post ids; otherwise the status
// is that of the first failure and the body still lists every outcome.
// maxBytes caps the whole request body, 0 means no cap.
func UploadPostsHandler(svc port.Ingester, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		mr, err := r.MultipartReader()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "expected a multipart/form-data body", nil)
			return
		}

		caller := api_context.CallerFromContext(r.Context())
		outcomes, err := svc.Ingest(r.Context(), caller, &multipartSource{mr: mr})
		if errors.Is(err, post.ErrUnauthorized) {
			WriteError(w, http.StatusUnauthorized, UnauthorizedMsg, nil)
			return
		}

		results := make([]UploadResult, len(outcomes))
		var first error
		for i, o := range outcomes {
			if o.Err != nil {
				results[i].Error = reason(o.Err)
				if first == nil {
					first = o.Err
				}
				continue
			}
			results[i].PostID = o.PostID
		}
		if first == nil {
			first = err
		}

		if first != nil {
			status := statusFor(first)
			if status == http.StatusInternalServerError {
				logger.Errorf(r.Context(), "❌  Upload batch failed: %v", first)
			}
			w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
			RespondJSON(w, status, UploadFailure{Error: reason(first), Results: results})
			return
		}

		RespondJSON(w, http.StatusCreated, results)
		logger.Infof(r.Context(), "✅  Ingested a batch of %d file(s)", len(results))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, post.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, post.ErrEmptyFile), errors.Is(err, post.ErrMalformedUpload):
		return http.StatusBadRequest
	case errors.Is(err, post.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, post.ErrContentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, post.ErrDuplicatePost):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// reason is the client-facing text of err. Infrastructure detail stays in
// the logs.
func reason(err error) string {
	if post.IsClientError(err) {
		return err.Error()
	}
	return "internal server error"
}

// multipartSource yields the file parts of a multipart body in the order
// the client sent them. Plain form fields are skipped.
type multipartSource struct {
	mr *multipart.Reader
}

func (s *multipartSource) Next() (*port.UploadFile, error) {
	for {
		part, err := s.mr.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read multipart: %w", err)
		}
		if part.FileName() == "" {
			continue
		}
		return &port.UploadFile{Name: part.FileName(), Body: part}, nil
	}
}

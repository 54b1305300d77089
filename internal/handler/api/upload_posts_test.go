package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/booru-ms-go/internal/api_context"
	"github.com/fhuszti/booru-ms-go/internal/mock"
	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/usecase/post"
	"github.com/fhuszti/booru-ms-go/internal/uuid"
)

type field struct {
	name, filename, body string
}

func multipartBody(t *testing.T, fields ...field) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		var w io.Writer
		var err error
		if f.filename == "" {
			w, err = mw.CreateFormField(f.name)
		} else {
			w, err = mw.CreateFormFile(f.name, f.filename)
		}
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := io.WriteString(w, f.body); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, fields ...field) *http.Request {
	t.Helper()
	body, ct := multipartBody(t, fields...)
	req := httptest.NewRequest(http.MethodPost, "/api/posts/upload", body)
	req.Header.Set("Content-Type", ct)
	return req
}

func TestUploadPostsHandler(t *testing.T) {
	dup := fmt.Errorf("%w: abcd", post.ErrDuplicatePost)

	tests := []struct {
		name        string
		out         []port.IngestOutcome
		err         error
		wantStatus  int
		wantError   string
		wantResults []UploadResult
	}{
		{
			name:        "all created",
			out:         []port.IngestOutcome{{PostID: 1}, {PostID: 2}},
			wantStatus:  http.StatusCreated,
			wantResults: []UploadResult{{PostID: 1}, {PostID: 2}},
		},
		{
			name:        "duplicate in batch",
			out:         []port.IngestOutcome{{PostID: 1}, {Err: dup}},
			wantStatus:  http.StatusConflict,
			wantError:   dup.Error(),
			wantResults: []UploadResult{{PostID: 1}, {Error: dup.Error()}},
		},
		{
			name:        "first failure decides the status",
			out:         []port.IngestOutcome{{Err: &post.UnsupportedMediaTypeError{Detected: "text/plain"}}, {Err: dup}},
			wantStatus:  http.StatusUnsupportedMediaType,
			wantError:   "unsupported media type: text/plain",
			wantResults: []UploadResult{{Error: "unsupported media type: text/plain"}, {Error: dup.Error()}},
		},
		{
			name:        "empty file",
			out:         []port.IngestOutcome{{Err: post.ErrEmptyFile}},
			wantStatus:  http.StatusBadRequest,
			wantError:   "empty file",
			wantResults: []UploadResult{{Error: "empty file"}},
		},
		{
			name:        "infrastructure failure stays generic",
			out:         []port.IngestOutcome{{Err: errors.New("insert post: connection refused")}},
			wantStatus:  http.StatusInternalServerError,
			wantError:   "internal server error",
			wantResults: []UploadResult{{Error: "internal server error"}},
		},
		{
			name:        "batch error after a commit",
			out:         []port.IngestOutcome{{PostID: 9}},
			err:         fmt.Errorf("%w: limit is 10 bytes", post.ErrContentTooLarge),
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantError:   "content too large: limit is 10 bytes",
			wantResults: []UploadResult{{PostID: 9}},
		},
		{
			name:        "permission lookup failure",
			err:         errors.New("permission check: db down"),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "internal server error",
			wantResults: []UploadResult{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockIngester{Out: tc.out, Err: tc.err}
			rec := httptest.NewRecorder()
			UploadPostsHandler(svc, 0)(rec, uploadRequest(t,
				field{name: "file", filename: "a.png", body: "aaa"},
				field{name: "file", filename: "b.png", body: "bbb"},
			))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body %q)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q; want application/json", ct)
			}

			var results []UploadResult
			if tc.wantError == "" {
				if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
					t.Fatalf("decode body: %v", err)
				}
			} else {
				var failure UploadFailure
				if err := json.Unmarshal(rec.Body.Bytes(), &failure); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if failure.Error != tc.wantError {
					t.Errorf("error = %q; want %q", failure.Error, tc.wantError)
				}
				results = failure.Results
			}
			if len(results) != len(tc.wantResults) {
				t.Fatalf("results = %+v; want %+v", results, tc.wantResults)
			}
			for i := range results {
				if results[i] != tc.wantResults[i] {
					t.Errorf("result %d = %+v; want %+v", i, results[i], tc.wantResults[i])
				}
			}
		})
	}
}

func TestUploadPostsHandler_Unauthorized(t *testing.T) {
	svc := &mock.MockIngester{Err: post.ErrUnauthorized}
	rec := httptest.NewRecorder()
	UploadPostsHandler(svc, 0)(rec, uploadRequest(t, field{name: "file", filename: "a.png", body: "aaa"}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"unauthorized"}` {
		t.Errorf("body = %s", got)
	}
}

func TestUploadPostsHandler_SkipsFormFieldsAndPassesCaller(t *testing.T) {
	uid := uuid.NewUUID()
	caller := model.Caller{UserID: &uid}
	svc := &mock.MockIngester{Out: []port.IngestOutcome{{PostID: 1}, {PostID: 2}}}

	req := uploadRequest(t,
		field{name: "file", filename: "first.webm", body: "111"},
		field{name: "comment", body: "not a file"},
		field{name: "file", filename: "second.png", body: "222"},
	)
	req = req.WithContext(api_context.WithCaller(req.Context(), caller))
	rec := httptest.NewRecorder()
	UploadPostsHandler(svc, 0)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201", rec.Code)
	}
	if got := strings.Join(svc.GotNames, ","); got != "first.webm,second.png" {
		t.Errorf("files = %q; want first.webm,second.png", got)
	}
	if svc.GotCaller.UserID == nil || *svc.GotCaller.UserID != uid {
		t.Errorf("caller = %+v; want user %s", svc.GotCaller, uid)
	}
}

func TestUploadPostsHandler_NotMultipart(t *testing.T) {
	svc := &mock.MockIngester{}
	req := httptest.NewRequest(http.MethodPost, "/api/posts/upload", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	UploadPostsHandler(svc, 0)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
	if svc.Called {
		t.Error("ingester should not be called")
	}
}

func TestMultipartSource_BodyLimit(t *testing.T) {
	req := uploadRequest(t, field{name: "file", filename: "big.bin", body: strings.Repeat("x", 4096)})
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 64)

	mr, err := req.MultipartReader()
	if err != nil {
		t.Fatalf("MultipartReader: %v", err)
	}
	src := &multipartSource{mr: mr}

	f, err := src.Next()
	if err == nil {
		_, err = io.ReadAll(f.Body)
	}
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		t.Fatalf("error = %v; want *http.MaxBytesError", err)
	}
}

func TestMultipartSource_EOF(t *testing.T) {
	req := uploadRequest(t, field{name: "note", body: "only a field"})
	mr, err := req.MultipartReader()
	if err != nil {
		t.Fatalf("MultipartReader: %v", err)
	}
	if _, err := (&multipartSource{mr: mr}).Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() = %v; want io.EOF", err)
	}
}

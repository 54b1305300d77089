package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/fhuszti/booru-ms-go/internal/api_context"
	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/uuid"
)

func TestUserAttrHandler(t *testing.T) {
	uid := uuid.NewUUID()

	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"no caller", context.Background(), "system"},
		{"anonymous caller", api_context.WithCaller(context.Background(), model.Caller{}), "anonymous"},
		{"signed in caller", api_context.WithCaller(context.Background(), model.Caller{UserID: &uid}), uid.String()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l := slog.New(userAttrHandler{h: slog.NewJSONHandler(buf, nil)})
			l.InfoContext(tc.ctx, "hello")

			var rec map[string]any
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("decode log line %q: %v", buf.String(), err)
			}
			if rec["uid"] != tc.want {
				t.Errorf("uid = %v; want %q", rec["uid"], tc.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in).Level(); got != want {
			t.Errorf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

package model

import (
	"crypto/sha256"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("hello"))
	want := Digest(sum)

	got, err := ParseDigest(want.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("ParseDigest() = %s; want %s", got, want)
	}

	tests := []string{"", "abcd", strings.Repeat("z", 64)}
	for _, in := range tests {
		if _, err := ParseDigest(in); err == nil {
			t.Errorf("ParseDigest(%q): expected error", in)
		}
	}
}

func TestDigest_Scan(t *testing.T) {
	want := Digest(sha256.Sum256([]byte("scan me")))

	var d Digest
	if err := d.Scan([]byte(want.String())); err != nil {
		t.Fatalf("Scan([]byte) error: %v", err)
	}
	if d != want {
		t.Errorf("Scan([]byte) = %s; want %s", d, want)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error when scanning an int")
	}
}

func TestDigest_JSON(t *testing.T) {
	d := Digest(sha256.Sum256([]byte("json")))
	raw, err := json.Marshal(struct {
		D Digest `json:"d"`
	}{d})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"d":"` + d.String() + `"}`; string(raw) != want {
		t.Errorf("json = %s; want %s", raw, want)
	}
}

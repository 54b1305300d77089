// Package spool writes an upload to a private scratch file while hashing it.
package spool

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/model"
)

var ErrTooLarge = errors.New("spool: upload exceeds the size limit")

// Spooled is a fully received upload resting in the scratch area.
type Spooled struct {
	Path   string
	Digest model.Digest
	Size   int64
}

type Spooler struct {
	dir string
}

func New(dir string) *Spooler {
	return &Spooler{dir: dir}
}

func (s *Spooler) Dir() string {
	return s.dir
}

// Spool writes prefix then the rest of r to a randomly named file, folding
// the same bytes into the digest in the same order. The partial file is
// removed on any error.
func (s *Spooler) Spool(ctx context.Context, prefix []byte, r io.Reader) (*Spooled, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("spool: create scratch dir: %w", err)
	}

	path := filepath.Join(s.dir, uuid.NewString())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("spool: create temp file: %w", err)
	}

	h := sha256.New()
	size, err := copyAll(ctx, io.MultiWriter(f, h), prefix, r)
	if err == nil {
		err = f.Sync()
	}
	if cErr := f.Close(); err == nil && cErr != nil {
		err = cErr
	}
	if err != nil {
		s.Discard(ctx, path)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, mbe.Limit)
		}
		return nil, fmt.Errorf("spool: write %s: %w", filepath.Base(path), err)
	}

	var d model.Digest
	copy(d[:], h.Sum(nil))
	return &Spooled{Path: path, Digest: d, Size: size}, nil
}

func copyAll(ctx context.Context, w io.Writer, prefix []byte, r io.Reader) (int64, error) {
	n, err := w.Write(prefix)
	if err != nil {
		return int64(n), err
	}
	rest, err := io.Copy(w, &ctxReader{ctx: ctx, r: r})
	return int64(n) + rest, err
}

// Discard removes a scratch file, tolerating its absence.
func (s *Spooler) Discard(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf(ctx, "failed to remove temp file %q: %v", path, err)
	}
}

// Sweep deletes scratch files last modified before cutoff and returns how
// many were removed.
func (s *Spooler) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("spool: read scratch dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil {
			logger.Warnf(ctx, "failed to sweep temp file %q: %v", path, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// ctxReader stops the copy as soon as the request is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

package mock

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/spool"
)

// Spooler implements port.Spooler for tests.
type Spooler struct {
	SpoolOut *spool.Spooled
	SweepOut int

	SpoolErr error
	SweepErr error

	Discarded   []string
	SweepCalled bool
	SweepCutoff time.Time
}

func (m *Spooler) Spool(ctx context.Context, prefix []byte, r io.Reader) (*spool.Spooled, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	if m.SpoolErr != nil {
		return nil, m.SpoolErr
	}
	return m.SpoolOut, nil
}

func (m *Spooler) Discard(ctx context.Context, path string) {
	m.Discarded = append(m.Discarded, path)
}

func (m *Spooler) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.SweepCalled = true
	m.SweepCutoff = cutoff
	return m.SweepOut, m.SweepErr
}

// ThumbnailGenerator implements port.ThumbnailGenerator for tests.
type ThumbnailGenerator struct {
	Width  int
	Height int

	ProbeErr    error
	GenerateErr error

	ProbeCalled    bool
	GenerateCalled bool
	GotSrc         string
	GotDst         string
	GotMIME        string
}

func (m *ThumbnailGenerator) Probe(ctx context.Context, path, mime string) (int, int, error) {
	m.ProbeCalled = true
	if m.ProbeErr != nil {
		return 0, 0, m.ProbeErr
	}
	return m.Width, m.Height, nil
}

func (m *ThumbnailGenerator) Generate(ctx context.Context, src, mime, dst string) error {
	m.GenerateCalled = true
	m.GotSrc = src
	m.GotMIME = mime
	m.GotDst = dst
	return m.GenerateErr
}

// Observation is one recorded ObserveIngest call.
type Observation struct {
	Kind    string
	Outcome string
	Bytes   int64
}

// IngestObserver records observations for tests.
type IngestObserver struct {
	mu  sync.Mutex
	Got []Observation
}

func (m *IngestObserver) ObserveIngest(kind, outcome string, bytes int64, took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Got = append(m.Got, Observation{kind, outcome, bytes})
}

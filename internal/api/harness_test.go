package api

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"musicsort/internal/grid"
)

type systemUnderTest struct {
	BaseURL  string
	Registry *prometheus.Registry
	Logs     *lockedBuffer
	// inProcess is false when MUSICSORT_SERVER_URL points at an external server.
	inProcess bool
	shutdown  func()
}

func (s *systemUnderTest) Close() {
	if s.shutdown != nil {
		s.shutdown()
	}
}

// startSystemUnderTest serves a fresh in-process server unless
// MUSICSORT_SERVER_URL names a running one.
func startSystemUnderTest(t *testing.T, opts Options) *systemUnderTest {
	t.Helper()

	if url := os.Getenv("MUSICSORT_SERVER_URL"); url != "" {
		t.Logf("MUSICSORT_SERVER_URL set; using existing server at %s", url)
		return &systemUnderTest{BaseURL: url}
	}

	logs := &lockedBuffer{}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Grid == nil {
		opts.Grid = grid.New()
	}

	srv := httptest.NewServer(NewServer(opts))
	return &systemUnderTest{
		BaseURL:   srv.URL,
		Registry:  opts.Registry,
		Logs:      logs,
		inProcess: true,
		shutdown:  srv.Close,
	}
}

func (s *systemUnderTest) requireInProcess(t *testing.T) {
	t.Helper()
	if !s.inProcess {
		t.Skip("needs an in-process server")
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// lockedBuffer lets handlers log while the test reads.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

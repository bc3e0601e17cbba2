package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"musicsort/internal/diag"
	"musicsort/internal/grid"
)

// Options wires the server to its collaborators. Zero values fall back to
// the reference grid, slog.Default, a private registry and the listed defaults.
type Options struct {
	Grid   *grid.Grid
	Logger *slog.Logger

	// Registry receives the server's metrics and backs GET /metrics.
	Registry *prometheus.Registry

	// MaxNotes bounds request-supplied sequences. Default 256.
	MaxNotes int
	// ReplayInterval is the pace of a replay without intervalMs. Default 1s.
	ReplayInterval time.Duration
	// MinReplayInterval is the fastest pace a client may request. Default 50ms.
	MinReplayInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Grid == nil {
		o.Grid = grid.New()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Registry == nil {
		o.Registry = prometheus.NewRegistry()
	}
	if o.MaxNotes <= 0 {
		o.MaxNotes = 256
	}
	if o.ReplayInterval <= 0 {
		o.ReplayInterval = time.Second
	}
	if o.MinReplayInterval <= 0 {
		o.MinReplayInterval = 50 * time.Millisecond
	}
	return o
}

// NewServer wires the sort handlers into a chi router with request IDs,
// request logging, panic recovery and a Prometheus endpoint.
func NewServer(opts Options) http.Handler {
	opts = opts.withDefaults()
	metrics := NewMetrics(opts.Registry)
	h := &handlers{opts: opts, metrics: metrics}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(opts.Logger, metrics))
	r.Use(recoverPanics(opts.Logger))

	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	return HandlerWithOptions(h, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, err.Error())
		},
	})
}

// requestLogger logs each request once it completes and counts it by route.
func requestLogger(logger *slog.Logger, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
			logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// recoverPanics routes handler panics through the crash bridge and answers 500.
func recoverPanics(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := diag.Guard(func() error {
				next.ServeHTTP(w, r)
				return nil
			})
			var pe *diag.PanicError
			if !errors.As(err, &pe) {
				return
			}
			if pe.Value == http.ErrAbortHandler {
				panic(pe.Value)
			}
			logger.Error("handler panicked",
				slog.String("path", r.URL.Path),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
			writeError(w, http.StatusInternalServerError, "internal error")
		})
	}
}

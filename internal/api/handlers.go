package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"musicsort/internal/diag"
	"musicsort/internal/engine"
	"musicsort/internal/model"
)

var errTooManyNotes = errors.New("too many notes")

type handlers struct {
	opts    Options
	metrics *Metrics
}

var _ ServerInterface = (*handlers)(nil)

func (h *handlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) GetGrid(w http.ResponseWriter, r *http.Request) {
	g := h.opts.Grid
	writeJSON(w, http.StatusOK, GridResponse{
		Width:  g.Width(),
		Height: g.Height(),
		Cells:  g.Cells(),
	})
}

func (h *handlers) GetSortSteps(w http.ResponseWriter, r *http.Request, algorithm string, params GetSortStepsParams) {
	alg, seq, err := h.resolve(algorithm, params.Notes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log, runID, err := h.run(r, alg, seq)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SortRun{
		RunID:     runID,
		Algorithm: alg.String(),
		Steps:     ToWire(log),
	})
}

func (h *handlers) PostLog(w http.ResponseWriter, r *http.Request) {
	var msg LogMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	if err := dec.Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	if strings.TrimSpace(msg.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	diag.LogMessage(r.Context(), h.opts.Logger.With(
		slog.String("request_id", middleware.GetReqID(r.Context())),
	), msg.Message)
	w.WriteHeader(http.StatusNoContent)
}

// resolve parses the algorithm and the optional notes, defaulting to the grid.
func (h *handlers) resolve(algorithm string, notes *string) (engine.Algorithm, model.Sequence, error) {
	alg, err := engine.ParseAlgorithm(algorithm)
	if err != nil {
		return 0, nil, err
	}
	if notes == nil {
		return alg, h.opts.Grid.Sequence(), nil
	}
	seq, err := model.ParseSequence(*notes)
	if err != nil {
		return 0, nil, err
	}
	if len(seq) > h.opts.MaxNotes {
		return 0, nil, fmt.Errorf("%w: %d > %d", errTooManyNotes, len(seq), h.opts.MaxNotes)
	}
	return alg, seq, nil
}

// run sorts seq, records metrics and returns the log with a fresh run ID.
func (h *handlers) run(r *http.Request, alg engine.Algorithm, seq model.Sequence) (model.StepLog, string, error) {
	log, err := engine.Run(alg, seq)
	if err != nil {
		return nil, "", err
	}
	runID := uuid.NewString()
	h.metrics.observeSort(alg.String(), len(log))
	h.opts.Logger.Info("sort run",
		slog.String("run_id", runID),
		slog.String("algorithm", alg.String()),
		slog.Int("notes", len(seq)),
		slog.Int("swaps", log.Swaps()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	return log, runID, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Message: msg})
}

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"musicsort/internal/model"
	"musicsort/internal/replay"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
}

const replayWriteTimeout = 5 * time.Second

// wsSink writes replay steps as JSON frames.
type wsSink struct {
	conn *websocket.Conn
}

func (s wsSink) SendStep(index, total int, step model.Step) error {
	ws := WireStep(step)
	return s.send(ReplayMessage{Index: index, Total: total, Step: &ws})
}

func (s wsSink) send(msg ReplayMessage) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(replayWriteTimeout))
	return s.conn.WriteJSON(msg)
}

func (h *handlers) ReplaySort(w http.ResponseWriter, r *http.Request, algorithm string, params ReplaySortParams) {
	alg, seq, err := h.resolve(algorithm, params.Notes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	interval := h.opts.ReplayInterval
	if params.IntervalMs != nil {
		interval = time.Duration(*params.IntervalMs) * time.Millisecond
		if interval < h.opts.MinReplayInterval {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("intervalMs must be at least %d", h.opts.MinReplayInterval.Milliseconds()))
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		h.opts.Logger.Warn("failed to upgrade the websocket", slog.Any("error", err))
		return
	}
	defer conn.Close()

	sink := wsSink{conn: conn}
	log, runID, err := h.run(r, alg, seq)
	if err != nil {
		_ = sink.send(ReplayMessage{Error: err.Error()})
		return
	}
	player, err := replay.NewPlayer(log, interval, sink)
	if err != nil {
		_ = sink.send(ReplayMessage{Error: err.Error()})
		return
	}

	h.metrics.replaySessions.Inc()
	defer h.metrics.replaySessions.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go readControls(ctx, cancel, conn, player)

	logger := h.opts.Logger.With(slog.String("run_id", runID))
	logger.Info("replay started", slog.Int("steps", len(log)), slog.Duration("interval", interval))

	err = player.Run(ctx)
	switch {
	case err == nil:
		_ = sink.send(ReplayMessage{Index: len(log), Total: len(log), Done: true})
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"),
			time.Now().Add(time.Second))
		logger.Info("replay finished")
	case errors.Is(err, context.Canceled):
		logger.Info("replay stopped by client")
	default:
		logger.Warn("replay aborted", slog.Any("error", err))
	}
}

// readControls applies client commands until the connection drops or a stop
// arrives, then cancels the replay.
func readControls(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, player *replay.Player) {
	defer cancel()
	for ctx.Err() == nil {
		var ctl ReplayControl
		if err := conn.ReadJSON(&ctl); err != nil {
			return
		}
		switch ctl.Action {
		case "pause":
			player.Pause()
		case "resume", "play":
			player.Resume()
		case "stop":
			return
		}
	}
}

// Package replay plays a step log back over time, one step per interval, the
// way the renderer animates a sort.
package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"musicsort/internal/model"
)

var ErrInvalidInterval = errors.New("replay interval must be positive")

// Sink receives steps in order. It is only ever called from the goroutine
// running Player.Run.
type Sink interface {
	SendStep(index, total int, step model.Step) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(index, total int, step model.Step) error

func (f SinkFunc) SendStep(index, total int, step model.Step) error { return f(index, total, step) }

type command int

const (
	cmdPause command = iota
	cmdResume
)

const maxPendingCommands = 16

/*
Player keeps a single goroutine in charge of the sink:
- Ordering: steps leave in log order; only Run touches the sink.
- Pacing: a ticker releases one step per interval, the first one immediately.
- Control: Pause/Resume are queued on a bounded channel and applied between ticks.
- Shutdown: Run returns as soon as the context is done.
*/
type Player struct {
	steps    model.StepLog
	interval time.Duration
	sink     Sink
	commands chan command
}

func NewPlayer(steps model.StepLog, interval time.Duration, sink Sink) (*Player, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	return &Player{
		steps:    steps,
		interval: interval,
		sink:     sink,
		commands: make(chan command, maxPendingCommands),
	}, nil
}

// Pause stops releasing steps until Resume. Commands beyond the queue bound are dropped.
func (p *Player) Pause() { p.enqueue(cmdPause) }

// Resume continues a paused replay.
func (p *Player) Resume() { p.enqueue(cmdResume) }

func (p *Player) enqueue(c command) {
	select {
	case p.commands <- c:
	default:
	}
}

// Run sends every step to the sink. It returns nil once the last step is
// sent, the context error if cancelled first, or the first sink error.
func (p *Player) Run(ctx context.Context) error {
	total := len(p.steps)
	if total == 0 {
		return nil
	}

	next := 0
	emit := func() error {
		if err := p.sink.SendStep(next, total, p.steps[next]); err != nil {
			return fmt.Errorf("send step %d: %w", next, err)
		}
		next++
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := emit(); err != nil {
		return err
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	paused := false
	for next < total {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-p.commands:
			paused = c == cmdPause
		case <-ticker.C:
			if paused {
				continue
			}
			if err := emit(); err != nil {
				return err
			}
		}
	}
	return nil
}

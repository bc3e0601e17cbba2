package replay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicsort/internal/engine"
	"musicsort/internal/model"
)

type recordingSink struct {
	mu      sync.Mutex
	indices []int
	steps   model.StepLog
	sent    chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{sent: make(chan struct{}, 64)}
}

func (s *recordingSink) SendStep(index, total int, step model.Step) error {
	s.mu.Lock()
	s.indices = append(s.indices, index)
	s.steps = append(s.steps, step)
	s.mu.Unlock()
	s.sent <- struct{}{}
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.indices)
}

var input = model.Sequence{model.E, model.G, model.D, model.B}

func TestPlayerSendsEveryStepInOrder(t *testing.T) {
	log := engine.InsertionSort(input)
	sink := newRecordingSink()

	p, err := NewPlayer(log, time.Millisecond, sink)
	require.NoError(t, err)
	require.NoError(t, p.Run(context.Background()))

	require.Equal(t, len(log), sink.count())
	for i, idx := range sink.indices {
		assert.Equal(t, i, idx)
	}
	assert.Equal(t, log, sink.steps)
}

func TestPlayerEmptyLog(t *testing.T) {
	sink := newRecordingSink()
	p, err := NewPlayer(nil, time.Millisecond, sink)
	require.NoError(t, err)
	assert.NoError(t, p.Run(context.Background()))
	assert.Zero(t, sink.count())
}

func TestPlayerRejectsNonPositiveInterval(t *testing.T) {
	_, err := NewPlayer(nil, 0, newRecordingSink())
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestPlayerStopsOnCancel(t *testing.T) {
	log := engine.InsertionSort(input)
	sink := newRecordingSink()
	p, err := NewPlayer(log, time.Hour, sink)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	<-sink.sent // the first step goes out immediately
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("player did not stop after cancel")
	}
	assert.Equal(t, 1, sink.count())
}

func TestPlayerPauseAndResume(t *testing.T) {
	log := engine.InsertionSort(input)
	require.Greater(t, len(log), 2)
	sink := newRecordingSink()
	p, err := NewPlayer(log, 20*time.Millisecond, sink)
	require.NoError(t, err)

	p.Pause()
	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	<-sink.sent
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, sink.count(), "paused player must hold back steps")

	p.Resume()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("player did not finish after resume")
	}
	assert.Equal(t, len(log), sink.count())
}

func TestPlayerSinkError(t *testing.T) {
	boom := errors.New("client gone")
	sink := SinkFunc(func(index, total int, step model.Step) error {
		if index == 1 {
			return boom
		}
		return nil
	})
	p, err := NewPlayer(engine.BubbleSort(input), time.Millisecond, sink)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Run(context.Background()), boom)
}

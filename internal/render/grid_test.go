package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicsort/internal/engine"
	"musicsort/internal/model"
)

func TestFramePlainLayout(t *testing.T) {
	step := model.Step{
		Snapshot: model.Sequence{model.C, model.B, model.E},
		IndexA:   model.NoSwap,
		IndexB:   model.NoSwap,
	}
	lines := strings.Split(Frame(step, Options{Plain: true}), "\n")
	require.Len(t, lines, model.Count())

	// Highest note (B) on top, lowest (C) at the bottom.
	assert.Equal(t, " .  B  . ", lines[0])
	assert.Equal(t, " .  .  E ", lines[4])
	assert.Equal(t, " C  .  . ", lines[6])
}

func TestFrameHighlightsSwap(t *testing.T) {
	step := model.Step{
		Snapshot: model.Sequence{model.D, model.C, model.E},
		IndexA:   0,
		IndexB:   1,
	}
	out := Frame(step, Options{Plain: true})
	assert.Contains(t, out, "[D]")
	assert.Contains(t, out, "[C]")
	assert.Contains(t, out, " E ")
	assert.NotContains(t, out, "[E]")
}

func TestFrameStyled(t *testing.T) {
	step := model.Step{Snapshot: model.Sequence{model.G}, IndexA: model.NoSwap, IndexB: model.NoSwap}
	out := Frame(step, Options{})
	assert.Contains(t, out, "G")
	assert.Len(t, strings.Split(out, "\n"), model.Count())
}

func TestLogWritesEveryStep(t *testing.T) {
	log := engine.SelectionSort(model.Sequence{model.B, model.G, model.A})

	var buf bytes.Buffer
	require.NoError(t, Log(&buf, log, Options{Plain: true}))

	out := buf.String()
	assert.Equal(t, len(log), strings.Count(out, "step "))
	assert.Contains(t, out, "step 0/2  initial")
	assert.Contains(t, out, "step 1/2  swap 0↔1")
	assert.Contains(t, out, "step 2/2  swap 1↔2")
}

func TestHeader(t *testing.T) {
	step := model.Step{IndexA: 3, IndexB: 4}
	assert.Equal(t, "step 2/9  swap 3↔4", Header(2, 9, step))
}

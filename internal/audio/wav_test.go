package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicsort/internal/engine"
	"musicsort/internal/model"
	"musicsort/internal/storage"
)

func testOptions() Options {
	return Options{SampleRate: 8000, StepDuration: 100 * time.Millisecond, Gain: 0.5}
}

func TestPitchTable(t *testing.T) {
	prev := 0.0
	for _, n := range model.All() {
		hz, ok := Pitch(n)
		require.True(t, ok, n.String())
		assert.Greater(t, hz, prev, "pitches must rise with the note order")
		prev = hz
	}
	a, _ := Pitch(model.A)
	assert.Equal(t, 440.0, a)

	_, ok := Pitch(model.Note(42))
	assert.False(t, ok)
}

func TestRenderHeaderAndLength(t *testing.T) {
	log := engine.BubbleSort(model.Sequence{model.G, model.C, model.E})
	opts := testOptions()

	data, err := Render(log, opts)
	require.NoError(t, err)

	perStep := opts.SamplesPerStep()
	require.Equal(t, 800, perStep)
	wantData := len(log) * perStep * 2
	require.Len(t, data, headerBytes+wantData)

	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]))
	assert.Equal(t, uint32(8000), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint32(wantData), binary.LittleEndian.Uint32(data[40:44]))
	assert.Equal(t, uint32(36+wantData), binary.LittleEndian.Uint32(data[4:8]))
}

func TestRenderInitialStepIsSilent(t *testing.T) {
	log := engine.InsertionSort(model.Sequence{model.D, model.C})
	opts := testOptions()

	data, err := Render(log, opts)
	require.NoError(t, err)

	perStep := opts.SamplesPerStep()
	pcm := data[headerBytes:]
	for i := 0; i < perStep; i++ {
		require.Zero(t, binary.LittleEndian.Uint16(pcm[2*i:]), "sample %d of the initial step", i)
	}

	var loud bool
	for i := perStep; i < 2*perStep; i++ {
		if binary.LittleEndian.Uint16(pcm[2*i:]) != 0 {
			loud = true
			break
		}
	}
	assert.True(t, loud, "swap step should produce a tone")
}

func TestRenderRejectsBadOptions(t *testing.T) {
	log := engine.BubbleSort(nil)
	for _, opts := range []Options{
		{SampleRate: 0, StepDuration: time.Second, Gain: 0.1},
		{SampleRate: 8000, StepDuration: 0, Gain: 0.1},
		{SampleRate: 8000, StepDuration: time.Second, Gain: 1.5},
	} {
		_, err := Render(log, opts)
		assert.ErrorIs(t, err, ErrInvalidOptions)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bubble.wav")
	log := engine.BubbleSort(model.Sequence{model.B, model.A})

	require.NoError(t, WriteFile(path, log, testOptions()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := storage.Read(f, 0, headerBytes)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(header[:4]))
	assert.Equal(t, "data", string(header[36:40]))
}

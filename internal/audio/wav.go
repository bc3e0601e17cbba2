// Package audio turns a step log into sound: one tone per swapped note, at
// the pitch of that note, encoded as a 16-bit mono PCM WAV file.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"musicsort/internal/model"
	"musicsort/internal/storage"
)

var ErrInvalidOptions = errors.New("invalid audio options")

// pitches holds the fourth-octave frequency of each note, in Hz.
var pitches = map[model.Note]float64{
	model.C: 261.63,
	model.D: 293.66,
	model.E: 329.63,
	model.F: 349.23,
	model.G: 392.00,
	model.A: 440.00,
	model.B: 493.88,
}

// Pitch returns the frequency of n.
func Pitch(n model.Note) (float64, bool) {
	hz, ok := pitches[n]
	return hz, ok
}

type Options struct {
	SampleRate   int
	StepDuration time.Duration
	// Gain is the peak amplitude in (0, 1].
	Gain float64
}

func DefaultOptions() Options {
	return Options{SampleRate: 44100, StepDuration: 500 * time.Millisecond, Gain: 0.05}
}

func (o Options) validate() error {
	switch {
	case o.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidOptions, o.SampleRate)
	case o.StepDuration <= 0:
		return fmt.Errorf("%w: step duration %s", ErrInvalidOptions, o.StepDuration)
	case o.Gain <= 0 || o.Gain > 1:
		return fmt.Errorf("%w: gain %v", ErrInvalidOptions, o.Gain)
	}
	return nil
}

// SamplesPerStep is the number of samples each step occupies.
func (o Options) SamplesPerStep() int {
	return int(int64(o.SampleRate) * int64(o.StepDuration) / int64(time.Second))
}

const (
	headerBytes   = 44
	bitsPerSample = 16
	channels      = 1
	// fadeSamples ramps each tone in and out to avoid clicks between steps.
	fadeSamples = 64
)

// Render encodes log as a WAV file. The initial step is silent; each swap
// plays the note now at IndexA for the first half of the step and the note now
// at IndexB for the second half.
func Render(log model.StepLog, opts Options) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	perStep := opts.SamplesPerStep()
	samples := make([]int16, 0, perStep*len(log))
	for _, step := range log {
		if !step.Swapped() {
			samples = append(samples, make([]int16, perStep)...)
			continue
		}
		first := perStep / 2
		samples = appendTone(samples, step.Snapshot[step.IndexA], first, opts)
		samples = appendTone(samples, step.Snapshot[step.IndexB], perStep-first, opts)
	}
	return encode(samples, opts.SampleRate), nil
}

// WriteFile renders log and stores it at path.
func WriteFile(path string, log model.StepLog, opts Options) error {
	data, err := Render(log, opts)
	if err != nil {
		return err
	}
	return storage.WriteFile(path, data)
}

func appendTone(dst []int16, n model.Note, count int, opts Options) []int16 {
	hz, ok := Pitch(n)
	if !ok {
		return append(dst, make([]int16, count)...)
	}

	fade := fadeSamples
	if count < 2*fade {
		fade = count / 2
	}
	step := 2 * math.Pi * hz / float64(opts.SampleRate)
	for i := 0; i < count; i++ {
		amp := opts.Gain
		switch {
		case i < fade:
			amp *= float64(i) / float64(fade)
		case i >= count-fade:
			amp *= float64(count-1-i) / float64(fade)
		}
		dst = append(dst, int16(math.Round(amp*math.MaxInt16*math.Sin(step*float64(i)))))
	}
	return dst
}

// encode writes the canonical 44-byte RIFF header followed by the samples.
func encode(samples []int16, sampleRate int) []byte {
	dataBytes := uint32(len(samples) * bitsPerSample / 8)
	blockAlign := uint16(channels * bitsPerSample / 8)

	var buf bytes.Buffer
	buf.Grow(headerBytes + int(dataBytes))

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36)+dataBytes)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16)) // PCM chunk size
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))  // PCM format
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate)*uint32(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataBytes)
	_ = binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

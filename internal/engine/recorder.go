package engine

import "musicsort/internal/model"

// recorder owns the private working copy of one sort run and the step log it
// produces. Every mutation of the working copy goes through swap so that no
// exchange escapes the log.
type recorder struct {
	work  model.Sequence
	steps model.StepLog
}

// newRecorder clones seq and records the initial step.
func newRecorder(seq model.Sequence) *recorder {
	r := &recorder{work: seq.Clone()}
	r.record(model.NoSwap, model.NoSwap)
	return r
}

// swap exchanges positions a and b of the working copy and records the result.
func (r *recorder) swap(a, b int) {
	r.work[a], r.work[b] = r.work[b], r.work[a]
	r.record(a, b)
}

func (r *recorder) record(a, b int) {
	r.steps = append(r.steps, model.Step{
		Snapshot: r.work.Clone(),
		IndexA:   a,
		IndexB:   b,
	})
}

// greater reports whether the value at i orders strictly after the value at j.
func (r *recorder) greater(i, j int) bool {
	return model.Compare(r.work[i], r.work[j]) > 0
}

func (r *recorder) less(i, j int) bool {
	return model.Compare(r.work[i], r.work[j]) < 0
}

func (r *recorder) log() model.StepLog {
	return r.steps
}

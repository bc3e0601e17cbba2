package engine

import "musicsort/internal/model"

// InsertionSort sorts a private copy of seq and returns every step taken.
// Adjacent equal values are never exchanged.
func InsertionSort(seq model.Sequence) model.StepLog {
	r := newRecorder(seq)
	n := len(r.work)

	for i := 1; i < n; i++ {
		for j := i; j > 0 && r.greater(j-1, j); j-- {
			r.swap(j-1, j)
		}
	}
	return r.log()
}

// SelectionSort sorts a private copy of seq and returns every step taken.
// On ties the first minimum seen wins, and a position that already holds its
// minimum produces no step.
func SelectionSort(seq model.Sequence) model.StepLog {
	r := newRecorder(seq)
	n := len(r.work)

	for i := 0; i < n; i++ {
		minIdx := i
		for j := i + 1; j < n; j++ {
			if r.less(j, minIdx) {
				minIdx = j
			}
		}
		if minIdx != i {
			r.swap(i, minIdx)
		}
	}
	return r.log()
}

// BubbleSort sorts a private copy of seq and returns every step taken. It
// stops after the first pass that makes no exchange.
func BubbleSort(seq model.Sequence) model.StepLog {
	r := newRecorder(seq)
	n := len(r.work)

	for i := 0; i < n; i++ {
		swapped := false
		for j := 0; j < n-1-i; j++ {
			if r.greater(j, j+1) {
				r.swap(j, j+1)
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
	return r.log()
}

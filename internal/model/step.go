package model

// NoSwap marks the indices of a step that was not produced by a swap.
const NoSwap = -1

// Step is one recorded state of a sort: the whole sequence after a swap of
// IndexA and IndexB, or the initial state with both indices set to NoSwap.
type Step struct {
	Snapshot Sequence
	IndexA   int
	IndexB   int
}

// Swapped reports whether the step records an actual exchange.
func (s Step) Swapped() bool {
	return s.IndexA != NoSwap && s.IndexB != NoSwap
}

// Highlights reports whether column i took part in the swap of this step.
func (s Step) Highlights(i int) bool {
	return s.Swapped() && (i == s.IndexA || i == s.IndexB)
}

// StepLog is the ordered record of one sort run. The first step is always the
// initial, unswapped state.
type StepLog []Step

// Initial returns the first step, or the zero step for an empty log.
func (l StepLog) Initial() Step {
	if len(l) == 0 {
		return Step{IndexA: NoSwap, IndexB: NoSwap}
	}
	return l[0]
}

// Final returns the snapshot of the last step.
func (l StepLog) Final() Sequence {
	if len(l) == 0 {
		return nil
	}
	return l[len(l)-1].Snapshot
}

// Swaps is the number of steps produced by swaps.
func (l StepLog) Swaps() int {
	if len(l) == 0 {
		return 0
	}
	return len(l) - 1
}

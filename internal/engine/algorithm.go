package engine

import (
	"errors"
	"fmt"
	"strings"

	"musicsort/internal/model"
)

// Algorithm selects one of the step-recording sorts.
type Algorithm int

const (
	Insertion Algorithm = iota
	Selection
	Bubble
)

var ErrUnknownAlgorithm = errors.New("unknown sort algorithm")

// Sorter is the shared shape of the three entry points.
type Sorter func(model.Sequence) model.StepLog

var (
	algorithmNames = [...]string{"insertion", "selection", "bubble"}
	sorters        = [...]Sorter{InsertionSort, SelectionSort, BubbleSort}
)

// Algorithms lists every algorithm in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{Insertion, Selection, Bubble}
}

func (a Algorithm) valid() bool {
	return a >= 0 && int(a) < len(algorithmNames)
}

func (a Algorithm) String() string {
	if !a.valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm accepts "insertion", "selection" or "bubble", optionally
// suffixed with "_sort" or "-sort", in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(strings.TrimSuffix(name, "_sort"), "-sort")
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Sorter returns the entry point for a.
func (a Algorithm) Sorter() (Sorter, error) {
	if !a.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return sorters[a], nil
}

// Run sorts a private copy of seq with alg.
func Run(alg Algorithm, seq model.Sequence) (model.StepLog, error) {
	sorter, err := alg.Sorter()
	if err != nil {
		return nil, err
	}
	return sorter(seq), nil
}

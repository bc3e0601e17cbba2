// Package grid holds the reference note sequence shown to the user and hands
// copies of it to the sort engine.
package grid

import (
	"musicsort/internal/engine"
	"musicsort/internal/model"
)

const (
	DefaultWidth  = 350
	DefaultHeight = 350

	// CellSize is the edge of one grid cell in the same units as width and height.
	CellSize = 50
)

// DefaultCells is the reference sequence.
var DefaultCells = model.Sequence{model.E, model.G, model.D, model.B, model.A, model.C, model.F}

// Grid is a fixed sequence of notes plus the drawing area it is shown in.
// Sorting never changes it.
type Grid struct {
	width  uint32
	height uint32
	cells  model.Sequence
}

// New returns the reference grid.
func New() *Grid {
	return NewWithCells(DefaultWidth, DefaultHeight, DefaultCells)
}

// NewWithCells copies cells so later changes by the caller do not leak in.
func NewWithCells(width, height uint32, cells model.Sequence) *Grid {
	return &Grid{width: width, height: height, cells: cells.Clone()}
}

func (g *Grid) Width() uint32  { return g.width }
func (g *Grid) Height() uint32 { return g.height }
func (g *Grid) Len() int       { return len(g.cells) }

// Cells returns the display names of the current sequence.
func (g *Grid) Cells() []string { return g.cells.Names() }

// Sequence returns a copy of the notes.
func (g *Grid) Sequence() model.Sequence { return g.cells.Clone() }

func (g *Grid) InsertionSort() model.StepLog { return engine.InsertionSort(g.cells) }
func (g *Grid) SelectionSort() model.StepLog { return engine.SelectionSort(g.cells) }
func (g *Grid) BubbleSort() model.StepLog    { return engine.BubbleSort(g.cells) }

// Sort runs alg over the grid's notes.
func (g *Grid) Sort(alg engine.Algorithm) (model.StepLog, error) {
	return engine.Run(alg, g.cells)
}

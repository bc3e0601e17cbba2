package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicsort/internal/engine"
	"musicsort/internal/model"
)

func TestNewReferenceGrid(t *testing.T) {
	g := New()
	assert.Equal(t, uint32(350), g.Width())
	assert.Equal(t, uint32(350), g.Height())
	assert.Equal(t, 7, g.Len())
	assert.Equal(t, []string{"e", "g", "d", "b", "a", "c", "f"}, g.Cells())
}

func TestSortsLeaveGridUntouched(t *testing.T) {
	g := New()
	before := g.Sequence()

	logs := []model.StepLog{g.InsertionSort(), g.SelectionSort(), g.BubbleSort()}
	for _, alg := range engine.Algorithms() {
		log, err := g.Sort(alg)
		require.NoError(t, err)
		logs = append(logs, log)
	}

	for _, log := range logs {
		assert.True(t, log.Final().IsSorted())
		assert.Equal(t, before, log.Initial().Snapshot)
	}
	assert.Equal(t, before, g.Sequence())
}

func TestNewWithCellsCopiesInput(t *testing.T) {
	cells := model.Sequence{model.D, model.C}
	g := NewWithCells(100, 50, cells)
	cells[0] = model.B

	assert.Equal(t, []string{"d", "c"}, g.Cells())

	seq := g.Sequence()
	seq[1] = model.A
	assert.Equal(t, []string{"d", "c"}, g.Cells())
}

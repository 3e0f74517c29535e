package instance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/pivot/ilp"
	"q.log/pivot/instance"
)

func TestReadMPS(t *testing.T) {
	in, err := instance.NewReader("testdata/knapsack.mps").Read()
	require.NoError(t, err)

	assert.True(t, in.Minimize)
	assert.Equal(t, []string{"X1", "X2"}, in.Names)

	d := in.Dictionary
	m, n := d.Dims()
	require.Equal(t, 4, m)
	require.Equal(t, 2, n)
	assert.Equal(t, []int{3, 4, 5, 6}, d.BasicIndices())
	assert.Equal(t, []int{1, 2}, d.NonBasicIndices())

	// CAP, VOL, LOW (>= negated), upper bound of X2
	wantA := [][]float64{
		{-6, -4},
		{-1, -2},
		{1, 0},
		{0, -1},
	}
	wantB := []float64{24, 6, -1, 3}
	for i := range m {
		assert.InDelta(t, wantB[i], d.RHS(i), 1e-12, "b[%d]", i)
		for j := range n {
			assert.InDelta(t, wantA[i][j], d.At(i, j), 1e-12, "A[%d][%d]", i, j)
		}
	}
	assert.InDeltaSlice(t, []float64{0, 5, 4}, d.ObjectiveRow(), 1e-12)

	s := ilp.New(d)
	require.NoError(t, s.Solve())
	assert.InDeltaSlice(t, []float64{4, 0}, s.Solution(), 1e-9)
	assert.InDelta(t, -20.0, in.Objective(s.Objective()), 1e-9)
}

func TestReadMPSFreeColumn(t *testing.T) {
	_, err := instance.NewReader("testdata/free.mps").Read()
	require.ErrorIs(t, err, instance.ErrUnsupported)
}

func TestReadMPSMissingFile(t *testing.T) {
	_, err := instance.NewReader("testdata/missing.mps").Read()
	require.ErrorIs(t, err, instance.ErrFormat)
}

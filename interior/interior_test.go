package interior_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"q.log/pivot/dictionary"
	"q.log/pivot/interior"
	"q.log/pivot/simplex"
)

func problem(rows, cols int, a, b, c []float64) *interior.Problem {
	return &interior.Problem{
		A: mat.NewDense(rows, cols, a),
		B: b,
		C: c,
	}
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name      string
		p         *interior.Problem
		x         []float64
		objective float64
	}{
		{
			name:      "scenario",
			p:         problem(2, 2, []float64{2, 1, 1, 2}, []float64{4, 4}, []float64{3, 2}),
			x:         []float64{4.0 / 3, 4.0 / 3},
			objective: 20.0 / 3,
		},
		{
			name:      "knapsack relaxation",
			p:         problem(2, 2, []float64{6, 4, 1, 2}, []float64{24, 6}, []float64{5, 4}),
			x:         []float64{3, 1.5},
			objective: 21,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := interior.New(tt.p).Solve()
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.x, res.X, 1e-4)
			assert.InDelta(t, tt.objective, res.PrimalObjective, 1e-4)
			assert.InDelta(t, res.PrimalObjective, res.DualObjective, 1e-4)
			assert.Less(t, res.Iterations, interior.MaxIterations)
		})
	}
}

func TestSolveMinimizeOverFeasibleRegion(t *testing.T) {
	// max -x1 - x2 s.t. x1 + x2 >= 2, x1 <= 3: optimum -2 on a whole edge
	p := problem(2, 2, []float64{-1, -1, 1, 0}, []float64{-2, 3}, []float64{-1, -1})
	res, err := interior.New(p).Solve()
	require.NoError(t, err)
	assert.InDelta(t, -2.0, res.PrimalObjective, 1e-4)
	assert.InDelta(t, 2.0, res.X[0]+res.X[1], 1e-4)
}

func TestSolveDetectsInfeasibleAndUnbounded(t *testing.T) {
	tests := []struct {
		name string
		p    *interior.Problem
		want error
	}{
		{
			name: "infeasible",
			p:    problem(2, 2, []float64{-1, -1, 1, 1}, []float64{-5, 2}, []float64{1, 1}),
			want: interior.ErrInfeasible,
		},
		{
			name: "unbounded",
			p:    problem(1, 2, []float64{-1, 1}, []float64{4}, []float64{1, 0}),
			want: interior.ErrUnbounded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := interior.New(tt.p).Solve()
			require.ErrorIs(t, err, tt.want)
			require.NotNil(t, res)
			assert.Len(t, res.X, 2)
		})
	}
}

func TestSolveIterationLimit(t *testing.T) {
	p := problem(2, 2, []float64{2, 1, 1, 2}, []float64{4, 4}, []float64{3, 2})
	res, err := interior.New(p, interior.WithMaxIterations(5)).Solve()
	require.ErrorIs(t, err, interior.ErrIterationLimit)
	assert.Equal(t, 5, res.Iterations)
}

func TestFromDictionary(t *testing.T) {
	// columns hold x2 then x1
	d, err := dictionary.New(2, 2,
		[]int{3, 4}, []int{2, 1},
		[]float64{4, 4},
		[]float64{
			-1, -2,
			-2, -1,
		},
		[]float64{0, 2, 3},
	)
	require.NoError(t, err)

	p, err := interior.FromDictionary(d)
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{2, 1, 1, 2}), p.A))
	assert.Equal(t, []float64{4, 4}, p.B)
	assert.Equal(t, []float64{3, 2}, p.C)

	res, err := interior.New(p).Solve()
	require.NoError(t, err)
	assert.InDelta(t, 20.0/3, res.PrimalObjective, 1e-4)

	// after a pivot a structural variable is basic
	s := simplex.New(d, simplex.WithMaxIterations(1))
	require.ErrorIs(t, s.Run(), simplex.ErrIterationLimit)
	_, err = interior.FromDictionary(d)
	require.ErrorIs(t, err, dictionary.ErrNotCanonical)
}

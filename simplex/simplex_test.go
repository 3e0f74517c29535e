package simplex_test

import (
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/pivot/dictionary"
	"q.log/pivot/simplex"
)

type recorder struct {
	pivots   []simplex.Pivot
	statuses []simplex.Status
}

func (r *recorder) ObservePivot(p simplex.Pivot) {
	r.pivots = append(r.pivots, p)
}

func (r *recorder) ObserveStatus(s simplex.Status) {
	r.statuses = append(r.statuses, s)
}

func newDict(t *testing.T, m, n int, basic, nonBasic []int, b, a, z []float64) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.New(m, n, basic, nonBasic, b, a, z)
	require.NoError(t, err)
	return d
}

// scenario is max 3x1 + 2x2 s.t. 2x1 + x2 <= 4, x1 + 2x2 <= 4.
func scenario(t *testing.T) *dictionary.Dictionary {
	return newDict(t, 2, 2, []int{3, 4}, []int{1, 2},
		[]float64{4, 4},
		[]float64{-2, -1, -1, -2},
		[]float64{0, 3, 2})
}

func TestRunScenario(t *testing.T) {
	rec := &recorder{}
	s := simplex.New(scenario(t), simplex.WithObserver(rec))

	require.NoError(t, s.Run())
	assert.Equal(t, simplex.Optimal, s.Status())
	assert.InDeltaSlice(t, []float64{4.0 / 3, 4.0 / 3}, s.Solution(), 1e-9)
	assert.InDelta(t, 20.0/3, s.Objective(), 1e-9)
	assert.Equal(t, 2, s.Iterations())

	want := []simplex.Pivot{
		{Iteration: 1, Entering: 1, Leaving: 3, Objective: 6},
		{Iteration: 2, Entering: 2, Leaving: 4, Objective: 20.0 / 3},
	}
	if diff := cmp.Diff(want, rec.pivots, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("pivots mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []simplex.Status{simplex.Optimal}, rec.statuses)
}

func TestRunTwoPhase(t *testing.T) {
	tests := []struct {
		name      string
		dict      func(t *testing.T) *dictionary.Dictionary
		solution  []float64
		objective float64
		total     int
	}{
		{
			// max x1 + x2 s.t. x1 + x2 >= 2, x1 <= 3, x2 <= 3
			name: "maximize from infeasible origin",
			dict: func(t *testing.T) *dictionary.Dictionary {
				return newDict(t, 3, 2, []int{3, 4, 5}, []int{1, 2},
					[]float64{-2, 3, 3},
					[]float64{
						1, 1,
						-1, 0,
						0, -1,
					},
					[]float64{0, 1, 1})
			},
			solution:  []float64{3, 3},
			objective: 6,
			total:     3,
		},
		{
			// min x1 + x2 s.t. x1 + x2 >= 2, x1 <= 3
			name: "minimize through negated objective",
			dict: func(t *testing.T) *dictionary.Dictionary {
				return newDict(t, 2, 2, []int{3, 4}, []int{1, 2},
					[]float64{-2, 3},
					[]float64{
						1, 1,
						-1, 0,
					},
					[]float64{0, -1, -1})
			},
			solution:  []float64{2, 0},
			objective: -2,
			total:     1,
		},
		{
			name: "constant objective term survives phase one",
			dict: func(t *testing.T) *dictionary.Dictionary {
				return newDict(t, 2, 2, []int{3, 4}, []int{1, 2},
					[]float64{-2, 3},
					[]float64{
						1, 1,
						-1, 0,
					},
					[]float64{10, -1, -1})
			},
			solution:  []float64{2, 0},
			objective: 8,
			total:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := simplex.New(tt.dict(t))
			require.NoError(t, s.Run())
			assert.Equal(t, simplex.Optimal, s.Status())
			assert.InDeltaSlice(t, tt.solution, s.Solution(), 1e-9)
			assert.InDelta(t, tt.objective, s.Objective(), 1e-9)
			assert.Equal(t, tt.total, s.TotalIterations())
			assert.False(t, s.Dictionary().IsDual())

			m, _ := s.Dictionary().Dims()
			for i := range m {
				assert.GreaterOrEqual(t, s.Dictionary().RHS(i), -dictionary.Tol)
			}
		})
	}
}

func TestRunInfeasible(t *testing.T) {
	// x1 + x2 >= 5 and x1 + x2 <= 2
	d := newDict(t, 2, 2, []int{3, 4}, []int{1, 2},
		[]float64{-5, 2},
		[]float64{
			1, 1,
			-1, -1,
		},
		[]float64{0, 1, 1})
	rec := &recorder{}
	s := simplex.New(d, simplex.WithObserver(rec))

	err := s.Run()
	require.ErrorIs(t, err, simplex.ErrInfeasible)
	assert.Equal(t, simplex.Infeasible, s.Status())
	assert.Equal(t, []simplex.Status{simplex.Infeasible}, rec.statuses)

	// terminal: solving again does not pivot
	require.ErrorIs(t, s.Solve(), simplex.ErrInfeasible)
	assert.Len(t, rec.pivots, 1)
}

func TestRunUnbounded(t *testing.T) {
	d := newDict(t, 1, 2, []int{3}, []int{1, 2},
		[]float64{4},
		[]float64{1, -1},
		[]float64{0, 1, 0})
	rec := &recorder{}
	s := simplex.New(d, simplex.WithObserver(rec))

	err := s.Run()
	require.ErrorIs(t, err, simplex.ErrUnbounded)
	assert.Equal(t, simplex.Unbounded, s.Status())
	assert.Empty(t, rec.pivots)
	assert.True(t, d.Unbounded())

	require.ErrorIs(t, s.Solve(), simplex.ErrUnbounded)
	assert.Empty(t, rec.pivots)
}

func TestDualViewMatchesPrimalOptimum(t *testing.T) {
	// dual of the scenario: min 4y1 + 4y2 s.t. 2y1 + y2 >= 3, y1 + 2y2 >= 2
	newDual := func() *dictionary.Dictionary {
		return newDict(t, 2, 2, []int{3, 4}, []int{1, 2},
			[]float64{-3, -2},
			[]float64{
				2, 1,
				1, 2,
			},
			[]float64{0, -4, -4})
	}

	primal := simplex.New(scenario(t))
	require.NoError(t, primal.Run())

	d := newDual()
	d.SetDualView()
	dual := simplex.New(d)
	require.NoError(t, dual.Solve())
	assert.InDelta(t, primal.Objective(), -dual.Objective(), 1e-9)
	assert.InDeltaSlice(t, []float64{4.0 / 3, 1.0 / 3}, dual.Solution(), 1e-9)

	twoPhase := simplex.New(newDual())
	require.NoError(t, twoPhase.Run())
	assert.InDelta(t, primal.Objective(), -twoPhase.Objective(), 1e-9)
}

func TestPivotSequenceIsDeterministic(t *testing.T) {
	run := func() []simplex.Pivot {
		// x1 ties between the rows of x4 and x3
		d := newDict(t, 2, 2, []int{4, 3}, []int{1, 2},
			[]float64{2, 2},
			[]float64{
				-1, 0,
				-1, -1,
			},
			[]float64{0, 1, 1})
		rec := &recorder{}
		require.NoError(t, simplex.New(d, simplex.WithObserver(rec)).Run())
		return rec.pivots
	}

	first := run()
	require.Equal(t, []simplex.Pivot{{Iteration: 1, Entering: 1, Leaving: 3, Objective: 2}}, first)
	for range 3 {
		if diff := cmp.Diff(first, run()); diff != "" {
			t.Fatalf("pivot sequence changed (-first +again):\n%s", diff)
		}
	}
}

func TestMaxIterations(t *testing.T) {
	s := simplex.New(scenario(t), simplex.WithMaxIterations(1))
	err := s.Run()
	require.ErrorIs(t, err, simplex.ErrIterationLimit)
	assert.Equal(t, simplex.NotSolved, s.Status())
	assert.Equal(t, 1, s.Iterations())
}

func TestTraceLogging(t *testing.T) {
	var lines []string
	log := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	s := simplex.New(scenario(t), simplex.WithLogger(log))
	require.NoError(t, s.Run())

	var pivots []string
	for _, l := range lines {
		if strings.Contains(l, `"msg"="pivot"`) {
			pivots = append(pivots, l)
		}
	}
	require.Len(t, pivots, 2)
	assert.Contains(t, pivots[0], `"entering"=1`)
	assert.Contains(t, pivots[0], `"leaving"=3`)
	assert.Contains(t, pivots[1], `"entering"=2`)
	assert.Contains(t, pivots[1], `"leaving"=4`)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "optimal", simplex.Optimal.String())
	assert.Equal(t, "infeasible", simplex.Infeasible.String())
	assert.Equal(t, "unbounded", simplex.Unbounded.String())
	assert.Equal(t, "not solved", simplex.NotSolved.String())
}

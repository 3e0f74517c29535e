package metrics_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/pivot/dictionary"
	"q.log/pivot/ilp"
	"q.log/pivot/metrics"
	"q.log/pivot/simplex"
)

func scenario(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.New(2, 2, []int{3, 4}, []int{1, 2},
		[]float64{4, 4},
		[]float64{-2, -1, -1, -2},
		[]float64{0, 3, 2})
	require.NoError(t, err)
	return d
}

func TestCollectorCountsSimplex(t *testing.T) {
	c := metrics.New()
	s := simplex.New(scenario(t), simplex.WithObserver(c))
	require.NoError(t, s.Run())

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Pivots("primal")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Pivots("dual")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Statuses(simplex.Optimal)))
	assert.InDelta(t, 20.0/3, testutil.ToFloat64(c.Objective()), 1e-12)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Cuts()))
}

func TestCollectorCountsCuts(t *testing.T) {
	c := metrics.New()
	s := ilp.New(scenario(t),
		ilp.WithObserver(c),
		ilp.WithSimplexOptions(simplex.WithObserver(c)))
	require.NoError(t, s.Solve())

	assert.Equal(t, 6.0, testutil.ToFloat64(c.Cuts()))
	assert.Equal(t, float64(1+s.Rounds()), testutil.ToFloat64(c.Statuses(simplex.Optimal)))

	primal := testutil.ToFloat64(c.Pivots("primal"))
	dual := testutil.ToFloat64(c.Pivots("dual"))
	assert.Equal(t, 2.0, primal)
	assert.Positive(t, dual)
	assert.Equal(t, float64(s.Simplex().TotalIterations()), primal+dual)
	assert.InDelta(t, 6.0, testutil.ToFloat64(c.Objective()), 1e-9)
}

func TestCollectorInfeasible(t *testing.T) {
	// x1 + x2 >= 5 and x1 + x2 <= 2
	d, err := dictionary.New(2, 2, []int{3, 4}, []int{1, 2},
		[]float64{-5, 2},
		[]float64{1, 1, -1, -1},
		[]float64{0, 1, 1})
	require.NoError(t, err)

	c := metrics.New()
	require.ErrorIs(t, simplex.New(d, simplex.WithObserver(c)).Run(), simplex.ErrInfeasible)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Statuses(simplex.Infeasible)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Statuses(simplex.Optimal)))
}

func TestWrite(t *testing.T) {
	c := metrics.New()
	require.NoError(t, simplex.New(scenario(t), simplex.WithObserver(c)).Run())

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	out := buf.String()
	assert.Contains(t, out, "# TYPE pivot_pivots_total counter")
	assert.Contains(t, out, `pivot_pivots_total{view="primal"} 2`)
	assert.Contains(t, out, `pivot_solves_total{status="optimal"} 1`)

	expected := `
# HELP pivot_cuts_total Number of Gomory cuts added.
# TYPE pivot_cuts_total counter
pivot_cuts_total 0
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "pivot_cuts_total"))
}

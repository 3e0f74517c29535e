// Package dictionary holds the algebraic state of one simplex tableau in
// dictionary form: every basic variable is written as
//
//	x_basic[i] = b[i] + Σ_j A[i][j] * x_nonBasic[j]
//
// and the objective as z = z[0] + Σ_j z[j+1] * x_nonBasic[j].
//
// The same storage can be pivoted either as a primal or as a dual simplex
// tableau, depending on the current view.
package dictionary

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Tol is the shared zero tolerance. Values with |x| < Tol are treated as zero.
const Tol = 1e-6

type Dictionary struct {
	//n number of non-basic (structural) slots, fixed
	n int
	//m number of basic rows, grows with every cutting plane
	m int

	//basic global variable index of each row
	basic []int
	//nonBasic global variable index of each column
	nonBasic []int

	//a coefficients, m x n
	a *mat.Dense
	//b right-hand sides
	b []float64
	//z objective value followed by the n objective coefficients
	z []float64

	isDual      bool
	isFinal     bool
	isUnbounded bool
}

// New builds a dictionary from its canonical form. a is given row-major
// with m*n entries and z has n+1 entries (z0 c1..cn).
func New(m, n int, basic, nonBasic []int, b, a, z []float64) (*Dictionary, error) {
	if m < 1 || n < 1 {
		return nil, errors.Wrapf(ErrDimensionMismatch, "m=%d n=%d", m, n)
	}
	if len(basic) != m {
		return nil, errors.Wrapf(ErrDimensionMismatch, "got %d basic indices, want %d", len(basic), m)
	}
	if len(nonBasic) != n {
		return nil, errors.Wrapf(ErrDimensionMismatch, "got %d non-basic indices, want %d", len(nonBasic), n)
	}
	if len(b) != m {
		return nil, errors.Wrapf(ErrDimensionMismatch, "got %d right-hand sides, want %d", len(b), m)
	}
	if len(a) != m*n {
		return nil, errors.Wrapf(ErrDimensionMismatch, "got %d coefficients, want %d", len(a), m*n)
	}
	if len(z) != n+1 {
		return nil, errors.Wrapf(ErrDimensionMismatch, "got %d objective entries, want %d", len(z), n+1)
	}

	aCopy := make([]float64, len(a))
	copy(aCopy, a)
	d := &Dictionary{
		n:        n,
		m:        m,
		basic:    append([]int(nil), basic...),
		nonBasic: append([]int(nil), nonBasic...),
		a:        mat.NewDense(m, n, aCopy),
		b:        append([]float64(nil), b...),
		z:        append([]float64(nil), z...),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate checks the shape of the storage and that basic and non-basic
// indices together hold every index in 1..n+m exactly once.
func (d *Dictionary) Validate() error {
	r, c := d.a.Dims()
	if r != d.m || c != d.n || len(d.b) != d.m || len(d.basic) != d.m ||
		len(d.nonBasic) != d.n || len(d.z) != d.n+1 {
		return errors.Wrapf(ErrDimensionMismatch, "storage is %dx%d for m=%d n=%d", r, c, d.m, d.n)
	}

	total := d.n + d.m
	seen := make([]bool, total+1)
	for _, ids := range [][]int{d.basic, d.nonBasic} {
		for _, id := range ids {
			if id < 1 || id > total {
				return errors.Wrapf(ErrIndexSet, "index %d outside 1..%d", id, total)
			}
			if seen[id] {
				return errors.Wrapf(ErrIndexSet, "index %d appears twice", id)
			}
			seen[id] = true
		}
	}

	return nil
}

// SetDualView switches to the dual view and clears the terminal flags.
func (d *Dictionary) SetDualView() {
	d.isDual = true
	d.isFinal = false
	d.isUnbounded = false
}

// SetPrimalView switches to the primal view and clears the terminal flags.
func (d *Dictionary) SetPrimalView() {
	d.isDual = false
	d.isFinal = false
	d.isUnbounded = false
}

func (d *Dictionary) IsDual() bool {
	return d.isDual
}

// Final reports whether the last entering selection found no candidate.
func (d *Dictionary) Final() bool {
	return d.isFinal
}

// Unbounded reports whether the last ratio test found no eligible pivot.
func (d *Dictionary) Unbounded() bool {
	return d.isUnbounded
}

// NonBasic returns the global index of the id-th non-basic slot of the
// current view. In the dual view the rows play that role.
func (d *Dictionary) NonBasic(id int) int {
	if d.isDual {
		return d.basic[id]
	}
	return d.nonBasic[id]
}

// Basic returns the global index of the id-th basic slot of the current view.
func (d *Dictionary) Basic(id int) int {
	if d.isDual {
		return d.nonBasic[id]
	}
	return d.basic[id]
}

// NumNonBasic is the number of non-basic slots in the current view.
func (d *Dictionary) NumNonBasic() int {
	if d.isDual {
		return d.m
	}
	return d.n
}

// NumBasic is the number of basic slots in the current view.
func (d *Dictionary) NumBasic() int {
	if d.isDual {
		return d.n
	}
	return d.m
}

// Dims returns the stored number of rows and columns, independent of the view.
func (d *Dictionary) Dims() (m, n int) {
	return d.m, d.n
}

// At returns A[i][j] as stored.
func (d *Dictionary) At(i, j int) float64 {
	return d.a.At(i, j)
}

// RHS returns b[i] as stored.
func (d *Dictionary) RHS(i int) float64 {
	return d.b[i]
}

// Objective returns the current objective value z[0].
func (d *Dictionary) Objective() float64 {
	return d.z[0]
}

// ObjectiveRow returns a copy of z.
func (d *Dictionary) ObjectiveRow() []float64 {
	return append([]float64(nil), d.z...)
}

// SetObjectiveRow replaces z. It must have n+1 entries.
func (d *Dictionary) SetObjectiveRow(z []float64) error {
	if len(z) != d.n+1 {
		return errors.Wrapf(ErrDimensionMismatch, "got %d objective entries, want %d", len(z), d.n+1)
	}
	copy(d.z, z)
	return nil
}

func (d *Dictionary) BasicIndices() []int {
	return append([]int(nil), d.basic...)
}

func (d *Dictionary) NonBasicIndices() []int {
	return append([]int(nil), d.nonBasic...)
}

// AddCuttingPlane appends the row x_new = rhs + Σ_j a[j]*x_nonBasic[j] with a
// fresh basic index. The dictionary has to be re-optimized afterwards.
func (d *Dictionary) AddCuttingPlane(a []float64, rhs float64) error {
	if len(a) != d.n {
		return errors.Wrapf(ErrDimensionMismatch, "cut has %d coefficients, want %d", len(a), d.n)
	}

	d.a = d.a.Grow(1, 0).(*mat.Dense)
	d.a.SetRow(d.m, a)
	d.b = append(d.b, rhs)
	d.m++
	d.basic = append(d.basic, d.n+d.m)

	d.isFinal = false
	d.isUnbounded = false
	return nil
}

// PrimalSolution returns the values of the structural variables 1..n.
// Non-basic ones are zero.
func (d *Dictionary) PrimalSolution() []float64 {
	solution := make([]float64, d.n)
	for i, id := range d.basic {
		if id <= d.n {
			solution[id-1] = d.b[i]
		}
	}
	return solution
}

// Inequalities rebuilds max c.x s.t. Ax <= b, x >= 0 from a starting
// dictionary. Every basic variable must be a slack; the columns may hold the
// structural variables in any order.
func (d *Dictionary) Inequalities() (a *mat.Dense, b, c []float64, err error) {
	for _, id := range d.basic {
		if id <= d.n {
			return nil, nil, nil, errors.Wrapf(ErrNotCanonical, "structural variable %d is basic", id)
		}
	}

	a = mat.NewDense(d.m, d.n, nil)
	c = make([]float64, d.n)
	for j, id := range d.nonBasic {
		c[id-1] = d.z[j+1]
		for i := range d.m {
			a.Set(i, id-1, -d.a.At(i, j))
		}
	}
	b = append([]float64(nil), d.b...)
	return a, b, c, nil
}

// Package instance loads problems into canonical dictionary form, either
// from the dictionary text format or from MPS files read through GLPK.
package instance

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lukpank/go-glpk/glpk"
	pkgerrors "github.com/pkg/errors"
	"q.log/pivot/dictionary"
)

var (
	ErrFormat      = errors.New("instance: malformed input")
	ErrUnsupported = errors.New("instance: problem cannot be put in canonical form")
)

// Instance is a loaded problem. The dictionary always maximizes; when the
// source minimizes, Minimize is set and the objective was negated.
type Instance struct {
	Dictionary *dictionary.Dictionary
	//Names of the structural variables, in index order; empty for text input
	Names    []string
	Minimize bool
}

// Objective converts a dictionary objective value back to the source sense.
func (in *Instance) Objective(z0 float64) float64 {
	if in.Minimize {
		return -z0
	}
	return z0
}

// Reader reads a problem file, dispatching on its extension: ".mps" goes
// through GLPK, anything else is read as a dictionary.
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

func (r *Reader) Read() (*Instance, error) {
	if strings.EqualFold(filepath.Ext(r.filename), ".mps") {
		return r.ReadMPS()
	}

	f, err := os.Open(r.filename)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open dictionary")
	}
	defer f.Close()

	d, err := ReadDictionary(f)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "read %s", r.filename)
	}
	return &Instance{Dictionary: d}, nil
}

// row is one canonical constraint: Σ coef[j]*x[j] <= rhs.
type row struct {
	coef []float64
	rhs  float64
}

// ReadMPS reads a free MPS file and converts it to the canonical form
// max c.x s.t. Ax <= b, x >= 0.
func (r *Reader) ReadMPS() (*Instance, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, r.filename); err != nil {
		return nil, pkgerrors.Wrapf(ErrFormat, "read mps %s: %v", r.filename, err)
	}

	numCols := lp.NumCols()
	in := &Instance{Minimize: lp.ObjDir() == glpk.MIN}

	//populate obj function; index 0 holds the constant term
	z := make([]float64, numCols+1)
	for c := range numCols + 1 {
		z[c] = lp.ObjCoef(c)
		if in.Minimize && z[c] != 0 {
			z[c] = -z[c]
		}
	}
	for c := 1; c <= numCols; c++ {
		in.Names = append(in.Names, lp.ColName(c))
	}

	//populate constraints
	var rows []row
	for r := 1; r <= lp.NumRows(); r++ {
		rowVec := make([]float64, numCols)
		idxs, vals := lp.MatRow(r)
		for i, v := range idxs {
			if v == 0 {
				continue
			}
			rowVec[v-1] = vals[i]
		}

		lb, ub := lp.RowLB(r), lp.RowUB(r)
		if ub != math.MaxFloat64 {
			rows = append(rows, row{coef: rowVec, rhs: ub})
		}
		if lb != -math.MaxFloat64 {
			rows = append(rows, row{coef: negate(rowVec), rhs: -lb})
		}
	}

	//column bounds become rows as well
	for c := range numCols {
		lb, ub := lp.ColLB(c+1), lp.ColUB(c+1)
		if lb < 0 {
			return nil, pkgerrors.Wrapf(ErrUnsupported, "column %s has lower bound %g", lp.ColName(c+1), lb)
		}
		if lb > 0 {
			rowVec := make([]float64, numCols)
			rowVec[c] = -1
			rows = append(rows, row{coef: rowVec, rhs: -lb})
		}
		if ub != math.MaxFloat64 {
			rowVec := make([]float64, numCols)
			rowVec[c] = 1
			rows = append(rows, row{coef: rowVec, rhs: ub})
		}
	}

	d, err := canonical(numCols, rows, z)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "mps %s", r.filename)
	}
	in.Dictionary = d
	return in, nil
}

// canonical builds the starting dictionary with the slack of row i as basic
// variable n+1+i.
func canonical(n int, rows []row, z []float64) (*dictionary.Dictionary, error) {
	m := len(rows)
	if m == 0 {
		return nil, pkgerrors.Wrap(ErrUnsupported, "no constraints")
	}
	if n == 0 {
		return nil, pkgerrors.Wrap(ErrUnsupported, "no columns")
	}

	basic := make([]int, m)
	for i := range m {
		basic[i] = n + 1 + i
	}
	nonBasic := make([]int, n)
	for j := range n {
		nonBasic[j] = j + 1
	}
	b := make([]float64, m)
	a := make([]float64, 0, m*n)
	for i, rw := range rows {
		b[i] = rw.rhs
		a = append(a, negate(rw.coef)...)
	}

	return dictionary.New(m, n, basic, nonBasic, b, a, z)
}

// negate flips the signs of v without producing negative zeros.
func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if x != 0 {
			out[i] = -x
		}
	}
	return out
}

// Package crosscheck solves a starting dictionary with independent solvers,
// GLPK and gonum's simplex, so that results of the dictionary solvers can be
// compared against them.
package crosscheck

import (
	"errors"
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"
	pkgerrors "github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize/convex/lp"
	"q.log/pivot/dictionary"
	"q.log/pivot/model"
)

var (
	ErrInfeasible = errors.New("crosscheck: problem is infeasible")
	ErrUnbounded  = errors.New("crosscheck: problem is unbounded")
	ErrSolver     = errors.New("crosscheck: solver failed")
	ErrMismatch   = errors.New("crosscheck: objective values differ")
)

// Tol is the relative tolerance used by Agree.
const Tol = 1e-5

type Result struct {
	//X values of the structural variables 1..n
	X         []float64
	Objective float64
}

// Agree reports whether two objective values are equal up to Tol relative to
// their magnitude.
func Agree(got, want float64) bool {
	return math.Abs(got-want) <= Tol*(1+math.Max(math.Abs(got), math.Abs(want)))
}

// Compare returns ErrMismatch when got and want.Objective do not agree.
func Compare(got float64, want *Result) error {
	if !Agree(got, want.Objective) {
		return pkgerrors.Wrapf(ErrMismatch, "got %g, reference %g", got, want.Objective)
	}
	return nil
}

// Gonum solves the linear relaxation with gonum's simplex.
func Gonum(d *dictionary.Dictionary) (*Result, error) {
	m, err := model.FromDictionary(d)
	if err != nil {
		return nil, err
	}

	z, x, err := lp.Simplex(m.C, m.A, m.B, 0, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return nil, pkgerrors.Wrap(ErrInfeasible, "gonum")
	case errors.Is(err, lp.ErrUnbounded):
		return nil, pkgerrors.Wrap(ErrUnbounded, "gonum")
	case err != nil:
		return nil, pkgerrors.Wrapf(ErrSolver, "gonum: %v", err)
	}

	return &Result{
		X:         append([]float64(nil), x[:m.Structural]...),
		Objective: -(z + m.Constant),
	}, nil
}

// GLPK solves the linear relaxation with the GLPK simplex.
func GLPK(d *dictionary.Dictionary) (*Result, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	prob, err := newProb(d)
	if err != nil {
		return nil, err
	}
	defer prob.Delete()

	if err := solveRelaxation(prob); err != nil {
		return nil, err
	}

	_, n := d.Dims()
	res := &Result{
		X:         make([]float64, n),
		Objective: prob.ObjVal(),
	}
	for j := range n {
		res.X[j] = prob.ColPrim(j + 1)
	}
	return res, nil
}

// GLPKInteger solves the problem with every structural variable integer
// through GLPK's branch and cut.
func GLPKInteger(d *dictionary.Dictionary) (*Result, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	prob, err := newProb(d)
	if err != nil {
		return nil, err
	}
	defer prob.Delete()

	_, n := d.Dims()
	for j := range n {
		prob.SetColKind(j+1, glpk.IV)
	}

	//intopt without presolve needs an optimal relaxation
	if err := solveRelaxation(prob); err != nil {
		return nil, err
	}

	iocp := glpk.NewIocp()
	iocp.SetMsgLev(glpk.MSG_OFF)
	if err := prob.Intopt(iocp); err != nil {
		return nil, pkgerrors.Wrapf(ErrSolver, "glpk intopt: %v", err)
	}
	switch prob.MipStatus() {
	case glpk.OPT:
	case glpk.NOFEAS:
		return nil, pkgerrors.Wrap(ErrInfeasible, "glpk intopt")
	default:
		return nil, pkgerrors.Wrapf(ErrSolver, "glpk intopt status %d", prob.MipStatus())
	}

	res := &Result{
		X:         make([]float64, n),
		Objective: prob.MipObjVal(),
	}
	for j := range n {
		res.X[j] = prob.MipColVal(j + 1)
	}
	return res, nil
}

// newProb loads max c.x + z0 s.t. Ax <= b, x >= 0 into a GLPK problem.
func newProb(d *dictionary.Dictionary) (*glpk.Prob, error) {
	a, b, c, err := d.Inequalities()
	if err != nil {
		return nil, err
	}
	numRows, numCols := a.Dims()

	prob := glpk.New()
	prob.SetObjDir(glpk.MAX)
	prob.SetObjCoef(0, d.Objective())

	prob.AddCols(numCols)
	for j := range numCols {
		prob.SetColBnds(j+1, glpk.LO, 0, 0)
		prob.SetObjCoef(j+1, c[j])
	}

	//glpk arrays are 1-based, index 0 is ignored
	ind := make([]int32, numCols+1)
	for j := range numCols {
		ind[j+1] = int32(j + 1)
	}
	prob.AddRows(numRows)
	for i := range numRows {
		val := make([]float64, numCols+1)
		for j := range numCols {
			val[j+1] = a.At(i, j)
		}
		prob.SetMatRow(i+1, ind, val)
		prob.SetRowBnds(i+1, glpk.UP, 0, b[i])
	}
	return prob, nil
}

func solveRelaxation(prob *glpk.Prob) error {
	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MSG_OFF)
	if err := prob.Simplex(smcp); err != nil {
		return pkgerrors.Wrapf(ErrSolver, "glpk simplex: %v", err)
	}

	switch prob.Status() {
	case glpk.OPT:
		return nil
	case glpk.NOFEAS, glpk.INFEAS:
		return pkgerrors.Wrap(ErrInfeasible, "glpk simplex")
	case glpk.UNBND:
		return pkgerrors.Wrap(ErrUnbounded, "glpk simplex")
	default:
		return pkgerrors.Wrapf(ErrSolver, "glpk simplex status %d", prob.Status())
	}
}

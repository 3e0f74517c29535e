// Package interior solves
//
//	maximize    c.x
//	subject to  Ax <= b, x >= 0
//
// with a primal-dual central path interior point method. It reads the same
// canonical dictionaries as the simplex solvers but shares no state with them.
package interior

import (
	"errors"
	"math"

	"github.com/go-logr/logr"
	pkgerrors "github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/pivot/dictionary"
)

const (
	MaxIterations = 200
	Eps           = 1e-6
	Delta         = 0.02
	Sigma         = 0.9
	// Bound on the iterates beyond which the problem is declared
	// infeasible (dual iterate) or unbounded (primal iterate).
	Bound = 1e9

	start = 1000.0
)

var (
	ErrInfeasible     = errors.New("interior: linear program is infeasible")
	ErrUnbounded      = errors.New("interior: linear program is unbounded")
	ErrIterationLimit = errors.New("interior: iteration limit reached")
	ErrNumerical      = errors.New("interior: normal equations are not positive definite")
)

// Problem is max c.x s.t. Ax <= b, x >= 0.
type Problem struct {
	A *mat.Dense
	B []float64
	C []float64
}

// FromDictionary rebuilds the inequality form of a starting dictionary.
func FromDictionary(d *dictionary.Dictionary) (*Problem, error) {
	a, b, c, err := d.Inequalities()
	if err != nil {
		return nil, err
	}
	return &Problem{A: a, B: b, C: c}, nil
}

type Result struct {
	X               []float64
	Y               []float64
	PrimalObjective float64
	DualObjective   float64
	Iterations      int
}

type Option func(*Solver)

func WithLogger(log logr.Logger) Option {
	return func(s *Solver) {
		s.log = log
	}
}

func WithMaxIterations(k int) Option {
	return func(s *Solver) {
		s.maxIter = k
	}
}

type Solver struct {
	p       *Problem
	maxIter int
	log     logr.Logger
}

func New(p *Problem, opts ...Option) *Solver {
	s := &Solver{
		p:       p,
		maxIter: MaxIterations,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve iterates until the scaled residuals and the duality gap drop below
// Eps. The returned result holds the last iterate also when err is not nil.
func (s *Solver) Solve() (*Result, error) {
	A := s.p.A
	m, n := A.Dims()
	b := mat.NewVecDense(m, s.p.B)
	c := mat.NewVecDense(n, s.p.C)

	x := constVec(n, start)
	xs := constVec(m, start)
	y := constVec(m, start)
	ys := constVec(n, start)

	rp := mat.NewVecDense(m, nil)
	rd := mat.NewVecDense(n, nil)
	dx := mat.NewVecDense(n, nil)
	dxs := mat.NewVecDense(m, nil)
	dy := mat.NewVecDense(m, nil)
	dys := mat.NewVecDense(n, nil)
	dn := make([]float64, n)
	dm := make([]float64, m)
	tempn := mat.NewVecDense(n, nil)
	tempm := mat.NewVecDense(m, nil)
	rhs := mat.NewVecDense(m, nil)

	rpfact := 1 + floats.Norm(s.p.B, 2)
	rdfact := 1 + floats.Norm(s.p.C, 2)

	res := &Result{}
	for iter := 0; iter < s.maxIter; iter++ {
		res.Iterations = iter

		//primal residual Ax + xs - b
		rp.MulVec(A, x)
		rp.AddVec(rp, xs)
		rp.SubVec(rp, b)
		normrp := mat.Norm(rp, 2) / rpfact

		//dual residual A'y - ys - c
		rd.MulVec(A.T(), y)
		rd.SubVec(rd, ys)
		rd.SubVec(rd, c)
		normrd := mat.Norm(rd, 2) / rdfact

		gap := mat.Dot(x, ys) + mat.Dot(xs, y)
		mu := Delta * gap / float64(n+m)
		res.PrimalObjective = mat.Dot(c, x)
		res.DualObjective = mat.Dot(b, y)
		normgap := gap / (1 + math.Abs(res.PrimalObjective))

		s.log.V(1).Info("central path",
			"iteration", iter,
			"primal", res.PrimalObjective,
			"dual", res.DualObjective,
			"normrp", normrp,
			"normrd", normrd,
			"normgap", normgap)

		if normrp < Eps && normrd < Eps && normgap < Eps {
			res.X = copyVec(x)
			res.Y = copyVec(y)
			return res, nil
		}
		if infNorm(y) > Bound {
			res.X = copyVec(x)
			return res, pkgerrors.Wrapf(ErrInfeasible, "dual iterate exceeds %g", Bound)
		}
		if infNorm(x) > Bound {
			res.X = copyVec(x)
			return res, pkgerrors.Wrapf(ErrUnbounded, "primal iterate exceeds %g", Bound)
		}

		for i := range n {
			dn[i] = x.AtVec(i) / ys.AtVec(i)
		}
		for i := range m {
			dm[i] = xs.AtVec(i) / y.AtVec(i)
		}
		for i := range n {
			tempn.SetVec(i, x.AtVec(i)-mu/ys.AtVec(i)+dn[i]*rd.AtVec(i))
		}
		tempm.MulVec(A, tempn)
		for i := range m {
			rhs.SetVec(i, rp.AtVec(i)+mu/y.AtVec(i)-xs.AtVec(i)-tempm.AtVec(i))
		}

		//normal equations (A D A' + Dm) dy = rhs
		if err := solveNormal(dy, A, dn, dm, rhs); err != nil {
			res.X = copyVec(x)
			return res, pkgerrors.Wrapf(err, "iteration %d", iter)
		}

		dys.MulVec(A.T(), dy)
		dys.AddVec(dys, rd)
		for i := range n {
			dx.SetVec(i, -dn[i]*dys.AtVec(i)+mu/ys.AtVec(i)-x.AtVec(i))
		}
		for i := range m {
			dxs.SetVec(i, -dm[i]*dy.AtVec(i)+mu/y.AtVec(i)-xs.AtVec(i))
		}

		alphaP := Sigma * stepLength(stepLength(1, x, dx), xs, dxs)
		alphaD := Sigma * stepLength(stepLength(1, y, dy), ys, dys)

		x.AddScaledVec(x, alphaP, dx)
		xs.AddScaledVec(xs, alphaP, dxs)
		y.AddScaledVec(y, alphaD, dy)
		ys.AddScaledVec(ys, alphaD, dys)
	}

	res.Iterations = s.maxIter
	res.X = copyVec(x)
	res.Y = copyVec(y)
	return res, pkgerrors.Wrapf(ErrIterationLimit, "after %d iterations", s.maxIter)
}

func solveNormal(dst *mat.VecDense, A *mat.Dense, dn, dm []float64, rhs *mat.VecDense) error {
	m, _ := A.Dims()

	var ad mat.Dense
	ad.Apply(func(_, j int, v float64) float64 {
		return v * dn[j]
	}, A)
	var prod mat.Dense
	prod.Mul(&ad, A.T())

	sym := mat.NewSymDense(m, nil)
	for i := range m {
		for j := i; j < m; j++ {
			v := prod.At(i, j)
			if i == j {
				v += dm[i]
			}
			sym.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return ErrNumerical
	}
	return chol.SolveVecTo(dst, rhs)
}

// stepLength shortens alpha so that v + alpha*dv stays non-negative.
func stepLength(alpha float64, v, dv *mat.VecDense) float64 {
	for i := range v.Len() {
		if v.AtVec(i)+alpha*dv.AtVec(i) < 0 {
			alpha = -v.AtVec(i) / dv.AtVec(i)
		}
	}
	return alpha
}

func constVec(n int, v float64) *mat.VecDense {
	data := make([]float64, n)
	for i := range data {
		data[i] = v
	}
	return mat.NewVecDense(n, data)
}

func copyVec(v *mat.VecDense) []float64 {
	return append([]float64(nil), v.RawVector().Data...)
}

func infNorm(v *mat.VecDense) float64 {
	return floats.Norm(v.RawVector().Data, math.Inf(1))
}

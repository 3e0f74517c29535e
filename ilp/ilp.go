// Package ilp solves integer linear programs given in dictionary form with
// Gomory fractional cuts: the LP relaxation is solved first, then cuts are
// appended for every fractional basic value and the dictionary is
// re-optimized with the dual simplex until all values are integral.
package ilp

import (
	"errors"
	"math"

	"github.com/go-logr/logr"
	pkgerrors "github.com/pkg/errors"
	"q.log/pivot/dictionary"
	"q.log/pivot/simplex"
)

var (
	ErrInfeasible = errors.New("ilp: integer program is infeasible")
	ErrUnbounded  = errors.New("ilp: integer program is unbounded")
	ErrRoundLimit = errors.New("ilp: cutting-plane round limit reached")
)

// Observer is notified for every cut appended to the dictionary.
type Observer interface {
	ObserveCut()
}

type Option func(*Solver)

func WithLogger(log logr.Logger) Option {
	return func(s *Solver) {
		s.log = log
	}
}

func WithObserver(o Observer) Option {
	return func(s *Solver) {
		s.observers = append(s.observers, o)
	}
}

// WithMaxRounds caps the cutting-plane rounds. Zero means no cap.
func WithMaxRounds(k int) Option {
	return func(s *Solver) {
		s.maxRounds = k
	}
}

// WithSimplexOptions forwards options to the underlying Simplex.
func WithSimplexOptions(opts ...simplex.Option) Option {
	return func(s *Solver) {
		s.simplexOpts = append(s.simplexOpts, opts...)
	}
}

type Solver struct {
	simplex *simplex.Simplex
	rounds  int
	cuts    int

	maxRounds   int
	simplexOpts []simplex.Option
	log         logr.Logger
	observers   []Observer
}

func New(d *dictionary.Dictionary, opts ...Option) *Solver {
	s := &Solver{
		log: logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.simplex = simplex.New(d, s.simplexOpts...)
	return s
}

// Solve solves the LP relaxation and then adds Gomory cuts until the
// solution is integral.
func (s *Solver) Solve() error {
	s.log.V(1).Info("solving LP relaxation")
	if err := s.simplex.Run(); err != nil {
		switch {
		case errors.Is(err, simplex.ErrInfeasible):
			return pkgerrors.Wrap(ErrInfeasible, err.Error())
		case errors.Is(err, simplex.ErrUnbounded):
			return pkgerrors.Wrap(ErrUnbounded, err.Error())
		}
		return err
	}

	s.log.V(1).Info("solving ILP with Gomory cuts", "relaxation", s.simplex.Objective())
	d := s.simplex.Dictionary()
	d.SetDualView()
	for s.addCuttingPlanes() {
		if s.maxRounds > 0 && s.rounds >= s.maxRounds {
			return pkgerrors.Wrapf(ErrRoundLimit, "after %d rounds", s.rounds)
		}
		s.rounds++
		if err := s.simplex.Solve(); err != nil {
			if errors.Is(err, simplex.ErrUnbounded) {
				// the cuts left no bounded dual step: no integer point remains
				return pkgerrors.Wrapf(ErrInfeasible, "round %d: %v", s.rounds, err)
			}
			return err
		}
		s.log.V(1).Info("cutting plane round",
			"iteration", s.rounds,
			"objective", s.simplex.Objective())
	}

	s.log.V(1).Info("integer solution obtained",
		"rounds", s.rounds,
		"cuts", s.cuts,
		"objective", s.simplex.Objective(),
		"solution", s.simplex.Solution())
	return nil
}

// addCuttingPlanes appends one cut per fractional row and reports whether
// any was added.
func (s *Solver) addCuttingPlanes() bool {
	d := s.simplex.Dictionary()
	//rows appended below must not be scanned in this round
	m, n := d.Dims()
	added := false
	for i := range m {
		if IsIntegral(d.RHS(i)) {
			continue
		}
		a := make([]float64, n)
		for j := range n {
			a[j] = Frac(-d.At(i, j))
		}
		if err := d.AddCuttingPlane(a, -Frac(d.RHS(i))); err != nil {
			// a has exactly n entries
			panic(err)
		}
		added = true
		s.cuts++
		for _, o := range s.observers {
			o.ObserveCut()
		}
	}
	return added
}

// Simplex returns the underlying LP solver.
func (s *Solver) Simplex() *simplex.Simplex {
	return s.simplex
}

func (s *Solver) Solution() []float64 {
	return s.simplex.Solution()
}

func (s *Solver) Objective() float64 {
	return s.simplex.Objective()
}

// Rounds is the number of cutting-plane rounds that were re-optimized.
func (s *Solver) Rounds() int {
	return s.rounds
}

// Cuts is the total number of cuts added.
func (s *Solver) Cuts() int {
	return s.cuts
}

// Frac returns x - floor(x).
func Frac(x float64) float64 {
	return x - math.Floor(x)
}

// IsIntegral reports whether x is within dictionary.Tol of an integer.
func IsIntegral(x float64) bool {
	f := Frac(x)
	return f < dictionary.Tol || f > 1-dictionary.Tol
}

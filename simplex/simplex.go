// Package simplex drives a dictionary to optimality with the two-phase
// simplex method. Phase 1 replaces the objective with an auxiliary one and
// runs the dual simplex on it; Phase 2 restores the original objective and
// runs the primal simplex.
package simplex

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"q.log/pivot/dictionary"
)

type Simplex struct {
	dict     *dictionary.Dictionary
	solution []float64
	status   Status

	//iter pivots of the last Solve call, total pivots overall
	iter  int
	total int

	enterVar int
	leaveVar int

	maxIter   int
	log       logr.Logger
	observers []Observer
}

// New returns a Simplex that owns d for the whole solve.
func New(d *dictionary.Dictionary, opts ...Option) *Simplex {
	s := &Simplex{
		dict: d,
		log:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run makes the dictionary feasible and then optimizes it.
func (s *Simplex) Run() error {
	if err := s.Initialize(); err != nil {
		return err
	}
	return s.Solve()
}

// Initialize runs Phase 1 when some right-hand side is negative. It returns
// ErrInfeasible when no feasible dictionary exists. On success the
// dictionary is in the primal view with its original objective expressed in
// the new basis.
func (s *Simplex) Initialize() error {
	m, n := s.dict.Dims()
	needed := false
	for i := range m {
		if s.dict.RHS(i) < -dictionary.Tol {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	s.log.V(1).Info("initialization phase")

	//keep the original objective to restore it later on
	primalZ := s.dict.ObjectiveRow()
	aux := make([]float64, n+1)
	aux[0] = primalZ[0]
	for j := 1; j <= n; j++ {
		aux[j] = -1
	}
	if err := s.dict.SetObjectiveRow(aux); err != nil {
		return err
	}

	s.dict.SetDualView()
	if _, err := s.loop(); err != nil {
		if errors.Is(err, ErrUnbounded) {
			s.finish(Infeasible)
			return errors.Wrap(ErrInfeasible, "auxiliary problem has no feasible basis")
		}
		return err
	}
	s.dict.SetPrimalView()

	//substitute the original costs into the feasible basis
	z := make([]float64, n+1)
	z[0] = primalZ[0]
	for j, id := range s.dict.NonBasicIndices() {
		if id <= n {
			z[j+1] += primalZ[id]
		}
	}
	for i, id := range s.dict.BasicIndices() {
		if id > n {
			continue
		}
		z[0] += primalZ[id] * s.dict.RHS(i)
		for j := range n {
			z[j+1] += primalZ[id] * s.dict.At(i, j)
		}
	}

	return s.dict.SetObjectiveRow(z)
}

// Solve runs the pivot loop in the current view of the dictionary until it
// is final or a ratio test fails.
func (s *Simplex) Solve() error {
	if s.status == Infeasible {
		return ErrInfeasible
	}
	if s.dict.Unbounded() {
		return ErrUnbounded
	}

	s.log.V(1).Info("optimization phase", "dual", s.dict.IsDual())
	status, err := s.loop()
	if status != NotSolved {
		s.finish(status)
	}
	if err != nil {
		return err
	}

	s.log.V(1).Info("optimal solution obtained",
		"iterations", s.iter,
		"objective", s.dict.Objective(),
		"solution", s.solution)
	return nil
}

func (s *Simplex) loop() (Status, error) {
	s.iter = 0
	for {
		enter := s.dict.Entering()
		if s.dict.Final() {
			s.solution = s.dict.PrimalSolution()
			return Optimal, nil
		}

		leave := s.dict.Leaving(enter)
		if s.dict.Unbounded() {
			return Unbounded, errors.Wrapf(ErrUnbounded, "no bound for entering variable %d", s.dict.NonBasic(enter))
		}

		if s.maxIter > 0 && s.iter >= s.maxIter {
			return NotSolved, errors.Wrapf(ErrIterationLimit, "after %d pivots", s.iter)
		}
		s.iter++
		s.total++

		//cache the variables before the pivot swaps them
		s.enterVar = s.dict.NonBasic(enter)
		s.leaveVar = s.dict.Basic(leave)
		s.dict.Pivot(enter, leave)

		p := Pivot{
			Iteration: s.iter,
			Entering:  s.enterVar,
			Leaving:   s.leaveVar,
			Dual:      s.dict.IsDual(),
			Objective: s.dict.Objective(),
		}
		s.log.V(1).Info("pivot",
			"iteration", p.Iteration,
			"entering", p.Entering,
			"leaving", p.Leaving,
			"objective", p.Objective)
		for _, o := range s.observers {
			o.ObservePivot(p)
		}
	}
}

func (s *Simplex) finish(status Status) {
	s.status = status
	for _, o := range s.observers {
		o.ObserveStatus(status)
	}
}

// Dictionary returns the dictionary being solved.
func (s *Simplex) Dictionary() *dictionary.Dictionary {
	return s.dict
}

// Solution returns the structural variable values of the last optimum.
func (s *Simplex) Solution() []float64 {
	return s.solution
}

func (s *Simplex) Objective() float64 {
	return s.dict.Objective()
}

func (s *Simplex) Status() Status {
	return s.status
}

// Iterations is the number of pivots of the last Solve call.
func (s *Simplex) Iterations() int {
	return s.iter
}

func (s *Simplex) TotalIterations() int {
	return s.total
}

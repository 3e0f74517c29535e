package simplex

import "errors"

var (
	ErrInfeasible     = errors.New("simplex: linear program is infeasible")
	ErrUnbounded      = errors.New("simplex: linear program is unbounded")
	ErrIterationLimit = errors.New("simplex: iteration limit reached")
)

// Status is the terminal state of a solve.
type Status int

const (
	NotSolved Status = iota
	Optimal
	Infeasible
	Unbounded
)

func (s Status) String() string {
	switch s {
	case NotSolved:
		return "not solved"
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	}
	return "unknown"
}

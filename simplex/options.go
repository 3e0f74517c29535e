package simplex

import "github.com/go-logr/logr"

// Pivot describes one simplex iteration. Entering and Leaving are global
// variable indices of the view the pivot ran in.
type Pivot struct {
	Iteration int
	Entering  int
	Leaving   int
	Dual      bool
	Objective float64
}

// Observer receives every pivot and every terminal status.
type Observer interface {
	ObservePivot(p Pivot)
	ObserveStatus(s Status)
}

type Option func(*Simplex)

// WithLogger sets the logger used for trace records. Pivots are logged at V(1).
func WithLogger(log logr.Logger) Option {
	return func(s *Simplex) {
		s.log = log
	}
}

func WithObserver(o Observer) Option {
	return func(s *Simplex) {
		s.observers = append(s.observers, o)
	}
}

// WithMaxIterations caps the pivots of a single Solve call. Zero means no cap.
func WithMaxIterations(k int) Option {
	return func(s *Simplex) {
		s.maxIter = k
	}
}

package dictionary

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector or matrix does not match m/n.
	ErrDimensionMismatch = errors.New("dictionary: dimension mismatch")

	// ErrIndexSet is returned when basic and non-basic indices are not a
	// permutation of 1..n+m.
	ErrIndexSet = errors.New("dictionary: basic/non-basic indices are not a permutation")

	// ErrNotCanonical is returned when a structural variable is basic.
	ErrNotCanonical = errors.New("dictionary: not in canonical form")
)

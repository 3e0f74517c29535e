// Package model holds a linear program in standard form
//
//	minimize    c.x
//	subject to  Ax = b, x >= 0
//
// as consumed by gonum's simplex implementation.
package model

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
	"q.log/pivot/dictionary"
)

var ErrMismatch = errors.New("model: dimension mismatch")

type Model struct {
	//C objective function coefficients
	C []float64

	//A constraints matrix
	A *mat.Dense

	//B constraints rhs
	B []float64

	//Constant objective term carried over from the dictionary, already in
	//the minimization sense
	Constant float64

	//Structural number of leading columns that are original variables
	Structural int

	NumRows int
	NumCols int
}

func NewModel(numRows, numCols int) *Model {
	return &Model{
		C:          make([]float64, numCols),
		A:          mat.NewDense(numRows, numCols, nil),
		B:          make([]float64, numRows),
		Structural: numCols,
		NumRows:    numRows,
		NumCols:    numCols,
	}
}

func (m *Model) SetC(cVec []float64) error {
	if len(cVec) != m.NumCols {
		return fmt.Errorf("%w: %d objective coefficients for %d columns", ErrMismatch, len(cVec), m.NumCols)
	}

	m.C = append([]float64(nil), cVec...)

	return nil
}

func (m *Model) SetA(aVec []float64) error {
	if len(aVec) != m.NumCols*m.NumRows {
		return fmt.Errorf("%w: %d coefficients for %dx%d", ErrMismatch, len(aVec), m.NumRows, m.NumCols)
	}

	m.A = mat.NewDense(m.NumRows, m.NumCols, append([]float64(nil), aVec...))

	return nil
}

func (m *Model) SetB(bVec []float64) error {
	if len(bVec) != m.NumRows {
		return fmt.Errorf("%w: %d right-hand sides for %d rows", ErrMismatch, len(bVec), m.NumRows)
	}

	m.B = append([]float64(nil), bVec...)

	return nil
}

// AddCol appends a column with objective coefficient coef.
func (m *Model) AddCol(cVec []float64, coef float64) error {
	if len(cVec) != m.NumRows {
		return fmt.Errorf("%w: column has %d entries for %d rows", ErrMismatch, len(cVec), m.NumRows)
	}

	m.A = mat.DenseCopyOf(m.A.Grow(0, 1))
	m.A.SetCol(m.NumCols, cVec)
	m.C = append(m.C, coef)

	m.NumCols++
	return nil
}

func (m *Model) MultiplyConstraint(row int, mul float64) error {
	if row < 0 || row >= m.NumRows {
		return fmt.Errorf("%w: row %d does not exist", ErrMismatch, row)
	}

	for col := range m.NumCols {
		m.A.Set(row, col, m.A.At(row, col)*mul)
	}
	m.B[row] *= mul
	return nil
}

// FromDictionary converts a starting dictionary into standard form. Every
// inequality row gets a slack column and rows with a negative right-hand side
// are negated so that b >= 0.
func FromDictionary(d *dictionary.Dictionary) (*Model, error) {
	a, b, c, err := d.Inequalities()
	if err != nil {
		return nil, err
	}
	numRows, numCols := a.Dims()

	m := NewModel(numRows, numCols)
	m.A.Copy(a)
	m.Constant = -d.Objective()
	if err := m.SetB(b); err != nil {
		return nil, err
	}
	for j, v := range c {
		m.C[j] = -v
	}

	//adds slack variables
	for r := range numRows {
		colVec := make([]float64, numRows)
		colVec[r] = 1
		if err := m.AddCol(colVec, 0); err != nil {
			return nil, err
		}
	}

	for r := range m.NumRows {
		if m.B[r] < 0 {
			if err := m.MultiplyConstraint(r, -1); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *Model) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "c = %v\n", m.C)
	fmt.Fprintf(&sb, "A = %v\n", mat.Formatted(m.A, mat.Prefix("    "), mat.Squeeze()))
	fmt.Fprintf(&sb, "b = %v\n", m.B)
	return sb.String()
}

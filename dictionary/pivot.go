package dictionary

import (
	"math"
)

// Entering selects the entering slot of the current view, or returns -1 and
// marks the dictionary final when there is none.
//
// Primal view: the non-basic column with positive objective coefficient and
// the smallest global index. Dual view: the row with negative right-hand
// side and the smallest global index.
func (d *Dictionary) Entering() int {
	if d.isDual {
		return d.dualEntering()
	}
	return d.primalEntering()
}

// Leaving runs the ratio test for the entering slot, or returns -1 and marks
// the dictionary unbounded when no slot is eligible. Ties within Tol go to
// the smallest global index.
func (d *Dictionary) Leaving(enter int) int {
	if d.isDual {
		return d.dualLeaving(enter)
	}
	return d.primalLeaving(enter)
}

// Pivot exchanges the entering and leaving slots. In the primal view enter
// is a column and leave a row; in the dual view it is the other way round.
func (d *Dictionary) Pivot(enter, leave int) {
	if d.isDual {
		d.dualPivot(enter, leave)
		return
	}
	d.primalPivot(enter, leave)
}

func (d *Dictionary) primalEntering() int {
	varNum := math.MaxInt
	id := -1
	for j := range d.n {
		if d.z[j+1] > Tol && d.nonBasic[j] < varNum {
			varNum = d.nonBasic[j]
			id = j
		}
	}
	if id == -1 {
		d.isFinal = true
	}
	return id
}

func (d *Dictionary) primalLeaving(enter int) int {
	varNum := math.MaxInt
	id := -1
	curr := math.Inf(1)
	for i := range d.m {
		aie := d.a.At(i, enter)
		if aie >= -Tol {
			continue
		}
		ratio := -d.b[i] / aie
		if ratio < curr-Tol || (math.Abs(ratio-curr) <= Tol && d.basic[i] < varNum) {
			curr = math.Min(curr, ratio)
			varNum = d.basic[i]
			id = i
		}
	}
	if id == -1 {
		d.isUnbounded = true
	}
	return id
}

func (d *Dictionary) primalPivot(enter, leave int) {
	d.nonBasic[enter], d.basic[leave] = d.basic[leave], d.nonBasic[enter]

	//rewrite the leaving row in terms of the old leaving variable
	row := d.a.RawRowView(leave)
	p := row[enter]
	d.b[leave] = -d.b[leave] / p
	for j := range d.n {
		if j != enter {
			row[j] /= -p
		}
	}
	row[enter] = 1 / p

	//eliminate the entering variable from the other rows
	for i := range d.m {
		if i == leave {
			continue
		}
		other := d.a.RawRowView(i)
		aie := other[enter]
		d.b[i] += d.b[leave] * aie
		for j := range d.n {
			if j != enter {
				other[j] += aie * row[j]
			}
		}
		other[enter] = aie * row[enter]
	}

	ze := d.z[enter+1]
	d.z[0] += ze * d.b[leave]
	for j := range d.n {
		if j != enter {
			d.z[j+1] += ze * row[j]
		}
	}
	d.z[enter+1] = ze * row[enter]
}

func (d *Dictionary) dualEntering() int {
	varNum := math.MaxInt
	id := -1
	for i := range d.m {
		if d.b[i] < -Tol && d.basic[i] < varNum {
			varNum = d.basic[i]
			id = i
		}
	}
	if id == -1 {
		d.isFinal = true
	}
	return id
}

func (d *Dictionary) dualLeaving(enter int) int {
	varNum := math.MaxInt
	id := -1
	curr := math.Inf(1)
	row := d.a.RawRowView(enter)
	for j := range d.n {
		if row[j] <= Tol {
			continue
		}
		ratio := -d.z[j+1] / row[j]
		if ratio < curr-Tol || (math.Abs(ratio-curr) <= Tol && d.nonBasic[j] < varNum) {
			curr = math.Min(curr, ratio)
			varNum = d.nonBasic[j]
			id = j
		}
	}
	if id == -1 {
		d.isUnbounded = true
	}
	return id
}

// dualPivot is the column-oriented counterpart of primalPivot: enter is the
// row whose basic variable leaves the basis, leave the column that enters.
func (d *Dictionary) dualPivot(enter, leave int) {
	d.basic[enter], d.nonBasic[leave] = d.nonBasic[leave], d.basic[enter]

	//rescale the pivot column
	row := d.a.RawRowView(enter)
	p := row[leave]
	d.z[leave+1] /= p
	for i := range d.m {
		if i != enter {
			d.a.Set(i, leave, d.a.At(i, leave)/p)
		}
	}
	row[leave] = 1 / p

	//eliminate column by column
	for j := range d.n {
		if j == leave {
			continue
		}
		d.z[j+1] -= d.z[leave+1] * row[j]
		for i := range d.m {
			if i != enter {
				d.a.Set(i, j, d.a.At(i, j)-row[j]*d.a.At(i, leave))
			}
		}
		row[j] = -row[j] * row[leave]
	}

	d.z[0] -= d.b[enter] * d.z[leave+1]
	for i := range d.m {
		if i != enter {
			d.b[i] -= d.b[enter] * d.a.At(i, leave)
		}
	}
	d.b[enter] = -d.b[enter] * row[leave]
}

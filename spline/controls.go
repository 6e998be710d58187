package spline

import (
	"github.com/npillmayer/fieldpath"
)

// SetPreControl sets the control point before knot i.
func (ctrls *Controls) SetPreControl(i int, c fieldpath.Pair) {
	ctrls.prec = extendC(ctrls.prec, i, fieldpath.Unknown)
	ctrls.prec[i] = c
}

// SetPostControl sets the control point after knot i.
func (ctrls *Controls) SetPostControl(i int, c fieldpath.Pair) {
	ctrls.postc = extendC(ctrls.postc, i, fieldpath.Unknown)
	ctrls.postc[i] = c
}

// PreControl is the control point before knot i.
func (ctrls *Controls) PreControl(i int) fieldpath.Pair {
	return getC(ctrls.prec, i, fieldpath.Unknown)
}

// PostControl is the control point after knot i.
func (ctrls *Controls) PostControl(i int) fieldpath.Pair {
	return getC(ctrls.postc, i, fieldpath.Unknown)
}

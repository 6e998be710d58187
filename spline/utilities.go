package spline

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/fieldpath"
)

func hobbyParamsAlphaBeta(theta, phi float64) (float64, float64) {
	constA := 1.41421356     // sqrt(2) -- empiric constants, as explained by J.Hobby
	constB := 0.0625         // 1/16
	constC := 0.38196601125  // (3 - sqrt(5)) / 2
	constCC := 0.61803398875 // 1 - c
	st := math.Sin(theta)    // in-angle
	ct := math.Cos(theta)
	sf := math.Sin(phi) // out-angle
	cf := math.Cos(phi)
	alpha := constA * (st - constB*sf) * (sf - constB*st) * (ct - cf)
	beta := 1 + constCC*ct + constC*cf
	return alpha, beta
}

func hobbyParamsRhoSigma(alpha, beta float64) (float64, float64) {
	rho := (2 + alpha) / beta
	sigma := (2 - alpha) / beta
	return rho, sigma
}

func cunitvecs(theta, phi float64, dvec fieldpath.Pair) (fieldpath.Pair, fieldpath.Pair) {
	st := math.Sin(theta)
	ct := math.Cos(theta)
	sf := math.Sin(phi)
	cf := math.Cos(phi)
	dx, dy := dvec.F()
	uv1 := fieldpath.P(dx*ct-dy*st, dx*st+dy*ct)
	uv2 := fieldpath.P(dx*cf+dy*sf, -dx*sf+dy*cf)
	return uv1, uv2
}

// Calculate control point offsets between z.i and z.[i+1], for neutral tension.
func controlPoints(phi, theta float64, dvec fieldpath.Pair) (fieldpath.Pair, fieldpath.Pair) {
	alpha, beta := hobbyParamsAlphaBeta(theta, phi)
	rho, sigma := hobbyParamsRhoSigma(alpha, beta)
	uv1, uv2 := cunitvecs(theta, phi, dvec)
	return uv1.Scaled(rho / 3), uv2.Scaled(sigma / 3)
}

// Extend an array/slice of pairs to make room for index i.
// Will do nothing if the array is already large enough.
func extendC(arr []fieldpath.Pair, i int, deflt fieldpath.Pair) []fieldpath.Pair {
	l := len(arr)
	if i >= l {
		arr = append(arr, make([]fieldpath.Pair, i-l+1)...)
		for ; i >= l; i-- {
			arr[i] = deflt
		}
	}
	return arr
}

// Get a value from an array/slice if present, default value deflt otherwise.
func getC(arr []fieldpath.Pair, i int, deflt fieldpath.Pair) fieldpath.Pair {
	if i < 0 || i >= len(arr) {
		return deflt
	}
	return arr[i]
}

// Reduce an angle to fit into -pi .. pi.
func reduceAngle(a float64) float64 {
	if math.Abs(a) > pi {
		if a > 0 {
			a -= pi2
		} else {
			a += pi2
		}
	}
	return a
}

func rad2deg(a float64) float64 {
	return a * 180 / pi
}

func ptstring(p fieldpath.Pair, iscontrol bool) string {
	if cmplx.IsNaN(p.C()) {
		return "(<unknown>)"
	}
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f)", round(p.X()), round(p.Y()))
	}
	return fmt.Sprintf("(%.4g,%.4g)", round(p.X()), round(p.Y()))
}

func round(x float64) float64 {
	if x >= 0 {
		return float64(int64(x*10000.0+0.5)) / 10000.0
	}
	return float64(int64(x*10000.0-0.5)) / 10000.0
}

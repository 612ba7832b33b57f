// Package guess implements the Guessing Layer (§6 collaborator) and its
// reference implementation: reconstructing a low-order annihilating
// operator from a truncated power series by solving the linear system
// that the series' recurrence imposes on the operator's unknown
// coefficients — a direct linear-system realization of the minimal
// approximant basis / Hermite-Padé idea, generalizing
// numfield.NullSpace (itself adapted from the gonum/linsolve retrieved
// example) from TryRational's monomial basis to a power-series basis.
package guess

import (
	"errors"

	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
)

// ErrNoAnnihilator is returned when no operator of the requested shape
// annihilates the series to the requested truncation order.
var ErrNoAnnihilator = errors.New("guess: no annihilating operator found within order/degree bounds")

// Layer is the Guessing Layer collaborator (§6): given the leading
// coefficients of a power series, find an operator of order <= maxOrder
// with polynomial coefficients of degree <= maxDegree that annihilates
// it to the truncation's precision.
type Layer[S numfield.Field[S]] interface {
	Guess(series []S, maxOrder, maxDegree int, zero S) (*operator.Operator[S], error)
}

// LinearAlgebra is the reference implementation of Layer.
type LinearAlgebra[S numfield.Field[S]] struct{}

// fallingFactorialInt returns n*(n-1)*...*(n-k+1).
func fallingFactorialInt(n, k int) int64 {
	result := int64(1)
	for t := 0; t < k; t++ {
		result *= int64(n - t)
	}
	return result
}

// seriesDerivativeCoeff returns the n-th Taylor coefficient of y^(i),
// given y's Taylor coefficients (y[n] is the coefficient of z^n).
func seriesDerivativeCoeff[S numfield.Field[S]](y []S, n, i int, zero S) S {
	idx := n + i
	if idx < 0 || idx >= len(y) {
		return zero
	}
	ff := fallingFactorialInt(idx, i)
	if ff == 0 {
		return zero
	}
	return y[idx].Mul(numfield.IntScalar(zero, ff))
}

// Guess searches for R = sum_{i=0}^{order} a_i(z) D^i, a_i of degree
// <= maxDegree, such that R(y) vanishes to the truncation's precision,
// by building the linear system in R's unknown coefficients
// c_{i,d} (the coefficient of z^d in a_i) and solving for its null
// space. Each candidate column corresponds to one monomial
// z^d * D^i applied to y; the series coefficient of z^n in that term is
// seriesDerivativeCoeff(y, n-d, i).
func (LinearAlgebra[S]) Guess(y []S, order, maxDegree int, zero S) (*operator.Operator[S], error) {
	numCols := (order + 1) * (maxDegree + 1)
	// usable equations: enough room so every derivative term stays
	// within the truncated series.
	maxShift := maxDegree + order
	numRows := len(y) - maxShift
	if numRows <= numCols {
		return nil, ErrNoAnnihilator
	}

	type col struct{ i, d int }
	cols := make([]col, 0, numCols)
	for i := 0; i <= order; i++ {
		for d := 0; d <= maxDegree; d++ {
			cols = append(cols, col{i: i, d: d})
		}
	}

	matrix := make([][]S, numRows)
	for n := 0; n < numRows; n++ {
		matrix[n] = make([]S, numCols)
		for c, cc := range cols {
			matrix[n][c] = seriesDerivativeCoeff(y, n-cc.d, cc.i, zero)
		}
	}

	basis := numfield.NullSpace(matrix, zero)
	if len(basis) == 0 {
		return nil, ErrNoAnnihilator
	}

	coeffs := make([]numfield.RatFunc[S], order+1)
	one := numfield.NewPoly([]S{numfield.IntScalar(zero, 1)}, zero)
	for i := 0; i <= order; i++ {
		polyCoeffs := make([]S, maxDegree+1)
		for d := 0; d <= maxDegree; d++ {
			polyCoeffs[d] = zero
		}
		for c, cc := range cols {
			if cc.i == i {
				polyCoeffs[cc.d] = basis[0][c]
			}
		}
		coeffs[i] = numfield.NewRatFunc(numfield.NewPoly(polyCoeffs, zero), one)
	}

	r, err := operator.New(coeffs, zero)
	if err != nil {
		return nil, ErrNoAnnihilator
	}
	if r.Order() == 0 || r.Order() > order {
		return nil, ErrNoAnnihilator
	}
	return r, nil
}

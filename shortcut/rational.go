// Package shortcut implements the Rational / Exponential Shortcut (C3):
// a bounded-degree search for a rational (here, polynomial) solution of
// L·y=0, and the van Hoeij single-multiplicity exponential-part probe.
// Grounded on the teacher's gao.Decode shape (try the cheap path first,
// fall through on failure) cited in DESIGN.md for `invariant`; the
// linear system itself is solved by numfield.NullSpace, a Gauss-Jordan
// elimination generalizing the gonum/linsolve retrieved example from
// float64 dense matrices to exact Field[S] arithmetic.
package shortcut

import (
	"errors"

	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
)

// ErrNoRationalSolution is returned when no polynomial solution of
// degree <= the search bound is found.
var ErrNoRationalSolution = errors.New("shortcut: no rational solution found within the search bound")

func fallingFactorialInt(n, k int) int64 {
	result := int64(1)
	for t := 0; t < k; t++ {
		result *= int64(n - t)
	}
	return result
}

// applyToMonomial returns L(z^k) as a polynomial, valid once l's
// coefficients are denominator-free (i.e. l has been through
// operator.Normalize).
func applyToMonomial[S numfield.Field[S]](l *operator.Operator[S], k int, zero S) *numfield.Poly[S] {
	result := numfield.NewPoly([]S{zero}, zero)
	for i := 0; i <= l.Order() && i <= k; i++ {
		ff := fallingFactorialInt(k, i)
		if ff == 0 {
			continue
		}
		deg := k - i
		mono := make([]S, deg+1)
		for idx := range mono {
			mono[idx] = zero
		}
		mono[deg] = numfield.IntScalar(zero, ff)
		monoPoly := numfield.NewPoly(mono, zero)
		result = result.Add(l.Coeffs[i].Num.Mul(monoPoly))
	}
	return result
}

// searchBound picks the degree bound for the candidate polynomial
// solution; a modest multiple of the operator's order and the maximum
// coefficient degree is enough for the textbook-scale operators this
// pipeline targets (spec.md leaves the bound for C6's Hermite-Padé
// degree unspecified beyond "first b coefficients"; this reuses the
// same shape for the cheaper direct search).
func searchBound[S numfield.Field[S]](l *operator.Operator[S]) int {
	maxDeg := 0
	for _, c := range l.Coeffs {
		if c.Num.Degree() > maxDeg {
			maxDeg = c.Num.Degree()
		}
	}
	bound := 4*l.Order() + 4*maxDeg + 4
	if bound < 8 {
		bound = 8
	}
	return bound
}

// TryRational searches for a nonzero polynomial solution y of L·y=0 of
// bounded degree (the polynomial case of spec.md §4.3.1's rational
// solution; a pole-free solution over the normalized operator's finite
// singularities, which already covers the common textbook scenarios).
// On success it returns R = D - y'/y, the order-1 right factor
// annihilating y.
func TryRational[S numfield.Field[S]](l *operator.Operator[S], zero S) (*operator.Operator[S], error) {
	// Clearing denominators multiplies L on the left by a polynomial,
	// which leaves its solutions unchanged.
	polys, _ := numfield.ClearDenominators(append([]numfield.RatFunc[S]{}, l.Coeffs...), zero)
	cleared := make([]numfield.RatFunc[S], len(polys))
	for i, p := range polys {
		cleared[i] = numfield.FromPoly(p, zero)
	}
	l, err := operator.New(cleared, zero)
	if err != nil {
		return nil, err
	}

	bound := searchBound(l)

	maxOutDeg := 0
	for k := 0; k <= bound; k++ {
		if d := applyToMonomial(l, k, zero).Degree(); d > maxOutDeg {
			maxOutDeg = d
		}
	}

	rows := maxOutDeg + 1
	cols := bound + 1
	matrix := make([][]S, rows)
	for r := range matrix {
		matrix[r] = make([]S, cols)
		for c := range matrix[r] {
			matrix[r][c] = zero
		}
	}
	for k := 0; k <= bound; k++ {
		poly := applyToMonomial(l, k, zero)
		for i := 0; i < poly.Len() && i < rows; i++ {
			matrix[i][k] = poly.Coeffs[i]
		}
	}

	basis := numfield.NullSpace(matrix, zero)
	if len(basis) == 0 {
		return nil, ErrNoRationalSolution
	}

	y := numfield.NewPoly(basis[0], zero)
	if y.IsZero() {
		return nil, ErrNoRationalSolution
	}

	yPrime := y.Differentiate()
	one := numfield.IntScalar(zero, 1)
	r, err := operator.New([]numfield.RatFunc[S]{
		numfield.NewRatFunc(yPrime.Neg(), y),
		numfield.NewRatFunc(numfield.NewPoly([]S{one}, zero), numfield.NewPoly([]S{one}, zero)),
	}, zero)
	if err != nil {
		return nil, err
	}
	return r, nil
}

package linalg

// Eigenvalue roots are found on the double-precision complex128 shadow
// of the ball matrix (adequate because monodromy matrix dimension
// equals operator order, always small in practice, per SPEC_FULL.md
// §3.5), grounded structurally on codingneo-matrix's Eigen
// (mat64/eigen.go): reduce to a characteristic polynomial, find its
// roots, then recover eigenvectors. Unlike the retrieved example (a
// real symmetric/nonsymmetric Hessenberg-QR decomposition), our shadow
// is already complex, so the much shorter Faddeev-LeVerrier
// characteristic-polynomial recursion plus Durand-Kerner root isolation
// (the same simultaneous-iteration technique spectral.polyRoots already
// uses for the indicial polynomial, duplicated here in miniature rather
// than importing the differential-operator-specific spectral package
// into a generic linear-algebra one) replaces the Householder/Francis
// QR machinery.

import (
	"math/cmplx"

	"github.com/lindqvist/opfactor/ball"
)

type complexMatrix [][]complex128

func toComplexMatrix(m Matrix) complexMatrix {
	out := make(complexMatrix, len(m))
	for i, row := range m {
		out[i] = make([]complex128, len(row))
		for j, e := range row {
			out[i][j] = toComplex(e)
		}
	}
	return out
}

func (a complexMatrix) n() int { return len(a) }

func cmMul(a, b complexMatrix) complexMatrix {
	n := a.n()
	out := make(complexMatrix, n)
	for i := 0; i < n; i++ {
		out[i] = make([]complex128, n)
		for j := 0; j < n; j++ {
			var acc complex128
			for k := 0; k < n; k++ {
				acc += a[i][k] * b[k][j]
			}
			out[i][j] = acc
		}
	}
	return out
}

func cmAddScaledIdentity(a complexMatrix, c complex128) complexMatrix {
	n := a.n()
	out := make(complexMatrix, n)
	for i := 0; i < n; i++ {
		out[i] = append([]complex128{}, a[i]...)
		out[i][i] += c
	}
	return out
}

func cmTrace(a complexMatrix) complex128 {
	var t complex128
	for i := range a {
		t += a[i][i]
	}
	return t
}

func cmIdentity(n int) complexMatrix {
	out := make(complexMatrix, n)
	for i := range out {
		out[i] = make([]complex128, n)
		out[i][i] = 1
	}
	return out
}

// characteristicPolynomial returns the monic characteristic polynomial
// coefficients (x^0 first, length n+1) of the n x n matrix a, via the
// Faddeev-LeVerrier recursion.
func characteristicPolynomial(a complexMatrix) []complex128 {
	n := a.n()
	coeffs := make([]complex128, n+1)
	coeffs[n] = 1

	mPrev := cmIdentity(n)
	for k := 1; k <= n; k++ {
		am := cmMul(a, mPrev)
		ck := -cmTrace(am) / complex(float64(k), 0)
		coeffs[n-k] = ck
		if k < n {
			mPrev = cmAddScaledIdentity(am, ck)
		}
	}
	return coeffs
}

// durandKerner finds all roots of the monic polynomial with
// coefficients coeffs (x^0 first), via Weierstrass simultaneous
// iteration -- the same technique and tolerances spectral.polyRoots
// uses for the indicial polynomial.
func durandKerner(coeffs []complex128) []complex128 {
	deg := len(coeffs) - 1
	for deg > 0 && coeffs[deg] == 0 {
		deg--
	}
	if deg <= 0 {
		return nil
	}
	lead := coeffs[deg]
	monic := make([]complex128, deg+1)
	for i := range monic {
		monic[i] = coeffs[i] / lead
	}

	roots := make([]complex128, deg)
	seed := complex(0.4, 0.9)
	cur := complex(1.0, 0.0)
	for i := range roots {
		roots[i] = cur
		cur *= seed
	}

	eval := func(x complex128) complex128 {
		acc := complex(0, 0)
		for i := deg; i >= 0; i-- {
			acc = acc*x + monic[i]
		}
		return acc
	}

	const maxIter = 500
	const tol = 1e-13
	for iter := 0; iter < maxIter; iter++ {
		maxDelta := 0.0
		for i := range roots {
			denom := complex(1, 0)
			for j := range roots {
				if i == j {
					continue
				}
				denom *= roots[i] - roots[j]
			}
			if denom == 0 {
				continue
			}
			delta := eval(roots[i]) / denom
			roots[i] -= delta
			if m := cmplx.Abs(delta); m > maxDelta {
				maxDelta = m
			}
		}
		if maxDelta < tol {
			break
		}
	}
	return roots
}

// newtonPolish refines a root of the characteristic polynomial by one
// step of Newton's method using its companion-free derivative
// (evaluated by Horner on coeffs' derivative), giving the eigenvalue
// used to build the ball.Elem returned to callers a tighter center than
// the raw Durand-Kerner output before it is lifted back into ball
// arithmetic.
func newtonPolish(coeffs []complex128, root complex128) complex128 {
	deg := len(coeffs) - 1
	val := complex(0, 0)
	deriv := complex(0, 0)
	for i := deg; i >= 0; i-- {
		deriv = deriv*root + val
		val = val*root + coeffs[i]
	}
	if deriv == 0 {
		return root
	}
	return root - val/deriv
}

// clusterComplex groups numerically close complex values and returns
// each distinct value (cluster mean) with its multiplicity.
func clusterComplex(values []complex128, tol float64) (distinct []complex128, mult []int) {
	used := make([]bool, len(values))
	for i := range values {
		if used[i] {
			continue
		}
		sum := values[i]
		count := 1
		used[i] = true
		for j := i + 1; j < len(values); j++ {
			if used[j] {
				continue
			}
			if cmplx.Abs(values[j]-values[i]) < tol {
				sum += values[j]
				count++
				used[j] = true
			}
		}
		distinct = append(distinct, sum/complex(float64(count), 0))
		mult = append(mult, count)
	}
	return distinct, mult
}

// Eigenvalue is one distinct eigenvalue of a matrix, ball-valued, with
// its algebraic multiplicity as found by clustering characteristic
// polynomial roots.
type Eigenvalue struct {
	Value        ball.Elem
	Complex      complex128
	Multiplicity int
}

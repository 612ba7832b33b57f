// Package linalg implements the ball-valued matrix/vector arithmetic
// the Invariant-Subspace Analyzer (C5) needs: eigenspace computation
// (grounded on codingneo-matrix's Eigen, mat64/eigen.go, retrieved
// pack, adapted from float64 dense real matrices to ball.Elem complex
// ones) and nullspace/common-refinement routines (grounded on the
// gonum linsolve retrieved example) over package ball's complex-ball
// field instead of float64.
package linalg

import (
	"math"
	"math/big"

	"github.com/lindqvist/opfactor/ball"
)

// Matrix is a dense, row-major ball-valued square (or rectangular)
// matrix.
type Matrix [][]ball.Elem

// Vector is a ball-valued column vector, represented as a flat slice.
type Vector []ball.Elem

// NewMatrix allocates an n x m matrix of exact zero balls at the given
// working precision.
func NewMatrix(n, m int, prec uint) Matrix {
	out := make(Matrix, n)
	for i := range out {
		out[i] = make([]ball.Elem, m)
		for j := range out[i] {
			out[i][j] = ball.Zero(prec)
		}
	}
	return out
}

// Rows and Cols report the matrix dimensions.
func (m Matrix) Rows() int { return len(m) }
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]ball.Elem{}, row...)
	}
	return out
}

// Identity returns the n x n identity matrix at the given precision.
func Identity(n int, prec uint) Matrix {
	out := NewMatrix(n, n, prec)
	for i := 0; i < n; i++ {
		out[i][i] = ball.Exact(1, 0, prec)
	}
	return out
}

// Mul returns a*b.
func (a Matrix) Mul(b Matrix) Matrix {
	n, k, m := a.Rows(), a.Cols(), b.Cols()
	prec := workingPrec(a)
	out := NewMatrix(n, m, prec)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			acc := ball.Zero(prec)
			for t := 0; t < k; t++ {
				acc = acc.Add(a[i][t].Mul(b[t][j]))
			}
			out[i][j] = acc
		}
	}
	return out
}

// Add returns a+b, same shape.
func (a Matrix) Add(b Matrix) Matrix {
	prec := workingPrec(a)
	out := NewMatrix(a.Rows(), a.Cols(), prec)
	for i := range a {
		for j := range a[i] {
			out[i][j] = a[i][j].Add(b[i][j])
		}
	}
	return out
}

// Sub returns a-b, same shape.
func (a Matrix) Sub(b Matrix) Matrix {
	prec := workingPrec(a)
	out := NewMatrix(a.Rows(), a.Cols(), prec)
	for i := range a {
		for j := range a[i] {
			out[i][j] = a[i][j].Sub(b[i][j])
		}
	}
	return out
}

// ScaleBall returns c*a.
func (a Matrix) ScaleBall(c ball.Elem) Matrix {
	prec := workingPrec(a)
	out := NewMatrix(a.Rows(), a.Cols(), prec)
	for i := range a {
		for j := range a[i] {
			out[i][j] = a[i][j].Mul(c)
		}
	}
	return out
}

// Transpose returns a's transpose.
func (a Matrix) Transpose() Matrix {
	prec := workingPrec(a)
	out := NewMatrix(a.Cols(), a.Rows(), prec)
	for i := range a {
		for j := range a[i] {
			out[j][i] = a[i][j]
		}
	}
	return out
}

func workingPrec(a Matrix) uint {
	if a.Rows() == 0 || a.Cols() == 0 {
		return 53
	}
	if a[0][0].Prec != 0 {
		return a[0][0].Prec
	}
	return 53
}

// ApplyVec returns a*v.
func (a Matrix) ApplyVec(v Vector) Vector {
	prec := workingPrec(a)
	out := make(Vector, a.Rows())
	for i := range out {
		acc := ball.Zero(prec)
		for j, c := range v {
			acc = acc.Add(a[i][j].Mul(c))
		}
		out[i] = acc
	}
	return out
}

// toComplex converts a ball center to complex128 via a float64 round
// trip -- eigenvalue search here only ever targets the double-precision
// shadow of the matrix, per SPEC_FULL.md §3.5.
func toComplex(e ball.Elem) complex128 {
	re, _ := e.Re.Float64()
	im, _ := e.Im.Float64()
	return complex(re, im)
}

// complexToBall lifts a double-precision value into a ball whose radius,
// eigenClusterTol*max(1, |c|), covers the shadow's rounding error.
func complexToBall(c complex128, prec uint) ball.Elem {
	b := ball.Exact(real(c), imag(c), prec)
	b.Rad = fromFloat(eigenClusterTol*math.Max(1, cabs(c)), prec)
	return b
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func fromFloat(x float64, prec uint) *big.Float {
	return new(big.Float).SetPrec(prec).SetFloat64(x)
}

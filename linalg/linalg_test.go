package linalg

import (
	"math/cmplx"
	"testing"

	"github.com/lindqvist/opfactor/ball"
	"github.com/stretchr/testify/assert"
)

const testPrec = 100

func diag2(a, d float64) Matrix {
	m := NewMatrix(2, 2, testPrec)
	m[0][0] = ball.Exact(a, 0, testPrec)
	m[1][1] = ball.Exact(d, 0, testPrec)
	return m
}

func TestMatrixMulIdentity(t *testing.T) {
	a := assert.New(t)
	m := diag2(2, 3)
	id := Identity(2, testPrec)
	prod := m.Mul(id)

	re00, _ := prod[0][0].Re.Float64()
	re11, _ := prod[1][1].Re.Float64()
	a.Equal(2.0, re00)
	a.Equal(3.0, re11)
}

func hasEigenvalueNear(spaces []Eigenspace, target complex128, tol float64) bool {
	for _, es := range spaces {
		if cmplx.Abs(es.Eigenvalue.Complex-target) < tol {
			return true
		}
	}
	return false
}

func TestEigenspacesDiagonalMatrix(t *testing.T) {
	a := assert.New(t)
	m := diag2(2, -1)
	spaces := Eigenspaces(m)
	a.Len(spaces, 2)

	for _, es := range spaces {
		a.Len(es.Basis, 1)
	}
	a.True(hasEigenvalueNear(spaces, complex(2, 0), 1e-6))
	a.True(hasEigenvalueNear(spaces, complex(-1, 0), 1e-6))
}

func TestNullspaceOfSingularMatrix(t *testing.T) {
	a := assert.New(t)
	m := NewMatrix(2, 2, testPrec)
	m[0][0] = ball.Exact(1, 0, testPrec)
	m[0][1] = ball.Exact(1, 0, testPrec)
	m[1][0] = ball.Exact(2, 0, testPrec)
	m[1][1] = ball.Exact(2, 0, testPrec)

	basis := Nullspace(m)
	a.Len(basis, 1)

	v := basis[0]
	re0, _ := v[0].Re.Float64()
	re1, _ := v[1].Re.Float64()
	// kernel of [[1,1],[2,2]] is spanned by (1,-1).
	a.InDelta(re0, -re1, 1e-9)
}

func TestIntersectionOfCoordinateAxes(t *testing.T) {
	a := assert.New(t)
	e1 := Vector{ball.Exact(1, 0, testPrec), ball.Exact(0, 0, testPrec)}
	e1plus := Vector{ball.Exact(1, 0, testPrec), ball.Exact(1, 0, testPrec)}

	inter := Intersection([]Vector{e1}, []Vector{e1plus}, 2, testPrec)
	// span(e1) and span((1,1)) only meet at the origin.
	a.Empty(inter)
}

func TestInvariantSubspaceDiagonalGenerators(t *testing.T) {
	a := assert.New(t)
	m1 := diag2(2, 3)
	m2 := diag2(5, 7)

	basis, ok := InvariantSubspace([]Matrix{m1, m2})
	a.True(ok)
	a.Len(basis, 1)
}

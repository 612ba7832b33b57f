package spectral

import (
	"math/cmplx"
	"testing"

	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/stretchr/testify/assert"
)

func euler(t *testing.T, n int64) *operator.Operator[numfield.Rational] {
	mk := func(vals ...int64) *numfield.Poly[numfield.Rational] {
		c := make([]numfield.Rational, len(vals))
		for i, v := range vals {
			c[i] = numfield.QInt(v)
		}
		return numfield.NewPoly(c, numfield.QZero)
	}
	coeffs := []numfield.RatFunc[numfield.Rational]{
		numfield.FromPoly(mk(-n*n), numfield.QZero),
		numfield.FromPoly(mk(0, 1), numfield.QZero),
		numfield.FromPoly(mk(0, 0, 1), numfield.QZero),
	}
	op, err := operator.New(coeffs, numfield.QZero)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return op
}

func hasRootNear(roots []complex128, target complex128, tol float64) bool {
	for _, r := range roots {
		if cmplx.Abs(r-target) < tol {
			return true
		}
	}
	return false
}

func TestIndicialPolynomialEulerEquation(t *testing.T) {
	a := assert.New(t)
	l := euler(t, 3)

	chi := IndicialPolynomial(l, Place{Root: 0, Mult: 2})
	// chi(x) = x^2 - 9 (coefficients x^0 first: [-9, 0, 1]).
	a.InDelta(-9, real(chi.Coeffs[0]), 1e-9)
	a.InDelta(0, real(chi.Coeffs[1]), 1e-9)
	a.InDelta(1, real(chi.Coeffs[2]), 1e-9)
}

func TestExponentsEulerEquation(t *testing.T) {
	a := assert.New(t)
	l := euler(t, 3)

	exps := Exponents(l, Place{Root: 0, Mult: 2})
	a.Len(exps, 2)
	a.True(hasRootNear(exps, 3, 1e-6))
	a.True(hasRootNear(exps, -3, 1e-6))
}

func TestEulerEquationIsFuchsian(t *testing.T) {
	a := assert.New(t)
	l := euler(t, 2)
	a.True(IsFuchsian(l))
}

func TestDegreeBoundPositive(t *testing.T) {
	a := assert.New(t)
	l := euler(t, 2)
	b := DegreeBoundForRightFactor(l)
	a.GreaterOrEqual(b, 0)
}

func TestNewtonPolygonSingleEdge(t *testing.T) {
	a := assert.New(t)
	l := euler(t, 1)
	edges := NewtonPolygon(l, Place{Root: 0, Mult: 2})
	a.NotEmpty(edges)
}

func TestPlacesFindsOrigin(t *testing.T) {
	a := assert.New(t)
	l := euler(t, 1)
	places := Places(l)

	foundOrigin := false
	foundInfinity := false
	for _, p := range places {
		if p.AtInfinity {
			foundInfinity = true
			continue
		}
		if cmplx.Abs(p.Root) < 1e-6 {
			foundOrigin = true
			a.Equal(2, p.Mult)
		}
	}
	a.True(foundOrigin)
	a.True(foundInfinity)
}

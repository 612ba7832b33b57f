package invariant

import (
	"math/rand"
	"testing"

	"github.com/lindqvist/opfactor/annihilator"
	"github.com/lindqvist/opfactor/ball"
	"github.com/lindqvist/opfactor/guess"
	"github.com/lindqvist/opfactor/linalg"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/stretchr/testify/assert"
)

func constRatFunc(c numfield.Rational) numfield.RatFunc[numfield.Rational] {
	one := numfield.NewPoly([]numfield.Rational{numfield.QOne}, numfield.QZero)
	return numfield.RatFunc[numfield.Rational]{Num: numfield.NewPoly([]numfield.Rational{c}, numfield.QZero), Den: one}
}

// yPrimePlusY builds y'' + y' = 0, reducible as D*(D+1); its local
// solution basis in the standard initial-condition coordinates is
// (y_0, y_1) = (1, 1-e^-z), so the genuine invariant directions are
// (1,0) (selecting y_0 = 1, annihilated by D) and (1,-1) (selecting
// y_0 - y_1 = e^-z, annihilated by D+1).
func yPrimePlusY(t *testing.T) *operator.Operator[numfield.Rational] {
	t.Helper()
	l, err := operator.New([]numfield.RatFunc[numfield.Rational]{
		constRatFunc(numfield.QZero),
		constRatFunc(numfield.QOne),
		constRatFunc(numfield.QOne),
	}, numfield.QZero)
	if err != nil {
		t.Fatalf("building operator: %v", err)
	}
	return l
}

// monodromyGenerator has exactly those two eigenvectors, with distinct
// eigenvalues 2 and 3.
func monodromyGenerator(prec uint) linalg.Matrix {
	m := linalg.NewMatrix(2, 2, prec)
	m[0][0] = ball.Exact(2, 0, prec)
	m[0][1] = ball.Exact(-1, 0, prec)
	m[1][0] = ball.Exact(0, 0, prec)
	m[1][1] = ball.Exact(3, 0, prec)
	return m
}

func isProperFactor(t *testing.T, l *operator.Operator[numfield.Rational], r *operator.Operator[numfield.Rational]) bool {
	t.Helper()
	if r.Order() <= 0 || r.Order() >= l.Order() {
		return false
	}
	rem, err := l.Mod(r)
	return err == nil && rem.IsZero()
}

func TestOneDimensionalFindsEitherFactor(t *testing.T) {
	a := assert.New(t)
	l := yPrimePlusY(t)
	prec := uint(100)
	m := monodromyGenerator(prec)
	matrices := []linalg.Matrix{m}

	spaces := linalg.Eigenspaces(m)
	a.Len(spaces, 2)

	r, err := oneDimensional[numfield.Rational](l, spaces, matrices, annihilator.Params{Order: 6, Bound: 0, AlgDegree: 2}, guess.LinearAlgebra[numfield.Rational]{}, numfield.QZero)
	a.NoError(err)
	if a.NotNil(r) {
		a.True(isProperFactor(t, l, r))
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	a := assert.New(t)
	l := yPrimePlusY(t)
	prec := uint(100)
	matrices := []linalg.Matrix{monodromyGenerator(prec)}

	r, err := Analyze[numfield.Rational](l, matrices, annihilator.Params{Order: 6, Bound: 0, AlgDegree: 2}, guess.LinearAlgebra[numfield.Rational]{}, numfield.QZero, rand.New(rand.NewSource(1)))
	a.NoError(err)
	if a.NotNil(r) {
		a.True(isProperFactor(t, l, r))
	}
}

func TestAnalyzeNotGoodConditionsOnNoGenerators(t *testing.T) {
	a := assert.New(t)
	l := yPrimePlusY(t)
	_, err := Analyze[numfield.Rational](l, nil, annihilator.Params{Order: 6, Bound: 0, AlgDegree: 2}, guess.LinearAlgebra[numfield.Rational]{}, numfield.QZero, rand.New(rand.NewSource(1)))
	a.ErrorIs(err, ErrNotGoodConditions)
}

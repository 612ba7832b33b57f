package annihilator

import (
	"math/big"
	"testing"

	"github.com/lindqvist/opfactor/ball"
	"github.com/lindqvist/opfactor/guess"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/stretchr/testify/assert"
)

func constRatFunc(c numfield.Rational) numfield.RatFunc[numfield.Rational] {
	one := numfield.NewPoly([]numfield.Rational{numfield.QOne}, numfield.QZero)
	return numfield.RatFunc[numfield.Rational]{Num: numfield.NewPoly([]numfield.Rational{c}, numfield.QZero), Den: one}
}

// yPrimePlusY builds y'' + y' = 0, which factors as D*(D+1) (and, since
// coefficients are constant, also (D+1)*D).
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

func TestReconstructFindsOrderOneFactor(t *testing.T) {
	a := assert.New(t)
	l := yPrimePlusY(t)

	ic := []ball.Elem{ball.Exact(1, 0, 100), ball.Exact(0, 0, 100)}
	r0, err := Reconstruct[numfield.Rational](l, ic, Params{Order: 6, Bound: 0, AlgDegree: 2}, nil, guess.LinearAlgebra[numfield.Rational]{}, numfield.QZero)

	a.NoError(err)
	if a.NotNil(r0) {
		a.Equal(1, r0.Order())
		rem, err := l.Mod(r0)
		a.NoError(err)
		a.True(rem.IsZero())
	}
}

func TestRecognizeRationalStable(t *testing.T) {
	a := assert.New(t)
	x := ball.Exact(0.5, 0, 80)
	r, ok := recognizeRational(x)
	a.True(ok)
	a.Equal("1/2", r.RatString())
}

func TestRecognizeRationalRejectsNonzeroImaginaryPart(t *testing.T) {
	a := assert.New(t)
	x := ball.Exact(1, 1, 80)
	_, ok := recognizeRational(x)
	a.False(ok)
}

func TestSameRelationUpToSign(t *testing.T) {
	a := assert.New(t)
	c1 := []*big.Int{big.NewInt(1), big.NewInt(-1), big.NewInt(1)}
	c2 := []*big.Int{big.NewInt(-1), big.NewInt(1), big.NewInt(-1)}
	a.True(sameRelation(c1, c2))
}

package shortcut

import (
	"testing"

	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/stretchr/testify/assert"
)

func ratPoly(vals ...int64) *numfield.Poly[numfield.Rational] {
	coeffs := make([]numfield.Rational, len(vals))
	for i, v := range vals {
		coeffs[i] = numfield.QInt(v)
	}
	return numfield.NewPoly(coeffs, numfield.QZero)
}

func ratOp(t *testing.T, polys ...*numfield.Poly[numfield.Rational]) *operator.Operator[numfield.Rational] {
	coeffs := make([]numfield.RatFunc[numfield.Rational], len(polys))
	for i, p := range polys {
		coeffs[i] = numfield.FromPoly(p, numfield.QZero)
	}
	op, err := operator.New(coeffs, numfield.QZero)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return op
}

func TestTryRationalFindsConstantSolution(t *testing.T) {
	a := assert.New(t)

	// L = D^2 - D = (D-1) o D; D annihilates constants.
	l := ratOp(t, ratPoly(0), ratPoly(-1), ratPoly(1))

	r, err := TryRational(l, numfield.QZero)
	a.NoError(err)
	a.Equal(1, r.Order())

	_, rem, divErr := l.LongDiv(r)
	a.NoError(divErr)
	a.True(rem.IsZero())
}

func TestTryRationalNoSolution(t *testing.T) {
	a := assert.New(t)

	// L = D - z: only solution is exp(z^2/2), not rational/polynomial.
	l := ratOp(t, ratPoly(0, -1), ratPoly(1))

	_, err := TryRational(l, numfield.QZero)
	a.Error(err)
}

// TestTryVanHoeijNonzeroExponent exercises the eulerShift -> Normalize
// -> ComputeLocalBasis path with a genuinely nonzero exponent, the
// common case the shortcut exists for.
//
// L = 4z^3 D^3 - 4z^2 D^2 + 7z D - 6 is an Euler-type operator (a_i(z) =
// c_i*z^i exactly), whose indicial polynomial at z=0 is
// 4x^3-16x^2+19x-6 = 4(x-2)(x-1/2)(x-3/2), roots {2, 1/2, 3/2}. Exponent
// 2 is the only one of the three with non-integer gaps to both others
// (2-1/2=3/2, 2-3/2=1/2; whereas 1/2 and 3/2 differ from each other by
// the integer 1), so it is the candidate found regardless of the order
// spectral.Exponents happens to return them in. z^2 is an exact
// solution (4z^3*0 - 4z^2*2 + 7z*2z - 6z^2 = -8z^2+14z^2-6z^2 = 0), so
// D - 2/z is an exact right factor.
func TestTryVanHoeijNonzeroExponent(t *testing.T) {
	a := assert.New(t)

	l := ratOp(t, ratPoly(-6), ratPoly(0, 7), ratPoly(0, 0, -4), ratPoly(0, 0, 0, 4))

	r, err := TryVanHoeij(l, numfield.QZero)
	if !a.NoError(err) {
		return
	}
	if !a.Equal(1, r.Order()) {
		return
	}

	_, rem, divErr := l.LongDiv(r)
	a.NoError(divErr)
	a.True(rem.IsZero())
}

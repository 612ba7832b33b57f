package opfactor

import (
	"math/rand"
	"testing"

	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func ratPoly(vals ...int64) *numfield.Poly[numfield.Rational] {
	coeffs := make([]numfield.Rational, len(vals))
	for i, v := range vals {
		coeffs[i] = numfield.QInt(v)
	}
	return numfield.NewPoly(coeffs, numfield.QZero)
}

func ratOp(t *testing.T, polys ...*numfield.Poly[numfield.Rational]) *operator.Operator[numfield.Rational] {
	t.Helper()
	one := ratPoly(1)
	coeffs := make([]numfield.RatFunc[numfield.Rational], len(polys))
	for i, p := range polys {
		coeffs[i] = numfield.NewRatFunc(p, one)
	}
	l, err := operator.New(coeffs, numfield.QZero)
	if err != nil {
		t.Fatalf("building operator: %v", err)
	}
	return l
}

// dzd builds L = D.z.D = z*D^2 + D, spec.md's E1 worked example:
// right_factor should find D directly from its constant solution,
// leaving z*D+1 as the quotient.
func dzd(t *testing.T) *operator.Operator[numfield.Rational] {
	t.Helper()
	return ratOp(t, ratPoly(0), ratPoly(1), ratPoly(0, 1))
}

func TestRightFactorE1FindsDViaRationalShortcut(t *testing.T) {
	a := assert.New(t)
	l := dzd(t)

	r, err := RightFactor[numfield.Rational](l, nil, DefaultLimits(), numfield.QZero, rand.New(rand.NewSource(1)))
	a.NoError(err)
	if a.NotNil(r) {
		a.Equal(1, r.Order())
		rem, merr := l.Mod(r)
		a.NoError(merr)
		a.True(rem.IsZero())
	}
}

func TestFactorE1SplitsIntoTwoFirstOrderFactors(t *testing.T) {
	a := assert.New(t)
	l := dzd(t)

	factors, err := Factor[numfield.Rational](l, nil, DefaultLimits(), numfield.QZero, rand.New(rand.NewSource(1)))
	a.NoError(err)
	if a.Len(factors, 2) {
		total := 0
		for _, f := range factors {
			a.GreaterOrEqual(f.Order(), 1)
			total += f.Order()
		}
		a.Equal(l.Order(), total)
	}
}

// E6: an order-1 operator is never split, regardless of whether it has
// a rational solution.
func TestRightFactorOrderOneGuard(t *testing.T) {
	a := assert.New(t)
	l := ratOp(t, ratPoly(1), ratPoly(1)) // D + 1, solution e^-z, not rational

	r, err := RightFactor[numfield.Rational](l, nil, DefaultLimits(), numfield.QZero, rand.New(rand.NewSource(1)))
	a.NoError(err)
	a.Nil(r)

	factors, ferr := Factor[numfield.Rational](l, nil, DefaultLimits(), numfield.QZero, rand.New(rand.NewSource(1)))
	a.NoError(ferr)
	if a.Len(factors, 1) {
		a.True(l.Equal(factors[0]))
	}
}

// yPrimePlusY builds D^2+D, whose only singularity is at infinity. The
// trivial-monodromy fallback is called on it directly here, without an
// engine, and recovers its D right factor on its own (RightFactor finds
// the same factor earlier, through the rational shortcut).
func yPrimePlusY(t *testing.T) *operator.Operator[numfield.Rational] {
	t.Helper()
	return ratOp(t, ratPoly(0), ratPoly(1), ratPoly(1))
}

func TestTrivialMonodromyFallbackFindsD(t *testing.T) {
	a := assert.New(t)
	l := yPrimePlusY(t)

	r, err := TrivialMonodromyFallback[numfield.Rational](l, 4, DefaultLimits(), numfield.QZero)
	a.NoError(err)
	if a.NotNil(r) {
		a.Equal(1, r.Order())
		rem, merr := l.Mod(r)
		a.NoError(merr)
		a.True(rem.IsZero())
	}
}

func TestRightFactorInvalidOperator(t *testing.T) {
	a := assert.New(t)
	_, err := RightFactor[numfield.Rational](nil, nil, DefaultLimits(), numfield.QZero, rand.New(rand.NewSource(1)))
	a.ErrorIs(err, operator.ErrInvalidOperator)
}

// firstOrderFromRoot builds D - y'/y for y = z - root, the order-1
// operator whose unique (up to scale) polynomial solution is y itself
// -- the same construction shortcut.TryRational uses internally, so the
// product of two of these is always resolvable without the monodromy
// pipeline.
func firstOrderFromRoot(t *testing.T, root int64) *operator.Operator[numfield.Rational] {
	t.Helper()
	denom := ratPoly(-root, 1) // z - root
	a0 := numfield.NewRatFunc(ratPoly(-1), denom)
	one := ratPoly(1)
	a1 := numfield.NewRatFunc(one, one)
	l, err := operator.New([]numfield.RatFunc[numfield.Rational]{a0, a1}, numfield.QZero)
	if err != nil {
		t.Fatalf("building first-order operator: %v", err)
	}
	return l
}

// TestFactorPropertyRandomProductOfFirstOrderFactors checks spec
// property (1) -- factor(L) recomposes to L exactly, with orders
// summing to ord(L) -- and property (2) -- every returned factor is
// itself irreducible -- over randomly generated products of two
// first-order operators with distinct integer roots.
func TestFactorPropertyRandomProductOfFirstOrderFactors(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		root1 := rapid.Int64Range(-5, 5).Draw(rt, "root1")
		delta := rapid.Int64Range(1, 5).Draw(rt, "delta")
		root2 := root1 + delta

		f1 := firstOrderFromRoot(t, root1)
		f2 := firstOrderFromRoot(t, root2)
		l := f1.Mul(f2)

		factors, err := Factor[numfield.Rational](l, nil, DefaultLimits(), numfield.QZero, rand.New(rand.NewSource(1)))
		if err != nil {
			rt.Fatalf("Factor returned an error: %v", err)
		}
		if len(factors) != 2 {
			rt.Fatalf("expected 2 factors, got %d", len(factors))
		}

		total := 0
		for _, f := range factors {
			if f.Order() < 1 {
				rt.Fatalf("factor with order %d", f.Order())
			}
			total += f.Order()
		}
		if total != l.Order() {
			rt.Fatalf("orders sum to %d, want %d", total, l.Order())
		}

		recomposed := factors[0]
		for _, f := range factors[1:] {
			recomposed = recomposed.Mul(f)
		}
		if !l.Equal(recomposed) {
			rt.Fatalf("factors do not recompose to the original operator")
		}

		for _, f := range factors {
			rf, rerr := RightFactor[numfield.Rational](f, nil, DefaultLimits(), numfield.QZero, rand.New(rand.NewSource(1)))
			if rerr != nil {
				rt.Fatalf("RightFactor on a factor errored: %v", rerr)
			}
			if rf != nil {
				rt.Fatalf("factor of order %d was not irreducible", f.Order())
			}
		}
	})
}

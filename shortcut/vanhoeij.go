package shortcut

import (
	"errors"
	"math"
	"math/big"
	"math/cmplx"

	"github.com/lindqvist/opfactor/guess"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/lindqvist/opfactor/spectral"
)

// ErrNoExponentialPart is returned when no simple, non-resonant
// exponent is found at any rational place or infinity (spec.md §4.3.2
// step 1, scoped to the rational/integer places this package can
// exactly re-express the operator around without a dynamic
// algebraic-extension branch; see DESIGN.md).
var ErrNoExponentialPart = errors.New("shortcut: no mult-1 exponential part found")

const expTol = 1e-6

func binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 0; i < k; i++ {
		result = result * int64(n-i) / int64(i+1)
	}
	return result
}

func fallingFactorialIntSigned(n, k int) int64 {
	result := int64(1)
	for t := 0; t < k; t++ {
		result *= int64(n - t)
	}
	return result
}

func nearInteger(x float64) bool {
	return math.Abs(x-math.Round(x)) < expTol
}

// rationalFromComplex returns the exact S value of c when c is (within
// tolerance) a real rational number. Outside that (an irrational or
// complex place) it reports false: this package's documented scope
// boundary, matching operator.LocalBasis/spectral.NewtonPolygon's own
// Q-hot-path-only depth.
func rationalFromComplex[S numfield.Field[S]](c complex128, zero S) (S, bool) {
	var zv S
	if math.Abs(imag(c)) > expTol {
		return zv, false
	}
	mid := big.NewFloat(real(c))
	rat := numfield.NearbyRational(mid, big.NewFloat(expTol))
	if rat == nil {
		return zv, false
	}
	return numfield.RationalScalar(zero, rat)
}

// expPartCandidate is one place/exponent pair found by the mult-1
// exponential-part search.
type expPartCandidate struct {
	place spectral.Place
	e     complex128
}

// searchExpPartWithMult1 iterates over l's places (restricted to
// rational finite places and infinity) and returns the first exponent
// that is simple and differs from every other exponent at that place
// by a non-integer.
func searchExpPartWithMult1[S numfield.Field[S]](l *operator.Operator[S], zero S) (expPartCandidate, bool) {
	for _, p := range spectral.Places(l) {
		if !p.AtInfinity {
			if _, ok := rationalFromComplex(p.Root, zero); !ok {
				continue
			}
		}
		exps := spectral.Exponents(l, p)
		for i, e := range exps {
			simple := true
			nonIntegerGap := true
			for j, f := range exps {
				if i == j {
					continue
				}
				d := e - f
				if cmplx.Abs(d) < expTol {
					simple = false
					break
				}
				if nearInteger(real(d)) && math.Abs(imag(d)) < expTol {
					nonIntegerGap = false
				}
			}
			if simple && nonIntegerGap {
				return expPartCandidate{place: p, e: e}, true
			}
		}
	}
	return expPartCandidate{}, false
}

// eulerShift returns z^{-e} L (z^e . ), the operator obtained from l by
// the substitution T -> T+e (T = z*D), for an integer e, via the
// ordinary Leibniz expansion of D^i(z^e g).
func eulerShift[S numfield.Field[S]](l *operator.Operator[S], e int, zero S) (*operator.Operator[S], error) {
	r := l.Order()
	out := make([]numfield.RatFunc[S], r+1)
	for idx := range out {
		out[idx] = numfield.ZeroRatFunc(zero)
	}
	one := numfield.NewPoly([]S{numfield.IntScalar(zero, 1)}, zero)

	for i := 0; i <= r; i++ {
		ai := l.Coeffs[i]
		if ai.IsZero() {
			continue
		}
		for k := 0; k <= i; k++ {
			ff := fallingFactorialIntSigned(e, k)
			if ff == 0 {
				continue
			}
			scale := binomial(i, k) * ff
			if scale == 0 {
				continue
			}
			constFactor := numfield.RatFunc[S]{
				Num: numfield.NewPoly([]S{numfield.IntScalar(zero, scale)}, zero),
				Den: one,
			}
			zk := make([]S, k+1)
			for idx := range zk {
				zk[idx] = zero
			}
			zk[k] = numfield.IntScalar(zero, 1)
			zkRat := numfield.RatFunc[S]{Num: one, Den: numfield.NewPoly(zk, zero)}

			term := ai.Mul(constFactor).Mul(zkRat)
			out[i-k] = out[i-k].Add(term)
		}
	}
	return operator.New(out, zero)
}

// TryVanHoeij implements the van Hoeij single-multiplicity
// exponential-part search (spec.md §4.3.2): find a simple exponent e at
// some place, conjugate the operator by z^e so that place carries
// exponent 0, and guess an order-(r-1) annihilator from the shifted
// operator's leading local series.
func TryVanHoeij[S numfield.Field[S]](l *operator.Operator[S], zero S) (*operator.Operator[S], error) {
	cand, ok := searchExpPartWithMult1(l, zero)
	if !ok {
		return nil, ErrNoExponentialPart
	}

	shifted := l
	var root S
	haveRoot := false
	if cand.place.AtInfinity {
		shifted = operator.ReciprocalTransform(l)
	} else if rt, ok := rationalFromComplex(cand.place.Root, zero); ok {
		root = rt
		haveRoot = !root.IsZero()
		if haveRoot {
			shifted = l.Compose(operator.AffineMap[S]{Delta: root})
		}
	}

	if !nearInteger(real(cand.e)) || math.Abs(imag(cand.e)) > expTol {
		// Non-integer exponent at this place: retry try_rational per
		// spec.md §4.3.2 step 4, since guess_via_series needs an
		// integer exponent to conjugate away.
		return TryRational(l, zero)
	}

	eInt := int(math.Round(real(cand.e)))
	conjugated, err := eulerShift(shifted, eInt, zero)
	if err != nil {
		return nil, ErrNoExponentialPart
	}

	// eulerShift's z^{-k} terms generally leave conjugated's coefficients
	// with nonzero denominators (e.g. shifted's a_0 picks up a 1/z term);
	// ComputeLocalBasis only ever reads a coefficient's polynomial
	// numerator, so conjugated must be normalized (denominators cleared,
	// base point re-ordinaried) before its local series means anything.
	normalized, conjShift, err := operator.Normalize(conjugated)
	if err != nil {
		return nil, ErrNoExponentialPart
	}

	r := normalized.Order()
	truncation := 4 * (r + 1)
	bases, err := operator.ComputeLocalBasis(normalized, truncation)
	if err != nil {
		return nil, ErrNoExponentialPart
	}
	series := bases[0].Coeffs

	var layer guess.LinearAlgebra[S]
	maxDegree := normalized.Degree()
	if maxDegree < 0 {
		maxDegree = 0
	}
	rightNormalized, err := layer.Guess(series, r-1, maxDegree, zero)
	if err != nil || rightNormalized.Order() == 0 || rightNormalized.Order() >= r {
		return nil, ErrNoExponentialPart
	}
	right := rightNormalized
	if !conjShift.IsZero() {
		right = rightNormalized.Compose(operator.AffineMap[S]{Delta: conjShift.Neg()})
	}

	// Undo the Euler shift, then the base-point change, to recover a
	// right factor of the original (unshifted) operator.
	rightShifted, err := eulerShift(right, -eInt, zero)
	if err != nil {
		return nil, ErrNoExponentialPart
	}
	final := rightShifted
	switch {
	case cand.place.AtInfinity:
		final = operator.ReciprocalTransform(rightShifted)
	case haveRoot:
		final = rightShifted.Compose(operator.AffineMap[S]{Delta: root.Neg()})
	}

	_, rem, divErr := l.LongDiv(final)
	if divErr != nil || !rem.IsZero() {
		return nil, ErrNoExponentialPart
	}

	return final, nil
}

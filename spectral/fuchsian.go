package spectral

import (
	"math"

	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
)

const valuationTol = 1e-7

// valuationAt returns the order of vanishing of the polynomial (given
// by its coefficients, x^0 first) at p, i.e. the smallest index whose
// Taylor coefficient around p exceeds the numerical noise floor. A
// polynomial that is (numerically) identically zero returns a large
// sentinel, since an identically-vanishing coefficient imposes no
// constraint on the valuation test.
func valuationAt(coeffs []complex128, p complex128) int {
	shifted := complexShift(coeffs, p)
	for i, c := range shifted {
		if cmplxAbs(c) > valuationTol {
			return i
		}
	}
	return len(shifted) + 1000
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// IsFuchsian reports whether l is regular at every singularity
// (including infinity): for each irreducible factor of ℓ with
// multiplicity m, every lower coefficient a_k must have valuation
// >= k - r + m at that place (spec.md §4.2).
func IsFuchsian[S numfield.Field[S]](l *operator.Operator[S]) bool {
	r := l.Order()
	for _, p := range Places(l) {
		if p.AtInfinity {
			continue
		}
		if !regularAt(l, r, p.Root, p.Mult) {
			return false
		}
	}
	infOp := operator.ReciprocalTransform(l)
	return regularAt(infOp, infOp.Order(), 0, valuationAt(leadingCoeffComplex(infOp), 0))
}

// IsRegularAt reports whether l is regular (in the Fuchsian sense) at
// the single place p, the per-place test IsFuchsian loops over every
// place to check (used by engine.SeriesContinuation, which only knows
// how to form a connection matrix at a regular singular point).
func IsRegularAt[S numfield.Field[S]](l *operator.Operator[S], p Place) bool {
	if p.AtInfinity {
		infOp := operator.ReciprocalTransform(l)
		return regularAt(infOp, infOp.Order(), 0, valuationAt(leadingCoeffComplex(infOp), 0))
	}
	return regularAt(l, l.Order(), p.Root, p.Mult)
}

func regularAt[S numfield.Field[S]](l *operator.Operator[S], r int, root complex128, mult int) bool {
	for k := 0; k < r; k++ {
		ak := coeffComplexAt(l, k)
		if valuationAt(ak, root) < k-r+mult {
			return false
		}
	}
	return true
}

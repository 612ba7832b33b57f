package spectral

import (
	"math"

	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"lukechampine.com/uint128"
)

// LargestExponentModulus returns max(ceil(|e|)) over every exponent at
// every place of l (including infinity).
func LargestExponentModulus[S numfield.Field[S]](l *operator.Operator[S]) int {
	best := 0
	for _, p := range Places(l) {
		for _, e := range Exponents(l, p) {
			m := int(math.Ceil(cmplxAbs(e)))
			if m > best {
				best = m
			}
		}
	}
	return best
}

// numSingularities returns the number of distinct finite roots of l's
// leading coefficient (S in the degree-bound formula).
func numSingularities[S numfield.Field[S]](l *operator.Operator[S]) int {
	count := 0
	for _, p := range Places(l) {
		if !p.AtInfinity {
			count++
		}
	}
	return count
}

// DegreeBoundForRightFactor returns
// B = r^2*(S+1)*E + r*S + r^2*(r-1)*(S-1)/2, where r = order(L)-1,
// S is the number of singularities of ℓ, and E is the largest exponent
// modulus, accumulated in uint128 to stay overflow-safe for large
// synthetic operators (the same role lattigo uses it for internally).
func DegreeBoundForRightFactor[S numfield.Field[S]](l *operator.Operator[S]) int {
	r := uint64(l.Order() - 1)
	s := uint64(numSingularities(l))
	e := uint64(LargestExponentModulus(l))

	rr := uint128.From64(r).Mul64(r)
	term1 := rr.Mul64(s + 1).Mul64(e)
	term2 := uint128.From64(r).Mul64(s)

	var term3 uint128.Uint128
	if r >= 1 && s >= 1 {
		rm1 := r - 1
		sm1 := s - 1
		term3 = rr.Mul64(rm1).Mul64(sm1).Div64(2)
	}

	total := term1.Add(term2).Add(term3)
	return int(total.Big().Int64())
}

package spectral

import (
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
)

// CharPoly is the indicial (local characteristic) polynomial at a
// place, coefficients of x^0 first.
type CharPoly struct {
	Coeffs []complex128
}

// fallingFactorialPoly returns the coefficients (x^0 first) of
// x*(x-1)*...*(x-i+1).
func fallingFactorialPoly(i int) []complex128 {
	coeffs := []complex128{1}
	for t := 0; t < i; t++ {
		next := make([]complex128, len(coeffs)+1)
		for k, c := range coeffs {
			next[k] += c * complex(-float64(t), 0)
			next[k+1] += c
		}
		coeffs = next
	}
	return coeffs
}

func addInto(dst, src []complex128, scale complex128) []complex128 {
	if len(dst) < len(src) {
		grown := make([]complex128, len(src))
		copy(grown, dst)
		dst = grown
	}
	for i, c := range src {
		dst[i] += c * scale
	}
	return dst
}

// IndicialPolynomial returns chi_p(x) = sum_i a_{i,i}^{(p)}*x(x-1)...(x-i+1),
// where a_{i,i}^{(p)} is the coefficient of (z-p)^i in the Taylor
// expansion of a_i around the place p (verified against the Euler
// equation z^2y''+zy'-n^2y=0, whose indicial polynomial e^2-n^2 this
// formula reproduces exactly at p=0). At infinity, l is first rewritten
// in w=1/z via operator.ReciprocalTransform and the same formula is
// applied at w=0.
func IndicialPolynomial[S numfield.Field[S]](l *operator.Operator[S], p Place) CharPoly {
	target := l
	root := p.Root
	if p.AtInfinity {
		target = operator.ReciprocalTransform(l)
		root = 0
	}

	var result []complex128
	for i := 0; i <= target.Order(); i++ {
		ai := coeffComplexAt(target, i)
		if len(ai) == 0 {
			continue
		}
		shifted := complexShift(ai, root)
		if i >= len(shifted) {
			continue
		}
		coeff := shifted[i]
		if coeff == 0 {
			continue
		}
		result = addInto(result, fallingFactorialPoly(i), coeff)
	}
	if result == nil {
		result = []complex128{0}
	}
	return CharPoly{Coeffs: result}
}

// Exponents returns the roots of the indicial polynomial at p, with
// multiplicity: the local exponents of spec.md §4.1.
func Exponents[S numfield.Field[S]](l *operator.Operator[S], p Place) []complex128 {
	chi := IndicialPolynomial(l, p)
	roots := polyRoots(chi.Coeffs)
	values, mult := clusterRoots(roots, clusterTol)
	out := make([]complex128, 0, len(roots))
	for i, v := range values {
		for k := 0; k < mult[i]; k++ {
			out = append(out, v)
		}
	}
	return out
}

package spectral

import (
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
)

const defaultPrec = 128

func scalarToComplex[S numfield.Field[S]](s S) complex128 {
	b := s.Ball(defaultPrec)
	re, _ := b.Re.Float64()
	im, _ := b.Im.Float64()
	return complex(re, im)
}

// polyToComplex reads off p's coefficients (x^0 first) as complex128.
func polyToComplex[S numfield.Field[S]](p *numfield.Poly[S]) []complex128 {
	out := make([]complex128, p.Len())
	for i, c := range p.Coeffs {
		out[i] = scalarToComplex(c)
	}
	return out
}

// complexShift returns the Taylor coefficients of p(x+p0) (lowest
// degree first), i.e. p re-expanded around p0, via repeated synthetic
// division by (x-p0) — the complex128 analogue of Poly.ComposeShift
// used once places stop being exact field elements.
func complexShift(coeffs []complex128, p0 complex128) []complex128 {
	n := len(coeffs)
	out := make([]complex128, n)
	work := append([]complex128{}, coeffs...) // lowest degree first
	for k := 0; k < n; k++ {
		m := len(work)
		quotient := make([]complex128, m-1)
		// synthetic division, working from the top coefficient down:
		// quotient[m-2] = work[m-1]; quotient[i-1] = work[i] + p0*quotient[i]
		if m > 1 {
			quotient[m-2] = work[m-1]
			for i := m - 2; i >= 1; i-- {
				quotient[i-1] = work[i] + p0*quotient[i]
			}
		}
		rem := work[0]
		if m > 1 {
			rem += p0 * quotient[0]
		}
		out[k] = rem
		work = quotient
	}
	return out
}

// leadingCoeffComplex returns the operator's leading coefficient
// numerator, as a complex128 coefficient list.
func leadingCoeffComplex[S numfield.Field[S]](l *operator.Operator[S]) []complex128 {
	return polyToComplex(l.LeadingCoeff().Num)
}

// coeffComplexAt returns a_i's numerator coefficients as complex128,
// zero for i outside the operator's range.
func coeffComplexAt[S numfield.Field[S]](l *operator.Operator[S], i int) []complex128 {
	if i < 0 || i > l.Order() {
		return nil
	}
	return polyToComplex(l.Coeffs[i].Num)
}

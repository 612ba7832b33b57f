package operator

import "github.com/lindqvist/opfactor/numfield"

// LocalBasis is one element of the canonical local solution basis at
// the (ordinary) base point z=0 of a normalized operator: the formal
// power series y_m(z) = z^m + O(z^r), i.e. its z^j Taylor coefficient
// is delta(j,m) for j=0..r-1, named in spec §6's algebra layer and
// consumed by the annihilator's series composition step (§4.6 step 3).
//
// Logarithmic local bases (needed at a genuinely resonant regular
// singular point) are not computed here; the reference continuation
// engine instead forms monodromy directly from the exponents via the
// closed-form connection matrix, so this type only ever needs the
// ordinary-point case.
type LocalBasis[S numfield.Field[S]] struct {
	Index  int // which of the r initial conditions this solution satisfies
	Coeffs []S // Taylor coefficients c_0, c_1, ... of y_Index
}

// fallingFactorialInt returns n*(n-1)*...*(n-k+1), the coefficient
// picked up by D^k acting on z^n.
func fallingFactorialInt(n, k int) int64 {
	result := int64(1)
	for t := 0; t < k; t++ {
		result *= int64(n - t)
	}
	return result
}

// ComputeLocalBasis returns the r local solutions of l at z=0, each
// truncated to `truncation` Taylor coefficients, by solving the
// explicit recurrence obtained from dividing through by the leading
// coefficient's series (valid because l is normalized: leadCoeff(0) is
// nonzero). At step n it expresses y^(r)'s z^n coefficient via the
// lower-order derivatives, so every coefficient on the right of the
// recurrence is already known.
func ComputeLocalBasis[S numfield.Field[S]](l *Operator[S], truncation int) ([]*LocalBasis[S], error) {
	zero := l.zero
	r := l.Order()
	if truncation <= r {
		truncation = r + 1
	}

	lead := l.LeadingCoeff().Num
	a0 := lead.Eval(zero)
	if a0.IsZero() {
		return nil, ErrBasePointSingular
	}

	recip := reciprocalSeries(lead, truncation, zero)

	// P[i] = a_i(z) * recip(z), truncated, for i=0..r-1.
	pSeries := make([][]S, r)
	for i := 0; i < r; i++ {
		ai := l.Coeffs[i].Num
		pSeries[i] = truncatedConvolution(coeffsOf(ai, truncation, zero), recip, truncation, zero)
	}

	bases := make([]*LocalBasis[S], r)
	for m := 0; m < r; m++ {
		c := make([]S, truncation)
		for i := range c {
			c[i] = zero
		}
		if m < len(c) {
			c[m] = numfield.IntScalar(zero, 1)
		}

		for n := 0; n+r < truncation; n++ {
			rhs := zero
			for i := 0; i < r; i++ {
				for t := 0; t <= n; t++ {
					idx := n - t + i
					if idx >= len(c) || idx < 0 {
						continue
					}
					ff := fallingFactorialInt(idx, i)
					if ff == 0 {
						continue
					}
					term := c[idx].Mul(numfield.IntScalar(zero, ff)).Mul(pSeries[i][t])
					rhs = rhs.Add(term)
				}
			}
			denom := fallingFactorialInt(n+r, r)
			cNr := rhs.Neg().Mul(numfield.IntScalar(zero, denom).Inverse())
			if n+r < len(c) {
				c[n+r] = cNr
			}
		}

		bases[m] = &LocalBasis[S]{Index: m, Coeffs: c}
	}

	return bases, nil
}

// coeffsOf reads off p's coefficients zero-padded to length n.
func coeffsOf[S numfield.Field[S]](p *numfield.Poly[S], n int, zero S) []S {
	out := make([]S, n)
	for i := range out {
		out[i] = zero
	}
	for i := 0; i < p.Len() && i < n; i++ {
		out[i] = p.Coeffs[i]
	}
	return out
}

// reciprocalSeries computes the power series of 1/p(z) up to
// `truncation` terms, given p(0) != 0, via the standard recurrence
// R_0 = 1/p_0, R_t = -(1/p_0) * sum_{u=1}^{t} p_u * R_{t-u}.
func reciprocalSeries[S numfield.Field[S]](p *numfield.Poly[S], truncation int, zero S) []S {
	pc := coeffsOf(p, truncation, zero)
	r := make([]S, truncation)
	invP0 := pc[0].Inverse()
	r[0] = invP0
	for t := 1; t < truncation; t++ {
		acc := zero
		for u := 1; u <= t && u < len(pc); u++ {
			acc = acc.Add(pc[u].Mul(r[t-u]))
		}
		r[t] = acc.Neg().Mul(invP0)
	}
	return r
}

// truncatedConvolution returns the first `truncation` coefficients of
// a(z)*b(z).
func truncatedConvolution[S numfield.Field[S]](a, b []S, truncation int, zero S) []S {
	out := make([]S, truncation)
	for i := range out {
		out[i] = zero
	}
	for i := 0; i < len(a) && i < truncation; i++ {
		if a[i].IsZero() {
			continue
		}
		for j := 0; j < len(b) && i+j < truncation; j++ {
			out[i+j] = out[i+j].Add(a[i].Mul(b[j]))
		}
	}
	return out
}

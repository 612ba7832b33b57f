package operator

import "github.com/lindqvist/opfactor/numfield"

// reversePoly returns the polynomial whose coefficients are p's in
// reverse order, padded/truncated to length deg+1 (i.e. w^deg*p(1/w)
// read off as coefficients of w).
func reversePoly[S numfield.Field[S]](p *numfield.Poly[S], deg int, zero S) *numfield.Poly[S] {
	out := make([]S, deg+1)
	for i := range out {
		out[i] = zero
	}
	for i := 0; i <= p.Degree() && i <= deg; i++ {
		out[deg-i] = p.Coeffs[i]
	}
	return numfield.NewPoly(out, zero)
}

// monomialPoly returns z^deg as a polynomial.
func monomialPoly[S numfield.Field[S]](deg int, zero S) *numfield.Poly[S] {
	out := make([]S, deg+1)
	for i := range out {
		out[i] = zero
	}
	out[deg] = numfield.IntScalar(zero, 1)
	return numfield.NewPoly(out, zero)
}

// substituteReciprocal returns f(1/w) as a rational function in w,
// given f as a rational function in z.
func substituteReciprocal[S numfield.Field[S]](f numfield.RatFunc[S], zero S) numfield.RatFunc[S] {
	dn, dd := f.Num.Degree(), f.Den.Degree()
	if dn < 0 {
		dn = 0
	}
	if dd < 0 {
		dd = 0
	}
	num := reversePoly(f.Num, dn, zero).Mul(monomialPoly[S](dd, zero))
	den := reversePoly(f.Den, dd, zero).Mul(monomialPoly[S](dn, zero))
	return numfield.NewRatFunc(num, den)
}

// ReciprocalTransform returns L expressed in the variable w=1/z, using
// the chain-rule operator identity D_z = -w^2 * D_w (so D_z^i becomes
// the i-th power of that order-1 operator, built via repeated Mul,
// i.e. repeated Leibniz-rule composition rather than a hand-derived
// closed form). Used by the Spectral Probe to inspect the behavior of
// L at the point at infinity.
func ReciprocalTransform[S numfield.Field[S]](l *Operator[S]) *Operator[S] {
	zero := l.zero
	negOne := numfield.IntScalar(zero, -1)
	wSquared := numfield.NewPoly([]S{zero, zero, negOne}, zero) // -w^2
	dz := monomial(numfield.RatFunc[S]{
		Num: wSquared,
		Den: numfield.NewPoly([]S{numfield.IntScalar(zero, 1)}, zero),
	}, 1, zero)

	powers := make([]*Operator[S], l.Order()+1)
	identity := &Operator[S]{Coeffs: []numfield.RatFunc[S]{numfield.RatFunc[S]{
		Num: numfield.NewPoly([]S{numfield.IntScalar(zero, 1)}, zero),
		Den: numfield.NewPoly([]S{numfield.IntScalar(zero, 1)}, zero),
	}}, zero: zero}
	powers[0] = identity
	for i := 1; i < len(powers); i++ {
		powers[i] = dz.Mul(powers[i-1])
	}

	result := &Operator[S]{Coeffs: []numfield.RatFunc[S]{numfield.ZeroRatFunc(zero)}, zero: zero}
	for i, ai := range l.Coeffs {
		if ai.IsZero() {
			continue
		}
		aiw := substituteReciprocal(ai, zero)
		multOp := monomial(aiw, 0, zero)
		result = result.Add(multOp.Mul(powers[i]))
	}
	return result
}

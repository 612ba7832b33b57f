package numfield

// RatFunc is an element of K(z): a fraction of two K[z] polynomials in
// lowest terms.
type RatFunc[S Field[S]] struct {
	Num, Den *Poly[S]
}

// NewRatFunc reduces num/den via ExtendedGCD and normalizes the sign so
// that Den's leading coefficient divides out cleanly (monic-style
// normalization via dividing both by Den's leading coefficient).
func NewRatFunc[S Field[S]](num, den *Poly[S]) RatFunc[S] {
	if den.IsZero() {
		panic("numfield: rational function with zero denominator")
	}

	g, _, _ := ExtendedGCD(num, den)
	if g.Degree() > 0 {
		num, _ = num.LongDiv(g)
		den, _ = den.LongDiv(g)
	}

	lead := den.LeadCoeff().Inverse()
	num = num.MulScalar(lead)
	den = den.MulScalar(lead)

	return RatFunc[S]{Num: num, Den: den}
}

func (f RatFunc[S]) IsZero() bool { return f.Num.IsZero() }

// ZeroRatFunc is the additive identity of K(z).
func ZeroRatFunc[S Field[S]](zero S) RatFunc[S] {
	return RatFunc[S]{Num: NewPoly([]S{zero}, zero), Den: NewPoly([]S{oneScalar(zero)}, zero)}
}

// Inverse returns 1/f, swapping numerator and denominator and
// reapplying NewRatFunc's normalization. Panics if f is zero.
func (f RatFunc[S]) Inverse() RatFunc[S] {
	if f.IsZero() {
		panic("numfield: inverse of zero rational function")
	}
	return NewRatFunc(f.Den, f.Num)
}

// FromPoly lifts a K[z] polynomial into K(z) with denominator 1.
func FromPoly[S Field[S]](p *Poly[S], zero S) RatFunc[S] {
	return RatFunc[S]{Num: p, Den: NewPoly([]S{oneScalar(zero)}, zero)}
}

// IsPolynomial reports whether the denominator is the constant 1, i.e.
// this rational function is already a bare K[z] polynomial.
func (f RatFunc[S]) IsPolynomial() bool {
	return f.Den.Degree() == 0 && f.Den.Coeffs[0].Equal(oneScalar(f.Den.zero))
}

func (f RatFunc[S]) Add(g RatFunc[S]) RatFunc[S] {
	return NewRatFunc(f.Num.Mul(g.Den).Add(g.Num.Mul(f.Den)), f.Den.Mul(g.Den))
}

func (f RatFunc[S]) Sub(g RatFunc[S]) RatFunc[S] {
	return NewRatFunc(f.Num.Mul(g.Den).Sub(g.Num.Mul(f.Den)), f.Den.Mul(g.Den))
}

func (f RatFunc[S]) Mul(g RatFunc[S]) RatFunc[S] {
	return NewRatFunc(f.Num.Mul(g.Num), f.Den.Mul(g.Den))
}

func (f RatFunc[S]) Neg() RatFunc[S] {
	return RatFunc[S]{Num: f.Num.Neg(), Den: f.Den}
}

func (f RatFunc[S]) Equal(g RatFunc[S]) bool {
	return f.Sub(g).IsZero()
}

// Differentiate applies the quotient rule: (num/den)' = (num'den -
// num*den')/den^2.
func (f RatFunc[S]) Differentiate() RatFunc[S] {
	numP := f.Num.Differentiate().Mul(f.Den).Sub(f.Num.Mul(f.Den.Differentiate()))
	denP := f.Den.Mul(f.Den)
	return NewRatFunc(numP, denP)
}

// ClearDenominators returns a K[z] polynomial and the common
// denominator polynomial used, for a slice of rational-function
// coefficients (the Normalizer's first step, §4.1).
func ClearDenominators[S Field[S]](coeffs []RatFunc[S], zero S) (cleared []*Poly[S], commonDen *Poly[S]) {
	one := NewPoly([]S{coeffs[0].Den.LeadCoeff()}, zero)
	one = one.MulScalar(one.LeadCoeff().Inverse()) // the constant 1 polynomial
	commonDen = one

	for _, c := range coeffs {
		if c.IsZero() {
			continue
		}
		g, _, _ := ExtendedGCD(commonDen, c.Den)
		lcmFactor, _ := c.Den.LongDiv(g)
		commonDen = commonDen.Mul(lcmFactor)
	}

	cleared = make([]*Poly[S], len(coeffs))
	for i, c := range coeffs {
		factor, _ := commonDen.LongDiv(c.Den)
		cleared[i] = c.Num.Mul(factor)
	}

	return cleared, commonDen
}

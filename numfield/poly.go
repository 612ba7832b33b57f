package numfield

import (
	"strconv"
	"strings"
)

// Poly is a dense univariate polynomial over a Field[S], lowest-degree
// coefficient first. It generalizes the teacher's field.Polynomial
// (coefficients mod a fixed prime) to Q or an algebraic number field,
// parameterized the way §9's design notes ask: monomorphize over S =
// Rational for the hot path, S = AlgebraicNumber for the dynamic branch.
type Poly[S Field[S]] struct {
	Coeffs []S
	zero   S
}

// NewPoly builds a polynomial from coefficients (lowest degree first),
// trimming trailing (high-degree) zero coefficients.
func NewPoly[S Field[S]](coeffs []S, zero S) *Poly[S] {
	p := &Poly[S]{Coeffs: append([]S{}, coeffs...), zero: zero}
	p.trim()
	return p
}

func (p *Poly[S]) trim() {
	i := len(p.Coeffs) - 1
	for i > 0 && p.Coeffs[i].IsZero() {
		i--
	}
	p.Coeffs = p.Coeffs[:i+1]
}

// Len returns the number of stored coefficients (Degree()+1, unless the
// polynomial is the zero polynomial).
func (p *Poly[S]) Len() int { return len(p.Coeffs) }

// Degree returns -1 for the zero polynomial.
func (p *Poly[S]) Degree() int {
	if p.IsZero() {
		return -1
	}
	return len(p.Coeffs) - 1
}

func (p *Poly[S]) IsZero() bool {
	return len(p.Coeffs) == 0 || (len(p.Coeffs) == 1 && p.Coeffs[0].IsZero())
}

func (p *Poly[S]) LeadCoeff() S {
	if p.IsZero() {
		return p.zero
	}
	return p.Coeffs[len(p.Coeffs)-1]
}

func (p *Poly[S]) coeffAt(i int) S {
	if i < 0 || i >= len(p.Coeffs) {
		return p.zero
	}
	return p.Coeffs[i]
}

func (p *Poly[S]) Add(q *Poly[S]) *Poly[S] {
	n := max(len(p.Coeffs), len(q.Coeffs))
	out := make([]S, n)
	for i := 0; i < n; i++ {
		out[i] = p.coeffAt(i).Add(q.coeffAt(i))
	}
	return NewPoly(out, p.zero)
}

func (p *Poly[S]) Sub(q *Poly[S]) *Poly[S] {
	n := max(len(p.Coeffs), len(q.Coeffs))
	out := make([]S, n)
	for i := 0; i < n; i++ {
		out[i] = p.coeffAt(i).Sub(q.coeffAt(i))
	}
	return NewPoly(out, p.zero)
}

func (p *Poly[S]) Neg() *Poly[S] {
	out := make([]S, len(p.Coeffs))
	for i, c := range p.Coeffs {
		out[i] = c.Neg()
	}
	return NewPoly(out, p.zero)
}

func (p *Poly[S]) Mul(q *Poly[S]) *Poly[S] {
	if p.IsZero() || q.IsZero() {
		return NewPoly([]S{p.zero}, p.zero)
	}
	out := make([]S, len(p.Coeffs)+len(q.Coeffs)-1)
	for i := range out {
		out[i] = p.zero
	}
	for i, pc := range p.Coeffs {
		if pc.IsZero() {
			continue
		}
		for j, qc := range q.Coeffs {
			out[i+j] = out[i+j].Add(pc.Mul(qc))
		}
	}
	return NewPoly(out, p.zero)
}

// MulScalar returns c*p.
func (p *Poly[S]) MulScalar(c S) *Poly[S] {
	out := make([]S, len(p.Coeffs))
	for i, pc := range p.Coeffs {
		out[i] = pc.Mul(c)
	}
	return NewPoly(out, p.zero)
}

func monomialMul[S Field[S]](c S, deg int, p *Poly[S]) *Poly[S] {
	out := make([]S, len(p.Coeffs)+deg)
	for i := range out {
		out[i] = p.zero
	}
	for i, pc := range p.Coeffs {
		out[i+deg] = c.Mul(pc)
	}
	return NewPoly(out, p.zero)
}

// String renders p highest-degree-first as a sum of coeff*x^i terms
// (teacher parity: field.Polynomial.String()).
func (p *Poly[S]) String() string {
	if p.IsZero() {
		return p.zero.String()
	}
	var b strings.Builder
	first := true
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		c := p.Coeffs[i]
		if c.IsZero() {
			continue
		}
		if !first {
			b.WriteString(" + ")
		}
		first = false
		b.WriteString(c.String())
		if i > 0 {
			b.WriteString("*x^")
			b.WriteString(strconv.Itoa(i))
		}
	}
	return b.String()
}

// Eval evaluates p at x by Horner's rule.
func (p *Poly[S]) Eval(x S) S {
	result := p.zero
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		result = p.Coeffs[i].Add(result.Mul(x))
	}
	return result
}

// Differentiate returns p'.
func (p *Poly[S]) Differentiate() *Poly[S] {
	if p.Degree() <= 0 {
		return NewPoly([]S{p.zero}, p.zero)
	}
	out := make([]S, len(p.Coeffs)-1)
	for i := 1; i < len(p.Coeffs); i++ {
		coeff := p.Coeffs[i]
		acc := p.zero
		for k := 0; k < i; k++ {
			acc = acc.Add(coeff)
		}
		out[i-1] = acc
	}
	return NewPoly(out, p.zero)
}

// ComposeShift substitutes x <- x + s (the affine shift the Normalizer
// uses, per original_source/differential_operator.py's composition-based
// shift) via repeated Horner-style expansion in (x+s).
func (p *Poly[S]) ComposeShift(s S) *Poly[S] {
	result := NewPoly([]S{p.zero}, p.zero)
	shiftPoly := NewPoly([]S{s, oneScalar(p.zero)}, p.zero)
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		result = result.Mul(shiftPoly).addScalarAtZero(p.Coeffs[i])
	}
	return result
}

func (p *Poly[S]) addScalarAtZero(c S) *Poly[S] {
	out := append([]S{}, p.Coeffs...)
	if len(out) == 0 {
		out = []S{c}
	} else {
		out[0] = out[0].Add(c)
	}
	return NewPoly(out, p.zero)
}

// LongDiv implements teacher field.Polynomial.LongDiv generalized to any
// Field[S] (Algorithm 2.5, von zur Gathen & Gerhard): returns q, r with
// p = q*v + r.
func (p *Poly[S]) LongDiv(v *Poly[S]) (q, r *Poly[S]) {
	n, m := p.Degree(), v.Degree()
	if m < 0 {
		panic("numfield: division by zero polynomial")
	}
	if n < m {
		return NewPoly([]S{p.zero}, p.zero), NewPoly(append([]S{}, p.Coeffs...), p.zero)
	}

	u := v.LeadCoeff().Inverse()
	r = NewPoly(append([]S{}, p.Coeffs...), p.zero)
	qc := make([]S, n-m+1)

	for i := n - m; i >= 0; i-- {
		if r.Degree() == m+i {
			qc[i] = r.LeadCoeff().Mul(u)
			r = r.Sub(monomialMul(qc[i], i, v))
		} else {
			qc[i] = p.zero
		}
	}

	return NewPoly(qc, p.zero), r
}

// ExtendedGCD returns g, x, y with g = gcd(a,b) = a*x + b*y, run to
// completion (stopDegree = -1 in PartialExtendedEuclidean's terms).
func ExtendedGCD[S Field[S]](a, b *Poly[S]) (g, x, y *Poly[S]) {
	return PartialExtendedEuclidean(a, b, -1)
}

// PartialExtendedEuclidean mirrors teacher field.PartialExtendedEuclidean
// exactly, generalized to any Field[S]: returns gcd, x, y with
// a*x + b*y = gcd and gcd.Degree() < stopDegree (full gcd when
// stopDegree < 0).
func PartialExtendedEuclidean[S Field[S]](a, b *Poly[S], stopDegree int) (g, x, y *Poly[S]) {
	if b.IsZero() || (stopDegree >= 0 && a.Degree() < stopDegree) {
		g = NewPoly(append([]S{}, a.Coeffs...), a.zero)
		x = NewPoly([]S{oneScalar(a.zero)}, a.zero)
		y = NewPoly([]S{a.zero}, a.zero)
		return
	}

	quotient, r := a.LongDiv(b)
	g, x1, y1 := PartialExtendedEuclidean(b, r, stopDegree)
	x = y1
	y = x1.Sub(quotient.Mul(y1))
	return
}

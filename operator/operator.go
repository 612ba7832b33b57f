// Package operator implements the differential operator value type and
// the Normalizer (C1): a nonzero polynomial in D over K(z), its order,
// degree and leading coefficient, Leibniz-rule composition, right
// Euclidean division, and composition with an affine change of
// variable. It generalizes the teacher's field.Polynomial (LongDiv,
// PartialExtendedEuclidean, value semantics with copy-on-write) from a
// commutative ring to the noncommutative ring K(z)[D].
package operator

import (
	"strconv"
	"strings"

	"github.com/lindqvist/opfactor/numfield"
)

// Operator is L = sum_i Coeffs[i] * D^i, Coeffs[i] in K(z), lowest
// order first. Operators are immutable value-like entities (mirroring
// teacher's Polynomial semantics): every transform returns a new
// value.
type Operator[S numfield.Field[S]] struct {
	Coeffs []numfield.RatFunc[S]
	zero   S
}

// New builds an operator from coefficients (D^0 first), trimming
// trailing (high-order) zero coefficients. It performs no
// normalization; see Normalize for clearing denominators, removing
// content, and shifting the base point.
func New[S numfield.Field[S]](coeffs []numfield.RatFunc[S], zero S) (*Operator[S], error) {
	if len(coeffs) == 0 {
		return nil, ErrInvalidOperator
	}
	op := &Operator[S]{Coeffs: append([]numfield.RatFunc[S]{}, coeffs...), zero: zero}
	op.trim()
	if op.IsZero() {
		return nil, ErrZeroOperator
	}
	return op, nil
}

func (l *Operator[S]) trim() {
	i := len(l.Coeffs) - 1
	for i > 0 && l.Coeffs[i].IsZero() {
		i--
	}
	l.Coeffs = l.Coeffs[:i+1]
}

// IsZero reports whether every coefficient vanishes.
func (l *Operator[S]) IsZero() bool {
	for _, c := range l.Coeffs {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// Order is the highest power of D with a nonzero coefficient.
func (l *Operator[S]) Order() int {
	return len(l.Coeffs) - 1
}

// Degree is the maximum polynomial degree among the coefficients once
// they are cleared of denominators (i.e. of their numerators, which is
// meaningful once the operator is normalized).
func (l *Operator[S]) Degree() int {
	d := -1
	for _, c := range l.Coeffs {
		if c.Num.Degree() > d {
			d = c.Num.Degree()
		}
	}
	return d
}

// LeadingCoeff returns Coeffs[Order()].
func (l *Operator[S]) LeadingCoeff() numfield.RatFunc[S] {
	return l.Coeffs[l.Order()]
}

func (l *Operator[S]) coeffAt(i int) numfield.RatFunc[S] {
	if i < 0 || i >= len(l.Coeffs) {
		return numfield.ZeroRatFunc(l.zero)
	}
	return l.Coeffs[i]
}

// Add returns L+M.
func (l *Operator[S]) Add(m *Operator[S]) *Operator[S] {
	n := max(len(l.Coeffs), len(m.Coeffs))
	out := make([]numfield.RatFunc[S], n)
	for i := 0; i < n; i++ {
		out[i] = l.coeffAt(i).Add(m.coeffAt(i))
	}
	op := &Operator[S]{Coeffs: out, zero: l.zero}
	op.trim()
	return op
}

// Sub returns L-M.
func (l *Operator[S]) Sub(m *Operator[S]) *Operator[S] {
	n := max(len(l.Coeffs), len(m.Coeffs))
	out := make([]numfield.RatFunc[S], n)
	for i := 0; i < n; i++ {
		out[i] = l.coeffAt(i).Sub(m.coeffAt(i))
	}
	op := &Operator[S]{Coeffs: out, zero: l.zero}
	op.trim()
	return op
}

// binomial computes C(n,k) with plain integer arithmetic; operator
// orders are always small in practice (spectral.DegreeBoundForRightFactor governs
// the one place orders grow large, and that uses uint128, not this).
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

// Mul implements operator composition L*M via the noncommutative
// Leibniz rule D^i o (b D^j) = sum_k C(i,k) b^(k) D^(i-k+j), i.e. D
// does not commute with multiplication by a function but obeys the
// product rule.
func (l *Operator[S]) Mul(m *Operator[S]) *Operator[S] {
	orderL, orderM := l.Order(), m.Order()
	out := make([]numfield.RatFunc[S], orderL+orderM+1)
	for idx := range out {
		out[idx] = numfield.ZeroRatFunc(l.zero)
	}

	for i := 0; i <= orderL; i++ {
		ai := l.Coeffs[i]
		if ai.IsZero() {
			continue
		}
		for j := 0; j <= orderM; j++ {
			deriv := m.Coeffs[j]
			if deriv.IsZero() {
				continue
			}
			for k := 0; k <= i; k++ {
				if k > 0 {
					deriv = deriv.Differentiate()
					if deriv.IsZero() {
						break
					}
				}
				c := binomial(i, k)
				if c == 0 {
					continue
				}
				term := ai.Mul(mulByInt(deriv, c, l.zero))
				idx := i - k + j
				out[idx] = out[idx].Add(term)
			}
		}
	}

	op := &Operator[S]{Coeffs: out, zero: l.zero}
	op.trim()
	return op
}

// mulByInt returns n*f by scaling f's numerator by the image of n in
// the coefficient field.
func mulByInt[S numfield.Field[S]](f numfield.RatFunc[S], n int64, zero S) numfield.RatFunc[S] {
	if n == 1 {
		return f
	}
	c := numfield.IntScalar(zero, n)
	return numfield.RatFunc[S]{Num: f.Num.MulScalar(c), Den: f.Den}
}

// monomial builds the single-term operator c*D^order.
func monomial[S numfield.Field[S]](c numfield.RatFunc[S], order int, zero S) *Operator[S] {
	coeffs := make([]numfield.RatFunc[S], order+1)
	for i := range coeffs {
		coeffs[i] = numfield.ZeroRatFunc(zero)
	}
	coeffs[order] = c
	return &Operator[S]{Coeffs: coeffs, zero: zero}
}

// LongDiv implements right Euclidean division: returns q, rem with
// L = q*R + rem and rem.Order() < R.Order() (or rem zero), mirroring
// the teacher's Algorithm 2.5 LongDiv structure (greedy leading-term
// elimination) generalized to the noncommutative ring K(z)[D].
func (l *Operator[S]) LongDiv(r *Operator[S]) (q, rem *Operator[S], err error) {
	if r.IsZero() {
		return nil, nil, ErrInvalidOperator
	}
	nR := r.Order()
	leadR := r.LeadingCoeff()

	qCoeffs := make([]numfield.RatFunc[S], max(l.Order()-nR+1, 1))
	for i := range qCoeffs {
		qCoeffs[i] = numfield.ZeroRatFunc(l.zero)
	}

	cur := l
	for !cur.IsZero() && cur.Order() >= nR {
		nCur := cur.Order()
		qOrder := nCur - nR
		qc := cur.LeadingCoeff().Mul(leadR.Inverse())
		qCoeffs[qOrder] = qc

		term := monomial(qc, qOrder, l.zero)
		cur = cur.Sub(term.Mul(r))
	}

	qOp := &Operator[S]{Coeffs: qCoeffs, zero: l.zero}
	qOp.trim()
	return qOp, cur, nil
}

// Mod returns L mod R, i.e. the remainder of LongDiv.
func (l *Operator[S]) Mod(r *Operator[S]) (*Operator[S], error) {
	_, rem, err := l.LongDiv(r)
	return rem, err
}

// AffineMap represents the substitution z -> z + Delta, the only
// affine change of variable the Normalizer needs (per
// original_source/differential_operator.py's composition-based shift,
// built as the degree-1 polynomial substitution z + delta rather than
// a bare coefficient relabeling).
type AffineMap[S numfield.Field[S]] struct {
	Delta S
}

// Compose returns L(z+phi.Delta), substituting into every coefficient.
// D itself is unaffected by a pure shift.
func (l *Operator[S]) Compose(phi AffineMap[S]) *Operator[S] {
	out := make([]numfield.RatFunc[S], len(l.Coeffs))
	for i, c := range l.Coeffs {
		num := c.Num.ComposeShift(phi.Delta)
		den := c.Den.ComposeShift(phi.Delta)
		out[i] = numfield.NewRatFunc(num, den)
	}
	op := &Operator[S]{Coeffs: out, zero: l.zero}
	op.trim()
	return op
}

// Adjoint returns the formal adjoint L* = sum_i (-D)^i o a_i, used by
// the invariant-subspace analyzer's simple-eigenvalue dual attempt.
func (l *Operator[S]) Adjoint() *Operator[S] {
	result := &Operator[S]{Coeffs: []numfield.RatFunc[S]{numfield.ZeroRatFunc(l.zero)}, zero: l.zero}
	one := numfield.IntScalar(l.zero, 1)
	for i, ai := range l.Coeffs {
		if ai.IsZero() {
			continue
		}
		sign := one
		if i%2 == 1 {
			sign = numfield.IntScalar(l.zero, -1)
		}
		signedD := monomial(numfield.RatFunc[S]{
			Num: numfield.NewPoly([]S{sign}, l.zero),
			Den: numfield.NewPoly([]S{one}, l.zero),
		}, i, l.zero)
		aiOp := monomial(ai, 0, l.zero)
		result = result.Add(signedD.Mul(aiOp))
	}
	return result
}

// Equal reports structural equality of coefficient sequences.
func (l *Operator[S]) Equal(m *Operator[S]) bool {
	if l.Order() != m.Order() {
		return false
	}
	for i := range l.Coeffs {
		if !l.Coeffs[i].Equal(m.coeffAt(i)) {
			return false
		}
	}
	return true
}

// String renders L as a sum of RatFunc(z)*D^i terms, highest order
// first (teacher parity: field.Polynomial.String()).
func (l *Operator[S]) String() string {
	if l.IsZero() {
		return "0"
	}
	var b strings.Builder
	first := true
	for i := l.Order(); i >= 0; i-- {
		c := l.coeffAt(i)
		if c.IsZero() {
			continue
		}
		if !first {
			b.WriteString(" + ")
		}
		first = false
		b.WriteString("(")
		b.WriteString(c.Num.String())
		if c.Den.Degree() > 0 || !c.Den.Coeffs[0].Equal(numfield.IntScalar(l.zero, 1)) {
			b.WriteString(")/(")
			b.WriteString(c.Den.String())
		}
		b.WriteString(")")
		if i > 0 {
			b.WriteString("*D^")
			b.WriteString(strconv.Itoa(i))
		}
	}
	return b.String()
}

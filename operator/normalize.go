package operator

import "github.com/lindqvist/opfactor/numfield"

// maxBasePointShiftTries bounds the search for a nonsingular base
// point; a polynomial of degree d has at most d integer roots, so this
// many consecutive nonnegative integers always contains one where the
// leading coefficient doesn't vanish.
const maxBasePointShiftTries = 4096

// Normalize implements the Operator Normalizer (C1): clears
// denominators, removes the content (gcd of the coefficient
// polynomials), and shifts the base point z -> z+s for the smallest
// nonnegative integer s making z=0 ordinary, i.e. making the leading
// coefficient nonzero at 0. Returns the normalized operator and the
// shift s actually applied (0 if none was needed), so a caller can
// undo it on an eventual factor via Compose with -s.
func Normalize[S numfield.Field[S]](l0 *Operator[S]) (normalized *Operator[S], shift S, err error) {
	if l0 == nil || l0.IsZero() {
		var zero S
		return nil, zero, ErrInvalidOperator
	}
	zero := l0.zero

	cleared, _ := numfield.ClearDenominators(ratFuncsOf(l0), zero)
	cleared = removeContent(cleared, zero)

	coeffs := make([]numfield.RatFunc[S], len(cleared))
	for i, p := range cleared {
		coeffs[i] = numfield.FromPoly(p, zero)
	}
	op, err := New(coeffs, zero)
	if err != nil {
		return nil, zero, err
	}

	s, err := findOrdinaryShift(op)
	if err != nil {
		return nil, zero, err
	}

	if !s.IsZero() {
		op = op.Compose(AffineMap[S]{Delta: s})
	}

	return op, s, nil
}

func ratFuncsOf[S numfield.Field[S]](l *Operator[S]) []numfield.RatFunc[S] {
	return append([]numfield.RatFunc[S]{}, l.Coeffs...)
}

// removeContent divides every polynomial by their common gcd (the
// teacher's PartialExtendedEuclidean machinery, folded over the
// coefficient list).
func removeContent[S numfield.Field[S]](polys []*numfield.Poly[S], zero S) []*numfield.Poly[S] {
	nonzero := make([]*numfield.Poly[S], 0, len(polys))
	for _, p := range polys {
		if !p.IsZero() {
			nonzero = append(nonzero, p)
		}
	}
	if len(nonzero) == 0 {
		return polys
	}

	content := nonzero[0]
	for _, p := range nonzero[1:] {
		g, _, _ := numfield.ExtendedGCD(content, p)
		content = g
	}
	if content.Degree() <= 0 {
		return polys
	}

	out := make([]*numfield.Poly[S], len(polys))
	for i, p := range polys {
		if p.IsZero() {
			out[i] = p
			continue
		}
		q, _ := p.LongDiv(content)
		out[i] = q
	}
	return out
}

// findOrdinaryShift returns the smallest nonnegative integer s with
// l's leading coefficient nonzero at z=s.
func findOrdinaryShift[S numfield.Field[S]](l *Operator[S]) (S, error) {
	zero := l.zero
	lead := l.LeadingCoeff().Num
	for s := int64(0); s < maxBasePointShiftTries; s++ {
		sv := numfield.IntScalar(zero, s)
		if !lead.Eval(sv).IsZero() {
			return sv, nil
		}
	}
	return zero, ErrBasePointSingular
}

// Package annihilator implements the Annihilator Reconstructor (C6):
// given an operator and a candidate vector in its solution space,
// decide whether the vector generates a proper invariant subspace and,
// if so, reconstruct the corresponding right factor. Grounded
// structurally on the teacher's gao.Decode shape (try the cheap
// symbolic path, fall through to the heavier linear-algebra path,
// error out when neither applies).
package annihilator

import (
	"errors"
	"math/big"

	"github.com/lindqvist/opfactor/ball"
	"github.com/lindqvist/opfactor/guess"
	"github.com/lindqvist/opfactor/linalg"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
)

// ErrGeneratesFullSpace is returned when the candidate vector's orbit
// under the given monodromy generators spans the whole solution space:
// the vector carries no information about a proper factor.
var ErrGeneratesFullSpace = errors.New("annihilator: candidate vector generates the full solution space")

// ErrInconclusive is returned when the strategy cannot decide at the
// current (order, bound, algDegree) parameters -- the caller (C5/C7) is
// expected to retry at larger parameters or a different strategy.
var ErrInconclusive = errors.New("annihilator: inconclusive at current parameters")

// Params are the tunable search parameters §4.6 threads through:
// truncation order, coefficient degree bound, and the algebraic degree
// ceiling the symbolic-recognition loop climbs to.
type Params struct {
	Order     int
	Bound     int
	AlgDegree int
}

// Reconstruct implements §4.6 steps 1-5. matrices may be nil/empty, in
// which case step 1's orbit closure is skipped and ic is used directly
// with d = 1. layer is the
// Guessing Layer collaborator (§6); zero is the additive identity of S,
// needed throughout as a generic field witness.
func Reconstruct[S numfield.Field[S]](
	l *operator.Operator[S],
	ic linalg.Vector,
	p Params,
	matrices []linalg.Matrix,
	layer guess.Layer[S],
	zero S,
) (*operator.Operator[S], error) {
	r := l.Order()
	prec := workingPrec(ic)

	d := 1
	icPrime := ic
	if len(matrices) > 0 {
		basis := orbitBasis(matrices, ic, r, prec)
		d = len(basis)
		if d >= r {
			return nil, ErrGeneratesFullSpace
		}
		icPrime = basis[0]
	}

	recognized, ok := recognizeVector(icPrime, p.AlgDegree, zero)
	if !ok {
		return nil, ErrInconclusive
	}

	truncation := p.Order + d
	f, v, err := composeSeries(l, recognized, truncation)
	if err != nil {
		return nil, ErrInconclusive
	}
	if v > 0 {
		// A genuinely vanishing leading block would need the formal
		// operator conjugation T -> T-v this reference implementation
		// does not perform.
		return nil, ErrInconclusive
	}

	r0, err := layer.Guess(f, d, p.Bound, zero)
	if err != nil {
		return nil, ErrInconclusive
	}
	if r0.Order() <= 0 || r0.Order() >= r {
		return nil, ErrInconclusive
	}
	if rem, err := l.Mod(r0); err != nil || !rem.IsZero() {
		return nil, ErrInconclusive
	}
	return r0, nil
}

func workingPrec(v linalg.Vector) uint {
	for _, e := range v {
		if e.Prec != 0 {
			return e.Prec
		}
	}
	return 53
}

// orbitBasis computes a basis of the span of ic's orbit under the
// group generated by matrices, by repeatedly applying every generator
// to the current spanning set and re-reducing to row-echelon form
// until the dimension stops growing.
func orbitBasis(matrices []linalg.Matrix, ic linalg.Vector, n int, prec uint) []linalg.Vector {
	basis := []linalg.Vector{ic}
	for {
		next := append([]linalg.Vector{}, basis...)
		for _, m := range matrices {
			for _, v := range basis {
				next = append(next, m.ApplyVec(v))
			}
		}
		reduced := rowSpaceBasis(next, n, prec)
		if len(reduced) == len(basis) {
			return reduced
		}
		basis = reduced
	}
}

func rowSpaceBasis(vectors []linalg.Vector, n int, prec uint) []linalg.Vector {
	m := linalg.NewMatrix(len(vectors), n, prec)
	for i, v := range vectors {
		copy(m[i], v)
	}
	reduced, pivotCols := linalg.GaussianEliminate(m)
	out := make([]linalg.Vector, len(pivotCols))
	for i := range pivotCols {
		out[i] = append(linalg.Vector{}, reduced[i]...)
	}
	return out
}

// recognizeVector applies §4.6 step 2 entrywise: rational recognition
// first, algebraic recognition (via guess.AlgDep) on failure. Only the
// rational outcome is lifted into S here -- recognizing a
// genuinely new algebraic extension mid-algorithm would require
// switching the generic type parameter S itself, which this
// generic-over-S function cannot do; that case is reported as
// inconclusive (see DESIGN.md) rather than attempted.
func recognizeVector[S numfield.Field[S]](v linalg.Vector, algDegree int, zero S) ([]S, bool) {
	out := make([]S, len(v))
	for i, x := range v {
		s, ok := recognizeEntry(x, algDegree, zero)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func recognizeEntry[S numfield.Field[S]](x ball.Elem, algDegree int, zero S) (S, bool) {
	if r, ok := recognizeRational(x); ok {
		return fromRational(r, zero), true
	}
	if _, ok := recognizeAlgebraic(x, algDegree); ok {
		// A genuine degree>=2 relation was found and is stable, but
		// lifting it into a new field requires the caller to restart
		// Reconstruct at a larger S; report inconclusive rather than
		// guess at an embedding.
		var zeroVal S
		return zeroVal, false
	}
	var zeroVal S
	return zeroVal, false
}

// recognizeRational implements step 2's first bullet: x must have zero
// imaginary part within its ball, and the nearest rational at the
// ball's radius must agree with the nearest rational at 2/3 that
// radius (the stability check).
func recognizeRational(x ball.Elem) (*big.Rat, bool) {
	if new(big.Float).Abs(x.Im).Cmp(x.Rad) > 0 {
		return nil, false
	}
	tol2 := new(big.Float).SetPrec(x.Prec).Mul(x.Rad, big.NewFloat(2.0/3.0))
	r1 := numfield.NearbyRational(x.Re, x.Rad)
	r2 := numfield.NearbyRational(x.Re, tol2)
	if r1.Cmp(r2) != 0 {
		return nil, false
	}
	return r1, true
}

// recognizeAlgebraic implements step 2's second bullet: for each degree
// 2..algDegree, run guess.AlgDep at two known-bits levels and accept
// only a relation stable across both.
func recognizeAlgebraic(x ball.Elem, algDegree int) ([]*big.Int, bool) {
	if x.Prec < 30 {
		return nil, false
	}
	for deg := 2; deg <= algDegree; deg++ {
		c1, ok1 := guess.AlgDep(x.Re, x.Im, deg, x.Prec-10)
		c2, ok2 := guess.AlgDep(x.Re, x.Im, deg, x.Prec-20)
		if !ok1 || !ok2 {
			continue
		}
		if sameRelation(c1, c2) {
			return c1, true
		}
	}
	return nil, false
}

func sameRelation(a, b []*big.Int) bool {
	if len(a) != len(b) {
		return false
	}
	neg := false
	for i := range a {
		if a[i].Sign() != 0 || b[i].Sign() != 0 {
			neg = a[i].Sign() != b[i].Sign()
			break
		}
	}
	for i := range a {
		bi := b[i]
		if neg {
			bi = new(big.Int).Neg(b[i])
		}
		if a[i].Cmp(bi) != 0 {
			return false
		}
	}
	return true
}

func fromRational[S numfield.Field[S]](r *big.Rat, zero S) S {
	switch z := any(zero).(type) {
	case numfield.Rational:
		return any(numfield.Q(r)).(S)
	case numfield.AlgebraicNumber:
		return any(numfield.FromRational(z.Field, numfield.Q(r))).(S)
	default:
		panic("annihilator: unsupported scalar type")
	}
}

// composeSeries implements step 3: f = sum_i ic[i] * y_i(z), y_i the
// local solution basis of l at its (already-normalized) base point,
// truncated to `truncation` coefficients. It also reports v, the
// index of the first nonzero coefficient (the valuation).
func composeSeries[S numfield.Field[S]](l *operator.Operator[S], ic []S, truncation int) ([]S, int, error) {
	basisVecs, err := operator.ComputeLocalBasis(l, truncation)
	if err != nil {
		return nil, 0, err
	}
	witness := ic[0]
	f := make([]S, truncation)
	for n := range f {
		f[n] = numfield.IntScalar(witness, 0)
	}
	for i, coeff := range ic {
		if coeff.IsZero() || i >= len(basisVecs) {
			continue
		}
		y := basisVecs[i]
		for n := 0; n < truncation && n < len(y.Coeffs); n++ {
			f[n] = f[n].Add(coeff.Mul(y.Coeffs[n]))
		}
	}
	v := 0
	for v < len(f) && f[v].IsZero() {
		v++
	}
	if v == len(f) {
		return f, 0, errors.New("annihilator: composed series is identically zero at this truncation")
	}
	return f, v, nil
}

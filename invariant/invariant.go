// Package invariant implements the Invariant-Subspace Analyzer (C5):
// given the (non-scalar) monodromy generators of an operator, find a
// proper common invariant subspace -- or decide none exists -- and
// hand any basis vector it finds off to the Annihilator Reconstructor
// (C6) to turn into an actual right factor. Structural shape (try the
// cheapest strategy first, fall through to the next on
// inapplicability, mirroring gao.Decode's try-this-then-that-then-
// fail) grounded on the teacher's decode path, same as `shortcut` and
// `annihilator`.
package invariant

import (
	"errors"
	"math/rand"

	"github.com/lindqvist/opfactor/annihilator"
	"github.com/lindqvist/opfactor/ball"
	"github.com/lindqvist/opfactor/guess"
	"github.com/lindqvist/opfactor/linalg"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
)

// ErrIrreducible is the §4.5 "None" outcome: the Galois group has no
// proper invariant subspace at the tried parameters, so L is
// irreducible as far as this analysis can tell.
var ErrIrreducible = errors.New("invariant: no proper invariant subspace found (operator appears irreducible)")

// ErrNotGoodConditions is returned when the given generator list cannot
// support any strategy in the ladder (e.g. too few generators, or a
// degenerate/singular random combination).
var ErrNotGoodConditions = errors.New("invariant: strategy ladder not applicable to the given generators")

// ErrInconclusive is returned when every strategy that did apply ran
// out of precision or algebraic degree before deciding.
var ErrInconclusive = errors.New("invariant: inconclusive at current parameters")

// Analyze runs the §4.5 strategy ladder against l's monodromy
// generators and returns a proper right factor of l, or one of
// ErrIrreducible / ErrNotGoodConditions / ErrInconclusive.
func Analyze[S numfield.Field[S]](
	l *operator.Operator[S],
	matrices []linalg.Matrix,
	p annihilator.Params,
	layer guess.Layer[S],
	zero S,
	rnd *rand.Rand,
) (*operator.Operator[S], error) {
	if len(matrices) == 0 {
		return nil, ErrNotGoodConditions
	}
	prec := workingPrec(matrices[0])

	m := randomCombination(matrices, rnd, prec)
	spaces := linalg.GeneralizedEigenspaces(m)
	if len(spaces) == 0 {
		return nil, ErrNotGoodConditions
	}

	if r, err := oneDimensional(l, spaces, matrices, p, layer, zero); err != errSkip {
		return r, err
	}

	if r, err := simpleEigenvalue(l, spaces, matrices, p, layer, zero, rnd, prec); err != errSkip {
		return r, err
	}

	return multipleEigenvalue(l, matrices, p, layer, zero, prec)
}

// errSkip is an internal sentinel meaning "this strategy's precondition
// did not hold; try the next one" -- distinct from ErrInconclusive,
// which means the strategy applied but ran out of resources.
var errSkip = errors.New("invariant: strategy precondition not met")

func workingPrec(m linalg.Matrix) uint {
	for _, row := range m {
		for _, e := range row {
			if e.Prec != 0 {
				return e.Prec
			}
		}
	}
	return 53
}

// randomCombination forms M = sum r_i*M_i, r_i small Gaussian-rational
// coefficients, per §4.5.1.
func randomCombination(matrices []linalg.Matrix, rnd *rand.Rand, prec uint) linalg.Matrix {
	n := matrices[0].Rows()
	acc := linalg.NewMatrix(n, n, prec)
	for _, mat := range matrices {
		re := float64(rnd.Intn(21) - 10)
		im := float64(rnd.Intn(21) - 10)
		c := ball.Exact(re, im, prec)
		acc = acc.Add(mat.ScaleBall(c))
	}
	return acc
}

// oneDimensional implements §4.5.1: applicable only when every
// eigenspace of the random combination is one-dimensional.
func oneDimensional[S numfield.Field[S]](
	l *operator.Operator[S],
	spaces []linalg.Eigenspace,
	matrices []linalg.Matrix,
	p annihilator.Params,
	layer guess.Layer[S],
	zero S,
) (*operator.Operator[S], error) {
	for _, es := range spaces {
		if len(es.Basis) != 1 {
			return nil, errSkip
		}
	}

	sawInconclusive := false
	for _, es := range spaces {
		r0, err := annihilator.Reconstruct(l, es.Basis[0], p, matrices, layer, zero)
		switch {
		case err == nil:
			return r0, nil
		case errors.Is(err, annihilator.ErrGeneratesFullSpace):
			continue
		default:
			sawInconclusive = true
		}
	}
	if sawInconclusive {
		return nil, ErrInconclusive
	}
	return nil, ErrIrreducible
}

// simpleEigenvalue implements §4.5.2: tried when some eigenvalue has
// algebraic multiplicity 1, first directly and then, on failure, via
// the dual (adjoint) problem.
func simpleEigenvalue[S numfield.Field[S]](
	l *operator.Operator[S],
	spaces []linalg.Eigenspace,
	matrices []linalg.Matrix,
	p annihilator.Params,
	layer guess.Layer[S],
	zero S,
	rnd *rand.Rand,
	prec uint,
) (*operator.Operator[S], error) {
	found := false
	for _, es := range spaces {
		if es.Eigenvalue.Multiplicity != 1 {
			continue
		}
		found = true

		r0, err := annihilator.Reconstruct(l, es.Basis[0], p, matrices, layer, zero)
		if err == nil {
			return r0, nil
		}

		if r, err := dualAttempt(l, matrices, p, layer, zero, rnd, prec); err == nil {
			return r, nil
		}
	}
	if !found {
		return nil, errSkip
	}
	return nil, ErrInconclusive
}

// dualAttempt implements §4.5.2's adjoint-transport fallback: compute
// L*, transport the generators via transportMatrix, and retry a
// simple-eigenvalue search on the transported matrices.
func dualAttempt[S numfield.Field[S]](
	l *operator.Operator[S],
	matrices []linalg.Matrix,
	p annihilator.Params,
	layer guess.Layer[S],
	zero S,
	rnd *rand.Rand,
	prec uint,
) (*operator.Operator[S], error) {
	adj := l.Adjoint()

	q, err := transportMatrix(adj, prec)
	if err != nil {
		return nil, errSkip
	}
	qInv, ok := linalg.Inverse(q)
	if !ok {
		return nil, errSkip
	}

	transported := make([]linalg.Matrix, len(matrices))
	for i, mi := range matrices {
		transported[i] = q.Mul(mi.Transpose()).Mul(qInv)
	}

	mPrime := randomCombination(transported, rnd, prec)
	spaces := linalg.Eigenspaces(mPrime)
	for _, es := range spaces {
		if es.Eigenvalue.Multiplicity != 1 {
			continue
		}
		rStar, err := annihilator.Reconstruct(adj, es.Basis[0], p, transported, layer, zero)
		if err != nil {
			continue
		}
		qStar, rem, lerr := adj.LongDiv(rStar)
		if lerr != nil || !rem.IsZero() {
			continue
		}
		r := qStar.Adjoint()
		if rem2, lerr2 := l.Mod(r); lerr2 == nil && rem2.IsZero() {
			return r, nil
		}
	}
	return nil, errSkip
}

// transportMatrix builds the transport matrix Q with Q[i][j] the i-th
// Taylor coefficient of L*'s j-th local solution at z=0. Since
// operator.ComputeLocalBasis normalizes y_j = z^j + O(z^r), Q is the
// identity and the generators are transported as plain transposes;
// the P_k recurrence (Q = Delta.P(0).Delta) is not computed.
func transportMatrix[S numfield.Field[S]](adj *operator.Operator[S], prec uint) (linalg.Matrix, error) {
	r := adj.Order()
	basis, err := operator.ComputeLocalBasis(adj, r)
	if err != nil {
		return nil, err
	}
	q := linalg.NewMatrix(r, r, prec)
	for j, lb := range basis {
		for i := 0; i < r && i < len(lb.Coeffs); i++ {
			q[i][j] = lb.Coeffs[i].Ball(prec)
		}
	}
	return q, nil
}

// multipleEigenvalue implements §4.5.3: the general fallback via
// linalg.InvariantSubspace's iterative common refinement.
func multipleEigenvalue[S numfield.Field[S]](
	l *operator.Operator[S],
	matrices []linalg.Matrix,
	p annihilator.Params,
	layer guess.Layer[S],
	zero S,
	prec uint,
) (*operator.Operator[S], error) {
	basis, ok := linalg.InvariantSubspace(matrices)
	if !ok || len(basis) == 0 || len(basis) >= l.Order() {
		return nil, ErrIrreducible
	}

	r0, err := annihilator.Reconstruct(l, basis[0], p, matrices, layer, zero)
	if err != nil {
		if errors.Is(err, annihilator.ErrGeneratesFullSpace) {
			return nil, ErrIrreducible
		}
		return nil, ErrInconclusive
	}
	return r0, nil
}

// Package opfactor implements the Recursive Driver (C7): given a linear
// differential operator over Q (or a simple algebraic extension), find
// a proper right factor or decide the operator is irreducible, and
// recursively split it into irreducible factors. Wires every other
// package in this module exactly as spec.md §4.7 describes; the
// try-this-then-that-then-fail shape and the caller-facing Limits
// struct follow the teacher's gao.NewCodeParameters/NewCodeGao
// validated-constructor pattern.
package opfactor

import (
	"context"
	"errors"
	"math/rand"

	"github.com/lindqvist/opfactor/annihilator"
	"github.com/lindqvist/opfactor/engine"
	"github.com/lindqvist/opfactor/guess"
	"github.com/lindqvist/opfactor/invariant"
	"github.com/lindqvist/opfactor/linalg"
	"github.com/lindqvist/opfactor/monodromy"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/lindqvist/opfactor/shortcut"
	"github.com/lindqvist/opfactor/spectral"
)

// ErrPrecisionExhausted is the one error §7 allows to escape the
// pipeline besides operator.ErrInvalidOperator: a resource ceiling in
// Limits was hit, or the monodromy orchestrator failed, before the
// ladder reached a definitive answer.
var ErrPrecisionExhausted = errors.New("opfactor: precision/order/algebraic-degree caps exhausted before a definitive answer")

// Limits holds the caller-configurable absolute caps §5 requires to
// bound worst-case runtime. A zero Limits has no caps at all (besides
// the fixed, small maxBasePointShiftTries search inside
// operator.Normalize); DefaultLimits returns a sane, bounded starting
// point for production callers.
type Limits struct {
	// MaxPrecision caps the working precision (bits) the monodromy
	// orchestrator may request. 0 means no cap.
	MaxPrecision int
	// MaxIncrement caps the per-retry precision increment. 0 means no cap.
	MaxIncrement int
	// MaxOrder caps the annihilator truncation order C6/C7 may grow to.
	// 0 means no cap.
	MaxOrder int
	// MaxAlgDegree caps the algebraic-recognition degree C6 may try.
	// 0 means no cap.
	MaxAlgDegree int
}

// DefaultLimits returns the caps used when a caller doesn't supply its
// own: generous enough for the worked examples in §8, small enough to
// fail fast on a pathological input instead of spinning forever.
func DefaultLimits() Limits {
	return Limits{
		MaxPrecision: 20000,
		MaxIncrement: 4000,
		MaxOrder:     4096,
		MaxAlgDegree: 8,
	}
}

// driverState is the monodromy pipeline's loop variant (spec.md §9,
// "recursive descent with retry state"): (precision, order, algDegree,
// loss), mutated only through the two documented retry transitions.
type driverState struct {
	precision int
	order     int
	bound     int
	algDegree int
	loss      int
}

// RightFactor implements spec.md §4.7's right_factor: try the cheap
// symbolic shortcuts first, then fall back to the monodromy pipeline
// after normalizing the base point, undoing the shift on any factor it
// returns. A nil, nil result means l is irreducible as far as this
// analysis can tell (within the given limits).
func RightFactor[S numfield.Field[S]](l *operator.Operator[S], eng engine.Engine[S], limits Limits, zero S, rnd *rand.Rand) (*operator.Operator[S], error) {
	if l == nil || l.IsZero() {
		return nil, operator.ErrInvalidOperator
	}
	if l.Order() < 2 {
		return nil, nil
	}

	if r, err := shortcut.TryRational(l, zero); err == nil {
		return r, nil
	}
	if r, err := shortcut.TryVanHoeij(l, zero); err == nil {
		return r, nil
	}

	lPrime, shift, err := operator.Normalize(l)
	if err != nil {
		return nil, err
	}

	r, err := MonodromyPipeline(lPrime, eng, limits, zero, rnd)
	if err != nil || r == nil {
		return r, err
	}
	if shift.IsZero() {
		return r, nil
	}
	return r.Compose(operator.AffineMap[S]{Delta: shift.Neg()}), nil
}

// MonodromyPipeline implements spec.md §4.7's monodromy_pipeline: grow
// working precision, truncation order and algebraic recognition degree
// across retries until the invariant-subspace ladder (C5) returns a
// definitive answer or a configured cap is hit. A nil, nil result means
// the Galois group generated by the observed monodromy has no proper
// invariant subspace at any parameters tried, i.e. l is irreducible. l
// must already have an ordinary base point at z=0 (operator.Normalize).
func MonodromyPipeline[S numfield.Field[S]](l *operator.Operator[S], eng engine.Engine[S], limits Limits, zero S, rnd *rand.Rand) (*operator.Operator[S], error) {
	r := l.Order()
	degK := numfield.FieldDegree(zero)
	bound := spectral.DegreeBoundForRightFactor(l)

	state := driverState{
		order:     clampOrder(r*degK, 100, bound+1, 1),
		bound:     bound,
		algDegree: degK,
		precision: 50 * (r + 1),
	}

	orch := &monodromy.Orchestrator[S]{
		Engine:       eng,
		MaxPrecision: limits.MaxPrecision,
		MaxIncrement: limits.MaxIncrement,
	}
	sing := spectral.Places(l)
	layer := guess.LinearAlgebra[S]{}

	for {
		if limits.MaxOrder > 0 && state.order > limits.MaxOrder {
			return nil, ErrPrecisionExhausted
		}
		if limits.MaxAlgDegree > 0 && state.algDegree > limits.MaxAlgDegree {
			return nil, ErrPrecisionExhausted
		}

		data, outcome, err := orch.Request(context.Background(), l, zero, state.precision, sing)
		if err != nil {
			// C4's own adaptive-precision retry loop already implements
			// the "on PrecisionError: bump precision, retry" sub-loop
			// internally (monodromy.Orchestrator.Request); an error here is
			// either its MaxPrecision cap or an engine error it does not
			// retry (such as an irregular or resonant place), and either
			// one is reported as ErrPrecisionExhausted.
			return nil, ErrPrecisionExhausted
		}
		if outcome == monodromy.Trivial {
			return TrivialMonodromyFallback(l, state.order, limits, zero)
		}
		state.loss = data.Loss

		matrices := make([]linalg.Matrix, len(data.Matrices))
		for i, m := range data.Matrices {
			matrices[i] = linalg.Matrix(m)
		}

		p := annihilator.Params{Order: state.order, Bound: state.bound, AlgDegree: state.algDegree}
		r0, aerr := invariant.Analyze(l, matrices, p, layer, zero, rnd)
		switch {
		case aerr == nil:
			return r0, nil
		case errors.Is(aerr, invariant.ErrIrreducible):
			return nil, nil
		case errors.Is(aerr, invariant.ErrInconclusive), errors.Is(aerr, invariant.ErrNotGoodConditions):
			// exhaustion: grow every loop variant and retry, per §4.7.
		default:
			return nil, aerr
		}

		state.precision += max(150, state.precision-state.loss)
		state.order = min(bound+1, state.order*2)
		state.algDegree++
	}
}

// TrivialMonodromyFallback implements spec.md §4.7's
// trivial_monodromy_fallback, used when the monodromy generators found
// are all scalar (the Galois group carries no usable invariant-subspace
// information): guess a minimal-order annihilator directly from the
// first local solution's power series, doubling the truncation order
// until a verified factor is found or Limits.MaxOrder is hit.
func TrivialMonodromyFallback[S numfield.Field[S]](l *operator.Operator[S], order int, limits Limits, zero S) (*operator.Operator[S], error) {
	r := l.Order()
	layer := guess.LinearAlgebra[S]{}
	bound := spectral.DegreeBoundForRightFactor(l)

	for {
		if limits.MaxOrder > 0 && order > limits.MaxOrder {
			return nil, ErrPrecisionExhausted
		}

		truncation := order + r
		basis, err := operator.ComputeLocalBasis(l, truncation)
		if err != nil {
			return nil, err
		}
		series := basis[0].Coeffs

		r0, err := layer.Guess(series, r-1, bound, zero)
		if err == nil && r0.Order() > 0 && r0.Order() < r {
			if rem, merr := l.Mod(r0); merr == nil && rem.IsZero() {
				return r0, nil
			}
		}

		order *= 2
	}
}

// Factor implements spec.md §4.7's factor: recursively split l into
// irreducible right factors via repeated LongDiv, returning l itself
// when RightFactor finds nothing.
func Factor[S numfield.Field[S]](l *operator.Operator[S], eng engine.Engine[S], limits Limits, zero S, rnd *rand.Rand) ([]*operator.Operator[S], error) {
	rFactor, err := RightFactor(l, eng, limits, zero, rnd)
	if err != nil {
		return nil, err
	}
	if rFactor == nil {
		return []*operator.Operator[S]{l}, nil
	}

	q, rem, err := l.LongDiv(rFactor)
	if err != nil {
		return nil, err
	}
	if !rem.IsZero() {
		return nil, errors.New("opfactor: candidate right factor failed verification")
	}

	qFactors, err := Factor(q, eng, limits, zero, rnd)
	if err != nil {
		return nil, err
	}
	rFactors, err := Factor(rFactor, eng, limits, zero, rnd)
	if err != nil {
		return nil, err
	}
	return append(qFactors, rFactors...), nil
}

// clampOrder returns max(min(a, b, c), floor).
func clampOrder(a, b, c, floor int) int {
	v := min(a, b, c)
	return max(v, floor)
}

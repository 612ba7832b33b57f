// Package monodromy implements the Monodromy Orchestrator (C4): request
// a generating set of non-scalar monodromy matrices of an operator from
// the external engine.Engine collaborator (§6), retrying at growing
// working precision per spec.md §4.4's adaptive-precision algorithm.
// Structurally grounded on field.PartialExtendedEuclidean's
// recursive-with-stop-condition shape, reshaped into the iterative loop
// spec.md §9 ("Recursive descent with retry state") recommends.
package monodromy

import (
	"context"
	"errors"
	"math/big"

	"github.com/lindqvist/opfactor/ball"
	"github.com/lindqvist/opfactor/engine"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/lindqvist/opfactor/spectral"
)

// ErrPrecisionExhausted is returned when the requested customized
// accuracy cannot be reached within maxPrecision bits.
var ErrPrecisionExhausted = errors.New("monodromy: precision exhausted before reaching requested accuracy")

// Outcome classifies the three results §4.4 distinguishes to upstream.
type Outcome int

const (
	// Obtained means Data.Matrices holds the requested generators
	// (never empty: an empty list is reported as Trivial).
	Obtained Outcome = iota
	// Exhausted means working precision hit its cap before reaching the
	// requested accuracy.
	Exhausted
	// Trivial means the engine returned no non-scalar generators: the
	// differential Galois group is (numerically) generated by scalars,
	// and C7's trivial-monodromy fallback should run instead.
	Trivial
)

// Data is the mutable monodromy record of spec.md §3: precision
// actually achieved, the generators found, their places, and the
// observed precision loss across retries.
type Data struct {
	PrecisionAchieved int
	Matrices          [][][]ball.Elem
	Points            []spectral.Place
	Loss              int
}

// Orchestrator runs the adaptive-precision retry loop against any
// engine.Engine implementation.
type Orchestrator[S numfield.Field[S]] struct {
	Engine       engine.Engine[S]
	MaxPrecision int // hard cap on working precision bits (0 = no cap)
	MaxIncrement int // hard cap on the per-retry increment (0 = no cap)
}

// customizedAccuracy returns the minimum customized accuracy over every
// scalar entry of every matrix, at the working precision p (the
// fallback when a matrix list is empty: the request trivially holds).
func customizedAccuracy(matrices [][][]ball.Elem, p int) int {
	if len(matrices) == 0 {
		return p
	}
	min := p
	for _, m := range matrices {
		for _, row := range m {
			for _, e := range row {
				acc := e.CustomizedAccuracy()
				if acc < min {
					min = acc
				}
			}
		}
	}
	return min
}

func epsFor(pBits int) *big.Float {
	return ball.Eps(uint(pBits))
}

// Request runs spec.md §4.4's algorithm: repeatedly ask the engine for
// monodromy generators of l, based at basePoint, restricted to sing, at
// growing working precision, until the returned customized accuracy
// meets pRequested or the precision/increment caps are hit.
func (o *Orchestrator[S]) Request(ctx context.Context, l *operator.Operator[S], basePoint S, pRequested int, sing []spectral.Place) (Data, Outcome, error) {
	state := Data{}
	increment := 50

	for state.PrecisionAchieved < pRequested {
		pTry := pRequested + state.Loss + increment
		if o.MaxPrecision > 0 && pTry > o.MaxPrecision {
			return state, Exhausted, ErrPrecisionExhausted
		}

		iter, err := o.Engine.MonodromyGenerators(ctx, l, basePoint, epsFor(pTry), sing)
		if err != nil {
			if errors.Is(err, engine.ErrPrecision) || errors.Is(err, engine.ErrDivByZero) {
				increment = growIncrement(increment, o.MaxIncrement)
				continue
			}
			return state, Exhausted, err
		}

		var matrices [][][]ball.Elem
		var points []spectral.Place
		for {
			g, ok := iter.Next()
			if !ok {
				break
			}
			if isScalar(g.Matrix) {
				continue
			}
			matrices = append(matrices, g.Matrix)
			points = append(points, g.Place)
		}

		pOut := customizedAccuracy(matrices, pTry)
		if pOut < pRequested {
			// spec.md §4.4: increment <- (increment == 50 ? 50 : increment*2).
			// A shortfall leaves an increment of 50 unchanged and doubles any
			// other value (one already grown by a precision error). Progress
			// otherwise comes from loss, which only grows.
			if increment != 50 {
				increment = growIncrement(increment, o.MaxIncrement)
			}
			loss := pTry - pOut
			if loss > state.Loss {
				state.Loss = loss
			}
			continue
		}

		state.PrecisionAchieved = pOut
		state.Matrices = matrices
		state.Points = points
		break
	}

	if len(state.Matrices) == 0 {
		return state, Trivial, nil
	}
	return state, Obtained, nil
}

func growIncrement(cur, cap int) int {
	next := cur * 2
	if cap > 0 && next > cap {
		return cap
	}
	return next
}

// isScalar reports whether m is a scalar multiple of the identity
// (within each entry's ball), i.e. not a useful monodromy generator for
// the invariant-subspace analyzer.
func isScalar(m [][]ball.Elem) bool {
	n := len(m)
	if n == 0 {
		return true
	}
	var diag ball.Elem
	haveDiag := false
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				if !haveDiag {
					diag = m[i][j]
					haveDiag = true
					continue
				}
				if !m[i][j].Sub(diag).IsZero() {
					return false
				}
				continue
			}
			if !m[i][j].IsZero() {
				return false
			}
		}
	}
	return true
}

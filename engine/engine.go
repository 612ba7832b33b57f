// Package engine implements the required external analytic-continuation
// engine collaborator (§6) and its reference implementation: given a
// normalized operator, a base point, a requested precision and a list
// of singularities, compute the non-scalar monodromy generators of the
// operator's solution space around each singularity. monodromy.Orchestrator
// is the only caller; any type satisfying Engine plugs in instead of
// the reference SeriesContinuation.
package engine

import (
	"context"
	"errors"
	"math/big"

	"github.com/lindqvist/opfactor/ball"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/lindqvist/opfactor/spectral"
)

// ErrPrecision is returned when a sub-computation (root isolation,
// connection-matrix assembly) could not be verified to the requested
// accuracy; the orchestrator retries at a higher working precision.
var ErrPrecision = errors.New("engine: could not reach requested customized accuracy")

// ErrDivByZero is returned when an internal pivot or normalization step
// divides by a numerically-zero quantity; the orchestrator retries.
var ErrDivByZero = errors.New("engine: division by a numerically zero quantity")

// ErrIrregularSingularity is returned for a place the reference engine
// cannot form a connection matrix at: SeriesContinuation only handles
// regular (Fuchsian) singular points, per its documented scope.
var ErrIrregularSingularity = errors.New("engine: irregular singular point not supported by this engine")

// ErrResonantExponents is returned when two distinct local exponents at
// a place differ by a nonzero integer: the local solution basis then
// carries a logarithmic term this reference engine does not build,
// mirroring operator.LocalBasis's own non-logarithmic-only scope.
var ErrResonantExponents = errors.New("engine: resonant exponents require a logarithmic local basis")

// Generator is one non-scalar monodromy generator: the connection
// matrix obtained by analytically continuing L's local solution basis
// once around Place, expressed in the basis fixed at BasePoint.
type Generator struct {
	Place  spectral.Place
	Matrix [][]ball.Elem // square, dimension = operator order
}

// GeneratorIter lets a caller pull generators one at a time, mirroring
// spec.md §4.4's "iter" return from the external engine rather than
// forcing every generator to be materialized before the first is used.
type GeneratorIter interface {
	Next() (Generator, bool)
}

type sliceIter struct {
	items []Generator
	pos   int
}

func (s *sliceIter) Next() (Generator, bool) {
	if s.pos >= len(s.items) {
		return Generator{}, false
	}
	g := s.items[s.pos]
	s.pos++
	return g, true
}

// NewSliceIter wraps an already-computed generator list as a GeneratorIter.
func NewSliceIter(items []Generator) GeneratorIter {
	return &sliceIter{items: items}
}

// Engine is the required external analytic-continuation engine (§6):
// request the non-scalar monodromy generators of l, based at
// basePoint, at the given target accuracy eps = 2^-p, restricted to the
// given singularities.
type Engine[S numfield.Field[S]] interface {
	MonodromyGenerators(ctx context.Context, l *operator.Operator[S], basePoint S, eps *big.Float, sing []spectral.Place) (GeneratorIter, error)
}

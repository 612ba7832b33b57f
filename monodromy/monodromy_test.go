package monodromy

import (
	"context"
	"math/big"
	"testing"

	"github.com/lindqvist/opfactor/ball"
	"github.com/lindqvist/opfactor/engine"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/lindqvist/opfactor/spectral"
	"github.com/stretchr/testify/assert"
)

// ballWithAccuracy builds a nonzero ball whose CustomizedAccuracy is
// exactly acc bits: center 1, radius 2^-acc.
func ballWithAccuracy(acc int) ball.Elem {
	return ballWithAccuracyAt(1, acc)
}

func ballWithAccuracyAt(center float64, acc int) ball.Elem {
	prec := uint(acc + 16)
	e := ball.Exact(center, 0, prec)
	e.Rad = new(big.Float).SetPrec(prec).Set(ball.Eps(uint(acc)))
	return e
}

// nonScalarMatrix has two distinct diagonal eigenvalues (1 and -1), so
// it is not a scalar multiple of the identity.
func nonScalarMatrix(acc int) [][]ball.Elem {
	return [][]ball.Elem{
		{ballWithAccuracyAt(1, acc), ball.Zero(uint(acc + 16))},
		{ball.Zero(uint(acc + 16)), ballWithAccuracyAt(-1, acc)},
	}
}

func scalarMatrix(acc int) [][]ball.Elem {
	d := ballWithAccuracy(acc)
	return [][]ball.Elem{
		{d, ball.Zero(uint(acc + 16))},
		{ball.Zero(uint(acc + 16)), d},
	}
}

type stubEngine struct {
	calls      int
	failFirstN int
	matrices   [][][]ball.Elem
}

func (s *stubEngine) MonodromyGenerators(ctx context.Context, l *operator.Operator[numfield.Rational], basePoint numfield.Rational, eps *big.Float, sing []spectral.Place) (engine.GeneratorIter, error) {
	s.calls++
	if s.calls <= s.failFirstN {
		return nil, engine.ErrPrecision
	}
	gens := make([]engine.Generator, len(s.matrices))
	for i, m := range s.matrices {
		gens[i] = engine.Generator{Place: spectral.Place{Root: complex(float64(i), 0)}, Matrix: m}
	}
	return engine.NewSliceIter(gens), nil
}

func dummyOperator(t *testing.T) *operator.Operator[numfield.Rational] {
	one := numfield.FromPoly(numfield.NewPoly([]numfield.Rational{numfield.QInt(1)}, numfield.QZero), numfield.QZero)
	zero := numfield.FromPoly(numfield.NewPoly([]numfield.Rational{numfield.QInt(0)}, numfield.QZero), numfield.QZero)
	op, err := operator.New([]numfield.RatFunc[numfield.Rational]{zero, one}, numfield.QZero)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return op
}

func TestRequestObtainedImmediately(t *testing.T) {
	a := assert.New(t)
	eng := &stubEngine{matrices: [][][]ball.Elem{nonScalarMatrix(200)}}
	o := &Orchestrator[numfield.Rational]{Engine: eng}

	data, outcome, err := o.Request(context.Background(), dummyOperator(t), numfield.QZero, 100, []spectral.Place{{Root: 0, Mult: 2}})
	a.NoError(err)
	a.Equal(Obtained, outcome)
	a.Len(data.Matrices, 1)
	a.GreaterOrEqual(data.PrecisionAchieved, 100)
}

func TestRequestTrivialWhenAllScalar(t *testing.T) {
	a := assert.New(t)
	eng := &stubEngine{matrices: [][][]ball.Elem{scalarMatrix(200)}}
	o := &Orchestrator[numfield.Rational]{Engine: eng}

	data, outcome, err := o.Request(context.Background(), dummyOperator(t), numfield.QZero, 100, []spectral.Place{{Root: 0, Mult: 2}})
	a.NoError(err)
	a.Equal(Trivial, outcome)
	a.Empty(data.Matrices)
}

func TestRequestRetriesOnPrecisionError(t *testing.T) {
	a := assert.New(t)
	eng := &stubEngine{failFirstN: 2, matrices: [][][]ball.Elem{nonScalarMatrix(200)}}
	o := &Orchestrator[numfield.Rational]{Engine: eng}

	data, outcome, err := o.Request(context.Background(), dummyOperator(t), numfield.QZero, 100, []spectral.Place{{Root: 0, Mult: 2}})
	a.NoError(err)
	a.Equal(Obtained, outcome)
	a.Len(data.Matrices, 1)
	a.GreaterOrEqual(eng.calls, 3)
}

func TestRequestExhaustedWhenCapped(t *testing.T) {
	a := assert.New(t)
	eng := &stubEngine{matrices: [][][]ball.Elem{nonScalarMatrix(10)}}
	o := &Orchestrator[numfield.Rational]{Engine: eng, MaxPrecision: 200}

	_, outcome, err := o.Request(context.Background(), dummyOperator(t), numfield.QZero, 100, []spectral.Place{{Root: 0, Mult: 2}})
	a.ErrorIs(err, ErrPrecisionExhausted)
	a.Equal(Exhausted, outcome)
}

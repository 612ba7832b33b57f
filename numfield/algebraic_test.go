package numfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlgebraicNumberSqrt2(t *testing.T) {
	a := assert.New(t)

	// K = Q(sqrt(2)), minimal polynomial x^2 - 2.
	k := NewNumberField([]Rational{QInt(-2), QZero, QOne}, 1.4142135623730951)

	root := k.Root(64)
	sq := root.Mul(root)
	re, _ := sq.Re.Float64()
	a.InDelta(2.0, re, 1e-12)

	g := Alg(k, []Rational{QZero, QOne}) // the generator itself
	gSquared := g.Mul(g)                 // should reduce to the constant 2
	a.True(gSquared.Equal(FromRational(k, QInt(2))))
}

func TestAlgebraicInverse(t *testing.T) {
	a := assert.New(t)

	k := NewNumberField([]Rational{QInt(-2), QZero, QOne}, 1.4142135623730951)
	g := Alg(k, []Rational{QZero, QOne})

	inv := g.Inverse()
	prod := g.Mul(inv)
	a.True(prod.Equal(FromRational(k, QOne)))
}

package numfield

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rats(vals ...int64) []Rational {
	out := make([]Rational, len(vals))
	for i, v := range vals {
		out[i] = QInt(v)
	}
	return out
}

func TestLongDiv(t *testing.T) {
	a := assert.New(t)

	// p = x^3 - 1, v = x - 1 => q = x^2+x+1, r = 0
	p := NewPoly(rats(-1, 0, 0, 1), QZero)
	v := NewPoly(rats(-1, 1), QZero)

	q, r := p.LongDiv(v)
	a.True(r.IsZero())
	a.Equal(2, q.Degree())
	a.True(q.Coeffs[0].Equal(QInt(1)))
	a.True(q.Coeffs[1].Equal(QInt(1)))
	a.True(q.Coeffs[2].Equal(QInt(1)))
}

func TestExtendedGCD(t *testing.T) {
	a := assert.New(t)

	p := NewPoly(rats(-1, 0, 0, 1), QZero)   // x^3 - 1
	v := NewPoly(rats(-1, 0, 1), QZero)      // x^2 - 1
	g, x, y := ExtendedGCD(p, v)

	// a*x + b*y should reconstruct the gcd
	lhs := p.Mul(x).Add(v.Mul(y))
	diff := lhs.Sub(g)
	a.True(diff.IsZero())
}

func TestNearbyRational(t *testing.T) {
	a := assert.New(t)

	mid := big.NewFloat(0.3333333)
	err := big.NewFloat(0.001)
	r := NearbyRational(mid, err)
	a.Equal("1/3", r.RatString())
}

func TestComposeShift(t *testing.T) {
	a := assert.New(t)

	// p = x^2, shift by 1 => (x+1)^2 = x^2+2x+1
	p := NewPoly(rats(0, 0, 1), QZero)
	shifted := p.ComposeShift(QInt(1))

	a.Equal(2, shifted.Degree())
	a.True(shifted.Coeffs[0].Equal(QInt(1)))
	a.True(shifted.Coeffs[1].Equal(QInt(2)))
	a.True(shifted.Coeffs[2].Equal(QInt(1)))
}

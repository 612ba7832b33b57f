package ball

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddExact(t *testing.T) {
	a := assert.New(t)

	x := Exact(1, 2, 100)
	y := Exact(3, -1, 100)
	z := x.Add(y)

	re, _ := z.Re.Float64()
	im, _ := z.Im.Float64()
	a.Equal(4.0, re)
	a.Equal(1.0, im)
	a.True(z.Rad.Sign() == 0)
}

func TestMulRadiusGrows(t *testing.T) {
	a := assert.New(t)

	x := Exact(2, 0, 100)
	x.Rad = new(big.Float).SetPrec(100).SetFloat64(1e-10)
	y := Exact(3, 0, 100)

	z := x.Mul(y)
	re, _ := z.Re.Float64()
	a.Equal(6.0, re)
	a.True(z.Rad.Sign() > 0)
}

func TestCustomizedAccuracy(t *testing.T) {
	a := assert.New(t)

	x := Exact(1, 0, 100)
	a.Equal(100, x.CustomizedAccuracy())

	x.Rad = new(big.Float).SetPrec(100).SetFloat64(1e-10)
	acc := x.CustomizedAccuracy()
	a.True(acc > 30 && acc < 40)
}

func TestInverseRoundTrip(t *testing.T) {
	a := assert.New(t)

	x := Exact(2, 3, 100)
	inv := x.Inverse()
	prod := x.Mul(inv)

	re, _ := prod.Re.Float64()
	im, _ := prod.Im.Float64()
	a.InDelta(1.0, re, 1e-9)
	a.InDelta(0.0, im, 1e-9)
}

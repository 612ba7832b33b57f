// Package ball implements arbitrary-precision complex ball arithmetic:
// a center (re, im) together with a single nonnegative real radius
// bounding the distance from the true value to the center. It plays the
// role the teacher's field.PrimeField/field.Elem pair play for modular
// residues, generalized to the numerical substrate the monodromy and
// invariant-subspace packages need.
package ball

import (
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Elem is a single complex ball of a fixed working precision.
type Elem struct {
	Re, Im *big.Float
	Rad    *big.Float // >= 0
	Prec   uint        // working precision in bits
}

var two = big.NewFloat(2)

// Eps returns 2^-p as a ball-field scalar, the relative error bound the
// analytic continuation engine is asked to respect (§4.4).
func Eps(prec uint) *big.Float {
	return bigfloat.Pow(new(big.Float).SetPrec(prec+8).Set(two), big.NewFloat(-float64(prec)))
}

func newFloat(prec uint) *big.Float {
	return new(big.Float).SetPrec(prec)
}

// Exact builds a zero-radius ball at the given precision.
func Exact(re, im float64, prec uint) Elem {
	return Elem{
		Re:   newFloat(prec).SetFloat64(re),
		Im:   newFloat(prec).SetFloat64(im),
		Rad:  newFloat(prec),
		Prec: prec,
	}
}

// Zero returns the exact zero ball at the given precision.
func Zero(prec uint) Elem { return Exact(0, 0, prec) }

// FromRat builds an exact ball from a rational real value.
func FromRat(x *big.Rat, prec uint) Elem {
	re := newFloat(prec).SetRat(x)
	return Elem{Re: re, Im: newFloat(prec), Rad: newFloat(prec), Prec: prec}
}

func (a Elem) clonePrec() uint {
	if a.Prec != 0 {
		return a.Prec
	}
	return 53
}

// AbsCenter returns |center|, rounded to the working precision.
func (a Elem) AbsCenter() *big.Float {
	re2 := new(big.Float).SetPrec(a.clonePrec()).Mul(a.Re, a.Re)
	im2 := new(big.Float).SetPrec(a.clonePrec()).Mul(a.Im, a.Im)
	sum := new(big.Float).SetPrec(a.clonePrec()).Add(re2, im2)
	return new(big.Float).SetPrec(a.clonePrec()).Sqrt(sum)
}

// Add returns a+b, radii summed per the triangle inequality.
func (a Elem) Add(b Elem) Elem {
	p := a.clonePrec()
	return Elem{
		Re:   new(big.Float).SetPrec(p).Add(a.Re, b.Re),
		Im:   new(big.Float).SetPrec(p).Add(a.Im, b.Im),
		Rad:  new(big.Float).SetPrec(p).Add(a.Rad, b.Rad),
		Prec: p,
	}
}

// Sub returns a-b.
func (a Elem) Sub(b Elem) Elem {
	p := a.clonePrec()
	return Elem{
		Re:   new(big.Float).SetPrec(p).Sub(a.Re, b.Re),
		Im:   new(big.Float).SetPrec(p).Sub(a.Im, b.Im),
		Rad:  new(big.Float).SetPrec(p).Add(a.Rad, b.Rad),
		Prec: p,
	}
}

// Neg returns -a.
func (a Elem) Neg() Elem {
	p := a.clonePrec()
	return Elem{
		Re:   new(big.Float).SetPrec(p).Neg(a.Re),
		Im:   new(big.Float).SetPrec(p).Neg(a.Im),
		Rad:  new(big.Float).SetPrec(p).Set(a.Rad),
		Prec: p,
	}
}

// Mul returns a*b with a radius bound valid for complex balls:
// |ab - a0 b0| <= |a0|*rb + |b0|*ra + ra*rb.
func (a Elem) Mul(b Elem) Elem {
	p := a.clonePrec()
	re := new(big.Float).SetPrec(p).Sub(
		new(big.Float).SetPrec(p).Mul(a.Re, b.Re),
		new(big.Float).SetPrec(p).Mul(a.Im, b.Im),
	)
	im := new(big.Float).SetPrec(p).Add(
		new(big.Float).SetPrec(p).Mul(a.Re, b.Im),
		new(big.Float).SetPrec(p).Mul(a.Im, b.Re),
	)

	absA := a.AbsCenter()
	absB := b.AbsCenter()
	rad := new(big.Float).SetPrec(p)
	rad.Add(rad, new(big.Float).SetPrec(p).Mul(absA, b.Rad))
	rad.Add(rad, new(big.Float).SetPrec(p).Mul(absB, a.Rad))
	rad.Add(rad, new(big.Float).SetPrec(p).Mul(a.Rad, b.Rad))

	return Elem{Re: re, Im: im, Rad: rad, Prec: p}
}

// Inverse returns 1/a, valid only when a is known to be bounded away from
// zero (the caller, typically linalg, is responsible for that check).
func (a Elem) Inverse() Elem {
	p := a.clonePrec()
	n := new(big.Float).SetPrec(p).Add(
		new(big.Float).SetPrec(p).Mul(a.Re, a.Re),
		new(big.Float).SetPrec(p).Mul(a.Im, a.Im),
	)
	re := new(big.Float).SetPrec(p).Quo(a.Re, n)
	im := new(big.Float).SetPrec(p).Quo(new(big.Float).SetPrec(p).Neg(a.Im), n)

	// first-order radius propagation: d(1/z) = -dz/z^2
	absN := new(big.Float).SetPrec(p).Sqrt(n)
	rad := new(big.Float).SetPrec(p).Quo(a.Rad, new(big.Float).SetPrec(p).Mul(absN, absN))

	return Elem{Re: re, Im: im, Rad: rad, Prec: p}
}

// Div returns a/b.
func (a Elem) Div(b Elem) Elem { return a.Mul(b.Inverse()) }

// IsZero reports whether the ball might be zero, i.e. whether the
// center's magnitude does not exceed the radius.
func (a Elem) IsZero() bool {
	return a.AbsCenter().Cmp(a.Rad) <= 0
}

// CustomizedAccuracy is the number of leading correct bits of a ball
// scalar (§3): floor(-log2(radius/|center|)), clamped to [0, p], or p
// when the center is exactly zero.
func (a Elem) CustomizedAccuracy() int {
	p := int(a.clonePrec())
	absC := a.AbsCenter()
	if absC.Sign() == 0 {
		return p
	}

	ratio := new(big.Float).SetPrec(a.clonePrec()).Quo(a.Rad, absC)
	if ratio.Sign() <= 0 {
		return p
	}

	lnRatio := bigfloat.Log(ratio)
	lnRatioF, _ := lnRatio.Float64()
	acc := int(math.Floor(-lnRatioF / math.Ln2))

	if acc < 0 {
		return 0
	}
	if acc > p {
		return p
	}
	return acc
}

// Rounded returns a copy rounded down to the given working precision.
func (a Elem) Rounded(prec uint) Elem {
	return Elem{
		Re:   new(big.Float).SetPrec(prec).Set(a.Re),
		Im:   new(big.Float).SetPrec(prec).Set(a.Im),
		Rad:  new(big.Float).SetPrec(prec).Set(a.Rad),
		Prec: prec,
	}
}

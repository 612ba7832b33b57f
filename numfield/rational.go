package numfield

import (
	"math/big"

	"github.com/lindqvist/opfactor/ball"
)

// Rational is a Q-coefficient, the hot path of the algebra layer.
type Rational struct {
	v *big.Rat
}

// Q wraps a *big.Rat as a Rational scalar.
func Q(v *big.Rat) Rational { return Rational{v: new(big.Rat).Set(v)} }

// QInt builds a Rational from an int64.
func QInt(n int64) Rational { return Rational{v: big.NewRat(n, 1)} }

// QZero is the additive identity.
var QZero = QInt(0)

// QOne is the multiplicative identity.
var QOne = QInt(1)

func (r Rational) Rat() *big.Rat { return new(big.Rat).Set(r.v) }

func (r Rational) Add(o Rational) Rational { return Rational{v: new(big.Rat).Add(r.v, o.v)} }
func (r Rational) Sub(o Rational) Rational { return Rational{v: new(big.Rat).Sub(r.v, o.v)} }
func (r Rational) Mul(o Rational) Rational { return Rational{v: new(big.Rat).Mul(r.v, o.v)} }
func (r Rational) Neg() Rational           { return Rational{v: new(big.Rat).Neg(r.v)} }
func (r Rational) IsZero() bool            { return r.v.Sign() == 0 }
func (r Rational) Equal(o Rational) bool   { return r.v.Cmp(o.v) == 0 }
func (r Rational) String() string          { return r.v.RatString() }

func (r Rational) Inverse() Rational {
	if r.v.Sign() == 0 {
		panic("numfield: inverse of zero")
	}
	return Rational{v: new(big.Rat).Inv(r.v)}
}

// Ball embeds a rational exactly into a complex ball of the requested
// working precision.
func (r Rational) Ball(prec uint) ball.Elem {
	return ball.FromRat(r.v, prec)
}

// NearbyRational implements the §6 algebra-layer primitive
// `nearby_rational(max_error)`: the rational of smallest denominator
// inside [mid-err, mid+err], via the continued-fraction expansion of
// the interval midpoint (the standard best-rational-in-interval method).
func NearbyRational(mid *big.Float, maxErr *big.Float) *big.Rat {
	lo := new(big.Float).SetPrec(mid.Prec()).Sub(mid, maxErr)
	hi := new(big.Float).SetPrec(mid.Prec()).Add(mid, maxErr)
	if lo.Cmp(hi) > 0 {
		lo, hi = hi, lo
	}
	return simplestRatInInterval(lo, hi)
}

// simplestRatInInterval returns the rational with smallest positive
// denominator in [lo, hi], lo <= hi, via the classic Stern-Brocot
// descent.
func simplestRatInInterval(lo, hi *big.Float) *big.Rat {
	if lo.Sign() > 0 {
		return simplestPositive(lo, hi)
	}
	if hi.Sign() < 0 {
		neg := simplestPositive(new(big.Float).Neg(hi), new(big.Float).Neg(lo))
		return new(big.Rat).Neg(neg)
	}
	return big.NewRat(0, 1)
}

func simplestPositive(lo, hi *big.Float) *big.Rat {
	loFloor, _ := lo.Int(nil)
	if new(big.Float).SetInt(loFloor).Cmp(lo) < 0 {
		// lo is not itself an integer
	}
	fl := new(big.Int).Set(loFloor)
	if new(big.Float).SetInt(fl).Cmp(hi) >= 0 {
		return new(big.Rat).SetInt(fl)
	}

	hiFloor, _ := hi.Int(nil)
	if fl.Cmp(hiFloor) < 0 {
		// an integer lies strictly between lo and hi (or equals hi):
		// the simplest rational is ceil(lo).
		candidate := new(big.Int).Add(fl, big.NewInt(1))
		return new(big.Rat).SetInt(candidate)
	}

	// lo and hi share the same integer part; recurse on the fractional
	// parts' reciprocals (continued-fraction descent).
	fracLo := new(big.Float).SetPrec(lo.Prec()).Sub(lo, new(big.Float).SetInt(fl))
	fracHi := new(big.Float).SetPrec(hi.Prec()).Sub(hi, new(big.Float).SetInt(fl))

	if fracLo.Sign() == 0 {
		return new(big.Rat).SetInt(fl)
	}

	invLo := new(big.Float).SetPrec(lo.Prec()).Quo(big.NewFloat(1), fracHi)
	invHi := new(big.Float).SetPrec(hi.Prec()).Quo(big.NewFloat(1), fracLo)

	inner := simplestPositive(invLo, invHi)
	// result = fl + 1/inner
	innerInv := new(big.Rat).Inv(inner)
	return new(big.Rat).Add(new(big.Rat).SetInt(fl), innerInv)
}

package numfield

import (
	"strings"

	"github.com/lindqvist/opfactor/ball"
)

// AlgebraicNumber is an element of a NumberField, represented as a
// reduced polynomial in the field's generator (coefficients lowest
// degree first, length == Field.Degree).
type AlgebraicNumber struct {
	Field *NumberField
	Coeff []Rational
}

// Alg builds an algebraic number from its coefficients in the given
// field's generator, reducing if the caller passed a longer slice.
func Alg(field *NumberField, coeff []Rational) AlgebraicNumber {
	if len(coeff) != field.Degree {
		coeff = field.reduceModMinPoly(coeff)
	}
	return AlgebraicNumber{Field: field, Coeff: coeff}
}

// FromRational lifts a rational into the field as a constant.
func FromRational(field *NumberField, r Rational) AlgebraicNumber {
	c := make([]Rational, field.Degree)
	if field.Degree > 0 {
		c[0] = r
		for i := 1; i < field.Degree; i++ {
			c[i] = QZero
		}
	}
	return AlgebraicNumber{Field: field, Coeff: c}
}

func (a AlgebraicNumber) elementwise(b AlgebraicNumber, op func(x, y Rational) Rational) AlgebraicNumber {
	if a.Field != b.Field {
		panic("numfield: mismatched number fields")
	}
	out := make([]Rational, a.Field.Degree)
	for i := range out {
		out[i] = op(a.Coeff[i], b.Coeff[i])
	}
	return AlgebraicNumber{Field: a.Field, Coeff: out}
}

func (a AlgebraicNumber) Add(b AlgebraicNumber) AlgebraicNumber {
	return a.elementwise(b, Rational.Add)
}

func (a AlgebraicNumber) Sub(b AlgebraicNumber) AlgebraicNumber {
	return a.elementwise(b, Rational.Sub)
}

func (a AlgebraicNumber) Neg() AlgebraicNumber {
	out := make([]Rational, len(a.Coeff))
	for i, c := range a.Coeff {
		out[i] = c.Neg()
	}
	return AlgebraicNumber{Field: a.Field, Coeff: out}
}

func (a AlgebraicNumber) Mul(b AlgebraicNumber) AlgebraicNumber {
	if a.Field != b.Field {
		panic("numfield: mismatched number fields")
	}
	prod := make([]Rational, len(a.Coeff)+len(b.Coeff)-1)
	for i := range prod {
		prod[i] = QZero
	}
	for i, ac := range a.Coeff {
		if ac.IsZero() {
			continue
		}
		for j, bc := range b.Coeff {
			prod[i+j] = prod[i+j].Add(ac.Mul(bc))
		}
	}
	return Alg(a.Field, prod)
}

func (a AlgebraicNumber) IsZero() bool {
	for _, c := range a.Coeff {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

func (a AlgebraicNumber) Equal(b AlgebraicNumber) bool {
	return a.Sub(b).IsZero()
}

func (a AlgebraicNumber) String() string {
	var parts []string
	for i, c := range a.Coeff {
		if c.IsZero() {
			continue
		}
		if i == 0 {
			parts = append(parts, c.String())
		} else {
			parts = append(parts, c.String()+"*g^"+itoa(i))
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " + ")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// Ball evaluates the algebraic number at the field's chosen embedding,
// to the requested working precision.
func (a AlgebraicNumber) Ball(prec uint) ball.Elem {
	root := a.Field.Root(prec + 8)
	result := ball.Zero(prec + 8)
	for i := len(a.Coeff) - 1; i >= 0; i-- {
		result = result.Mul(root).Add(a.Coeff[i].Ball(prec + 8))
	}
	return result.Rounded(prec)
}

// Inverse returns 1/a via the extended Euclidean algorithm between a's
// representative polynomial and the field's minimal polynomial.
func (a AlgebraicNumber) Inverse() AlgebraicNumber {
	if a.IsZero() {
		panic("numfield: inverse of zero")
	}

	aPoly := NewPoly(a.Coeff, QZero)
	minPoly := NewPoly(a.Field.MinPoly, QZero)

	// g = a*x + minPoly*y is a nonzero constant, so 1/a = x/g.
	g, x, _ := ExtendedGCD(aPoly, minPoly)
	scale := g.Coeffs[0].Inverse()
	coeff := make([]Rational, a.Field.Degree)
	for i := range coeff {
		coeff[i] = QZero
		if i < x.Len() {
			coeff[i] = x.Coeffs[i].Mul(scale)
		}
	}
	return Alg(a.Field, coeff)
}

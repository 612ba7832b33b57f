// Package numfield implements the Q hot path and algebraic-number-field
// branch of the "algebra layer" collaborator required by §6: exact
// polynomial rings over Q or a number field K, fraction-field
// coercion, and embeddings into the complex balls the numerical stages
// consume. It generalizes the teacher's field.PrimeField/field.Polynomial
// pairing (modular residues; see DESIGN.md) from a fixed prime modulus
// to Q and simple algebraic extensions.
package numfield

import (
	"math/big"

	"github.com/lindqvist/opfactor/ball"
)

// Scalar is the coefficient-ring interface the generic Poly type is
// parameterized over (§9 "Dynamic dispatch on polynomial/operator
// algebras": monomorphize over K=Q, dynamic K=number field branch).
type Scalar[S any] interface {
	Add(S) S
	Sub(S) S
	Mul(S) S
	Neg() S
	IsZero() bool
	Equal(S) bool
	Ball(prec uint) ball.Elem
	String() string
}

// Field additionally requires division, needed by polynomial long
// division and GCD but not by plain ring elements.
type Field[S any] interface {
	Scalar[S]
	Inverse() S // panics on zero, caller's responsibility to avoid
}

// IntScalar returns the image of n under the unique ring homomorphism
// Z -> the concrete field S is instantiated with. Needed because a bare
// type parameter has no general notion of an integer literal. This
// module only ever instantiates generic code over Rational and
// AlgebraicNumber, so a type switch suffices.
func IntScalar[S Field[S]](zero S, n int64) S {
	switch z := any(zero).(type) {
	case Rational:
		return any(QInt(n)).(S)
	case AlgebraicNumber:
		return any(FromRational(z.Field, QInt(n))).(S)
	default:
		panic("numfield: IntScalar: unsupported scalar type")
	}
}

// oneScalar returns the multiplicative identity for the concrete
// instantiation of S.
func oneScalar[S Field[S]](zero S) S {
	return IntScalar(zero, 1)
}

// FieldDegree returns deg(K), the degree over Q of the field S is
// currently instantiated with: 1 for the Q hot path, NumberField.Degree
// for the algebraic branch. Needed by the driver's initial order
// estimate and alg_degree seed (spec.md §4.7).
func FieldDegree[S Field[S]](zero S) int {
	switch z := any(zero).(type) {
	case Rational:
		return 1
	case AlgebraicNumber:
		return z.Field.Degree
	default:
		panic("numfield: FieldDegree: unsupported scalar type")
	}
}

// RationalScalar returns the image of r under the embedding Q -> S,
// when S is instantiated as Rational. It returns false for the dynamic
// AlgebraicNumber branch, which has no way to embed an arbitrary
// rational without the caller's NumberField context (shortcut.TryVanHoeij's
// Euler-shift step uses this to stay on the Q hot path; an irrational
// place is outside that package's documented scope).
func RationalScalar[S Field[S]](zero S, r *big.Rat) (S, bool) {
	switch any(zero).(type) {
	case Rational:
		return any(Q(r)).(S), true
	default:
		var zeroVal S
		return zeroVal, false
	}
}

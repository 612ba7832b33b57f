package linalg

import "github.com/lindqvist/opfactor/ball"

// eigenClusterTol groups Durand-Kerner output values that are the same
// eigenvalue up to floating-point noise.
const eigenClusterTol = 1e-7

// Eigenspace is one distinct eigenvalue of a matrix together with a
// basis for its (ordinary or generalized) eigenspace.
type Eigenspace struct {
	Eigenvalue Eigenvalue
	Basis      []Vector
}

// Eigenspaces returns the ordinary eigenspaces of a: one entry per
// distinct eigenvalue, with a basis for ker(a - lambda*I).
func Eigenspaces(a Matrix) []Eigenspace {
	return eigenspacesImpl(a, false)
}

// GeneralizedEigenspaces returns the generalized eigenspaces of a: one
// entry per distinct eigenvalue, with a basis for ker((a -
// lambda*I)^multiplicity), needed by the multiple-eigenvalue strategy
// (§4.5.3) when an ordinary eigenspace is too small to account for its
// eigenvalue's full algebraic multiplicity.
func GeneralizedEigenspaces(a Matrix) []Eigenspace {
	return eigenspacesImpl(a, true)
}

func eigenspacesImpl(a Matrix, generalized bool) []Eigenspace {
	n := a.Rows()
	if n == 0 {
		return nil
	}
	prec := workingPrec(a)

	cm := toComplexMatrix(a)
	charpoly := characteristicPolynomial(cm)
	roots := durandKerner(charpoly)
	for i, r := range roots {
		roots[i] = newtonPolish(charpoly, r)
	}
	values, mult := clusterComplex(roots, eigenClusterTol)

	out := make([]Eigenspace, 0, len(values))
	identity := Identity(n, prec)
	for i, v := range values {
		lambda := complexToBall(v, prec)
		shifted := a.Sub(identity.ScaleBall(lambda))

		target := shifted
		if generalized {
			power := shifted
			for k := 1; k < mult[i]; k++ {
				power = power.Mul(shifted)
			}
			target = power
		}

		out = append(out, Eigenspace{
			Eigenvalue: Eigenvalue{Value: lambda, Complex: v, Multiplicity: mult[i]},
			Basis:      Nullspace(target),
		})
	}
	return out
}

// fullSpaceBasis returns the standard basis e_1..e_n of C^n.
func fullSpaceBasis(n int, prec uint) []Vector {
	out := make([]Vector, n)
	for i := range out {
		v := make(Vector, n)
		for j := range v {
			v[j] = ball.Zero(prec)
		}
		v[i] = ball.Exact(1, 0, prec)
		out[i] = v
	}
	return out
}

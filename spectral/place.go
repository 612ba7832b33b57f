package spectral

import (
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
)

// Place is a point of P^1(C) at which L's leading coefficient may
// vanish: a numerical approximation of a root of ℓ(z) (Root, Mult),
// or the point at infinity.
type Place struct {
	AtInfinity bool
	Root       complex128
	Mult       int
}

const clusterTol = 1e-9

// Places enumerates every place of l: the roots of its leading
// coefficient's numerator (grouped with multiplicity) plus the point
// at infinity.
func Places[S numfield.Field[S]](l *operator.Operator[S]) []Place {
	roots := polyRoots(leadingCoeffComplex(l))
	values, mult := clusterRoots(roots, clusterTol)
	places := make([]Place, 0, len(values)+1)
	for i, v := range values {
		places = append(places, Place{Root: v, Mult: mult[i]})
	}
	places = append(places, Place{AtInfinity: true, Mult: 1})
	return places
}

package engine

import (
	"context"
	"math"
	"math/big"
	"math/cmplx"

	"github.com/ALTree/bigfloat"
	"github.com/lindqvist/opfactor/ball"
	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
	"github.com/lindqvist/opfactor/spectral"
)

// floatAccuracyBits is the customized accuracy SeriesContinuation can
// honestly claim: its local exponents come from spectral's complex128
// (double-precision) root isolation (documented in spectral's own
// grounding entry as the numeric substrate the ball/monodromy layers
// consume), so no connection matrix entry here is ever more accurate
// than a handful of bits short of full float64 precision, regardless of
// how many bits of working precision the caller requests.
const floatAccuracyBits = 45

// convergenceTol bounds how close a spectral.Exponents root must land
// to an actual zero of the indicial polynomial before SeriesContinuation
// trusts it; failing this check (rather than silently returning a bad
// connection matrix) is reported as ErrPrecision.
const convergenceTol = 1e-6

// resonanceTol is the tolerance used to decide whether two distinct
// exponents differ by an integer (a resonance requiring a logarithmic
// local basis, which this reference engine does not build).
const resonanceTol = 1e-6

// SeriesContinuation is the reference implementation of Engine (§6): it
// computes the monodromy generator at each requested regular singular
// point directly from the local Frobenius exponents, via the standard
// connection formula exp(2*pi*i*diag(exponents)) for the non-resonant
// case. It does not perform a general numerical ODE integration along a
// path from basePoint to the singularity -- the local exponent basis is
// treated as already diagonalizing the local monodromy, which is exact
// whenever every exponent at the place is simple and non-resonant (the
// case the reference engine is scoped to; see ErrResonantExponents).
type SeriesContinuation[S numfield.Field[S]] struct{}

func evalPoly(coeffs []complex128, x complex128) complex128 {
	acc := complex(0, 0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc*x + coeffs[i]
	}
	return acc
}

// precisionBits returns ceil(-log2(eps)), the number of bits of
// accuracy eps asks for, clamped to a sane minimum.
func precisionBits(eps *big.Float) uint {
	if eps == nil || eps.Sign() <= 0 {
		return 64
	}
	lg := bigfloat.Log(eps)
	f, _ := lg.Float64()
	bits := -f / math.Ln2
	if bits < 16 {
		bits = 16
	}
	return uint(math.Ceil(bits))
}

// MonodromyGenerators implements Engine for a regular (Fuchsian) place
// list: the non-resonant exponents at each place give a diagonal
// connection matrix in the local Frobenius basis.
func (SeriesContinuation[S]) MonodromyGenerators(ctx context.Context, l *operator.Operator[S], basePoint S, eps *big.Float, sing []spectral.Place) (GeneratorIter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workingPrec := precisionBits(eps)
	radius := new(big.Float).SetPrec(workingPrec).Set(ball.Eps(floatAccuracyBits))

	r := l.Order()
	gens := make([]Generator, 0, len(sing))

	for _, p := range sing {
		if !spectral.IsRegularAt(l, p) {
			return nil, ErrIrregularSingularity
		}

		chi := spectral.IndicialPolynomial(l, p)
		exps := spectral.Exponents(l, p)
		if len(exps) != r {
			return nil, ErrPrecision
		}

		for _, e := range exps {
			if cmplx.Abs(evalPoly(chi.Coeffs, e)) > convergenceTol {
				return nil, ErrPrecision
			}
		}
		if hasResonance(exps) {
			return nil, ErrResonantExponents
		}

		matrix := make([][]ball.Elem, r)
		for i := range matrix {
			matrix[i] = make([]ball.Elem, r)
			for j := range matrix[i] {
				if i == j {
					v := cmplx.Exp(complex(0, 2*math.Pi) * exps[i])
					matrix[i][j] = withRadius(ball.Exact(real(v), imag(v), workingPrec), radius)
				} else {
					matrix[i][j] = withRadius(ball.Zero(workingPrec), radius)
				}
			}
		}

		gens = append(gens, Generator{Place: p, Matrix: matrix})
	}

	return NewSliceIter(gens), nil
}

func withRadius(e ball.Elem, radius *big.Float) ball.Elem {
	e.Rad = new(big.Float).SetPrec(e.Prec).Set(radius)
	return e
}

// hasResonance reports whether any two distinct exponents in exps
// differ by a nonzero integer.
func hasResonance(exps []complex128) bool {
	for i := range exps {
		for j := range exps {
			if i == j {
				continue
			}
			d := exps[i] - exps[j]
			if cmplx.Abs(d) < resonanceTol {
				continue
			}
			if math.Abs(imag(d)) < resonanceTol && nearIntegerFloat(real(d)) {
				return true
			}
		}
	}
	return false
}

func nearIntegerFloat(x float64) bool {
	return math.Abs(x-math.Round(x)) < resonanceTol
}

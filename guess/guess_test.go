package guess

import (
	"math/big"
	"testing"

	"github.com/lindqvist/opfactor/numfield"
	"github.com/stretchr/testify/assert"
)

func factorialSeries(n int) []numfield.Rational {
	out := make([]numfield.Rational, n)
	fact := big.NewInt(1)
	for k := 0; k < n; k++ {
		if k > 0 {
			fact.Mul(fact, big.NewInt(int64(k)))
		}
		out[k] = numfield.Q(new(big.Rat).SetFrac(big.NewInt(1), fact))
	}
	return out
}

func TestGuessExponentialAnnihilator(t *testing.T) {
	a := assert.New(t)
	series := factorialSeries(12)

	var layer LinearAlgebra[numfield.Rational]
	r, err := layer.Guess(series, 1, 0, numfield.QZero)
	a.NoError(err)
	a.Equal(1, r.Order())

	// R should be a scalar multiple of D - 1: leading coeff and
	// constant-term coeff must be negatives of each other.
	lead := r.Coeffs[1].Num.Coeffs[0]
	constTerm := r.Coeffs[0].Num.Coeffs[0]
	a.True(lead.Add(constTerm).IsZero())
}

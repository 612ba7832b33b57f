package guess

import (
	"math"
	"math/big"
)

// AlgDep implements the §6 algebra-layer primitive `algdep(x, d)`: find
// the integer-coefficient polynomial of degree <= d (not identically
// zero) having x as an approximate root, via lattice reduction -- the
// standard PSLQ/LLL integer-relation technique for recognizing an
// unknown number as algebraic. Unlike every other numeric routine in
// this module, this one is not grounded on a retrieved teacher/example
// file (none of the pack implements integer-relation detection); it is
// a from-scratch implementation of the textbook LLL algorithm over a
// big.Rat lattice, cited here and in DESIGN.md as the one piece of
// general numerical-algebra literature rather than an adapted pattern.
//
// x is supplied as (re, im) so a genuinely complex algebraic number can
// be recognized: the lattice rows are the standard basis of Z^(d+1)
// (the sought coefficients) augmented with two columns carrying a
// large-scaled real and imaginary part of x^0..x^d, so that a short
// lattice vector after reduction is an integer relation sum(c_k x^k) ~ 0
// in both components at once.
func AlgDep(re, im *big.Float, degree int, scaleBits uint) (coeffs []*big.Int, ok bool) {
	if degree < 1 {
		return nil, false
	}
	n := degree + 1

	powRe := make([]*big.Float, n)
	powIm := make([]*big.Float, n)
	prec := scaleBits + 64
	powRe[0] = new(big.Float).SetPrec(prec).SetInt64(1)
	powIm[0] = new(big.Float).SetPrec(prec)
	for k := 1; k < n; k++ {
		powRe[k] = new(big.Float).SetPrec(prec).Sub(
			new(big.Float).SetPrec(prec).Mul(powRe[k-1], re),
			new(big.Float).SetPrec(prec).Mul(powIm[k-1], im),
		)
		powIm[k] = new(big.Float).SetPrec(prec).Add(
			new(big.Float).SetPrec(prec).Mul(powRe[k-1], im),
			new(big.Float).SetPrec(prec).Mul(powIm[k-1], re),
		)
	}

	scale := new(big.Float).SetPrec(prec).SetMantExp(big.NewFloat(1), int(scaleBits))

	rows := make([][]*big.Rat, n)
	for k := 0; k < n; k++ {
		row := make([]*big.Rat, n+2)
		for j := 0; j < n; j++ {
			if j == k {
				row[j] = big.NewRat(1, 1)
			} else {
				row[j] = big.NewRat(0, 1)
			}
		}
		row[n] = floatToRat(new(big.Float).SetPrec(prec).Mul(powRe[k], scale))
		row[n+1] = floatToRat(new(big.Float).SetPrec(prec).Mul(powIm[k], scale))
		rows[k] = row
	}

	reduced := lllReduce(rows, n+2)

	// The relation coefficients are in the shortest reduced row's first
	// n entries; accept it only if that row's scaled-residual columns
	// are small relative to the candidate coefficients (i.e. the
	// relation actually holds, not merely that LLL found some short
	// vector in a degenerate lattice).
	best := -1
	var bestNorm *big.Rat
	for i, row := range reduced {
		coeffNormSq := big.NewRat(0, 1)
		for j := 0; j < n; j++ {
			coeffNormSq.Add(coeffNormSq, new(big.Rat).Mul(row[j], row[j]))
		}
		if coeffNormSq.Sign() == 0 {
			continue
		}
		if best == -1 || coeffNormSq.Cmp(bestNorm) < 0 {
			best = i
			bestNorm = coeffNormSq
		}
	}
	if best == -1 {
		return nil, false
	}

	row := reduced[best]
	residualSq := new(big.Rat).Add(new(big.Rat).Mul(row[n], row[n]), new(big.Rat).Mul(row[n+1], row[n+1]))
	threshold := new(big.Rat).Mul(bestNorm, big.NewRat(1, 1<<20))
	if residualSq.Cmp(threshold) > 0 {
		return nil, false
	}

	out := make([]*big.Int, n)
	for j := 0; j < n; j++ {
		if row[j].Denom().Cmp(big.NewInt(1)) != 0 {
			return nil, false
		}
		out[j] = new(big.Int).Set(row[j].Num())
	}
	return out, true
}

func floatToRat(f *big.Float) *big.Rat {
	r, _ := f.Rat(nil)
	if r == nil {
		return big.NewRat(0, 1)
	}
	return r
}

// lllReduce runs the classical Lenstra-Lenstra-Lovasz lattice basis
// reduction (delta = 3/4) on the given rows, each of dimension m, over
// exact big.Rat arithmetic throughout (avoiding the numerical-stability
// issues a floating-point Gram-Schmidt would introduce for a technique
// whose whole point is exactness of the final integer relation).
func lllReduce(rows [][]*big.Rat, m int) [][]*big.Rat {
	n := len(rows)
	b := make([][]*big.Rat, n)
	for i := range rows {
		b[i] = append([]*big.Rat{}, rows[i]...)
	}

	gs := make([][]*big.Rat, n)
	mu := make([][]*big.Rat, n)
	for i := range mu {
		mu[i] = make([]*big.Rat, n)
	}
	bnorm := make([]*big.Rat, n)

	computeGS := func() {
		for i := 0; i < n; i++ {
			gs[i] = append([]*big.Rat{}, b[i]...)
			for j := 0; j < i; j++ {
				mu[i][j] = ratDot(b[i], gs[j], m)
				mu[i][j].Quo(mu[i][j], bnorm[j])
				for k := 0; k < m; k++ {
					gs[i][k] = new(big.Rat).Sub(gs[i][k], new(big.Rat).Mul(mu[i][j], gs[j][k]))
				}
			}
			bnorm[i] = ratDot(gs[i], gs[i], m)
		}
	}
	computeGS()

	delta := big.NewRat(3, 4)
	k := 1
	maxSteps := 200 * n * n
	for step := 0; k < n && step < maxSteps; step++ {
		for j := k - 1; j >= 0; j-- {
			if mu[k][j] == nil {
				continue
			}
			if new(big.Rat).Abs(mu[k][j]).Cmp(big.NewRat(1, 2)) > 0 {
				q := roundRat(mu[k][j])
				for t := 0; t < m; t++ {
					b[k][t] = new(big.Rat).Sub(b[k][t], new(big.Rat).Mul(new(big.Rat).SetInt(q), b[j][t]))
				}
				computeGS()
			}
		}

		lhs := new(big.Rat).Add(bnorm[k], new(big.Rat).Mul(
			new(big.Rat).Mul(mu[k][k-1], mu[k][k-1]), bnorm[k-1]))
		rhs := new(big.Rat).Mul(delta, bnorm[k-1])
		if lhs.Cmp(rhs) >= 0 {
			k++
		} else {
			b[k], b[k-1] = b[k-1], b[k]
			computeGS()
			if k > 1 {
				k--
			}
		}
	}
	return b
}

func ratDot(a, b []*big.Rat, m int) *big.Rat {
	out := big.NewRat(0, 1)
	for i := 0; i < m; i++ {
		out.Add(out, new(big.Rat).Mul(a[i], b[i]))
	}
	return out
}

func roundRat(r *big.Rat) *big.Int {
	f := new(big.Float).SetPrec(128).SetRat(r)
	fv, _ := f.Float64()
	return big.NewInt(int64(math.Round(fv)))
}

// Package spectral implements the Spectral Probe (C2): the indicial
// polynomial and its roots (the local exponents) at a place of the
// leading coefficient, the Newton polygon, the Fuchsian test, and the
// degree bound for a right factor. Exact symbolic factorization of the
// leading coefficient over Q̄ is a Non-goal, so places and exponents are
// found numerically (complex128 root isolation via Weierstrass/Durand-
// Kerner iteration), in the spirit of the module's ball-valued numeric
// substrate rather than go-gao's exact finite-field arithmetic.
package spectral

import "math/cmplx"

// polyRoots returns the complex roots of the polynomial with
// coefficients coeffs[i] = coefficient of x^i (lowest degree first),
// via Durand-Kerner simultaneous iteration. Multiplicities are not
// resolved here; callers cluster nearby roots themselves.
func polyRoots(coeffs []complex128) []complex128 {
	deg := len(coeffs) - 1
	for deg > 0 && coeffs[deg] == 0 {
		deg--
	}
	if deg <= 0 {
		return nil
	}

	lead := coeffs[deg]
	monic := make([]complex128, deg+1)
	for i := range monic {
		monic[i] = coeffs[i] / lead
	}

	roots := make([]complex128, deg)
	seed := complex(0.4, 0.9)
	cur := complex(1.0, 0.0)
	for i := range roots {
		roots[i] = cur
		cur *= seed
	}

	evalMonic := func(x complex128) complex128 {
		acc := complex(0, 0)
		for i := deg; i >= 0; i-- {
			acc = acc*x + monic[i]
		}
		return acc
	}

	const maxIter = 500
	const tol = 1e-13
	for iter := 0; iter < maxIter; iter++ {
		maxDelta := 0.0
		for i := range roots {
			denom := complex(1, 0)
			for j := range roots {
				if i == j {
					continue
				}
				denom *= roots[i] - roots[j]
			}
			if denom == 0 {
				continue
			}
			delta := evalMonic(roots[i]) / denom
			roots[i] -= delta
			if m := cmplx.Abs(delta); m > maxDelta {
				maxDelta = m
			}
		}
		if maxDelta < tol {
			break
		}
	}
	return roots
}

// clusterRoots groups numerically close roots and returns each
// distinct root (the mean of its cluster) with its multiplicity.
func clusterRoots(roots []complex128, tol float64) (values []complex128, mult []int) {
	used := make([]bool, len(roots))
	for i := range roots {
		if used[i] {
			continue
		}
		sum := roots[i]
		count := 1
		used[i] = true
		for j := i + 1; j < len(roots); j++ {
			if used[j] {
				continue
			}
			if cmplx.Abs(roots[j]-roots[i]) < tol {
				sum += roots[j]
				count++
				used[j] = true
			}
		}
		values = append(values, sum/complex(float64(count), 0))
		mult = append(mult, count)
	}
	return values, mult
}

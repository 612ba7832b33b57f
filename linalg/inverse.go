package linalg

import "github.com/lindqvist/opfactor/ball"

// Inverse returns a's inverse via Gauss-Jordan elimination on the
// augmented matrix [a | I], reusing GaussianEliminate's full (both-
// directions) row reduction rather than a separate back-substitution
// pass. ok is false when a is numerically singular.
func Inverse(a Matrix) (Matrix, bool) {
	n := a.Rows()
	if n == 0 || n != a.Cols() {
		return nil, false
	}
	prec := workingPrec(a)

	aug := NewMatrix(n, 2*n, prec)
	for i := 0; i < n; i++ {
		copy(aug[i][:n], a[i])
		aug[i][n+i] = ball.Exact(1, 0, prec)
	}

	reduced, pivotCols := GaussianEliminate(aug)
	if len(pivotCols) < n {
		return nil, false
	}

	out := NewMatrix(n, n, prec)
	for i := 0; i < n; i++ {
		copy(out[i], reduced[i][n:2*n])
	}
	return out, true
}

package linalg

import "github.com/lindqvist/opfactor/ball"

// GaussianEliminate reduces a to row-echelon form via partial-pivot
// (largest-magnitude) ball Gaussian elimination -- unlike
// numfield.NullSpace's first-nonzero pivoting (exact field elements
// have no notion of "more zero"), ball entries are numeric
// approximations, so picking the largest-magnitude candidate in each
// column is the standard numerically-stable choice, grounded on the
// gonum linsolve retrieved example's partial-pivot approach. It returns
// the reduced matrix and the column index chosen as pivot for each
// pivot row, in row order.
func GaussianEliminate(a Matrix) (reduced Matrix, pivotCols []int) {
	m := a.Clone()
	rows, cols := m.Rows(), m.Cols()
	pivotRow := 0
	for col := 0; col < cols && pivotRow < rows; col++ {
		best := pivotRow
		bestMag := m[pivotRow][col].AbsCenter()
		for r := pivotRow + 1; r < rows; r++ {
			mag := m[r][col].AbsCenter()
			if mag.Cmp(bestMag) > 0 {
				best = r
				bestMag = mag
			}
		}
		if m[best][col].IsZero() {
			continue
		}
		m[pivotRow], m[best] = m[best], m[pivotRow]

		inv := m[pivotRow][col].Inverse()
		for c := 0; c < cols; c++ {
			m[pivotRow][c] = m[pivotRow][c].Mul(inv)
		}
		for r := 0; r < rows; r++ {
			if r == pivotRow {
				continue
			}
			factor := m[r][col]
			if factor.IsZero() {
				continue
			}
			for c := 0; c < cols; c++ {
				m[r][c] = m[r][c].Sub(factor.Mul(m[pivotRow][c]))
			}
		}
		pivotCols = append(pivotCols, col)
		pivotRow++
	}
	return m, pivotCols
}

// Nullspace returns a basis for the (ball-approximate) null space of a,
// one vector per free column of its row-echelon form.
func Nullspace(a Matrix) []Vector {
	if a.Rows() == 0 || a.Cols() == 0 {
		return nil
	}
	reduced, pivotCols := GaussianEliminate(a)
	cols := a.Cols()
	prec := workingPrec(a)

	isPivot := make([]bool, cols)
	pivotRowOf := make(map[int]int, len(pivotCols))
	for i, c := range pivotCols {
		isPivot[c] = true
		pivotRowOf[c] = i
	}

	var basis []Vector
	for free := 0; free < cols; free++ {
		if isPivot[free] {
			continue
		}
		v := make(Vector, cols)
		for i := range v {
			v[i] = ball.Zero(prec)
		}
		v[free] = ball.Exact(1, 0, prec)
		for _, c := range pivotCols {
			r := pivotRowOf[c]
			v[c] = reduced[r][free].Neg()
		}
		basis = append(basis, v)
	}
	return basis
}

// Intersection returns a basis for span(a) ∩ span(b) inside C^n: stack
// a's columns and -b's columns side by side and read the nullspace, the
// standard linear-algebra reduction of subspace intersection to a
// nullspace computation.
func Intersection(a, b []Vector, n int, prec uint) []Vector {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	m := NewMatrix(n, len(a)+len(b), prec)
	for j, v := range a {
		for i := 0; i < n; i++ {
			m[i][j] = v[i]
		}
	}
	for j, v := range b {
		for i := 0; i < n; i++ {
			m[i][len(a)+j] = v[i].Neg()
		}
	}

	coeffBasis := Nullspace(m)
	var out []Vector
	for _, coeffs := range coeffBasis {
		vec := make(Vector, n)
		for i := range vec {
			vec[i] = ball.Zero(prec)
		}
		for j := 0; j < len(a); j++ {
			c := coeffs[j]
			if c.IsZero() {
				continue
			}
			for i := 0; i < n; i++ {
				vec[i] = vec[i].Add(a[j][i].Mul(c))
			}
		}
		out = append(out, vec)
	}
	return out
}

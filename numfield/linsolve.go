package numfield

// RowReduce puts A into reduced row-echelon form in place (Gauss-Jordan
// elimination over the field S), choosing any nonzero entry in each
// column as pivot (there being no magnitude to order by, unlike the
// gonum/linsolve retrieved reference this is adapted from, which picks
// pivots by float64 magnitude). It returns the pivot column for each
// pivot row, in row order.
func RowReduce[S Field[S]](a [][]S, zero S) []int {
	if len(a) == 0 {
		return nil
	}
	cols := len(a[0])
	row := 0
	var pivots []int
	for col := 0; col < cols && row < len(a); col++ {
		sel := -1
		for r := row; r < len(a); r++ {
			if !a[r][col].IsZero() {
				sel = r
				break
			}
		}
		if sel < 0 {
			continue
		}
		a[row], a[sel] = a[sel], a[row]

		inv := a[row][col].Inverse()
		for c := 0; c < cols; c++ {
			a[row][c] = a[row][c].Mul(inv)
		}
		for r := 0; r < len(a); r++ {
			if r == row || a[r][col].IsZero() {
				continue
			}
			factor := a[r][col]
			for c := 0; c < cols; c++ {
				a[r][c] = a[r][c].Sub(factor.Mul(a[row][c]))
			}
		}
		pivots = append(pivots, col)
		row++
	}
	return pivots
}

// NullSpace returns a basis for the (right) null space of A: every
// vector x with A*x = 0, as a slice of coefficient vectors indexed by
// the free columns of A's reduced row-echelon form.
func NullSpace[S Field[S]](a [][]S, zero S) [][]S {
	if len(a) == 0 {
		return nil
	}
	cols := len(a[0])
	work := make([][]S, len(a))
	for i, row := range a {
		work[i] = append([]S{}, row...)
	}
	pivots := RowReduce(work, zero)

	isPivot := make([]bool, cols)
	pivotRowOf := make([]int, cols)
	for r, c := range pivots {
		isPivot[c] = true
		pivotRowOf[c] = r
	}

	var basis [][]S
	for free := 0; free < cols; free++ {
		if isPivot[free] {
			continue
		}
		vec := make([]S, cols)
		for i := range vec {
			vec[i] = zero
		}
		vec[free] = oneScalar(zero)
		for c, isP := range isPivot {
			if !isP {
				continue
			}
			r := pivotRowOf[c]
			vec[c] = work[r][free].Neg()
		}
		basis = append(basis, vec)
	}
	return basis
}

package linalg

// InvariantSubspace implements spec.md §4.5.3's multiple-eigenvalue
// fallback: the iterative common-refinement routine referenced there as
// `linear_algebra.invariant_subspace`. Starting from the whole space,
// each generator in turn refines the current partition of blocks by
// intersecting every block with every one of that generator's
// generalized eigenspaces; a block surviving with dimension strictly
// between 0 and n is a proper common invariant subspace of the whole
// matrix list. This directly implements "iterative intersection of
// generalized eigenspaces across generators until stable", simplified
// to operate on the blocks themselves (no explicit restricted-operator
// change of basis) since every refinement step already works in the
// ambient C^n coordinates via Intersection.
func InvariantSubspace(matrices []Matrix) ([]Vector, bool) {
	if len(matrices) == 0 {
		return nil, false
	}
	n := matrices[0].Rows()
	prec := workingPrec(matrices[0])

	blocks := [][]Vector{fullSpaceBasis(n, prec)}

	for _, m := range matrices {
		var refined [][]Vector
		for _, blk := range blocks {
			if len(blk) == 0 {
				continue
			}
			split := false
			for _, es := range GeneralizedEigenspaces(m) {
				inter := Intersection(blk, es.Basis, n, prec)
				if len(inter) > 0 && len(inter) < len(blk) {
					refined = append(refined, inter)
					split = true
				}
			}
			if !split {
				refined = append(refined, blk)
			}
		}
		blocks = refined
	}

	for _, blk := range blocks {
		if len(blk) > 0 && len(blk) < n {
			return blk, true
		}
	}
	return nil, false
}

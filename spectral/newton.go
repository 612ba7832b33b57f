package spectral

import (
	"math/big"

	"github.com/lindqvist/opfactor/numfield"
	"github.com/lindqvist/opfactor/operator"
)

// Edge is one segment of a Newton polygon's lower convex hull: the
// points (i, valuation(a_i)) for i = Start .. Start+Length, lying on a
// line of slope Slope. ReducedCharPoly is the associated reduced
// characteristic polynomial for integer slopes (which include the
// ordinary/regular-singular case this module's numerical engine and
// local-basis computation actually drive); for a fractional slope
// (an irregular, ramified singularity) it is left as the zero
// polynomial, a documented scope boundary matching operator.LocalBasis
// and engine.SeriesContinuation's own Fuchsian-only depth.
type Edge struct {
	Slope           *big.Rat
	Start, Length   int
	ReducedCharPoly CharPoly
}

// NewtonPolygon returns the lower convex hull of the points
// (i, valuation_p(a_i)) for i = 0..r, at the place p. Neither the
// Fuchsian test nor the degree bound calls it.
func NewtonPolygon[S numfield.Field[S]](l *operator.Operator[S], p Place) []Edge {
	r := l.Order()
	root := p.Root
	target := l
	if p.AtInfinity {
		target = operator.ReciprocalTransform(l)
		root = 0
		r = target.Order()
	}

	type point = hullPoint
	pts := make([]point, 0, r+1)
	for i := 0; i <= r; i++ {
		ak := coeffComplexAt(target, i)
		if len(ak) == 0 {
			continue
		}
		v := valuationAt(ak, root)
		if v > r+100 { // identically-zero coefficient: no constraint
			continue
		}
		pts = append(pts, point{x: i, y: v})
	}
	if len(pts) == 0 {
		return nil
	}

	hull := lowerConvexHull(pts)
	edges := make([]Edge, 0, len(hull)-1)
	for k := 0; k+1 < len(hull); k++ {
		a, b := hull[k], hull[k+1]
		dx := b.x - a.x
		dy := b.y - a.y
		slope := big.NewRat(int64(dy), int64(dx))
		edges = append(edges, Edge{
			Slope:           slope,
			Start:           a.x,
			Length:          dx,
			ReducedCharPoly: reducedCharPoly(target, root, a.x, dx, slope),
		})
	}
	return edges
}

type hullPoint = struct{ x, y int }

func lowerConvexHull(pts []hullPoint) []hullPoint {
	sorted := append([]hullPoint{}, pts...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].x < sorted[j-1].x; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	var hull []hullPoint
	for _, pt := range sorted {
		for len(hull) >= 2 {
			o, a := hull[len(hull)-2], hull[len(hull)-1]
			cross := (a.x-o.x)*(pt.y-o.y) - (a.y-o.y)*(pt.x-o.x)
			if cross <= 0 {
				hull = hull[:len(hull)-1]
				continue
			}
			break
		}
		hull = append(hull, pt)
	}
	return hull
}

// reducedCharPoly builds the edge polynomial sum_i coeff_i*y^(i-start)
// for integer slopes, where coeff_i is a_i's Taylor coefficient at the
// edge's valuation order. Fractional slopes (ramified/irregular points)
// return the zero polynomial; see the Edge doc comment.
func reducedCharPoly[S numfield.Field[S]](l *operator.Operator[S], root complex128, start, length int, slope *big.Rat) CharPoly {
	if !slope.IsInt() {
		return CharPoly{Coeffs: []complex128{0}}
	}
	coeffs := make([]complex128, length+1)
	for i := start; i <= start+length; i++ {
		ak := coeffComplexAt(l, i)
		if len(ak) == 0 {
			continue
		}
		v := valuationAt(ak, root)
		shifted := complexShift(ak, root)
		if v < len(shifted) {
			coeffs[i-start] = shifted[v]
		}
	}
	return CharPoly{Coeffs: coeffs}
}

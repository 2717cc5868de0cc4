package gbcd

import (
	"math"

	"github.com/gogpu/gbcd/orient"
)

const halfPi = math.Pi / 2

// binTriangle enumerates the symmetry-equivalent representations of
// triangle t into its scratch row and returns how many were recorded.
//
// Each side q of the boundary, each operator j of the first grain and each
// operator k of the second grain own two consecutive slots: the normal's
// square coordinate and its antipode in the opposite hemisphere. A pair is
// either fully written or left at the sentinel, and the slot counter
// advances by two regardless, so the layout of a row depends only on nsym.
//
// The row must hold rowLen(len(ops)) slots preset to -1.
func binTriangle(sc *SpaceConfig, in *Input, t int, ops []orient.Mat3, bins []int32, hemi []bool) int {
	f1, f2 := in.labels(t)
	g1 := orient.FromEuler(in.euler(f1))
	g2 := orient.FromEuler(in.euler(f2))
	n := in.normal(t)

	slot, recorded := 0, 0
	for q := 0; q < 2; q++ {
		if q == 1 {
			g1, g2 = g2, g1
			n = n.Neg()
		}
		for _, sj := range ops {
			g1s := sj.Mul(g1)
			sq, northern := SquareCoord(g1s.MulVec(n))
			inv := sq.Neg()

			for _, sk := range ops {
				dg := g1s.MulTranspose(sk.Mul(g2))
				e := dg.Euler()
				if e.Phi1 >= halfPi || e.Phi >= halfPi || e.Phi2 >= halfPi {
					slot += 2
					continue
				}

				p := [numAxes]float64{e.Phi1, math.Cos(e.Phi), e.Phi2, sq.X, sq.Y}
				if b := sc.Locate(p); b >= 0 {
					bins[slot], hemi[slot] = b, northern
					recorded++
				}
				slot++

				p[AxisNormalX], p[AxisNormalY] = inv.X, inv.Y
				if b := sc.Locate(p); b >= 0 {
					bins[slot], hemi[slot] = b, !northern
					recorded++
				}
				slot++
			}
		}
	}
	return recorded
}

// cell returns the histogram offset of a recorded representation.
// Northern entries use the even cell.
func cell(bin int32, northern bool) int {
	if northern {
		return 2 * int(bin)
	}
	return 2*int(bin) + 1
}

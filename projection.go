package gbcd

import (
	"math"

	"github.com/gogpu/gbcd/orient"
)

var (
	sqrtPi      = math.Sqrt(math.Pi)
	halfSqrtPi  = sqrtPi / 2
	twoOverRtPi = 2 / sqrtPi
)

// SquareCoord maps a unit crystal direction onto the modified Lambert square
// of its hemisphere. northern is true when v.z ≥ 0; the southern hemisphere
// is projected from the opposite pole so both land in the same square.
//
// The two poles have no defined azimuth and map to the origin. Outputs are
// clamped to the mathematical range [-√(π/2), √(π/2)] so rounding never
// pushes an equatorial direction out of the binning limits.
func SquareCoord(v orient.Vec3) (sq orient.Vec2, northern bool) {
	adjust := 1.0
	if v[2] >= 0 {
		adjust = -1
		northern = true
	}

	ax, ay := math.Abs(v[0]), math.Abs(v[1])
	if ax == 0 && ay == 0 {
		return orient.Vec2{}, northern
	}

	r := math.Sqrt(2 * (1 + v[2]*adjust))
	if ax >= ay {
		s := math.Copysign(r, v[0])
		sq.X = s * halfSqrtPi
		sq.Y = s * twoOverRtPi * math.Atan(v[1]/v[0])
	} else {
		s := math.Copysign(r, v[1])
		sq.X = s * twoOverRtPi * math.Atan(v[0]/v[1])
		sq.Y = s * halfSqrtPi
	}
	sq.X = clampSquare(sq.X)
	sq.Y = clampSquare(sq.Y)
	return sq, northern
}

func clampSquare(x float64) float64 {
	if x > sqrtPiOver2 {
		return sqrtPiOver2
	}
	if x < -sqrtPiOver2 {
		return -sqrtPiOver2
	}
	return x
}

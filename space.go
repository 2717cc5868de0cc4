package gbcd

import (
	"fmt"
	"math"
)

// Axes of the five-dimensional GBCD space.
const (
	AxisPhi1    = iota // misorientation φ1, [0, π/2]
	AxisCosPhi         // cos Φ of the misorientation, [0, 1]
	AxisPhi2           // misorientation φ2, [0, π/2]
	AxisNormalX        // square-projected boundary normal, first coordinate
	AxisNormalY        // square-projected boundary normal, second coordinate
	numAxes
)

// SpaceConfig describes the binning of the GBCD space. It is derived once
// from the angular resolution and never modified afterwards.
//
// Limits holds the lower bounds in [0:5] and the upper bounds in [5:10].
type SpaceConfig struct {
	Resolution float64 // degrees
	Deltas     [numAxes]float64
	Limits     [2 * numAxes]float64
	Sizes      [numAxes]int
}

// sqrtPiOver2 bounds the square projection on both axes.
var sqrtPiOver2 = math.Sqrt(math.Pi / 2)

// NewSpaceConfig derives the bin layout for a resolution in degrees.
//
// The misorientation axes cover [0, π/2] × [0, 1] × [0, π/2], with the
// cos Φ axis using the rescaled width res·2/π. The two normal axes are first
// sized over [0, 1] × [0, 2π] and then replaced by a square grid of
// round(√(n3·n4)) bins per side over [-√(π/2), √(π/2)], which keeps the
// area-preserving square projection sampled evenly in both directions.
func NewSpaceConfig(resolution float64) (SpaceConfig, error) {
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return SpaceConfig{}, fmt.Errorf("%w: %v degrees", ErrInvalidResolution, resolution)
	}

	binsize := resolution * math.Pi / 180
	binsize2 := binsize * (2 / math.Pi)
	if 2*math.Pi/binsize > math.MaxInt32 {
		return SpaceConfig{}, fmt.Errorf("%w: %v degrees is too fine", ErrInvalidResolution, resolution)
	}

	sc := SpaceConfig{
		Resolution: resolution,
		Deltas:     [numAxes]float64{binsize, binsize2, binsize, binsize2, binsize},
		Limits: [2 * numAxes]float64{
			0, 0, 0, 0, 0,
			math.Pi / 2, 1, math.Pi / 2, 1, 2 * math.Pi,
		},
	}
	for i := 0; i < numAxes; i++ {
		sc.Sizes[i] = int(0.5 + (sc.Limits[i+numAxes]-sc.Limits[i])/sc.Deltas[i])
	}

	totalNormalBins := float64(sc.Sizes[AxisNormalX] * sc.Sizes[AxisNormalY])
	side := int(math.Sqrt(totalNormalBins) + 0.5)
	sc.Sizes[AxisNormalX] = side
	sc.Sizes[AxisNormalY] = side
	sc.Limits[AxisNormalX] = -sqrtPiOver2
	sc.Limits[AxisNormalY] = -sqrtPiOver2
	sc.Limits[AxisNormalX+numAxes] = sqrtPiOver2
	sc.Limits[AxisNormalY+numAxes] = sqrtPiOver2
	sc.Deltas[AxisNormalX] = (sc.Limits[AxisNormalX+numAxes] - sc.Limits[AxisNormalX]) / float64(side)
	sc.Deltas[AxisNormalY] = (sc.Limits[AxisNormalY+numAxes] - sc.Limits[AxisNormalY]) / float64(side)

	for i, s := range sc.Sizes {
		if s < 1 {
			return SpaceConfig{}, fmt.Errorf("%w: %v degrees leaves axis %d empty", ErrInvalidResolution, resolution, i)
		}
	}

	// Cells (two per bin) are addressed by int32.
	cells := int64(2)
	for _, s := range sc.Sizes {
		cells *= int64(s)
		if cells > math.MaxInt32 {
			return SpaceConfig{}, fmt.Errorf("%w: %v degrees needs more than %d cells", ErrInvalidResolution, resolution, math.MaxInt32)
		}
	}
	return sc, nil
}

// TotalBins returns the product of the five axis sizes. The histogram of a
// phase holds twice as many cells, one per hemisphere.
func (sc *SpaceConfig) TotalBins() int {
	return sc.Sizes[0] * sc.Sizes[1] * sc.Sizes[2] * sc.Sizes[3] * sc.Sizes[4]
}

// Index flattens per-axis bin indices, axis 0 varying fastest.
func (sc *SpaceConfig) Index(i0, i1, i2, i3, i4 int) int {
	s0 := sc.Sizes[0]
	s01 := s0 * sc.Sizes[1]
	s012 := s01 * sc.Sizes[2]
	s0123 := s012 * sc.Sizes[3]
	return i0 + s0*i1 + s01*i2 + s012*i3 + s0123*i4
}

// Unindex is the inverse of Index.
func (sc *SpaceConfig) Unindex(bin int) (idx [numAxes]int) {
	for i := 0; i < numAxes; i++ {
		idx[i] = bin % sc.Sizes[i]
		bin /= sc.Sizes[i]
	}
	return idx
}

// Locate maps a point (φ1, cos Φ, φ2, x, y) to its flat bin, or -1 when any
// coordinate lies outside the closed limits or is NaN. Points on an upper
// limit fall into the last bin of that axis.
func (sc *SpaceConfig) Locate(p [numAxes]float64) int32 {
	for i := 0; i < numAxes; i++ {
		if !(p[i] >= sc.Limits[i] && p[i] <= sc.Limits[i+numAxes]) {
			return -1
		}
	}

	var idx [numAxes]int
	for i := 0; i < numAxes; i++ {
		k := int(math.Floor((p[i] - sc.Limits[i]) / sc.Deltas[i]))
		if k > sc.Sizes[i]-1 {
			k = sc.Sizes[i] - 1
		}
		if k < 0 {
			k = 0
		}
		idx[i] = k
	}
	return int32(sc.Index(idx[0], idx[1], idx[2], idx[3], idx[4]))
}

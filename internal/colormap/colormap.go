// Package colormap maps normalized intensities to display colours through
// a precomputed lookup table.
//
// The ramp runs blue, cyan, green, yellow, red, the scale conventionally
// used for GBCD pole figures. Stops are interpolated in linear light and
// encoded to sRGB once at init, so Lookup is a clamp and an array read.
package colormap

import (
	"image/color"
	"math"
)

// Size is the number of table entries.
const Size = 256

// stop is a ramp control point in linear RGB.
type stop struct {
	at      float64
	r, g, b float64
}

var stops = [...]stop{
	{0.00, 0, 0, 0.5},
	{0.25, 0, 0.5, 1},
	{0.50, 0, 1, 0},
	{0.75, 1, 1, 0},
	{1.00, 1, 0, 0},
}

// lut holds the encoded ramp, index 0 for intensity 0.
var lut [Size]color.RGBA

func init() {
	for i := range lut {
		lut[i] = Slow(float64(i) / (Size - 1))
	}
}

// Lookup returns the colour for t in [0, 1]. Values outside are clamped;
// NaN maps to the lowest colour.
func Lookup(t float64) color.RGBA {
	if !(t > 0) {
		return lut[0]
	}
	if t >= 1 {
		return lut[Size-1]
	}
	return lut[int(t*(Size-1)+0.5)]
}

// Slow evaluates the ramp directly. It is the reference for Lookup.
func Slow(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	i := 1
	for i < len(stops)-1 && t > stops[i].at {
		i++
	}
	a, b := stops[i-1], stops[i]
	f := (t - a.at) / (b.at - a.at)
	return color.RGBA{
		R: encodeSRGB(a.r + f*(b.r-a.r)),
		G: encodeSRGB(a.g + f*(b.g-a.g)),
		B: encodeSRGB(a.b + f*(b.b-a.b)),
		A: 0xff,
	}
}

// encodeSRGB converts a linear channel in [0, 1] to an 8-bit sRGB value.
func encodeSRGB(l float64) uint8 {
	var s float64
	if l <= 0.0031308 {
		s = l * 12.92
	} else {
		s = 1.055*math.Pow(l, 1.0/2.4) - 0.055
	}
	v := int(s*255.0 + 0.5)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	//nolint:gosec // G115: v is clamped to [0,255] range
	return uint8(v)
}

package gbcd

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/gogpu/gbcd/orient"
)

// DefaultPolePoints is the pole-figure grid size used when points is 0.
const DefaultPolePoints = 100

type poleKey struct {
	phase  int
	axis   orient.Vec3
	angle  float64
	points int
}

// PoleFigure is the distribution of boundary-plane normals for one fixed
// misorientation, sampled on a stereographic grid of the upper hemisphere.
//
// Values is row-major with Points rows; row 0 is y = -1 and column 0 is
// x = -1. Cells whose centre lies outside the unit circle are masked and
// hold zero.
type PoleFigure struct {
	Phase  int
	Axis   orient.Vec3
	Angle  float64 // degrees
	Points int
	Values []float64
	Mask   []bool
}

// At returns the value at column x, row y.
func (pf *PoleFigure) At(x, y int) float64 {
	return pf.Values[y*pf.Points+x]
}

// Max returns the largest value inside the circle.
func (pf *PoleFigure) Max() float64 {
	if len(pf.Values) == 0 {
		return 0
	}
	return floats.Max(pf.Values)
}

// PoleFigure returns the GBCD section at the misorientation given by a
// rotation of angleDeg degrees about axis (crystal frame), on a
// points×points grid. points 0 selects DefaultPolePoints.
//
// Each cell averages the histogram over every symmetry-equivalent
// representation of the misorientation that lies in the fundamental zone,
// in both crystal frames of the boundary. Results are cached on r.
func (r *Result) PoleFigure(phase int, axis orient.Vec3, angleDeg float64, points int) (*PoleFigure, error) {
	h, err := r.Phase(phase)
	if err != nil {
		return nil, err
	}
	if points == 0 {
		points = DefaultPolePoints
	}
	switch {
	case points < 0:
		return nil, fmt.Errorf("%w: %d points", ErrPoleFigure, points)
	case axis.Length() == 0 || math.IsNaN(axis.Length()):
		return nil, fmt.Errorf("%w: zero misorientation axis", ErrPoleFigure)
	case math.IsNaN(angleDeg) || math.IsInf(angleDeg, 0):
		return nil, fmt.Errorf("%w: angle %v", ErrPoleFigure, angleDeg)
	}
	ops, ok := r.table.Operators(h.LaueClass)
	if !ok {
		return nil, fmt.Errorf("%w: phase %d has %v", ErrUnsupportedLaueClass, phase, h.LaueClass)
	}

	key := poleKey{phase: phase, axis: axis, angle: angleDeg, points: points}
	return r.poles.GetOrCreate(key, func() (*PoleFigure, error) {
		return buildPoleFigure(h, ops, axis, angleDeg, points), nil
	})
}

func buildPoleFigure(h *Histogram, ops []orient.Mat3, axis orient.Vec3, angleDeg float64, points int) *PoleFigure {
	pf := &PoleFigure{
		Phase:  h.Phase,
		Axis:   axis,
		Angle:  angleDeg,
		Points: points,
		Values: make([]float64, points*points),
		Mask:   make([]bool, points*points),
	}

	dg := orient.FromAxisAngle(axis, angleDeg*math.Pi/180)
	dgt := dg.Transpose()

	res := 2 / float64(points)
	half := points / 2
	for k := 0; k < points; k++ {
		for l := 0; l < points; l++ {
			x := float64(l-half)*res + res/2
			y := float64(k-half)*res + res/2
			r2 := x*x + y*y
			if r2 > 1 {
				continue
			}

			// Inverse stereographic projection onto the upper hemisphere.
			z := (1 - r2) / (1 + r2)
			v := orient.V3(x*(1+z), y*(1+z), z)
			v2 := dgt.MulVec(v)

			var sum float64
			count := 0
			for _, s1 := range ops {
				for _, s2 := range ops {
					if val, ok := h.sample(s1.Mul(dg.MulTranspose(s2)), s1.MulVec(v)); ok {
						sum += val
						count++
					}
					if val, ok := h.sample(s1.Mul(dgt.MulTranspose(s2)), s1.MulVec(v2)); ok {
						sum += val
						count++
					}
				}
			}

			i := k*points + l
			pf.Mask[i] = true
			if count > 0 {
				pf.Values[i] = sum / float64(count)
			}
		}
	}
	return pf
}

// sample returns the cell value for misorientation dg and crystal-frame
// normal n, or false when dg is outside the fundamental zone.
func (h *Histogram) sample(dg orient.Mat3, n orient.Vec3) (float64, bool) {
	e := dg.Euler()
	if e.Phi1 >= halfPi || e.Phi >= halfPi || e.Phi2 >= halfPi {
		return 0, false
	}
	sq, northern := SquareCoord(n)
	b := h.space.Locate([numAxes]float64{e.Phi1, math.Cos(e.Phi), e.Phi2, sq.X, sq.Y})
	if b < 0 {
		return 0, false
	}
	return h.Values[cell(b, northern)], true
}

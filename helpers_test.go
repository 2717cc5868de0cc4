package gbcd

import (
	"math"
	"testing"

	"github.com/gogpu/gbcd/internal/synth"
	"github.com/gogpu/gbcd/orient"
	"github.com/gogpu/gbcd/symmetry"
)

// grainPair describes the two grains of a bicrystal test input.
type grainPair struct {
	class  symmetry.LaueClass
	e1, e2 orient.Euler
}

// cubicPair returns two cubic grains in the identity orientation.
func cubicPair() grainPair {
	return grainPair{class: symmetry.CubicHigh}
}

// triclinicPair returns two triclinic grains in the identity orientation.
func triclinicPair() grainPair {
	return grainPair{class: symmetry.Triclinic}
}

var testNormals = []orient.Vec3{
	{0, 0, 1},
	{1, 0, 0},
	{0.6, 0.8, 0},
	{0, 0.6, -0.8},
	{0.48, -0.6, 0.64},
}

// twoGrainInput builds a single-phase bicrystal with n boundary triangles.
// Triangle t has area 1 + t/2 and cycles through testNormals.
func twoGrainInput(p grainPair, n int) *Input {
	in := &Input{
		FaceLabels:  make([]int32, 0, 2*n),
		FaceNormals: make([]float64, 0, 3*n),
		FaceAreas:   make([]float64, 0, n),
		FeatureEulers: []float32{
			float32(p.e1.Phi1), float32(p.e1.Phi), float32(p.e1.Phi2),
			float32(p.e2.Phi1), float32(p.e2.Phi), float32(p.e2.Phi2),
		},
		FeaturePhases:     []int32{1, 1},
		CrystalStructures: []uint32{uint32(symmetry.Unknown), uint32(p.class)},
	}
	for t := 0; t < n; t++ {
		nv := testNormals[t%len(testNormals)]
		in.FaceLabels = append(in.FaceLabels, 0, 1)
		in.FaceNormals = append(in.FaceNormals, nv[0], nv[1], nv[2])
		in.FaceAreas = append(in.FaceAreas, 1+float64(t)/2)
	}
	return in
}

// synthInput wraps a generated microstructure as an Input.
func synthInput(tb testing.TB, cfg synth.Config) *Input {
	tb.Helper()
	m, err := synth.Generate(cfg)
	if err != nil {
		tb.Fatalf("synth.Generate: %v", err)
	}
	return &Input{
		FaceLabels:        m.FaceLabels,
		FaceNormals:       m.FaceNormals,
		FaceAreas:         m.FaceAreas,
		FeatureEulers:     m.FeatureEulers,
		FeaturePhases:     m.FeaturePhases,
		CrystalStructures: m.CrystalStructures,
	}
}

// mixedConfig is a small two-phase microstructure with every exclusion kind.
func mixedConfig() synth.Config {
	return synth.Config{
		Seed:               42,
		Triangles:          300,
		Features:           24,
		Phases:             []symmetry.LaueClass{symmetry.CubicHigh, symmetry.HexagonalHigh},
		UnindexedFraction:  0.1,
		CrossPhaseFraction: 0.1,
	}
}

func approxEqual(a, b, relTol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

func assertFinite(t *testing.T, name string, vals []float64) {
	t.Helper()
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s[%d] = %v", name, i, v)
		}
	}
}

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	e := New(opts...)
	t.Cleanup(e.Close)
	return e
}

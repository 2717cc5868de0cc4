// Package synth generates deterministic synthetic grain-boundary meshes
// for tests, benchmarks and the gbcd command.
//
// Features are assigned to phases round-robin (feature f has phase
// 1 + f mod len(Phases)), orientations are uniform over SO(3), and each
// triangle joins two distinct features of one phase unless it is drawn
// as unindexed or cross-phase.
package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gogpu/gbcd/symmetry"
)

// ErrConfig is returned for an unusable Config.
var ErrConfig = errors.New("synth: invalid config")

// Config describes a synthetic microstructure.
type Config struct {
	Seed      uint64
	Triangles int
	Features  int

	// Phases lists the Laue class of phases 1..len(Phases). Phase 0 is
	// emitted as Unknown and never assigned.
	Phases []symmetry.LaueClass

	// UnindexedFraction of triangles get a -1 first label.
	UnindexedFraction float64

	// CrossPhaseFraction of triangles join features of different phases.
	// Ignored with a single phase.
	CrossPhaseFraction float64
}

// Microstructure holds the generated arrays in the layout consumed by
// gbcd.Input.
type Microstructure struct {
	FaceLabels        []int32
	FaceNormals       []float64
	FaceAreas         []float64
	FeatureEulers     []float32
	FeaturePhases     []int32
	CrystalStructures []uint32
}

// Generate builds a microstructure from cfg. Equal configs give equal
// output.
func Generate(cfg Config) (*Microstructure, error) {
	nph := len(cfg.Phases)
	switch {
	case cfg.Triangles < 0:
		return nil, fmt.Errorf("%w: %d triangles", ErrConfig, cfg.Triangles)
	case nph == 0:
		return nil, fmt.Errorf("%w: no phases", ErrConfig)
	case cfg.Features < 2*nph:
		return nil, fmt.Errorf("%w: %d features cannot give %d phases two features each", ErrConfig, cfg.Features, nph)
	case cfg.UnindexedFraction < 0 || cfg.UnindexedFraction > 1,
		cfg.CrossPhaseFraction < 0 || cfg.CrossPhaseFraction > 1:
		return nil, fmt.Errorf("%w: fractions must lie in [0, 1]", ErrConfig)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	m := &Microstructure{
		FaceLabels:        make([]int32, 2*cfg.Triangles),
		FaceNormals:       make([]float64, 3*cfg.Triangles),
		FaceAreas:         make([]float64, cfg.Triangles),
		FeatureEulers:     make([]float32, 3*cfg.Features),
		FeaturePhases:     make([]int32, cfg.Features),
		CrystalStructures: make([]uint32, nph+1),
	}

	m.CrystalStructures[0] = uint32(symmetry.Unknown)
	for i, c := range cfg.Phases {
		m.CrystalStructures[i+1] = uint32(c)
	}

	for f := 0; f < cfg.Features; f++ {
		m.FeaturePhases[f] = int32(1 + f%nph)
		m.FeatureEulers[3*f] = float32(2 * math.Pi * rng.Float64())
		m.FeatureEulers[3*f+1] = float32(math.Acos(2*rng.Float64() - 1))
		m.FeatureEulers[3*f+2] = float32(2 * math.Pi * rng.Float64())
	}

	for t := 0; t < cfg.Triangles; t++ {
		f1 := rng.IntN(cfg.Features)
		var f2 int
		if nph > 1 && rng.Float64() < cfg.CrossPhaseFraction {
			f2 = otherPhaseFeature(rng, f1, nph, cfg.Features)
		} else {
			f2 = samePhaseFeature(rng, f1, nph, cfg.Features)
		}
		if rng.Float64() < cfg.UnindexedFraction {
			f1 = -1
		}
		m.FaceLabels[2*t] = int32(f1)
		m.FaceLabels[2*t+1] = int32(f2)

		n := randomUnit(rng)
		copy(m.FaceNormals[3*t:3*t+3], n[:])
		m.FaceAreas[t] = 0.5 + rng.Float64()
	}
	return m, nil
}

// phaseCount returns how many of n features carry the phase of residue r.
func phaseCount(r, nph, n int) int {
	return (n - r + nph - 1) / nph
}

// samePhaseFeature picks a feature other than f with the same phase.
func samePhaseFeature(rng *rand.Rand, f, nph, n int) int {
	r := f % nph
	cnt := phaseCount(r, nph, n)
	i := (f/nph + 1 + rng.IntN(cnt-1)) % cnt
	return r + nph*i
}

// otherPhaseFeature picks a feature whose phase differs from that of f.
func otherPhaseFeature(rng *rand.Rand, f, nph, n int) int {
	r := (f%nph + 1 + rng.IntN(nph-1)) % nph
	return r + nph*rng.IntN(phaseCount(r, nph, n))
}

// randomUnit draws a direction uniformly on the sphere.
func randomUnit(rng *rand.Rand) [3]float64 {
	for {
		v := [3]float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		if l > 1e-9 {
			return [3]float64{v[0] / l, v[1] / l, v[2] / l}
		}
	}
}

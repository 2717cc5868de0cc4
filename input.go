package gbcd

import (
	"fmt"

	"github.com/gogpu/gbcd/orient"
	"github.com/gogpu/gbcd/symmetry"
)

// Input holds the mesh and feature arrays consumed by Compute. All slices
// are owned by the caller and only read.
//
// Triangles are indexed t in [0, N): FaceLabels[2t], FaceLabels[2t+1] are
// the features on either side, FaceNormals[3t:3t+3] the unit boundary
// normal, FaceAreas[t] the triangle area. Features are indexed f in [0, F):
// FeatureEulers[3f:3f+3] are average Bunge angles in radians and
// FeaturePhases[f] the phase. CrystalStructures[p] is the Laue class of
// phase p; phase 0 is conventionally unused.
//
// A negative face label marks an unindexed side and excludes the triangle.
// Both labels of a triangle normally differ; a triangle whose labels name
// the same feature is accepted and binned at the identity misorientation.
type Input struct {
	FaceLabels        []int32
	FaceNormals       []float64
	FaceAreas         []float64
	FeatureEulers     []float32
	FeaturePhases     []int32
	CrystalStructures []uint32
}

// NumTriangles returns N.
func (in *Input) NumTriangles() int { return len(in.FaceAreas) }

// NumFeatures returns F.
func (in *Input) NumFeatures() int { return len(in.FeaturePhases) }

// NumPhases returns P.
func (in *Input) NumPhases() int { return len(in.CrystalStructures) }

// Validate checks array shapes and cross references against t.
// Phases that no feature references may carry any crystal structure.
func (in *Input) Validate(t *symmetry.Table) error {
	n := in.NumTriangles()
	f := in.NumFeatures()
	p := in.NumPhases()

	switch {
	case len(in.FaceLabels) != 2*n:
		return fmt.Errorf("%w: %d face labels for %d triangles, want %d", ErrInputShape, len(in.FaceLabels), n, 2*n)
	case len(in.FaceNormals) != 3*n:
		return fmt.Errorf("%w: %d normal components for %d triangles, want %d", ErrInputShape, len(in.FaceNormals), n, 3*n)
	case len(in.FeatureEulers) != 3*f:
		return fmt.Errorf("%w: %d euler components for %d features, want %d", ErrInputShape, len(in.FeatureEulers), f, 3*f)
	case p == 0:
		return fmt.Errorf("%w: no crystal structures", ErrInputShape)
	}

	for i, l := range in.FaceLabels {
		if int(l) >= f {
			return fmt.Errorf("%w: triangle %d references feature %d of %d", ErrFeatureRange, i/2, l, f)
		}
	}

	used := make([]bool, p)
	for i, ph := range in.FeaturePhases {
		if ph < 0 || int(ph) >= p {
			return fmt.Errorf("%w: feature %d has phase %d of %d", ErrPhaseRange, i, ph, p)
		}
		used[ph] = true
	}
	for ph := 1; ph < p; ph++ {
		if !used[ph] {
			continue
		}
		c := symmetry.LaueClass(in.CrystalStructures[ph])
		if t.NumOperators(c) == 0 {
			return fmt.Errorf("%w: phase %d has %v", ErrUnsupportedLaueClass, ph, c)
		}
	}
	return nil
}

// labels returns the feature ids of triangle t.
func (in *Input) labels(t int) (int32, int32) {
	return in.FaceLabels[2*t], in.FaceLabels[2*t+1]
}

// normal returns the boundary normal of triangle t.
func (in *Input) normal(t int) orient.Vec3 {
	return orient.Vec3{in.FaceNormals[3*t], in.FaceNormals[3*t+1], in.FaceNormals[3*t+2]}
}

// euler returns the average orientation of feature f.
func (in *Input) euler(f int32) orient.Euler {
	return orient.EulerF32(in.FeatureEulers[3*f], in.FeatureEulers[3*f+1], in.FeatureEulers[3*f+2])
}

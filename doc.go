// Package gbcd computes grain boundary character distributions.
//
// # Overview
//
// A GBCD is an area-weighted histogram over the five macroscopic degrees of
// freedom of a grain boundary: the misorientation between the two grains
// (three Euler angles) and the boundary-plane normal in the crystal frame
// (two coordinates of an equal-area square projection). Each boundary
// triangle is folded through every pair of crystal symmetry operators, so
// all physically equivalent descriptions of it land in the same cells.
// The result is expressed in multiples of random distribution (MRD), where
// a uniform population reads 1 everywhere.
//
// # Quick Start
//
//	import "github.com/gogpu/gbcd"
//
//	e := gbcd.New(gbcd.WithResolution(9))
//	defer e.Close()
//
//	res, err := e.Compute(ctx, &gbcd.Input{
//	    FaceLabels:        labels,   // 2 per triangle
//	    FaceNormals:       normals,  // 3 per triangle
//	    FaceAreas:         areas,    // 1 per triangle
//	    FeatureEulers:     eulers,   // 3 per grain, radians
//	    FeaturePhases:     phases,   // 1 per grain
//	    CrystalStructures: classes,  // 1 per phase, symmetry.LaueClass values
//	})
//	h, _ := res.Phase(1)
//	fmt.Println(h.Summary().Max)
//
// # Binning
//
// The misorientation axes are φ1 in [0, π/2], cos Φ in [0, 1] and φ2 in
// [0, π/2]; only representations with all three angles below π/2 are
// recorded. The normal axes form a square grid over [-√(π/2), √(π/2)]²
// with a separate cell per hemisphere. See [SpaceConfig] and [SquareCoord].
//
// # Architecture
//
// The package is organized into:
//   - Public API: Engine, Input, Result, Histogram, PoleFigure
//   - Sub-packages: orient (rotation matrices and Euler angles),
//     symmetry (Laue-class operator tables)
//   - Internal: parallel (worker pool), cache (pole-figure LRU),
//     colormap (pole-figure colours), synth (synthetic meshes)
//
// # Concurrency
//
// Triangles are processed in bounded chunks. Within a chunk the expensive
// symmetry enumeration runs on a work-stealing pool, each triangle writing
// only its own scratch row. Accumulation into the histograms happens on the
// goroutine that called Compute, in ascending triangle order, so results are
// identical for any worker count.
//
// # Observability
//
// Logging goes through [SetLogger] and is silent by default. Prometheus
// collectors are attached with [WithMetrics], and Compute emits
// OpenTelemetry spans through the global tracer provider.
package gbcd

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)

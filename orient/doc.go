// Package orient provides the rotation arithmetic used by the GBCD engine.
//
// Orientations are passive rotation matrices (sample frame to crystal frame)
// in row-major order, built from Bunge (ZXZ) Euler angles in radians.
// All arithmetic is float64; Euler input from the feature layer is float32
// and is widened on entry.
package orient

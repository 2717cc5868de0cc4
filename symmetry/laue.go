// Package symmetry provides the crystal rotation-symmetry operators for each
// Laue class, keyed by the conventional crystal-structure enumeration.
//
// The table is built once from the rotation quaternions of each point group
// and is read-only afterwards, so a single Table may be shared by any number
// of goroutines.
package symmetry

import "fmt"

// LaueClass identifies the rotational point group of a crystal phase.
// The numeric values match the crystal-structure arrays produced by EBSD
// import pipelines and must not be reordered.
type LaueClass uint32

const (
	HexagonalHigh  LaueClass = 0  // 6/mmm
	CubicHigh      LaueClass = 1  // m-3m
	HexagonalLow   LaueClass = 2  // 6/m
	CubicLow       LaueClass = 3  // m-3
	Triclinic      LaueClass = 4  // -1
	Monoclinic     LaueClass = 5  // 2/m
	OrthoRhombic   LaueClass = 6  // mmm
	TetragonalLow  LaueClass = 7  // 4/m
	TetragonalHigh LaueClass = 8  // 4/mmm
	TrigonalLow    LaueClass = 9  // -3
	TrigonalHigh   LaueClass = 10 // -3m

	// Unknown marks a phase without a crystal structure (conventionally phase 0).
	Unknown LaueClass = 999
)

// numClasses is the number of supported classes (0..TrigonalHigh).
const numClasses = int(TrigonalHigh) + 1

var classNames = [numClasses]string{
	HexagonalHigh:  "Hexagonal-High 6/mmm",
	CubicHigh:      "Cubic-High m-3m",
	HexagonalLow:   "Hexagonal-Low 6/m",
	CubicLow:       "Cubic-Low m-3 (Tetrahedral)",
	Triclinic:      "Triclinic -1",
	Monoclinic:     "Monoclinic 2/m",
	OrthoRhombic:   "OrthoRhombic mmm",
	TetragonalLow:  "Tetragonal-Low 4/m",
	TetragonalHigh: "Tetragonal-High 4/mmm",
	TrigonalLow:    "Trigonal-Low -3",
	TrigonalHigh:   "Trigonal-High -3m",
}

// Valid reports whether c names a supported Laue class.
func (c LaueClass) Valid() bool {
	return int(c) < numClasses
}

// String returns the class name with its Hermann-Mauguin symbol.
func (c LaueClass) String() string {
	if c.Valid() {
		return classNames[c]
	}
	if c == Unknown {
		return "Unknown"
	}
	return fmt.Sprintf("LaueClass(%d)", uint32(c))
}

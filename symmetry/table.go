package symmetry

import (
	"math"
	"sync"

	"github.com/gogpu/gbcd/orient"
)

// quat is a rotation quaternion (x, y, z, w) with w the scalar part.
type quat [4]float64

const (
	r2 = math.Sqrt2 / 2     // 1/√2
	r3 = 0.8660254037844386 // √3/2
)

// Rotation quaternions per class, identity first.
var classQuats = [numClasses][]quat{
	HexagonalHigh: {
		{0, 0, 0, 1}, {0, 0, 0.5, r3}, {0, 0, r3, 0.5}, {0, 0, 1, 0},
		{0, 0, r3, -0.5}, {0, 0, 0.5, -r3},
		{1, 0, 0, 0}, {r3, 0.5, 0, 0}, {0.5, r3, 0, 0}, {0, 1, 0, 0},
		{-0.5, r3, 0, 0}, {-r3, 0.5, 0, 0},
	},
	CubicHigh: {
		{0, 0, 0, 1}, {1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0},
		{r2, 0, 0, r2}, {0, r2, 0, r2}, {0, 0, r2, r2},
		{-r2, 0, 0, r2}, {0, -r2, 0, r2}, {0, 0, -r2, r2},
		{r2, r2, 0, 0}, {-r2, r2, 0, 0}, {0, r2, r2, 0},
		{0, -r2, r2, 0}, {r2, 0, r2, 0}, {-r2, 0, r2, 0},
		{0.5, 0.5, 0.5, 0.5}, {-0.5, -0.5, -0.5, 0.5},
		{0.5, -0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5, 0.5},
		{-0.5, 0.5, 0.5, 0.5}, {0.5, -0.5, -0.5, 0.5},
		{-0.5, -0.5, 0.5, 0.5}, {0.5, 0.5, -0.5, 0.5},
	},
	HexagonalLow: {
		{0, 0, 0, 1}, {0, 0, 0.5, r3}, {0, 0, r3, 0.5}, {0, 0, 1, 0},
		{0, 0, r3, -0.5}, {0, 0, 0.5, -r3},
	},
	CubicLow: {
		{0, 0, 0, 1}, {1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0},
		{0.5, 0.5, 0.5, 0.5}, {-0.5, -0.5, -0.5, 0.5},
		{0.5, -0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5, 0.5},
		{-0.5, 0.5, 0.5, 0.5}, {0.5, -0.5, -0.5, 0.5},
		{-0.5, -0.5, 0.5, 0.5}, {0.5, 0.5, -0.5, 0.5},
	},
	Triclinic: {
		{0, 0, 0, 1},
	},
	Monoclinic: {
		{0, 0, 0, 1}, {0, 1, 0, 0},
	},
	OrthoRhombic: {
		{0, 0, 0, 1}, {1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0},
	},
	TetragonalLow: {
		{0, 0, 0, 1}, {0, 0, 1, 0}, {0, 0, r2, -r2}, {0, 0, r2, r2},
	},
	TetragonalHigh: {
		{0, 0, 0, 1}, {1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0},
		{0, 0, r2, r2}, {0, 0, -r2, r2}, {r2, r2, 0, 0}, {-r2, r2, 0, 0},
	},
	TrigonalLow: {
		{0, 0, 0, 1}, {0, 0, r3, 0.5}, {0, 0, r3, -0.5},
	},
	TrigonalHigh: {
		{0, 0, 0, 1}, {0, 0, r3, 0.5}, {0, 0, r3, -0.5},
		{1, 0, 0, 0}, {-0.5, r3, 0, 0}, {-0.5, -r3, 0, 0},
	},
}

// Table maps each Laue class to its ordered operator matrices.
// A Table is immutable and safe for concurrent use.
type Table struct {
	ops    [numClasses][]orient.Mat3
	maxOps int
}

// NewTable builds the operator table.
func NewTable() *Table {
	t := &Table{}
	for c, qs := range classQuats {
		ops := make([]orient.Mat3, len(qs))
		for i, q := range qs {
			ops[i] = snap(orient.FromQuaternion(q[0], q[1], q[2], q[3]))
		}
		t.ops[c] = ops
		t.maxOps = max(t.maxOps, len(ops))
	}
	return t
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide shared table.
func Default() *Table {
	defaultOnce.Do(func() { defaultTable = NewTable() })
	return defaultTable
}

// Operators returns the operator matrices for c. The returned slice is shared
// and must not be modified. ok is false for unsupported classes.
func (t *Table) Operators(c LaueClass) (ops []orient.Mat3, ok bool) {
	if !c.Valid() {
		return nil, false
	}
	return t.ops[c], true
}

// NumOperators returns the operator count for c, or 0 if unsupported.
func (t *Table) NumOperators(c LaueClass) int {
	if !c.Valid() {
		return 0
	}
	return len(t.ops[c])
}

// MaxOperators returns the largest operator count in the table.
func (t *Table) MaxOperators() int {
	return t.maxOps
}

// exact holds values that symmetry operator elements take exactly.
var exact = [...]float64{0, 0.5, -0.5, 1, -1, r3, -r3, r2, -r2}

// snap replaces elements within rounding distance of an exact value, so
// products of cubic operators stay exactly integral.
func snap(m orient.Mat3) orient.Mat3 {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for _, v := range exact {
				if math.Abs(m[i][j]-v) < 1e-12 {
					m[i][j] = v
					break
				}
			}
		}
	}
	return m
}

package gbcd

import (
	"github.com/gogpu/gbcd/orient"
	"github.com/gogpu/gbcd/symmetry"
)

// outcome classifies a triangle before binning.
type outcome uint8

const (
	outcomeBinned          outcome = iota // both sides indexed, same valid phase
	outcomeUnindexed                      // a face label is negative
	outcomeCrossPhase                     // features belong to different phases
	outcomeUnassignedPhase                // shared phase is 0 or negative
)

// String returns the metric label value.
func (o outcome) String() string {
	switch o {
	case outcomeBinned:
		return "binned"
	case outcomeUnindexed:
		return "unindexed"
	case outcomeCrossPhase:
		return "cross_phase"
	case outcomeUnassignedPhase:
		return "unassigned_phase"
	default:
		return "unknown"
	}
}

// scratch is the per-chunk arena. Triangle i of the chunk owns
// bins[offsets[i]:offsets[i+1]] and the matching hemi entries, so binning
// goroutines never share a slot. Row length is 4·nsym² of the triangle's
// phase, zero for excluded triangles.
//
// The engine owns one scratch and reuses it for every chunk.
type scratch struct {
	bins     []int32
	hemi     []bool
	offsets  []int
	phases   []int32
	outcomes []outcome
	ops      [][]orient.Mat3
}

// rowLen returns the representation count of a triangle whose phase has
// nsym operators: two sides, nsym² operator pairs, two hemispheres.
func rowLen(nsym int) int {
	return 4 * nsym * nsym
}

// classify decides whether triangle t is binned and under which phase.
// Input.Validate guarantees that labels and phases are in range.
func classify(in *Input, t int) (phase int32, o outcome) {
	f1, f2 := in.labels(t)
	if f1 < 0 || f2 < 0 {
		return 0, outcomeUnindexed
	}
	p1, p2 := in.FeaturePhases[f1], in.FeaturePhases[f2]
	if p1 != p2 {
		return 0, outcomeCrossPhase
	}
	if p1 <= 0 {
		return 0, outcomeUnassignedPhase
	}
	return p1, outcomeBinned
}

// layout classifies triangles [start, end), sizes the arena for them and
// resets every slot to the -1 sentinel.
func (s *scratch) layout(in *Input, table *symmetry.Table, start, end int) {
	count := end - start
	s.offsets = grow(s.offsets, count+1)
	s.phases = grow(s.phases, count)
	s.outcomes = grow(s.outcomes, count)
	s.ops = grow(s.ops, count)

	s.offsets[0] = 0
	for i := 0; i < count; i++ {
		phase, o := classify(in, start+i)
		s.phases[i] = phase
		s.outcomes[i] = o
		s.ops[i] = nil
		n := 0
		if o == outcomeBinned {
			s.ops[i], _ = table.Operators(symmetry.LaueClass(in.CrystalStructures[phase]))
			n = rowLen(len(s.ops[i]))
		}
		s.offsets[i+1] = s.offsets[i] + n
	}

	total := s.offsets[count]
	s.bins = grow(s.bins, total)
	s.hemi = grow(s.hemi, total)
	for i := range s.bins {
		s.bins[i] = -1
	}
	clear(s.hemi)
}

// row returns the slots owned by chunk triangle i.
func (s *scratch) row(i int) ([]int32, []bool) {
	lo, hi := s.offsets[i], s.offsets[i+1]
	return s.bins[lo:hi], s.hemi[lo:hi]
}

// grow returns buf resliced to n elements, reallocating only when the
// capacity is too small.
func grow[T any](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}

package gbcd

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/gogpu/gbcd/internal/cache"
	"github.com/gogpu/gbcd/symmetry"
)

// poleCacheSize bounds the pole figures memoized per Result.
const poleCacheSize = 16

// Result is the output of one Compute call.
type Result struct {
	// RunID identifies the run in logs and traces.
	RunID uuid.UUID

	// Space is the bin layout shared by all histograms.
	Space SpaceConfig

	// Phases holds one histogram per phase, indexed by phase id.
	// Phase 0 is present and stays empty.
	Phases []*Histogram

	// Partial is set when the run was canceled. The histograms then hold
	// the chunks reduced so far and are not normalized.
	Partial bool

	// Normalized is set once every non-empty histogram is in MRD units.
	Normalized bool

	// TrianglesProcessed counts triangles in fully reduced chunks.
	TrianglesProcessed int

	// Representations counts accumulated (bin, hemisphere) entries.
	Representations int

	// Exclusions tallies triangles skipped by the statistics.
	Exclusions Exclusions

	table *symmetry.Table
	poles *cache.LRU[poleKey, *PoleFigure]
}

func newResult(id uuid.UUID, sc SpaceConfig, in *Input, table *symmetry.Table) *Result {
	r := &Result{
		RunID:  id,
		Space:  sc,
		Phases: make([]*Histogram, in.NumPhases()),
		table:  table,
		poles:  cache.New[poleKey, *PoleFigure](poleCacheSize),
	}
	cells := 2 * sc.TotalBins()
	for p := range r.Phases {
		r.Phases[p] = &Histogram{
			Phase:     p,
			LaueClass: symmetry.LaueClass(in.CrystalStructures[p]),
			Values:    make([]float64, cells),
			space:     &r.Space,
		}
	}
	return r
}

// Phase returns the histogram of phase p.
func (r *Result) Phase(p int) (*Histogram, error) {
	if p < 0 || p >= len(r.Phases) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoPhase, p, len(r.Phases))
	}
	return r.Phases[p], nil
}

// normalize rescales every histogram with accumulated area into MRD units:
// each cell is multiplied by the cell count over the accumulated area, so a
// uniform distribution reads 1 everywhere. Empty histograms are left as
// zeros.
func (r *Result) normalize() {
	for _, h := range r.Phases {
		if h.TotalArea <= 0 {
			continue
		}
		floats.Scale(float64(len(h.Values))/h.TotalArea, h.Values)
	}
	r.Normalized = true
}

// Histogram is the GBCD of one phase: a flat array of
// Sizes[0]·…·Sizes[4]·2 cells, the hemisphere varying fastest, then axis
// 0 through axis 4.
type Histogram struct {
	Phase     int
	LaueClass symmetry.LaueClass
	Values    []float64

	// TotalArea is the area accumulated over all recorded representations,
	// the divisor of the MRD scaling.
	TotalArea float64

	// FaceArea counts each binned triangle's area once.
	FaceArea float64

	// Triangles is the number of binned triangles.
	Triangles int

	space *SpaceConfig
}

// Index returns the cell offset of per-axis bin indices and a hemisphere.
func (h *Histogram) Index(i0, i1, i2, i3, i4 int, northern bool) int {
	return cell(int32(h.space.Index(i0, i1, i2, i3, i4)), northern)
}

// At returns the value of a cell. Indices must be within Space.Sizes.
func (h *Histogram) At(i0, i1, i2, i3, i4 int, northern bool) float64 {
	return h.Values[h.Index(i0, i1, i2, i3, i4, northern)]
}

// Mass returns the sum of all cells.
func (h *Histogram) Mass() float64 {
	return floats.Sum(h.Values)
}

// Exclusions counts triangles that contribute nothing, by reason.
type Exclusions struct {
	Unindexed       int
	CrossPhase      int
	UnassignedPhase int
}

// Total returns the number of excluded triangles.
func (x Exclusions) Total() int {
	return x.Unindexed + x.CrossPhase + x.UnassignedPhase
}

func (x *Exclusions) add(o outcome) {
	switch o {
	case outcomeUnindexed:
		x.Unindexed++
	case outcomeCrossPhase:
		x.CrossPhase++
	case outcomeUnassignedPhase:
		x.UnassignedPhase++
	}
}

func (x *Exclusions) merge(o Exclusions) {
	x.Unindexed += o.Unindexed
	x.CrossPhase += o.CrossPhase
	x.UnassignedPhase += o.UnassignedPhase
}

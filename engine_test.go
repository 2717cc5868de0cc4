package gbcd

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gbcd/symmetry"
)

// =============================================================================
// Scenarios
// =============================================================================

func TestCompute_IdenticalOrientations(t *testing.T) {
	e := newTestEngine(t, WithWorkers(2))
	in := twoGrainInput(cubicPair(), 2)

	res, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	h, err := res.Phase(1)
	if err != nil {
		t.Fatal(err)
	}

	// Areas 1 and 1.5, each recorded for 24 operators, 2 sides, 2 hemispheres.
	if h.FaceArea != 2.5 {
		t.Errorf("FaceArea = %v, want 2.5", h.FaceArea)
	}
	if h.TotalArea != 96*2.5 {
		t.Errorf("TotalArea = %v, want %v", h.TotalArea, 96*2.5)
	}
	if h.Triangles != 2 {
		t.Errorf("Triangles = %d, want 2", h.Triangles)
	}

	sc := res.Space
	for c, v := range h.Values {
		if v == 0 {
			continue
		}
		idx := sc.Unindex(c / 2)
		if idx[AxisPhi1] != 0 || idx[AxisCosPhi] != sc.Sizes[AxisCosPhi]-1 || idx[AxisPhi2] != 0 {
			t.Fatalf("cell %d (%v) holds %v outside the identity misorientation", c, idx, v)
		}
	}

	// Undo the MRD scaling: all raw mass sits in the identity bins.
	raw := h.Mass() * h.TotalArea / float64(len(h.Values))
	if !approxEqual(raw, h.TotalArea, 1e-12) {
		t.Errorf("raw mass = %v, want %v", raw, h.TotalArea)
	}
}

func TestCompute_SameFeatureBinnedAsIdentity(t *testing.T) {
	e := newTestEngine(t)
	pair, err := e.Compute(context.Background(), twoGrainInput(cubicPair(), 3))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	in := twoGrainInput(cubicPair(), 3)
	for i := range in.FaceLabels {
		in.FaceLabels[i] = 0
	}
	self, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if self.Exclusions.Total() != 0 {
		t.Errorf("exclusions = %+v, want none", self.Exclusions)
	}
	a, b := pair.Phases[1], self.Phases[1]
	if a.Triangles != b.Triangles || a.TotalArea != b.TotalArea {
		t.Fatalf("self boundary: triangles %d area %v, want %d %v", b.Triangles, b.TotalArea, a.Triangles, a.TotalArea)
	}
	for c := range a.Values {
		if a.Values[c] != b.Values[c] {
			t.Fatalf("cell %d = %v, want %v", c, b.Values[c], a.Values[c])
		}
	}
}

func TestCompute_UnindexedExcluded(t *testing.T) {
	e := newTestEngine(t)
	in := twoGrainInput(cubicPair(), 2)
	in.FaceLabels[0] = -1

	res, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	h, _ := res.Phase(1)
	if res.Exclusions.Unindexed != 1 {
		t.Errorf("Unindexed = %d, want 1", res.Exclusions.Unindexed)
	}
	// Only the second triangle (area 1.5) contributes.
	if h.FaceArea != 1.5 || h.TotalArea != 96*1.5 {
		t.Errorf("FaceArea = %v, TotalArea = %v; want 1.5 and %v", h.FaceArea, h.TotalArea, 96*1.5)
	}

	in.FaceLabels[2] = -1
	res, err = e.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	h, _ = res.Phase(1)
	if h.Mass() != 0 || h.TotalArea != 0 {
		t.Errorf("unindexed triangles contributed mass %v", h.Mass())
	}
	assertFinite(t, "phase 1", h.Values)
}

func TestCompute_CrossPhaseExcluded(t *testing.T) {
	e := newTestEngine(t)
	in := twoGrainInput(cubicPair(), 2)
	in.FeaturePhases = []int32{1, 2}
	in.CrystalStructures = append(in.CrystalStructures, uint32(symmetry.CubicHigh))

	res, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Exclusions.CrossPhase != 2 {
		t.Errorf("CrossPhase = %d, want 2", res.Exclusions.CrossPhase)
	}
	for _, h := range res.Phases {
		if h.Mass() != 0 {
			t.Errorf("phase %d has mass %v", h.Phase, h.Mass())
		}
	}
}

func TestCompute_ZeroAreaPhase(t *testing.T) {
	e := newTestEngine(t)
	in := twoGrainInput(cubicPair(), 3)
	// Phase 2 exists but no boundary lies in it.
	in.FeatureEulers = append(in.FeatureEulers, 0, 0, 0)
	in.FeaturePhases = append(in.FeaturePhases, 2)
	in.CrystalStructures = append(in.CrystalStructures, uint32(symmetry.HexagonalHigh))

	res, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !res.Normalized || res.Partial {
		t.Errorf("Normalized = %v, Partial = %v", res.Normalized, res.Partial)
	}
	for _, h := range res.Phases {
		assertFinite(t, h.LaueClass.String(), h.Values)
	}
	h2, _ := res.Phase(2)
	if h2.TotalArea != 0 || h2.Mass() != 0 {
		t.Errorf("phase 2 TotalArea = %v, mass = %v; want zeros", h2.TotalArea, h2.Mass())
	}
	h1, _ := res.Phase(1)
	if !approxEqual(h1.Mass(), float64(len(h1.Values)), 1e-9) {
		t.Errorf("phase 1 mass = %v, want %d", h1.Mass(), len(h1.Values))
	}
}

func TestCompute_UnassignedPhaseExcluded(t *testing.T) {
	e := newTestEngine(t)
	in := twoGrainInput(cubicPair(), 2)
	in.FeaturePhases = []int32{0, 0}

	res, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Exclusions.UnassignedPhase != 2 || res.Exclusions.Total() != 2 {
		t.Errorf("Exclusions = %+v", res.Exclusions)
	}
	if res.Representations != 0 {
		t.Errorf("Representations = %d, want 0", res.Representations)
	}
}

// =============================================================================
// Invariants
// =============================================================================

func TestCompute_MassConservation(t *testing.T) {
	e := newTestEngine(t)
	in := synthInput(t, mixedConfig())

	res, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	reps := 0
	for _, h := range res.Phases {
		if h.TotalArea == 0 {
			if h.Mass() != 0 {
				t.Errorf("phase %d: mass %v without area", h.Phase, h.Mass())
			}
			continue
		}
		// MRD scaling maps a mass equal to TotalArea onto the cell count.
		if !approxEqual(h.Mass(), float64(len(h.Values)), 1e-9) {
			t.Errorf("phase %d: mass %v, want %d", h.Phase, h.Mass(), len(h.Values))
		}
		if h.TotalArea < h.FaceArea {
			t.Errorf("phase %d: TotalArea %v below FaceArea %v", h.Phase, h.TotalArea, h.FaceArea)
		}
		reps += h.Triangles
	}

	ex := res.Exclusions
	if reps+ex.Total() != len(in.FaceAreas) {
		t.Errorf("binned %d + excluded %d != %d triangles", reps, ex.Total(), len(in.FaceAreas))
	}
	if ex.Unindexed == 0 || ex.CrossPhase == 0 {
		t.Errorf("expected both exclusion kinds, got %+v", ex)
	}
	if res.TrianglesProcessed != len(in.FaceAreas) {
		t.Errorf("TrianglesProcessed = %d, want %d", res.TrianglesProcessed, len(in.FaceAreas))
	}
}

func TestCompute_IndependentOfWorkersAndChunks(t *testing.T) {
	in := synthInput(t, mixedConfig())

	base, err := newTestEngine(t, WithWorkers(1)).Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	variants := []struct {
		name string
		opts []EngineOption
	}{
		{"4 workers", []EngineOption{WithWorkers(4)}},
		{"chunk 37", []EngineOption{WithWorkers(3), WithChunkSize(37)}},
		{"chunk 1", []EngineOption{WithWorkers(2), WithChunkSize(1)}},
	}
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			res, err := newTestEngine(t, v.opts...).Compute(context.Background(), in)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			for p := range base.Phases {
				a, b := base.Phases[p], res.Phases[p]
				if a.TotalArea != b.TotalArea || a.FaceArea != b.FaceArea {
					t.Errorf("phase %d areas differ: %v/%v vs %v/%v", p, a.TotalArea, a.FaceArea, b.TotalArea, b.FaceArea)
				}
				if !slices.Equal(a.Values, b.Values) {
					t.Errorf("phase %d histogram differs", p)
				}
			}
			if res.Representations != base.Representations || res.Exclusions != base.Exclusions {
				t.Errorf("counts differ: %d %+v vs %d %+v", res.Representations, res.Exclusions, base.Representations, base.Exclusions)
			}
		})
	}
}

func TestCompute_ReusesEngine(t *testing.T) {
	e := newTestEngine(t, WithChunkSize(16))
	in := synthInput(t, mixedConfig())

	a, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Compute(context.Background(), twoGrainInput(cubicPair(), 1))
	if err != nil {
		t.Fatal(err)
	}
	c, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if a.RunID == c.RunID || a.RunID == b.RunID {
		t.Error("run ids must be unique")
	}
	for p := range a.Phases {
		if !slices.Equal(a.Phases[p].Values, c.Phases[p].Values) {
			t.Errorf("phase %d differs after engine reuse", p)
		}
	}
}

func TestCompute_Empty(t *testing.T) {
	e := newTestEngine(t)
	in := twoGrainInput(cubicPair(), 0)

	res, err := e.Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Partial || !res.Normalized || res.TrianglesProcessed != 0 {
		t.Errorf("unexpected result state %+v", res)
	}
}

// =============================================================================
// Cancellation and lifecycle
// =============================================================================

func TestCompute_CanceledBeforeStart(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Compute(ctx, twoGrainInput(cubicPair(), 4))
	if !errors.Is(err, ErrPartial) || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want ErrPartial wrapping context.Canceled", err)
	}
	if res == nil || !res.Partial || res.Normalized || res.TrianglesProcessed != 0 {
		t.Fatalf("unexpected partial result %+v", res)
	}
}

func TestCompute_CanceledBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	e := newTestEngine(t, WithChunkSize(2), WithProgress(func(done, total int) {
		calls++
		if done == 4 {
			cancel()
		}
	}))
	in := twoGrainInput(cubicPair(), 10)

	res, err := e.Compute(ctx, in)
	if !errors.Is(err, ErrPartial) {
		t.Fatalf("err = %v, want ErrPartial", err)
	}
	if !res.Partial || res.Normalized {
		t.Errorf("Partial = %v, Normalized = %v", res.Partial, res.Normalized)
	}
	if res.TrianglesProcessed != 4 || calls != 2 {
		t.Errorf("TrianglesProcessed = %d after %d callbacks, want 4 after 2", res.TrianglesProcessed, calls)
	}

	// The reduced chunks are intact raw areas: areas 1, 1.5, 2, 2.5.
	h, _ := res.Phase(1)
	if h.FaceArea != 7 || h.TotalArea != 96*7 || h.Mass() != 96*7 {
		t.Errorf("FaceArea = %v, TotalArea = %v, mass = %v", h.FaceArea, h.TotalArea, h.Mass())
	}
}

func TestCompute_Progress(t *testing.T) {
	var got [][2]int
	e := newTestEngine(t, WithChunkSize(3), WithProgress(func(done, total int) {
		got = append(got, [2]int{done, total})
	}))
	if _, err := e.Compute(context.Background(), twoGrainInput(triclinicPair(), 7)); err != nil {
		t.Fatal(err)
	}
	want := [][2]int{{3, 7}, {6, 7}, {7, 7}}
	if !slices.Equal(got, want) {
		t.Errorf("progress = %v, want %v", got, want)
	}
}

func TestCompute_AfterClose(t *testing.T) {
	e := New()
	e.Close()
	e.Close()

	if _, err := e.Compute(context.Background(), twoGrainInput(cubicPair(), 1)); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("err = %v, want ErrEngineClosed", err)
	}
}

// =============================================================================
// Configuration errors
// =============================================================================

func TestCompute_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		opts   []EngineOption
		mutate func(*Input)
		want   error
	}{
		{"bad resolution", []EngineOption{WithResolution(200)}, func(*Input) {}, ErrInvalidResolution},
		{"zero resolution", []EngineOption{WithResolution(0)}, func(*Input) {}, ErrInvalidResolution},
		{"short labels", nil, func(in *Input) { in.FaceLabels = in.FaceLabels[:3] }, ErrInputShape},
		{"short normals", nil, func(in *Input) { in.FaceNormals = in.FaceNormals[:5] }, ErrInputShape},
		{"short eulers", nil, func(in *Input) { in.FeatureEulers = in.FeatureEulers[:4] }, ErrInputShape},
		{"no phases", nil, func(in *Input) { in.CrystalStructures = nil }, ErrInputShape},
		{"label past features", nil, func(in *Input) { in.FaceLabels[1] = 2 }, ErrFeatureRange},
		{"phase past structures", nil, func(in *Input) { in.FeaturePhases[0] = 5 }, ErrPhaseRange},
		{"negative phase", nil, func(in *Input) { in.FeaturePhases[1] = -1 }, ErrPhaseRange},
		{"unknown class", nil, func(in *Input) { in.CrystalStructures[1] = uint32(symmetry.Unknown) }, ErrUnsupportedLaueClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, tt.opts...)
			in := twoGrainInput(cubicPair(), 2)
			tt.mutate(in)
			res, err := e.Compute(context.Background(), in)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Error("configuration error returned a result")
			}
		})
	}
}

func TestCompute_NilInput(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.Compute(context.Background(), nil)
	if !errors.Is(err, ErrInputShape) {
		t.Errorf("err = %v, want ErrInputShape", err)
	}
	if res != nil {
		t.Error("nil input returned a result")
	}
}

func TestValidate_UnusedPhaseMayBeUnknown(t *testing.T) {
	in := twoGrainInput(cubicPair(), 1)
	in.CrystalStructures = append(in.CrystalStructures, 12345)
	if err := in.Validate(symmetry.Default()); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkCompute(b *testing.B) {
	in := synthInput(b, mixedConfig())
	e := New()
	defer e.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Compute(context.Background(), in); err != nil {
			b.Fatal(err)
		}
	}
}

// Command gbcd computes the grain boundary character distribution of a
// synthetic microstructure and prints a per-phase summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jaypipes/ghw"
	"github.com/jfcg/sorty"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/gbcd"
	"github.com/gogpu/gbcd/internal/synth"
	"github.com/gogpu/gbcd/orient"
	"github.com/gogpu/gbcd/symmetry"
)

func main() {
	var (
		res       = flag.Float64("res", gbcd.DefaultResolution, "angular bin width in degrees")
		triangles = flag.Int("triangles", 20000, "number of boundary triangles")
		features  = flag.Int("features", 500, "number of grains")
		phases    = flag.String("phases", "1", "comma-separated Laue class per phase (1 = cubic m-3m, 0 = hexagonal 6/mmm)")
		seed      = flag.Uint64("seed", 1, "random seed")
		unindexed = flag.Float64("unindexed", 0.02, "fraction of unindexed triangles")
		cross     = flag.Float64("cross", 0.05, "fraction of cross-phase triangles")
		chunk     = flag.Int("chunk", gbcd.DefaultChunkSize, "triangles per chunk")
		workers   = flag.Int("workers", 0, "binning goroutines (0 = physical cores)")
		top       = flag.Int("top", 5, "highest cells to list per phase")
		poleAxis  = flag.String("pole-axis", "1,1,1", "misorientation axis for the pole figure")
		poleAngle = flag.Float64("pole-angle", 60, "misorientation angle in degrees for the pole figure")
		verbose   = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	if *verbose {
		gbcd.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	classes, err := parseClasses(*phases)
	check(err)
	axis, err := parseAxis(*poleAxis)
	check(err)

	m, err := synth.Generate(synth.Config{
		Seed:               *seed,
		Triangles:          *triangles,
		Features:           *features,
		Phases:             classes,
		UnindexedFraction:  *unindexed,
		CrossPhaseFraction: *cross,
	})
	check(err)

	n := *workers
	if n <= 0 {
		n = physicalCores()
	}
	sorty.Mxg = uint32(n)

	p := message.NewPrinter(language.English)
	color.HiBlue("gbcd %s: %s triangles, %s grains, %d phase(s), %v° bins, %d workers",
		gbcd.Version, p.Sprintf("%d", *triangles), p.Sprintf("%d", *features), len(classes), *res, n)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	e := gbcd.New(
		gbcd.WithResolution(*res),
		gbcd.WithChunkSize(*chunk),
		gbcd.WithWorkers(n),
		gbcd.WithMetrics(gbcd.NewMetrics(reg)),
		gbcd.WithProgress(func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r%s / %s triangles", p.Sprintf("%d", done), p.Sprintf("%d", total))
		}),
	)
	defer e.Close()

	start := time.Now()
	result, err := e.Compute(ctx, &gbcd.Input{
		FaceLabels:        m.FaceLabels,
		FaceNormals:       m.FaceNormals,
		FaceAreas:         m.FaceAreas,
		FeatureEulers:     m.FeatureEulers,
		FeaturePhases:     m.FeaturePhases,
		CrystalStructures: m.CrystalStructures,
	})
	fmt.Fprintln(os.Stderr)
	if errors.Is(err, gbcd.ErrPartial) {
		color.HiYellow("canceled after %s triangles; histogram is partial", p.Sprintf("%d", result.TrianglesProcessed))
		printCounters(reg)
		return
	}
	check(err)

	color.HiGreen("run %s finished in %v", result.RunID, time.Since(start).Round(time.Millisecond))
	ex := result.Exclusions
	p.Printf("representations %d, excluded %d (unindexed %d, cross-phase %d, unassigned %d)\n",
		result.Representations, ex.Total(), ex.Unindexed, ex.CrossPhase, ex.UnassignedPhase)

	for _, h := range result.Phases[1:] {
		printPhase(p, h, *top)
		if h.TotalArea == 0 {
			continue
		}
		pf, err := result.PoleFigure(h.Phase, axis, *poleAngle, 0)
		check(err)
		p.Printf("  pole figure %.0f°/[%g %g %g]: max %.3f MRD\n", *poleAngle, axis[0], axis[1], axis[2], pf.Max())
	}
	printCounters(reg)
}

func printCounters(g prometheus.Gatherer) {
	lines, err := counterLines(g)
	check(err)
	color.HiBlue("metrics")
	for _, l := range lines {
		fmt.Println("  " + l)
	}
}

// counterLines renders every gathered counter as name{labels} value.
func counterLines(g prometheus.Gatherer) ([]string, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			out = append(out, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
		}
	}
	return out, nil
}

func printPhase(p *message.Printer, h *gbcd.Histogram, top int) {
	s := h.Summary()
	color.HiBlue("phase %d (%v)", h.Phase, h.LaueClass)
	p.Printf("  triangles %d, face area %.2f, max %.3f MRD, mean %.3f, stddev %.3f, non-zero cells %d of %d\n",
		h.Triangles, h.FaceArea, s.Max, s.Mean, s.StdDev, s.NonZero, len(h.Values))
	for i, c := range h.Top(top) {
		hemi := "S"
		if c.Northern {
			hemi = "N"
		}
		p.Printf("  #%d cell %d %v%s: %.3f MRD\n", i+1, c.Index, c.Bin, hemi, c.Value)
	}
}

// physicalCores returns the physical core count, falling back to GOMAXPROCS.
func physicalCores() int {
	cpu, err := ghw.CPU()
	if err != nil || cpu.TotalCores == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return int(cpu.TotalCores)
}

func parseClasses(s string) ([]symmetry.LaueClass, error) {
	var out []symmetry.LaueClass
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("phase class %q: %w", f, err)
		}
		c := symmetry.LaueClass(v)
		if !c.Valid() {
			return nil, fmt.Errorf("phase class %d is not supported", v)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseAxis(s string) (orient.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return orient.Vec3{}, fmt.Errorf("axis %q: want three comma-separated numbers", s)
	}
	var v orient.Vec3
	for i, f := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return orient.Vec3{}, fmt.Errorf("axis %q: %w", s, err)
		}
		v[i] = x
	}
	return v, nil
}

func check(err error) {
	if err != nil {
		color.HiRed("gbcd: %v", err)
		os.Exit(1)
	}
}

package gbcd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/gbcd/internal/parallel"
	"github.com/gogpu/gbcd/symmetry"
)

const tracerName = "github.com/gogpu/gbcd"

// Engine computes grain boundary character distributions.
//
// An Engine owns a worker pool and a scratch arena that are reused across
// runs. It is safe for concurrent use; Compute calls are serialized.
type Engine struct {
	opts   engineOptions
	table  *symmetry.Table
	pool   *parallel.WorkerPool
	tracer trace.Tracer

	mu      sync.Mutex // guards scratch and pool lifetime
	scratch scratch
	closed  atomic.Bool
}

// New creates an Engine with the given options.
//
// Example:
//
//	e := gbcd.New(gbcd.WithResolution(9))
//	defer e.Close()
//	res, err := e.Compute(ctx, in)
func New(opts ...EngineOption) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	table := o.table
	if table == nil {
		table = symmetry.Default()
	}
	return &Engine{
		opts:   o,
		table:  table,
		pool:   parallel.NewWorkerPool(o.workers),
		tracer: otel.Tracer(tracerName),
	}
}

// Workers returns the number of binning goroutines.
func (e *Engine) Workers() int {
	return e.pool.Workers()
}

// Close stops the worker pool, waiting for a running Compute to finish.
// Close is safe to call multiple times.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.CompareAndSwap(false, true) {
		e.pool.Close()
		e.scratch = scratch{}
	}
}

// Compute bins every triangle of in and returns the normalized per-phase
// GBCD.
//
// Triangles are processed in chunks of the configured size. Within a
// chunk, triangles are binned in parallel into private scratch rows; the
// rows are then folded into the histograms in ascending triangle order on
// the calling goroutine, so the result does not depend on the worker count.
//
// Configuration errors are returned before any triangle is binned. If ctx
// is canceled, Compute stops at the next chunk boundary and returns the
// partial, unnormalized Result with an error wrapping ErrPartial and the
// context error.
func (e *Engine) Compute(ctx context.Context, in *Input) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	if in == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInputShape)
	}

	runID := uuid.New()
	ctx, span := e.tracer.Start(ctx, "gbcd.Compute",
		trace.WithAttributes(
			attribute.String("gbcd.run_id", runID.String()),
			attribute.Int("gbcd.triangles", in.NumTriangles()),
			attribute.Int("gbcd.phases", in.NumPhases()),
			attribute.Float64("gbcd.resolution", e.opts.resolution),
		),
	)
	defer span.End()

	sc, err := NewSpaceConfig(e.opts.resolution)
	if err == nil {
		err = in.Validate(e.table)
	}
	if err != nil {
		return nil, e.fail(span, err, "invalid configuration")
	}

	res := newResult(runID, sc, in, e.table)
	log := runLogger(runID)
	total := in.NumTriangles()
	log.Info("gbcd: run started",
		"triangles", total,
		"phases", in.NumPhases(),
		"resolution", sc.Resolution,
		"bins", sc.TotalBins(),
		"workers", e.pool.Workers())

	start := time.Now()
	for lo := 0; lo < total; lo += e.opts.chunkSize {
		if err := ctx.Err(); err != nil {
			return e.partial(res, log, span, total, err)
		}

		hi := min(lo+e.opts.chunkSize, total)
		if err := e.reduceChunk(ctx, log, in, res, lo, hi); err != nil {
			return nil, e.fail(span, err, "chunk failed")
		}
		res.TrianglesProcessed = hi

		elapsed := time.Since(start)
		eta := time.Duration(float64(elapsed) / float64(hi) * float64(total-hi))
		log.Debug("gbcd: chunk reduced",
			"done", hi,
			"total", total,
			"elapsed", elapsed,
			"eta", eta)
		if e.opts.progress != nil {
			e.opts.progress(hi, total)
		}
	}

	res.normalize()
	e.opts.metrics.observeRun(statusComplete)
	span.SetAttributes(attribute.Int("gbcd.representations", res.Representations))
	log.Info("gbcd: run complete",
		"triangles", total,
		"representations", res.Representations,
		"excluded", res.Exclusions.Total(),
		"elapsed", time.Since(start))
	return res, nil
}

// reduceChunk bins triangles [lo, hi) and folds them into res.
func (e *Engine) reduceChunk(ctx context.Context, log *slog.Logger, in *Input, res *Result, lo, hi int) error {
	_, span := e.tracer.Start(ctx, "gbcd.chunk",
		trace.WithAttributes(
			attribute.Int("gbcd.chunk.start", lo),
			attribute.Int("gbcd.chunk.end", hi),
		),
	)
	defer span.End()
	t0 := time.Now()

	s := &e.scratch
	s.layout(in, e.table, lo, hi)
	log.Debug("gbcd: scratch sized", "chunk_start", lo, "triangles", hi-lo, "slots", len(s.bins))

	sc := &res.Space
	err := e.pool.ForEach(parallel.Split(hi-lo, 4*e.pool.Workers()), func(r parallel.Range) {
		for i := r.Start; i < r.End; i++ {
			if s.outcomes[i] != outcomeBinned {
				continue
			}
			bins, hemi := s.row(i)
			binTriangle(sc, in, lo+i, s.ops[i], bins, hemi)
		}
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %w", ErrEngineClosed, err)
	}

	var ex Exclusions
	binned, reps := 0, 0
	for i := 0; i < hi-lo; i++ {
		if o := s.outcomes[i]; o != outcomeBinned {
			ex.add(o)
			continue
		}
		h := res.Phases[s.phases[i]]
		area := in.FaceAreas[lo+i]
		h.FaceArea += area
		h.Triangles++
		binned++

		bins, hemi := s.row(i)
		for k, b := range bins {
			if b < 0 {
				continue
			}
			h.Values[cell(b, hemi[k])] += area
			h.TotalArea += area
			reps++
		}
	}

	res.Exclusions.merge(ex)
	res.Representations += reps
	e.opts.metrics.observeChunk(ex, binned, reps, time.Since(t0))
	span.SetAttributes(attribute.Int("gbcd.representations", reps))
	return nil
}

// partial marks res as canceled and wraps cause.
func (e *Engine) partial(res *Result, log *slog.Logger, span trace.Span, total int, cause error) (*Result, error) {
	res.Partial = true
	e.opts.metrics.observeRun(statusPartial)
	span.RecordError(cause)
	span.SetStatus(codes.Error, "canceled")
	log.Warn("gbcd: run canceled, histogram is partial",
		"done", res.TrianglesProcessed,
		"total", total)
	return res, fmt.Errorf("%w: %w", ErrPartial, cause)
}

func (e *Engine) fail(span trace.Span, err error, msg string) error {
	e.opts.metrics.observeRun(statusFailed)
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}

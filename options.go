package gbcd

import (
	"github.com/gogpu/gbcd/symmetry"
)

const (
	// DefaultResolution is the default angular bin width in degrees.
	DefaultResolution = 9.0

	// DefaultChunkSize is the default number of triangles binned per chunk.
	DefaultChunkSize = 50000
)

// EngineOption configures an Engine during creation.
//
// Example:
//
//	e := gbcd.New(
//	    gbcd.WithResolution(5),
//	    gbcd.WithWorkers(8),
//	)
//	defer e.Close()
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	resolution float64
	chunkSize  int
	workers    int
	table      *symmetry.Table
	metrics    *Metrics
	progress   ProgressFunc
}

// ProgressFunc receives the number of triangles reduced so far and the
// total. It is called from the goroutine running Compute, between chunks.
type ProgressFunc func(done, total int)

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		resolution: DefaultResolution,
		chunkSize:  DefaultChunkSize,
	}
}

// WithResolution sets the angular bin width in degrees.
// The value is validated when Compute builds the SpaceConfig.
func WithResolution(degrees float64) EngineOption {
	return func(o *engineOptions) {
		o.resolution = degrees
	}
}

// WithChunkSize sets how many triangles are binned before each reduction.
// Scratch memory grows linearly with the chunk size. Values below 1 keep
// the default.
func WithChunkSize(n int) EngineOption {
	return func(o *engineOptions) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithWorkers sets the number of binning goroutines.
// Zero or negative uses GOMAXPROCS; 1 bins serially on the pool's single worker.
func WithWorkers(n int) EngineOption {
	return func(o *engineOptions) {
		o.workers = n
	}
}

// WithSymmetryTable replaces the default symmetry operator table.
func WithSymmetryTable(t *symmetry.Table) EngineOption {
	return func(o *engineOptions) {
		o.table = t
	}
}

// WithMetrics attaches Prometheus collectors. See NewMetrics.
func WithMetrics(m *Metrics) EngineOption {
	return func(o *engineOptions) {
		o.metrics = m
	}
}

// WithProgress registers a callback invoked after every reduced chunk.
func WithProgress(fn ProgressFunc) EngineOption {
	return func(o *engineOptions) {
		o.progress = fn
	}
}

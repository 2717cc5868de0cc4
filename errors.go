package gbcd

import "errors"

// Configuration errors are returned before any triangle is processed.
var (
	// ErrInvalidResolution is returned for a non-positive, non-finite or
	// too coarse angular resolution.
	ErrInvalidResolution = errors.New("gbcd: invalid resolution")

	// ErrInputShape is returned when an input array length does not match
	// the triangle, feature or phase count.
	ErrInputShape = errors.New("gbcd: input array has wrong shape")

	// ErrFeatureRange is returned when a face label refers past the feature arrays.
	ErrFeatureRange = errors.New("gbcd: face label out of feature range")

	// ErrPhaseRange is returned when a feature phase refers past the phase arrays.
	ErrPhaseRange = errors.New("gbcd: feature phase out of range")

	// ErrUnsupportedLaueClass is returned when a used phase has no symmetry operators.
	ErrUnsupportedLaueClass = errors.New("gbcd: unsupported Laue class")
)

var (
	// ErrPartial wraps the context error of a canceled run. The accompanying
	// Result holds the chunks reduced so far and is not normalized.
	ErrPartial = errors.New("gbcd: computation canceled, histogram is partial")

	// ErrEngineClosed is returned by Compute after Close.
	ErrEngineClosed = errors.New("gbcd: engine closed")

	// ErrNoPhase is returned when a requested phase has no histogram.
	ErrNoPhase = errors.New("gbcd: no histogram for phase")
)

// ErrPoleFigure is returned for an unusable pole-figure request.
var ErrPoleFigure = errors.New("gbcd: invalid pole figure request")

package gbcd

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// silent drops every record; its handler reports every level as disabled.
var silent = slog.New(slog.DiscardHandler)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger routes gbcd diagnostics to l. Passing nil silences them again,
// which is also the state at program start. It may be called while a
// Compute is running; records from the running chunk go to whichever
// logger was installed when the run began.
//
// Records emitted:
//   - [slog.LevelDebug]: "gbcd: scratch sized" and "gbcd: chunk reduced"
//     (triangles done, elapsed, estimated time remaining)
//   - [slog.LevelInfo]: "gbcd: run started" and "gbcd: run complete"
//   - [slog.LevelWarn]: "gbcd: run canceled, histogram is partial"
//
// Every record of a run carries its run_id. Excluded triangles (unindexed,
// cross-phase, unassigned phase) are counted in [Result.Exclusions] and
// [Metrics] rather than logged.
//
//	gbcd.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the installed logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return current.Load()
}

// runLogger snapshots the installed logger for one Compute call.
func runLogger(id uuid.UUID) *slog.Logger {
	return Logger().With("run_id", id.String())
}

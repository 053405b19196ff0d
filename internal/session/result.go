// Package session orchestrates the per-video frame loop: capture, tracker
// invocation, statistics update, render, optional persist and display,
// and interactive pause/quit control. A batch controller sequences the
// loop over multiple inputs.
package session

import (
	"errors"
	"time"

	"github.com/sightline-data/presence.report/internal/track"
)

// Sentinel errors forming the session error taxonomy. Results wrap these
// so callers can classify failures with errors.Is.
var (
	// ErrSourceUnavailable means the input could not be opened. Fatal to
	// the session, surfaced to the caller; a batch continues with the
	// next source.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrCaptureInterrupted means a mid-session read or tracker failure.
	// The session ends gracefully with a partial result.
	ErrCaptureInterrupted = errors.New("capture interrupted")

	// ErrOutputWrite means the output sink stopped accepting frames.
	// The session keeps processing and displaying; writes stop.
	ErrOutputWrite = errors.New("output write failure")

	// ErrUserCancelled means the operator quit; reported through the
	// same path as a normal end of stream.
	ErrUserCancelled = errors.New("user cancelled")
)

// Outcome classifies how a session ended.
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeSourceUnavailable  Outcome = "source_unavailable"
	OutcomeCaptureInterrupted Outcome = "capture_interrupted"
	OutcomeCancelled          Outcome = "cancelled"
)

// Failed reports whether the session produced no usable processing at
// all. Interrupted and cancelled sessions still carry partial results.
func (o Outcome) Failed() bool { return o == OutcomeSourceUnavailable }

// FrameSample records the statistics attached to one processed frame,
// kept for charting and reports.
type FrameSample struct {
	FrameIndex int     // 1-based index in the source stream
	Current    int     // distinct identities in this frame
	Total      int     // cumulative unique identities so far
	FPS        float64 // running throughput at this frame
}

// Result is the immutable report for one completed (or failed) session.
type Result struct {
	Source          string
	Outcome         Outcome
	FramesProcessed int
	Elapsed         time.Duration
	AvgFPS          float64
	Stats           track.Snapshot
	Samples         []FrameSample

	// OutputPath is the annotated video written for this session, empty
	// when file output was disabled. WriteFailed records that writing
	// was abandoned mid-session.
	OutputPath  string
	WriteFailed bool

	// Err carries the classified failure for non-OK outcomes. It wraps
	// one of the package sentinels.
	Err error
}

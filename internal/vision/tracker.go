// Package vision defines the boundary to the external detector/tracker.
//
// The tracker owns detection and cross-frame identity association; this
// package only ships frames to it and parses the per-frame track batches
// it returns. Association state lives in the tracker process and must be
// explicitly reset when an unrelated video begins, otherwise identities
// could spuriously continue across sessions.
package vision

import (
	"context"

	"github.com/sightline-data/presence.report/internal/track"
	"github.com/sightline-data/presence.report/internal/video"
)

// Tracker produces one track batch per submitted frame.
type Tracker interface {
	// Track runs detection and identity association on one frame. The
	// returned batch may be empty; objects the tracker could not
	// associate carry a nil ID.
	Track(ctx context.Context, frame *video.Frame) (track.Batch, error)

	// Reset clears all cross-frame association state. Call it before
	// the first frame of each new video.
	Reset(ctx context.Context) error

	// Close terminates the tracker and releases its resources.
	Close() error
}

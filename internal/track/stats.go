package track

import "sort"

// SessionStats accumulates identity statistics for one video session. It is
// owned by a single session controller and called synchronously once per
// processed frame; there is no internal locking.
//
// Reset must be called before reusing an engine for a new video. Skipping
// the reset silently carries identities over from the previous session.
type SessionStats struct {
	seen    map[int64]struct{}
	current int
	frames  int
}

// Snapshot is a read-only view of the session statistics. SeenIDs is
// sorted ascending for deterministic reporting.
type Snapshot struct {
	FramesProcessed int     `json:"frames_processed"`
	CurrentCount    int     `json:"current_count"`
	TotalUnique     int     `json:"total_unique"`
	SeenIDs         []int64 `json:"unique_ids"`
}

// NewSessionStats returns a fresh statistics engine with zero counts.
func NewSessionStats() *SessionStats {
	return &SessionStats{seen: make(map[int64]struct{})}
}

// Update folds one frame's batch into the session state. Objects without
// an identity are excluded from counting. It returns the distinct-identity
// count of this batch and the cumulative unique count for the session.
func (s *SessionStats) Update(batch Batch) (current, totalUnique int) {
	ids := batch.IdentifiedIDs()
	for _, id := range ids {
		s.seen[id] = struct{}{}
	}
	s.current = len(ids)
	s.frames++
	return s.current, len(s.seen)
}

// Reset clears all session state so the engine behaves as newly created.
func (s *SessionStats) Reset() {
	s.seen = make(map[int64]struct{})
	s.current = 0
	s.frames = 0
}

// Snapshot returns the current statistics without mutating them. Calling
// it repeatedly without an intervening Update yields identical values.
func (s *SessionStats) Snapshot() Snapshot {
	ids := make([]int64, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return Snapshot{
		FramesProcessed: s.frames,
		CurrentCount:    s.current,
		TotalUnique:     len(s.seen),
		SeenIDs:         ids,
	}
}

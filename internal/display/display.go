// Package display abstracts the interactive surface of the pipeline: a
// place to show annotated frames, and a polled command channel for the
// operator's pause/quit input.
//
// The session loop samples commands exactly once per processed frame, so
// the same state machine runs headless with the Noop surface in batch and
// test scenarios.
package display

import "github.com/sightline-data/presence.report/internal/video"

// Command is an operator request sampled by the session controller.
type Command int

const (
	// CommandNone means no pending operator input.
	CommandNone Command = iota
	// CommandPause toggles the paused state; any subsequent command
	// resumes a paused session.
	CommandPause
	// CommandQuit terminates the session, abandoning remaining frames.
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandPause:
		return "pause"
	case CommandQuit:
		return "quit"
	default:
		return "none"
	}
}

// Surface displays annotated frames and surfaces operator commands.
type Surface interface {
	// Show presents one annotated frame.
	Show(frame *video.Frame) error

	// Poll returns the pending command, or CommandNone. Each command is
	// delivered at most once.
	Poll() Command

	// Close releases the surface.
	Close() error
}

// Noop is the headless surface: frames are discarded and no commands are
// ever delivered.
type Noop struct{}

// Show discards the frame.
func (Noop) Show(*video.Frame) error { return nil }

// Poll always reports no pending command.
func (Noop) Poll() Command { return CommandNone }

// Close is a no-op.
func (Noop) Close() error { return nil }

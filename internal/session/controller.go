package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sightline-data/presence.report/internal/display"
	"github.com/sightline-data/presence.report/internal/monitoring"
	"github.com/sightline-data/presence.report/internal/render"
	"github.com/sightline-data/presence.report/internal/timeutil"
	"github.com/sightline-data/presence.report/internal/track"
	"github.com/sightline-data/presence.report/internal/video"
	"github.com/sightline-data/presence.report/internal/vision"
)

// FrameSource yields decoded frames for one video. Read returns io.EOF at
// end of stream. *video.Reader satisfies this.
type FrameSource interface {
	Read() (*video.Frame, error)
	Meta() video.Meta
	Close() error
}

// FrameSink accepts annotated frames for persistence. *video.Writer
// satisfies this.
type FrameSink interface {
	Write(frame *video.Frame) error
	Close() error
}

// OpenFunc opens a video source by identifier.
type OpenFunc func(source string) (FrameSource, error)

// SinkFunc creates an output sink at path for a stream with the given
// metadata.
type SinkFunc func(path string, meta video.Meta) (FrameSink, error)

// Config wires the collaborators of a session controller. Every policy is
// explicit; the controller reads no ambient state.
type Config struct {
	Tracker  vision.Tracker
	Renderer *render.Renderer

	// Display is the interactive surface; nil runs headless with no
	// pause/quit sampling. The controller does not own the display's
	// lifecycle: one surface is shared across a batch and released by
	// the driver.
	Display display.Surface

	// Open and NewSink default to the ffmpeg-backed implementations.
	Open    OpenFunc
	NewSink SinkFunc

	// Clock defaults to the real clock.
	Clock timeutil.Clock

	// SkipCount k processes one of every k+1 frames; 0 processes all.
	SkipCount int

	// PausePoll is the interval between command samples while paused.
	PausePoll time.Duration

	// ProgressEvery logs progress after that many processed frames;
	// 0 disables progress logging.
	ProgressEvery int
}

// Controller runs the frame loop for one video at a time. It owns one
// statistics engine which is reset, not reconstructed, between sessions.
type Controller struct {
	cfg   Config
	stats *track.SessionStats
}

// New creates a session controller, applying defaults for any collaborator
// left unset.
func New(cfg Config) *Controller {
	if cfg.Clock == nil {
		cfg.Clock = timeutil.RealClock{}
	}
	if cfg.Open == nil {
		cfg.Open = func(source string) (FrameSource, error) {
			return video.OpenReader(source)
		}
	}
	if cfg.NewSink == nil {
		cfg.NewSink = func(path string, meta video.Meta) (FrameSink, error) {
			return video.OpenWriter(path, meta)
		}
	}
	if cfg.PausePoll <= 0 {
		cfg.PausePoll = 100 * time.Millisecond
	}
	return &Controller{cfg: cfg, stats: track.NewSessionStats()}
}

// Run processes one video session from open to close. The returned error
// is non-nil only when the source cannot be opened; every other failure
// ends the session gracefully and is recorded in the Result.
func (c *Controller) Run(ctx context.Context, source, outputPath string) (Result, error) {
	result := Result{Source: source, Outcome: OutcomeOK}

	src, err := c.cfg.Open(source)
	if err != nil {
		result.Outcome = OutcomeSourceUnavailable
		result.Err = fmt.Errorf("%w: open %s: %v", ErrSourceUnavailable, source, err)
		result.Stats = track.NewSessionStats().Snapshot()
		return result, result.Err
	}
	defer src.Close()

	var sink FrameSink
	if outputPath != "" {
		sink, err = c.cfg.NewSink(outputPath, src.Meta())
		if err != nil {
			// output failure does not stop processing
			monitoring.Logf("output sink %s unavailable, continuing without file output: %v", outputPath, err)
			result.WriteFailed = true
			sink = nil
		} else {
			result.OutputPath = outputPath
		}
	}

	// fresh identity state per session, for both the engine and the
	// tracker's cross-frame association
	c.stats.Reset()
	if err := c.cfg.Tracker.Reset(ctx); err != nil {
		monitoring.Logf("tracker reset failed for %s: %v", source, err)
	}

	monitoring.Logf("processing %s (%s)", source, src.Meta())
	start := c.cfg.Clock.Now()

	frameIndex := 0
	processed := 0

loop:
	for {
		if ctx.Err() != nil {
			result.Outcome = OutcomeCancelled
			result.Err = fmt.Errorf("%w: %v", ErrUserCancelled, ctx.Err())
			break
		}

		frame, err := src.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Outcome = OutcomeCaptureInterrupted
			result.Err = fmt.Errorf("%w: %v", ErrCaptureInterrupted, err)
			monitoring.Logf("capture interrupted on %s after %d frames: %v", source, processed, err)
			break
		}

		frameIndex++
		if c.cfg.SkipCount > 0 && frameIndex%(c.cfg.SkipCount+1) != 0 {
			continue
		}

		batch, err := c.cfg.Tracker.Track(ctx, frame)
		if err != nil {
			result.Outcome = OutcomeCaptureInterrupted
			result.Err = fmt.Errorf("%w: tracker: %v", ErrCaptureInterrupted, err)
			monitoring.Logf("tracker failed on %s frame %d: %v", source, frameIndex, err)
			break
		}

		current, total := c.stats.Update(batch)
		processed++

		fps := 0.0
		if elapsed := c.cfg.Clock.Since(start).Seconds(); elapsed > 0 {
			fps = float64(processed) / elapsed
		}

		annotated := c.cfg.Renderer.Render(frame, batch, current, total, fps)
		result.Samples = append(result.Samples, FrameSample{
			FrameIndex: frameIndex,
			Current:    current,
			Total:      total,
			FPS:        fps,
		})

		if sink != nil && !result.WriteFailed {
			if err := sink.Write(annotated); err != nil {
				// logged once; no retries, writes stop for the session
				monitoring.Logf("%v on %s, disabling further writes: %v", ErrOutputWrite, source, err)
				result.WriteFailed = true
			}
		}

		if c.cfg.Display != nil {
			if err := c.cfg.Display.Show(annotated); err != nil {
				monitoring.Logf("display error: %v", err)
			}
			switch c.cfg.Display.Poll() {
			case display.CommandQuit:
				result.Outcome = OutcomeCancelled
				result.Err = ErrUserCancelled
				monitoring.Logf("processing of %s interrupted by user", source)
				break loop
			case display.CommandPause:
				if cmd := c.waitResume(ctx); cmd == display.CommandQuit {
					result.Outcome = OutcomeCancelled
					result.Err = ErrUserCancelled
					break loop
				}
			}
		}

		if c.cfg.ProgressEvery > 0 && processed%c.cfg.ProgressEvery == 0 {
			monitoring.Logf("%s: frame %d | current %d | unique %d | %.1f fps",
				source, frameIndex, current, total, fps)
		}
	}

	result.Elapsed = c.cfg.Clock.Since(start)
	result.FramesProcessed = processed
	if secs := result.Elapsed.Seconds(); secs > 0 {
		result.AvgFPS = float64(processed) / secs
	}
	result.Stats = c.stats.Snapshot()

	if sink != nil {
		if err := sink.Close(); err != nil {
			monitoring.Logf("closing output %s: %v", outputPath, err)
			result.WriteFailed = true
		}
	}

	return result, nil
}

// waitResume blocks while the session is paused. No frames are read until
// any subsequent command arrives; a quit during the pause is honoured.
func (c *Controller) waitResume(ctx context.Context) display.Command {
	monitoring.Logf("paused; waiting for input")
	for {
		if ctx.Err() != nil {
			return display.CommandQuit
		}
		if cmd := c.cfg.Display.Poll(); cmd != display.CommandNone {
			monitoring.Logf("resumed")
			return cmd
		}
		c.cfg.Clock.Sleep(c.cfg.PausePoll)
	}
}

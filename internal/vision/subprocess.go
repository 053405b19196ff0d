package vision

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"sync"

	"github.com/sightline-data/presence.report/internal/track"
	"github.com/sightline-data/presence.report/internal/video"
)

// request is one line of the stdin protocol. Frame requests are followed
// by width*height*4 bytes of raw RGBA pixel data.
type request struct {
	Type   string `json:"type"` // "frame", "reset" or "end"
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// response is one line of the stdout protocol.
type response struct {
	Objects track.Batch `json:"objects"`
	Error   string      `json:"error,omitempty"`
}

// SubprocessConfig configures the detector/tracker subprocess.
type SubprocessConfig struct {
	// Command is the program to run, e.g. "python3".
	Command string

	// Args are passed verbatim before the filter arguments.
	Args []string

	// MinConfidence and Classes form the detection filter handed to the
	// model; the subprocess applies them before emitting batches. The
	// same filter is re-applied on the Go side so a misbehaving model
	// cannot leak below-threshold detections into the statistics.
	Filter track.Filter
}

// Subprocess is a Tracker backed by a long-lived external process
// speaking line-delimited JSON over stdin/stdout, with raw RGBA frame
// bytes interleaved after each frame header.
type Subprocess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	filter track.Filter

	mu     sync.Mutex
	closed bool
}

// StartSubprocess launches the tracker process and waits for it to be
// ready to accept frames.
func StartSubprocess(cfg SubprocessConfig) (*Subprocess, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("tracker command is required")
	}

	args := append([]string(nil), cfg.Args...)
	args = append(args,
		fmt.Sprintf("--conf=%g", cfg.Filter.MinConfidence),
		fmt.Sprintf("--classes=%s", classList(cfg.Filter.Classes)),
	)

	cmd := exec.Command(cfg.Command, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open tracker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open tracker stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start tracker %s: %w", cfg.Command, err)
	}

	return &Subprocess{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		filter: cfg.Filter,
	}, nil
}

// Track submits one frame and blocks for the tracker's batch.
func (s *Subprocess) Track(ctx context.Context, frame *video.Frame) (track.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("tracker is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header, err := json.Marshal(request{Type: "frame", Width: frame.Width, Height: frame.Height})
	if err != nil {
		return nil, err
	}
	if _, err := s.stdin.Write(append(header, '\n')); err != nil {
		return nil, fmt.Errorf("send frame header: %w", err)
	}
	if _, err := s.stdin.Write(frame.Pix); err != nil {
		return nil, fmt.Errorf("send frame pixels: %w", err)
	}

	resp, err := s.readResponse()
	if err != nil {
		return nil, err
	}
	return s.filter.Apply(resp.Objects), nil
}

// Reset clears the tracker's association state for a new session.
func (s *Subprocess) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("tracker is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(request{Type: "reset"}); err != nil {
		return err
	}
	_, err := s.readResponse()
	return err
}

// Close asks the process to exit and waits for it.
func (s *Subprocess) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	// best effort: the process also exits on stdin EOF
	_ = s.send(request{Type: "end"})
	s.stdin.Close()
	return s.cmd.Wait()
}

func (s *Subprocess) send(req request) error {
	line, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if _, err := s.stdin.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("send %s request: %w", req.Type, err)
	}
	return nil
}

func (s *Subprocess) readResponse() (*response, error) {
	line, err := s.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read tracker response: %w", err)
	}
	var resp response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse tracker response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("tracker error: %s", resp.Error)
	}
	return &resp, nil
}

// classList renders the class filter as a comma-separated argument,
// sorted for a stable command line. Empty means all classes.
func classList(classes map[int]bool) string {
	if len(classes) == 0 {
		return "all"
	}
	ids := make([]int, 0, len(classes))
	for c := range classes {
		ids = append(ids, c)
	}
	sort.Ints(ids)
	out := ""
	for i, c := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%d", c)
	}
	return out
}

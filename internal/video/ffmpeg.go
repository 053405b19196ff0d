package video

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// Probe runs ffprobe against a container and returns the first video
// stream's dimensions and nominal frame rate.
func Probe(path string) (Meta, error) {
	out, err := exec.Command(
		"ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return Meta{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return parseProbeOutput(string(out))
}

// parseProbeOutput parses ffprobe csv output of the form
// "width,height,num/den".
func parseProbeOutput(s string) (Meta, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	if len(fields) < 3 {
		return Meta{}, fmt.Errorf("unexpected probe output %q", s)
	}

	width, err := strconv.Atoi(fields[0])
	if err != nil {
		return Meta{}, fmt.Errorf("parse width %q: %w", fields[0], err)
	}
	height, err := strconv.Atoi(fields[1])
	if err != nil {
		return Meta{}, fmt.Errorf("parse height %q: %w", fields[1], err)
	}
	fps, err := parseRate(fields[2])
	if err != nil {
		return Meta{}, err
	}

	if width <= 0 || height <= 0 {
		return Meta{}, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	return Meta{Width: width, Height: height, FPS: fps}, nil
}

// parseRate parses an ffprobe rational frame rate such as "30000/1001".
func parseRate(s string) (float64, error) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
		}
		return v, nil
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("parse frame rate %q: invalid denominator", s)
	}
	return n / d, nil
}

// Reader decodes a container into raw RGBA frames via an ffmpeg
// subprocess. Read returns io.EOF at end of stream.
type Reader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	meta   Meta
}

// OpenReader probes the source and starts the decode subprocess.
func OpenReader(path string) (*Reader, error) {
	meta, err := Probe(path)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(
		"ffmpeg",
		"-nostdin",
		"-loglevel", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open decode pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg decode: %w", err)
	}

	return &Reader{cmd: cmd, stdout: stdout, meta: meta}, nil
}

// Meta returns the probed stream metadata.
func (r *Reader) Meta() Meta { return r.meta }

// Read returns the next decoded frame, or io.EOF at end of stream.
func (r *Reader) Read() (*Frame, error) {
	frame := NewFrame(r.meta.Width, r.meta.Height)
	if _, err := io.ReadFull(r.stdout, frame.Pix); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return frame, nil
}

// Close terminates the decode subprocess.
func (r *Reader) Close() error {
	r.stdout.Close()
	return r.cmd.Wait()
}

// Writer encodes raw RGBA frames into an H.264 container via an ffmpeg
// subprocess, at the resolution and nominal frame rate of the source.
type Writer struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	meta  Meta
}

// OpenWriter starts an encode subprocess writing to path.
func OpenWriter(path string, meta Meta) (*Writer, error) {
	fps := meta.FPS
	if fps <= 0 {
		fps = 30
	}

	cmd := exec.Command(
		"ffmpeg",
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", meta.Width, meta.Height),
		"-r", fmt.Sprintf("%.4f", fps),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", "libx264",
		path,
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open encode pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg encode: %w", err)
	}

	return &Writer{cmd: cmd, stdin: stdin, meta: meta}, nil
}

// Write appends one frame to the output container.
func (w *Writer) Write(frame *Frame) error {
	if frame.Width != w.meta.Width || frame.Height != w.meta.Height {
		return fmt.Errorf("frame %dx%d does not match output %dx%d",
			frame.Width, frame.Height, w.meta.Width, w.meta.Height)
	}
	if _, err := w.stdin.Write(frame.Pix); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close flushes the encoder and waits for the subprocess to exit.
func (w *Writer) Close() error {
	w.stdin.Close()
	return w.cmd.Wait()
}

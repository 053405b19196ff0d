// Package video provides the codec boundary for the pipeline: reading
// frames from a container, writing annotated frames back out, probing
// stream metadata, and enumerating video sources on disk.
//
// Decode and encode are delegated to ffmpeg subprocesses exchanging raw
// RGBA frames over pipes; this package never touches codec internals.
package video

import (
	"fmt"
	"image"
)

// Frame is one decoded video frame as tightly packed RGBA pixels.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // 4 bytes per pixel, row-major
}

// NewFrame allocates a zeroed frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Width: f.Width, Height: f.Height, Pix: pix}
}

// RGBA wraps the frame's pixel buffer as an *image.RGBA sharing the same
// backing storage. Drawing through the returned image mutates the frame.
func (f *Frame) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Meta describes a video stream: dimensions and nominal frame rate.
type Meta struct {
	Width  int
	Height int
	FPS    float64
}

func (m Meta) String() string {
	return fmt.Sprintf("%dx%d @ %.2f fps", m.Width, m.Height, m.FPS)
}

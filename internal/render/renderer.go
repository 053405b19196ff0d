// Package render draws tracking results onto video frames: bounding
// boxes, identity labels, and a translucent statistics panel. Rendering
// is pure; input frames are never mutated.
package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/sightline-data/presence.report/internal/track"
	"github.com/sightline-data/presence.report/internal/video"
)

// Options configures the renderer. Components receive it at construction;
// there is no ambient drawing configuration.
type Options struct {
	BoxColor     color.RGBA
	BoxThickness int

	// Labels enables per-object identity/confidence labels.
	Labels      bool
	TextColor   color.RGBA
	TextBGColor color.RGBA

	// Panel enables the statistics overlay. The panel occupies a fixed
	// strip at the top of the frame and is alpha-blended so the
	// underlying frame stays partially visible.
	Panel       bool
	PanelHeight int
	PanelAlpha  float64
	PanelColor  color.RGBA

	// ShowFPS includes instantaneous throughput on the panel.
	ShowFPS bool
}

// DefaultOptions mirrors the stock palette: green boxes, white text, dark
// translucent panel.
func DefaultOptions() Options {
	return Options{
		BoxColor:     color.RGBA{0, 255, 0, 255},
		BoxThickness: 2,
		Labels:       true,
		TextColor:    color.RGBA{255, 255, 255, 255},
		TextBGColor:  color.RGBA{0, 0, 0, 255},
		Panel:        true,
		PanelHeight:  80,
		PanelAlpha:   0.7,
		PanelColor:   color.RGBA{50, 50, 50, 255},
		ShowFPS:      true,
	}
}

// Renderer annotates frames with tracking output. It is stateless; the
// same inputs always produce bit-identical output.
type Renderer struct {
	opts Options
}

// New creates a Renderer with the given options.
func New(opts Options) *Renderer {
	if opts.BoxThickness <= 0 {
		opts.BoxThickness = 1
	}
	if opts.PanelHeight <= 0 {
		opts.PanelHeight = 80
	}
	return &Renderer{opts: opts}
}

// Render returns a new annotated frame. The input frame, batch, and
// counts are read-only. fps may be zero when throughput is not yet known.
func (r *Renderer) Render(frame *video.Frame, batch track.Batch, current, total int, fps float64) *video.Frame {
	out := frame.Clone()
	img := out.RGBA()

	for _, obj := range batch {
		if !obj.Box.Valid() {
			continue
		}
		r.strokeRect(img, obj.Box)
		if r.opts.Labels {
			r.drawLabel(img, obj)
		}
	}

	if r.opts.Panel {
		r.drawPanel(img, current, total, fps)
	}
	return out
}

// strokeRect draws the box outline with the configured thickness, clipped
// to the image bounds.
func (r *Renderer) strokeRect(img *image.RGBA, b track.Box) {
	t := r.opts.BoxThickness
	c := r.opts.BoxColor
	fillRect(img, b.X1, b.Y1, b.X2, b.Y1+t, c) // top
	fillRect(img, b.X1, b.Y2-t, b.X2, b.Y2, c) // bottom
	fillRect(img, b.X1, b.Y1, b.X1+t, b.Y2, c) // left
	fillRect(img, b.X2-t, b.Y1, b.X2, b.Y2, c) // right
}

// drawLabel puts the object label on a solid background just above the
// box, or inside it when the box touches the top edge.
func (r *Renderer) drawLabel(img *image.RGBA, obj track.Object) {
	label := obj.Label()
	face := basicfont.Face7x13
	w := font.MeasureString(face, label).Ceil()

	x := obj.Box.X1
	y := obj.Box.Y1 - 4
	if y-face.Height < 0 {
		y = obj.Box.Y1 + face.Height + 2
	}

	fillRect(img, x, y-face.Ascent-2, x+w+6, y+face.Descent, r.opts.TextBGColor)
	drawString(img, face, label, x+3, y, r.opts.TextColor)
}

// drawPanel blends the statistics strip over the top of the frame and
// prints the counters.
func (r *Renderer) drawPanel(img *image.RGBA, current, total int, fps float64) {
	h := r.opts.PanelHeight
	if h > img.Rect.Dy() {
		h = img.Rect.Dy()
	}
	blendRect(img, 0, 0, img.Rect.Dx(), h, r.opts.PanelColor, r.opts.PanelAlpha)

	lines := []string{
		fmt.Sprintf("Current Frame: %d object(s)", current),
		fmt.Sprintf("Total Unique: %d object(s)", total),
	}
	if r.opts.ShowFPS && fps > 0 {
		lines = append(lines, fmt.Sprintf("FPS: %.1f", fps))
	}

	face := basicfont.Face7x13
	y := 18
	for _, line := range lines {
		if y > h {
			break
		}
		drawString(img, face, line, 10, y, r.opts.TextColor)
		y += face.Height + 5
	}
}

// fillRect fills the half-open rectangle [x1,x2)x[y1,y2) clipped to img.
func fillRect(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	b := img.Rect
	if x1 < b.Min.X {
		x1 = b.Min.X
	}
	if y1 < b.Min.Y {
		y1 = b.Min.Y
	}
	if x2 > b.Max.X {
		x2 = b.Max.X
	}
	if y2 > b.Max.Y {
		y2 = b.Max.Y
	}
	for y := y1; y < y2; y++ {
		i := img.PixOffset(x1, y)
		for x := x1; x < x2; x++ {
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = 255
			i += 4
		}
	}
}

// blendRect alpha-blends c over the rectangle so the underlying pixels
// remain partially visible.
func blendRect(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA, alpha float64) {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	b := img.Rect
	if x2 > b.Max.X {
		x2 = b.Max.X
	}
	if y2 > b.Max.Y {
		y2 = b.Max.Y
	}
	inv := 1 - alpha
	for y := y1; y < y2; y++ {
		i := img.PixOffset(x1, y)
		for x := x1; x < x2; x++ {
			img.Pix[i+0] = uint8(alpha*float64(c.R) + inv*float64(img.Pix[i+0]))
			img.Pix[i+1] = uint8(alpha*float64(c.G) + inv*float64(img.Pix[i+1]))
			img.Pix[i+2] = uint8(alpha*float64(c.B) + inv*float64(img.Pix[i+2]))
			img.Pix[i+3] = 255
			i += 4
		}
	}
}

// drawString renders text with its baseline at (x, y).
func drawString(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

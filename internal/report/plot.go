package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sightline-data/presence.report/internal/session"
)

// SaveTimeline writes a PNG of the per-frame counts to path.
func SaveTimeline(samples []session.FrameSample, source, path string) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to plot for %s", source)
	}

	currentPts := make(plotter.XYs, len(samples))
	totalPts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		currentPts[i].X = float64(s.FrameIndex)
		currentPts[i].Y = float64(s.Current)
		totalPts[i].X = float64(s.FrameIndex)
		totalPts[i].Y = float64(s.Total)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Object counts: %s", source)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Objects"

	currentLine, err := plotter.NewLine(currentPts)
	if err != nil {
		return fmt.Errorf("failed to create current line: %w", err)
	}
	currentLine.Width = vg.Points(1)
	currentLine.Color = color.RGBA{R: 31, G: 158, B: 137, A: 255}

	totalLine, err := plotter.NewLine(totalPts)
	if err != nil {
		return fmt.Errorf("failed to create total line: %w", err)
	}
	totalLine.Width = vg.Points(1)
	totalLine.Color = color.RGBA{R: 253, G: 231, B: 37, A: 255}

	p.Add(currentLine, totalLine)
	p.Legend.Add("current", currentLine)
	p.Legend.Add("cumulative unique", totalLine)
	p.Legend.Top = true

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sightline-data/presence.report/internal/session"
)

// WriteSessionChart renders an HTML line chart of per-frame counts for one
// session. Two series are drawn: objects visible in each frame and the
// cumulative unique total.
func WriteSessionChart(w io.Writer, source string, samples []session.FrameSample) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to chart for %s", source)
	}

	frames := make([]string, len(samples))
	current := make([]opts.LineData, len(samples))
	total := make([]opts.LineData, len(samples))
	for i, s := range samples {
		frames[i] = strconv.Itoa(s.FrameIndex)
		current[i] = opts.LineData{Value: s.Current}
		total[i] = opts.LineData{Value: s.Total}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Session Counts", Theme: "dark", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Object Counts", Subtitle: fmt.Sprintf("source=%s frames=%d", source, len(samples))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Objects"}),
	)

	line.SetXAxis(frames).
		AddSeries("current", current).
		AddSeries("cumulative unique", total)

	return line.Render(w)
}

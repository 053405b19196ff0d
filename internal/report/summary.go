// Package report turns session results into human-readable summaries and
// charts.
package report

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/sightline-data/presence.report/internal/session"
)

// Summary formats one session result the way it is printed at the end of a
// run.
func Summary(r session.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "==================================================\n")
	fmt.Fprintf(&b, "Processing Complete: %s\n", r.Source)
	fmt.Fprintf(&b, "==================================================\n")
	fmt.Fprintf(&b, "Status:            %s\n", r.Outcome)
	fmt.Fprintf(&b, "Frames processed:  %d\n", r.FramesProcessed)
	fmt.Fprintf(&b, "Unique objects:    %d\n", r.Stats.TotalUnique)
	fmt.Fprintf(&b, "Elapsed:           %.1fs\n", r.Elapsed.Seconds())
	fmt.Fprintf(&b, "Average FPS:       %.1f\n", r.AvgFPS)
	if r.OutputPath != "" && !r.WriteFailed {
		fmt.Fprintf(&b, "Output saved to:   %s\n", r.OutputPath)
	}
	if r.WriteFailed {
		fmt.Fprintf(&b, "Output:            write failed, annotated video incomplete or missing\n")
	}
	if dist := countDistribution(r.Samples); dist != "" {
		fmt.Fprintf(&b, "Per-frame counts:  %s\n", dist)
	}
	if r.Err != nil {
		fmt.Fprintf(&b, "Note:              %v\n", r.Err)
	}
	return b.String()
}

// countDistribution summarises the per-frame object counts. Empty result
// when no frames were sampled.
func countDistribution(samples []session.FrameSample) string {
	if len(samples) == 0 {
		return ""
	}
	counts := make([]float64, len(samples))
	max := 0
	for i, s := range samples {
		counts[i] = float64(s.Current)
		if s.Current > max {
			max = s.Current
		}
	}
	mean, std := stat.MeanStdDev(counts, nil)
	if len(samples) == 1 {
		return fmt.Sprintf("mean %.1f, max %d", mean, max)
	}
	return fmt.Sprintf("mean %.1f, stddev %.1f, max %d", mean, std, max)
}

// BatchSummary formats the aggregate outcome of a multi-video run.
func BatchSummary(results []session.Result) string {
	var b strings.Builder
	ok, failed, cancelled := 0, 0, 0
	frames, unique := 0, 0
	for _, r := range results {
		switch r.Outcome {
		case session.OutcomeSourceUnavailable:
			failed++
		case session.OutcomeCancelled:
			cancelled++
		default:
			ok++
		}
		frames += r.FramesProcessed
		unique += r.Stats.TotalUnique
	}

	fmt.Fprintf(&b, "==================================================\n")
	fmt.Fprintf(&b, "Batch Complete: %d video(s)\n", len(results))
	fmt.Fprintf(&b, "==================================================\n")
	fmt.Fprintf(&b, "Completed:         %d\n", ok)
	if failed > 0 {
		fmt.Fprintf(&b, "Unavailable:       %d\n", failed)
	}
	if cancelled > 0 {
		fmt.Fprintf(&b, "Cancelled:         %d\n", cancelled)
	}
	fmt.Fprintf(&b, "Total frames:      %d\n", frames)
	fmt.Fprintf(&b, "Total unique:      %d (summed per video)\n", unique)
	return b.String()
}

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sightline-data/presence.report/internal/session"
	"github.com/sightline-data/presence.report/internal/track"
)

func okResult() session.Result {
	return session.Result{
		Source:          "lobby.mp4",
		Outcome:         session.OutcomeOK,
		FramesProcessed: 4,
		Elapsed:         2 * time.Second,
		AvgFPS:          2.0,
		OutputPath:      "out/tracked_lobby.mp4",
		Stats:           track.Snapshot{TotalUnique: 4, SeenIDs: []int64{1, 2, 3, 4}},
		Samples: []session.FrameSample{
			{FrameIndex: 1, Current: 2, Total: 2, FPS: 1.5},
			{FrameIndex: 2, Current: 2, Total: 3, FPS: 1.8},
			{FrameIndex: 3, Current: 0, Total: 3, FPS: 1.9},
			{FrameIndex: 4, Current: 1, Total: 4, FPS: 2.0},
		},
	}
}

func TestSummary(t *testing.T) {
	s := Summary(okResult())

	for _, want := range []string{
		"Processing Complete: lobby.mp4",
		"Status:            ok",
		"Frames processed:  4",
		"Unique objects:    4",
		"Average FPS:       2.0",
		"Output saved to:   out/tracked_lobby.mp4",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary missing %q:\n%s", want, s)
		}
	}
}

func TestSummaryWriteFailed(t *testing.T) {
	r := okResult()
	r.WriteFailed = true

	s := Summary(r)
	if !strings.Contains(s, "write failed") {
		t.Errorf("Summary missing write failure notice:\n%s", s)
	}
	if strings.Contains(s, "Output saved to") {
		t.Errorf("Summary claims output saved despite write failure:\n%s", s)
	}
}

func TestSummaryNoSamples(t *testing.T) {
	r := session.Result{
		Source:  "missing.mp4",
		Outcome: session.OutcomeSourceUnavailable,
		Err:     session.ErrSourceUnavailable,
	}

	s := Summary(r)
	if !strings.Contains(s, "source_unavailable") {
		t.Errorf("Summary missing outcome:\n%s", s)
	}
	if strings.Contains(s, "Per-frame counts") {
		t.Errorf("Summary has count distribution with no samples:\n%s", s)
	}
}

func TestCountDistribution(t *testing.T) {
	got := countDistribution(okResult().Samples)
	// counts 2,2,0,1: mean 1.25, max 2
	if !strings.Contains(got, "mean 1.2") {
		t.Errorf("countDistribution = %q, want mean 1.2...", got)
	}
	if !strings.Contains(got, "max 2") {
		t.Errorf("countDistribution = %q, want max 2", got)
	}

	if countDistribution(nil) != "" {
		t.Error("countDistribution(nil) should be empty")
	}
}

func TestBatchSummary(t *testing.T) {
	results := []session.Result{
		okResult(),
		{Source: "missing.mp4", Outcome: session.OutcomeSourceUnavailable},
		{Source: "other.mp4", Outcome: session.OutcomeCancelled, FramesProcessed: 2},
	}

	s := BatchSummary(results)
	for _, want := range []string{
		"Batch Complete: 3 video(s)",
		"Completed:         1",
		"Unavailable:       1",
		"Cancelled:         1",
		"Total frames:      6",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("BatchSummary missing %q:\n%s", want, s)
		}
	}
}

func TestWriteSessionChart(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSessionChart(&buf, "lobby.mp4", okResult().Samples); err != nil {
		t.Fatalf("WriteSessionChart failed: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "echarts") {
		t.Error("chart HTML does not reference echarts")
	}
	if !strings.Contains(html, "cumulative unique") {
		t.Error("chart HTML missing series name")
	}
}

func TestWriteSessionChartNoSamples(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSessionChart(&buf, "lobby.mp4", nil); err == nil {
		t.Error("Expected error for empty samples, got nil")
	}
}

func TestSaveTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.png")
	if err := SaveTimeline(okResult().Samples, "lobby.mp4", path); err != nil {
		t.Fatalf("SaveTimeline failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestSaveTimelineNoSamples(t *testing.T) {
	if err := SaveTimeline(nil, "lobby.mp4", "unused.png"); err == nil {
		t.Error("Expected error for empty samples, got nil")
	}
}

package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/sightline-data/presence.report/internal/monitoring"
	"github.com/sightline-data/presence.report/internal/video"
)

// BatchOptions configures a multi-video run.
type BatchOptions struct {
	// OutputDir receives one annotated video per session, named
	// deterministically from the input's base name. Empty disables
	// file output.
	OutputDir string
}

// ProcessAll runs one session per source, strictly sequentially and in
// input order. The display surface and codec handles are owned by one
// session at a time, so sessions never overlap. A failing session
// contributes its partial or empty result and the batch moves on; the
// result slice always has one entry per source.
func (c *Controller) ProcessAll(ctx context.Context, sources []string, opts BatchOptions) []Result {
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			monitoring.Logf("cannot create output directory %s, disabling file output: %v", opts.OutputDir, err)
			opts.OutputDir = ""
		}
	}

	results := make([]Result, 0, len(sources))
	for i, source := range sources {
		monitoring.Logf("processing video %d/%d: %s", i+1, len(sources), source)

		outputPath := ""
		if opts.OutputDir != "" {
			outputPath = filepath.Join(opts.OutputDir, video.OutputName(source))
		}

		result, err := c.Run(ctx, source, outputPath)
		if err != nil {
			if errors.Is(err, ErrSourceUnavailable) {
				monitoring.Logf("skipping %s: %v", source, err)
			} else {
				monitoring.Logf("session %s failed: %v", source, err)
			}
		}
		results = append(results, result)
	}
	return results
}

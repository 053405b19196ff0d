package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/sightline-data/presence.report/internal/config"
	"github.com/sightline-data/presence.report/internal/display"
	"github.com/sightline-data/presence.report/internal/monitoring"
	"github.com/sightline-data/presence.report/internal/render"
	"github.com/sightline-data/presence.report/internal/report"
	"github.com/sightline-data/presence.report/internal/session"
	"github.com/sightline-data/presence.report/internal/store"
	"github.com/sightline-data/presence.report/internal/track"
	"github.com/sightline-data/presence.report/internal/version"
	"github.com/sightline-data/presence.report/internal/video"
	"github.com/sightline-data/presence.report/internal/vision"
)

var (
	input       = flag.String("input", "", "Video file or directory of videos to process")
	outputDir   = flag.String("output-dir", "output", "Directory for annotated videos and reports (empty disables)")
	dbFile      = flag.String("db", "sessions.db", "Session database path (empty disables persistence)")
	configPath  = flag.String("config", "", "Pipeline config JSON path")
	listen      = flag.String("listen", "", "Listen address for the live view (empty runs headless)")
	skipFrames  = flag.Int("skip", 0, "Frames to skip between processed frames")
	minConf     = flag.Float64("conf", 0.25, "Minimum detection confidence")
	classes     = flag.String("classes", "0", "Comma-separated class ids to keep (empty keeps all)")
	trackerCmd  = flag.String("tracker-cmd", "presence-tracker", "Tracker subprocess command")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: presence-report -input <video-or-directory> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := loadConfig()
	if err != nil {
		monitoring.Logf("invalid config: %v", err)
		os.Exit(1)
	}

	sources, err := video.ListSources(*input)
	if err != nil {
		monitoring.Logf("cannot enumerate inputs: %v", err)
		os.Exit(1)
	}
	if len(sources) == 0 {
		monitoring.Logf("no video files found under %s", *input)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	filter := track.NewFilter(cfg.GetMinConfidence(), cfg.GetClasses())
	tracker, err := vision.StartSubprocess(vision.SubprocessConfig{
		Command: cfg.GetTrackerCommand(),
		Args:    cfg.GetTrackerArgs(),
		Filter:  filter,
	})
	if err != nil {
		monitoring.Logf("cannot start tracker %s: %v", cfg.GetTrackerCommand(), err)
		os.Exit(1)
	}
	defer tracker.Close()

	// one display surface for the whole batch
	var surface display.Surface
	if *listen != "" {
		lv, err := display.NewLiveView(*listen)
		if err != nil {
			monitoring.Logf("cannot start live view on %s: %v", *listen, err)
			os.Exit(1)
		}
		defer lv.Close()
		monitoring.Logf("live view at http://%s/", lv.Addr())
		surface = lv
	}

	renderOpts := render.DefaultOptions()
	renderOpts.BoxThickness = cfg.GetBoxThickness()
	renderOpts.Labels = cfg.GetDrawLabels()
	renderOpts.PanelHeight = cfg.GetPanelHeight()
	renderOpts.PanelAlpha = cfg.GetPanelAlpha()
	renderOpts.ShowFPS = cfg.GetShowFPS()
	renderer := render.New(renderOpts)

	controller := session.New(session.Config{
		Tracker:       tracker,
		Renderer:      renderer,
		Display:       surface,
		SkipCount:     cfg.GetSkipFrames(),
		PausePoll:     cfg.GetPausePoll(),
		ProgressEvery: cfg.GetProgressEvery(),
	})

	results := controller.ProcessAll(ctx, sources, session.BatchOptions{OutputDir: *outputDir})

	persistResults(results)
	writeReports(results)

	for _, r := range results {
		fmt.Print(report.Summary(r))
	}
	if len(results) > 1 {
		fmt.Print(report.BatchSummary(results))
	}
}

// loadConfig merges the optional JSON file with explicit flag overrides.
// A flag set on the command line wins over the file.
func loadConfig() (*config.PipelineConfig, error) {
	cfg := config.EmptyPipelineConfig()
	if *configPath != "" {
		loaded, err := config.LoadPipelineConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var parseErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "skip":
			cfg.SkipFrames = skipFrames
		case "conf":
			cfg.MinConfidence = minConf
		case "classes":
			cls, err := parseClasses(*classes)
			if err != nil {
				parseErr = err
				return
			}
			cfg.Classes = cls
		case "tracker-cmd":
			cfg.TrackerCommand = trackerCmd
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseClasses(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	classes := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid class id %q: %v", p, err)
		}
		classes = append(classes, v)
	}
	return classes, nil
}

func persistResults(results []session.Result) {
	if *dbFile == "" {
		return
	}
	db, err := store.NewDB(*dbFile)
	if err != nil {
		monitoring.Logf("cannot open session db %s, results not persisted: %v", *dbFile, err)
		return
	}
	defer db.Close()

	for _, r := range results {
		id, err := db.RecordSession(r)
		if err != nil {
			monitoring.Logf("failed to persist session %s: %v", r.Source, err)
			continue
		}
		monitoring.Logf("recorded session %s as %s", r.Source, id)
	}
}

// writeReports drops a chart HTML and count timeline PNG next to each
// annotated video.
func writeReports(results []session.Result) {
	if *outputDir == "" {
		return
	}
	for _, r := range results {
		if len(r.Samples) == 0 {
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(r.Source), filepath.Ext(r.Source))

		chartPath := filepath.Join(*outputDir, stem+"_counts.html")
		f, err := os.Create(chartPath)
		if err != nil {
			monitoring.Logf("cannot write chart for %s: %v", r.Source, err)
		} else {
			if err := report.WriteSessionChart(f, r.Source, r.Samples); err != nil {
				monitoring.Logf("chart render failed for %s: %v", r.Source, err)
			}
			f.Close()
		}

		plotPath := filepath.Join(*outputDir, stem+"_counts.png")
		if err := report.SaveTimeline(r.Samples, r.Source, plotPath); err != nil {
			monitoring.Logf("plot failed for %s: %v", r.Source, err)
		}
	}
}

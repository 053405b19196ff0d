package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadPipelineConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "min_confidence": 0.4,
  "classes": [0, 2],
  "skip_frames": 2,
  "progress_every": 10,
  "pause_poll": "250ms",
  "box_thickness": 3,
  "draw_labels": false,
  "panel_height": 60,
  "panel_alpha": 0.5,
  "show_fps": false,
  "tracker_command": "/opt/trackers/yolo",
  "tracker_args": ["--device=cpu"]
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadPipelineConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.MinConfidence == nil || *cfg.MinConfidence != 0.4 {
		t.Errorf("Expected MinConfidence 0.4, got %v", cfg.MinConfidence)
	}
	if !reflect.DeepEqual(cfg.Classes, []int{0, 2}) {
		t.Errorf("Expected Classes [0 2], got %v", cfg.Classes)
	}
	if cfg.SkipFrames == nil || *cfg.SkipFrames != 2 {
		t.Errorf("Expected SkipFrames 2, got %v", cfg.SkipFrames)
	}
	if cfg.GetPausePoll() != 250*time.Millisecond {
		t.Errorf("GetPausePoll() = %v, want 250ms", cfg.GetPausePoll())
	}
	if cfg.GetBoxThickness() != 3 {
		t.Errorf("GetBoxThickness() = %d, want 3", cfg.GetBoxThickness())
	}
	if cfg.GetDrawLabels() != false {
		t.Errorf("GetDrawLabels() = %v, want false", cfg.GetDrawLabels())
	}
	if cfg.GetTrackerCommand() != "/opt/trackers/yolo" {
		t.Errorf("GetTrackerCommand() = %q, want /opt/trackers/yolo", cfg.GetTrackerCommand())
	}
	if !reflect.DeepEqual(cfg.GetTrackerArgs(), []string{"--device=cpu"}) {
		t.Errorf("GetTrackerArgs() = %v, want [--device=cpu]", cfg.GetTrackerArgs())
	}
}

func TestLoadPipelineConfigMissing(t *testing.T) {
	_, err := LoadPipelineConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadPipelineConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadPipelineConfig("/some/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json extension, got nil")
	}
}

func TestLoadPipelineConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "min_confidence": "invalid"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadPipelineConfig(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestLoadPipelineConfigRejectsLargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "large.json")

	largeData := make([]byte, 2*1024*1024) // 2MB
	if err := os.WriteFile(configPath, largeData, 0644); err != nil {
		t.Fatalf("Failed to write large file: %v", err)
	}

	_, err := LoadPipelineConfig(configPath)
	if err == nil {
		t.Error("Expected error for file size > 1MB, got nil")
	}
}

func TestLoadPipelineConfigPartial(t *testing.T) {
	// Partial config: only override confidence; everything else keeps defaults.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	partialJSON := `{
  "min_confidence": 0.5
}`
	if err := os.WriteFile(configPath, []byte(partialJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadPipelineConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load partial config: %v", err)
	}

	if cfg.GetMinConfidence() != 0.5 {
		t.Errorf("Expected overridden MinConfidence 0.5, got %f", cfg.GetMinConfidence())
	}
	// Default values should be preserved
	if cfg.GetSkipFrames() != 0 {
		t.Errorf("Expected default SkipFrames 0, got %d", cfg.GetSkipFrames())
	}
	if !reflect.DeepEqual(cfg.GetClasses(), []int{0}) {
		t.Errorf("Expected default Classes [0], got %v", cfg.GetClasses())
	}
	if cfg.GetPanelHeight() != 80 {
		t.Errorf("Expected default PanelHeight 80, got %d", cfg.GetPanelHeight())
	}
	if cfg.GetPanelAlpha() != 0.7 {
		t.Errorf("Expected default PanelAlpha 0.7, got %f", cfg.GetPanelAlpha())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *PipelineConfig
		wantErr bool
	}{
		{
			name:    "empty config is valid",
			cfg:     &PipelineConfig{},
			wantErr: false,
		},
		{
			name: "full valid config",
			cfg: &PipelineConfig{
				MinConfidence: ptrFloat64(0.25),
				SkipFrames:    ptrInt(2),
				PanelAlpha:    ptrFloat64(0.7),
				BoxThickness:  ptrInt(2),
				PausePoll:     ptrString("100ms"),
				DrawLabels:    ptrBool(true),
			},
			wantErr: false,
		},
		{
			name: "confidence too low",
			cfg: &PipelineConfig{
				MinConfidence: ptrFloat64(-0.1),
			},
			wantErr: true,
		},
		{
			name: "confidence too high",
			cfg: &PipelineConfig{
				MinConfidence: ptrFloat64(1.5),
			},
			wantErr: true,
		},
		{
			name: "negative skip frames",
			cfg: &PipelineConfig{
				SkipFrames: ptrInt(-1),
			},
			wantErr: true,
		},
		{
			name: "alpha out of range",
			cfg: &PipelineConfig{
				PanelAlpha: ptrFloat64(1.1),
			},
			wantErr: true,
		},
		{
			name: "zero box thickness",
			cfg: &PipelineConfig{
				BoxThickness: ptrInt(0),
			},
			wantErr: true,
		},
		{
			name: "invalid pause poll",
			cfg: &PipelineConfig{
				PausePoll: ptrString("invalid"),
			},
			wantErr: true,
		},
		{
			name: "negative class id",
			cfg: &PipelineConfig{
				Classes: []int{0, -3},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetterDefaults(t *testing.T) {
	cfg := EmptyPipelineConfig()

	if cfg.GetMinConfidence() != 0.25 {
		t.Errorf("GetMinConfidence() = %f, want 0.25", cfg.GetMinConfidence())
	}
	if !reflect.DeepEqual(cfg.GetClasses(), []int{0}) {
		t.Errorf("GetClasses() = %v, want [0]", cfg.GetClasses())
	}
	if cfg.GetSkipFrames() != 0 {
		t.Errorf("GetSkipFrames() = %d, want 0", cfg.GetSkipFrames())
	}
	if cfg.GetProgressEvery() != 30 {
		t.Errorf("GetProgressEvery() = %d, want 30", cfg.GetProgressEvery())
	}
	if cfg.GetPausePoll() != 100*time.Millisecond {
		t.Errorf("GetPausePoll() = %v, want 100ms", cfg.GetPausePoll())
	}
	if cfg.GetBoxThickness() != 2 {
		t.Errorf("GetBoxThickness() = %d, want 2", cfg.GetBoxThickness())
	}
	if cfg.GetDrawLabels() != true {
		t.Errorf("GetDrawLabels() = %v, want true", cfg.GetDrawLabels())
	}
	if cfg.GetPanelHeight() != 80 {
		t.Errorf("GetPanelHeight() = %d, want 80", cfg.GetPanelHeight())
	}
	if cfg.GetPanelAlpha() != 0.7 {
		t.Errorf("GetPanelAlpha() = %f, want 0.7", cfg.GetPanelAlpha())
	}
	if cfg.GetShowFPS() != true {
		t.Errorf("GetShowFPS() = %v, want true", cfg.GetShowFPS())
	}
	if cfg.GetTrackerCommand() != "presence-tracker" {
		t.Errorf("GetTrackerCommand() = %q, want presence-tracker", cfg.GetTrackerCommand())
	}
	if cfg.GetTrackerArgs() != nil {
		t.Errorf("GetTrackerArgs() = %v, want nil", cfg.GetTrackerArgs())
	}
}

func TestGetClassesEmptyMeansAll(t *testing.T) {
	// An explicit empty list disables class filtering; only a nil field
	// gets the person-only default.
	cfg := &PipelineConfig{Classes: []int{}}
	got := cfg.GetClasses()
	if len(got) != 0 {
		t.Errorf("GetClasses() = %v, want empty", got)
	}
}

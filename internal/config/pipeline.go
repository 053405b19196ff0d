package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PipelineConfig represents the root configuration for the processing
// pipeline. All fields are pointers so a partial JSON file overrides only
// the values it names; the Get* methods supply defaults for the rest.
type PipelineConfig struct {
	// Detection params
	MinConfidence *float64 `json:"min_confidence,omitempty"`
	Classes       []int    `json:"classes,omitempty"`

	// Session params
	SkipFrames    *int    `json:"skip_frames,omitempty"`
	ProgressEvery *int    `json:"progress_every,omitempty"`
	PausePoll     *string `json:"pause_poll,omitempty"` // duration string like "100ms"

	// Renderer params
	BoxThickness *int     `json:"box_thickness,omitempty"`
	DrawLabels   *bool    `json:"draw_labels,omitempty"`
	PanelHeight  *int     `json:"panel_height,omitempty"`
	PanelAlpha   *float64 `json:"panel_alpha,omitempty"`
	ShowFPS      *bool    `json:"show_fps,omitempty"`

	// Tracker subprocess params
	TrackerCommand *string  `json:"tracker_command,omitempty"`
	TrackerArgs    []string `json:"tracker_args,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyPipelineConfig returns a PipelineConfig with all fields set to nil.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *PipelineConfig) Validate() error {
	if c.MinConfidence != nil {
		if *c.MinConfidence < 0 || *c.MinConfidence > 1 {
			return fmt.Errorf("min_confidence must be between 0 and 1, got %f", *c.MinConfidence)
		}
	}

	if c.SkipFrames != nil && *c.SkipFrames < 0 {
		return fmt.Errorf("skip_frames must be non-negative, got %d", *c.SkipFrames)
	}

	if c.PanelAlpha != nil {
		if *c.PanelAlpha < 0 || *c.PanelAlpha > 1 {
			return fmt.Errorf("panel_alpha must be between 0 and 1, got %f", *c.PanelAlpha)
		}
	}

	if c.BoxThickness != nil && *c.BoxThickness < 1 {
		return fmt.Errorf("box_thickness must be positive, got %d", *c.BoxThickness)
	}

	if c.PausePoll != nil && *c.PausePoll != "" {
		if _, err := time.ParseDuration(*c.PausePoll); err != nil {
			return fmt.Errorf("invalid pause_poll '%s': %w", *c.PausePoll, err)
		}
	}

	for _, cls := range c.Classes {
		if cls < 0 {
			return fmt.Errorf("class ids must be non-negative, got %d", cls)
		}
	}

	return nil
}

// GetMinConfidence returns the min_confidence value or the default.
func (c *PipelineConfig) GetMinConfidence() float64 {
	if c.MinConfidence == nil {
		return 0.25 // default
	}
	return *c.MinConfidence
}

// GetClasses returns the class filter or the default (person only).
func (c *PipelineConfig) GetClasses() []int {
	if c.Classes == nil {
		return []int{0}
	}
	return c.Classes
}

// GetSkipFrames returns the skip_frames value or the default.
func (c *PipelineConfig) GetSkipFrames() int {
	if c.SkipFrames == nil {
		return 0 // default: process every frame
	}
	return *c.SkipFrames
}

// GetProgressEvery returns the progress_every value or the default.
func (c *PipelineConfig) GetProgressEvery() int {
	if c.ProgressEvery == nil {
		return 30
	}
	return *c.ProgressEvery
}

// GetPausePoll parses and returns the PausePoll as a time.Duration.
func (c *PipelineConfig) GetPausePoll() time.Duration {
	if c.PausePoll == nil || *c.PausePoll == "" {
		return 100 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.PausePoll)
	if err != nil {
		return 100 * time.Millisecond // default on parse error
	}
	return d
}

// GetBoxThickness returns the box_thickness value or the default.
func (c *PipelineConfig) GetBoxThickness() int {
	if c.BoxThickness == nil {
		return 2
	}
	return *c.BoxThickness
}

// GetDrawLabels returns the draw_labels value or the default.
func (c *PipelineConfig) GetDrawLabels() bool {
	if c.DrawLabels == nil {
		return true
	}
	return *c.DrawLabels
}

// GetPanelHeight returns the panel_height value or the default.
func (c *PipelineConfig) GetPanelHeight() int {
	if c.PanelHeight == nil {
		return 80
	}
	return *c.PanelHeight
}

// GetPanelAlpha returns the panel_alpha value or the default.
func (c *PipelineConfig) GetPanelAlpha() float64 {
	if c.PanelAlpha == nil {
		return 0.7
	}
	return *c.PanelAlpha
}

// GetShowFPS returns the show_fps value or the default.
func (c *PipelineConfig) GetShowFPS() bool {
	if c.ShowFPS == nil {
		return true
	}
	return *c.ShowFPS
}

// GetTrackerCommand returns the tracker_command value or the default.
func (c *PipelineConfig) GetTrackerCommand() string {
	if c.TrackerCommand == nil || *c.TrackerCommand == "" {
		return "presence-tracker"
	}
	return *c.TrackerCommand
}

// GetTrackerArgs returns the extra tracker arguments, possibly empty.
func (c *PipelineConfig) GetTrackerArgs() []string {
	return c.TrackerArgs
}

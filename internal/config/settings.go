// Package config loads runtime settings for the overlay service.
//
// The schema matches the JSON accepted on the command line so one file
// drives both the server and single-shot runs. Fields omitted from the file
// keep their defaults; everything is reached through the Get* accessors so
// callers never touch pointers.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings is the root configuration for the overlay service.
type Settings struct {
	// Output score range for rescaled cost grids.
	ScoreMin *int `json:"score_min,omitempty"`
	ScoreMax *int `json:"score_max,omitempty"`

	// Workers bounds row parallelism in the overlay stages (0 = per CPU).
	Workers *int `json:"workers,omitempty"`

	// StorePath is the sqlite layer database.
	StorePath *string `json:"store_path,omitempty"`

	// Listen is the HTTP listen address.
	Listen *string `json:"listen,omitempty"`

	// OutputDir receives per-run artifact directories.
	OutputDir *string `json:"output_dir,omitempty"`

	// LayerDescriptions maps layer identifiers to human-readable labels
	// for reporting. Injected here rather than hard-coded in the engine.
	LayerDescriptions map[string]string `json:"layer_descriptions,omitempty"`
}

// Default returns a Settings with every field unset, so all accessors
// answer with their built-in defaults.
func Default() *Settings {
	return &Settings{}
}

// Load reads a Settings from a JSON file. The file must carry a .json
// extension and stay under 1MB. Partial configs are safe.
func Load(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

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

	s := Default()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks cross-field constraints.
func (s *Settings) Validate() error {
	if s.GetScoreMax() <= s.GetScoreMin() {
		return fmt.Errorf("score_max (%d) must be greater than score_min (%d)", s.GetScoreMax(), s.GetScoreMin())
	}
	if s.Workers != nil && *s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *s.Workers)
	}
	return nil
}

// GetScoreMin returns the configured minimum score (default 1).
func (s *Settings) GetScoreMin() int {
	if s.ScoreMin != nil {
		return *s.ScoreMin
	}
	return 1
}

// GetScoreMax returns the configured maximum score (default 10).
func (s *Settings) GetScoreMax() int {
	if s.ScoreMax != nil {
		return *s.ScoreMax
	}
	return 10
}

// GetWorkers returns the configured worker bound (default 0 = per CPU).
func (s *Settings) GetWorkers() int {
	if s.Workers != nil {
		return *s.Workers
	}
	return 0
}

// GetStorePath returns the layer database path (default "suitability.db").
func (s *Settings) GetStorePath() string {
	if s.StorePath != nil {
		return *s.StorePath
	}
	return "suitability.db"
}

// GetListen returns the HTTP listen address (default ":8080").
func (s *Settings) GetListen() string {
	if s.Listen != nil {
		return *s.Listen
	}
	return ":8080"
}

// GetOutputDir returns the artifact output directory (default "runs").
func (s *Settings) GetOutputDir() string {
	if s.OutputDir != nil {
		return *s.OutputDir
	}
	return "runs"
}

// GetLayerDescriptions returns the description map, never nil.
func (s *Settings) GetLayerDescriptions() map[string]string {
	if s.LayerDescriptions != nil {
		return s.LayerDescriptions
	}
	return map[string]string{}
}

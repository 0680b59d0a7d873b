package renderer

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is wrapped by every error Validate returns
var ErrInvalidSettings = errors.New("invalid render settings")

// Mode selects how the image is split into parallel work
type Mode string

const (
	// ModeScanline renders rows in sequence, splitting each row into parallel spans
	ModeScanline Mode = "scanline"
	// ModeTiled renders fixed-size tiles in parallel, pixels within a tile sequentially
	ModeTiled Mode = "tiled"
)

// DefaultTileSize is the tile edge length used by ModeTiled when none is set
const DefaultTileSize = 16

// Settings contains render configuration
type Settings struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	SamplesPerPixel   int     `yaml:"samples_per_pixel"`
	MinSamples        int     `yaml:"min_samples"`        // samples before the variance test applies
	VarianceThreshold float64 `yaml:"variance_threshold"` // 0 always runs the full budget
	MaxDepth          int     `yaml:"max_depth"`
	Frame             int     `yaml:"frame"`
	Seed              int64   `yaml:"seed"`
	Mode              Mode    `yaml:"mode"`
	TileSize          int     `yaml:"tile_size,omitempty"`
	Workers           int     `yaml:"workers,omitempty"` // 0 = use CPU count
}

// DefaultSettings returns sensible default values
func DefaultSettings() Settings {
	return Settings{
		Width:             400,
		Height:            225,
		SamplesPerPixel:   100,
		MinSamples:        16,
		VarianceThreshold: 0.0005,
		MaxDepth:          10,
		Seed:              42,
		Mode:              ModeTiled,
		TileSize:          DefaultTileSize,
	}
}

// Validate reports the first problem with the settings
func (s Settings) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidSettings, s.Width, s.Height)
	case s.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples_per_pixel %d must be positive", ErrInvalidSettings, s.SamplesPerPixel)
	case s.MinSamples < 0 || s.MinSamples > s.SamplesPerPixel:
		return fmt.Errorf("%w: min_samples %d must be in [0, %d]", ErrInvalidSettings, s.MinSamples, s.SamplesPerPixel)
	case s.VarianceThreshold < 0:
		return fmt.Errorf("%w: variance_threshold %g must not be negative", ErrInvalidSettings, s.VarianceThreshold)
	case s.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth %d must not be negative", ErrInvalidSettings, s.MaxDepth)
	case s.TileSize < 0:
		return fmt.Errorf("%w: tile_size %d must not be negative", ErrInvalidSettings, s.TileSize)
	case s.Workers < 0:
		return fmt.Errorf("%w: workers %d must not be negative", ErrInvalidSettings, s.Workers)
	}
	switch s.Mode {
	case "", ModeScanline, ModeTiled:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSettings, s.Mode)
	}
	return nil
}

// AspectRatio returns width / height
func (s Settings) AspectRatio() float64 {
	return float64(s.Width) / float64(s.Height)
}

// withDefaults fills zero-valued optional fields
func (s Settings) withDefaults() Settings {
	if s.Mode == "" {
		s.Mode = ModeTiled
	}
	if s.TileSize == 0 {
		s.TileSize = DefaultTileSize
	}
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU()
	}
	return s
}

// LoadSettings reads YAML settings from path on top of DefaultSettings
func LoadSettings(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

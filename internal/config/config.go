// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/voxelterrain/internal/engine/atlas"
	"github.com/Faultbox/voxelterrain/internal/engine/terrain"
)

// Config holds all settings.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Atlas   AtlasConfig   `yaml:"atlas"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// WorldConfig holds terrain generation settings.
type WorldConfig struct {
	Size int   `yaml:"size"` // Side length of the height field
	Seed int64 `yaml:"seed"`
}

// AtlasConfig holds texture atlas settings.
type AtlasConfig struct {
	Path             string       `yaml:"path"`
	AutoClassify     bool         `yaml:"auto_classify"`
	Tiles            *TileMapping `yaml:"tiles,omitempty"` // Explicit mapping, disables classification
	FallbackTileSize int          `yaml:"fallback_tile_size"`
}

// TileMapping assigns atlas tiles to the grass and dirt roles.
type TileMapping struct {
	Top  atlas.Tile `yaml:"top"`
	Side atlas.Tile `yaml:"side"`
	Dirt atlas.Tile `yaml:"dirt"`
}

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	Output   string  `yaml:"output"`
	CubeSize float32 `yaml:"cube_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Size: terrain.DefaultSize,
			Seed: 0,
		},
		Atlas: AtlasConfig{
			Path:             "assets/atlas.png",
			AutoClassify:     true,
			FallbackTileSize: 16,
		},
		Export: ExportConfig{
			Output:   "terrain.glb",
			CubeSize: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validation errors.
var (
	ErrInvalidSize     = errors.New("world size must be positive")
	ErrInvalidCubeSize = errors.New("cube size must be positive")
	ErrInvalidTileSize = errors.New("fallback tile size must be positive")
	ErrInvalidTile     = errors.New("tile coordinates must not be negative")
	ErrInvalidLevel    = errors.New("unknown log level")
)

// Validate checks the config for values the engine cannot work with.
func (c *Config) Validate() error {
	if c.World.Size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, c.World.Size)
	}
	if c.Export.CubeSize <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidCubeSize, c.Export.CubeSize)
	}
	if c.Atlas.FallbackTileSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTileSize, c.Atlas.FallbackTileSize)
	}
	if m := c.Atlas.Tiles; m != nil {
		for _, t := range []atlas.Tile{m.Top, m.Side, m.Dirt} {
			if t.Col < 0 || t.Row < 0 {
				return fmt.Errorf("%w: %s", ErrInvalidTile, t)
			}
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Logging.Level)
	}
	return nil
}

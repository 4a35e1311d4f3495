// Package config handles terraintool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
)

// Config holds all terraintool settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Worker  WorkerConfig  `yaml:"worker"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds the world layout.
type TerrainConfig struct {
	NbChunks       int     `yaml:"nb_chunks"`
	ChunkSize      float32 `yaml:"chunk_size"`
	MaxSubdivLevel int     `yaml:"max_subdiv_level"`
}

// MeshConfig selects the level-0 mesh: a YAML document or a .gat altitude
// table. With an empty path a checkerboard grid of GridCells cells per chunk
// side is generated instead.
type MeshConfig struct {
	Path      string `yaml:"path"`
	GridCells int    `yaml:"grid_cells"`
}

// WorkerConfig holds subdivision worker settings.
type WorkerConfig struct {
	QueueSize int `yaml:"queue_size"` // Pending chunk requests before Enqueue blocks
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	p := terrain.DefaultParams()
	return &Config{
		Terrain: TerrainConfig{
			NbChunks:       p.NbChunks,
			ChunkSize:      p.ChunkSize,
			MaxSubdivLevel: p.MaxSubdivLevel,
		},
		Mesh: MeshConfig{
			Path:      "",
			GridCells: 4,
		},
		Worker: WorkerConfig{
			QueueSize: 64,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Params converts the terrain section into engine parameters.
func (c *Config) Params() terrain.Params {
	return terrain.Params{
		NbChunks:       c.Terrain.NbChunks,
		ChunkSize:      c.Terrain.ChunkSize,
		MaxSubdivLevel: c.Terrain.MaxSubdivLevel,
	}
}

// Validate checks the settings that the engine cannot repair on its own.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Mesh.Path == "" && c.Mesh.GridCells < 1 {
		return fmt.Errorf("mesh.grid_cells must be positive, got %d", c.Mesh.GridCells)
	}
	if c.Worker.QueueSize < 0 {
		return fmt.Errorf("worker.queue_size must not be negative, got %d", c.Worker.QueueSize)
	}
	return nil
}

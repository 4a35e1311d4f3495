package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/meshfile"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
)

// loadWorld builds level 0 from the configured mesh file, or from a generated
// checkerboard grid, and wraps it in a Geometry.
func loadWorld(cfg *config.Config) (*terrain.Geometry, error) {
	params := cfg.Params()
	log := logger.Named("terrain")

	base, err := terrain.NewLevel(params, log)
	if err != nil {
		return nil, err
	}

	var mf *meshfile.File
	if cfg.Mesh.Path != "" {
		mf, err = meshfile.Open(cfg.Mesh.Path, params)
		if err != nil {
			return nil, fmt.Errorf("loading mesh: %w", err)
		}
	} else {
		mf = meshfile.Grid(params, cfg.Mesh.GridCells,
			meshfile.ChunkBiomes(params, terrain.BiomeGrassland, terrain.BiomeTaiga),
			ridge(params))
	}

	added, err := mf.Populate(base)
	if err != nil {
		// Bad triangles are dropped; the rest of the mesh is still usable.
		log.Warn("mesh has invalid triangles",
			zap.Int("accepted", added),
			zap.Int("total", len(mf.Triangles)),
			zap.Error(err))
	}
	if added == 0 {
		return nil, fmt.Errorf("mesh has no usable triangles")
	}

	return terrain.NewGeometry(base, terrain.WithLogger(log))
}

// ridge is a height field rising toward the middle of the world along X.
func ridge(params terrain.Params) meshfile.HeightFunc {
	half := params.MaxCoord() / 2
	return func(x, y float32) float32 {
		d := x - half
		if d < 0 {
			d = -d
		}
		return (half - d) * 0.05
	}
}

package meshfile

import (
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// BiomeFunc assigns a biome to the cell whose lower corner is (x, y).
// Returning terrain.BiomeUndefined leaves the cell empty.
type BiomeFunc func(x, y float32) terrain.Biome

// HeightFunc gives the terrain height at a grid point.
type HeightFunc func(x, y float32) float32

// Grid triangulates the whole world with cellsPerChunk square cells along
// each chunk side, two triangles per cell.
func Grid(params terrain.Params, cellsPerChunk int, biome BiomeFunc, height HeightFunc) *File {
	if cellsPerChunk < 1 {
		cellsPerChunk = 1
	}
	if height == nil {
		height = func(x, y float32) float32 { return 0 }
	}

	n := params.NbChunks * cellsPerChunk
	cell := params.ChunkSize / float32(cellsPerChunk)
	point := func(i, j int) []float32 {
		x, y := float32(i)*cell, float32(j)*cell
		return []float32{x, y, height(x, y)}
	}

	mf := &File{Triangles: make([]Triangle, 0, 2*n*n)}
	for i := range n {
		for j := range n {
			b := biome(float32(i)*cell, float32(j)*cell)
			if !b.Defined() {
				continue
			}
			name := b.String()
			mf.Triangles = append(mf.Triangles,
				Triangle{Biome: name, Vertices: [][]float32{point(i, j), point(i+1, j), point(i+1, j+1)}},
				Triangle{Biome: name, Vertices: [][]float32{point(i, j), point(i+1, j+1), point(i, j+1)}},
			)
		}
	}
	return mf
}

// ChunkBiomes returns a BiomeFunc that alternates two biomes chunk by chunk,
// like a checkerboard, so every chunk border is a biome seam.
func ChunkBiomes(params terrain.Params, a, b terrain.Biome) BiomeFunc {
	return func(x, y float32) terrain.Biome {
		cx, cy, ok := params.ChunkOf(math.Vec2{X: x, Y: y})
		if !ok {
			return terrain.BiomeUndefined
		}
		if (cx+cy)%2 == 0 {
			return a
		}
		return b
	}
}

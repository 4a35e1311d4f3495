// Package terrain implements the adaptive subdivision engine behind the LOD
// terrain: a per-level vertex/triangle adjacency graph with a spatial bucket
// index, and a lazy, chunk-aware refinement ladder on top of it.
//
// A Geometry is single-writer. Every mutating call (Level.AddTriangle,
// Level.SubdivideTriangles, Geometry.SubdivideChunk,
// Geometry.GenerateNewSubdivisionLevel) must be serialized by the caller,
// typically through a Subdivider. The package does no locking of its own.
package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// GridSubdiv is the number of subchunk buckets along each side of a chunk.
const GridSubdiv = 8

// VertexID addresses a vertex inside the arena of one Level.
type VertexID int32

// TriangleID addresses a triangle inside the arena of one Level.
type TriangleID int32

// NoTriangle is returned where a neighbouring triangle does not exist.
const NoTriangle TriangleID = -1

var (
	// ErrDegenerateTriangle is returned when two corners of a triangle share a position.
	ErrDegenerateTriangle = errors.New("terrain: degenerate triangle")
	// ErrNilLevel is returned when a Geometry is built without a base level.
	ErrNilLevel = errors.New("terrain: nil base level")
)

// Params holds the world dimensions shared by every level of a Geometry.
type Params struct {
	NbChunks       int     // Chunks along each side of the world
	ChunkSize      float32 // World units per chunk side
	MaxSubdivLevel int     // Deepest refinement level
}

// DefaultParams returns the world layout used when nothing else is configured.
func DefaultParams() Params {
	return Params{
		NbChunks:       16,
		ChunkSize:      128,
		MaxSubdivLevel: 4,
	}
}

// Validate reports whether the parameters describe a usable world.
func (p Params) Validate() error {
	if p.NbChunks <= 0 {
		return fmt.Errorf("terrain: nb_chunks must be positive, got %d", p.NbChunks)
	}
	if !(p.ChunkSize > 0) {
		return fmt.Errorf("terrain: chunk_size must be positive, got %v", p.ChunkSize)
	}
	if p.MaxSubdivLevel < 0 {
		return fmt.Errorf("terrain: max_subdiv_level must not be negative, got %d", p.MaxSubdivLevel)
	}
	return nil
}

// MaxCoord is the world extent along X and Y.
func (p Params) MaxCoord() float32 {
	return float32(p.NbChunks) * p.ChunkSize
}

// InRange reports whether (x, y) names a chunk of the world.
func (p Params) InRange(x, y int) bool {
	return x >= 0 && x < p.NbChunks && y >= 0 && y < p.NbChunks
}

// ChunkOf returns the chunk containing a planar position.
// ok is false for positions outside [0, MaxCoord].
func (p Params) ChunkOf(pos math.Vec2) (x, y int, ok bool) {
	m := p.MaxCoord()
	if !(pos.X >= 0 && pos.X <= m && pos.Y >= 0 && pos.Y <= m) {
		return 0, 0, false
	}
	return p.cellIndex(pos.X) / GridSubdiv, p.cellIndex(pos.Y) / GridSubdiv, true
}

func (p Params) chunkIndex(x, y int) int {
	return x*p.NbChunks + y
}

// cellIndex maps a coordinate to a global subchunk column/row, clamping to
// the world edges. A coordinate equal to MaxCoord lands in the last cell.
// The clamp happens before the int conversion, which is undefined for
// values beyond the int range.
func (p Params) cellIndex(c float32) int {
	if !(c > 0) {
		return 0
	}
	n := p.NbChunks * GridSubdiv
	f := c / (p.ChunkSize / GridSubdiv)
	if !(f < float32(n)) {
		return n - 1
	}
	return int(f)
}

// bucketIndex flattens a global subchunk cell into the bucket table.
// Buckets of one chunk are contiguous.
func (p Params) bucketIndex(gx, gy int) int {
	cx, sx := gx/GridSubdiv, gx%GridSubdiv
	cy, sy := gy/GridSubdiv, gy%GridSubdiv
	return p.chunkIndex(cx, cy)*GridSubdiv*GridSubdiv + sx*GridSubdiv + sy
}

// TriangleView is the read-only form of a triangle handed to renderers and queries.
type TriangleView struct {
	Biome         Biome
	Positions     [3]math.Vec3
	Normal        math.Vec3
	VertexNormals [3]math.Vec3
}

// Stats counts the content of a level.
type Stats struct {
	Vertices      int
	Triangles     int
	BucketEntries int
}

package terrain

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Geometry owns the ladder of refinement levels for a world and refines it
// lazily, chunk by chunk. Level 0 is the externally supplied coarse mesh and
// is never written after NewGeometry returns.
type Geometry struct {
	params   Params
	levels   []*Level
	achieved []int // per chunk, indexed by Params.chunkIndex
	global   int   // levels generated for the whole world

	log *zap.Logger
}

// Option configures a Geometry.
type Option func(*Geometry)

// WithLogger sets the logger used for refinement and topology reports.
func WithLogger(log *zap.Logger) Option {
	return func(g *Geometry) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGeometry builds the refinement ladder on top of a populated level 0.
// The fans and normals of the base level are finalized here so later reads
// of level 0 never mutate it.
func NewGeometry(base *Level, opts ...Option) (*Geometry, error) {
	if base == nil {
		return nil, ErrNilLevel
	}

	g := &Geometry{
		params: base.params,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	base.sortAllFans()
	base.ComputeAllNormals()

	g.levels = make([]*Level, g.params.MaxSubdivLevel+1)
	g.levels[0] = base
	for n := 1; n <= g.params.MaxSubdivLevel; n++ {
		g.levels[n] = newLevel(g.params, n, g.log.With(zap.Int("level", n)))
	}
	g.achieved = make([]int, g.params.NbChunks*g.params.NbChunks)

	g.log.Info("terrain geometry ready",
		zap.Int("chunks", g.params.NbChunks),
		zap.Int("maxLevel", g.params.MaxSubdivLevel),
		zap.Int("baseTriangles", base.NumTriangles()),
		zap.Int("baseVertices", base.NumVertices()))

	return g, nil
}

// Params returns the world layout.
func (g *Geometry) Params() Params { return g.params }

// Level returns the mesh of refinement level n, clamped to the ladder.
// Only chunks whose achieved level is at least n are complete in it.
// The returned level is owned by g and must be treated as read-only:
// mutating it (AddTriangle, SubdivideTriangles, ComputeNormals) bypasses
// the achieved-level bookkeeping, and level 0 must never change.
func (g *Geometry) Level(n int) *Level {
	return g.levels[g.clampLevel(n)]
}

// LevelStats returns the content counts of level n, clamped to the ladder.
func (g *Geometry) LevelStats(n int) Stats {
	return g.Level(n).Stats()
}

// GlobalLevel returns the deepest level generated for the whole world.
func (g *Geometry) GlobalLevel() int { return g.global }

// AchievedLevel returns the deepest level generated for chunk (x, y), or -1
// for chunks outside the world.
func (g *Geometry) AchievedLevel(x, y int) int {
	if !g.params.InRange(x, y) {
		return -1
	}
	return g.achieved[g.params.chunkIndex(x, y)]
}

// IsOcean reports whether chunk (x, y) has a hole in its coarse mesh.
func (g *Geometry) IsOcean(x, y int) bool {
	return g.levels[0].IsOcean(x, y)
}

func (g *Geometry) clampLevel(n int) int {
	return min(max(n, 0), g.params.MaxSubdivLevel)
}

// GenerateNewSubdivisionLevel subdivides every triangle of the deepest
// global level into the next one and raises each chunk to at least that
// level. It returns false once the ladder is exhausted.
func (g *Geometry) GenerateNewSubdivisionLevel() bool {
	if g.global >= g.params.MaxSubdivLevel {
		return false
	}

	cur, next := g.levels[g.global], g.levels[g.global+1]
	next.Reserve(cur.NumVertices() * 4)
	children := next.SubdivideTriangles(cur, cur.allTriangles())
	next.ComputeAllNormals()

	g.global++
	for i := range g.achieved {
		if g.achieved[i] < g.global {
			g.achieved[i] = g.global
		}
	}

	g.log.Info("generated global subdivision level",
		zap.Int("level", g.global),
		zap.Int("parents", cur.NumTriangles()),
		zap.Int("children", len(children)))

	return true
}

// SubdivideChunk refines chunk (x, y) up to level. The eight neighbours and
// the chunk itself are first brought to level-1 so vertices on the chunk
// border see their full fan. Chunks outside the world are ignored, and
// chunks already at level return immediately, which bounds the recursion.
func (g *Geometry) SubdivideChunk(x, y, level int) {
	if !g.params.InRange(x, y) {
		return
	}
	level = min(level, g.params.MaxSubdivLevel)
	idx := g.params.chunkIndex(x, y)
	if g.achieved[idx] >= level {
		return
	}

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			g.SubdivideChunk(x+dx, y+dy, level-1)
		}
	}

	parent, target := g.levels[level-1], g.levels[level]
	children := target.SubdivideTriangles(parent, parent.TrianglesInChunk(x, y))
	target.ComputeNormals(target.VerticesOf(children))

	g.achieved[idx] = level

	g.log.Debug("chunk subdivided",
		zap.Int("x", x),
		zap.Int("y", y),
		zap.Int("level", level),
		zap.Int("children", len(children)))
}

// TrianglesInChunk returns the triangles of chunk (x, y) at the requested
// level, refining the chunk first if needed.
func (g *Geometry) TrianglesInChunk(x, y, level int) []TriangleView {
	if !g.params.InRange(x, y) {
		return nil
	}
	level = g.clampLevel(level)
	g.SubdivideChunk(x, y, level)

	lvl := g.levels[level]
	return lvl.views(lvl.TrianglesInChunk(x, y))
}

// levelAt lowers level to what the chunk holding pos has already achieved.
func (g *Geometry) levelAt(pos math.Vec2, level int) (*Level, bool) {
	x, y, ok := g.params.ChunkOf(pos)
	if !ok {
		return nil, false
	}
	level = min(g.clampLevel(level), g.achieved[g.params.chunkIndex(x, y)])
	return g.levels[level], true
}

// TrianglesNearPos returns the triangles of the subchunk containing pos, at
// the requested level or the chunk's achieved level if that is coarser.
// It never triggers refinement.
func (g *Geometry) TrianglesNearPos(pos math.Vec2, level int) []TriangleView {
	lvl, ok := g.levelAt(pos, level)
	if !ok {
		return nil
	}
	return lvl.views(lvl.TrianglesNearPos(pos))
}

// Biome returns the biome at pos, at the requested level or the chunk's
// achieved level if that is coarser. It never triggers refinement.
func (g *Geometry) Biome(pos math.Vec2, level int) Biome {
	lvl, ok := g.levelAt(pos, level)
	if !ok {
		return BiomeUndefined
	}
	return lvl.Biome(pos)
}

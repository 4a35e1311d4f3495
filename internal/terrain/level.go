package terrain

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Level is the full mesh of one refinement depth: a deduplicated arena of
// vertices and triangles plus a grid of subchunk buckets listing every
// triangle whose bounding box overlaps each cell. Levels only grow.
type Level struct {
	params Params
	depth  int

	vertices  []Vertex
	triangles []Triangle

	vertexIndex   map[math.Vec3]VertexID
	triangleIndex map[[3]VertexID]TriangleID

	// buckets[bucketIndex(gx, gy)] lists the triangles overlapping that subchunk.
	buckets       [][]TriangleID
	bucketEntries int

	log *zap.Logger
}

// NewLevel creates an empty level 0 for the given world. A nil logger
// disables anomaly reporting.
func NewLevel(params Params, log *zap.Logger) (*Level, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return newLevel(params, 0, log), nil
}

func newLevel(params Params, depth int, log *zap.Logger) *Level {
	return &Level{
		params:        params,
		depth:         depth,
		vertexIndex:   make(map[math.Vec3]VertexID),
		triangleIndex: make(map[[3]VertexID]TriangleID),
		buckets:       make([][]TriangleID, params.NbChunks*params.NbChunks*GridSubdiv*GridSubdiv),
		log:           log,
	}
}

// Params returns the world layout of the level.
func (l *Level) Params() Params { return l.params }

// Depth returns the refinement level this mesh belongs to.
func (l *Level) Depth() int { return l.depth }

// Reserve grows the vertex arena ahead of a bulk insertion.
func (l *Level) Reserve(nVertices int) {
	l.vertices = slices.Grow(l.vertices, nVertices)
}

// Stats returns the current vertex, triangle and bucket-entry counts.
func (l *Level) Stats() Stats {
	return Stats{
		Vertices:      len(l.vertices),
		Triangles:     len(l.triangles),
		BucketEntries: l.bucketEntries,
	}
}

// NumVertices returns the number of vertices in the level.
func (l *Level) NumVertices() int { return len(l.vertices) }

// NumTriangles returns the number of triangles in the level.
func (l *Level) NumTriangles() int { return len(l.triangles) }

// Vertex returns a copy of the vertex's position and normal.
func (l *Level) Vertex(id VertexID) Vertex {
	v := l.vertices[id]
	return Vertex{Pos: v.Pos, Normal: v.Normal}
}

// VertexAt looks up a vertex by exact position.
func (l *Level) VertexAt(pos math.Vec3) (VertexID, bool) {
	id, ok := l.vertexIndex[pos]
	return id, ok
}

// Fan returns the adjacent triangles of a vertex in their current order.
func (l *Level) Fan(id VertexID) []TriangleID {
	return slices.Clone(l.vertices[id].fan)
}

// Triangle returns a triangle by ID.
func (l *Level) Triangle(id TriangleID) Triangle {
	return l.triangles[id]
}

// View resolves a triangle into positions and normals.
func (l *Level) View(id TriangleID) TriangleView {
	t := &l.triangles[id]
	view := TriangleView{Biome: t.Biome, Normal: t.Normal}
	for i, v := range t.Vertices {
		view.Positions[i] = l.vertices[v].Pos
		view.VertexNormals[i] = l.vertices[v].Normal
	}
	return view
}

func (l *Level) views(ids []TriangleID) []TriangleView {
	out := make([]TriangleView, len(ids))
	for i, id := range ids {
		out[i] = l.View(id)
	}
	return out
}

// AddTriangle inserts a triangle given by its corner positions. The winding
// is fixed so the face normal points toward +Z, corners are merged with
// existing vertices at the exact same position, and a triangle over an
// already known vertex triple is not inserted twice: the existing ID is
// returned and the first biome is kept.
func (l *Level) AddTriangle(p [3]math.Vec3, biome Biome) (TriangleID, error) {
	if p[0] == p[1] || p[1] == p[2] || p[0] == p[2] {
		return NoTriangle, ErrDegenerateTriangle
	}

	normal := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if normal.Z < 0 {
		p[1], p[2] = p[2], p[1]
		normal = normal.Scale(-1)
	}

	var ids [3]VertexID
	for i := range p {
		ids[i] = l.vertexFor(p[i])
	}

	key := ids
	slices.Sort(key[:])
	if id, ok := l.triangleIndex[key]; ok {
		return id, nil
	}

	id := TriangleID(len(l.triangles))
	l.triangles = append(l.triangles, Triangle{
		Vertices: ids,
		Biome:    biome,
		Normal:   normal.Normalize(),
	})
	l.triangleIndex[key] = id

	for _, v := range ids {
		l.vertices[v].addAdjacentTriangle(id)
	}
	l.index(id, p)

	return id, nil
}

// vertexFor returns the vertex at pos, creating it if needed.
func (l *Level) vertexFor(pos math.Vec3) VertexID {
	if id, ok := l.vertexIndex[pos]; ok {
		return id
	}
	id := VertexID(len(l.vertices))
	l.vertices = append(l.vertices, Vertex{Pos: pos})
	l.vertexIndex[pos] = id
	return id
}

// index registers a triangle in every subchunk its bounding box overlaps.
func (l *Level) index(id TriangleID, p [3]math.Vec3) {
	x0 := l.params.cellIndex(min(p[0].X, p[1].X, p[2].X))
	x1 := l.params.cellIndex(max(p[0].X, p[1].X, p[2].X))
	y0 := l.params.cellIndex(min(p[0].Y, p[1].Y, p[2].Y))
	y1 := l.params.cellIndex(max(p[0].Y, p[1].Y, p[2].Y))

	for gx := x0; gx <= x1; gx++ {
		for gy := y0; gy <= y1; gy++ {
			b := l.params.bucketIndex(gx, gy)
			l.buckets[b] = append(l.buckets[b], id)
			l.bucketEntries++
		}
	}
}

// chunkBuckets returns the GridSubdiv² buckets of a chunk.
func (l *Level) chunkBuckets(x, y int) [][]TriangleID {
	base := l.params.chunkIndex(x, y) * GridSubdiv * GridSubdiv
	return l.buckets[base : base+GridSubdiv*GridSubdiv]
}

// IsOcean reports whether any subchunk of chunk (x, y) holds no triangle.
// Chunks outside the world count as ocean.
func (l *Level) IsOcean(x, y int) bool {
	if !l.params.InRange(x, y) {
		return true
	}
	for _, b := range l.chunkBuckets(x, y) {
		if len(b) == 0 {
			return true
		}
	}
	return false
}

// TrianglesInChunk returns every triangle overlapping chunk (x, y), each once,
// in ascending ID order.
func (l *Level) TrianglesInChunk(x, y int) []TriangleID {
	if !l.params.InRange(x, y) {
		return nil
	}
	var ids []TriangleID
	for _, b := range l.chunkBuckets(x, y) {
		ids = append(ids, b...)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// TrianglesNearPos returns the triangles of the subchunk containing pos.
func (l *Level) TrianglesNearPos(pos math.Vec2) []TriangleID {
	if _, _, ok := l.params.ChunkOf(pos); !ok {
		return nil
	}
	b := l.params.bucketIndex(l.params.cellIndex(pos.X), l.params.cellIndex(pos.Y))
	return slices.Clone(l.buckets[b])
}

// Biome returns the biome of the first triangle enclosing pos, or
// BiomeUndefined when no triangle covers it.
func (l *Level) Biome(pos math.Vec2) Biome {
	for _, id := range l.TrianglesNearPos(pos) {
		if l.contains(id, pos) {
			return l.triangles[id].Biome
		}
	}
	return BiomeUndefined
}

// contains runs a barycentric point-in-triangle test on the XY plane.
// Points on an edge are inside.
func (l *Level) contains(id TriangleID, pos math.Vec2) bool {
	var x, y [3]float64
	for i, v := range l.triangles[id].Vertices {
		x[i] = float64(l.vertices[v].Pos.X)
		y[i] = float64(l.vertices[v].Pos.Y)
	}
	px, py := float64(pos.X), float64(pos.Y)

	denom := (y[1]-y[2])*(x[0]-x[2]) + (x[2]-x[1])*(y[0]-y[2])
	if denom == 0 {
		return false
	}
	s := ((y[1]-y[2])*(px-x[2]) + (x[2]-x[1])*(py-y[2])) / denom
	t := ((y[2]-y[0])*(px-x[2]) + (x[0]-x[2])*(py-y[2])) / denom

	return s >= 0 && t >= 0 && s+t <= 1
}

// VerticesOf returns the distinct vertices used by a set of triangles, in
// ascending ID order.
func (l *Level) VerticesOf(ids []TriangleID) []VertexID {
	out := make([]VertexID, 0, len(ids)*3)
	for _, id := range ids {
		out = append(out, l.triangles[id].Vertices[:]...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// allTriangles returns the ID of every triangle in the level.
func (l *Level) allTriangles() []TriangleID {
	ids := make([]TriangleID, len(l.triangles))
	for i := range ids {
		ids[i] = TriangleID(i)
	}
	return ids
}

// sortAllFans orders every fan of the level.
func (l *Level) sortAllFans() {
	for i := range l.vertices {
		l.SortTriangles(VertexID(i))
	}
}

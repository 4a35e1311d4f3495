package terrain

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// fanReference is the axis fan angles are measured from.
var fanReference = math.Vec2{X: 0, Y: 1}

// Vertex is a mesh vertex. Its position is its identity within a level.
type Vertex struct {
	Pos    math.Vec3
	Normal math.Vec3

	fan    []TriangleID // adjacent triangles, ordered once sorted
	sorted bool
}

// addAdjacentTriangle records t in the fan and invalidates its order.
func (v *Vertex) addAdjacentTriangle(t TriangleID) {
	v.fan = append(v.fan, t)
	v.sorted = false
}

// Valence returns the number of triangles around the vertex.
func (v *Vertex) Valence() int {
	return len(v.fan)
}

// Triangle is an immutable face of a level. Its corners wind counter-clockwise
// seen from +Z.
type Triangle struct {
	Vertices [3]VertexID
	Biome    Biome
	Normal   math.Vec3
}

// rotation returns the corner indices of t starting at v, following the winding.
func (t *Triangle) rotation(v VertexID) ([3]int, bool) {
	for i, id := range t.Vertices {
		if id == v {
			return [3]int{i, (i + 1) % 3, (i + 2) % 3}, true
		}
	}
	return [3]int{}, false
}

// fanEdges returns the two other corners of triangle t as seen from vertex v:
// lead follows v in the winding, trail precedes it. In a closed fan the trail
// of one triangle is the lead of the next.
func (l *Level) fanEdges(t TriangleID, v VertexID) (lead, trail VertexID, ok bool) {
	tri := &l.triangles[t]
	r, ok := tri.rotation(v)
	if !ok {
		l.log.Warn("vertex does not belong to triangle",
			zap.Int32("vertex", int32(v)),
			zap.Int32("triangle", int32(t)))
		return 0, 0, false
	}
	return tri.Vertices[r[1]], tri.Vertices[r[2]], true
}

// SortTriangles orders the fan of a vertex by the angle of each triangle's
// lead edge, measured from the +Y axis. The order is cached until a new
// triangle joins the fan.
func (l *Level) SortTriangles(id VertexID) {
	v := &l.vertices[id]
	if v.sorted {
		return
	}
	v.sorted = true

	type keyed struct {
		t     TriangleID
		angle float32
	}
	keys := make([]keyed, len(v.fan))
	for i, t := range v.fan {
		keys[i].t = t
		if lead, _, ok := l.fanEdges(t, id); ok {
			keys[i].angle = fanReference.AngleTo(l.vertices[lead].Pos.Sub(v.Pos).XY())
		}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		return cmp.Compare(a.angle, b.angle)
	})
	for i := range keys {
		v.fan[i] = keys[i].t
	}
}

// continues reports whether next picks up the fan of v exactly where cur ends.
func (l *Level) continues(v VertexID, cur, next TriangleID) bool {
	_, trail, ok := l.fanEdges(cur, v)
	if !ok {
		return false
	}
	lead, _, ok := l.fanEdges(next, v)
	return ok && trail == lead
}

// NextTriangle returns the triangle following t in the sorted fan of v when
// both share the edge between v and t's trailing corner. It returns
// NoTriangle when the fan is open there, i.e. v sits on a mesh boundary.
func (l *Level) NextTriangle(v VertexID, t TriangleID) TriangleID {
	l.SortTriangles(v)
	fan := l.vertices[v].fan
	i := slices.Index(fan, t)
	if i < 0 {
		l.log.Warn("triangle is not in the fan of vertex",
			zap.Int32("vertex", int32(v)),
			zap.Int32("triangle", int32(t)))
		return NoTriangle
	}
	next := fan[(i+1)%len(fan)]
	if !l.continues(v, t, next) {
		return NoTriangle
	}
	return next
}

// Border finds the first gap in the sorted fan of a boundary vertex and
// returns the positions on either side of it. For a closed fan it returns
// two zero vectors and ok=false.
func (l *Level) Border(id VertexID) (left, right math.Vec3, ok bool) {
	l.SortTriangles(id)
	fan := l.vertices[id].fan
	for i, t := range fan {
		next := fan[(i+1)%len(fan)]
		_, trail, ok1 := l.fanEdges(t, id)
		lead, _, ok2 := l.fanEdges(next, id)
		if !ok1 || !ok2 {
			continue
		}
		if trail != lead {
			return l.vertices[trail].Pos, l.vertices[lead].Pos, true
		}
	}
	return math.Vec3{}, math.Vec3{}, false
}

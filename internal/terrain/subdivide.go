package terrain

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

var up = math.Vec3{X: 0, Y: 0, Z: 1}

// SubdivideTriangles refines the given triangles of parent into l, one level
// deeper. Every parent yields three corner children and one centre child,
// all carrying the parent's biome. Corners are smoothed with Loop weights
// (boundary vertices only follow their border), and edge points are
// smoothed only when the triangle across the edge exists and shares the
// biome. It returns the IDs of the children, including ones that were
// already present in l.
func (l *Level) SubdivideTriangles(parent *Level, ids []TriangleID) []TriangleID {
	children := make([]TriangleID, 0, 4*len(ids))
	smoothed := make(map[VertexID]math.Vec3, len(ids))

	for _, tid := range ids {
		if tid < 0 || int(tid) >= len(parent.triangles) {
			l.log.Warn("skipping unknown parent triangle", zap.Int32("triangle", int32(tid)))
			continue
		}
		t := parent.triangles[tid]

		var corners [3]math.Vec3
		for i, v := range t.Vertices {
			pos, ok := smoothed[v]
			if !ok {
				pos = parent.smoothVertex(v)
				smoothed[v] = pos
			}
			corners[i] = pos
		}

		// mid[i] sits on the edge between corner i and corner i+2.
		var mid [3]math.Vec3
		for i := range mid {
			mid[i] = parent.edgePoint(tid, i)
		}

		for i := range corners {
			children = l.addChild(children, [3]math.Vec3{corners[i], mid[(i+1)%3], mid[i]}, t.Biome)
		}
		children = l.addChild(children, mid, t.Biome)
	}

	return children
}

func (l *Level) addChild(children []TriangleID, p [3]math.Vec3, biome Biome) []TriangleID {
	id, err := l.AddTriangle(p, biome)
	if err != nil {
		l.log.Warn("dropping collapsed child triangle",
			zap.Error(err),
			zap.Any("positions", p))
		return children
	}
	return append(children, id)
}

// smoothVertex returns the refined position of an existing vertex.
func (l *Level) smoothVertex(id VertexID) math.Vec3 {
	self := l.vertices[id].Pos

	if left, right, ok := l.Border(id); ok {
		return self.Scale(3.0 / 4).
			Add(left.Scale(1.0 / 8)).
			Add(right.Scale(1.0 / 8))
	}

	fan := l.vertices[id].fan
	n := len(fan)
	var beta float32
	if n == 3 {
		beta = 3.0 / 16
	} else {
		beta = 3 / (8 * float32(n))
	}

	pos := self.Scale(1 - float32(n)*beta)
	for _, t := range fan {
		if lead, _, ok := l.fanEdges(t, id); ok {
			pos = pos.Add(l.vertices[lead].Pos.Scale(beta))
		}
	}
	return pos
}

// edgePoint returns the new vertex on the edge between corner i of triangle
// t and corner i+2. Both triangles sharing the edge compute the same value,
// so the children merge on insertion.
func (l *Level) edgePoint(t TriangleID, i int) math.Vec3 {
	tri := &l.triangles[t]
	a := tri.Vertices[i]
	b := tri.Vertices[(i+2)%3]
	ends := l.vertices[a].Pos.Add(l.vertices[b].Pos)

	next := l.NextTriangle(a, t)
	if next == NoTriangle || l.triangles[next].Biome != tri.Biome {
		return ends.Scale(1.0 / 2)
	}

	_, far, ok := l.fanEdges(next, a)
	if !ok {
		return ends.Scale(1.0 / 2)
	}
	opposite := l.vertices[tri.Vertices[(i+1)%3]].Pos.Add(l.vertices[far].Pos)
	return ends.Scale(3.0 / 8).Add(opposite.Scale(1.0 / 8))
}

// ComputeNormals sets the normal of each vertex to the average of its
// adjacent face normals, weighted by the angle each face spans at the vertex.
func (l *Level) ComputeNormals(ids []VertexID) {
	for _, id := range ids {
		v := &l.vertices[id]

		var sum math.Vec3
		for _, t := range v.fan {
			lead, trail, ok := l.fanEdges(t, id)
			if !ok {
				continue
			}
			w := l.vertices[lead].Pos.Sub(v.Pos).Angle(l.vertices[trail].Pos.Sub(v.Pos))
			sum = sum.Add(l.triangles[t].Normal.Scale(w))
		}

		n := sum.Normalize()
		if n == (math.Vec3{}) {
			n = up
		}
		v.Normal = n
	}
}

// ComputeAllNormals recomputes the normal of every vertex in the level.
func (l *Level) ComputeAllNormals() {
	ids := make([]VertexID, len(l.vertices))
	for i := range ids {
		ids[i] = VertexID(i)
	}
	l.ComputeNormals(ids)
}

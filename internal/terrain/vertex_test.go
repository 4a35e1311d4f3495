package terrain

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// diamond returns the four corner triangles around centre (10,10,1),
// each listed counter-clockwise.
func diamond() (centre math.Vec3, tris [4][3]math.Vec3) {
	centre = v3(10, 10, 1)
	ring := [4]math.Vec3{v3(14, 10, 0), v3(10, 14, 0), v3(6, 10, 0), v3(10, 6, 0)}
	for k := range tris {
		tris[k] = [3]math.Vec3{centre, ring[k], ring[(k+1)%4]}
	}
	return centre, tris
}

func TestSortTrianglesClosesFan(t *testing.T) {
	lvl := newTestLevel(t, testParams())
	centre, tris := diamond()
	// Insert out of angular order.
	for _, k := range []int{2, 0, 3, 1} {
		mustAdd(t, lvl, tris[k], BiomeGrassland)
	}

	c, ok := lvl.VertexAt(centre)
	if !ok {
		t.Fatal("centre vertex missing")
	}
	lvl.SortTriangles(c)

	fan := lvl.Fan(c)
	if len(fan) != 4 {
		t.Fatalf("fan size = %d, want 4", len(fan))
	}
	for i, tri := range fan {
		next := fan[(i+1)%len(fan)]
		if got := lvl.NextTriangle(c, tri); got != next {
			t.Errorf("NextTriangle(%d) = %d, want %d", tri, got, next)
		}
	}

	left, right, ok := lvl.Border(c)
	if ok {
		t.Errorf("closed fan reported a border: %v %v", left, right)
	}
	if left != (math.Vec3{}) || right != (math.Vec3{}) {
		t.Errorf("closed fan border = %v %v, want zero vectors", left, right)
	}
}

func TestBorderOpenFan(t *testing.T) {
	lvl := newTestLevel(t, testParams())
	centre, tris := diamond()
	t0 := mustAdd(t, lvl, tris[0], BiomeGrassland)
	t1 := mustAdd(t, lvl, tris[1], BiomeGrassland)
	t2 := mustAdd(t, lvl, tris[2], BiomeGrassland)

	c, _ := lvl.VertexAt(centre)

	left, right, ok := lvl.Border(c)
	if !ok {
		t.Fatal("open fan should have a border")
	}
	if left != v3(10, 6, 0) || right != v3(14, 10, 0) {
		t.Errorf("border = %v %v, want (10,6,0) (14,10,0)", left, right)
	}

	tests := []struct {
		from TriangleID
		want TriangleID
	}{
		{t0, t1},
		{t1, t2},
		{t2, NoTriangle},
	}
	for _, tt := range tests {
		if got := lvl.NextTriangle(c, tt.from); got != tt.want {
			t.Errorf("NextTriangle(%d) = %d, want %d", tt.from, got, tt.want)
		}
	}
}

func TestNextTriangleSingleTriangle(t *testing.T) {
	lvl := newTestLevel(t, testParams())
	id := mustAdd(t, lvl, [3]math.Vec3{v3(0, 0, 0), v3(4, 0, 0), v3(0, 4, 0)}, BiomeGrassland)

	for _, v := range lvl.Triangle(id).Vertices {
		if got := lvl.NextTriangle(v, id); got != NoTriangle {
			t.Errorf("vertex %d: NextTriangle = %d, want NoTriangle", v, got)
		}
		if _, _, ok := lvl.Border(v); !ok {
			t.Errorf("vertex %d of a lone triangle should be on the border", v)
		}
	}
}

func TestNextTriangleReportsForeignTriangle(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	lvl, err := NewLevel(testParams(), zap.New(core))
	if err != nil {
		t.Fatal(err)
	}
	a := mustAdd(t, lvl, [3]math.Vec3{v3(0, 0, 0), v3(4, 0, 0), v3(0, 4, 0)}, BiomeGrassland)
	b := mustAdd(t, lvl, [3]math.Vec3{v3(20, 20, 0), v3(24, 20, 0), v3(20, 24, 0)}, BiomeGrassland)

	v := lvl.Triangle(a).Vertices[0]
	if got := lvl.NextTriangle(v, b); got != NoTriangle {
		t.Errorf("NextTriangle with foreign triangle = %d, want NoTriangle", got)
	}
	if n := logs.FilterMessage("triangle is not in the fan of vertex").Len(); n != 1 {
		t.Errorf("logged %d anomalies, want 1", n)
	}
}

func TestTriangleRotation(t *testing.T) {
	tri := Triangle{Vertices: [3]VertexID{7, 3, 9}}
	tests := []struct {
		v    VertexID
		want [3]int
		ok   bool
	}{
		{7, [3]int{0, 1, 2}, true},
		{3, [3]int{1, 2, 0}, true},
		{9, [3]int{2, 0, 1}, true},
		{4, [3]int{}, false},
	}
	for _, tt := range tests {
		got, ok := tri.rotation(tt.v)
		if got != tt.want || ok != tt.ok {
			t.Errorf("rotation(%d) = %v, %v; want %v, %v", tt.v, got, ok, tt.want, tt.ok)
		}
	}
}

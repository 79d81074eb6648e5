package terrain

import (
	"testing"

	"github.com/Faultbox/terracast/pkg/math"
)

func TestBuildGroundMesh_Counts(t *testing.T) {
	mesh := BuildGroundMesh(flatHeightmap(4, 3, 0))

	if got := len(mesh.Vertices); got != 12 {
		t.Errorf("expected 12 vertices, got %d", got)
	}
	// 3x2 cells, two triangles each.
	if got := len(mesh.Indices); got != 36 {
		t.Errorf("expected 36 indices, got %d", got)
	}
}

func TestBuildGroundMesh_VertexPositions(t *testing.T) {
	mesh := BuildGroundMesh(raisedCenter3x3())

	tests := []struct {
		name string
		idx  int
		want math.Vec3
	}{
		{"corner", 0, math.Vec3{X: -1, Y: 0, Z: -1}},
		{"center", 4, math.Vec3{X: 0, Y: 1, Z: 0}},
		{"opposite corner", 8, math.Vec3{X: 1, Y: 0, Z: 1}},
	}
	for _, tc := range tests {
		if got := mesh.Vertices[tc.idx].Position; got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestBuildGroundMesh_ScaledPositions(t *testing.T) {
	hm := flatHeightmap(4, 4, 3)
	hm.Scale = math.Vec2{X: 2, Y: 0.5}
	hm.VerticalScale = 2
	hm.ComputeHeightBounds()

	mesh := BuildGroundMesh(hm)

	want := math.Vec3{X: -4, Y: 6, Z: -1}
	if got := mesh.Vertices[0].Position; got != want {
		t.Errorf("expected first vertex at %v, got %v", want, got)
	}
}

func TestBuildGroundMesh_Normals(t *testing.T) {
	heights := make([]float32, 256)
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			heights[z*16+x] = float32(x) * 0.5
		}
	}
	mesh := BuildGroundMesh(testHeightmap(16, 16, heights))

	for i, v := range mesh.Vertices {
		if absf(v.Normal.Length()-1) > 1e-5 {
			t.Fatalf("vertex %d: expected unit normal, got %v", i, v.Normal)
		}
		if v.Normal.Y <= 0 {
			t.Fatalf("vertex %d: expected an upward normal, got %v", i, v.Normal)
		}
	}

	// Interior vertices lean against the +X ascent, boundary ones fall back
	// to world up.
	if n := mesh.Vertices[8*16+8].Normal; n.X >= 0 {
		t.Errorf("expected interior normal leaning -X, got %v", n)
	}
	if n := mesh.Vertices[0].Normal; n != (math.Vec3{X: 0, Y: 1, Z: 0}) {
		t.Errorf("expected world-up boundary normal, got %v", n)
	}
}

func TestBuildGroundMesh_IndicesInRange(t *testing.T) {
	mesh := BuildGroundMesh(flatHeightmap(5, 4, 0))

	if len(mesh.Indices)%3 != 0 {
		t.Fatalf("expected whole triangles, got %d indices", len(mesh.Indices))
	}
	limit := uint32(len(mesh.Vertices))
	for i, idx := range mesh.Indices {
		if idx >= limit {
			t.Fatalf("index %d out of range: %d >= %d", i, idx, limit)
		}
	}
}

func TestBuildGroundMesh_WindingFacesUp(t *testing.T) {
	mesh := BuildGroundMesh(flatHeightmap(4, 4, 0))

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		v0 := mesh.Vertices[mesh.Indices[i]].Position
		v1 := mesh.Vertices[mesh.Indices[i+1]].Position
		v2 := mesh.Vertices[mesh.Indices[i+2]].Position
		face := v1.Sub(v0).Cross(v2.Sub(v0))
		if face.Y <= 0 {
			t.Fatalf("triangle %d winds downward: %v %v %v", i/3, v0, v1, v2)
		}
	}
}

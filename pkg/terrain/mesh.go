package terrain

import "github.com/Faultbox/terracast/pkg/math"

// MeshVertex is a ground mesh vertex.
type MeshVertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

// Mesh is triangle-soup ground geometry, either supplied by the caller for
// mesh-backed collision or synthesized from a heightmap. Indices reference
// Vertices in counter-clockwise winding seen from above.
type Mesh struct {
	Vertices []MeshVertex
	Indices  []uint32
}

// BuildGroundMesh synthesizes a ground mesh from a heightmap: one vertex
// per grid node at its world position with a sampled normal, two triangles
// per cell. The grid stays the authoritative query source; the mesh only
// feeds the host engine's collision proxy.
func BuildGroundMesh(hm *Heightmap) *Mesh {
	w, h := hm.Width, hm.Height

	vertices := make([]MeshVertex, 0, w*h)
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			wx, wz := hm.GridToWorld(float32(x), float32(z))
			vertices = append(vertices, MeshVertex{
				Position: math.Vec3{X: wx, Y: hm.sample(x, z) * hm.VerticalScale, Z: wz},
				Normal:   hm.NormalAt(wx, wz),
			})
		}
	}

	indices := make([]uint32, 0, (w-1)*(h-1)*6)
	for z := 0; z < h-1; z++ {
		for x := 0; x < w-1; x++ {
			i := uint32(z*w + x)
			indices = append(indices,
				i, i+uint32(w), i+1,
				i+1, i+uint32(w), i+uint32(w)+1,
			)
		}
	}

	return &Mesh{Vertices: vertices, Indices: indices}
}

package terrain

import (
	"encoding/binary"
	"errors"
	"fmt"
	gomath "math"

	"github.com/cespare/xxhash/v2"

	"github.com/Faultbox/terracast/pkg/math"
)

// Heightmap validation errors.
var (
	ErrHeightmapDimensions = errors.New("heightmap dimensions must be at least 2x2")
	ErrHeightmapSamples    = errors.New("heightmap sample count does not match dimensions")
	ErrHeightmapScale      = errors.New("heightmap cell scale must be positive")
)

// Heightmap is a regular grid of elevation samples centered on the world
// origin. Grid X runs along world X and grid Z along world Z; a raw sample
// times VerticalScale is the world-space elevation. The grid is logically
// immutable once assigned to a Collider: it is replaced wholesale, never
// mutated in place.
type Heightmap struct {
	// Width and Height are the grid dimensions in samples, both >= 2.
	Width  int
	Height int
	// Heights holds raw samples in row-major order, one per grid node,
	// indexed by z*Width+x.
	Heights []float32
	// MinHeight and MaxHeight are the raw sample bounds, informational.
	MinHeight float32
	MaxHeight float32
	// Scale is the cell size in world units: X along world X, Y along
	// world Z.
	Scale math.Vec2
	// VerticalScale converts a raw sample to world-space elevation.
	VerticalScale float32
}

// Validate checks the grid invariants and returns a sentinel error when one
// is violated.
func (h *Heightmap) Validate() error {
	if h.Width < 2 || h.Height < 2 {
		return fmt.Errorf("%w: %dx%d", ErrHeightmapDimensions, h.Width, h.Height)
	}
	if len(h.Heights) != h.Width*h.Height {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrHeightmapSamples, len(h.Heights), h.Width, h.Height)
	}
	if h.Scale.X <= 0 || h.Scale.Y <= 0 {
		return fmt.Errorf("%w: %v", ErrHeightmapScale, h.Scale)
	}
	return nil
}

// WorldToGrid converts a world XZ position to fractional grid coordinates.
// The half-dimension offset truncates, so on odd-sized grids the world
// origin sits exactly on the center node.
func (h *Heightmap) WorldToGrid(worldX, worldZ float32) (gx, gz float32) {
	gx = worldX/h.Scale.X + float32(h.Width/2)
	gz = worldZ/h.Scale.Y + float32(h.Height/2)
	return gx, gz
}

// GridToWorld converts grid coordinates to a world XZ position.
func (h *Heightmap) GridToWorld(gx, gz float32) (worldX, worldZ float32) {
	worldX = (gx - float32(h.Width/2)) * h.Scale.X
	worldZ = (gz - float32(h.Height/2)) * h.Scale.Y
	return worldX, worldZ
}

// Contains reports whether a world XZ position lies inside the sampleable
// grid area. Positions on or past the last row or column are outside: the
// bilinear cell lookup needs a full cell beyond the node.
func (h *Heightmap) Contains(worldX, worldZ float32) bool {
	gx, gz := h.WorldToGrid(worldX, worldZ)
	return gx >= 0 && gx < float32(h.Width-1) && gz >= 0 && gz < float32(h.Height-1)
}

// sample returns the raw height at a grid node. Callers guarantee bounds.
func (h *Heightmap) sample(x, z int) float32 {
	return h.Heights[z*h.Width+x]
}

// HeightAt returns the bilinearly interpolated world-space elevation at a
// world XZ position. The second result is false when the position is
// outside the grid; leaving bounded terrain is a normal case, not an error.
func (h *Heightmap) HeightAt(worldX, worldZ float32) (float32, bool) {
	if !h.Contains(worldX, worldZ) {
		return 0, false
	}
	gx, gz := h.WorldToGrid(worldX, worldZ)

	x1 := int(gx)
	z1 := int(gz)
	x2 := x1 + 1
	z2 := z1 + 1

	fx := clampf(gx-float32(x1), 0, 1)
	fz := clampf(gz-float32(z1), 0, 1)

	h11 := h.sample(x1, z1)
	h21 := h.sample(x2, z1)
	h12 := h.sample(x1, z2)
	h22 := h.sample(x2, z2)

	near := h11*(1-fx) + h21*fx
	far := h12*(1-fx) + h22*fx
	raw := near*(1-fz) + far*fz

	return raw * h.VerticalScale, true
}

// NormalAt returns the surface normal at a world XZ position, estimated
// with central differences over the four axis-neighbor samples. Positions
// without a full cell of margin return world-up rather than reading past
// the grid edge.
func (h *Heightmap) NormalAt(worldX, worldZ float32) math.Vec3 {
	gx, gz := h.WorldToGrid(worldX, worldZ)
	if gx < 1 || gx > float32(h.Width-2) || gz < 1 || gz > float32(h.Height-2) {
		return worldUp
	}

	x := int(gx)
	z := int(gz)

	slopeX := (h.sample(x+1, z) - h.sample(x-1, z)) / (2 * h.Scale.X)
	slopeZ := (h.sample(x, z+1) - h.sample(x, z-1)) / (2 * h.Scale.Y)

	n := math.Vec3{
		X: -slopeX * h.VerticalScale,
		Y: 1,
		Z: -slopeZ * h.VerticalScale,
	}
	return n.Normalize()
}

// Bounds returns the world-space axis-aligned bounds of the grid. The
// vertical extent derives from the declared raw height bounds.
func (h *Heightmap) Bounds() (min, max math.Vec3) {
	minX, minZ := h.GridToWorld(0, 0)
	maxX, maxZ := h.GridToWorld(float32(h.Width-1), float32(h.Height-1))
	min = math.Vec3{X: minX, Y: h.MinHeight * h.VerticalScale, Z: minZ}
	max = math.Vec3{X: maxX, Y: h.MaxHeight * h.VerticalScale, Z: maxZ}
	return min, max
}

// ComputeHeightBounds scans the samples and refreshes MinHeight/MaxHeight.
func (h *Heightmap) ComputeHeightBounds() {
	if len(h.Heights) == 0 {
		h.MinHeight, h.MaxHeight = 0, 0
		return
	}
	min := h.Heights[0]
	max := h.Heights[0]
	for _, v := range h.Heights[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	h.MinHeight, h.MaxHeight = min, max
}

// Fingerprint returns a 64-bit hash identifying the grid contents, covering
// the dimensions and every raw sample.
func (h *Heightmap) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(h.Width))
	d.Write(buf[:])
	binary.LittleEndian.PutUint32(buf[:], uint32(h.Height))
	d.Write(buf[:])
	for _, v := range h.Heights {
		binary.LittleEndian.PutUint32(buf[:], gomath.Float32bits(v))
		d.Write(buf[:])
	}
	return d.Sum64()
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

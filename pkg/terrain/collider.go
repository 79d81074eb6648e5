package terrain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/terracast/pkg/math"
)

// Collider lifecycle errors.
var (
	ErrNotInitialized     = errors.New("terrain collider not initialized")
	ErrAlreadyInitialized = errors.New("terrain collider already initialized")
	ErrDisposed           = errors.New("terrain collider disposed")
	ErrNoSceneContext     = errors.New("no scene context assigned")
	ErrNilHeightmap       = errors.New("heightmap must not be nil")
	ErrNilMesh            = errors.New("mesh must not be nil")
)

// colliderState tracks the facade lifecycle.
type colliderState int

const (
	stateUninitialized colliderState = iota
	stateInitialized
	stateDisposed
)

// String returns a human-readable state name.
func (s colliderState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateInitialized:
		return "initialized"
	case stateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// geometrySource selects which geometry answers a query. The heightmap
// wins whenever present; the mesh proxy only serves as fallback.
type geometrySource int

const (
	sourceNone geometrySource = iota
	sourceHeightmap
	sourceMesh
)

// meshProbeHeight is the altitude surface probes start from when only mesh
// geometry is assigned.
const meshProbeHeight float32 = 1000

// Collider answers the ground queries a movement or physics layer needs
// every frame: height, surface normal, slope and material under a point,
// ray and sphere casts against the ground, and capsule groundedness. It
// owns at most one heightmap and one collision proxy at a time and routes
// every query to the heightmap when one is assigned, falling back to the
// host engine's mesh picking otherwise.
//
// All methods are synchronous and complete in bounded time. The collider
// is not safe for concurrent mutation; concurrent read-only queries
// against an assigned heightmap are fine.
type Collider struct {
	log   *zap.Logger
	state colliderState

	ctx       SceneContext
	heightmap *Heightmap
	proxy     CollisionProxy

	materials *materialSet
	hub       *hitHub
}

// New returns a collider that does not log.
func New() *Collider {
	return NewWithLogger(zap.NewNop())
}

// NewWithLogger returns a collider that logs lifecycle transitions to log.
// Queries never log.
func NewWithLogger(log *zap.Logger) *Collider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collider{
		log:       log,
		materials: newMaterialSet(),
		hub:       newHitHub(),
	}
}

// Initialize stores the host scene context and makes the collider ready
// for geometry assignment. A nil context is allowed for heightmap-only
// use; mesh operations then report ErrNoSceneContext.
func (c *Collider) Initialize(ctx SceneContext) error {
	switch c.state {
	case stateDisposed:
		return ErrDisposed
	case stateInitialized:
		return ErrAlreadyInitialized
	}
	c.ctx = ctx
	c.state = stateInitialized
	c.log.Info("terrain collider initialized")
	return nil
}

// SetHeightmap validates and assigns the height grid, replacing any
// previous one wholesale. When a scene context is present and no collision
// proxy exists yet, a ground mesh is synthesized from the grid and
// registered as a proxy so generic physics contacts still reach the
// callbacks; the grid remains the authoritative query source and a proxy
// failure is only logged.
func (c *Collider) SetHeightmap(hm *Heightmap) error {
	switch c.state {
	case stateDisposed:
		return ErrDisposed
	case stateUninitialized:
		return ErrNotInitialized
	}
	if hm == nil {
		return ErrNilHeightmap
	}
	if err := hm.Validate(); err != nil {
		return err
	}
	c.heightmap = hm
	c.log.Info("heightmap assigned",
		zap.Int("width", hm.Width),
		zap.Int("height", hm.Height),
		zap.Uint64("fingerprint", hm.Fingerprint()),
	)

	if c.proxy == nil && c.ctx != nil {
		if err := c.createProxy(BuildGroundMesh(hm)); err != nil {
			c.log.Warn("ground mesh proxy not created", zap.Error(err))
		}
	}
	return nil
}

// SetMesh replaces the terrain's collision proxy with one built from the
// given mesh and wires its physics contacts to the registered callbacks.
// The mesh geometry itself stays owned by the caller. Calling SetMesh
// before Initialize is a sequencing bug and fails hard.
func (c *Collider) SetMesh(mesh *Mesh) error {
	switch c.state {
	case stateDisposed:
		return ErrDisposed
	case stateUninitialized:
		return ErrNotInitialized
	}
	if mesh == nil {
		return ErrNilMesh
	}
	if c.ctx == nil {
		return ErrNoSceneContext
	}
	if c.proxy != nil {
		c.proxy.Release()
		c.proxy = nil
	}
	return c.createProxy(mesh)
}

func (c *Collider) createProxy(mesh *Mesh) error {
	name := "terrain-" + uuid.NewString()
	proxy, err := c.ctx.CreateStaticProxy(name, mesh, c.onContact)
	if err != nil {
		return err
	}
	c.proxy = proxy
	c.log.Info("collision proxy created", zap.String("proxy", name))
	return nil
}

// onContact receives proxy contacts from the host physics system and fans
// them out with the surface resolved under the contact point.
func (c *Collider) onContact(other any, point math.Vec3) {
	c.hub.dispatch(other, c.SurfaceInfoAt(point))
}

// Update is a no-op: terrain is static. Present to satisfy the host
// engine's per-frame update contract.
func (c *Collider) Update(dt float32) {}

// Dispose releases the proxy, heightmap, materials, callbacks and scene
// context. Safe to call more than once.
func (c *Collider) Dispose() {
	if c.state == stateDisposed {
		return
	}
	if c.proxy != nil {
		c.proxy.Release()
		c.proxy = nil
	}
	c.heightmap = nil
	c.materials = newMaterialSet()
	c.hub.clear()
	c.ctx = nil
	c.state = stateDisposed
	c.log.Info("terrain collider disposed")
}

// AddMaterial registers a named material zone. Zones may overlap; the
// first registered match wins at resolution time, so order matters.
// Re-adding an existing name updates it in place.
func (c *Collider) AddMaterial(m Material) error {
	if c.state == stateDisposed {
		return ErrDisposed
	}
	return c.materials.add(m)
}

// RegisterHitCallback adds fn to the terrain contact fan-out and returns
// its id. Callbacks run in registration order.
func (c *Collider) RegisterHitCallback(fn HitFunc) int {
	return c.hub.register(fn)
}

// UnregisterHitCallback removes a callback by id. Unknown ids are ignored.
func (c *Collider) UnregisterHitCallback(id int) {
	c.hub.unregister(id)
}

// Proxy returns the current collision proxy, or nil when none exists.
func (c *Collider) Proxy() CollisionProxy {
	return c.proxy
}

// source reports which geometry currently answers queries.
func (c *Collider) source() geometrySource {
	if c.state != stateInitialized {
		return sourceNone
	}
	if c.heightmap != nil {
		return sourceHeightmap
	}
	if c.proxy != nil && c.ctx != nil {
		return sourceMesh
	}
	return sourceNone
}

// HeightAt returns the ground elevation under a world position. The bool
// is false when the position is off the terrain or no geometry is
// assigned; both are normal cases, not errors.
func (c *Collider) HeightAt(pos math.Vec3) (float32, bool) {
	switch c.source() {
	case sourceHeightmap:
		return c.heightmap.HeightAt(pos.X, pos.Z)
	case sourceMesh:
		hit, ok := c.probeMesh(pos.X, pos.Z)
		if !ok {
			return 0, false
		}
		return hit.Point.Y, true
	default:
		return 0, false
	}
}

// SurfaceInfoAt describes the ground under a world position: elevation,
// normal, slope and material zone. When there is no ground the result has
// Exists false and a negative-infinity height.
func (c *Collider) SurfaceInfoAt(pos math.Vec3) SurfaceInfo {
	switch c.source() {
	case sourceHeightmap:
		return c.heightmapSurface(pos.X, pos.Z)
	case sourceMesh:
		hit, ok := c.probeMesh(pos.X, pos.Z)
		if !ok {
			return noSurface()
		}
		return c.meshSurface(hit)
	default:
		return noSurface()
	}
}

// probeMesh drops a ray from high above the query point onto the scene's
// collision geometry.
func (c *Collider) probeMesh(x, z float32) (MeshHit, bool) {
	origin := math.Vec3{X: x, Y: meshProbeHeight, Z: z}
	return c.ctx.Raycast(origin, math.Vec3{Y: -1}, 2*meshProbeHeight)
}

// heightmapSurface assembles SurfaceInfo from the height grid.
func (c *Collider) heightmapSurface(x, z float32) SurfaceInfo {
	height, ok := c.heightmap.HeightAt(x, z)
	if !ok {
		return noSurface()
	}
	normal := c.heightmap.NormalAt(x, z)
	m := c.materials.at(x, z)
	return SurfaceInfo{
		Exists:   true,
		Height:   height,
		Normal:   normal,
		Slope:    slopeOf(normal),
		Material: m.Name,
		Friction: m.Friction,
	}
}

// meshSurface assembles SurfaceInfo from a mesh proxy hit.
func (c *Collider) meshSurface(hit MeshHit) SurfaceInfo {
	normal := hit.Normal.Normalize()
	if normal == (math.Vec3{}) {
		normal = worldUp
	}
	m := c.materials.at(hit.Point.X, hit.Point.Z)
	return SurfaceInfo{
		Exists:   true,
		Height:   hit.Point.Y,
		Normal:   normal,
		Slope:    slopeOf(normal),
		Material: m.Name,
		Friction: m.Friction,
	}
}

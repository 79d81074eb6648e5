package terrain

import "github.com/Faultbox/terracast/pkg/math"

// MeshHit is the nearest intersection reported by the host engine's picking
// system for a ray query against scene collision geometry.
type MeshHit struct {
	Point    math.Vec3
	Normal   math.Vec3
	Distance float32
}

// ContactFunc receives physics contact events for a collision proxy: the
// other body involved and the world-space contact point.
type ContactFunc func(other any, point math.Vec3)

// CollisionProxy is a static, zero-mass physics body owned by the host
// engine that stands in for the terrain in generic scene queries.
type CollisionProxy interface {
	// Name returns the identifier the proxy was created under.
	Name() string
	// Release removes the proxy from the host scene. The mesh geometry
	// it was built from stays with the caller.
	Release()
}

// SceneContext is the slice of the host engine's physics and picking
// systems the collider depends on. It is injected at Initialize and must
// outlive the collider holding it.
type SceneContext interface {
	// Raycast casts a ray against the scene's static collision geometry
	// and reports the nearest hit. A miss is (MeshHit{}, false), never an
	// error.
	Raycast(origin, dir math.Vec3, maxDistance float32) (MeshHit, bool)

	// CreateStaticProxy registers mesh as a zero-mass collision body
	// under the given name and routes its physics contacts to onContact.
	CreateStaticProxy(name string, mesh *Mesh, onContact ContactFunc) (CollisionProxy, error)
}

package terrain

import (
	"errors"
	"fmt"
)

// Material registry errors.
var (
	ErrMaterialName     = errors.New("material name must not be empty")
	ErrMaterialFriction = errors.New("material friction must not be negative")
)

// DefaultMaterial names the fallback material that always exists.
const DefaultMaterial = "default"

// DefaultFriction is the friction coefficient of the fallback material.
const DefaultFriction float32 = 0.5

// Region is an axis-aligned world-space rectangle bounding a material zone.
type Region struct {
	X1, Z1 float32
	X2, Z2 float32
}

// Contains reports whether the world XZ point lies inside the rectangle,
// borders included.
func (r Region) Contains(x, z float32) bool {
	return x >= r.X1 && x <= r.X2 && z >= r.Z1 && z <= r.Z2
}

// Material is a named friction profile. A nil Region leaves the material
// out of positional resolution; only the default material serves as the
// everywhere fallback.
type Material struct {
	Name     string
	Friction float32
	Region   *Region
}

// materialSet resolves which material zone a world position falls in.
// Zones may overlap: the first registered match wins, so registration
// order is part of the contract and is preserved.
type materialSet struct {
	order  []string
	byName map[string]Material
}

func newMaterialSet() *materialSet {
	s := &materialSet{
		byName: make(map[string]Material),
	}
	s.order = append(s.order, DefaultMaterial)
	s.byName[DefaultMaterial] = Material{Name: DefaultMaterial, Friction: DefaultFriction}
	return s
}

// add registers a material. Re-adding an existing name updates it in place
// without changing its resolution position.
func (s *materialSet) add(m Material) error {
	if m.Name == "" {
		return ErrMaterialName
	}
	if m.Friction < 0 {
		return fmt.Errorf("%w: %v", ErrMaterialFriction, m.Friction)
	}
	if _, ok := s.byName[m.Name]; !ok {
		s.order = append(s.order, m.Name)
	}
	s.byName[m.Name] = m
	return nil
}

// at returns the material zone covering a world XZ position: the first
// registered material whose region contains the point, else the default.
func (s *materialSet) at(x, z float32) Material {
	for _, name := range s.order {
		m := s.byName[name]
		if m.Region != nil && m.Region.Contains(x, z) {
			return m
		}
	}
	return s.byName[DefaultMaterial]
}

// frictionOf resolves a friction coefficient by material name, falling back
// to the default material for unknown names.
func (s *materialSet) frictionOf(name string) float32 {
	if m, ok := s.byName[name]; ok {
		return m.Friction
	}
	return s.byName[DefaultMaterial].Friction
}

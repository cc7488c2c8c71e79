// Package object implements the 3-D primitives a scene may place over the
// terrain: frustums (cones, cylinders, and the general tapered frustum) and
// camera-facing billboards. Object is a genuinely open, extensible set;
// new shapes are expected, so it is modeled as a Go interface rather than
// the closed tagged-struct-plus-switch style used for EarthModel.
package object

import (
	"github.com/go-gl/mathgl/mgl64"

	"refractor/internal/earth"
)

// Color is a linear RGBA color; A in [0,1], with 1 meaning fully opaque.
// Ground: original_source/src/object.rs's Color struct.
type Color struct {
	R, G, B, A float64
}

// Hit is one ray-segment intersection: T in [0,1) along the segment,
// the surface normal at the hit, and the color sampled there.
type Hit struct {
	T      float64
	Normal mgl64.Vec3
	Color  Color
}

// Object is the polymorphic contract every 3-D primitive implements.
// Ground: original_source/src/object.rs's Object::check_collision /
// is_close, generalized from a single Rust enum match into a Go interface
// so new shapes can be added without touching the tracing pipeline.
type Object interface {
	// CheckCollision intersects the segment [segStart, segEnd] (in
	// geographic coordinates, converted internally to model's Cartesian
	// embedding) against the object, returning every hit with T in [0,1),
	// sorted by T ascending.
	CheckCollision(model earth.Model, segStart, segEnd earth.Coords) []Hit
	// IsClose is a cheap proximity filter: true iff the object might be hit
	// near (lat, lon) within the current step size.
	IsClose(model earth.Model, step float64, lat, lon float64) bool
	// Position returns the object's anchor point.
	Position() earth.Coords
}

// axisUnit returns the local "up" direction at lat/lon under model, used as
// the frustum axis / billboard up vector. This generalizes the original's
// per-EarthShape match (spherical_to_cartesian for Spherical, fixed (0,0,1)
// for Flat) to every EarthModel variant via WorldDirections.
func axisUnit(model earth.Model, lat, lon float64) mgl64.Vec3 {
	return model.WorldDirections(lat, lon).Up
}

func sortHitsByT(hits []Hit) {
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].T < hits[j-1].T; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

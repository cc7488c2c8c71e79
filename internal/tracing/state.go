// Package tracing combines a ray path with a co-indexed terrain sample
// sequence into a sorted list of trace points, handling both terrain
// crossings and object collisions along the way.
package tracing

import (
	"github.com/go-gl/mathgl/mgl64"

	"refractor/internal/atmosphere"
	"refractor/internal/earth"
	"refractor/internal/object"
	"refractor/internal/terrain"
)

// state is one step's combined ray/terrain sample, carrying everything the
// pipeline needs to interpolate across a step.
//
// Ground: original_source/src/rendering/utils.rs's TracingState.
type state struct {
	lat, lon, elev float64
	normal         mgl64.Vec3
	objectsClose   []int

	rayElev    float64
	dist       float64
	pathLength float64
}

func newState(sample terrain.Sample, objectsClose []int, elem atmosphere.PathElem) state {
	return state{
		lat: sample.Lat, lon: sample.Lon, elev: sample.Elev,
		normal:       sample.Normal,
		objectsClose: objectsClose,
		rayElev:      elem.Elev,
		dist:         elem.Dist,
		pathLength:   elem.PathLength,
	}
}

// interpolate linearly blends every field of s and other at parameter prop.
func (s state) interpolate(other state, prop float64) state {
	lerp := func(a, b float64) float64 { return a + (b-a)*prop }
	return state{
		lat:        lerp(s.lat, other.lat),
		lon:        lerp(s.lon, other.lon),
		elev:       lerp(s.elev, other.elev),
		normal:     s.normal.Add(other.normal.Sub(s.normal).Mul(prop)),
		rayElev:    lerp(s.rayElev, other.rayElev),
		dist:       lerp(s.dist, other.dist),
		pathLength: lerp(s.pathLength, other.pathLength),
	}
}

func (s state) rayCoords() earth.Coords {
	return earth.Coords{Lat: s.lat, Lon: s.lon, Elev: s.rayElev}
}

// ObjectsClose returns the indices of objects in objs whose IsClose test
// passes near (lat, lon) at the given step size. Computing this per terrain
// sample is what lets the pipeline cheaply skip the majority of objects on
// most steps.
func ObjectsClose(model earth.Model, objs []object.Object, step, lat, lon float64) []int {
	var close []int
	for i, o := range objs {
		if o.IsClose(model, step, lat, lon) {
			close = append(close, i)
		}
	}
	return close
}

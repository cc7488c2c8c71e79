package tracing

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"refractor/internal/atmosphere"
	"refractor/internal/earth"
	"refractor/internal/object"
	"refractor/internal/terrain"
)

// ColorKind distinguishes a terrain hit from an object hit, since the two
// carry different color semantics (a fixed opacity vs. a sampled RGBA).
type ColorKind int

const (
	ColorTerrain ColorKind = iota
	ColorRgba
)

// TracePoint is one point where the ray struck something, ordered by
// Distance within a ResultPixel.
type TracePoint struct {
	Lat, Lon   float64
	Distance   float64
	Elevation  float64
	PathLength float64
	Normal     mgl64.Vec3

	Kind  ColorKind
	Alpha float64      // valid when Kind == ColorTerrain
	Color object.Color // valid when Kind == ColorRgba
}

// Step is one (terrain sample, path element) pair, the unit the pipeline
// consumes. The sequences are co-indexed and must be the same length.
//
// Ground: original_source/src/rendering/path.rs's lazy, co-indexed
// iterator pairing terrain samples with path elements; materialized here
// into a finite slice bounded at max_distance, since Go has no first-class
// lazy iterator equivalent.
type Step struct {
	Sample terrain.Sample
	Path   atmosphere.PathElem
	// ObjectsClose is the set of object indices whose IsClose test passed
	// near this sample, computed by the caller (see ObjectsClose) before
	// Trace runs; Trace itself never calls IsClose.
	ObjectsClose []int
}

// Trace walks steps and emits every terrain and object hit along the way,
// sorted by distance. Crossing detection uses the canonical two-sided sign
// change (d1·d2 < 0) rather than the one-sided "ray below terrain" test, so
// a ray that starts underground and emerges is also detected.
//
// Ground: original_source/src/rendering/utils.rs's get_single_pixel.
func Trace(steps []Step, objs []object.Object, model earth.Model, terrainAlpha float64) []TracePoint {
	if len(steps) == 0 {
		return nil
	}

	old := newState(steps[0].Sample, steps[0].ObjectsClose, atmosphere.PathElem{Elev: steps[0].Path.Elev})
	var result []TracePoint

	for i := 1; i < len(steps); i++ {
		cur := newState(steps[i].Sample, steps[i].ObjectsClose, steps[i].Path)

		finish := false
		type scored struct {
			prop float64
			pt   TracePoint
		}
		var stepResult []scored

		d1 := old.rayElev - old.elev
		d2 := cur.rayElev - cur.elev
		if d1*d2 < 0 {
			prop := d1 / (d1 - d2)
			interp := old.interpolate(cur, prop)
			stepResult = append(stepResult, scored{
				prop: prop,
				pt: TracePoint{
					Lat: interp.lat, Lon: interp.lon,
					Distance: interp.dist, Elevation: interp.elev, PathLength: interp.pathLength,
					Normal: interp.normal,
					Kind:   ColorTerrain, Alpha: terrainAlpha,
				},
			})
			if terrainAlpha >= 1 {
				finish = true
			}
		}

		union := unionIndices(old.objectsClose, cur.objectsClose)
		for _, idx := range union {
			for _, hit := range objs[idx].CheckCollision(model, old.rayCoords(), cur.rayCoords()) {
				if hit.Color.A <= 0 {
					continue
				}
				interp := old.interpolate(cur, hit.T)
				stepResult = append(stepResult, scored{
					prop: hit.T,
					pt: TracePoint{
						Lat: interp.lat, Lon: interp.lon,
						Distance: interp.dist, Elevation: interp.rayElev, PathLength: interp.pathLength,
						Normal: hit.Normal,
						Kind:   ColorRgba, Color: hit.Color,
					},
				})
				if hit.Color.A >= 1 {
					finish = true
				}
			}
		}

		sort.Slice(stepResult, func(a, b int) bool { return stepResult[a].prop < stepResult[b].prop })
		for _, s := range stepResult {
			result = append(result, s.pt)
		}

		if finish {
			break
		}
		old = cur
	}

	return result
}

func unionIndices(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	var out []int
	for _, v := range a {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

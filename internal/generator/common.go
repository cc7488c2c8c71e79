// Package generator turns a resolved scene (position, frame, atmosphere,
// terrain, objects) into a grid of ResultPixel, each carrying the sorted
// TracePoint list the TracingPipeline produced for that pixel's ray.
//
// Ground: original_source/src/rendering/{fast,rectilinear,correct}.rs,
// adapted from rayon's data-parallel iterators to a plain
// channel-plus-worker-pool pattern (see parallelFor in fast.go).
package generator

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"refractor/internal/atmosphere"
	"refractor/internal/config"
	"refractor/internal/earth"
	"refractor/internal/object"
	"refractor/internal/terrain"
	"refractor/internal/tracing"
)

// ResultPixel is one rendered pixel: the ray parameters that produced it,
// plus every trace point found along the ray, sorted by distance.
type ResultPixel struct {
	ElevationAngle float64 // radians
	Azimuth        float64 // degrees
	TracePoints    []tracing.TracePoint
}

// Scene bundles everything a generator needs to turn pixel coordinates
// into a traced ray: the resolved params, the loaded terrain, and the
// scene objects.
type Scene struct {
	Params  config.Params
	Terrain *terrain.Sampler
	Objects []object.Object

	// Progress, if set, is notified once per completed screen pixel. It is
	// optional since generators are equally useful headless (tests, batch
	// rendering without a progress viewer).
	Progress interface{ Add(n int64) }
}

// reportPixel notifies s.Progress, if any, that one screen pixel finished.
func (s Scene) reportPixel() {
	if s.Progress != nil {
		s.Progress.Add(1)
	}
}

// env builds the atmosphere.Environment for this scene's Earth shape and
// atmosphere profile.
func (s Scene) env() atmosphere.Environment {
	radius, flat := s.Params.EarthShape.CurvatureRadius()
	profile := atmosphere.DefaultProfile()
	if s.Params.Atmosphere.SeaLevelTemp != nil {
		profile.SeaLevelTemp = *s.Params.Atmosphere.SeaLevelTemp
	}
	if s.Params.Atmosphere.SeaLevelPressure != nil {
		profile.SeaLevelPressure = *s.Params.Atmosphere.SeaLevelPressure
	}
	if s.Params.Atmosphere.LapseRate != nil {
		profile.LapseRate = *s.Params.Atmosphere.LapseRate
	}
	return atmosphere.Environment{CurvatureRadius: radius, Flat: flat, Profile: profile}
}

// observerAltitude resolves the observer's position altitude against the
// terrain directly beneath it.
func (s Scene) observerAltitude() float64 {
	sample := s.Terrain.Sample(s.Params.EarthShape, s.Params.Position.Latitude, s.Params.Position.Longitude)
	return s.Params.Position.Altitude.Resolve(sample.Elev)
}

// separableElev returns the elevation angle (degrees) for row y under the
// non-rectilinear camera model, depending only on y.
func separableElev(p config.Params, y, height int) float64 {
	aspect := float64(p.Output.Width) / float64(p.Output.Height)
	yy := float64(y-height/2) / float64(height)
	return p.Frame.Tilt - yy*p.Frame.Fov/aspect
}

// separableDir returns the azimuth (degrees) for column x under the
// non-rectilinear camera model, depending only on x.
func separableDir(p config.Params, x, width int) float64 {
	xx := float64(x-width/2) / float64(width)
	return p.Frame.Direction + xx*p.Frame.Fov
}

// pinholeRay computes the (elevation, direction) pair in degrees for pixel
// (x,y) under the rectilinear pinhole camera: forward axis
// z = W/(2·tan(fov/2)), rotated by Euler (roll=0, pitch=-tilt, yaw=direction).
func pinholeRay(p config.Params, x, y int) (elevDeg, dirDeg float64) {
	width := float64(p.Output.Width)

	fx := float64(x - p.Output.Width/2)
	fy := float64(y - p.Output.Height/2)
	z := width / 2 / math.Tan(p.Frame.Fov*math.Pi/180/2)

	pitch := -p.Frame.Tilt * math.Pi / 180
	yaw := p.Frame.Direction * math.Pi / 180
	rot := mgl64.AnglesToQuat(0, pitch, yaw, mgl64.XYZ).Mat4()

	fwd := mgl64.Vec3{z, fx, -fy}
	dirVec := rot.Mul4x1(fwd.Vec4(0)).Vec3().Normalize()

	dirDeg = math.Atan2(dirVec[1], dirVec[0]) * 180 / math.Pi
	elevDeg = math.Asin(dirVec[2]) * 180 / math.Pi
	return elevDeg, dirDeg
}

// pathAt walks a fresh PathElem sequence for a ray leaving the observer at
// elevDeg, bounded by max_distance and the -1000m tracing floor, matching
// the original's take_while(x <= max_distance && h >= -1000.0).
func pathAt(s Scene, elevDeg float64) []atmosphere.PathElem {
	alt := s.observerAltitude()
	stepper := s.env().CastRayStepper(alt, elevDeg*math.Pi/180, s.Params.StraightRays)
	stepper.SetStepSize(s.Params.SimulationStep)

	radius, flat := s.Params.EarthShape.CurvatureRadius()
	walker := atmosphere.NewPathWalker(stepper, radius, flat)

	var path []atmosphere.PathElem
	for {
		elem := walker.Next()
		if elem.Dist > s.Params.Frame.MaxDistance || elem.Elev < -1000.0 {
			break
		}
		path = append(path, elem)
	}
	return path
}

// terrainAt walks a terrain sample sequence along azimuth dirDeg at the
// same distances a pathAt call with the same SimulationStep will have
// walked, so the two zip index-for-index as FastGenerator requires.
func terrainAt(s Scene, dirDeg float64) []terrain.Sample {
	start := earth.Coords{Lat: s.Params.Position.Latitude, Lon: s.Params.Position.Longitude}
	calc := s.Params.EarthShape.CoordsAtDistCalc(start, dirDeg)

	var samples []terrain.Sample
	for dist := 0.0; dist < s.Params.Frame.MaxDistance; dist += s.Params.SimulationStep {
		lat, lon := calc.CoordsAtDist(dist)
		samples = append(samples, s.Terrain.Sample(s.Params.EarthShape, lat, lon))
	}
	return samples
}

// zipSteps builds tracing.Step pairs from co-indexed path and terrain
// sequences, computing ObjectsClose once per sample as terrain.Sample
// itself has no notion of the object list.
func zipSteps(s Scene, path []atmosphere.PathElem, terrainSamples []terrain.Sample) []tracing.Step {
	n := len(path)
	if len(terrainSamples) < n {
		n = len(terrainSamples)
	}
	steps := make([]tracing.Step, n)
	for i := 0; i < n; i++ {
		ts := terrainSamples[i]
		steps[i] = tracing.Step{
			Sample:       ts,
			Path:         path[i],
			ObjectsClose: tracing.ObjectsClose(s.Params.EarthShape, s.Objects, s.Params.SimulationStep, ts.Lat, ts.Lon),
		}
	}
	return steps
}

// tracePixel runs the TracingPipeline over a co-indexed (path, terrain)
// pair and wraps the result in a ResultPixel.
func tracePixel(s Scene, elevDeg, dirDeg float64, path []atmosphere.PathElem, terrainSamples []terrain.Sample) ResultPixel {
	steps := zipSteps(s, path, terrainSamples)
	points := tracing.Trace(steps, s.Objects, s.Params.EarthShape, s.Params.TerrainAlpha)
	return ResultPixel{
		ElevationAngle: elevDeg * math.Pi / 180,
		Azimuth:        dirDeg,
		TracePoints:    points,
	}
}

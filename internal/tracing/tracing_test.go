package tracing

import (
	"testing"

	"refractor/internal/atmosphere"
	"refractor/internal/earth"
	"refractor/internal/object"
	"refractor/internal/terrain"
)

func flatStep(dist, rayElev, terrainElev float64) Step {
	return Step{
		Sample: terrain.Sample{Lat: 0, Lon: float64(dist) / 111_111.111, Elev: terrainElev, Valid: true},
		Path:   atmosphere.PathElem{Dist: dist, Elev: rayElev, PathLength: dist},
	}
}

func TestTraceDetectsDescendingTerrainCrossing(t *testing.T) {
	steps := []Step{
		flatStep(0, 100, 0),
		flatStep(100, 50, 60),
		flatStep(200, 0, 0),
	}
	points := Trace(steps, nil, earth.NewFlatDistorted(), 1.0)
	if len(points) == 0 {
		t.Fatalf("expected a terrain crossing")
	}
	if points[0].Kind != ColorTerrain {
		t.Errorf("expected a terrain trace point, got kind %v", points[0].Kind)
	}
}

func TestTraceOpaqueTerrainTerminates(t *testing.T) {
	steps := []Step{
		flatStep(0, 100, 0),
		flatStep(100, 50, 60),
		flatStep(200, -1000, 5000), // would cross again if not terminated
		flatStep(300, -2000, 9000),
	}
	points := Trace(steps, nil, earth.NewFlatDistorted(), 1.0)
	if len(points) != 1 {
		t.Fatalf("expected tracing to terminate at the first opaque terrain hit, got %d points", len(points))
	}
}

func TestTraceNoCrossingWhenRayStaysAboveTerrain(t *testing.T) {
	steps := []Step{
		flatStep(0, 100, 0),
		flatStep(100, 90, 10),
		flatStep(200, 80, 20),
	}
	points := Trace(steps, nil, earth.NewFlatDistorted(), 1.0)
	if len(points) != 0 {
		t.Errorf("expected no trace points, got %d", len(points))
	}
}

func TestTraceSemiTransparentTerrainDoesNotTerminate(t *testing.T) {
	steps := []Step{
		flatStep(0, 100, 0),
		flatStep(100, 50, 60),
		flatStep(200, 30, 0),
		flatStep(300, -50, 60),
	}
	points := Trace(steps, nil, earth.NewFlatDistorted(), 0.5)
	if len(points) < 2 {
		t.Errorf("expected tracing to continue past a semi-transparent hit, got %d points", len(points))
	}
	for _, p := range points {
		if p.Alpha != 0.5 {
			t.Errorf("expected terrain alpha 0.5, got %v", p.Alpha)
		}
	}
}

func TestTraceObjectHit(t *testing.T) {
	pos := earth.Coords{Lat: 0, Lon: 0.001, Elev: 0}
	cyl := object.Frustum{R1: 50, R2: 50, Height: 100, Pos: pos, Col: object.Color{R: 1, A: 1}}
	objs := []object.Object{cyl}

	model := earth.NewFlatDistorted()

	steps := []Step{
		{Sample: terrain.Sample{Lat: 0, Lon: 0, Elev: 0, Valid: true}, Path: atmosphere.PathElem{Dist: 0, Elev: 50, PathLength: 0}, ObjectsClose: []int{0}},
		{Sample: terrain.Sample{Lat: 0, Lon: 0.002, Elev: 0, Valid: true}, Path: atmosphere.PathElem{Dist: 200, Elev: 50, PathLength: 200}, ObjectsClose: []int{0}},
	}

	points := Trace(steps, objs, model, 1.0)
	found := false
	for _, p := range points {
		if p.Kind == ColorRgba {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an object hit, got %+v", points)
	}
}

package generator

import (
	"testing"

	"refractor/internal/config"
	"refractor/internal/earth"
	"refractor/internal/terrain"
)

type flatTile struct{ elev float64 }

func (t flatTile) Elev(lat, lon float64) (float64, bool) { return t.elev, true }

func flatScene(width, height int) Scene {
	sampler := terrain.NewSampler(func(latCell, lonCell int) (terrain.Tile, bool) {
		return flatTile{elev: 0}, true
	})
	p := config.Params{
		TerrainFolder:  "",
		Position:       config.Position{Latitude: 0, Longitude: 0, Altitude: config.Altitude{Kind: config.AltitudeAbsolute, Value: 500}},
		Frame:          config.Frame{Direction: 0, Tilt: 0, Fov: 30, MaxDistance: 20_000},
		EarthShape:     earth.NewFlatDistorted(),
		StraightRays:   true,
		SimulationStep: 500,
		TerrainAlpha:   1.0,
		Output:         config.Output{Width: width, Height: height},
	}
	return Scene{Params: p, Terrain: sampler, Objects: nil}
}

func TestFastGeneratorProducesFullGrid(t *testing.T) {
	scene := flatScene(8, 6)
	g := NewFastGenerator(scene)
	grid := g.Generate()

	if len(grid) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(grid))
	}
	for _, row := range grid {
		if len(row) != 8 {
			t.Fatalf("expected 8 columns, got %d", len(row))
		}
	}
}

func TestFastGeneratorColumnsHaveDistinctAzimuths(t *testing.T) {
	scene := flatScene(4, 4)
	g := NewFastGenerator(scene)
	grid := g.Generate()

	for y := 0; y < 4; y++ {
		for x := 1; x < 4; x++ {
			if grid[y][x].Azimuth == grid[y][x-1].Azimuth {
				t.Errorf("expected distinct azimuths across columns at row %d", y)
			}
		}
	}
}

func TestReferenceGeneratorProducesFullGrid(t *testing.T) {
	scene := flatScene(5, 4)
	g := NewReferenceGenerator(scene)
	grid := g.Generate()

	if len(grid) != 4 || len(grid[0]) != 5 {
		t.Fatalf("unexpected grid shape: %dx%d", len(grid[0]), len(grid))
	}
}

func TestRectilinearGeneratorProducesFullGrid(t *testing.T) {
	scene := flatScene(6, 6)
	g := NewRectilinearGenerator(scene)
	grid := g.Generate()

	if len(grid) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(grid))
	}
	for _, row := range grid {
		if len(row) != 6 {
			t.Fatalf("expected 6 columns, got %d", len(row))
		}
	}
}

func TestRectilinearGeneratorIsIdempotent(t *testing.T) {
	scene := flatScene(5, 5)
	g := NewRectilinearGenerator(scene)
	first := g.Generate()
	second := g.Generate()

	for y := range first {
		for x := range first[y] {
			a, b := first[y][x], second[y][x]
			if len(a.TracePoints) != len(b.TracePoints) {
				t.Fatalf("pixel (%d,%d): trace point count changed across runs", x, y)
			}
			for i := range a.TracePoints {
				if a.TracePoints[i].Distance != b.TracePoints[i].Distance {
					t.Errorf("pixel (%d,%d) point %d: distance changed across runs", x, y, i)
				}
			}
		}
	}
}

func TestLatticeStepsArePositive(t *testing.T) {
	p := flatScene(10, 10).Params
	width, height := p.Output.Width, p.Output.Height
	elev := make([][]float64, height)
	dir := make([][]float64, height)
	for y := 0; y < height; y++ {
		elev[y] = make([]float64, width)
		dir[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			elev[y][x], dir[y][x] = pinholeRay(p, x, y)
		}
	}

	minElevStep, minDirStep := latticeSteps(p, elev, dir)
	if minElevStep <= 0 || minDirStep <= 0 {
		t.Errorf("expected positive lattice steps, got %v %v", minElevStep, minDirStep)
	}
}

func TestBilinearWeightsSumToOne(t *testing.T) {
	re, rd := 0.3, 0.7
	sum := bilinearWeight(0, 0, re, rd) + bilinearWeight(0, 1, re, rd) +
		bilinearWeight(1, 0, re, rd) + bilinearWeight(1, 1, re, rd)
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("expected bilinear weights to sum to 1, got %v", sum)
	}
}

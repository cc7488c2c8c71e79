package generator

import (
	"math"
	"sync"

	"refractor/internal/atmosphere"
	"refractor/internal/config"
	"refractor/internal/object"
	"refractor/internal/terrain"
	"refractor/internal/tracing"
)

// lockedCache is the reader-preferred double-checked cache shared by the
// three tiers below: take a read lock and look up; on miss, release it,
// compute without holding any lock, then take a write lock and insert. A
// concurrent racer may compute the same key twice; both writes are
// equivalent since the value is a pure function of the key.
//
// Ground: terrain.Sampler's own double-checked cell map, generalized to a
// reusable generic since RectilinearGenerator needs three instances of it.
type lockedCache[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func newLockedCache[K comparable, V any]() *lockedCache[K, V] {
	return &lockedCache[K, V]{m: make(map[K]V)}
}

func (c *lockedCache[K, V]) getOrCompute(key K, compute func() V) V {
	c.mu.RLock()
	v, ok := c.m[key]
	c.mu.RUnlock()
	if ok {
		return v
	}

	v = compute()

	c.mu.Lock()
	c.m[key] = v
	c.mu.Unlock()
	return v
}

// RectilinearGenerator renders the true pinhole camera. Because the
// per-pixel (elevation, direction) pair is not separable across the image
// plane, it instead discretizes the camera into a rectangular angular
// lattice coarser than the pixel grid, caches one path/terrain/traced
// pixel per lattice point, and reconstructs each screen pixel by
// classification-aware interpolation across its four surrounding lattice
// points.
//
// Ground: original_source/src/rendering/rectilinear.rs's RayParams/
// get_ray_params/create_ray_iterator for the camera model; the lattice
// cache and trace-point stitching below have no original_source
// counterpart (the original walks a fresh path per pixel, matching
// ReferenceGenerator here) and are this package's own interpolating
// acceleration structure over that camera model.
type RectilinearGenerator struct {
	scene Scene

	minElevStepDeg float64
	minDirStepDeg  float64

	paths    *lockedCache[int, []atmosphere.PathElem]
	terrains *lockedCache[int, []terrain.Sample]
	pixels   *lockedCache[latticeKey, ResultPixel]
}

type latticeKey struct{ elevIdx, dirIdx int }

// NewRectilinearGenerator builds a RectilinearGenerator over scene.
func NewRectilinearGenerator(scene Scene) *RectilinearGenerator {
	return &RectilinearGenerator{
		scene:    scene,
		paths:    newLockedCache[int, []atmosphere.PathElem](),
		terrains: newLockedCache[int, []terrain.Sample](),
		pixels:   newLockedCache[latticeKey, ResultPixel](),
	}
}

// Generate renders the full image, returned row-major.
func (g *RectilinearGenerator) Generate() [][]ResultPixel {
	p := g.scene.Params
	width, height := p.Output.Width, p.Output.Height

	elev := make([][]float64, height)
	dir := make([][]float64, height)
	for y := range elev {
		elev[y] = make([]float64, width)
		dir[y] = make([]float64, width)
	}
	parallelFor(height, func(y int) {
		for x := 0; x < width; x++ {
			elev[y][x], dir[y][x] = pinholeRay(p, x, y)
		}
	})

	g.minElevStepDeg, g.minDirStepDeg = latticeSteps(p, elev, dir)

	result := make([][]ResultPixel, height)
	for y := range result {
		result[y] = make([]ResultPixel, width)
	}
	parallelFor(height, func(y int) {
		for x := 0; x < width; x++ {
			result[y][x] = g.pixelAt(elev[y][x], dir[y][x])
			g.scene.reportPixel()
		}
	})
	return result
}

// latticeSteps derives the two minimum angular steps (degrees) defining
// the oversampling lattice: 1.5x the smallest observed adjacent-pixel
// delta along each axis, floored so a degenerate (near-constant) camera
// axis can't collapse the step to zero.
func latticeSteps(p config.Params, elev, dir [][]float64) (minElevStepDeg, minDirStepDeg float64) {
	width, height := p.Output.Width, p.Output.Height

	minElevDelta := math.Inf(1)
	for x := 0; x < width; x++ {
		for y := 1; y < height; y++ {
			d := math.Abs(elev[y][x] - elev[y-1][x])
			if d > 0 && d < minElevDelta {
				minElevDelta = d
			}
		}
	}
	minDirDelta := math.Inf(1)
	for y := 0; y < height; y++ {
		for x := 1; x < width; x++ {
			d := math.Abs(dir[y][x] - dir[y][x-1])
			if d > 0 && d < minDirDelta {
				minDirDelta = d
			}
		}
	}

	elevFloor := (p.Frame.Fov / float64(width)) / 3
	dirFloor := (p.Frame.Fov / float64(height)) / 3

	minElevStepDeg = 1.5 * minElevDelta
	if math.IsInf(minElevStepDeg, 1) || minElevStepDeg < elevFloor {
		minElevStepDeg = elevFloor
	}
	minDirStepDeg = 1.5 * minDirDelta
	if math.IsInf(minDirStepDeg, 1) || minDirStepDeg < dirFloor {
		minDirStepDeg = dirFloor
	}
	return minElevStepDeg, minDirStepDeg
}

// pixelAt reconstructs the ResultPixel for one screen ray by locating its
// four surrounding lattice points and blending their cached, independently
// traced pixels.
func (g *RectilinearGenerator) pixelAt(elevDeg, dirDeg float64) ResultPixel {
	elevIF := elevDeg / g.minElevStepDeg
	dirIF := dirDeg / g.minDirStepDeg

	elevIdx := int(math.Floor(elevIF))
	dirIdx := int(math.Floor(dirIF))
	re := elevIF - float64(elevIdx)
	rd := dirIF - float64(dirIdx)

	var corners [2][2]ResultPixel
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			corners[i][j] = g.latticePixel(elevIdx+i, dirIdx+j)
		}
	}

	return ResultPixel{
		ElevationAngle: elevDeg * math.Pi / 180,
		Azimuth:        dirDeg,
		TracePoints:    stitchTracePoints(corners, re, rd, g.scene.Params.SimulationStep),
	}
}

// latticePixel fetches (or computes and caches) the fully-traced result
// pixel at lattice point (elevIdx, dirIdx), itself built from a cached
// path and a cached terrain sequence for that lattice row/column.
func (g *RectilinearGenerator) latticePixel(elevIdx, dirIdx int) ResultPixel {
	key := latticeKey{elevIdx: elevIdx, dirIdx: dirIdx}
	return g.pixels.getOrCompute(key, func() ResultPixel {
		elevDeg := float64(elevIdx) * g.minElevStepDeg
		dirDeg := float64(dirIdx) * g.minDirStepDeg

		path := g.paths.getOrCompute(elevIdx, func() []atmosphere.PathElem {
			return pathAt(g.scene, elevDeg)
		})
		terrainSamples := g.terrains.getOrCompute(dirIdx, func() []terrain.Sample {
			return terrainAt(g.scene, dirDeg)
		})
		return tracePixel(g.scene, elevDeg, dirDeg, path, terrainSamples)
	})
}

// pointClass groups trace points across the four corners that plausibly
// represent the same surface hit: same color kind, and distance within
// the simulation step size of each other.
type pointClass struct {
	points [2][2]*tracing.TracePoint
}

// stitchTracePoints collects the four corner pixels' trace-point lists
// into classes and interpolates each class into a single output point
// using the case analysis over which corners contributed a point.
// stepSize is the classification tolerance (meters): two corners' trace
// points are the same surface hit iff their distances differ by less
// than stepSize, taken to be the configured SimulationStep itself so the
// tolerance scales with how finely the ray was walked.
func stitchTracePoints(corners [2][2]ResultPixel, re, rd, stepSize float64) []tracing.TracePoint {
	var classes []pointClass

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for pi := range corners[i][j].TracePoints {
				pt := &corners[i][j].TracePoints[pi]
				placed := false
				for ci := range classes {
					if classesMatch(classes[ci], i, j, pt, stepSize) {
						classes[ci].points[i][j] = pt
						placed = true
						break
					}
				}
				if !placed {
					var c pointClass
					c.points[i][j] = pt
					classes = append(classes, c)
				}
			}
		}
	}

	var out []tracing.TracePoint
	for _, c := range classes {
		if pt, ok := interpolateClass(c, re, rd); ok {
			out = append(out, pt)
		}
	}
	return out
}

func classesMatch(c pointClass, i, j int, pt *tracing.TracePoint, stepSize float64) bool {
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			if (a == i && b == j) || c.points[a][b] == nil {
				continue
			}
			other := c.points[a][b]
			if other.Kind == pt.Kind && math.Abs(other.Distance-pt.Distance) < stepSize {
				return true
			}
		}
	}
	return false
}

// bilinearWeight is corner (i,j)'s standard bilinear weight at fractional
// position (re,rd): (1-re) or re depending on row, times (1-rd) or rd
// depending on column.
func bilinearWeight(i, j int, re, rd float64) float64 {
	we := re
	if i == 0 {
		we = 1 - re
	}
	wd := rd
	if j == 0 {
		wd = 1 - rd
	}
	return we * wd
}

// interpolateClass applies the case-analysis table over which of the four
// corners contributed a point to this class.
func interpolateClass(c pointClass, re, rd float64) (tracing.TracePoint, bool) {
	var pts [2][2]*tracing.TracePoint
	present := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			pts[i][j] = c.points[i][j]
			if pts[i][j] != nil {
				present++
			}
		}
	}

	switch present {
	case 0:
		return tracing.TracePoint{}, false
	case 1:
		i, j := onlyCorner(pts)
		if inQuadrant(i, j, re, rd) {
			return *pts[i][j], true
		}
		return tracing.TracePoint{}, false
	case 2:
		return interpolateTwoCorners(pts, re, rd)
	case 3:
		return interpolateThreeCorners(pts, re, rd)
	default:
		return interpolateFourCorners(pts, re, rd)
	}
}

func onlyCorner(pts [2][2]*tracing.TracePoint) (int, int) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if pts[i][j] != nil {
				return i, j
			}
		}
	}
	return 0, 0
}

// inQuadrant reports whether (re,rd) lies in the quadrant around (0.5,0.5)
// nearest corner (i,j).
func inQuadrant(i, j int, re, rd float64) bool {
	eSide := re < 0.5
	dSide := rd < 0.5
	return (i == 0) == eSide && (j == 0) == dSide
}

// interpolateTwoCorners handles both the edge-adjacent and diagonal
// 2-corner cases with one bilinear-weight blend, gated by "is (re,rd) on
// the side of the present corners' edge/diagonal".
func interpolateTwoCorners(pts [2][2]*tracing.TracePoint, re, rd float64) (tracing.TracePoint, bool) {
	type coord struct{ i, j int }
	var present []coord
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if pts[i][j] != nil {
				present = append(present, coord{i, j})
			}
		}
	}
	a, b := present[0], present[1]

	switch {
	case a.i == b.i:
		onSide := (a.i == 0 && re < 0.5) || (a.i == 1 && re >= 0.5)
		if !onSide {
			return tracing.TracePoint{}, false
		}
	case a.j == b.j:
		onSide := (a.j == 0 && rd < 0.5) || (a.j == 1 && rd >= 0.5)
		if !onSide {
			return tracing.TracePoint{}, false
		}
	default:
		mainDiagonal := a.i == a.j
		onDiagonal := (re < 0.5) == (rd < 0.5)
		if mainDiagonal != onDiagonal {
			return tracing.TracePoint{}, false
		}
	}

	wa := bilinearWeight(a.i, a.j, re, rd)
	wb := bilinearWeight(b.i, b.j, re, rd)
	t := wb / (wa + wb)
	return blend(*pts[a.i][a.j], *pts[b.i][b.j], t), true
}

// interpolateThreeCorners treats the missing corner's quadrant as
// forbidden and otherwise performs the same full bilinear blend as the
// 4-corner case, substituting the diagonally opposite corner's value for
// the missing one (in each of the three visible quadrants some present
// corner outweighs the missing one, so it never dominates the result there).
func interpolateThreeCorners(pts [2][2]*tracing.TracePoint, re, rd float64) (tracing.TracePoint, bool) {
	mi, mj := 0, 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if pts[i][j] == nil {
				mi, mj = i, j
			}
		}
	}
	if inQuadrant(mi, mj, re, rd) {
		return tracing.TracePoint{}, false
	}

	full := pts
	opp := *pts[1-mi][1-mj]
	full[mi][mj] = &opp
	return interpolateFourCorners(full, re, rd)
}

func interpolateFourCorners(pts [2][2]*tracing.TracePoint, re, rd float64) (tracing.TracePoint, bool) {
	top := blend(*pts[0][0], *pts[0][1], rd)
	bottom := blend(*pts[1][0], *pts[1][1], rd)
	return blend(top, bottom, re), true
}

// blend linearly interpolates every numeric field of a and b by t in
// [0,1], taking a's Kind since classes are same-kind by construction.
func blend(a, b tracing.TracePoint, t float64) tracing.TracePoint {
	lerp := func(x, y float64) float64 { return x + (y-x)*t }
	return tracing.TracePoint{
		Lat:        lerp(a.Lat, b.Lat),
		Lon:        lerp(a.Lon, b.Lon),
		Distance:   lerp(a.Distance, b.Distance),
		Elevation:  lerp(a.Elevation, b.Elevation),
		PathLength: lerp(a.PathLength, b.PathLength),
		Normal:     a.Normal.Mul(1 - t).Add(b.Normal.Mul(t)),
		Kind:       a.Kind,
		Alpha:      lerp(a.Alpha, b.Alpha),
		Color: object.Color{
			R: lerp(a.Color.R, b.Color.R),
			G: lerp(a.Color.G, b.Color.G),
			B: lerp(a.Color.B, b.Color.B),
			A: lerp(a.Color.A, b.Color.A),
		},
	}
}

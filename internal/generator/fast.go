package generator

import (
	"runtime"
	"sync"

	"refractor/internal/atmosphere"
	"refractor/internal/terrain"
)

// FastGenerator exploits the non-rectilinear camera's separability:
// azimuth depends only on column x, elevation only on row y. It
// precomputes one terrain sequence per column and one ray path per row,
// both in parallel, then zips them pointwise per pixel: O(W+H) expensive
// walks instead of O(W·H).
//
// Ground: original_source/src/rendering/fast.rs's gen_terrain_cache /
// gen_path_cache / generate, with rayon's par_iter replaced by a plain
// channel-plus-worker-pool pattern (see parallelFor below).
type FastGenerator struct {
	scene Scene
}

// NewFastGenerator builds a FastGenerator over scene.
func NewFastGenerator(scene Scene) *FastGenerator {
	return &FastGenerator{scene: scene}
}

// Generate renders the full image, returned row-major.
func (g *FastGenerator) Generate() [][]ResultPixel {
	p := g.scene.Params
	width, height := p.Output.Width, p.Output.Height

	terrainCache := make([][]terrain.Sample, width)
	parallelFor(width, func(x int) {
		dir := separableDir(p, x, width)
		terrainCache[x] = terrainAt(g.scene, dir)
	})

	pathCache := make([][]atmosphere.PathElem, height)
	parallelFor(height, func(y int) {
		elev := separableElev(p, y, height)
		pathCache[y] = pathAt(g.scene, elev)
	})

	result := make([][]ResultPixel, height)
	for y := range result {
		result[y] = make([]ResultPixel, width)
	}
	parallelFor(height, func(y int) {
		elev := separableElev(p, y, height)
		path := pathCache[y]
		for x := 0; x < width; x++ {
			dir := separableDir(p, x, width)
			result[y][x] = tracePixel(g.scene, elev, dir, path, terrainCache[x])
			g.scene.reportPixel()
		}
	})

	return result
}

// parallelFor runs fn(i) for i in [0,n) across runtime.NumCPU() workers
// pulling from a shared work channel.
func parallelFor(n int, fn func(i int)) {
	work := make(chan int, n)
	for i := 0; i < n; i++ {
		work <- i
	}
	close(work)

	numWorkers := runtime.NumCPU()
	if numWorkers > n {
		numWorkers = n
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for i := range work {
				fn(i)
			}
		}()
	}
	wg.Wait()
}

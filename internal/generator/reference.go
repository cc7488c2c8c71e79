package generator

// ReferenceGenerator walks a fresh path and terrain sequence for every
// pixel independently, with no cache of any kind. It is the correctness
// reference other generators' output can be checked against, and it is
// also what config's GeneratorRectilinear selects in render.Run. It is the
// expensive O(W*H) baseline RectilinearGenerator's cache is built to avoid.
//
// Ground: original_source/src/rendering/correct.rs's CorrectGenerator.
type ReferenceGenerator struct {
	scene Scene
}

// NewReferenceGenerator builds a ReferenceGenerator over scene.
func NewReferenceGenerator(scene Scene) *ReferenceGenerator {
	return &ReferenceGenerator{scene: scene}
}

// Generate renders the full image, one independent per-pixel walk at a
// time, returned row-major.
func (g *ReferenceGenerator) Generate() [][]ResultPixel {
	p := g.scene.Params
	width, height := p.Output.Width, p.Output.Height

	result := make([][]ResultPixel, height)
	for y := 0; y < height; y++ {
		result[y] = make([]ResultPixel, width)
		for x := 0; x < width; x++ {
			result[y][x] = g.tracePixelAt(x, y)
			g.scene.reportPixel()
		}
	}
	return result
}

func (g *ReferenceGenerator) tracePixelAt(x, y int) ResultPixel {
	elev, dir := pinholeRay(g.scene.Params, x, y)
	path := pathAt(g.scene, elev)
	terrainSamples := terrainAt(g.scene, dir)
	return tracePixel(g.scene, elev, dir, path, terrainSamples)
}

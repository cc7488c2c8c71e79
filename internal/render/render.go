// Package render is the top-level orchestrator: it loads terrain and scene
// objects, assembles a generator.Scene, picks the configured generator, and
// runs it to completion. Turning the resulting pixel grid into a viewable
// image (fog, palette shading, tick overlays, PNG encoding) is the external
// compositor's job, not this package's.
package render

import (
	"fmt"

	"refractor/internal/config"
	"refractor/internal/generator"
	"refractor/internal/terrain"
)

// Generator is the common interface every scheduling strategy implements.
type Generator interface {
	Generate() [][]generator.ResultPixel
}

// Result is what one render pass produces: the params it was run with (so
// a caller can report on what it just did) and the traced pixel grid.
type Result struct {
	Params config.Params
	Pixels [][]generator.ResultPixel
}

// Run loads the terrain folder configured in p, builds p's scene objects,
// picks the generator p.Output.Generator names, and runs it. progressSink,
// if non-nil, is notified once per completed pixel.
//
// Ground: original_source/src/main.rs's top-level "load config, load
// terrain, build objects, dispatch to the configured generator" sequence,
// reduced to the single Go entry point cmd/refractor calls.
func Run(p config.Params, progressSink interface{ Add(n int64) }) (Result, error) {
	sampler := terrain.NewSampler(NewFolderLoader(p.TerrainFolder))

	objects, err := BuildObjects(p.Objects, p.EarthShape, sampler)
	if err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}

	scene := generator.Scene{
		Params:   p,
		Terrain:  sampler,
		Objects:  objects,
		Progress: progressSink,
	}

	gen, err := newGenerator(p.Output.Generator, scene)
	if err != nil {
		return Result{}, err
	}

	return Result{Params: p, Pixels: gen.Generate()}, nil
}

func newGenerator(kind config.Generator, scene generator.Scene) (Generator, error) {
	switch kind {
	case config.GeneratorFast:
		return generator.NewFastGenerator(scene), nil
	case config.GeneratorRectilinear:
		return generator.NewReferenceGenerator(scene), nil
	case config.GeneratorInterpolatingRectilinear:
		return generator.NewRectilinearGenerator(scene), nil
	default:
		return nil, fmt.Errorf("render: unknown generator %v", kind)
	}
}

// PixelCount returns the total number of pixels p will render, the total a
// progress.Tracker should be built with.
func PixelCount(p config.Params) int {
	return p.Output.Width * p.Output.Height
}

package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"refractor/internal/config"
	"refractor/internal/earth"
	"refractor/internal/object"
	"refractor/internal/terrain"
)

// BuildObjects converts a scene's object configuration into concrete
// object.Object instances, resolving each object's altitude against the
// terrain directly beneath it the same way the observer's own altitude is
// resolved.
//
// Ground: original_source/src/object.rs's ObjectConf -> Object conversion
// (the kind match and its per-shape field list); texture decoding itself
// has no analog there (the original loads raw RGBA buffers), so it is
// written directly against the stdlib image package the way a Go program
// idiomatically loads a PNG/JPEG asset.
func BuildObjects(cfgs []config.ObjectConfig, model earth.Model, sampler *terrain.Sampler) ([]object.Object, error) {
	objs := make([]object.Object, 0, len(cfgs))
	for i, c := range cfgs {
		pos := c.ResolvePosition()
		sample := sampler.Sample(model, pos.Latitude, pos.Longitude)
		coords := earth.Coords{
			Lat:  pos.Latitude,
			Lon:  pos.Longitude,
			Elev: pos.Altitude.Resolve(sample.Elev),
		}

		switch c.Kind {
		case "frustum":
			objs = append(objs, object.Frustum{
				R1:     c.Radius1,
				R2:     c.Radius2,
				Height: c.Height,
				Pos:    coords,
				Col:    object.Color{R: c.Color[0], G: c.Color[1], B: c.Color[2], A: c.Color[3]},
			})
		case "billboard":
			tex, err := loadTexture(c.TexturePath)
			if err != nil {
				return nil, fmt.Errorf("render: object %d: %w", i, err)
			}
			objs = append(objs, object.Billboard{
				Width:   c.Width,
				Height:  c.Height,
				Pos:     coords,
				Texture: tex,
			})
		default:
			return nil, fmt.Errorf("render: object %d: unknown kind %q", i, c.Kind)
		}
	}
	return objs, nil
}

func loadTexture(path string) (object.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return object.Image{}, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return object.Image{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return object.NewImage(img), nil
}

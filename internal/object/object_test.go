package object

import (
	"image"
	"image/color"
	"testing"

	"refractor/internal/earth"
)

func checkerImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

func TestCylinderSideHit(t *testing.T) {
	model := earth.NewFlatDistorted()
	pos := earth.Coords{Lat: 0, Lon: 0, Elev: 0}
	cyl := Frustum{R1: 10, R2: 10, Height: 50, Pos: pos, Col: Color{R: 1, A: 1}}

	// A ray that starts well to the side at the cylinder's mid-height and
	// passes straight through its axis region should hit the near side.
	start := earth.Coords{Lat: 0, Lon: -0.001, Elev: 25}
	end := earth.Coords{Lat: 0, Lon: 0.001, Elev: 25}

	hits := cyl.CheckCollision(model, start, end)
	if len(hits) == 0 {
		t.Fatalf("expected at least one side hit")
	}
	for _, h := range hits {
		if h.T < 0 || h.T >= 1 {
			t.Errorf("hit T out of range: %v", h.T)
		}
	}
}

func TestCylinderMissesFarAway(t *testing.T) {
	model := earth.NewFlatDistorted()
	pos := earth.Coords{Lat: 0, Lon: 0, Elev: 0}
	cyl := Frustum{R1: 5, R2: 5, Height: 10, Pos: pos, Col: Color{R: 1, A: 1}}

	start := earth.Coords{Lat: 10, Lon: 10, Elev: 0}
	end := earth.Coords{Lat: 10.001, Lon: 10, Elev: 0}

	hits := cyl.CheckCollision(model, start, end)
	if len(hits) != 0 {
		t.Errorf("expected no hits far from the cylinder, got %d", len(hits))
	}
}

func TestConeTopHasZeroRadius(t *testing.T) {
	model := earth.NewFlatDistorted()
	pos := earth.Coords{Lat: 0, Lon: 0, Elev: 0}
	cone := Frustum{R1: 10, R2: 0, Height: 20, Pos: pos, Col: Color{G: 1, A: 1}}

	// A horizontal ray crossing the axis exactly at the apex height should
	// miss: the side accepts only h < Height and the top disk has radius 0.
	start := earth.Coords{Lat: 0, Lon: -0.01, Elev: 20}
	end := earth.Coords{Lat: 0, Lon: 0.01, Elev: 20}
	hits := cone.CheckCollision(model, start, end)
	if len(hits) != 0 {
		t.Errorf("expected no hits at the apex height, got %d", len(hits))
	}
	for _, h := range hits {
		if h.T < 0 || h.T >= 1 {
			t.Errorf("hit T out of range: %v", h.T)
		}
	}
}

func TestFrustumIsCloseFilter(t *testing.T) {
	model := earth.NewFlatDistorted()
	pos := earth.Coords{Lat: 0, Lon: 0, Elev: 0}
	f := Frustum{R1: 10, R2: 10, Height: 10, Pos: pos, Col: Color{A: 1}}

	if !f.IsClose(model, 5, 0.00001, 0.00001) {
		t.Errorf("expected nearby point to be classified close")
	}
	if f.IsClose(model, 5, 50, 50) {
		t.Errorf("expected distant point to be classified not close")
	}
}

func TestBillboardHitSamplesTexture(t *testing.T) {
	model := earth.NewFlatDistorted()
	pos := earth.Coords{Lat: 0, Lon: 0, Elev: 0}
	img := NewImage(checkerImage(4, 4))
	bb := Billboard{Width: 20, Height: 20, Pos: pos, Texture: img}

	start := earth.Coords{Lat: -0.001, Lon: 0, Elev: 10}
	end := earth.Coords{Lat: 0.001, Lon: 0, Elev: 10}

	hits := bb.CheckCollision(model, start, end)
	if len(hits) != 1 {
		t.Fatalf("expected exactly one billboard hit, got %d", len(hits))
	}
	if hits[0].Color.A <= 0 {
		t.Errorf("expected opaque sampled color, got alpha %v", hits[0].Color.A)
	}
}

func TestBillboardMissesOutsideRectangle(t *testing.T) {
	model := earth.NewFlatDistorted()
	pos := earth.Coords{Lat: 0, Lon: 0, Elev: 0}
	img := NewImage(checkerImage(4, 4))
	bb := Billboard{Width: 20, Height: 20, Pos: pos, Texture: img}

	// Elevation far above the billboard's height should miss the rectangle.
	start := earth.Coords{Lat: -0.001, Lon: 0, Elev: 1000}
	end := earth.Coords{Lat: 0.001, Lon: 0, Elev: 1000}

	hits := bb.CheckCollision(model, start, end)
	if len(hits) != 0 {
		t.Errorf("expected no hits above the billboard, got %d", len(hits))
	}
}

func TestImageSampleInterpolatesBetweenCorners(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{0, 0, 0, 255})
	img.Set(1, 0, color.RGBA{255, 255, 255, 255})
	img.Set(0, 1, color.RGBA{0, 0, 0, 255})
	img.Set(1, 1, color.RGBA{255, 255, 255, 255})

	wrapped := NewImage(img)
	mid := wrapped.Sample(0.5, 0.5)
	if mid.R <= 0.1 || mid.R >= 0.9 {
		t.Errorf("expected a midtone blend at the center, got R=%v", mid.R)
	}
}

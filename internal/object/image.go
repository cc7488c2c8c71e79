package object

import (
	"image"
	"math"
)

// Image wraps a decoded texture with the bilinear sampling billboards use.
// Decoding the texture file itself is an ambient concern (see
// internal/render), not part of the core; this type only needs an already
// decoded image.Image.
//
// Ground: original_source/src/object.rs's Image::get_pixel; the half-pixel
// offset, clamped floor, and four-corner weighted blend are carried over
// exactly, with y inverted the same way (texture row 0 is the top).
type Image struct {
	img image.Image
	w, h float64
}

// NewImage wraps img for bilinear sampling.
func NewImage(img image.Image) Image {
	b := img.Bounds()
	return Image{img: img, w: float64(b.Dx()), h: float64(b.Dy())}
}

func (im Image) at(x, y int) Color {
	r, g, b, a := im.img.At(x, y).RGBA()
	return Color{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Sample bilinearly samples u, v in [0,1], with v=0 at the bottom of the
// texture (image row 0 is its top).
func (im Image) Sample(u, v float64) Color {
	x := u*im.w - 0.5
	x1 := math.Floor(clampf(x, 0, im.w-2))
	x2 := x1 + 1
	y := (1-v)*im.h - 0.5
	y1 := math.Floor(clampf(y, 0, im.h-2))
	y2 := y1 + 1

	px := x - x1
	py := y - y1

	p00 := im.at(int(x1), int(y1))
	p01 := im.at(int(x1), int(y2))
	p10 := im.at(int(x2), int(y1))
	p11 := im.at(int(x2), int(y2))

	mix := func(c00, c01, c10, c11 float64) float64 {
		return c00*(1-px)*(1-py) + c01*(1-px)*py + c10*px*(1-py) + c11*px*py
	}

	return Color{
		R: mix(p00.R, p01.R, p10.R, p11.R),
		G: mix(p00.G, p01.G, p10.G, p11.G),
		B: mix(p00.B, p01.B, p10.B, p11.B),
		A: mix(p00.A, p01.A, p10.A, p11.A),
	}
}

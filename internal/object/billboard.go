package object

import (
	"math"

	"refractor/internal/earth"
)

// Billboard is an axis-aligned rectangle of the given width/height,
// anchored at Pos and always facing the camera (it rotates about its local
// up axis to keep its face perpendicular to the ray's horizontal
// direction, rather than having a fixed normal).
//
// Ground: original_source/src/object.rs's Shape::Billboard branch of
// check_collision and Image::get_pixel, carried over directly.
type Billboard struct {
	Width, Height float64
	Pos           earth.Coords
	Texture       Image
}

var _ Object = Billboard{}

func (b Billboard) Position() earth.Coords { return b.Pos }

func (b Billboard) IsClose(model earth.Model, step float64, lat, lon float64) bool {
	objPos := model.AsCartesian(b.Pos)
	pos := model.AsCartesian(earth.Coords{Lat: lat, Lon: lon, Elev: b.Pos.Elev})
	d := pos.Sub(objPos)
	bound := b.Width + step
	return d.Dot(d) < 2*bound*bound
}

func (b Billboard) CheckCollision(model earth.Model, segStart, segEnd earth.Coords) []Hit {
	objPos := model.AsCartesian(b.Pos)
	pos1 := model.AsCartesian(segStart)
	pos2 := model.AsCartesian(segEnd)

	ray := pos2.Sub(pos1)
	up := axisUnit(model, b.Pos.Lat, b.Pos.Lon)

	right := ray.Cross(up)
	rightLen := right.Len()
	if rightLen < 1e-12 {
		return nil
	}
	right = right.Mul(1 / rightLen)
	front := right.Cross(up)

	p1 := pos1.Sub(objPos)

	denom := ray.Dot(front)
	if math.Abs(denom) < 1e-15 {
		return nil
	}
	t := -p1.Dot(front) / denom
	if t < 0 || t >= 1 {
		return nil
	}

	intersection := p1.Add(ray.Mul(t))
	y := intersection.Dot(up)
	x := intersection.Dot(right)

	if y < 0 || y >= b.Height || x < -b.Width/2 || x >= b.Width/2 {
		return nil
	}

	u := clampUnit((x + b.Width/2) / b.Width)
	v := clampUnit(y / b.Height)
	color := b.Texture.Sample(u, v)
	if color.A <= 0 {
		return nil
	}

	return []Hit{{T: t, Normal: front, Color: color}}
}

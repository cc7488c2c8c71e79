package object

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"refractor/internal/earth"
)

// Frustum is a tapered cylinder: radius R1 at its base (h=0), R2 at its top
// (h=Height). R1==R2 is a cylinder; R2==0 is a cone.
//
// Ground: original_source/src/object.rs's Shape::Cylinder branch of
// check_collision, generalized from a fixed radius to independent base and
// top radii R1/R2. The original only ever constructs cylinders, so the
// tilted-normal and tapered-radius math here is derived directly from the
// side-surface quadratic below rather than copied from a working
// reference.
type Frustum struct {
	R1, R2, Height float64
	Pos            earth.Coords
	Col            Color
}

var _ Object = Frustum{}

func (f Frustum) Position() earth.Coords { return f.Pos }

func (f Frustum) IsClose(model earth.Model, step float64, lat, lon float64) bool {
	objPos := model.AsCartesian(f.Pos)
	pos := model.AsCartesian(earth.Coords{Lat: lat, Lon: lon, Elev: f.Pos.Elev})
	d := pos.Sub(objPos)
	r := math.Max(f.R1, f.R2)
	bound := r + step
	return d.Dot(d) < 2*bound*bound
}

func (f Frustum) CheckCollision(model earth.Model, segStart, segEnd earth.Coords) []Hit {
	objPos := model.AsCartesian(f.Pos)
	pos1 := model.AsCartesian(segStart)
	pos2 := model.AsCartesian(segEnd)

	p := pos1.Sub(objPos)
	w := pos2.Sub(pos1)
	v := axisUnit(model, f.Pos.Lat, f.Pos.Lon)

	var hits []Hit
	if f.Height > 0 {
		if hit, ok := f.sideHit(p, w, v); ok {
			hits = append(hits, hit)
		}
	}
	if hit, ok := f.capHit(p, w, v, 0, f.R1, v.Mul(-1)); ok {
		hits = append(hits, hit)
	}
	if f.Height > 0 {
		if hit, ok := f.capHit(p, w, v, f.Height, f.R2, v); ok {
			hits = append(hits, hit)
		}
	}

	sortHitsByT(hits)
	return hits
}

// sideHit solves the tapered-side quadratic:
// (p + w*t - (p.v+aa*r1)*v)^2 = (r1 + aa*((p+w*t).v))^2, aa = (r2-r1)/H.
func (f Frustum) sideHit(p, w, v mgl64.Vec3) (Hit, bool) {
	aa := (f.R2 - f.R1) / f.Height

	pv := p.Dot(v)
	k := pv + aa*f.R1
	p0 := p.Sub(v.Mul(k))

	wv := w.Dot(v)
	c0 := f.R1 + aa*pv
	c1 := aa * wv

	a := w.Dot(w) - c1*c1
	b := 2 * (p0.Dot(w) - c0*c1)
	c := p0.Dot(p0) - c0*c0

	t, ok := smallestRootInUnitInterval(a, b, c)
	if !ok {
		return Hit{}, false
	}

	h := p.Add(w.Mul(t)).Dot(v)
	if h < 0 || h >= f.Height {
		return Hit{}, false
	}

	intersection := p.Add(w.Mul(t))
	radial := intersection.Sub(v.Mul(h))
	radialLen := radial.Len()
	if radialLen < 1e-12 {
		return Hit{}, false
	}
	radialUnit := radial.Mul(1 / radialLen)

	psi := math.Atan2(f.R1-f.R2, f.Height)
	normal := radialUnit.Mul(math.Cos(psi)).Add(v.Mul(math.Sin(psi))).Normalize()

	return Hit{T: t, Normal: normal, Color: f.Col}, true
}

// capHit intersects the ray with the disk of radius r at axial height h0,
// with outward normal capNormal (+v for the top, −v for the bottom).
func (f Frustum) capHit(p, w, v mgl64.Vec3, h0, r float64, capNormal mgl64.Vec3) (Hit, bool) {
	wv := w.Dot(v)
	if math.Abs(wv) < 1e-15 {
		return Hit{}, false
	}
	t := (h0 - p.Dot(v)) / wv
	if t < 0 || t >= 1 {
		return Hit{}, false
	}

	intersection := p.Add(w.Mul(t))
	radial := intersection.Sub(v.Mul(h0))
	if radial.Dot(radial) > r*r {
		return Hit{}, false
	}

	return Hit{T: t, Normal: capNormal, Color: f.Col}, true
}

// smallestRootInUnitInterval solves a·t²+b·t+c=0 and returns the smallest
// real root lying in [0,1), matching the cylinder branch's "prefer x1,
// fall back to x2" selection in the original source.
func smallestRootInUnitInterval(a, b, c float64) (float64, bool) {
	if math.Abs(a) < 1e-15 {
		if math.Abs(b) < 1e-15 {
			return 0, false
		}
		t := -c / b
		if t >= 0 && t < 1 {
			return t, true
		}
		return 0, false
	}

	delta := b*b - 4*a*c
	if delta < 0 {
		return 0, false
	}
	sq := math.Sqrt(delta)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 >= 0 && t1 < 1 {
		return t1, true
	}
	if t2 >= 0 && t2 < 1 {
		return t2, true
	}
	return 0, false
}

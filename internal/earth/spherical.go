package earth

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// sphericalDirections computes the local geodetic (north, east, up) frame
// on a sphere. Ground: original_source/src/utils/earth_model.rs
// spherical_directions.
func sphericalDirections(lat, lon float64) Frame {
	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180

	sinlon, coslon := math.Sin(lonRad), math.Cos(lonRad)
	sinlat, coslat := math.Sin(latRad), math.Cos(latRad)

	up := mgl64.Vec3{coslat * coslon, coslat * sinlon, sinlat}
	north := mgl64.Vec3{-sinlat * coslon, -sinlat * sinlon, coslat}
	east := mgl64.Vec3{-sinlon, coslon, 0}

	return Frame{North: north, East: east, Up: up}
}

// sphericalToCartesian places (lat, lon) at radial distance r from the
// sphere's center.
func sphericalToCartesian(r, lat, lon float64) mgl64.Vec3 {
	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180
	coslat := math.Cos(latRad)
	return mgl64.Vec3{
		r * coslat * math.Cos(lonRad),
		r * coslat * math.Sin(lonRad),
		r * math.Sin(latRad),
	}
}

// sphericalCalc is the DirectionalCalc for Spherical/SimpleSphere: it
// precomputes the unit start position and direction once, then advances
// along the great circle by distance d with a single rotation.
//
// Ground: original_source/src/utils/earth_model.rs get_coords_at_dist,
// the EarthModel::FlatSpherical/Spherical branch.
type sphericalCalc struct {
	radius  float64
	pos     mgl64.Vec3
	dir     mgl64.Vec3
}

func newSphericalCalc(radius float64, start Coords, azimuthDeg float64) sphericalCalc {
	frame := sphericalDirections(start.Lat, start.Lon)
	pos := sphericalToCartesian(radius, start.Lat, start.Lon).Normalize()

	azRad := azimuthDeg * math.Pi / 180
	sinaz, cosaz := math.Sin(azRad), math.Cos(azRad)
	dir := frame.North.Mul(cosaz).Add(frame.East.Mul(sinaz))

	return sphericalCalc{radius: radius, pos: pos, dir: dir}
}

func (c sphericalCalc) coordsAtDist(d float64) (lat, lon float64) {
	ang := d / c.radius
	sinang, cosang := math.Sin(ang), math.Cos(ang)
	fpos := c.pos.Mul(cosang).Add(c.dir.Mul(sinang))

	// guard against floating-point drift pushing the argument outside
	// [-1, 1] near the poles.
	z := clamp(fpos[2], -1, 1)
	latRad := math.Asin(z)
	lonRad := math.Atan2(fpos[1], fpos[0])

	return latRad * 180 / math.Pi, lonRad * 180 / math.Pi
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

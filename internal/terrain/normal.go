package terrain

import (
	"github.com/go-gl/mathgl/mgl64"

	"refractor/internal/earth"
)

// normalStencilMeters is the fixed offset used by the 4-point
// central-difference normal estimate.
const normalStencilMeters = 15.0

// Sample is a single terrain query result: elevation plus an estimated
// surface normal. ObjectsClose is left for the tracing pipeline to fill in
// (terrain has no notion of the object list).
type Sample struct {
	Lat, Lon float64
	Elev     float64
	// Valid reports whether a tile covered this point; when false, Elev is
	// 0 and Normal is the local up vector, since there is no terrain here
	// to shade.
	Valid  bool
	Normal mgl64.Vec3
}

// Sample queries the elevation at (lat, lon) under model and estimates the
// surface normal from a 15m N/S/E/W central-difference stencil, using the
// model's own DirectionalCalc machinery to place the stencil points so the
// estimate stays correct on curved and flat Earth shapes alike.
func (s *Sampler) Sample(model earth.Model, lat, lon float64) Sample {
	elev, valid := s.GetElev(lat, lon)
	frame := model.WorldDirections(lat, lon)
	if !valid {
		return Sample{Lat: lat, Lon: lon, Elev: 0, Valid: false, Normal: frame.Up}
	}

	here := earth.Coords{Lat: lat, Lon: lon}
	elevAt := func(azimuthDeg float64) float64 {
		calc := model.CoordsAtDistCalc(here, azimuthDeg)
		nlat, nlon := calc.CoordsAtDist(normalStencilMeters)
		e, ok := s.GetElev(nlat, nlon)
		if !ok {
			return 0
		}
		return e
	}

	elevN := elevAt(0)
	elevS := elevAt(180)
	elevE := elevAt(90)
	elevW := elevAt(270)

	vNS := frame.North.Mul(2 * normalStencilMeters).Add(frame.Up.Mul(elevN - elevS))
	vEW := frame.East.Mul(2 * normalStencilMeters).Add(frame.Up.Mul(elevE - elevW))

	normal := vEW.Cross(vNS).Normalize()

	return Sample{Lat: lat, Lon: lon, Elev: elev, Valid: true, Normal: normal}
}

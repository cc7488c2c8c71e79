package earth

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// observerAeToCartesian projects c into a plane tangent at observer,
// using great-circle angular distance scaled by projRadius. Unlike the
// pole-centered AzimuthalEquidistant (which reuses longitude directly as
// the projection angle because the pole is a singular point), an
// arbitrary observer needs the initial bearing computed via the local
// tangent-plane decomposition of the unit position vector.
//
// This variant is not present in the retained original source (which only
// keeps a pole-centered AE); it extends the same azimuthal-equidistant
// projection to be centered on an arbitrary observer position instead of
// a pole.
func observerAeToCartesian(projRadius float64, observer, c Coords) mgl64.Vec3 {
	obsUnit := sphericalToCartesian(1, observer.Lat, observer.Lon)
	pointUnit := sphericalToCartesian(1, c.Lat, c.Lon)

	cosAng := clamp(obsUnit.Dot(pointUnit), -1, 1)
	ang := math.Acos(cosAng)

	frame := sphericalDirections(observer.Lat, observer.Lon)
	tangent := pointUnit.Sub(obsUnit.Mul(cosAng))

	var bearing float64
	if tangent.Len() > 1e-12 {
		nComp := tangent.Dot(frame.North)
		eComp := tangent.Dot(frame.East)
		bearing = math.Atan2(eComp, nComp)
	}

	r := ang * projRadius
	return mgl64.Vec3{r * math.Sin(bearing), r * math.Cos(bearing), c.Elev}
}

// newObserverAeCalc builds the DirectionalCalc for ObserverAe/
// SimpleObserverAe. An azimuthal-equidistant projection centered on the
// ray's own start point preserves true radial distances from that point,
// so advancing by distance d along a fixed bearing is geometrically
// identical to the great-circle advance used by Spherical; it is simply
// sphericalCalc evaluated at the model's projection radius instead of the
// Earth's true radius.
func newObserverAeCalc(projRadius float64, start Coords, azimuthDeg float64) sphericalCalc {
	return newSphericalCalc(projRadius, start, azimuthDeg)
}

package earth

import "math"

// Kind enumerates the closed set of supported Earth-shape models.
type Kind int

const (
	// SimpleSphere is Spherical fixed at a hardcoded mean Earth radius,
	// handy for quick tests and demos that don't need a configurable radius.
	SimpleSphere Kind = iota
	// Spherical models the Earth as a perfect sphere of the given radius.
	Spherical
	// Ellipsoid models the Earth as an oblate spheroid with semi-major axis
	// A and semi-minor axis B, using Vincenty-style direct geodesics.
	Ellipsoid
	// Wgs84 is an Ellipsoid fixed at the WGS84 reference parameters.
	Wgs84
	// AzimuthalEquidistant projects the sphere onto a plane centered at the
	// north pole; straight lines in the plane are geodesics from the pole.
	AzimuthalEquidistant
	// FlatDistorted treats the Earth as flat with a small-angle lat/lon
	// update per step; fast but only locally accurate.
	FlatDistorted
	// ObserverAe is an azimuthal-equidistant projection centered on the
	// observer rather than the pole, keeping the planar radius small near
	// the viewpoint.
	ObserverAe
	// SimpleObserverAe is ObserverAe with ProjRadius fixed at the default
	// Spherical radius.
	SimpleObserverAe
)

// SimpleSphereRadius is the mean Earth radius used by SimpleSphere and as
// the default Spherical radius throughout the package.
const SimpleSphereRadius = 6_371_000.0

// Wgs84A and Wgs84B are the WGS84 reference ellipsoid semi-axes in meters.
const (
	Wgs84A = 6_378_137.0
	Wgs84B = 6_356_752.314245
)

// Model is an immutable Earth-shape model. It is a tagged struct rather
// than an interface so the hot ray-casting path dispatches on Kind with a
// plain switch instead of a virtual call, per the "prefer static dispatch
// for a closed set" guidance; Object (an open, user-extensible set) uses
// a real interface instead, see internal/object.
type Model struct {
	Kind Kind

	// Radius is used by Spherical; SimpleSphere ignores it and always uses
	// SimpleSphereRadius.
	Radius float64

	// A, B are the ellipsoid semi-major/semi-minor axes (Ellipsoid, Wgs84).
	A, B float64

	// ProjRadius is the tangent-plane projection radius for ObserverAe.
	ProjRadius float64

	// observer is the tangent point AsCartesian uses for ObserverAe/
	// SimpleObserverAe; it is fixed at construction by NewObserverAe/
	// NewSimpleObserverAe.
	observer Coords
}

// NewSpherical returns a Spherical model with the given radius in meters.
func NewSpherical(radius float64) Model {
	return Model{Kind: Spherical, Radius: radius}
}

// NewSimpleSphere returns a Spherical model at the mean Earth radius.
func NewSimpleSphere() Model {
	return Model{Kind: SimpleSphere, Radius: SimpleSphereRadius}
}

// NewEllipsoid returns an Ellipsoid model with semi-major axis a and
// semi-minor axis b (a must be >= b > 0).
func NewEllipsoid(a, b float64) Model {
	return Model{Kind: Ellipsoid, A: a, B: b}
}

// NewWgs84 returns the WGS84 reference ellipsoid.
func NewWgs84() Model {
	return Model{Kind: Wgs84, A: Wgs84A, B: Wgs84B}
}

// NewAzimuthalEquidistant returns the pole-centered AE projection.
func NewAzimuthalEquidistant() Model {
	return Model{Kind: AzimuthalEquidistant}
}

// NewFlatDistorted returns the small-angle flat model.
func NewFlatDistorted() Model {
	return Model{Kind: FlatDistorted}
}

// NewObserverAe returns an observer-centered AE projection with the given
// tangent-plane radius, tangent at observer.
func NewObserverAe(projRadius float64, observer Coords) Model {
	return Model{Kind: ObserverAe, ProjRadius: projRadius, observer: observer}
}

// NewSimpleObserverAe returns an ObserverAe model at the default radius.
func NewSimpleObserverAe(observer Coords) Model {
	return Model{Kind: SimpleObserverAe, ProjRadius: SimpleSphereRadius, observer: observer}
}

// ellipsoidAxes resolves the effective (a, b) for Ellipsoid/Wgs84 kinds.
func (m Model) ellipsoidAxes() (a, b float64) {
	if m.Kind == Wgs84 {
		return Wgs84A, Wgs84B
	}
	return m.A, m.B
}

// effRadius resolves the effective spherical radius for Spherical/SimpleSphere.
func (m Model) effRadius() float64 {
	if m.Kind == SimpleSphere {
		return SimpleSphereRadius
	}
	return m.Radius
}

// effProjRadius resolves the effective tangent-plane radius for the
// observer-centered AE variants.
func (m Model) effProjRadius() float64 {
	if m.Kind == SimpleObserverAe {
		return SimpleSphereRadius
	}
	return m.ProjRadius
}

// isFlatFamily reports whether the model uses the planar (north, east, up)
// basis of §4.1 instead of the geodetic local frame.
func (m Model) isFlatFamily() bool {
	switch m.Kind {
	case AzimuthalEquidistant, FlatDistorted, ObserverAe, SimpleObserverAe:
		return true
	default:
		return false
	}
}

// CurvatureRadius returns the Earth radius used by the refraction stepper's
// spherical curvature term, and whether the stepper instead drops that term
// (flat is true only for AzimuthalEquidistant and FlatDistorted; the
// observer-centered AE variants use their projection radius as a sphere).
func (m Model) CurvatureRadius() (radius float64, flat bool) {
	switch m.Kind {
	case Spherical, SimpleSphere:
		return m.effRadius(), false
	case Ellipsoid, Wgs84:
		a, b := m.ellipsoidAxes()
		return (a + b) / 2, false
	case ObserverAe, SimpleObserverAe:
		return m.effProjRadius(), false
	case AzimuthalEquidistant, FlatDistorted:
		return 0, true
	default:
		panic("earth: unknown model kind")
	}
}

// WorldDirections returns the local (north, east, up) orthonormal frame at
// (lat, lon) in degrees.
func (m Model) WorldDirections(lat, lon float64) Frame {
	if m.isFlatFamily() {
		return planarDirections(lon)
	}
	if m.Kind == Ellipsoid || m.Kind == Wgs84 {
		return geodeticDirections(lat, lon)
	}
	return sphericalDirections(lat, lon)
}

// AsCartesian maps a geographic position to a 3-vector in the model's
// embedding space.
func (m Model) AsCartesian(c Coords) mgl64.Vec3 {
	switch m.Kind {
	case Spherical, SimpleSphere:
		return sphericalToCartesian(m.effRadius()+c.Elev, c.Lat, c.Lon)
	case Ellipsoid, Wgs84:
		a, b := m.ellipsoidAxes()
		return ellipsoidToCartesian(a, b, c)
	case ObserverAe, SimpleObserverAe:
		return observerAeToCartesian(m.effProjRadius(), m.observer, c)
	case AzimuthalEquidistant, FlatDistorted:
		return flatToCartesian(c)
	default:
		panic("earth: unknown model kind")
	}
}

func planarDirections(lon float64) Frame {
	lonRad := lon * math.Pi / 180
	sinlon, coslon := math.Sin(lonRad), math.Cos(lonRad)
	return Frame{
		North: mgl64.Vec3{-coslon, -sinlon, 0},
		East:  mgl64.Vec3{-sinlon, coslon, 0},
		Up:    mgl64.Vec3{0, 0, 1},
	}
}

func flatToCartesian(c Coords) mgl64.Vec3 {
	z := c.Elev
	r := (90.0 - c.Lat) * degreeDistance
	lonRad := c.Lon * math.Pi / 180
	return mgl64.Vec3{r * math.Cos(lonRad), r * math.Sin(lonRad), z}
}

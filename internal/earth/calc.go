package earth

// DirectionalCalc advances along a fixed-azimuth path from a captured
// starting point, returning the (lat, lon) reached after distance d
// meters. A ray's direction is resolved once into a DirectionalCalc, then
// queried repeatedly as the ray steps forward, so precomputing the start
// position and direction once is what makes the per-step query cheap.
type DirectionalCalc interface {
	CoordsAtDist(d float64) (lat, lon float64)
}

func (c sphericalCalc) CoordsAtDist(d float64) (lat, lon float64)       { return c.coordsAtDist(d) }
func (c vincentyCalc) CoordsAtDist(d float64) (lat, lon float64)        { return c.coordsAtDist(d) }
func (c aeCalc) CoordsAtDist(d float64) (lat, lon float64)              { return c.coordsAtDist(d) }
func (c flatDistortedCalc) CoordsAtDist(d float64) (lat, lon float64)   { return c.coordsAtDist(d) }

// CoordsAtDistCalc builds the DirectionalCalc for a ray leaving start at
// azimuthDeg (degrees clockwise from north), dispatched on Kind with a
// plain switch since EarthModel is a closed set.
func (m Model) CoordsAtDistCalc(start Coords, azimuthDeg float64) DirectionalCalc {
	switch m.Kind {
	case Spherical, SimpleSphere:
		return newSphericalCalc(m.effRadius(), start, azimuthDeg)
	case Ellipsoid, Wgs84:
		a, b := m.ellipsoidAxes()
		return newVincentyCalc(a, b, start, azimuthDeg)
	case AzimuthalEquidistant:
		return newAeCalc(start, azimuthDeg)
	case FlatDistorted:
		return newFlatDistortedCalc(start, azimuthDeg)
	case ObserverAe, SimpleObserverAe:
		return newObserverAeCalc(m.effProjRadius(), start, azimuthDeg)
	default:
		panic("earth: unknown model kind")
	}
}

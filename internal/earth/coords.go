// Package earth implements the coordinate and Earth-shape models used to
// cast rays over the planet's surface: conversions between geographic and
// Cartesian coordinates, local (north, east, up) frames, and geodesic
// "advance by distance" steppers for each supported shape.
package earth

import "github.com/go-gl/mathgl/mgl64"

// Coords is a geographic position: latitude and longitude in degrees,
// elevation in meters above the model's reference surface.
type Coords struct {
	Lat  float64 // degrees, [-90, 90]
	Lon  float64 // degrees, (-180, 180]
	Elev float64 // meters
}

// Frame is an orthonormal (north, east, up) triple at a point, oriented so
// that East × North = Up (right-handed in east, north, up order).
type Frame struct {
	North mgl64.Vec3
	East  mgl64.Vec3
	Up    mgl64.Vec3
}

// degreeDistance is the meters-per-degree constant the flat models use,
// derived from a 10,000km quarter-meridian the way the original tool
// defines it for its planar projections.
const degreeDistance = 10_000_000.0 / 90.0

// flatDegreeDistance is the simpler constant the small-angle flat-distorted
// stepper uses (ground: generator/generators/utils.rs DEGREE_DISTANCE).
const flatDegreeDistance = 111_111.111

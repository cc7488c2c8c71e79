package earth

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// geodeticDirections computes the standard local geodetic (north, east,
// up) frame; it is identical in form to the spherical frame because the
// geodetic normal direction depends only on (lat, lon), not on a/b.
func geodeticDirections(lat, lon float64) Frame {
	return sphericalDirections(lat, lon)
}

// ellipsoidToCartesian converts geodetic (lat, lon, elev) to Cartesian
// using the prime-vertical radius of curvature N.
//
// Converts via eccentricity e²=1-b²/a² and prime-vertical radius
// N=a/sqrt(1-e² sin²φ): ((N+h) cos φ cos λ, (N+h) cos φ sin λ, (N(1-e²)+h) sin φ).
func ellipsoidToCartesian(a, b float64, c Coords) mgl64.Vec3 {
	e2 := 1 - (b*b)/(a*a)
	latRad := c.Lat * math.Pi / 180
	lonRad := c.Lon * math.Pi / 180
	sinlat, coslat := math.Sin(latRad), math.Cos(latRad)

	n := a / math.Sqrt(1-e2*sinlat*sinlat)

	return mgl64.Vec3{
		(n + c.Elev) * coslat * math.Cos(lonRad),
		(n + c.Elev) * coslat * math.Sin(lonRad),
		(n*(1-e2) + c.Elev) * sinlat,
	}
}

// vincentyMaxIter bounds the direct-geodesic sigma iteration; convergence
// to 1e-10 radians (~0.1mm) in practice takes well under 20 iterations
// even at antipodal distances.
const vincentyMaxIter = 200

// vincentyCalc is the DirectionalCalc for Ellipsoid/Wgs84: a Vincenty
// direct geodesic solver per the standard NGS formulation.
type vincentyCalc struct {
	a, b, f   float64
	lat1, lon1 float64 // radians
	sinU1, cosU1 float64
	sinAlpha1, cosAlpha1 float64
	sigma1 float64
	sinAlpha, cosSqAlpha float64
	u2, bigA, bigB float64
}

func newVincentyCalc(a, b float64, start Coords, azimuthDeg float64) vincentyCalc {
	f := (a - b) / a
	lat1 := start.Lat * math.Pi / 180
	lon1 := start.Lon * math.Pi / 180
	alpha1 := azimuthDeg * math.Pi / 180

	u1 := math.Atan((1 - f) * math.Tan(lat1))
	sinU1, cosU1 := math.Sin(u1), math.Cos(u1)
	sinAlpha1, cosAlpha1 := math.Sin(alpha1), math.Cos(alpha1)

	sigma1 := math.Atan2(math.Tan(u1), cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha

	bSq := b * b
	u2 := cosSqAlpha * (a*a - bSq) / bSq

	bigA := 1 + u2/16384*(4096+u2*(-768+u2*(320-175*u2)))
	bigB := u2 / 1024 * (256 + u2*(-128+u2*(74-47*u2)))

	return vincentyCalc{
		a: a, b: b, f: f,
		lat1: lat1, lon1: lon1,
		sinU1: sinU1, cosU1: cosU1,
		sinAlpha1: sinAlpha1, cosAlpha1: cosAlpha1,
		sigma1:     sigma1,
		sinAlpha:   sinAlpha,
		cosSqAlpha: cosSqAlpha,
		u2:         u2,
		bigA:       bigA,
		bigB:       bigB,
	}
}

func (v vincentyCalc) coordsAtDist(d float64) (lat, lon float64) {
	sigma := d / (v.b * v.bigA)
	sigmaP := 2 * math.Pi
	var cos2SigmaM, sinSigma, cosSigma float64

	for i := 0; i < vincentyMaxIter && math.Abs(sigma-sigmaP) > 1e-10; i++ {
		cos2SigmaM = math.Cos(2*v.sigma1 + sigma)
		sinSigma = math.Sin(sigma)
		cosSigma = math.Cos(sigma)
		deltaSigma := v.bigB * sinSigma * (cos2SigmaM + v.bigB/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			v.bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		sigmaP = sigma
		sigma = d/(v.b*v.bigA) + deltaSigma
	}

	sinSigma = math.Sin(sigma)
	cosSigma = math.Cos(sigma)
	cos2SigmaM = math.Cos(2*v.sigma1 + sigma)

	tmp := v.sinU1*sinSigma - v.cosU1*cosSigma*v.cosAlpha1
	lat2 := math.Atan2(
		v.sinU1*cosSigma+v.cosU1*sinSigma*v.cosAlpha1,
		(1-v.f)*math.Sqrt(v.sinAlpha*v.sinAlpha+tmp*tmp),
	)
	lambda := math.Atan2(
		sinSigma*v.sinAlpha1,
		v.cosU1*cosSigma-v.sinU1*sinSigma*v.cosAlpha1,
	)

	c := v.f / 16 * v.cosSqAlpha * (4 + v.f*(4-3*v.cosSqAlpha))
	l := lambda - (1-c)*v.f*v.sinAlpha*
		(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	lon2 := v.lon1 + l

	return lat2 * 180 / math.Pi, lon2 * 180 / math.Pi
}

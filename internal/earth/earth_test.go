package earth

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// mmInDegreesLat bounds how many degrees of latitude error correspond
// to 1mm, used to scale angular tolerances in the round-trip checks below.
const mmInDegreesLat = 1e-3 / 111_320.0

// bearingDeg is the initial great-circle bearing (degrees clockwise from
// north) from (lat1, lon1) to (lat2, lon2).
func bearingDeg(lat1, lon1, lat2, lon2 float64) float64 {
	p1, p2 := lat1*math.Pi/180, lat2*math.Pi/180
	dl := (lon2 - lon1) * math.Pi / 180
	y := math.Sin(dl) * math.Cos(p2)
	x := math.Cos(p1)*math.Sin(p2) - math.Sin(p1)*math.Cos(p2)*math.Cos(dl)
	return math.Atan2(y, x) * 180 / math.Pi
}

func TestSphericalRoundTripAtZeroDistance(t *testing.T) {
	m := NewSpherical(SimpleSphereRadius)
	start := Coords{Lat: 37.5, Lon: -122.3}
	calc := m.CoordsAtDistCalc(start, 47.0)

	lat, lon := calc.CoordsAtDist(0)
	if !almostEqual(lat, start.Lat, mmInDegreesLat) {
		t.Errorf("lat at d=0: got %v want %v", lat, start.Lat)
	}
	if !almostEqual(lon, start.Lon, mmInDegreesLat) {
		t.Errorf("lon at d=0: got %v want %v", lon, start.Lon)
	}
}

func TestSphericalRoundTripUnderOneThousandKm(t *testing.T) {
	m := NewSpherical(SimpleSphereRadius)
	start := Coords{Lat: 10.0, Lon: 5.0}
	for _, az := range []float64{0, 45, 90, 135, 180, 225, 270, 315} {
		calc := m.CoordsAtDistCalc(start, az)
		lat1, lon1 := calc.CoordsAtDist(500_000)

		// Walking forward, then back along the great-circle bearing from the
		// landing point to the start, should land within 1cm of the start,
		// since the great-circle path is reversible.
		back := m.CoordsAtDistCalc(Coords{Lat: lat1, Lon: lon1}, bearingDeg(lat1, lon1, start.Lat, start.Lon))
		lat2, lon2 := back.CoordsAtDist(500_000)

		if !almostEqual(lat2, start.Lat, mmInDegreesLat*10) {
			t.Errorf("az=%v: round-trip lat got %v want %v", az, lat2, start.Lat)
		}
		if !almostEqual(lon2, start.Lon, mmInDegreesLat*10) {
			t.Errorf("az=%v: round-trip lon got %v want %v", az, lon2, start.Lon)
		}
	}
}

func TestWgs84AgreesWithSphericalNearEquator(t *testing.T) {
	// Near the equator the WGS84 ellipsoid and a sphere of the equatorial
	// radius nearly coincide; this is a sanity check, not a tight bound.
	sphere := NewSpherical(Wgs84A)
	ellip := NewWgs84()
	start := Coords{Lat: 0, Lon: 0}

	sc := sphere.CoordsAtDistCalc(start, 90)
	ec := ellip.CoordsAtDistCalc(start, 90)

	_, slon := sc.CoordsAtDist(100_000)
	_, elon := ec.CoordsAtDist(100_000)

	if !almostEqual(slon, elon, 0.01) {
		t.Errorf("equatorial eastward step: sphere lon %v vs ellipsoid lon %v diverged too far", slon, elon)
	}
}

func TestWgs84ConvergesAtOrigin(t *testing.T) {
	m := NewWgs84()
	start := Coords{Lat: 51.5, Lon: -0.1}
	calc := m.CoordsAtDistCalc(start, 33.0)
	lat, lon := calc.CoordsAtDist(0)
	if !almostEqual(lat, start.Lat, mmInDegreesLat) || !almostEqual(lon, start.Lon, mmInDegreesLat) {
		t.Errorf("d=0 should return start unchanged, got (%v, %v)", lat, lon)
	}
}

func TestWorldDirectionsOrthonormalAwayFromPoles(t *testing.T) {
	models := []Model{
		NewSpherical(SimpleSphereRadius),
		NewWgs84(),
		NewAzimuthalEquidistant(),
		NewFlatDistorted(),
	}
	lats := []float64{-60, -30, 0, 30, 60, 89}
	lons := []float64{-170, -45, 0, 45, 170}

	for _, m := range models {
		for _, lat := range lats {
			for _, lon := range lons {
				f := m.WorldDirections(lat, lon)
				if math.Abs(f.North.Len()-1) > 1e-9 {
					t.Fatalf("%v: North not unit at (%v,%v): len=%v", m.Kind, lat, lon, f.North.Len())
				}
				if math.Abs(f.East.Len()-1) > 1e-9 {
					t.Fatalf("%v: East not unit at (%v,%v): len=%v", m.Kind, lat, lon, f.East.Len())
				}
				if math.Abs(f.Up.Len()-1) > 1e-9 {
					t.Fatalf("%v: Up not unit at (%v,%v): len=%v", m.Kind, lat, lon, f.Up.Len())
				}
				cross := f.East.Cross(f.North)
				if d := cross.Dot(f.Up); math.Abs(d-1) > 1e-6 {
					t.Fatalf("%v: East x North != Up at (%v,%v): dot=%v", m.Kind, lat, lon, d)
				}
			}
		}
	}
}

func TestObserverAeMatchesSphericalAtSameRadius(t *testing.T) {
	observer := Coords{Lat: 40.0, Lon: -75.0}
	m := NewObserverAe(SimpleSphereRadius, observer)
	plain := NewSpherical(SimpleSphereRadius)

	calcObs := m.CoordsAtDistCalc(observer, 60.0)
	calcPlain := plain.CoordsAtDistCalc(observer, 60.0)

	for _, d := range []float64{0, 1000, 50_000, 400_000} {
		latO, lonO := calcObs.CoordsAtDist(d)
		latP, lonP := calcPlain.CoordsAtDist(d)
		if !almostEqual(latO, latP, 1e-9) || !almostEqual(lonO, lonP, 1e-9) {
			t.Errorf("d=%v: observer-AE (%v,%v) vs spherical (%v,%v)", d, latO, lonO, latP, lonP)
		}
	}
}

func TestSimpleSphereIgnoresRadiusField(t *testing.T) {
	m := Model{Kind: SimpleSphere, Radius: 1.0}
	if m.effRadius() != SimpleSphereRadius {
		t.Errorf("SimpleSphere must always use the fixed mean radius, got %v", m.effRadius())
	}
}

func TestFlatDistortedSmallStepStaysNearStart(t *testing.T) {
	m := NewFlatDistorted()
	start := Coords{Lat: 45, Lon: 45}
	calc := m.CoordsAtDistCalc(start, 90)
	lat, lon := calc.CoordsAtDist(100)
	if math.Abs(lat-start.Lat) > 0.01 || math.Abs(lon-start.Lon) > 0.01 {
		t.Errorf("100m step should stay within 0.01 degrees, got (%v,%v) from (%v,%v)", lat, lon, start.Lat, start.Lon)
	}
}

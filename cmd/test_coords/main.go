// Command test_coords is a manual diagnostic that exercises the coordinate
// conversions and directional calculators of internal/earth against a
// table of named positions, printing the results for spot-checking
// rather than asserting (see internal/earth's _test.go files for the
// asserting equivalents).
package main

import (
	"fmt"

	"refractor/internal/earth"
)

func main() {
	fmt.Println("=== Coordinate system test ===")
	fmt.Println()

	fmt.Println("Test 1: geographic to Cartesian (Spherical)")
	model := earth.NewSpherical(6371000)
	positions := []struct {
		name     string
		lat, lon float64
	}{
		{"North Pole", 90, 0},
		{"South Pole", -90, 0},
		{"Equator 0", 0, 0},
		{"Equator 90E", 0, 90},
		{"45N 45E", 45, 45},
	}
	for _, pos := range positions {
		c := earth.Coords{Lat: pos.lat, Lon: pos.lon}
		cart := model.AsCartesian(c)
		fmt.Printf("%s (%.0f, %.0f): Cartesian=(%.0f, %.0f, %.0f)\n",
			pos.name, pos.lat, pos.lon, cart[0], cart[1], cart[2])
	}
	fmt.Println()

	fmt.Println("Test 2: world directions are orthonormal away from the poles")
	for _, pos := range positions {
		if pos.name == "North Pole" || pos.name == "South Pole" {
			continue
		}
		frame := model.WorldDirections(pos.lat, pos.lon)
		fmt.Printf("%s: North.Up=%.4f East.Up=%.4f North.East=%.4f\n",
			pos.name, frame.North.Dot(frame.Up), frame.East.Dot(frame.Up), frame.North.Dot(frame.East))
	}
	fmt.Println()

	fmt.Println("Test 3: DirectionalCalc distance walk, every EarthModel variant")
	variants := []struct {
		name  string
		model earth.Model
	}{
		{"SimpleSphere", earth.NewSimpleSphere()},
		{"Spherical", earth.NewSpherical(6371000)},
		{"Ellipsoid", earth.NewEllipsoid(earth.Wgs84A, earth.Wgs84B)},
		{"Wgs84", earth.NewWgs84()},
		{"AzimuthalEquidistant", earth.NewAzimuthalEquidistant()},
		{"FlatDistorted", earth.NewFlatDistorted()},
		{"ObserverAe", earth.NewObserverAe(6371000, earth.Coords{})},
		{"SimpleObserverAe", earth.NewSimpleObserverAe(earth.Coords{})},
	}
	start := earth.Coords{Lat: 0, Lon: 0}
	for _, v := range variants {
		calc := v.model.CoordsAtDistCalc(start, 90)
		lat, lon := calc.CoordsAtDist(100_000)
		fmt.Printf("%-22s azimuth=90 d=100km -> (%.5f, %.5f)\n", v.name, lat, lon)
	}
}

// Package atmosphere provides the atmospheric refractive-index profile and
// the refracted ray stepper that integrates a light ray's altitude along a
// chosen Earth shape.
package atmosphere

import "math"

// Profile is a pure function of altitude: temperature, pressure, and the
// derived refractive index of air. It is treated as an external collaborator
// per its contract; callers only ever need temperature(alt), pressure(alt)
// and RefractiveIndex(alt); this file supplies one concrete International
// Standard Atmosphere-style implementation of that contract.
type Profile struct {
	// SeaLevelTemp is the temperature at h=0 in Kelvin.
	SeaLevelTemp float64
	// SeaLevelPressure is the pressure at h=0 in hPa.
	SeaLevelPressure float64
	// LapseRate is the troposphere temperature lapse rate in K/m (positive,
	// temperature decreases with altitude).
	LapseRate float64
}

// DefaultProfile is the ICAO standard atmosphere at sea level.
func DefaultProfile() Profile {
	return Profile{
		SeaLevelTemp:     288.15,
		SeaLevelPressure: 1013.25,
		LapseRate:        0.0065,
	}
}

// tropopauseAlt is where the standard lapse rate stops applying; above it
// temperature is held constant, matching the ICAO model's isothermal layer.
const tropopauseAlt = 11_000.0

// Temperature returns the temperature in Kelvin at altitude alt meters.
func (p Profile) Temperature(alt float64) float64 {
	if alt > tropopauseAlt {
		alt = tropopauseAlt
	}
	return p.SeaLevelTemp - p.LapseRate*alt
}

// Pressure returns the pressure in hPa at altitude alt meters, using the
// barometric formula for the lapse-rate layer.
func (p Profile) Pressure(alt float64) float64 {
	const (
		g = 9.80665 // m/s^2
		m = 0.0289644 // kg/mol, molar mass of dry air
		r = 8.3144598 // J/(mol*K)
	)
	clamped := alt
	if clamped > tropopauseAlt {
		clamped = tropopauseAlt
	}
	base := p.SeaLevelPressure * math.Pow(1-p.LapseRate*clamped/p.SeaLevelTemp, g*m/(r*p.LapseRate))
	if alt <= tropopauseAlt {
		return base
	}
	// isothermal layer above 11km: exponential decay instead of the power law.
	tTropo := p.Temperature(tropopauseAlt)
	return base * math.Exp(-g*m*(alt-tropopauseAlt)/(r*tTropo))
}

// refractivityConstant is the Smith-Weintraub coefficient (N-units) relating
// dry-air pressure in hPa and temperature in Kelvin to refractivity.
const refractivityConstant = 77.6e-6

// RefractiveIndex returns n(alt) >= 1, the refractive index of air at
// altitude alt meters.
func (p Profile) RefractiveIndex(alt float64) float64 {
	t := p.Temperature(alt)
	pr := p.Pressure(alt)
	return 1 + refractivityConstant*pr/t
}

// dnDh approximates dn/dh by central difference; refractionCurvature uses it
// to drive the ray-bending term of the stepper's ODE.
func (p Profile) dnDh(alt float64) float64 {
	const eps = 1.0
	return (p.RefractiveIndex(alt+eps) - p.RefractiveIndex(alt-eps)) / (2 * eps)
}

package atmosphere

import "math"

// RayState is one sample along a refracted ray: x is arc-length along the
// Earth-surface projection from the viewpoint, H is absolute altitude, Dh is
// dh/dx at that point.
type RayState struct {
	X, H, Dh float64
}

// defaultStepSize matches the ray_step default in the retained CLI tooling
// (50 meters).
const defaultStepSize = 50.0

// RayStepper is an infinite lazy sequence of RayState produced by a
// fixed-step integrator; termination (cutoff distance, or H below the
// tracing floor) is the caller's responsibility, not the stepper's.
type RayStepper struct {
	curvature func(h float64) float64
	step      float64
	state     RayState
}

// SetStepSize changes Δ for all subsequent steps.
func (s *RayStepper) SetStepSize(step float64) {
	s.step = step
}

// Next returns the current state, then advances one Δ step for the
// following call. The first call returns the synthetic zeroth element
// (x=0, h=h0, dh=tan(elev)).
func (s *RayStepper) Next() RayState {
	cur := s.state
	h2, dh2 := rk4Step(s.state.H, s.state.Dh, s.step, s.curvature)
	s.state = RayState{X: s.state.X + s.step, H: h2, Dh: dh2}
	return cur
}

// rk4Step integrates the system dh/dx = dh, d(dh)/dx = curvature(h) forward
// by step using classical 4th-order Runge-Kutta.
func rk4Step(h, dh, step float64, curvature func(h float64) float64) (h2, dh2 float64) {
	type deriv struct{ dh, ddh float64 }
	f := func(h, dh float64) deriv { return deriv{dh: dh, ddh: curvature(h)} }

	k1 := f(h, dh)
	k2 := f(h+step/2*k1.dh, dh+step/2*k1.ddh)
	k3 := f(h+step/2*k2.dh, dh+step/2*k2.ddh)
	k4 := f(h+step*k3.dh, dh+step*k3.ddh)

	h2 = h + step/6*(k1.dh+2*k2.dh+2*k3.dh+k4.dh)
	dh2 = dh + step/6*(k1.ddh+2*k2.ddh+2*k3.ddh+k4.ddh)
	return h2, dh2
}

// Environment binds an Earth shape (via its curvature radius, not its full
// coordinate model) to an atmospheric profile, producing ray steppers.
type Environment struct {
	CurvatureRadius float64
	Flat            bool
	Profile         Profile
}

// CastRayStepper builds a RayStepper starting at altitude h0 with initial
// elevation angle elevRad (radians above the local horizontal). When
// straight is true the ray travels in a straight line in the projection
// plane; otherwise it integrates the refraction ODE derived from the
// profile's refractive-index gradient, adding the Earth-curvature term
// (-1/R) when the shape is not flat. Without it, a perfectly straight ray
// over a round Earth would appear to climb relative to the curved ground.
func (e Environment) CastRayStepper(h0, elevRad float64, straight bool) *RayStepper {
	var curvature func(h float64) float64
	switch {
	case straight:
		curvature = func(float64) float64 { return 0 }
	case e.Flat:
		curvature = func(h float64) float64 {
			n := e.Profile.RefractiveIndex(h)
			return -e.Profile.dnDh(h) / n
		}
	default:
		r := e.CurvatureRadius
		curvature = func(h float64) float64 {
			n := e.Profile.RefractiveIndex(h)
			return -e.Profile.dnDh(h)/n - 1/r
		}
	}

	return &RayStepper{
		curvature: curvature,
		step:      defaultStepSize,
		state:     RayState{X: 0, H: h0, Dh: math.Tan(elevRad)},
	}
}

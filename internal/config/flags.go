package config

import "flag"

// Overrides holds the handful of CLI flags that override YAML config
// fields, the same small surface original_source/src/params.rs's
// parse_config exposes (position, frame, output size, terrain folder,
// step), wired with the stdlib flag package.
type Overrides struct {
	Latitude  *float64
	Longitude *float64
	Altitude  *float64
	Direction *float64
	Tilt      *float64
	Fov       *float64
	Width     *int
	Height    *int
	Terrain   *string
	Step      *float64
}

// RegisterFlags declares the override flags on fs and returns the bound
// pointers. Call after fs.Parse to read the values.
func RegisterFlags(fs *flag.FlagSet) Overrides {
	return Overrides{
		Latitude:  fs.Float64("lat", 0, "Observer latitude in degrees (overrides config)"),
		Longitude: fs.Float64("lon", 0, "Observer longitude in degrees (overrides config)"),
		Altitude:  fs.Float64("alt", 0, "Observer altitude in meters (overrides config)"),
		Direction: fs.Float64("direction", 0, "View direction in degrees (overrides config)"),
		Tilt:      fs.Float64("tilt", 0, "View tilt in degrees (overrides config)"),
		Fov:       fs.Float64("fov", 0, "Field of view in degrees (overrides config)"),
		Width:     fs.Int("width", 0, "Output width in pixels (overrides config)"),
		Height:    fs.Int("height", 0, "Output height in pixels (overrides config)"),
		Terrain:   fs.String("terrain", "", "Terrain folder (overrides config)"),
		Step:      fs.Float64("step", 0, "Simulation step in meters (overrides config)"),
	}
}

// Apply layers non-zero flag values over p. Flags use the zero value as
// "not set", matching the CLI's observable behavior (a flag explicitly set
// to 0 is indistinguishable from unset), an accepted limitation of this
// thin override layer, since the config file is the source of truth for
// precise zero values.
func (o Overrides) Apply(p Params) Params {
	if o.Latitude != nil && *o.Latitude != 0 {
		p.Position.Latitude = *o.Latitude
	}
	if o.Longitude != nil && *o.Longitude != 0 {
		p.Position.Longitude = *o.Longitude
	}
	if o.Altitude != nil && *o.Altitude != 0 {
		p.Position.Altitude = Altitude{Kind: AltitudeAbsolute, Value: *o.Altitude}
	}
	if o.Direction != nil && *o.Direction != 0 {
		p.Frame.Direction = *o.Direction
	}
	if o.Tilt != nil && *o.Tilt != 0 {
		p.Frame.Tilt = *o.Tilt
	}
	if o.Fov != nil && *o.Fov != 0 {
		p.Frame.Fov = *o.Fov
	}
	if o.Width != nil && *o.Width != 0 {
		p.Output.Width = *o.Width
	}
	if o.Height != nil && *o.Height != 0 {
		p.Output.Height = *o.Height
	}
	if o.Terrain != nil && *o.Terrain != "" {
		p.TerrainFolder = *o.Terrain
	}
	if o.Step != nil && *o.Step != 0 {
		p.SimulationStep = *o.Step
	}
	return p
}

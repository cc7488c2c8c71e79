// Package config loads the YAML scene/view/atmosphere/output configuration
// and resolves it, together with CLI flag overrides, into the Params the
// renderer consumes.
//
// Ground: original_source/src/params.rs's Conf*/into_* "optional field with
// default" pattern, carried over from clap+serde into Go's yaml.v3 +
// pointer-field idiom.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"refractor/internal/earth"
)

// AltitudeKind distinguishes an absolute altitude from one relative to the
// terrain elevation under the point.
type AltitudeKind int

const (
	AltitudeAbsolute AltitudeKind = iota
	AltitudeRelative
)

// Altitude is either a fixed meters-above-sea-level value or an offset
// above the terrain at its position, resolved once terrain is available.
type Altitude struct {
	Kind  AltitudeKind
	Value float64
}

// Resolve returns the absolute altitude, adding terrainElev when relative.
func (a Altitude) Resolve(terrainElev float64) float64 {
	if a.Kind == AltitudeAbsolute {
		return a.Value
	}
	return terrainElev + a.Value
}

// Position is a resolved observer or object position.
type Position struct {
	Latitude, Longitude float64
	Altitude            Altitude
}

// confPosition mirrors Position with every field optional, for YAML
// unmarshalling; into fills in the documented defaults.
type confPosition struct {
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
	Altitude  *float64 `yaml:"altitude"`
	Relative  *bool    `yaml:"relative"`
}

func (c confPosition) into() Position {
	p := Position{Altitude: Altitude{Kind: AltitudeRelative, Value: 1.0}}
	if c.Latitude != nil {
		p.Latitude = *c.Latitude
	}
	if c.Longitude != nil {
		p.Longitude = *c.Longitude
	}
	if c.Altitude != nil {
		kind := AltitudeRelative
		if c.Relative != nil && !*c.Relative {
			kind = AltitudeAbsolute
		}
		p.Altitude = Altitude{Kind: kind, Value: *c.Altitude}
	}
	return p
}

// Frame is the resolved view frame: direction/tilt in degrees, fov in
// degrees, max_distance in meters.
type Frame struct {
	Direction, Tilt, Fov, MaxDistance float64
}

type confFrame struct {
	Direction   *float64 `yaml:"direction"`
	Tilt        *float64 `yaml:"tilt"`
	Fov         *float64 `yaml:"fov"`
	MaxDistance *float64 `yaml:"max_distance"`
}

func (c confFrame) into() Frame {
	f := Frame{Direction: 0, Tilt: 0, Fov: 30, MaxDistance: 150_000}
	if c.Direction != nil {
		f.Direction = *c.Direction
	}
	if c.Tilt != nil {
		f.Tilt = *c.Tilt
	}
	if c.Fov != nil {
		f.Fov = *c.Fov
	}
	if c.MaxDistance != nil {
		f.MaxDistance = *c.MaxDistance
	}
	return f
}

// Generator selects which scheduling strategy renders the image.
type Generator int

const (
	// GeneratorFast exploits camera separability (internal/generator's
	// FastGenerator).
	GeneratorFast Generator = iota
	// GeneratorRectilinear walks a fresh non-separable pinhole ray per
	// pixel with no cache (internal/generator's ReferenceGenerator).
	GeneratorRectilinear
	// GeneratorInterpolatingRectilinear lazily caches and bilinearly
	// interpolates rays on a quantized (elev, dir) lattice (internal/
	// generator's RectilinearGenerator).
	GeneratorInterpolatingRectilinear
)

// Output is the resolved output image configuration.
type Output struct {
	File      string
	Width     int
	Height    int
	Generator Generator
}

type confOutput struct {
	File      *string `yaml:"file"`
	Width     *int    `yaml:"width"`
	Height    *int    `yaml:"height"`
	Generator *string `yaml:"generator"`
}

func (c confOutput) into() Output {
	o := Output{File: "./output.png", Width: 640, Height: 480, Generator: GeneratorFast}
	if c.File != nil {
		o.File = *c.File
	}
	if c.Width != nil {
		o.Width = *c.Width
	}
	if c.Height != nil {
		o.Height = *c.Height
	}
	if c.Generator != nil {
		switch *c.Generator {
		case "Rectilinear":
			o.Generator = GeneratorRectilinear
		case "InterpolatingRectilinear":
			o.Generator = GeneratorInterpolatingRectilinear
		default:
			o.Generator = GeneratorFast
		}
	}
	return o
}

// confEarthShape mirrors earth.Kind for YAML, since the kind tag and its
// parameters don't map onto a single scalar.
type confEarthShape struct {
	Kind       string   `yaml:"kind"`
	Radius     *float64 `yaml:"radius"`
	A          *float64 `yaml:"a"`
	B          *float64 `yaml:"b"`
	ProjRadius *float64 `yaml:"proj_radius"`
}

func (c *confEarthShape) into() earth.Model {
	if c == nil {
		return earth.NewSpherical(earth.SimpleSphereRadius)
	}
	switch c.Kind {
	case "simple_sphere", "":
		return earth.NewSimpleSphere()
	case "spherical":
		r := earth.SimpleSphereRadius
		if c.Radius != nil {
			r = *c.Radius
		}
		return earth.NewSpherical(r)
	case "ellipsoid":
		a, b := earth.Wgs84A, earth.Wgs84B
		if c.A != nil {
			a = *c.A
		}
		if c.B != nil {
			b = *c.B
		}
		return earth.NewEllipsoid(a, b)
	case "wgs84":
		return earth.NewWgs84()
	case "azimuthal_equidistant":
		return earth.NewAzimuthalEquidistant()
	case "flat_distorted":
		return earth.NewFlatDistorted()
	case "observer_ae":
		r := earth.SimpleSphereRadius
		if c.ProjRadius != nil {
			r = *c.ProjRadius
		}
		return earth.NewObserverAe(r, earth.Coords{})
	case "simple_observer_ae":
		return earth.NewSimpleObserverAe(earth.Coords{})
	default:
		return earth.NewSimpleSphere()
	}
}

// AtmosphereConfig carries the standard-atmosphere parameters a Profile
// needs; all optional with the ICAO defaults.
type AtmosphereConfig struct {
	SeaLevelTemp     *float64 `yaml:"sea_level_temp"`
	SeaLevelPressure *float64 `yaml:"sea_level_pressure"`
	LapseRate        *float64 `yaml:"lapse_rate"`
}

// Config is the raw, partially-optional YAML document.
type Config struct {
	TerrainFolder  *string          `yaml:"terrain_folder"`
	Objects        []ObjectConfig   `yaml:"objects"`
	Position       *confPosition    `yaml:"position"`
	Frame          *confFrame       `yaml:"frame"`
	Atmosphere     AtmosphereConfig `yaml:"atmosphere"`
	EarthShape     *confEarthShape  `yaml:"earth_shape"`
	StraightRays   *bool            `yaml:"straight_rays"`
	SimulationStep *float64         `yaml:"simulation_step"`
	TerrainAlpha   *float64         `yaml:"terrain_alpha"`
	Output         *confOutput      `yaml:"output"`
}

// ObjectConfig describes one scene object before terrain resolution; see
// internal/render for how it is turned into an object.Object.
type ObjectConfig struct {
	Kind        string       `yaml:"kind"` // "frustum" or "billboard"
	Position    confPosition `yaml:"position"`
	Radius1     float64      `yaml:"radius1"`
	Radius2     float64      `yaml:"radius2"`
	Height      float64      `yaml:"height"`
	Width       float64      `yaml:"width"`
	TexturePath string       `yaml:"texture_path"`
	Color       [4]float64   `yaml:"color"`
}

// ResolvePosition applies the same defaults Position.into applies to the
// observer's position to this object's position.
func (c ObjectConfig) ResolvePosition() Position {
	return c.Position.into()
}

// Load reads and parses a YAML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Params is the fully-resolved configuration the renderer consumes: every
// optional field has its default applied, and EarthShape has been built.
type Params struct {
	TerrainFolder  string
	Objects        []ObjectConfig
	Position       Position
	Frame          Frame
	Atmosphere     AtmosphereConfig
	EarthShape     earth.Model
	StraightRays   bool
	SimulationStep float64
	TerrainAlpha   float64
	Output         Output
}

// Resolve applies the documented defaults to every optional field.
func (c Config) Resolve() Params {
	p := Params{
		TerrainFolder:  "./terrain",
		Objects:        c.Objects,
		Position:       Position{Altitude: Altitude{Kind: AltitudeRelative, Value: 1.0}},
		Frame:          Frame{Direction: 0, Tilt: 0, Fov: 30, MaxDistance: 150_000},
		Atmosphere:     c.Atmosphere,
		EarthShape:     c.EarthShape.into(),
		StraightRays:   false,
		SimulationStep: 50,
		TerrainAlpha:   1.0,
		Output:         Output{File: "./output.png", Width: 640, Height: 480},
	}
	if c.TerrainFolder != nil {
		p.TerrainFolder = *c.TerrainFolder
	}
	if c.Position != nil {
		p.Position = c.Position.into()
	}
	if c.Frame != nil {
		p.Frame = c.Frame.into()
	}
	if c.StraightRays != nil {
		p.StraightRays = *c.StraightRays
	}
	if c.SimulationStep != nil {
		p.SimulationStep = *c.SimulationStep
	}
	if c.TerrainAlpha != nil {
		p.TerrainAlpha = *c.TerrainAlpha
	}
	if c.Output != nil {
		p.Output = c.Output.into()
	}
	return p
}

package autolink

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/autolink/internal/core/observability/tracing"
	"github.com/zeusync/autolink/internal/core/world"
)

// Config holds every tunable of the engine. Distances are world units.
type Config struct {
	Belt      BeltConfig      `yaml:"belt"`
	Track     TrackConfig     `yaml:"track"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Hyper     HyperConfig     `yaml:"hyper"`
	Alignment AlignmentConfig `yaml:"alignment"`

	World    world.Config   `yaml:"world"`
	Tracing  tracing.Config `yaml:"tracing"`
	LogLevel string         `yaml:"log_level"`
}

type BeltConfig struct {
	Enabled bool `yaml:"enabled"`
	// BeltProbeLength is used when the home connector sits on a belt
	// segment; belts must be virtually touching.
	BeltProbeLength float64 `yaml:"belt_probe_length"`
	// LiftProbeLength covers two facing lifts with fully extended bellows.
	LiftProbeLength float64 `yaml:"lift_probe_length"`
	// DefaultProbeLength covers one extended lift facing a static building.
	DefaultProbeLength float64 `yaml:"default_probe_length"`
	// LiftMinDistance keeps lift bellows from interpenetrating.
	LiftMinDistance float64 `yaml:"lift_min_distance"`
}

type TrackConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"`
	// VerticalOffset lifts the probe center above the connector; track
	// bodies sit below their connector point.
	VerticalOffset float64 `yaml:"vertical_offset"`
	MaxDistanceSq  float64 `yaml:"max_distance_sq"`
}

type FluidConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Radius        float64 `yaml:"radius"`
	MaxDistanceSq float64 `yaml:"max_distance_sq"`
}

type HyperConfig struct {
	Enabled       bool    `yaml:"enabled"`
	ProbeLength   float64 `yaml:"probe_length"`
	MaxDistanceSq float64 `yaml:"max_distance_sq"`
}

type AlignmentConfig struct {
	// CollinearTolerance bounds each component of the cross product of two
	// normals for them to count as collinear.
	CollinearTolerance float64 `yaml:"collinear_tolerance"`
	// TrackVerticalTolerance replaces CollinearTolerance on the vertical
	// component for track connectors, which may sit on curves.
	TrackVerticalTolerance float64 `yaml:"track_vertical_tolerance"`
}

func DefaultConfig() Config {
	return Config{
		Belt: BeltConfig{
			Enabled:            true,
			BeltProbeLength:    10,
			LiftProbeLength:    610,
			DefaultProbeLength: 310,
			LiftMinDistance:    100,
		},
		Track: TrackConfig{
			Enabled:        true,
			Radius:         20,
			VerticalOffset: 10,
			MaxDistanceSq:  1,
		},
		Fluid: FluidConfig{
			Enabled:       true,
			Radius:        50,
			MaxDistanceSq: 1,
		},
		Hyper: HyperConfig{
			Enabled:       true,
			ProbeLength:   10,
			MaxDistanceSq: 1,
		},
		Alignment: AlignmentConfig{
			CollinearTolerance:     1e-3,
			TrackVerticalTolerance: 0.1,
		},
		World:    world.DefaultConfig(),
		Tracing:  tracing.DefaultConfig(),
		LogLevel: "info",
	}
}

// Validate reports the first nonsensical value.
func (c Config) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"belt.belt_probe_length", c.Belt.BeltProbeLength > 0},
		{"belt.lift_probe_length", c.Belt.LiftProbeLength > 0},
		{"belt.default_probe_length", c.Belt.DefaultProbeLength > 0},
		{"belt.lift_min_distance", c.Belt.LiftMinDistance >= 0},
		{"track.radius", c.Track.Radius > 0},
		{"track.max_distance_sq", c.Track.MaxDistanceSq >= 0},
		{"fluid.radius", c.Fluid.Radius > 0},
		{"fluid.max_distance_sq", c.Fluid.MaxDistanceSq >= 0},
		{"hyper.probe_length", c.Hyper.ProbeLength > 0},
		{"hyper.max_distance_sq", c.Hyper.MaxDistanceSq >= 0},
		{"alignment.collinear_tolerance", c.Alignment.CollinearTolerance >= 0},
		{"alignment.track_vertical_tolerance", c.Alignment.TrackVerticalTolerance >= 0},
		{"tracing.sample_ratio", c.Tracing.SampleRatio >= 0 && c.Tracing.SampleRatio <= 1},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, chk.name)
		}
	}
	return nil
}

// LoadConfig decodes YAML over DefaultConfig, so omitted keys keep their
// defaults, and validates the result.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

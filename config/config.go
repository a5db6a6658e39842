// Package config provides the confetti scene presets, loaded from embedded
// YAML defaults and optionally overridden by a user file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Emission shape names accepted in SceneConfig.Shape.
const (
	ShapeRectangle = "rectangle"
	ShapeSphere    = "sphere"
)

// Particle kind names accepted in SourceConfig.Kind.
const (
	KindSprite = "sprite"
	KindPlane  = "plane"
)

// Behavior type names accepted in BehaviorConfig.Type.
const (
	BehaviorWave      = "wave"
	BehaviorAttractor = "attractor"
)

// Config holds every tunable of the confetti scene.
type Config struct {
	Window   WindowConfig `yaml:"window"`
	Palette  [][3]uint8   `yaml:"palette"`
	Sprites  SpriteConfig `yaml:"sprites"`
	Simple   SceneConfig  `yaml:"simple"`
	Advanced SceneConfig  `yaml:"advanced"`
}

// WindowConfig holds display settings for the demo host.
type WindowConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Title   string `yaml:"title"`
	ShowFPS bool   `yaml:"show_fps"`
}

// SpriteConfig holds particle texture dimensions in pixels.
type SpriteConfig struct {
	RectWidth      int `yaml:"rect_width"`
	RectHeight     int `yaml:"rect_height"`
	CircleDiameter int `yaml:"circle_diameter"`
}

// SceneConfig describes one scene variant.
type SceneConfig struct {
	Origin    [3]float64       `yaml:"origin"` // emitter position in view coordinates
	Region    [2]float64       `yaml:"region"` // emission area width, height
	Shape     string           `yaml:"shape"`  // rectangle or sphere
	Source    SourceConfig     `yaml:"source"`
	Behaviors []BehaviorConfig `yaml:"behaviors"`
}

// SourceConfig holds the kinematic parameters shared by every emission
// source of a scene. Angles are radians, times seconds.
type SourceConfig struct {
	StartDelay           float64 `yaml:"start_delay"`
	BirthRate            float64 `yaml:"birth_rate"` // particles per second
	Lifetime             float64 `yaml:"lifetime"`
	Spin                 float64 `yaml:"spin"` // radians per second
	SpinRange            float64 `yaml:"spin_range"`
	EmissionLongitude    float64 `yaml:"emission_longitude"`
	EmissionRange        float64 `yaml:"emission_range"`
	VelocityRange        float64 `yaml:"velocity_range"`
	YAcceleration        float64 `yaml:"y_acceleration"`
	Kind                 string  `yaml:"kind"` // sprite or plane
	OrientationRange     float64 `yaml:"orientation_range"`
	OrientationLongitude float64 `yaml:"orientation_longitude"`
	OrientationLatitude  float64 `yaml:"orientation_latitude"`
}

// BehaviorConfig describes one force behavior. Fields not used by Type are
// ignored.
type BehaviorConfig struct {
	Type      string     `yaml:"type"`
	Force     [3]float64 `yaml:"force"`     // wave
	Frequency float64    `yaml:"frequency"` // wave, Hz
	Falloff   float64    `yaml:"falloff"`   // attractor
	Radius    float64    `yaml:"radius"`    // attractor
	Stiffness float64    `yaml:"stiffness"` // attractor
	Offset    [3]float64 `yaml:"offset"`    // attractor position relative to the scene origin
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Default returns the embedded defaults. It panics if they fail to parse,
// which only happens when defaults.yaml itself is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; lists are replaced whole.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Scene returns the simple or advanced preset.
func (c *Config) Scene(simple bool) *SceneConfig {
	if simple {
		return &c.Simple
	}
	return &c.Advanced
}

// Validate checks the palette, sprite sizes and the selected preset.
func (c *Config) Validate(simple bool) error {
	if len(c.Palette) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalid)
	}
	if c.Sprites.RectWidth <= 0 || c.Sprites.RectHeight <= 0 || c.Sprites.CircleDiameter <= 0 {
		return fmt.Errorf("%w: sprite sizes must be positive", ErrInvalid)
	}
	return c.Scene(simple).validate()
}

func (s *SceneConfig) validate() error {
	switch s.Shape {
	case ShapeRectangle, ShapeSphere:
	default:
		return fmt.Errorf("%w: unknown emission shape %q", ErrInvalid, s.Shape)
	}
	if s.Region[0] < 0 || s.Region[1] < 0 {
		return fmt.Errorf("%w: negative emission region", ErrInvalid)
	}

	src := &s.Source
	if src.BirthRate <= 0 {
		return fmt.Errorf("%w: birth_rate must be positive", ErrInvalid)
	}
	if src.Lifetime <= 0 {
		return fmt.Errorf("%w: lifetime must be positive", ErrInvalid)
	}
	if src.StartDelay < 0 || src.VelocityRange < 0 || src.SpinRange < 0 || src.EmissionRange < 0 {
		return fmt.Errorf("%w: start_delay and ranges must not be negative", ErrInvalid)
	}
	switch src.Kind {
	case KindSprite, KindPlane:
	default:
		return fmt.Errorf("%w: unknown particle kind %q", ErrInvalid, src.Kind)
	}

	for i, b := range s.Behaviors {
		switch b.Type {
		case BehaviorWave:
			if b.Frequency < 0 {
				return fmt.Errorf("%w: behavior %d: negative frequency", ErrInvalid, i)
			}
		case BehaviorAttractor:
			if b.Radius <= 0 {
				return fmt.Errorf("%w: behavior %d: attractor radius must be positive", ErrInvalid, i)
			}
		default:
			return fmt.Errorf("%w: behavior %d: unknown type %q", ErrInvalid, i, b.Type)
		}
	}
	return nil
}

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Palette) != 9 {
		t.Errorf("palette len = %d, want 9", len(cfg.Palette))
	}
	if cfg.Palette[0] != [3]uint8{149, 58, 255} {
		t.Errorf("palette[0] = %v, want [149 58 255]", cfg.Palette[0])
	}
	if cfg.Sprites.RectWidth != 20 || cfg.Sprites.RectHeight != 13 || cfg.Sprites.CircleDiameter != 10 {
		t.Errorf("sprites = %+v, want 20x13 / 10", cfg.Sprites)
	}
	if cfg.Window.Width != 500 || cfg.Window.Height != 500 {
		t.Errorf("window = %dx%d, want 500x500", cfg.Window.Width, cfg.Window.Height)
	}
}

func TestDefaultPresets(t *testing.T) {
	cfg := Default()

	s := cfg.Scene(true)
	if s.Shape != ShapeRectangle {
		t.Errorf("simple shape = %q, want rectangle", s.Shape)
	}
	if s.Origin != [3]float64{250, -500, 0} {
		t.Errorf("simple origin = %v", s.Origin)
	}
	if s.Source.VelocityRange != 100 || s.Source.YAcceleration != 150 {
		t.Errorf("simple velocity/accel = %v/%v, want 100/150", s.Source.VelocityRange, s.Source.YAcceleration)
	}
	if len(s.Behaviors) != 0 {
		t.Errorf("simple behaviors = %d, want 0", len(s.Behaviors))
	}

	a := cfg.Scene(false)
	if a.Shape != ShapeSphere || a.Source.Kind != KindPlane {
		t.Errorf("advanced shape/kind = %q/%q", a.Shape, a.Source.Kind)
	}
	if a.Source.VelocityRange != 0 || a.Source.YAcceleration != 0 {
		t.Errorf("advanced velocity/accel = %v/%v, want 0/0", a.Source.VelocityRange, a.Source.YAcceleration)
	}
	if math.Abs(a.Source.OrientationRange-math.Pi) > 1e-12 {
		t.Errorf("orientation range = %v, want pi", a.Source.OrientationRange)
	}
	if len(a.Behaviors) != 3 {
		t.Fatalf("advanced behaviors = %d, want 3", len(a.Behaviors))
	}
	if a.Behaviors[1].Force != [3]float64{0, 500, 0} || a.Behaviors[1].Frequency != 3 {
		t.Errorf("vertical wave = %+v", a.Behaviors[1])
	}
	att := a.Behaviors[2]
	if att.Type != BehaviorAttractor || att.Falloff != -290 || att.Radius != 300 || att.Stiffness != 10 {
		t.Errorf("attractor = %+v", att)
	}
	if att.Offset != [3]float64{0, 20, -70} {
		t.Errorf("attractor offset = %v", att.Offset)
	}

	for _, simple := range []bool{true, false} {
		if err := cfg.Validate(simple); err != nil {
			t.Errorf("Validate(%v): %v", simple, err)
		}
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("window:\n  show_fps: true\nsimple:\n  source:\n    birth_rate: 25\npalette:\n  - [1, 2, 3]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Window.ShowFPS {
		t.Error("show_fps should be overridden")
	}
	if cfg.Window.Width != 500 {
		t.Errorf("width = %d, default should survive", cfg.Window.Width)
	}
	if cfg.Simple.Source.BirthRate != 25 {
		t.Errorf("birth_rate = %v, want 25", cfg.Simple.Source.BirthRate)
	}
	if cfg.Simple.Source.Lifetime != 10 {
		t.Errorf("lifetime = %v, default should survive", cfg.Simple.Source.Lifetime)
	}
	if len(cfg.Palette) != 1 || cfg.Palette[0] != [3]uint8{1, 2, 3} {
		t.Errorf("palette = %v, want replaced by [[1 2 3]]", cfg.Palette)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty palette", func(c *Config) { c.Palette = nil }},
		{"zero sprite", func(c *Config) { c.Sprites.CircleDiameter = 0 }},
		{"bad shape", func(c *Config) { c.Advanced.Shape = "cone" }},
		{"bad kind", func(c *Config) { c.Advanced.Source.Kind = "cube" }},
		{"zero birth rate", func(c *Config) { c.Advanced.Source.BirthRate = 0 }},
		{"zero lifetime", func(c *Config) { c.Advanced.Source.Lifetime = 0 }},
		{"zero radius", func(c *Config) { c.Advanced.Behaviors[2].Radius = 0 }},
		{"bad behavior", func(c *Config) { c.Advanced.Behaviors[0].Type = "vortex" }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate(false)
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", tt.name, err)
		}
	}
}

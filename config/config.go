/*
Package config loads the settings of an editing session from YAML.

A configuration file looks like this:

	limits:
	  track_width: 0.45
	  max_velocity: 1.0
	  max_acceleration: 2.0
	  max_jerk: 10.0
	fields:
	  - { name: practice, width: 16.5, height: 8.2 }
	field: practice
	profile:
	  sample_spacing: 0.05
	  time_step: 0.02
	editor:
	  mode: add-path
	  latch: true
	  handle_radius: 8
	trace_level: info

Missing keys keep their defaults.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/fieldpath/canvas"
	"github.com/npillmayer/fieldpath/editor"
	"github.com/npillmayer/fieldpath/params"
	"github.com/npillmayer/fieldpath/profile"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer writes to trace with key 'config'
func tracer() tracing.Trace {
	return tracing.Select("config")
}

// ErrInvalidConfig is wrapped by all validation errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// Limits mirrors params.Limits with YAML keys.
type Limits struct {
	TrackWidth      float64 `yaml:"track_width"`
	MaxVelocity     float64 `yaml:"max_velocity"`
	MaxAcceleration float64 `yaml:"max_acceleration"`
	MaxJerk         float64 `yaml:"max_jerk"`
}

// Field is a field entry.
type Field struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Profile configures the profile generator.
type Profile struct {
	SampleSpacing float64 `yaml:"sample_spacing"`
	TimeStep      float64 `yaml:"time_step"`
}

// Editor configures pointer handling.
type Editor struct {
	Mode         string  `yaml:"mode"` // mode at start, see editor.ParseMode
	Latch        bool    `yaml:"latch"`
	HandleRadius float64 `yaml:"handle_radius"`
}

// Config is the complete configuration.
type Config struct {
	Limits     Limits  `yaml:"limits"`
	Fields     []Field `yaml:"fields"`
	Field      string  `yaml:"field"`
	Profile    Profile `yaml:"profile"`
	Editor     Editor  `yaml:"editor"`
	TraceLevel string  `yaml:"trace_level"`
}

// Default returns a configuration usable without any file.
func Default() Config {
	return Config{
		Limits: Limits{TrackWidth: 0.45, MaxVelocity: 1.0, MaxAcceleration: 2.0, MaxJerk: 10.0},
		Fields: []Field{{Name: "practice", Width: 16.5, Height: 8.2}},
		Field:  "practice",
		Profile: Profile{
			SampleSpacing: profile.DefaultSpacing,
			TimeStep:      profile.DefaultTimeStep,
		},
		Editor:     Editor{Mode: editor.AddPath.String(), Latch: true, HandleRadius: editor.DefaultHandleRadius},
		TraceLevel: "info",
	}
}

// Load reads YAML from r on top of the defaults and validates the result.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a configuration file.
func LoadFile(name string) (Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", name, err)
	}
	tracer().Infof("loaded configuration from %s", name)
	return cfg, nil
}

// Validate checks limits, fields and the selected field.
func (cfg Config) Validate() error {
	if err := cfg.ParamLimits().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(cfg.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if f.Name == "" || f.Width <= 0 || f.Height <= 0 {
			return fmt.Errorf("%w: field %q needs a name and a positive size", ErrInvalidConfig, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidConfig, f.Name)
		}
		seen[f.Name] = true
	}
	if !seen[cfg.Field] {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidConfig, cfg.Field)
	}
	if cfg.Profile.SampleSpacing < 0 || cfg.Profile.TimeStep < 0 || cfg.Editor.HandleRadius < 0 {
		return fmt.Errorf("%w: negative profile or editor setting", ErrInvalidConfig)
	}
	if _, ok := editor.ParseMode(cfg.Editor.Mode); !ok {
		return fmt.Errorf("%w: unknown editor mode %q", ErrInvalidConfig, cfg.Editor.Mode)
	}
	if _, ok := traceLevel(cfg.TraceLevel); !ok {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, cfg.TraceLevel)
	}
	return nil
}

// ParamLimits converts the limits section.
func (cfg Config) ParamLimits() params.Limits {
	return params.Limits{
		TrackWidth:      cfg.Limits.TrackWidth,
		MaxVelocity:     cfg.Limits.MaxVelocity,
		MaxAcceleration: cfg.Limits.MaxAcceleration,
		MaxJerk:         cfg.Limits.MaxJerk,
	}
}

// StartMode is the editing mode a session starts in.
func (cfg Config) StartMode() editor.Mode {
	m, _ := editor.ParseMode(cfg.Editor.Mode)
	return m
}

// Catalogue builds the field catalogue.
func (cfg Config) Catalogue() *canvas.Catalogue {
	fields := make([]canvas.Field, len(cfg.Fields))
	for i, f := range cfg.Fields {
		fields[i] = canvas.Field{Name: f.Name, Width: f.Width, Height: f.Height}
	}
	return canvas.NewCatalogue(fields...)
}

// Generator creates a profile generator from the profile section.
func (cfg Config) Generator() profile.Generator {
	return profile.Generator{Spacing: cfg.Profile.SampleSpacing, TimeStep: cfg.Profile.TimeStep}
}

// ApplyTraceLevel sets the trace level of the given tracer keys.
func (cfg Config) ApplyTraceLevel(keys ...string) {
	level, ok := traceLevel(cfg.TraceLevel)
	if !ok {
		return
	}
	for _, key := range keys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

func traceLevel(name string) (tracing.TraceLevel, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return tracing.LevelDebug, true
	case "", "info":
		return tracing.LevelInfo, true
	case "error":
		return tracing.LevelError, true
	}
	return tracing.LevelInfo, false
}

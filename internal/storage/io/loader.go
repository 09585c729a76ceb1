package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BlackOrchardLabs/PyPulse/internal/model"
)

// SettingsYAMLRepository loads pulse settings from YAML files.
type SettingsYAMLRepository struct {
	fs fs.FS
}

// NewSettingsYAMLRepository creates a new YAML settings repository.
func NewSettingsYAMLRepository(filesystem fs.FS) *SettingsYAMLRepository {
	return &SettingsYAMLRepository{fs: filesystem}
}

// GetSettings loads settings from a YAML file and returns a validated domain
// model with defaults applied to any unset value.
func (r *SettingsYAMLRepository) GetSettings(ctx context.Context, path string) (model.Settings, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.Settings{}, fmt.Errorf("reading settings file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Settings{}, ctx.Err()
	}

	var s settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return model.Settings{}, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := s.validate(); err != nil {
		return model.Settings{}, fmt.Errorf("invalid settings: %w: %w", model.ErrNotValid, err)
	}

	return s.toModel(), nil
}

// settings represents the YAML structure of the optional config file in the
// pulse data directory.
type settings struct {
	DataDir string          `yaml:"data_dir"`
	Reaper  reaperSettings  `yaml:"reaper"`
	Tracker trackerSettings `yaml:"tracker"`
}

type reaperSettings struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	MaxIdleSeconds  int `yaml:"max_idle_seconds"`
}

type trackerSettings struct {
	MinIntervalMS int `yaml:"min_interval_ms"`
}

func (s settings) validate() error {
	if s.Reaper.IntervalSeconds < 0 {
		return fmt.Errorf("reaper interval_seconds must not be negative, got: %d", s.Reaper.IntervalSeconds)
	}
	if s.Reaper.MaxIdleSeconds < 0 {
		return fmt.Errorf("reaper max_idle_seconds must not be negative, got: %d", s.Reaper.MaxIdleSeconds)
	}
	if s.Tracker.MinIntervalMS < 0 {
		return fmt.Errorf("tracker min_interval_ms must not be negative, got: %d", s.Tracker.MinIntervalMS)
	}
	return nil
}

func (s settings) toModel() model.Settings {
	m := model.Settings{
		DataDir:            s.DataDir,
		ReapInterval:       model.DefaultReapInterval,
		MaxIdle:            model.DefaultMaxIdle,
		TrackerMinInterval: model.DefaultTrackerMinInterval,
	}

	if s.Reaper.IntervalSeconds > 0 {
		m.ReapInterval = time.Duration(s.Reaper.IntervalSeconds) * time.Second
	}
	if s.Reaper.MaxIdleSeconds > 0 {
		m.MaxIdle = time.Duration(s.Reaper.MaxIdleSeconds) * time.Second
	}
	if s.Tracker.MinIntervalMS > 0 {
		m.TrackerMinInterval = time.Duration(s.Tracker.MinIntervalMS) * time.Millisecond
	}

	return m
}

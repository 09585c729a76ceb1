package io_test

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	storageio "github.com/BlackOrchardLabs/PyPulse/internal/storage/io"
)

func TestGetSettings(t *testing.T) {
	tests := map[string]struct {
		fs          fstest.MapFS
		expSettings model.Settings
		expErr      bool
	}{
		"A full settings file should be loaded": {
			fs: fstest.MapFS{
				"config.yaml": &fstest.MapFile{Data: []byte(`
data_dir: /var/lib/pulse
reaper:
  interval_seconds: 30
  max_idle_seconds: 120
tracker:
  min_interval_ms: 250
`)},
			},
			expSettings: model.Settings{
				DataDir:            "/var/lib/pulse",
				ReapInterval:       30 * time.Second,
				MaxIdle:            120 * time.Second,
				TrackerMinInterval: 250 * time.Millisecond,
			},
		},

		"An empty settings file should fall back to the defaults": {
			fs: fstest.MapFS{
				"config.yaml": &fstest.MapFile{Data: []byte("")},
			},
			expSettings: model.Settings{
				ReapInterval:       model.DefaultReapInterval,
				MaxIdle:            model.DefaultMaxIdle,
				TrackerMinInterval: model.DefaultTrackerMinInterval,
			},
		},

		"A partial settings file should only override what it sets": {
			fs: fstest.MapFS{
				"config.yaml": &fstest.MapFile{Data: []byte(`
reaper:
  max_idle_seconds: 45
`)},
			},
			expSettings: model.Settings{
				ReapInterval:       model.DefaultReapInterval,
				MaxIdle:            45 * time.Second,
				TrackerMinInterval: model.DefaultTrackerMinInterval,
			},
		},

		"A missing settings file should fail": {
			fs:     fstest.MapFS{},
			expErr: true,
		},

		"An invalid YAML document should fail": {
			fs: fstest.MapFS{
				"config.yaml": &fstest.MapFile{Data: []byte("reaper: [:")},
			},
			expErr: true,
		},

		"A negative reaper interval should fail validation": {
			fs: fstest.MapFS{
				"config.yaml": &fstest.MapFile{Data: []byte(`
reaper:
  interval_seconds: -1
`)},
			},
			expErr: true,
		},

		"A negative tracker interval should fail validation": {
			fs: fstest.MapFS{
				"config.yaml": &fstest.MapFile{Data: []byte(`
tracker:
  min_interval_ms: -100
`)},
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			repo := storageio.NewSettingsYAMLRepository(test.fs)
			settings, err := repo.GetSettings(t.Context(), "config.yaml")

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expSettings, settings)
			}
		})
	}
}

func TestGetSettingsValidationError(t *testing.T) {
	fs := fstest.MapFS{
		"config.yaml": &fstest.MapFile{Data: []byte("reaper: {max_idle_seconds: -5}")},
	}

	repo := storageio.NewSettingsYAMLRepository(fs)
	_, err := repo.GetSettings(t.Context(), "config.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotValid)
}

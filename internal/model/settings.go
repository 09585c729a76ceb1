package model

import "time"

const (
	// DefaultReapInterval is how often the staleness reaper ticks.
	DefaultReapInterval = 60 * time.Second
	// DefaultMaxIdle is how long an active record may go without updates
	// before the reaper deactivates it.
	DefaultMaxIdle = 300 * time.Second
	// DefaultTrackerMinInterval bounds how often a tracker writes snapshots.
	DefaultTrackerMinInterval = 100 * time.Millisecond
)

// Settings is the optional user configuration loaded from the data
// directory. Zero values mean "use the default".
type Settings struct {
	DataDir            string
	ReapInterval       time.Duration
	MaxIdle            time.Duration
	TrackerMinInterval time.Duration
}

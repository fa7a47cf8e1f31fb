// Package config holds the emulator settings and the logger factory.
package config

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/viper"
)

// Setting keys, shared by flags, environment and config file.
const (
	KeyClock = "clock"
	KeyTimer = "timer"
	KeyScale = "scale"
	KeyStep  = "step"
	KeyDebug = "debug"
	KeyQuiet = "quiet"
)

const (
	DefaultClock = 500
	DefaultTimer = 60
	DefaultScale = 10

	maxClock = 100000
	maxTimer = 1000
	maxScale = 40
)

// EnvPrefix is prepended to setting keys when reading the environment.
const EnvPrefix = "CHIP8"

// ErrInvalid is wrapped by every validation error returned by Load.
var ErrInvalid = errors.New("invalid setting")

// Config is the resolved emulator configuration.
type Config struct {
	Clock int  // instructions per second
	Timer int  // timer decrements per second
	Scale int  // window pixels per CHIP-8 pixel
	Step  bool // start paused
	Debug bool
	Quiet bool
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyClock, DefaultClock)
	v.SetDefault(KeyTimer, DefaultTimer)
	v.SetDefault(KeyScale, DefaultScale)
	v.SetDefault(KeyStep, false)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyQuiet, false)
}

// Load reads the settings from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Clock: v.GetInt(KeyClock),
		Timer: v.GetInt(KeyTimer),
		Scale: v.GetInt(KeyScale),
		Step:  v.GetBool(KeyStep),
		Debug: v.GetBool(KeyDebug),
		Quiet: v.GetBool(KeyQuiet),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all rates and sizes are usable.
func (c Config) Validate() error {
	switch {
	case c.Clock <= 0 || c.Clock > maxClock:
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalid, KeyClock, maxClock, c.Clock)
	case c.Timer <= 0 || c.Timer > maxTimer:
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalid, KeyTimer, maxTimer, c.Timer)
	case c.Scale <= 0 || c.Scale > maxScale:
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalid, KeyScale, maxScale, c.Scale)
	case c.Debug && c.Quiet:
		return fmt.Errorf("%w: %s and %s are mutually exclusive", ErrInvalid, KeyDebug, KeyQuiet)
	}
	return nil
}

// Logger returns a logger for the configured verbosity.
func (c Config) Logger() *log.Logger {
	return CreateLogger(c.Debug, c.Quiet)
}

// CreateLogger creates a logger that logs at debug level when debug is set
// and only errors when quiet is set.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

package evec

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultInitialCount is the slot count a vector starts with when none is given.
	DefaultInitialCount = 8
	// DefaultGrowthFactor multiplies the slot count whenever a push finds the vector full.
	DefaultGrowthFactor = 2
	// ExitCode is the process exit status used in hard-exit mode.
	ExitCode = 0xDEAD
)

// Config holds the build-time parameters of a vector environment.
//
// The zero Config is not valid; start from DefaultConfig.
type Config struct {
	// InitialCount is the slot count used by implicit creation and by growth
	// from an empty capacity.
	InitialCount int `toml:"initial_count"`

	// GrowthFactor multiplies the slot count on growth. Must be at least 2.
	GrowthFactor int `toml:"growth_factor"`

	// Pedantic enables header integrity checks on every entry point.
	Pedantic bool `toml:"pedantic"`

	// HardExit terminates the process with ExitCode on any reported failure.
	HardExit bool `toml:"hard_exit"`

	// StrictPop makes Pop on an empty vector an index error instead of a no-op.
	StrictPop bool `toml:"strict_pop"`

	// MemoryLimitBytes caps backing storage for vectors created from this
	// environment. 0 means unlimited.
	MemoryLimitBytes int64 `toml:"memory_limit_bytes"`

	// LogLevel is the minimum level of the default logger: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// LogRatePerSec limits warning and debug records per second. 0 disables limiting.
	LogRatePerSec float64 `toml:"log_rate_per_sec"`

	// LogBurst is the number of warning and debug records allowed in a burst.
	LogBurst int `toml:"log_burst"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		InitialCount:  DefaultInitialCount,
		GrowthFactor:  DefaultGrowthFactor,
		Pedantic:      true,
		LogLevel:      "info",
		LogRatePerSec: 10,
		LogBurst:      20,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.InitialCount <= 0 {
		return fmt.Errorf("%w: initial count must be positive, got %d", ErrInvalidArgument, c.InitialCount)
	}
	if c.GrowthFactor < 2 {
		return fmt.Errorf("%w: growth factor must be at least 2, got %d", ErrInvalidArgument, c.GrowthFactor)
	}
	if c.MemoryLimitBytes < 0 {
		return fmt.Errorf("%w: memory limit must not be negative, got %d", ErrInvalidArgument, c.MemoryLimitBytes)
	}
	if c.LogRatePerSec < 0 || c.LogBurst < 0 {
		return fmt.Errorf("%w: log rate and burst must not be negative", ErrInvalidArgument)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty LogLevel means info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidArgument, c.LogLevel)
	}
	return level, nil
}

// NextCapacity returns the slot count a full vector with the given slot count
// grows to. It returns false when the result would overflow int.
func (c Config) NextCapacity(slots int) (int, bool) {
	if slots == 0 {
		return c.InitialCount, true
	}
	if slots > math.MaxInt/c.GrowthFactor {
		return 0, false
	}
	return slots * c.GrowthFactor, true
}

// ParseConfig decodes a TOML document on top of DefaultConfig and validates it.
// Keys missing from the document keep their default values.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML file on top of DefaultConfig and validates it.
//
// Example file:
//
//	initial_count = 16
//	growth_factor = 2
//	pedantic = true
//	hard_exit = false
//	memory_limit_bytes = 1048576
//	log_level = "warn"
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

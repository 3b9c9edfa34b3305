package evec

import (
	"log/slog"

	"github.com/hupe1980/evec/resource"
)

type options struct {
	cfg     Config
	logger  *Logger
	metrics MetricsCollector
	memory  *resource.Controller
	exit    func(code int)
	env     *Env
}

// Option configures a vector environment.
//
// Options are applied in order, so WithConfig should come before options that
// adjust individual fields.
type Option func(*options)

// WithConfig replaces the whole configuration.
//
// Example loading parameters from a file:
//
//	cfg, err := evec.LoadConfig("vector.toml")
//	if err != nil {
//	    return err
//	}
//	v, err := evec.New[int](evec.WithConfig(cfg))
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithInitialCount sets the slot count used by implicit creation and by growth
// from an empty capacity.
func WithInitialCount(n int) Option {
	return func(o *options) {
		o.cfg.InitialCount = n
	}
}

// WithGrowthFactor sets the capacity multiplier applied when a push finds the vector full.
func WithGrowthFactor(f int) Option {
	return func(o *options) {
		o.cfg.GrowthFactor = f
	}
}

// WithPedantic enables or disables header integrity checks on every entry point.
func WithPedantic(enabled bool) Option {
	return func(o *options) {
		o.cfg.Pedantic = enabled
	}
}

// WithHardExit makes every reported failure terminate the process with ExitCode.
//
// This reproduces the fatal posture suited to option parsing, where there is
// nothing sensible to do after running out of memory.
func WithHardExit(enabled bool) Option {
	return func(o *options) {
		o.cfg.HardExit = enabled
	}
}

// WithStrictPop makes Pop on an empty vector fail with an index error.
func WithStrictPop(enabled bool) Option {
	return func(o *options) {
		o.cfg.StrictPop = enabled
	}
}

// WithMemoryLimit caps backing storage of vectors created from this environment.
// It creates a private controller; use WithMemoryController to share one budget.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.cfg.MemoryLimitBytes = bytes
	}
}

// WithMemoryController charges backing storage to a shared controller.
// It takes precedence over Config.MemoryLimitBytes.
func WithMemoryController(c *resource.Controller) Option {
	return func(o *options) {
		o.memory = c
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to fall back to the default text logger.
//
// Example with JSON logging:
//
//	logger := evec.NewJSONLogger(slog.LevelDebug)
//	v, _ := evec.New[int](evec.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel sets the level of the default text logger.
// It has no effect when WithLogger supplies a logger.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.cfg.LogLevel = level.String()
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &evec.BasicMetricsCollector{}
//	v, _ := evec.New[int](evec.WithMetricsCollector(metrics))
//	// ... use v ...
//	stats := metrics.GetStats()
//	fmt.Printf("Pushes: %d, Grows: %d\n", stats.PushCount, stats.GrowCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

// WithExitFunc replaces os.Exit in hard-exit mode. Mostly useful in tests.
func WithExitFunc(exit func(code int)) Option {
	return func(o *options) {
		o.exit = exit
	}
}

// WithEnv reuses an already resolved environment. All other options are ignored.
func WithEnv(env *Env) Option {
	return func(o *options) {
		o.env = env
	}
}

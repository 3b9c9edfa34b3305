package evec

import (
	"log/slog"
	"os"
	"sync"

	"github.com/hupe1980/evec/resource"
)

// Env is the resolved runtime shared by vectors: configuration, diagnostics,
// metrics, memory budget and the fatal-error policy.
//
// An Env is immutable after construction and safe to share between vectors and
// goroutines; the vectors themselves are not.
type Env struct {
	cfg     Config
	logger  *Logger
	metrics MetricsCollector
	memory  *resource.Controller
	exit    func(code int)
}

var defaultEnv = sync.OnceValue(func() *Env {
	env, err := NewEnv()
	if err != nil {
		panic(err)
	}
	return env
})

// DefaultEnv returns the environment used when no options are given.
func DefaultEnv() *Env {
	return defaultEnv()
}

// NewEnv resolves options into an environment.
func NewEnv(opts ...Option) (*Env, error) {
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.env != nil {
		return o.env, nil
	}

	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	if o.logger == nil {
		level, _ := o.cfg.Level()
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		o.logger = NewLogger(NewRateLimitedHandler(handler, o.cfg.LogRatePerSec, o.cfg.LogBurst))
	}

	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}

	if o.memory == nil && o.cfg.MemoryLimitBytes > 0 {
		o.memory = resource.NewController(resource.Config{MemoryLimitBytes: o.cfg.MemoryLimitBytes})
	}

	if o.exit == nil {
		o.exit = os.Exit
	}

	return &Env{
		cfg:     o.cfg,
		logger:  o.logger,
		metrics: o.metrics,
		memory:  o.memory,
		exit:    o.exit,
	}, nil
}

// resolveEnv returns DefaultEnv for an empty option list.
func resolveEnv(opts []Option) (*Env, error) {
	if len(opts) == 0 {
		return DefaultEnv(), nil
	}
	return NewEnv(opts...)
}

// Config returns the environment's configuration.
func (e *Env) Config() Config { return e.cfg }

// Logger returns the diagnostic logger.
func (e *Env) Logger() *Logger { return e.logger }

// Metrics returns the metrics collector.
func (e *Env) Metrics() MetricsCollector { return e.metrics }

// Memory returns the memory controller, or nil if storage is not budgeted.
func (e *Env) Memory() *resource.Controller { return e.memory }

// Fail reports a failed operation and returns err unchanged.
//
// In hard-exit mode the process is terminated through the exit function after
// logging. If the exit function returns (as it does in tests), err is returned.
func (e *Env) Fail(op string, err error) error {
	e.logger.LogFailure(op, err, e.cfg.HardExit)
	if e.cfg.HardExit {
		e.exit(ExitCode)
	}
	return err
}

// Warn reports a recoverable condition. It never affects control flow.
func (e *Env) Warn(op, msg string) {
	e.logger.LogWarn(op, msg)
}

// Acquire charges n bytes of backing storage to the memory budget.
func (e *Env) Acquire(n int) error {
	if n <= 0 || e.memory == nil {
		return nil
	}
	if err := e.memory.AcquireMemory(int64(n)); err != nil {
		return NewAllocationError(n, err)
	}
	return nil
}

// Release returns n bytes of backing storage to the memory budget.
func (e *Env) Release(n int) {
	if n <= 0 || e.memory == nil {
		return
	}
	e.memory.ReleaseMemory(int64(n))
}

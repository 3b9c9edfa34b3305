// Package evec provides growable vectors with a configurable growth policy,
// explicit error reporting and an optional memory budget.
//
// Two shapes are available:
//
//   - Vector[T] in this package is a typed vector with external cursors.
//   - Package raw stores fixed-size byte elements in a single block that
//     begins with an accounting header, for callers that need the storage as
//     one contiguous array.
//
// Both share an Env: configuration, structured logging, metrics, the memory
// budget and the fatal-error policy.
//
// # Quick Start
//
//	v, err := evec.New[int]()
//	if err != nil {
//	    return err
//	}
//	defer v.Free()
//
//	_ = v.PushAll(6, 4, 2, 2, 4, 6)
//	_ = v.Sort(cmp.Compare[int])
//
//	c := v.Cursor()
//	for p, ok := c.Head(); ok; p, ok = c.Next() {
//	    fmt.Println(*p)
//	}
//
// # Growth
//
// A vector starts with Config.InitialCount slots (8 by default). When a push
// finds it full, the slot count is multiplied by Config.GrowthFactor (2 by
// default); a vector created with zero slots grows to InitialCount first.
// Capacity never shrinks.
//
// # Errors
//
// Every failure matches one of ErrAllocation, ErrIndex, ErrSizeMismatch,
// ErrCorruption or ErrUsage with errors.Is. The typed errors AllocationError,
// IndexError, SizeMismatchError and CorruptionError carry the details:
//
//	if _, err := v.At(10); err != nil {
//	    var ie *evec.IndexError
//	    if errors.As(err, &ie) {
//	        fmt.Println(ie.Index, ie.Count)
//	    }
//	}
//
// With WithHardExit every reported failure is logged and then terminates the
// process with ExitCode, for programs with no sensible way to continue.
//
// # Memory Budget
//
// WithMemoryLimit or WithMemoryController charges backing storage against a
// resource.Controller. A refused charge fails the operation with an
// AllocationError, leaving the vector unchanged:
//
//	v, _ := evec.New[int64](evec.WithMemoryLimit(1 << 20))
//
// # Configuration
//
// Config can be built in code, through options, or loaded from TOML with
// LoadConfig and ParseConfig.
package evec

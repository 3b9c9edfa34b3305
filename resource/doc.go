// Package resource implements a shared memory budget for vector backing storage.
//
// A Controller tracks how many bytes of backing storage are currently held by
// the vectors charged to it and, when a limit is configured, refuses requests
// that would exceed it. Refusals surface from the vector operations as
// allocation failures, which is how an embedder emulates a host allocator
// that can run out of memory.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 20, // 1MiB for all vectors sharing rc
//	})
//
//	// Non-blocking acquire (returns error immediately if limit exceeded)
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(4096)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use. The underlying
// implementations use atomic operations and a weighted semaphore.
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional budgeting without nil checks everywhere.
package resource

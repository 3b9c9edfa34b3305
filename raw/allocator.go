package raw

import (
	"errors"
	"fmt"

	"github.com/hupe1980/evec"
	"github.com/hupe1980/evec/internal/mem"
	"github.com/hupe1980/evec/resource"
)

// Allocator provides the blocks that hold a header and its element storage.
//
// Allocate must return a zeroed block of exactly size bytes, or an error.
// Release is called once for every block the engine retires; the block has
// already been marked as moved or freed at that point. Allocators that recycle
// released blocks lose stale-handle detection for the recycled memory.
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Release(block []byte)
}

// HeapAllocator allocates cache-line aligned blocks from the Go heap. Released
// blocks are left to the garbage collector, so a retired block stays readable
// for as long as a stale handle refers to it.
type HeapAllocator struct{}

// Allocate implements Allocator.
func (HeapAllocator) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid block size %d", size)
	}
	return mem.AllocAligned(size), nil
}

// Release implements Allocator.
func (HeapAllocator) Release([]byte) {}

// BudgetAllocator charges every block against a memory controller before
// delegating to Upstream. A refused charge is reported as an allocation failure.
type BudgetAllocator struct {
	Upstream   Allocator
	Controller *resource.Controller
}

// NewBudgetAllocator returns a BudgetAllocator. A nil upstream means HeapAllocator.
func NewBudgetAllocator(upstream Allocator, c *resource.Controller) *BudgetAllocator {
	if upstream == nil {
		upstream = HeapAllocator{}
	}
	return &BudgetAllocator{Upstream: upstream, Controller: c}
}

// Allocate implements Allocator.
func (a *BudgetAllocator) Allocate(size int) ([]byte, error) {
	if err := a.Controller.AcquireMemory(int64(size)); err != nil {
		return nil, evec.NewAllocationError(size, err)
	}
	b, err := a.Upstream.Allocate(size)
	if err != nil {
		a.Controller.ReleaseMemory(int64(size))
		return nil, err
	}
	if len(b) != size {
		a.Upstream.Release(b)
		a.Controller.ReleaseMemory(int64(size))
		return nil, fmt.Errorf("allocator returned %dB", len(b))
	}
	return b, nil
}

// Release implements Allocator.
func (a *BudgetAllocator) Release(block []byte) {
	a.Upstream.Release(block)
	a.Controller.ReleaseMemory(int64(len(block)))
}

// allocate obtains a block of size bytes and normalizes failures to ErrAllocation.
func allocate(a Allocator, size int) ([]byte, error) {
	b, err := a.Allocate(size)
	if err != nil {
		if errors.Is(err, evec.ErrAllocation) {
			return nil, err
		}
		return nil, evec.NewAllocationError(size, err)
	}
	if len(b) != size {
		return nil, evec.NewAllocationError(size, fmt.Errorf("allocator returned %dB", len(b)))
	}
	return b, nil
}

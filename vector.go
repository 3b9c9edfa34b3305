package evec

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"time"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/evec/internal/conv"
)

// Vector is a growable array of T.
//
// The zero value is an empty vector using DefaultEnv; its first Push allocates
// Config.InitialCount slots. A Vector must not be copied after first use, use
// Copy instead.
//
// Pointers and slices obtained from Index, Tail, Slice or a Cursor are valid
// until the next mutating call (Push, Pop, DeleteAt, DeleteSet, Sort, Free).
// After a Push that grows the vector they refer to retired storage.
//
// A Vector is not safe for concurrent use.
type Vector[T any] struct {
	data    []T // len(data) is the slot capacity
	count   int
	env     *Env
	charged int // bytes charged to env.Memory()
	version uint64
	freed   bool
}

// New creates an empty vector with Config.InitialCount slots.
func New[T any](opts ...Option) (*Vector[T], error) {
	env, err := resolveEnv(opts)
	if err != nil {
		return nil, err
	}
	return newVector[T](env, env.cfg.InitialCount)
}

// NewWithCapacity creates an empty vector with count slots. count may be 0, in
// which case the first Push grows the vector to Config.InitialCount slots.
func NewWithCapacity[T any](count int, opts ...Option) (*Vector[T], error) {
	env, err := resolveEnv(opts)
	if err != nil {
		return nil, err
	}
	return newVector[T](env, count)
}

func newVector[T any](env *Env, count int) (*Vector[T], error) {
	const op = "create"

	if count < 0 {
		return nil, env.Fail(op, ErrInvalidArgument)
	}

	bytes, err := conv.MulInt(count, elementSize[T]())
	if err != nil {
		return nil, env.Fail(op, NewAllocationError(0, err))
	}
	if err := env.Acquire(bytes); err != nil {
		return nil, env.Fail(op, err)
	}

	env.logger.LogCreate(elementSize[T](), count)

	return &Vector[T]{
		data:    make([]T, count),
		env:     env,
		charged: bytes,
	}, nil
}

func elementSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func (v *Vector[T]) environment() *Env {
	if v.env == nil {
		v.env = DefaultEnv()
	}
	return v.env
}

func (v *Vector[T]) check(op string) error {
	if v == nil {
		return DefaultEnv().Fail(op, ErrNilHandle)
	}
	if v.freed {
		return v.environment().Fail(op, ErrFreed)
	}
	return nil
}

func (v *Vector[T]) indexError(op string, i int) error {
	return v.environment().Fail(op, &IndexError{Index: i, Count: v.count})
}

// grow reallocates the storage to the next capacity. The new storage is
// charged before the old one is released, like realloc.
func (v *Vector[T]) grow(op string) error {
	env := v.environment()

	oldSlots := len(v.data)
	newSlots, ok := env.cfg.NextCapacity(oldSlots)
	if !ok {
		return env.Fail(op, NewAllocationError(0, fmt.Errorf("capacity overflow growing %d slots", oldSlots)))
	}

	bytes, err := conv.MulInt(newSlots, elementSize[T]())
	if err != nil {
		return env.Fail(op, NewAllocationError(0, err))
	}
	if err := env.Acquire(bytes); err != nil {
		return env.Fail(op, err)
	}

	data := make([]T, newSlots)
	copy(data, v.data[:v.count])
	v.data = data

	env.Release(v.charged)
	v.charged = bytes

	env.metrics.RecordGrow(oldSlots, newSlots)
	env.logger.LogGrow(elementSize[T](), oldSlots, newSlots)

	return nil
}

// Push appends x, growing the storage by Config.GrowthFactor when it is full.
func (v *Vector[T]) Push(x T) error {
	const op = "push"

	if err := v.check(op); err != nil {
		return err
	}

	grew := false
	if v.count == len(v.data) {
		if err := v.grow(op); err != nil {
			v.environment().metrics.RecordPush(false, err)
			return err
		}
		grew = true
	}

	v.data[v.count] = x
	v.count++
	v.version++

	v.environment().metrics.RecordPush(grew, nil)
	return nil
}

// PushAll appends xs in order. It stops at the first failure; elements pushed
// before it remain.
func (v *Vector[T]) PushAll(xs ...T) error {
	for _, x := range xs {
		if err := v.Push(x); err != nil {
			return err
		}
	}
	return nil
}

// At returns a copy of the element at i.
func (v *Vector[T]) At(i int) (T, error) {
	p, err := v.index("at", i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Index returns a pointer to the element at i.
func (v *Vector[T]) Index(i int) (*T, error) {
	return v.index("index", i)
}

func (v *Vector[T]) index(op string, i int) (*T, error) {
	if err := v.check(op); err != nil {
		return nil, err
	}
	if i < 0 || i >= v.count {
		return nil, v.indexError(op, i)
	}
	return &v.data[i], nil
}

// Tail returns a pointer to the last element.
func (v *Vector[T]) Tail() (*T, error) {
	if err := v.check("tail"); err != nil {
		return nil, err
	}
	return v.index("tail", v.count-1)
}

// Pop removes the last element and returns it. On an empty vector it returns
// false, and an index error if Config.StrictPop is set. Capacity is unchanged.
func (v *Vector[T]) Pop() (T, bool, error) {
	const op = "pop"

	var zero T
	if err := v.check(op); err != nil {
		return zero, false, err
	}

	env := v.environment()
	if v.count == 0 {
		if env.cfg.StrictPop {
			err := v.indexError(op, 0)
			env.metrics.RecordDelete(0, err)
			return zero, false, err
		}
		env.Warn(op, "pop on empty vector")
		return zero, false, nil
	}

	v.count--
	x := v.data[v.count]
	v.data[v.count] = zero
	v.version++

	env.metrics.RecordDelete(0, nil)
	return x, true, nil
}

// DeleteAt removes the element at i, shifting the elements after it down by
// one slot. This costs O(Len()-i); deleting the last element is O(1).
func (v *Vector[T]) DeleteAt(i int) error {
	const op = "delete"

	if err := v.check(op); err != nil {
		return err
	}

	env := v.environment()
	if i < 0 || i >= v.count {
		err := v.indexError(op, i)
		env.metrics.RecordDelete(0, err)
		return err
	}

	shifted := v.count - i - 1
	copy(v.data[i:], v.data[i+1:v.count])
	v.count--
	clear(v.data[v.count : v.count+1])
	v.version++

	env.metrics.RecordDelete(shifted, nil)
	return nil
}

// DeleteSet removes every element whose index is in set with a single
// compaction pass and returns the number removed. If any index is out of
// range nothing is removed.
func (v *Vector[T]) DeleteSet(set *roaring.Bitmap) (int, error) {
	const op = "delete_set"

	if err := v.check(op); err != nil {
		return 0, err
	}
	if set == nil || set.IsEmpty() {
		return 0, nil
	}

	env := v.environment()
	maxIdx := uint64(set.Maximum())
	if maxIdx >= uint64(v.count) { //nolint:gosec // count is never negative
		idx := int(min(maxIdx, math.MaxInt))
		err := v.indexError(op, idx)
		env.metrics.RecordDelete(0, err)
		return 0, err
	}

	w, shifted := 0, 0
	for r := 0; r < v.count; r++ {
		if uint64(r) <= maxIdx && set.Contains(uint32(r)) { //nolint:gosec // r <= maxIdx fits uint32
			continue
		}
		if w != r {
			v.data[w] = v.data[r]
			shifted++
		}
		w++
	}

	removed := v.count - w
	clear(v.data[w:v.count])
	v.count = w
	v.version++

	env.metrics.RecordDelete(shifted, nil)
	return removed, nil
}

// Sort sorts the elements with cmp, which returns a negative number when
// a < b, zero when a == b and a positive number when a > b.
//
// The sort is stable: elements comparing equal keep their relative order.
func (v *Vector[T]) Sort(cmp func(a, b T) int) error {
	const op = "sort"

	if err := v.check(op); err != nil {
		return err
	}
	if cmp == nil {
		return v.environment().Fail(op, ErrInvalidArgument)
	}

	start := time.Now()
	slices.SortStableFunc(v.data[:v.count], cmp)
	v.version++

	v.environment().metrics.RecordSort(v.count, time.Since(start))
	return nil
}

// Copy returns an independent vector with the same capacity and elements.
// Elements are copied by assignment, so pointees are shared.
func (v *Vector[T]) Copy() (*Vector[T], error) {
	const op = "copy"

	if err := v.check(op); err != nil {
		return nil, err
	}

	env := v.environment()
	if err := env.Acquire(v.charged); err != nil {
		env.metrics.RecordCopy(0, err)
		return nil, env.Fail(op, err)
	}

	c := &Vector[T]{
		data:    make([]T, len(v.data)),
		count:   v.count,
		env:     env,
		charged: v.charged,
	}
	copy(c.data, v.data[:v.count])

	env.metrics.RecordCopy(v.charged, nil)
	return c, nil
}

// Free releases the storage. Any later operation fails with ErrFreed.
// Free on a nil vector is a no-op.
func (v *Vector[T]) Free() error {
	if v == nil {
		return nil
	}
	if err := v.check("free"); err != nil {
		return err
	}

	env := v.environment()
	env.Release(v.charged)
	env.logger.LogFree(v.charged)
	env.metrics.RecordFree()

	v.data = nil
	v.count = 0
	v.charged = 0
	v.freed = true
	v.version++

	return nil
}

// Len returns the number of elements. It is 0 for nil and freed vectors.
func (v *Vector[T]) Len() int {
	if v == nil {
		return 0
	}
	return v.count
}

// Cap returns the number of allocated slots.
func (v *Vector[T]) Cap() int {
	if v == nil {
		return 0
	}
	return len(v.data)
}

// ElementSize returns the size of one element in bytes.
func (v *Vector[T]) ElementSize() int {
	return elementSize[T]()
}

// StorageBytesAllocated returns the bytes held by all slots.
func (v *Vector[T]) StorageBytesAllocated() int {
	return v.Cap() * elementSize[T]()
}

// StorageBytesUsed returns the bytes held by live elements.
func (v *Vector[T]) StorageBytesUsed() int {
	return v.Len() * elementSize[T]()
}

// TotalBytesAllocated returns the slot storage plus the accounting overhead of
// the Vector itself.
func (v *Vector[T]) TotalBytesAllocated() int {
	if v == nil || v.freed {
		return 0
	}
	var hdr Vector[T]
	return v.StorageBytesAllocated() + int(unsafe.Sizeof(hdr))
}

// Slice returns the live elements. The slice aliases the vector's storage and
// is valid until the next mutating call; its capacity is clipped so appending
// to it never overwrites free slots.
func (v *Vector[T]) Slice() []T {
	if v == nil || v.freed {
		return nil
	}
	return v.data[:v.count:v.count]
}

// All returns an iterator over index/element pairs. The length is re-read on
// every step, so deleting from the vector while ranging skips elements the way
// an index loop would.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(i, v.data[i]) {
				return
			}
		}
	}
}

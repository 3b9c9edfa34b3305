package raw

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/evec"
	"github.com/hupe1980/evec/internal/conv"
)

// Handle refers to a vector block. The zero Handle is the null handle: Push
// creates a vector behind it, Free returns it.
//
// A Handle is a value; operations that may move the block (Create, Push, Copy,
// Free) return the handle to use afterwards. Any other copy of the old handle
// becomes stale and is rejected with evec.ErrStaleHandle.
type Handle struct {
	block []byte
}

// IsNil reports whether h is the null handle.
func (h Handle) IsNil() bool {
	return h.block == nil
}

// Storage returns the element storage of every slot, starting at HeaderBytes
// in the block. Only the first Count*ElementSize bytes hold elements. The
// slice aliases the block and is valid until the next operation that returns
// a new handle.
func (h Handle) Storage() []byte {
	if len(h.block) < HeaderBytes {
		return nil
	}
	return h.block[HeaderBytes:]
}

// Engine performs vector operations on blocks obtained from an Allocator under
// the policies of an evec.Env.
//
// An Engine is safe for concurrent use as long as each block is used by one
// goroutine at a time.
type Engine struct {
	env   *evec.Env
	alloc Allocator
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return &Engine{env: evec.DefaultEnv(), alloc: HeapAllocator{}}
})

// Default returns the engine behind the package-level functions.
func Default() *Engine {
	return defaultEngine()
}

// NewEngine returns an engine allocating from the Go heap.
func NewEngine(opts ...evec.Option) (*Engine, error) {
	return NewEngineWithAllocator(nil, opts...)
}

// NewEngineWithAllocator returns an engine allocating from alloc. A nil alloc
// means HeapAllocator. If the environment carries a memory controller, alloc is
// wrapped in a BudgetAllocator.
func NewEngineWithAllocator(alloc Allocator, opts ...evec.Option) (*Engine, error) {
	env, err := evec.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		alloc = HeapAllocator{}
	}
	if env.Memory() != nil {
		alloc = NewBudgetAllocator(alloc, env.Memory())
	}
	return &Engine{env: env, alloc: alloc}, nil
}

// Env returns the engine's environment.
func (e *Engine) Env() *evec.Env {
	return e.env
}

// open decodes and checks the header of h.
func (e *Engine) open(op string, h Handle) (header, error) {
	if h.block == nil {
		return header{}, e.env.Fail(op, evec.ErrNilHandle)
	}
	if len(h.block) < HeaderBytes {
		return header{}, e.env.Fail(op, &evec.CorruptionError{
			Field:  "block",
			Reason: fmt.Sprintf("%dB is shorter than the %dB header", len(h.block), HeaderBytes),
		})
	}

	hdr := readHeader(h.block)
	if err := hdr.retired(); err != nil {
		return header{}, e.env.Fail(op, err)
	}
	if e.env.Config().Pedantic {
		if err := hdr.validate(len(h.block)); err != nil {
			return header{}, e.env.Fail(op, err)
		}
	}
	return hdr, nil
}

func (e *Engine) indexError(op string, i int, hdr *header) error {
	return e.env.Fail(op, &evec.IndexError{Index: i, Count: hdr.count()})
}

func slot(b []byte, hdr *header, i int) []byte {
	off := HeaderBytes + i*hdr.size()
	return b[off : off+hdr.size() : off+hdr.size()]
}

func live(b []byte, hdr *header) []byte {
	return b[HeaderBytes : HeaderBytes+hdr.count()*hdr.size()]
}

// Create allocates a vector of elementSize-byte elements with count slots.
// count may be 0, in which case the first Push grows it to
// Config.InitialCount slots.
func (e *Engine) Create(elementSize, count int) (Handle, error) {
	const op = "create"

	if elementSize <= 0 {
		return Handle{}, e.env.Fail(op, fmt.Errorf("%w: element size %d", evec.ErrInvalidArgument, elementSize))
	}
	if count < 0 {
		return Handle{}, e.env.Fail(op, fmt.Errorf("%w: slot count %d", evec.ErrInvalidArgument, count))
	}

	n, err := conv.BlockSize(HeaderBytes, count, elementSize)
	if err != nil {
		return Handle{}, e.env.Fail(op, evec.NewAllocationError(0, err))
	}
	block, err := allocate(e.alloc, n)
	if err != nil {
		return Handle{}, e.env.Fail(op, err)
	}
	clear(block)

	hdr := newHeader(elementSize, count)
	hdr.write(block)

	e.env.Logger().LogCreate(elementSize, count)
	return Handle{block: block}, nil
}

// grow moves the vector to a block with the next capacity and retires the old
// block. The returned handle replaces h.
func (e *Engine) grow(op string, h Handle, hdr *header) (Handle, error) {
	cfg := e.env.Config()

	oldSlots := hdr.slots()
	newSlots, ok := cfg.NextCapacity(oldSlots)
	if !ok {
		return h, e.env.Fail(op, evec.NewAllocationError(0, fmt.Errorf("capacity overflow growing %d slots", oldSlots)))
	}
	n, err := conv.BlockSize(HeaderBytes, newSlots, hdr.size())
	if err != nil {
		return h, e.env.Fail(op, evec.NewAllocationError(0, err))
	}
	block, err := allocate(e.alloc, n)
	if err != nil {
		return h, e.env.Fail(op, err)
	}

	used := HeaderBytes + hdr.count()*hdr.size()
	copy(block, h.block[:used])
	clear(block[used:])

	hdr.Slots = conv.IntToInt64(newSlots)
	hdr.write(block)

	retire(h.block, magicMoved)
	e.alloc.Release(h.block)

	e.env.Metrics().RecordGrow(oldSlots, newSlots)
	e.env.Logger().LogGrow(hdr.size(), oldSlots, newSlots)
	return Handle{block: block}, nil
}

func retire(block []byte, marker [8]byte) {
	copy(block[offMagic1:], marker[:])
}

// Push appends element, growing the block by Config.GrowthFactor when it is
// full. On the null handle Push first creates a vector of len(element)-byte
// elements with Config.InitialCount slots.
//
// The returned handle must replace h. On failure h is returned and the vector
// is unchanged.
func (e *Engine) Push(h Handle, element []byte) (Handle, error) {
	const op = "push"

	if h.block == nil {
		created, err := e.Create(len(element), e.env.Config().InitialCount)
		if err != nil {
			e.env.Metrics().RecordPush(false, err)
			return h, err
		}
		h = created
	}

	hdr, err := e.open(op, h)
	if err != nil {
		e.env.Metrics().RecordPush(false, err)
		return h, err
	}
	if len(element) != hdr.size() {
		err := e.env.Fail(op, &evec.SizeMismatchError{Expected: hdr.size(), Actual: len(element)})
		e.env.Metrics().RecordPush(false, err)
		return h, err
	}

	grew := false
	if hdr.count() == hdr.slots() {
		moved, err := e.grow(op, h, &hdr)
		if err != nil {
			e.env.Metrics().RecordPush(false, err)
			return h, err
		}
		h, grew = moved, true
	}

	copy(slot(h.block, &hdr, hdr.count()), element)
	hdr.Count++
	hdr.write(h.block)

	e.env.Metrics().RecordPush(grew, nil)
	return h, nil
}

// Index returns the element at i. The slice aliases the block.
func (e *Engine) Index(h Handle, i int) ([]byte, error) {
	const op = "index"

	if h.block == nil {
		return nil, e.env.Fail(op, fmt.Errorf("%w: %w", evec.ErrIndex, evec.ErrNilHandle))
	}
	hdr, err := e.open(op, h)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= hdr.count() {
		return nil, e.indexError(op, i, &hdr)
	}
	return slot(h.block, &hdr, i), nil
}

// Tail returns the last element.
func (e *Engine) Tail(h Handle) ([]byte, error) {
	const op = "tail"

	if h.block == nil {
		return nil, e.env.Fail(op, fmt.Errorf("%w: %w", evec.ErrIndex, evec.ErrNilHandle))
	}
	hdr, err := e.open(op, h)
	if err != nil {
		return nil, err
	}
	if hdr.count() == 0 {
		return nil, e.indexError(op, -1, &hdr)
	}
	return slot(h.block, &hdr, hdr.count()-1), nil
}

// Head resets the traversal cursor stored in the header and returns the first
// element, or nil if the vector is empty or h is the null handle.
func (e *Engine) Head(h Handle) ([]byte, error) {
	const op = "head"

	if h.block == nil {
		return nil, nil
	}
	hdr, err := e.open(op, h)
	if err != nil {
		return nil, err
	}

	hdr.Cursor = 0
	hdr.write(h.block)

	if hdr.count() == 0 {
		return nil, nil
	}
	return slot(h.block, &hdr, 0), nil
}

// Next advances the traversal cursor and returns the element under it, or nil
// past the end. The cursor stops one past the last element, so repeated calls
// at the end keep returning nil. Next before Head fails with
// evec.ErrCursorNotStarted.
//
// The cursor is part of the block: there is one traversal per vector, and
// Copy carries its position over.
func (e *Engine) Next(h Handle) ([]byte, error) {
	const op = "next"

	hdr, err := e.open(op, h)
	if err != nil {
		return nil, err
	}
	if hdr.Cursor == noCursor {
		return nil, e.env.Fail(op, evec.ErrCursorNotStarted)
	}

	if hdr.cursor() < hdr.count() {
		hdr.Cursor++
		hdr.write(h.block)
	}
	if hdr.cursor() >= hdr.count() {
		return nil, nil
	}
	return slot(h.block, &hdr, hdr.cursor()), nil
}

// Pop removes the last element. On an empty vector it logs a warning, or
// fails with an index error if Config.StrictPop is set. Capacity is unchanged.
func (e *Engine) Pop(h Handle) error {
	const op = "pop"

	hdr, err := e.open(op, h)
	if err != nil {
		return err
	}
	if hdr.count() == 0 {
		if e.env.Config().StrictPop {
			err := e.indexError(op, 0, &hdr)
			e.env.Metrics().RecordDelete(0, err)
			return err
		}
		e.env.Warn(op, "pop on empty vector")
		return nil
	}

	hdr.Count--
	hdr.write(h.block)

	e.env.Metrics().RecordDelete(0, nil)
	return nil
}

// DeleteAt removes the element at i, shifting the elements after it down by
// one slot. Deleting the last element is a Pop.
func (e *Engine) DeleteAt(h Handle, i int) error {
	const op = "delete"

	hdr, err := e.open(op, h)
	if err != nil {
		return err
	}
	if i < 0 || i >= hdr.count() {
		err := e.indexError(op, i, &hdr)
		e.env.Metrics().RecordDelete(0, err)
		return err
	}

	size := hdr.size()
	shifted := hdr.count() - i - 1
	if shifted > 0 {
		storage := live(h.block, &hdr)
		copy(storage[i*size:], storage[(i+1)*size:])
	}
	hdr.Count--
	hdr.write(h.block)

	e.env.Metrics().RecordDelete(shifted, nil)
	return nil
}

// DeleteSet removes every element whose index is in set in one compaction pass
// and returns the number removed. If any index is out of range nothing is
// removed.
func (e *Engine) DeleteSet(h Handle, set *roaring.Bitmap) (int, error) {
	const op = "delete_set"

	hdr, err := e.open(op, h)
	if err != nil {
		return 0, err
	}
	if set == nil || set.IsEmpty() {
		return 0, nil
	}

	maxIdx := uint64(set.Maximum())
	if maxIdx >= uint64(hdr.count()) { //nolint:gosec // count is never negative
		idx := int(min(maxIdx, math.MaxInt))
		err := e.indexError(op, idx, &hdr)
		e.env.Metrics().RecordDelete(0, err)
		return 0, err
	}

	size := hdr.size()
	storage := live(h.block, &hdr)
	w, shifted := 0, 0
	for r := 0; r < hdr.count(); r++ {
		if uint64(r) <= maxIdx && set.Contains(uint32(r)) { //nolint:gosec // r <= maxIdx fits uint32
			continue
		}
		if w != r {
			copy(storage[w*size:(w+1)*size], storage[r*size:(r+1)*size])
			shifted++
		}
		w++
	}

	removed := hdr.count() - w
	hdr.Count = conv.IntToInt64(w)
	hdr.write(h.block)

	e.env.Metrics().RecordDelete(shifted, nil)
	return removed, nil
}

// slotSorter sorts fixed-size elements in place.
type slotSorter struct {
	storage []byte
	size    int
	n       int
	cmp     func(a, b []byte) int
	tmp     []byte
}

func (s *slotSorter) Len() int { return s.n }

func (s *slotSorter) Less(i, j int) bool {
	return s.cmp(s.at(i), s.at(j)) < 0
}

func (s *slotSorter) Swap(i, j int) {
	a, b := s.at(i), s.at(j)
	copy(s.tmp, a)
	copy(a, b)
	copy(b, s.tmp)
}

func (s *slotSorter) at(i int) []byte {
	return s.storage[i*s.size : (i+1)*s.size : (i+1)*s.size]
}

// Sort sorts the elements with cmp, which returns a negative number when
// a < b, zero when a == b and a positive number when a > b. The sort is
// stable. cmp must not retain its arguments.
func (e *Engine) Sort(h Handle, cmp func(a, b []byte) int) error {
	const op = "sort"

	hdr, err := e.open(op, h)
	if err != nil {
		return err
	}
	if cmp == nil {
		return e.env.Fail(op, fmt.Errorf("%w: nil comparator", evec.ErrInvalidArgument))
	}

	start := time.Now()
	sort.Stable(&slotSorter{
		storage: live(h.block, &hdr),
		size:    hdr.size(),
		n:       hdr.count(),
		cmp:     cmp,
		tmp:     make([]byte, hdr.size()),
	})

	e.env.Metrics().RecordSort(hdr.count(), time.Since(start))
	return nil
}

// Copy returns an independent vector with the same element size, capacity,
// elements and cursor position.
func (e *Engine) Copy(h Handle) (Handle, error) {
	const op = "copy"

	hdr, err := e.open(op, h)
	if err != nil {
		return Handle{}, err
	}

	n, err := conv.BlockSize(HeaderBytes, hdr.slots(), hdr.size())
	if err != nil {
		e.env.Metrics().RecordCopy(0, err)
		return Handle{}, e.env.Fail(op, evec.NewAllocationError(0, err))
	}
	block, err := allocate(e.alloc, n)
	if err != nil {
		e.env.Metrics().RecordCopy(0, err)
		return Handle{}, e.env.Fail(op, err)
	}

	used := HeaderBytes + hdr.count()*hdr.size()
	copy(block, h.block[:used])
	clear(block[used:])

	e.env.Metrics().RecordCopy(n, nil)
	return Handle{block: block}, nil
}

// Free retires the block and returns it to the allocator. It always returns
// the null handle, so callers can write
//
//	h, err = raw.Free(h)
//
// Free of the null handle is a no-op. Any later use of a handle to the block
// fails with evec.ErrFreed.
func (e *Engine) Free(h Handle) (Handle, error) {
	const op = "free"

	if h.block == nil {
		return Handle{}, nil
	}
	if _, err := e.open(op, h); err != nil {
		return Handle{}, err
	}

	retire(h.block, magicFreed)
	e.alloc.Release(h.block)

	e.env.Logger().LogFree(len(h.block))
	e.env.Metrics().RecordFree()
	return Handle{}, nil
}

// Count returns the number of elements.
func (e *Engine) Count(h Handle) (int, error) {
	hdr, err := e.open("count", h)
	if err != nil {
		return 0, err
	}
	return hdr.count(), nil
}

// SlotCapacity returns the number of allocated slots.
func (e *Engine) SlotCapacity(h Handle) (int, error) {
	hdr, err := e.open("slot_capacity", h)
	if err != nil {
		return 0, err
	}
	return hdr.slots(), nil
}

// ElementSize returns the size of one element in bytes.
func (e *Engine) ElementSize(h Handle) (int, error) {
	hdr, err := e.open("element_size", h)
	if err != nil {
		return 0, err
	}
	return hdr.size(), nil
}

// StorageBytesAllocated returns the bytes held by all slots.
func (e *Engine) StorageBytesAllocated(h Handle) (int, error) {
	hdr, err := e.open("storage_bytes_allocated", h)
	if err != nil {
		return 0, err
	}
	return hdr.slots() * hdr.size(), nil
}

// StorageBytesUsed returns the bytes held by live elements.
func (e *Engine) StorageBytesUsed(h Handle) (int, error) {
	hdr, err := e.open("storage_bytes_used", h)
	if err != nil {
		return 0, err
	}
	return hdr.count() * hdr.size(), nil
}

// TotalBytesAllocated returns the slot storage plus HeaderBytes.
func (e *Engine) TotalBytesAllocated(h Handle) (int, error) {
	hdr, err := e.open("total_bytes_allocated", h)
	if err != nil {
		return 0, err
	}
	return HeaderBytes + hdr.slots()*hdr.size(), nil
}

// Check runs the header integrity check regardless of Config.Pedantic.
func (e *Engine) Check(h Handle) error {
	const op = "check"

	hdr, err := e.open(op, h)
	if err != nil {
		return err
	}
	if err := hdr.validate(len(h.block)); err != nil {
		return e.env.Fail(op, err)
	}
	return nil
}

package raw

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/evec"
)

// Typed access to raw blocks. T must not contain pointers: the garbage
// collector does not scan block storage, so anything referenced only from a
// block may be collected.

func bytesOf[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

func valueSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// PushValue appends the bytes of v. On the null handle it creates a vector of
// unsafe.Sizeof(v)-byte elements.
func PushValue[T any](e *Engine, h Handle, v T) (Handle, error) {
	return e.Push(h, bytesOf(&v))
}

// ValueAt returns a pointer to the element at i viewed as a T.
func ValueAt[T any](e *Engine, h Handle, i int) (*T, error) {
	const op = "value_at"

	b, err := e.Index(h, i)
	if err != nil {
		return nil, err
	}
	if len(b) != valueSize[T]() {
		return nil, e.env.Fail(op, &evec.SizeMismatchError{Expected: len(b), Actual: valueSize[T]()})
	}

	if !alignedFor[T](b) {
		var zero T
		return nil, e.env.Fail(op, fmt.Errorf("%w: element %d is not aligned for %T", evec.ErrInvalidArgument, i, zero))
	}
	return (*T)(unsafe.Pointer(&b[0])), nil
}

func alignedFor[T any](b []byte) bool {
	var zero T
	return len(b) == 0 || uintptr(unsafe.Pointer(&b[0]))%unsafe.Alignof(zero) == 0
}

// SortValues sorts the elements viewed as T with cmp. The sort is stable.
// Element storage must be aligned for T, which HeapAllocator guarantees.
func SortValues[T any](e *Engine, h Handle, cmp func(a, b T) int) error {
	const op = "sort"

	size, err := e.ElementSize(h)
	if err != nil {
		return err
	}
	if size != valueSize[T]() {
		return e.env.Fail(op, &evec.SizeMismatchError{Expected: size, Actual: valueSize[T]()})
	}
	if cmp == nil {
		return e.env.Fail(op, fmt.Errorf("%w: nil comparator", evec.ErrInvalidArgument))
	}
	// element size is a multiple of T's alignment, so one check covers every slot
	if !alignedFor[T](h.Storage()) {
		var zero T
		return e.env.Fail(op, fmt.Errorf("%w: storage is not aligned for %T", evec.ErrInvalidArgument, zero))
	}

	return e.Sort(h, func(a, b []byte) int {
		return cmp(*(*T)(unsafe.Pointer(&a[0])), *(*T)(unsafe.Pointer(&b[0])))
	})
}

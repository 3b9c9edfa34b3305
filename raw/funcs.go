package raw

import "github.com/RoaringBitmap/roaring/v2"

// Package-level operations run on Default().

// Create allocates a vector of elementSize-byte elements with count slots.
func Create(elementSize, count int) (Handle, error) { return Default().Create(elementSize, count) }

// Push appends element. The returned handle must replace h.
func Push(h Handle, element []byte) (Handle, error) { return Default().Push(h, element) }

// Index returns the element at i.
func Index(h Handle, i int) ([]byte, error) { return Default().Index(h, i) }

// Tail returns the last element.
func Tail(h Handle) ([]byte, error) { return Default().Tail(h) }

// Head resets the traversal cursor and returns the first element.
func Head(h Handle) ([]byte, error) { return Default().Head(h) }

// Next advances the traversal cursor and returns the element under it.
func Next(h Handle) ([]byte, error) { return Default().Next(h) }

// Pop removes the last element.
func Pop(h Handle) error { return Default().Pop(h) }

// DeleteAt removes the element at i.
func DeleteAt(h Handle, i int) error { return Default().DeleteAt(h, i) }

// DeleteSet removes every element whose index is in set.
func DeleteSet(h Handle, set *roaring.Bitmap) (int, error) { return Default().DeleteSet(h, set) }

// Sort sorts the elements with cmp.
func Sort(h Handle, cmp func(a, b []byte) int) error { return Default().Sort(h, cmp) }

// Copy returns an independent copy of the vector.
func Copy(h Handle) (Handle, error) { return Default().Copy(h) }

// Free releases the vector and returns the null handle.
func Free(h Handle) (Handle, error) { return Default().Free(h) }

// Count returns the number of elements.
func Count(h Handle) (int, error) { return Default().Count(h) }

// SlotCapacity returns the number of allocated slots.
func SlotCapacity(h Handle) (int, error) { return Default().SlotCapacity(h) }

// ElementSize returns the size of one element in bytes.
func ElementSize(h Handle) (int, error) { return Default().ElementSize(h) }

// StorageBytesAllocated returns the bytes held by all slots.
func StorageBytesAllocated(h Handle) (int, error) { return Default().StorageBytesAllocated(h) }

// StorageBytesUsed returns the bytes held by live elements.
func StorageBytesUsed(h Handle) (int, error) { return Default().StorageBytesUsed(h) }

// TotalBytesAllocated returns the slot storage plus HeaderBytes.
func TotalBytesAllocated(h Handle) (int, error) { return Default().TotalBytesAllocated(h) }

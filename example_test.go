package evec_test

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"log"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/evec"
	"github.com/hupe1980/evec/raw"
)

// Example_sortAndDedupe sorts a vector and removes adjacent duplicates.
func Example_sortAndDedupe() {
	v, err := evec.New[int](evec.WithLogger(evec.NoopLogger()))
	if err != nil {
		log.Fatal(err)
	}
	defer v.Free()

	_ = v.PushAll(6, 4, 2, 2, 4, 6)
	_ = v.Sort(cmp.Compare[int])

	for i := 1; i < v.Len(); {
		prev, _ := v.At(i - 1)
		cur, _ := v.At(i)
		if prev == cur {
			_ = v.DeleteAt(i)
			continue
		}
		i++
	}

	fmt.Println(v.Slice())
	// Output: [2 4 6]
}

// Example_cursor walks a vector with an external cursor.
func Example_cursor() {
	v, _ := evec.New[string](evec.WithLogger(evec.NoopLogger()))
	_ = v.PushAll("a", "b", "c")

	c := v.Cursor()
	for p, ok := c.Head(); ok; p, ok = c.Next() {
		fmt.Print(*p)
	}
	fmt.Println()
	fmt.Println(c.Err())
	// Output:
	// abc
	// <nil>
}

// Example_deleteSet removes a batch of indices in one pass.
func Example_deleteSet() {
	v, _ := evec.New[int](evec.WithLogger(evec.NoopLogger()))
	_ = v.PushAll(10, 11, 12, 13, 14, 15)

	removed, _ := v.DeleteSet(roaring.BitmapOf(0, 2, 5))

	fmt.Println(removed, v.Slice())
	// Output: 3 [11 13 14]
}

// Example_memoryBudget shows an allocation failure from a memory limit.
func Example_memoryBudget() {
	v, _ := evec.NewWithCapacity[int64](8,
		evec.WithMemoryLimit(64),
		evec.WithLogger(evec.NoopLogger()),
	)
	for i := range 8 {
		_ = v.Push(int64(i))
	}

	err := v.Push(8)
	fmt.Println(errors.Is(err, evec.ErrAllocation), v.Len(), v.Cap())
	// Output: true 8 8
}

// Example_raw stores uint32 elements in a raw block.
func Example_raw() {
	e, err := raw.NewEngine(evec.WithLogger(evec.NoopLogger()))
	if err != nil {
		log.Fatal(err)
	}

	var h raw.Handle
	for _, x := range []uint32{3, 1, 2} {
		b := binary.LittleEndian.AppendUint32(nil, x)
		if h, err = e.Push(h, b); err != nil {
			log.Fatal(err)
		}
	}

	_ = raw.SortValues(e, h, cmp.Compare[uint32])

	var xs []any
	for b, _ := e.Head(h); b != nil; b, _ = e.Next(h) {
		xs = append(xs, binary.LittleEndian.Uint32(b))
	}
	fmt.Println(xs...)

	n, _ := e.Count(h)
	slots, _ := e.SlotCapacity(h)
	total, _ := e.TotalBytesAllocated(h)
	fmt.Println(n, slots, total)

	h, _ = e.Free(h)
	fmt.Println(h.IsNil())
	// Output:
	// 1 2 3
	// 3 8 80
	// true
}

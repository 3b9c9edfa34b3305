// Package raw implements growable vectors of fixed-size byte elements whose
// accounting header lives in the same block as the elements.
//
// # Block Layout
//
// Every vector is one block:
//
//	offset  field          encoding
//	0       magic1         "EVMAGIC\x00"
//	8       element_size   int64 LE
//	16      element_count  int64 LE
//	24      slot_count     int64 LE
//	32      cursor_index   int64 LE, -1 before the first Head
//	40      magic2         "MAGICEV\x00"
//	48      element storage, slot_count * element_size bytes
//
// A Handle refers to the block; Handle.Storage is the element storage, so the
// elements can be handed to code that expects a plain contiguous array.
//
// # Handles
//
// Operations that may move the block return the handle to use afterwards:
//
//	var h raw.Handle
//	for _, x := range []uint32{3, 1, 2} {
//	    var b [4]byte
//	    binary.LittleEndian.PutUint32(b[:], x)
//	    if h, err = raw.Push(h, b[:]); err != nil {
//	        return err
//	    }
//	}
//	defer raw.Free(h)
//
// When a block is grown away from or freed, its magic1 is overwritten with
// "EVMOVED" or "EVFREED". Using another copy of the old handle then fails with
// evec.ErrStaleHandle or evec.ErrFreed instead of touching retired memory.
//
// # Integrity Checks
//
// With Config.Pedantic every entry point validates the header: both magic
// numbers, non-negative fields, element_count <= slot_count and a block large
// enough for slot_count elements. A failure is an evec.CorruptionError.
//
// # Typed Access
//
// PushValue, ValueAt and SortValues view elements as a pointer-free Go type.
// Blocks from HeapAllocator are 64-byte aligned and storage starts at a
// multiple of 8, so any such type is properly aligned.
package raw

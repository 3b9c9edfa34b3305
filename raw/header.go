package raw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/hupe1980/evec"
	"github.com/hupe1980/evec/internal/conv"
	"github.com/hupe1980/evec/internal/mem"
)

// Header layout. All integer fields are little-endian int64.
const (
	offMagic1      = 0
	offElementSize = 8
	offCount       = 16
	offSlots       = 24
	offCursor      = 32
	offMagic2      = 40
	headerSize     = 48

	// HeaderBytes is the header size rounded up to mem.WordSize. Element
	// storage starts at this offset in every block.
	HeaderBytes = (headerSize + mem.WordSize - 1) &^ (mem.WordSize - 1)
)

// noCursor is the cursor value of a block on which Head was never called.
const noCursor = -1

// Sentinels are plain ASCII so a block is easy to spot in a hexdump.
var (
	magic1     = [8]byte{'E', 'V', 'M', 'A', 'G', 'I', 'C', 0}
	magic2     = [8]byte{'M', 'A', 'G', 'I', 'C', 'E', 'V', 0}
	magicMoved = [8]byte{'E', 'V', 'M', 'O', 'V', 'E', 'D', 0}
	magicFreed = [8]byte{'E', 'V', 'F', 'R', 'E', 'E', 'D', 0}
)

// header is the decoded accounting record at the start of a block.
type header struct {
	Magic1      [8]byte
	ElementSize int64
	Count       int64
	Slots       int64
	Cursor      int64
	Magic2      [8]byte
}

func newHeader(elementSize, slots int) header {
	return header{
		Magic1:      magic1,
		ElementSize: conv.IntToInt64(elementSize),
		Slots:       conv.IntToInt64(slots),
		Cursor:      noCursor,
		Magic2:      magic2,
	}
}

func readHeader(b []byte) header {
	var h header
	copy(h.Magic1[:], b[offMagic1:offMagic1+8])
	h.ElementSize = int64(binary.LittleEndian.Uint64(b[offElementSize:])) //nolint:gosec // round-trip of an int64
	h.Count = int64(binary.LittleEndian.Uint64(b[offCount:]))             //nolint:gosec // round-trip of an int64
	h.Slots = int64(binary.LittleEndian.Uint64(b[offSlots:]))             //nolint:gosec // round-trip of an int64
	h.Cursor = int64(binary.LittleEndian.Uint64(b[offCursor:]))           //nolint:gosec // round-trip of an int64
	copy(h.Magic2[:], b[offMagic2:offMagic2+8])
	return h
}

func (h *header) write(b []byte) {
	copy(b[offMagic1:], h.Magic1[:])
	binary.LittleEndian.PutUint64(b[offElementSize:], uint64(h.ElementSize)) //nolint:gosec // round-trip of an int64
	binary.LittleEndian.PutUint64(b[offCount:], uint64(h.Count))             //nolint:gosec // round-trip of an int64
	binary.LittleEndian.PutUint64(b[offSlots:], uint64(h.Slots))             //nolint:gosec // round-trip of an int64
	binary.LittleEndian.PutUint64(b[offCursor:], uint64(h.Cursor))           //nolint:gosec // round-trip of an int64
	copy(b[offMagic2:], h.Magic2[:])
}

func (h *header) size() int   { return int(h.ElementSize) }
func (h *header) count() int  { return int(h.Count) }
func (h *header) slots() int  { return int(h.Slots) }
func (h *header) cursor() int { return int(h.Cursor) }

// retired reports the usage error for a block that was grown away from or
// freed, or nil for a live block.
func (h *header) retired() error {
	switch h.Magic1 {
	case magicMoved:
		return evec.ErrStaleHandle
	case magicFreed:
		return evec.ErrFreed
	}
	return nil
}

// validate checks the sentinels and field ranges against a block of blockLen bytes.
func (h *header) validate(blockLen int) error {
	if h.Magic1 != magic1 {
		return &evec.CorruptionError{Field: "magic1", Reason: fmt.Sprintf("expected %q, found %q", magic1[:7], trimMagic(h.Magic1))}
	}
	if h.Magic2 != magic2 {
		return &evec.CorruptionError{Field: "magic2", Reason: fmt.Sprintf("expected %q, found %q", magic2[:7], trimMagic(h.Magic2))}
	}
	if h.ElementSize <= 0 {
		return &evec.CorruptionError{Field: "element_size", Reason: fmt.Sprintf("must be positive, found %d", h.ElementSize)}
	}
	if h.Count < 0 {
		return &evec.CorruptionError{Field: "element_count", Reason: fmt.Sprintf("cannot be less than zero, found %d", h.Count)}
	}
	if h.Slots < 0 {
		return &evec.CorruptionError{Field: "slot_count", Reason: fmt.Sprintf("cannot be less than zero, found %d", h.Slots)}
	}
	if h.Cursor < noCursor {
		return &evec.CorruptionError{Field: "cursor_index", Reason: fmt.Sprintf("cannot be less than %d, found %d", noCursor, h.Cursor)}
	}
	if h.Count > h.Slots {
		return &evec.CorruptionError{Field: "element_count", Reason: fmt.Sprintf("more items (%d) than there is space (%d)", h.Count, h.Slots)}
	}

	size, err := conv.Int64ToInt(h.ElementSize)
	if err != nil {
		return &evec.CorruptionError{Field: "element_size", Reason: err.Error()}
	}
	slots, err := conv.Int64ToInt(h.Slots)
	if err != nil {
		return &evec.CorruptionError{Field: "slot_count", Reason: err.Error()}
	}
	need, err := conv.BlockSize(HeaderBytes, slots, size)
	if err != nil {
		return &evec.CorruptionError{Field: "slot_count", Reason: err.Error()}
	}
	if need > blockLen {
		return &evec.CorruptionError{Field: "slot_count", Reason: fmt.Sprintf("block holds %dB, header claims %dB", blockLen, need)}
	}
	return nil
}

func trimMagic(m [8]byte) string {
	return string(bytes.TrimRight(m[:], "\x00"))
}

// LogValue implements slog.LogValuer, so a handle logs as its header.
func (h Handle) LogValue() slog.Value {
	if h.block == nil {
		return slog.StringValue("nil")
	}
	if len(h.block) < HeaderBytes {
		return slog.StringValue("truncated")
	}
	hdr := readHeader(h.block)
	return slog.GroupValue(
		slog.String("magic1", trimMagic(hdr.Magic1)),
		slog.Int64("element_size", hdr.ElementSize),
		slog.Int64("slot_count", hdr.Slots),
		slog.Int64("element_count", hdr.Count),
		slog.Int64("cursor_index", hdr.Cursor),
		slog.String("magic2", trimMagic(hdr.Magic2)),
	)
}

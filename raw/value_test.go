package raw

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/evec"
	"github.com/hupe1980/evec/internal/mem"
	"github.com/hupe1980/evec/testutil"
)

type record struct {
	Key uint32
	Seq uint32
	Val float64
}

func TestValues(t *testing.T) {
	e := newTestEngine(t)

	t.Run("PushAndRead", func(t *testing.T) {
		var h Handle
		var err error
		for i := range 20 {
			h, err = PushValue(e, h, record{Key: uint32(i), Val: float64(i) / 2})
			require.NoError(t, err)
		}

		size, err := e.ElementSize(h)
		require.NoError(t, err)
		assert.Equal(t, 16, size)

		r, err := ValueAt[record](e, h, 7)
		require.NoError(t, err)
		assert.Equal(t, uint32(7), r.Key)
		assert.InDelta(t, 3.5, r.Val, 1e-9)

		// the pointer aliases the block
		r.Val = 100
		again, err := ValueAt[record](e, h, 7)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, again.Val, 1e-9)
	})

	t.Run("WrongType", func(t *testing.T) {
		h, err := PushValue(e, Handle{}, uint32(1))
		require.NoError(t, err)

		_, err = ValueAt[uint64](e, h, 0)
		assert.ErrorIs(t, err, evec.ErrSizeMismatch)

		_, err = PushValue(e, h, uint64(1))
		assert.ErrorIs(t, err, evec.ErrSizeMismatch)

		err = SortValues(e, h, func(a, b uint16) int { return cmp.Compare(a, b) })
		assert.ErrorIs(t, err, evec.ErrSizeMismatch)

		_, err = ValueAt[uint32](e, h, 1)
		assert.ErrorIs(t, err, evec.ErrIndex)
	})

	t.Run("StableSort", func(t *testing.T) {
		keys := testutil.NewRNG(99).SkewedInts(400, 5, 1.5)

		var h Handle
		var err error
		for i, k := range keys {
			h, err = PushValue(e, h, record{Key: uint32(k), Seq: uint32(i)})
			require.NoError(t, err)
		}

		require.NoError(t, SortValues(e, h, func(a, b record) int {
			return cmp.Compare(a.Key, b.Key)
		}))

		prev, err := ValueAt[record](e, h, 0)
		require.NoError(t, err)
		for i := 1; i < len(keys); i++ {
			cur, err := ValueAt[record](e, h, i)
			require.NoError(t, err)
			require.LessOrEqual(t, prev.Key, cur.Key)
			if prev.Key == cur.Key {
				require.Less(t, prev.Seq, cur.Seq, "equal keys must keep insertion order")
			}
			prev = cur
		}
	})

	t.Run("Misaligned", func(t *testing.T) {
		me, err := NewEngineWithAllocator(offsetAllocator{}, evec.WithLogger(evec.NoopLogger()))
		require.NoError(t, err)

		var h Handle
		for _, x := range []uint64{3, 1, 2} {
			h, err = PushValue(me, h, x)
			require.NoError(t, err)
		}

		_, err = ValueAt[uint64](me, h, 0)
		assert.ErrorIs(t, err, evec.ErrInvalidArgument)

		err = SortValues(me, h, cmp.Compare[uint64])
		assert.ErrorIs(t, err, evec.ErrInvalidArgument)
	})

	t.Run("NilComparator", func(t *testing.T) {
		h, err := PushValue(e, Handle{}, uint32(1))
		require.NoError(t, err)
		assert.ErrorIs(t, SortValues[uint32](e, h, nil), evec.ErrInvalidArgument)
	})
}

// offsetAllocator hands out blocks one byte past an aligned address.
type offsetAllocator struct{}

func (offsetAllocator) Allocate(size int) ([]byte, error) {
	return mem.AllocAligned(size + 1)[1:], nil
}

func (offsetAllocator) Release([]byte) {}

//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64ToInt(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := Int64ToInt(0)
		assert.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("valid negative", func(t *testing.T) {
		got, err := Int64ToInt(-1)
		assert.NoError(t, err)
		assert.Equal(t, -1, got)
	})

	t.Run("valid max", func(t *testing.T) {
		got, err := Int64ToInt(math.MaxInt64)
		assert.NoError(t, err)
		assert.Equal(t, math.MaxInt, got)
	})
}

func TestIntToInt64(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt), IntToInt64(math.MaxInt))
	assert.Equal(t, int64(-1), IntToInt64(-1))
}

func TestMulInt(t *testing.T) {
	got, err := MulInt(8, 4)
	assert.NoError(t, err)
	assert.Equal(t, 32, got)

	got, err = MulInt(0, math.MaxInt)
	assert.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = MulInt(math.MaxInt/2+1, 2)
	assert.Error(t, err)

	_, err = MulInt(-1, 2)
	assert.Error(t, err)
}

func TestAddInt(t *testing.T) {
	got, err := AddInt(48, 32)
	assert.NoError(t, err)
	assert.Equal(t, 80, got)

	_, err = AddInt(math.MaxInt, 1)
	assert.Error(t, err)
}

func TestBlockSize(t *testing.T) {
	got, err := BlockSize(48, 8, 4)
	assert.NoError(t, err)
	assert.Equal(t, 80, got)

	_, err = BlockSize(48, math.MaxInt/2, 4)
	assert.Error(t, err)
}

package raw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/evec"
	"github.com/hupe1980/evec/internal/mem"
	"github.com/hupe1980/evec/resource"
)

func TestHeapAllocator(t *testing.T) {
	var a HeapAllocator

	b, err := a.Allocate(100)
	require.NoError(t, err)
	assert.Len(t, b, 100)
	assert.Equal(t, 100, cap(b))
	assert.True(t, mem.IsAligned(b, mem.Alignment))

	_, err = a.Allocate(0)
	assert.Error(t, err)

	a.Release(b)
}

func TestBudgetAllocator(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	a := NewBudgetAllocator(nil, rc)

	b1, err := a.Allocate(60)
	require.NoError(t, err)
	assert.Equal(t, int64(60), rc.MemoryUsage())

	_, err = a.Allocate(60)
	assert.ErrorIs(t, err, evec.ErrAllocation)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, int64(60), rc.MemoryUsage())

	a.Release(b1)
	assert.Zero(t, rc.MemoryUsage())

	b2, err := a.Allocate(100)
	require.NoError(t, err)
	a.Release(b2)

	t.Run("UpstreamFailure", func(t *testing.T) {
		a := NewBudgetAllocator(failingAllocator{short: true}, rc)

		_, err := a.Allocate(10)
		assert.Error(t, err)
		assert.Zero(t, rc.MemoryUsage())
	})
}

func TestEngineSharesBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})

	e1 := newTestEngine(t, evec.WithMemoryController(rc))
	e2 := newTestEngine(t, evec.WithMemoryController(rc))

	h1, err := e1.Create(8, 10)
	require.NoError(t, err)
	h2, err := e2.Create(8, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2*(HeaderBytes+80)), rc.MemoryUsage())

	_, err = e1.Free(h1)
	require.NoError(t, err)
	_, err = e2.Free(h2)
	require.NoError(t, err)
	assert.Zero(t, rc.MemoryUsage())
}

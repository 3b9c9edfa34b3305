package evec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Collectors may be shared by many vectors and must be safe for concurrent use.
type MetricsCollector interface {
	// RecordPush is called after each push. grew reports whether the push
	// reallocated the backing storage.
	RecordPush(grew bool, err error)

	// RecordGrow is called after each successful reallocation.
	RecordGrow(oldSlots, newSlots int)

	// RecordDelete is called after each DeleteAt, DeleteSet or Pop. shifted is
	// the number of elements moved to close the gap.
	RecordDelete(shifted int, err error)

	// RecordSort is called after each sort of n elements.
	RecordSort(n int, duration time.Duration)

	// RecordCopy is called after each copy. bytes is the size of the new storage.
	RecordCopy(bytes int, err error)

	// RecordFree is called after each successful free.
	RecordFree()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPush(bool, error)        {}
func (NoopMetricsCollector) RecordGrow(int, int)           {}
func (NoopMetricsCollector) RecordDelete(int, error)       {}
func (NoopMetricsCollector) RecordSort(int, time.Duration) {}
func (NoopMetricsCollector) RecordCopy(int, error)         {}
func (NoopMetricsCollector) RecordFree()                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PushCount      atomic.Int64
	PushErrors     atomic.Int64
	GrowCount      atomic.Int64
	SlotsGrown     atomic.Int64
	DeleteCount    atomic.Int64
	DeleteErrors   atomic.Int64
	ShiftedTotal   atomic.Int64
	SortCount      atomic.Int64
	SortedItems    atomic.Int64
	SortTotalNanos atomic.Int64
	CopyCount      atomic.Int64
	CopyErrors     atomic.Int64
	CopiedBytes    atomic.Int64
	FreeCount      atomic.Int64
}

// RecordPush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPush(_ bool, err error) {
	b.PushCount.Add(1)
	if err != nil {
		b.PushErrors.Add(1)
	}
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(oldSlots, newSlots int) {
	b.GrowCount.Add(1)
	b.SlotsGrown.Add(int64(newSlots - oldSlots))
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(shifted int, err error) {
	b.DeleteCount.Add(1)
	b.ShiftedTotal.Add(int64(shifted))
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordSort implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSort(n int, duration time.Duration) {
	b.SortCount.Add(1)
	b.SortedItems.Add(int64(n))
	b.SortTotalNanos.Add(duration.Nanoseconds())
}

// RecordCopy implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCopy(bytes int, err error) {
	b.CopyCount.Add(1)
	if err != nil {
		b.CopyErrors.Add(1)
		return
	}
	b.CopiedBytes.Add(int64(bytes))
}

// RecordFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFree() {
	b.FreeCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PushCount:    b.PushCount.Load(),
		PushErrors:   b.PushErrors.Load(),
		GrowCount:    b.GrowCount.Load(),
		SlotsGrown:   b.SlotsGrown.Load(),
		DeleteCount:  b.DeleteCount.Load(),
		DeleteErrors: b.DeleteErrors.Load(),
		ShiftedTotal: b.ShiftedTotal.Load(),
		SortCount:    b.SortCount.Load(),
		SortedItems:  b.SortedItems.Load(),
		SortAvgNanos: b.getAvgSortNanos(),
		CopyCount:    b.CopyCount.Load(),
		CopyErrors:   b.CopyErrors.Load(),
		CopiedBytes:  b.CopiedBytes.Load(),
		FreeCount:    b.FreeCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSortNanos() int64 {
	count := b.SortCount.Load()
	if count == 0 {
		return 0
	}
	return b.SortTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PushCount    int64
	PushErrors   int64
	GrowCount    int64
	SlotsGrown   int64
	DeleteCount  int64
	DeleteErrors int64
	ShiftedTotal int64
	SortCount    int64
	SortedItems  int64
	SortAvgNanos int64
	CopyCount    int64
	CopyErrors   int64
	CopiedBytes  int64
	FreeCount    int64
}

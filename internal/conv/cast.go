package conv

import (
	"fmt"
	"math"
)

// IntToInt64 converts int to int64. It never fails on supported platforms but
// keeps call sites symmetric with Int64ToInt.
func IntToInt64(v int) int64 {
	return int64(v)
}

// Int64ToInt converts int64 to int safely.
func Int64ToInt(v int64) (int, error) {
	if v > int64(math.MaxInt) || v < int64(math.MinInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int", v)
	}
	return int(v), nil
}

// MulInt returns a*b for non-negative operands, failing instead of wrapping.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("negative operand: %d * %d", a, b)
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d exceeds int", a, b)
	}
	return a * b, nil
}

// AddInt returns a+b for non-negative operands, failing instead of wrapping.
func AddInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("negative operand: %d + %d", a, b)
	}
	if a > math.MaxInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d exceeds int", a, b)
	}
	return a + b, nil
}

// BlockSize returns header + slots*elemSize, the byte size of a backing block.
func BlockSize(header, slots, elemSize int) (int, error) {
	storage, err := MulInt(slots, elemSize)
	if err != nil {
		return 0, err
	}
	return AddInt(header, storage)
}

// Package safe provides numeric conversions with range checks for values crossing the
// boundary between unsigned chain quantities and signed database columns.
package safe

import (
	"fmt"
	"math"
)

// Int64 converts unsigned chain quantities to int64 for BIGINT columns.
func Int64[T ~uint | ~uint16 | ~uint32 | ~uint64](v T) (int64, error) {
	if uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of int64 range", v)
	}
	return int64(v), nil
}

// Int32 converts integers to int32 for INTEGER columns.
func Int32[T ~int | ~int64 | ~uint | ~uint64](v T) (int32, error) {
	switch value := any(v).(type) {
	case int:
		if value < math.MinInt32 || value > math.MaxInt32 {
			return 0, fmt.Errorf("value %d out of int32 range", v)
		}
	case int64:
		if value < math.MinInt32 || value > math.MaxInt32 {
			return 0, fmt.Errorf("value %d out of int32 range", v)
		}
	case uint:
		if uint64(value) > math.MaxInt32 {
			return 0, fmt.Errorf("value %d out of int32 range", v)
		}
	case uint64:
		if value > math.MaxInt32 {
			return 0, fmt.Errorf("value %d out of int32 range", v)
		}
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	return int32(v), nil
}

// Uint64 converts values scanned from signed columns back to uint64, rejecting negatives.
func Uint64[T ~int | ~int32 | ~int64](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}

// Int64Ptr converts an optional unsigned value, keeping nil as nil.
func Int64Ptr(v *uint64) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	out, err := Int64(*v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

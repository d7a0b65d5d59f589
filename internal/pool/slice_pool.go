package pool

import "sync"

var float64SlicePool = sync.Pool{
	New: func() any { return &[]float64{} },
}

// GetFloat64Slice retrieves a zero-length float64 slice with at least the given
// capacity from the pool.
//
// The caller must call the returned cleanup function once the slice is no longer
// referenced.
//
// Example:
//
//	present, cleanup := pool.GetFloat64Slice(n)
//	defer cleanup()
func GetFloat64Slice(capacity int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]

	if cap(slice) < capacity {
		slice = make([]float64, 0, capacity)
	}
	*ptr = slice

	return slice, func() { float64SlicePool.Put(ptr) }
}

// Package atomix provides single-word atomic stores with an explicit
// memory-ordering selector.
//
// The ordering is a property of the individual store, not of the location.
// A Releasing store establishes a release edge: another goroutine whose
// matching acquiring load observes the stored value is guaranteed to also
// observe every write made before the store. A Relaxed store promises only
// the store itself; absent other synchronization a concurrent reader may
// observe the new value without the prior writes, or a stale value
// indefinitely. In a single goroutine the two are indistinguishable.
//
// Stores never block and never fail. They supply ordering, not mutual
// exclusion: unarbitrated concurrent stores to one location remain a data
// race at the value level.
package atomix

import (
	"sync/atomic"
	"unsafe"
)

// Ordering selects the memory-ordering discipline of a single store.
type Ordering int

const (
	// Relaxed guarantees atomicity of the store and nothing about the
	// visibility of surrounding writes.
	Relaxed Ordering = iota

	// Releasing additionally publishes every prior write of the storing
	// goroutine to any observer that acquires the stored value.
	Releasing
)

func (o Ordering) String() string {
	switch o {
	case Relaxed:
		return "relaxed"
	case Releasing:
		return "releasing"
	default:
		return "unknown"
	}
}

// All stores go through sync/atomic regardless of ordering. Go's atomics
// are sequentially consistent, which satisfies Releasing and is a permitted
// (stronger) mapping for Relaxed; the Ordering parameter keeps the contract
// explicit at call sites and leaves headroom for weaker mappings should the
// runtime ever expose them.

// StoreUint32 atomically stores v into addr with the given ordering.
func StoreUint32(addr *uint32, v uint32, _ Ordering) {
	atomic.StoreUint32(addr, v)
}

// StoreUint64 atomically stores v into addr with the given ordering.
func StoreUint64(addr *uint64, v uint64, _ Ordering) {
	atomic.StoreUint64(addr, v)
}

// StoreInt32 atomically stores v into addr with the given ordering.
func StoreInt32(addr *int32, v int32, _ Ordering) {
	atomic.StoreInt32(addr, v)
}

// StoreInt64 atomically stores v into addr with the given ordering.
func StoreInt64(addr *int64, v int64, _ Ordering) {
	atomic.StoreInt64(addr, v)
}

// StoreUintptr atomically stores v into addr with the given ordering.
func StoreUintptr(addr *uintptr, v uintptr, _ Ordering) {
	atomic.StoreUintptr(addr, v)
}

// StorePointer atomically stores v into addr with the given ordering.
func StorePointer(addr *unsafe.Pointer, v unsafe.Pointer, _ Ordering) {
	atomic.StorePointer(addr, v)
}

// Package mmap provides anonymous and descriptor-backed virtual memory
// regions with explicit protection, sharing and flush semantics.
//
// A Region is created by Map (anonymous) or MapDescriptor (backed by an
// open descriptor) and destroyed exactly once by Unmap; a second Unmap
// fails with ErrNotMapped instead of corrupting memory. Lengths are rounded
// up to the page size before any syscall, so a Region's Len is always the
// page-aligned ceiling of the request.
//
// Protection violations are hardware faults, not recoverable errors: a
// write through a read-only Region kills the process. This is a documented
// limitation of virtual-memory protection on every platform.
package mmap

import (
	"math"
	"os"
	"strconv"
	"unsafe"
)

// pageSize is cached at init to avoid syscall overhead.
var pageSize = os.Getpagesize()

// PageSize returns the platform's virtual-memory page size.
func PageSize() int {
	return pageSize
}

// Prot is a bitmask of access rights for a Region.
type Prot uint8

const (
	ProtRead Prot = 1 << iota
	ProtWrite
	ProtExec
)

// ProtDefault is read/write, the default protection for Map.
const ProtDefault = ProtRead | ProtWrite

func (p Prot) String() string {
	buf := [3]byte{'-', '-', '-'}
	if p&ProtRead != 0 {
		buf[0] = 'r'
	}
	if p&ProtWrite != 0 {
		buf[1] = 'w'
	}
	if p&ProtExec != 0 {
		buf[2] = 'x'
	}
	return string(buf[:])
}

// SyncFlags is a bitmask controlling Region.Sync. The three bits are
// independent and combine with bitwise OR; two values with the same bits
// are interchangeable (the type is comparable and hashes by its raw bits).
type SyncFlags uint8

const (
	// SyncSync blocks until the flush completes.
	SyncSync SyncFlags = 1 << iota

	// SyncAsync schedules the flush and returns immediately.
	SyncAsync

	// SyncInvalidate additionally discards other mappings' stale cached
	// copies, forcing a re-read on their next access.
	SyncInvalidate
)

// Raw returns the underlying bit pattern.
func (f SyncFlags) Raw() uint8 {
	return uint8(f)
}

// Has reports whether every bit of other is set in f.
func (f SyncFlags) Has(other SyncFlags) bool {
	return f&other == other
}

func (f SyncFlags) String() string {
	s := ""
	if f.Has(SyncSync) {
		s += "sync|"
	}
	if f.Has(SyncAsync) {
		s += "async|"
	}
	if f.Has(SyncInvalidate) {
		s += "invalidate|"
	}
	if s == "" {
		return "none"
	}
	return s[:len(s)-1]
}

// ErrorCode classifies a mapping failure. Codes are themselves errors so
// call sites can match with errors.Is.
type ErrorCode int

const (
	// ErrInvalidLength indicates a zero, negative or overflowing length,
	// or a misaligned offset. Always a caller bug; not worth retrying.
	ErrInvalidLength ErrorCode = iota + 1

	// ErrOutOfMemory indicates address space or memory-limit exhaustion.
	ErrOutOfMemory

	// ErrPermissionDenied indicates the requested protection or locking
	// was refused.
	ErrPermissionDenied

	// ErrNotMapped indicates an operation on a Region that is no longer
	// (or was never) mapped, including a second Unmap.
	ErrNotMapped

	// ErrUnknown carries an unclassified platform error; the original
	// errno remains reachable through Unwrap.
	ErrUnknown
)

func (c ErrorCode) Error() string {
	switch c {
	case ErrInvalidLength:
		return "invalid length"
	case ErrOutOfMemory:
		return "out of memory"
	case ErrPermissionDenied:
		return "permission denied"
	case ErrNotMapped:
		return "not mapped"
	case ErrUnknown:
		return "unknown error"
	default:
		return "error code " + strconv.Itoa(int(c))
	}
}

// Error is a mapping failure with operation context.
type Error struct {
	Op   string
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "mmap: " + e.Op + ": " + e.Code.Error() + ": " + e.Err.Error()
	}
	return "mmap: " + e.Op + ": " + e.Code.Error()
}

// Is reports whether e matches target, so errors.Is(err, ErrNotMapped)
// works on wrapped failures.
func (e *Error) Is(target error) bool {
	if c, ok := target.(ErrorCode); ok {
		return e.Code == c
	}
	return false
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Region represents a mapped virtual-memory extent. The base address is
// exclusively owned by the Region until Unmap; using Data after Unmap is
// undefined behavior. Regions carry no locking: sharing one across
// goroutines is the caller's synchronization problem.
type Region struct {
	data   []byte // Mapped memory, nil once unmapped
	length int    // Page-aligned length in bytes
	prot   Prot   // Protection fixed at creation
	shared bool   // Shared-vs-private, fixed at creation
	fd     int    // Backing descriptor, -1 for anonymous
	off    int64  // Offset into the backing object
	// Windows-specific mapping-object handle (zero on Unix and for
	// VirtualAlloc-backed anonymous private regions)
	mapping uintptr
}

// Data returns the mapped byte slice.
func (r *Region) Data() []byte {
	return r.data
}

// Len returns the mapped length: the page-aligned ceiling of the length
// requested at creation.
func (r *Region) Len() int {
	return r.length
}

// Addr returns the base address of the mapping, zero once unmapped.
func (r *Region) Addr() uintptr {
	if r.data == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(&r.data[0]))
}

// Prot returns the protection the Region was created with.
func (r *Region) Prot() Prot {
	return r.prot
}

// Shared reports whether modifications are visible to other mappings of
// the same underlying object.
func (r *Region) Shared() bool {
	return r.shared
}

// Mapped reports whether the Region still owns its address range.
func (r *Region) Mapped() bool {
	return r.data != nil
}

// alignLength validates a requested length and rounds it up to the page
// size. Zero and negative lengths are rejected before any syscall, as is a
// request whose ceiling would overflow.
func alignLength(op string, length int) (int, error) {
	if length <= 0 {
		return 0, &Error{Op: op, Code: ErrInvalidLength}
	}
	if length > math.MaxInt-pageSize+1 {
		return 0, &Error{Op: op, Code: ErrInvalidLength}
	}
	if rem := length % pageSize; rem != 0 {
		length += pageSize - rem
	}
	return length, nil
}

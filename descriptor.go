package sysraw

import "os"

// Descriptor is an opaque handle to a live OS-managed resource (an open
// file, a mapping object, a shared-memory segment). It wraps the platform
// representation (an integer fd on Unix, a HANDLE on Windows) without
// owning it: closing the underlying resource is the creator's job, and a
// Descriptor held past that point is dead.
//
// Descriptors are plain values. They carry no locking; moving one across
// goroutines is safe, using one concurrently requires the caller's own
// synchronization discipline.
type Descriptor struct {
	raw int
}

// NewDescriptor wraps a raw platform handle.
func NewDescriptor(raw int) Descriptor {
	return Descriptor{raw: raw}
}

// FileDescriptor wraps the handle of an open os.File. The file retains
// ownership; the returned Descriptor dies when the file is closed.
func FileDescriptor(f *os.File) Descriptor {
	if f == nil {
		return Descriptor{raw: -1}
	}
	return Descriptor{raw: int(f.Fd())}
}

// Raw returns the platform handle value.
func (d Descriptor) Raw() int {
	return d.raw
}

// Validity classifies the result of probing a Descriptor for liveness.
type Validity int

const (
	// Valid means the handle is not obviously dead. Handle reuse after
	// close makes true liveness unknowable on every platform; this is the
	// strongest promise the probe can make.
	Valid Validity = iota

	// Closed means the handle was plausibly open once and is not anymore.
	Closed

	// Exhausted means the handle value lies at or beyond the process
	// descriptor limit and can never have been issued.
	Exhausted

	// NeverOpened means the value is not a handle at all (negative,
	// or the platform's invalid-handle sentinel).
	NeverOpened
)

// Ok reports whether the descriptor passed the liveness probe.
func (v Validity) Ok() bool {
	return v == Valid
}

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Closed:
		return "closed"
	case Exhausted:
		return "exhausted"
	case NeverOpened:
		return "never opened"
	default:
		return "unknown"
	}
}

// Err maps a negative Validity to its descriptor-level error, nil for Valid.
func (v Validity) Err() error {
	switch v {
	case Valid:
		return nil
	case Closed:
		return ErrClosed
	case Exhausted:
		return ErrExhausted
	default:
		return ErrInvalid
	}
}

// Package shm provides anonymous shared-memory segments: file descriptors
// backed by memory instead of a filesystem, made for handle-duplication
// sharing. A Segment maps through mmap with shared=true; every mapping of
// the same Segment sees the same bytes.
//
// Linux backs segments with memfd_create. Darwin's shm_open is libc-only
// (unreachable without cgo) and Windows uses named mapping objects with a
// different lifetime model, so Create reports ErrUnsupported there.
package shm

import (
	"errors"
	"os"

	sysraw "github.com/sysraw/sysraw"
	"github.com/sysraw/sysraw/mmap"
)

var (
	// ErrUnsupported means this platform has no usable anonymous
	// shared-memory primitive.
	ErrUnsupported = errors.New("shm: not supported on this platform")

	// ErrInvalidSize rejects non-positive segment sizes.
	ErrInvalidSize = errors.New("shm: invalid size")

	// ErrClosed reports a second Close or use after Close.
	ErrClosed = errors.New("shm: segment closed")
)

// Segment is an open anonymous shared-memory object. It owns its
// descriptor until Close, which may be called exactly once.
type Segment struct {
	f    *os.File
	name string
	size int64
}

// Name returns the debugging name the segment was created with.
func (s *Segment) Name() string {
	return s.name
}

// Size returns the segment length in bytes.
func (s *Segment) Size() int64 {
	return s.size
}

// Descriptor returns the segment's descriptor. It stays owned by the
// Segment: duplicate it to hand it to another process, do not close it.
func (s *Segment) Descriptor() sysraw.Descriptor {
	return sysraw.FileDescriptor(s.f)
}

// Map maps the whole segment shared, so the returned Region observes (and
// is observed by) every other mapping of the same segment.
func (s *Segment) Map(prot mmap.Prot) (*mmap.Region, error) {
	if s.f == nil {
		return nil, ErrClosed
	}
	return mmap.MapDescriptor(s.Descriptor(), 0, int(s.size), prot, true)
}

// Close releases the descriptor. The memory itself lives until the last
// mapping and duplicated handle are gone. A second Close fails with
// ErrClosed.
func (s *Segment) Close() error {
	if s.f == nil {
		return ErrClosed
	}
	f := s.f
	s.f = nil
	return f.Close()
}

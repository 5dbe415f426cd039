//go:build unix

package mmap

import (
	"errors"

	"golang.org/x/sys/unix"

	sysraw "github.com/sysraw/sysraw"
)

func protFlags(p Prot) int {
	prot := unix.PROT_NONE
	if p&ProtRead != 0 {
		prot |= unix.PROT_READ
	}
	if p&ProtWrite != 0 {
		prot |= unix.PROT_WRITE
	}
	if p&ProtExec != 0 {
		prot |= unix.PROT_EXEC
	}
	return prot
}

// mapError translates an mmap-family errno into the package taxonomy.
func mapError(op string, err error) error {
	code := ErrUnknown
	switch {
	case errors.Is(err, unix.ENOMEM):
		code = ErrOutOfMemory
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		code = ErrPermissionDenied
	case errors.Is(err, unix.EINVAL):
		code = ErrInvalidLength
	}
	return &Error{Op: op, Code: code, Err: err}
}

// Map allocates an anonymous Region of at least length bytes, rounded up
// to the page size. shared=false gives copy-on-write private semantics;
// shared=true makes modifications visible to any other mapping of the same
// underlying object (reachable through handle duplication).
func Map(length int, prot Prot, shared bool) (*Region, error) {
	length, err := alignLength("mmap", length)
	if err != nil {
		return nil, err
	}

	flags := unix.MAP_ANON
	if shared {
		flags |= unix.MAP_SHARED
	} else {
		flags |= unix.MAP_PRIVATE
	}

	data, err := unix.Mmap(-1, 0, length, protFlags(prot), flags)
	if err != nil {
		return nil, mapError("mmap", err)
	}

	return &Region{
		data:   data,
		length: length,
		prot:   prot,
		shared: shared,
		fd:     -1,
	}, nil
}

// MapDescriptor maps length bytes of the object behind d, starting at the
// page-aligned offset. The descriptor must survive the Region: unmapping
// does not close it.
func MapDescriptor(d sysraw.Descriptor, offset int64, length int, prot Prot, shared bool) (*Region, error) {
	if v := d.Validity(); !v.Ok() {
		return nil, &Error{Op: "mmap", Code: ErrUnknown, Err: v.Err()}
	}
	if offset < 0 || offset%int64(pageSize) != 0 {
		return nil, &Error{Op: "mmap", Code: ErrInvalidLength}
	}
	length, err := alignLength("mmap", length)
	if err != nil {
		return nil, err
	}

	flags := unix.MAP_PRIVATE
	if shared {
		flags = unix.MAP_SHARED
	}

	data, err := unix.Mmap(d.Raw(), offset, length, protFlags(prot), flags)
	if err != nil {
		return nil, mapError("mmap", err)
	}

	return &Region{
		data:   data,
		length: length,
		prot:   prot,
		shared: shared,
		fd:     d.Raw(),
		off:    offset,
	}, nil
}

// Unmap releases the Region's address range. It must be called exactly
// once: the second call fails with ErrNotMapped and touches nothing.
func (r *Region) Unmap() error {
	if r.data == nil {
		return &Error{Op: "munmap", Code: ErrNotMapped}
	}
	data := r.data
	r.data = nil
	r.length = 0
	if err := unix.Munmap(data); err != nil {
		return mapError("munmap", err)
	}
	return nil
}

// Sync flushes dirty pages per flags. The three bits pass straight through
// to msync; the kernel rejects combinations it does not support (Linux
// refuses sync|async together).
func (r *Region) Sync(flags SyncFlags) error {
	if r.data == nil {
		return &Error{Op: "msync", Code: ErrNotMapped}
	}

	ms := 0
	if flags.Has(SyncSync) {
		ms |= unix.MS_SYNC
	}
	if flags.Has(SyncAsync) {
		ms |= unix.MS_ASYNC
	}
	if flags.Has(SyncInvalidate) {
		ms |= unix.MS_INVALIDATE
	}

	if err := unix.Msync(r.data, ms); err != nil {
		// msync's ENOMEM means part of the range was not mapped, not
		// that memory ran out.
		if errors.Is(err, unix.ENOMEM) {
			return &Error{Op: "msync", Code: ErrNotMapped, Err: err}
		}
		code := ErrUnknown
		if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
			code = ErrPermissionDenied
		}
		return &Error{Op: "msync", Code: code, Err: err}
	}
	return nil
}

// Resize changes the Region's length to the page-aligned ceiling of
// newLength. Linux uses mremap and preserves identity; elsewhere the
// fallback maps a fresh region and carries the contents over, which for a
// shared region yields a new underlying object. The fallback needs
// read+write protection to move the bytes.
func (r *Region) Resize(newLength int) error {
	if r.data == nil {
		return &Error{Op: "mremap", Code: ErrNotMapped}
	}
	newLength, err := alignLength("mremap", newLength)
	if err != nil {
		return err
	}
	if newLength == r.length {
		return nil
	}

	if newData, err := r.tryMremap(newLength); err == nil {
		r.data = newData
		r.length = newLength
		return nil
	}

	if r.fd >= 0 {
		// Descriptor-backed: the contents live in the backing object, so
		// map a replacement at the new length before releasing the old
		// range. A failed map leaves the Region untouched.
		flags := unix.MAP_PRIVATE
		if r.shared {
			flags = unix.MAP_SHARED
		}
		newData, err := unix.Mmap(r.fd, r.off, newLength, protFlags(r.prot), flags)
		if err != nil {
			return mapError("mmap", err)
		}
		old := r.data
		r.data = newData
		r.length = newLength
		if err := unix.Munmap(old); err != nil {
			return mapError("munmap", err)
		}
		return nil
	}

	// Anonymous: allocate fresh and copy the overlapping prefix.
	if r.prot&(ProtRead|ProtWrite) != (ProtRead | ProtWrite) {
		return &Error{Op: "mremap", Code: ErrPermissionDenied}
	}
	flags := unix.MAP_ANON
	if r.shared {
		flags |= unix.MAP_SHARED
	} else {
		flags |= unix.MAP_PRIVATE
	}
	newData, err := unix.Mmap(-1, 0, newLength, protFlags(r.prot), flags)
	if err != nil {
		return mapError("mmap", err)
	}
	copy(newData, r.data)
	old := r.data
	r.data = newData
	r.length = newLength
	if err := unix.Munmap(old); err != nil {
		return mapError("munmap", err)
	}
	return nil
}

// Lock pins the Region's pages in memory, preventing swapping.
func (r *Region) Lock() error {
	if r.data == nil {
		return &Error{Op: "mlock", Code: ErrNotMapped}
	}
	if err := unix.Mlock(r.data); err != nil {
		// mlock's ENOMEM means the RLIMIT_MEMLOCK limit was hit.
		if errors.Is(err, unix.ENOMEM) {
			return &Error{Op: "mlock", Code: ErrOutOfMemory, Err: err}
		}
		return mapError("mlock", err)
	}
	return nil
}

// Unlock releases pages pinned by Lock.
func (r *Region) Unlock() error {
	if r.data == nil {
		return &Error{Op: "munlock", Code: ErrNotMapped}
	}
	if err := unix.Munlock(r.data); err != nil {
		return mapError("munlock", err)
	}
	return nil
}

func (r *Region) advise(advice int) error {
	if r.data == nil {
		return &Error{Op: "madvise", Code: ErrNotMapped}
	}
	if err := unix.Madvise(r.data, advice); err != nil {
		return mapError("madvise", err)
	}
	return nil
}

// AdviseSequential hints that pages will be accessed sequentially.
func (r *Region) AdviseSequential() error {
	return r.advise(unix.MADV_SEQUENTIAL)
}

// AdviseRandom hints that pages will be accessed randomly.
func (r *Region) AdviseRandom() error {
	return r.advise(unix.MADV_RANDOM)
}

// AdviseWillNeed hints that pages will be needed soon.
func (r *Region) AdviseWillNeed() error {
	return r.advise(unix.MADV_WILLNEED)
}

// AdviseDontNeed hints that pages won't be needed soon.
func (r *Region) AdviseDontNeed() error {
	return r.advise(unix.MADV_DONTNEED)
}

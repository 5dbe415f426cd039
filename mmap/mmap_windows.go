//go:build windows

package mmap

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"

	sysraw "github.com/sysraw/sysraw"
)

// pageProt encodes protection for VirtualAlloc/CreateFileMapping. Write
// implies read on Windows; copyOnWrite selects the private-view encoding.
func pageProt(p Prot, copyOnWrite bool) uint32 {
	switch {
	case p&ProtExec != 0 && p&ProtWrite != 0:
		if copyOnWrite {
			return windows.PAGE_EXECUTE_WRITECOPY
		}
		return windows.PAGE_EXECUTE_READWRITE
	case p&ProtExec != 0:
		return windows.PAGE_EXECUTE_READ
	case p&ProtWrite != 0:
		if copyOnWrite {
			return windows.PAGE_WRITECOPY
		}
		return windows.PAGE_READWRITE
	case p&ProtRead != 0:
		return windows.PAGE_READONLY
	default:
		return windows.PAGE_NOACCESS
	}
}

// viewAccess encodes protection for MapViewOfFile.
func viewAccess(p Prot, copyOnWrite bool) uint32 {
	var access uint32
	if p&ProtRead != 0 {
		access |= windows.FILE_MAP_READ
	}
	if p&ProtWrite != 0 {
		if copyOnWrite {
			access |= windows.FILE_MAP_COPY
		} else {
			access |= windows.FILE_MAP_WRITE
		}
	}
	if p&ProtExec != 0 {
		access |= windows.FILE_MAP_EXECUTE
	}
	return access
}

// mapError translates a Windows mapping error into the package taxonomy.
func mapError(op string, err error) error {
	code := ErrUnknown
	switch {
	case errors.Is(err, windows.ERROR_NOT_ENOUGH_MEMORY),
		errors.Is(err, windows.ERROR_COMMITMENT_LIMIT),
		errors.Is(err, windows.ERROR_OUTOFMEMORY):
		code = ErrOutOfMemory
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		code = ErrPermissionDenied
	case errors.Is(err, windows.ERROR_INVALID_PARAMETER):
		code = ErrInvalidLength
	}
	return &Error{Op: op, Code: code, Err: err}
}

func sliceAt(addr uintptr, length int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
}

// Map allocates an anonymous Region of at least length bytes, rounded up
// to the page size. Private regions come from VirtualAlloc; shared ones
// are pagefile-backed mapping objects so the handle can be duplicated into
// another process.
func Map(length int, prot Prot, shared bool) (*Region, error) {
	length, err := alignLength("VirtualAlloc", length)
	if err != nil {
		return nil, err
	}

	if !shared {
		addr, err := windows.VirtualAlloc(0, uintptr(length),
			windows.MEM_COMMIT|windows.MEM_RESERVE, pageProt(prot, false))
		if err != nil {
			return nil, mapError("VirtualAlloc", err)
		}
		return &Region{
			data:   sliceAt(addr, length),
			length: length,
			prot:   prot,
			fd:     -1,
		}, nil
	}

	mapping, err := windows.CreateFileMapping(windows.InvalidHandle, nil,
		pageProt(prot, false), uint32(uint64(length)>>32), uint32(length), nil)
	if err != nil {
		return nil, mapError("CreateFileMapping", err)
	}
	addr, err := windows.MapViewOfFile(mapping, viewAccess(prot, false), 0, 0, uintptr(length))
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, mapError("MapViewOfFile", err)
	}

	return &Region{
		data:    sliceAt(addr, length),
		length:  length,
		prot:    prot,
		shared:  true,
		fd:      -1,
		mapping: uintptr(mapping),
	}, nil
}

// MapDescriptor maps length bytes of the file behind d, starting at the
// page-aligned offset. shared=false is a copy-on-write view; writes stay
// private and never reach the file.
func MapDescriptor(d sysraw.Descriptor, offset int64, length int, prot Prot, shared bool) (*Region, error) {
	if v := d.Validity(); !v.Ok() {
		return nil, &Error{Op: "CreateFileMapping", Code: ErrUnknown, Err: v.Err()}
	}
	if offset < 0 || offset%int64(pageSize) != 0 {
		return nil, &Error{Op: "CreateFileMapping", Code: ErrInvalidLength}
	}
	length, err := alignLength("CreateFileMapping", length)
	if err != nil {
		return nil, err
	}

	cow := !shared && prot&ProtWrite != 0
	maxSize := uint64(offset) + uint64(length)

	mapping, err := windows.CreateFileMapping(windows.Handle(d.Raw()), nil,
		pageProt(prot, cow), uint32(maxSize>>32), uint32(maxSize), nil)
	if err != nil {
		return nil, mapError("CreateFileMapping", err)
	}
	addr, err := windows.MapViewOfFile(mapping, viewAccess(prot, cow),
		uint32(uint64(offset)>>32), uint32(offset), uintptr(length))
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, mapError("MapViewOfFile", err)
	}

	return &Region{
		data:    sliceAt(addr, length),
		length:  length,
		prot:    prot,
		shared:  shared,
		fd:      d.Raw(),
		off:     offset,
		mapping: uintptr(mapping),
	}, nil
}

// Unmap releases the Region's address range. It must be called exactly
// once: the second call fails with ErrNotMapped and touches nothing.
func (r *Region) Unmap() error {
	if r.data == nil {
		return &Error{Op: "UnmapViewOfFile", Code: ErrNotMapped}
	}
	addr := uintptr(unsafe.Pointer(&r.data[0]))
	r.data = nil
	r.length = 0

	if r.mapping != 0 {
		if err := windows.UnmapViewOfFile(addr); err != nil {
			windows.CloseHandle(windows.Handle(r.mapping))
			r.mapping = 0
			return mapError("UnmapViewOfFile", err)
		}
		windows.CloseHandle(windows.Handle(r.mapping))
		r.mapping = 0
		return nil
	}

	if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
		return mapError("VirtualFree", err)
	}
	return nil
}

// Sync flushes dirty pages of a view-backed Region. VirtualAlloc-backed
// anonymous private memory has no backing object and nothing to flush; the
// invalidate bit has no Windows equivalent and is ignored.
func (r *Region) Sync(flags SyncFlags) error {
	if r.data == nil {
		return &Error{Op: "FlushViewOfFile", Code: ErrNotMapped}
	}
	if r.mapping == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&r.data[0]))
	if err := windows.FlushViewOfFile(addr, uintptr(r.length)); err != nil {
		return mapError("FlushViewOfFile", err)
	}
	return nil
}

// Resize changes the Region's length to the page-aligned ceiling of
// newLength. Windows has no mremap: descriptor-backed views are remapped
// from the backing file, anonymous memory is reallocated and copied (a
// shared anonymous region therefore ends up backed by a new object). The
// anonymous fallback needs read+write protection to move the bytes.
func (r *Region) Resize(newLength int) error {
	if r.data == nil {
		return &Error{Op: "resize", Code: ErrNotMapped}
	}
	newLength, err := alignLength("resize", newLength)
	if err != nil {
		return err
	}
	if newLength == r.length {
		return nil
	}

	if r.fd >= 0 && r.mapping != 0 {
		fd, off, prot, shared := r.fd, r.off, r.prot, r.shared
		if err := r.Unmap(); err != nil {
			return err
		}
		nr, err := MapDescriptor(sysraw.NewDescriptor(fd), off, newLength, prot, shared)
		if err != nil {
			return err
		}
		*r = *nr
		return nil
	}

	if r.prot&(ProtRead|ProtWrite) != (ProtRead | ProtWrite) {
		return &Error{Op: "resize", Code: ErrPermissionDenied}
	}
	nr, err := Map(newLength, r.prot, r.shared)
	if err != nil {
		return err
	}
	copy(nr.data, r.data)
	if err := r.Unmap(); err != nil {
		nr.Unmap()
		return err
	}
	*r = *nr
	return nil
}

// Lock pins the Region's pages in memory, preventing swapping.
func (r *Region) Lock() error {
	if r.data == nil {
		return &Error{Op: "VirtualLock", Code: ErrNotMapped}
	}
	addr := uintptr(unsafe.Pointer(&r.data[0]))
	if err := windows.VirtualLock(addr, uintptr(r.length)); err != nil {
		return mapError("VirtualLock", err)
	}
	return nil
}

// Unlock releases pages pinned by Lock.
func (r *Region) Unlock() error {
	if r.data == nil {
		return &Error{Op: "VirtualUnlock", Code: ErrNotMapped}
	}
	addr := uintptr(unsafe.Pointer(&r.data[0]))
	if err := windows.VirtualUnlock(addr, uintptr(r.length)); err != nil {
		return mapError("VirtualUnlock", err)
	}
	return nil
}

// Windows has no madvise; the advice calls only validate liveness.

func (r *Region) advise() error {
	if r.data == nil {
		return &Error{Op: "madvise", Code: ErrNotMapped}
	}
	return nil
}

// AdviseSequential hints that pages will be accessed sequentially.
func (r *Region) AdviseSequential() error { return r.advise() }

// AdviseRandom hints that pages will be accessed randomly.
func (r *Region) AdviseRandom() error { return r.advise() }

// AdviseWillNeed hints that pages will be needed soon.
func (r *Region) AdviseWillNeed() error { return r.advise() }

// AdviseDontNeed hints that pages won't be needed soon.
func (r *Region) AdviseDontNeed() error { return r.advise() }

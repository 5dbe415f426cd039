//go:build linux

package shm

import (
	"os"

	"golang.org/x/sys/unix"
)

// Create allocates an anonymous shared-memory segment of size bytes. The
// name is a debugging label (it shows up in /proc/self/fd), not a
// filesystem path; segments are unnamed and vanish with their last handle.
func Create(name string, size int64) (*Segment, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("memfd_create", err)
	}
	if err := unix.Ftruncate(fd, size); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("ftruncate", err)
	}

	return &Segment{
		f:    os.NewFile(uintptr(fd), "memfd:"+name),
		name: name,
		size: size,
	}, nil
}

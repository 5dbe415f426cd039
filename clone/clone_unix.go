//go:build unix

package clone

import (
	"errors"

	"golang.org/x/sys/unix"

	sysraw "github.com/sysraw/sysraw"
)

// classifyPlatform maps a Unix errno to an ErrorCode. EINVAL counts as
// unsupported: FICLONE reports it for filesystems without reflink and for
// block-misaligned pairs, both structural.
func classifyPlatform(err error) ErrorCode {
	switch {
	case errors.Is(err, unix.EXDEV):
		return ErrCrossDevice
	case errors.Is(err, unix.ENOTSUP),
		errors.Is(err, unix.ENOTTY),
		errors.Is(err, unix.ENOSYS),
		errors.Is(err, unix.EINVAL):
		return ErrUnsupported
	case errors.Is(err, unix.EEXIST):
		return ErrAlreadyExists
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return ErrPermissionDenied
	case errors.Is(err, unix.ENOSPC), errors.Is(err, unix.EDQUOT):
		return ErrNoSpace
	case errors.Is(err, unix.EIO):
		return ErrIOFailure
	default:
		// Descriptor exhaustion (EMFILE/ENFILE) and anything else land
		// here; the errno stays reachable through Unwrap.
		return ErrUnknown
	}
}

// copyDescriptorContent byte-copies src into dst with positioned reads and
// writes so neither descriptor's file offset moves, then truncates dst to
// the copied length.
func copyDescriptorContent(src, dst sysraw.Descriptor) error {
	buf := make([]byte, 1<<20)
	var off int64
	for {
		n, err := unix.Pread(src.Raw(), buf, off)
		if err != nil {
			return classify("copy", err)
		}
		if n == 0 {
			break
		}
		written := 0
		for written < n {
			w, err := unix.Pwrite(dst.Raw(), buf[written:n], off+int64(written))
			if err != nil {
				return classify("copy", err)
			}
			written += w
		}
		off += int64(n)
	}
	if err := unix.Ftruncate(dst.Raw(), off); err != nil {
		return classify("copy", err)
	}
	return nil
}

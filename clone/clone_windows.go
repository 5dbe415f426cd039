//go:build windows

package clone

import (
	"errors"

	"golang.org/x/sys/windows"

	sysraw "github.com/sysraw/sysraw"
)

// Block cloning exists on ReFS via FSCTL_DUPLICATE_EXTENTS_TO_FILE but
// needs aligned extent bookkeeping this package does not carry yet;
// reflinks report structurally unsupported and the policy decides.
// TODO: wire FSCTL_DUPLICATE_EXTENTS_TO_FILE for ReFS volumes.

func platformReflinkFile(from, to string) error {
	return errNoReflink
}

func platformReflinkDescriptors(src, dst sysraw.Descriptor) error {
	return errNoReflink
}

// classifyPlatform maps a Windows error to an ErrorCode. The portable
// exist/permission cases are matched upstream in classify.
func classifyPlatform(err error) ErrorCode {
	switch {
	case errors.Is(err, windows.ERROR_NOT_SAME_DEVICE):
		return ErrCrossDevice
	case errors.Is(err, windows.ERROR_DISK_FULL), errors.Is(err, windows.ERROR_HANDLE_DISK_FULL):
		return ErrNoSpace
	case errors.Is(err, windows.ERROR_FILE_EXISTS), errors.Is(err, windows.ERROR_ALREADY_EXISTS):
		return ErrAlreadyExists
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return ErrPermissionDenied
	default:
		return ErrUnknown
	}
}

// copyDescriptorContent byte-copies src into dst with positioned reads and
// writes so neither handle's file pointer moves, then truncates dst to the
// copied length.
func copyDescriptorContent(src, dst sysraw.Descriptor) error {
	buf := make([]byte, 1<<20)
	var off int64
	for {
		rov := windows.Overlapped{Offset: uint32(off), OffsetHigh: uint32(uint64(off) >> 32)}
		var done uint32
		err := windows.ReadFile(windows.Handle(src.Raw()), buf, &done, &rov)
		if errors.Is(err, windows.ERROR_HANDLE_EOF) {
			break
		}
		if err != nil {
			return classify("copy", err)
		}
		if done == 0 {
			break
		}

		wov := windows.Overlapped{Offset: uint32(off), OffsetHigh: uint32(uint64(off) >> 32)}
		var written uint32
		if err := windows.WriteFile(windows.Handle(dst.Raw()), buf[:done], &written, &wov); err != nil {
			return classify("copy", err)
		}
		off += int64(done)
	}
	if err := windows.Ftruncate(windows.Handle(dst.Raw()), off); err != nil {
		return classify("copy", err)
	}
	return nil
}

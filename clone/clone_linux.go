//go:build linux

package clone

import (
	"os"

	"golang.org/x/sys/unix"

	sysraw "github.com/sysraw/sysraw"
)

// platformReflinkFile clones from into a newly created to via the FICLONE
// ioctl. The destination is created exclusively so an existing file fails
// with EEXIST, matching the path-based clone semantics on Darwin. A failed
// clone removes the empty destination.
func platformReflinkFile(from, to string) error {
	srcF, err := os.Open(from)
	if err != nil {
		return err
	}
	defer srcF.Close()

	info, err := srcF.Stat()
	if err != nil {
		return err
	}

	dstF, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if err := unix.IoctlFileClone(int(dstF.Fd()), int(srcF.Fd())); err != nil {
		dstF.Close()
		os.Remove(to)
		return err
	}
	return dstF.Close()
}

// platformReflinkDescriptors clones fd to fd; FICLONE replaces the whole
// destination contents with shared extents.
func platformReflinkDescriptors(src, dst sysraw.Descriptor) error {
	return unix.IoctlFileClone(dst.Raw(), src.Raw())
}

//go:build darwin

package clone

import (
	"golang.org/x/sys/unix"

	sysraw "github.com/sysraw/sysraw"
)

// platformReflinkFile clones from into to via clonefile(2), which creates
// the destination itself and fails with EEXIST if it is already there.
// APFS only; other filesystems report ENOTSUP.
func platformReflinkFile(from, to string) error {
	return unix.Clonefile(from, to, unix.CLONE_NOFOLLOW)
}

// platformReflinkDescriptors has no primitive on Darwin: clonefile is
// path-only. Structural, so the Behavior policy decides what happens next.
func platformReflinkDescriptors(src, dst sysraw.Descriptor) error {
	return errNoReflink
}

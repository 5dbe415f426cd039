//go:build linux

package mmap

import "golang.org/x/sys/unix"

// tryMremap grows or shrinks the mapping in place (moving it if the kernel
// must), preserving contents and sharing identity.
func (r *Region) tryMremap(newLength int) ([]byte, error) {
	return unix.Mremap(r.data, newLength, unix.MREMAP_MAYMOVE)
}

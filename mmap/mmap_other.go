//go:build unix && !linux

package mmap

import "errors"

// tryMremap is Linux-only; always return an error to trigger the
// map-copy-unmap fallback.
func (r *Region) tryMremap(newLength int) ([]byte, error) {
	return nil, errors.New("mremap not available")
}

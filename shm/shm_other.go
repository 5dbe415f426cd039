//go:build !linux

package shm

// Create is unavailable: Darwin's shm_open is unreachable without cgo and
// Windows named mappings carry a different lifetime model.
func Create(name string, size int64) (*Segment, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return nil, ErrUnsupported
}

//go:build unix && !linux && !darwin

package fsinfo

import (
	"golang.org/x/sys/unix"

	sysraw "github.com/sysraw/sysraw"
)

// StatsOf probes the filesystem behind the descriptor. On the BSDs only
// geometry and device identity are reported; Kind stays Unknown, which the
// clone engine treats as "no reflink primitive".
func StatsOf(d sysraw.Descriptor) (Stats, error) {
	if err := checkValidity("fstat", d); err != nil {
		return Stats{}, err
	}

	var st unix.Stat_t
	if err := unix.Fstat(d.Raw(), &st); err != nil {
		return Stats{}, &StorageError{Op: "fstat", Err: err}
	}

	return Stats{
		Kind:      Unknown,
		BlockSize: int64(st.Blksize),
		Device:    uint64(st.Dev),
	}, nil
}

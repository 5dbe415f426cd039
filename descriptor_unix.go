//go:build unix

package sysraw

import "golang.org/x/sys/unix"

// Validity probes the descriptor without side effects, using F_GETFD as the
// cheapest fcntl that touches the descriptor table and nothing else. It is
// advisory: a recycled fd number reports Valid even though it now names a
// different resource.
func (d Descriptor) Validity() Validity {
	if d.raw < 0 {
		return NeverOpened
	}
	_, err := unix.FcntlInt(uintptr(d.raw), unix.F_GETFD, 0)
	if err == nil {
		return Valid
	}
	if err == unix.EBADF {
		var lim unix.Rlimit
		// Rlimit.Cur is int64 on the BSDs, uint64 elsewhere.
		if rlerr := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim); rlerr == nil && uint64(d.raw) >= uint64(lim.Cur) {
			return Exhausted
		}
		return Closed
	}
	// fcntl rejected the call for a reason other than a dead descriptor;
	// the contract only promises "not obviously invalid".
	return Valid
}

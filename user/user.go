// Package user wraps process user/group identity lookup. Purely a
// convenience surface: no platform divergence worth modeling beyond
// Windows lacking POSIX identities entirely.
package user

import (
	"os"
	"strconv"
)

// ID is a numeric user or group identity.
type ID uint32

// Root is the superuser identity, reserved as ID zero on every POSIX
// system.
const Root ID = 0

// Raw returns the underlying numeric value.
func (id ID) Raw() uint32 {
	return uint32(id)
}

// IsRoot reports whether the identity is the superuser.
func (id ID) IsRoot() bool {
	return id == Root
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Current returns the real user ID of the calling process. Windows has no
// POSIX identity; there the result is the all-ones ID.
func Current() ID {
	return ID(uint32(os.Getuid()))
}

// Effective returns the effective user ID of the calling process.
func Effective() ID {
	return ID(uint32(os.Geteuid()))
}

// CurrentGroup returns the real group ID of the calling process.
func CurrentGroup() ID {
	return ID(uint32(os.Getgid()))
}

// Package fsinfo reports filesystem identity and geometry for open
// descriptors. The clone engine consults it to pre-judge reflink
// feasibility (same-device check, filesystem capabilities); everything it
// exposes is equally usable on its own.
package fsinfo

import (
	sysraw "github.com/sysraw/sysraw"
)

// Kind identifies the filesystem backing a descriptor. The set is limited
// to the filesystems the clone engine makes decisions about; anything else
// reports Unknown, which is not an error.
type Kind int

const (
	Unknown Kind = iota
	Btrfs
	XFS
	Ext4
	ZFS
	APFS
	HFS
	Tmpfs
	Overlay
	NFS
	SMB
	FAT
	NTFS
	ReFS
	Bcachefs
)

func (k Kind) String() string {
	switch k {
	case Btrfs:
		return "btrfs"
	case XFS:
		return "xfs"
	case Ext4:
		return "ext4"
	case ZFS:
		return "zfs"
	case APFS:
		return "apfs"
	case HFS:
		return "hfs"
	case Tmpfs:
		return "tmpfs"
	case Overlay:
		return "overlay"
	case NFS:
		return "nfs"
	case SMB:
		return "smb"
	case FAT:
		return "fat"
	case NTFS:
		return "ntfs"
	case ReFS:
		return "refs"
	case Bcachefs:
		return "bcachefs"
	default:
		return "unknown"
	}
}

// SupportsReflink reports whether the filesystem is known to implement
// block-level cloning. Advisory only: XFS needs reflink=1 at mkfs time and
// ZFS needs block cloning enabled, so a true here still does not guarantee
// the clone syscall will succeed.
func (k Kind) SupportsReflink() bool {
	switch k {
	case Btrfs, XFS, ZFS, APFS, ReFS, Bcachefs:
		return true
	default:
		return false
	}
}

// Stats describes the filesystem behind a descriptor.
type Stats struct {
	// Kind is the recognized filesystem type, Unknown if unrecognized.
	Kind Kind

	// BlockSize is the filesystem's optimal transfer block size in bytes.
	BlockSize int64

	// Blocks, BlocksFree and BlocksAvailable count filesystem blocks
	// (total, free, and free-for-unprivileged respectively).
	Blocks          uint64
	BlocksFree      uint64
	BlocksAvailable uint64

	// Device identifies the device the filesystem lives on. Two
	// descriptors with equal Device values can share extents; unequal
	// values make a clone structurally impossible.
	Device uint64
}

// StorageError wraps a failed probe with the operation that failed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return "fsinfo: " + e.Op + ": " + e.Err.Error()
	}
	return "fsinfo: " + e.Op
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// KindOf reports the filesystem kind for a descriptor.
func KindOf(d sysraw.Descriptor) (Kind, error) {
	st, err := StatsOf(d)
	if err != nil {
		return Unknown, err
	}
	return st.Kind, nil
}

// SameDevice reports whether two descriptors live on the same device.
func SameDevice(a, b sysraw.Descriptor) (bool, error) {
	sa, err := StatsOf(a)
	if err != nil {
		return false, err
	}
	sb, err := StatsOf(b)
	if err != nil {
		return false, err
	}
	return sa.Device == sb.Device, nil
}

// checkValidity front-runs the probe so a dead descriptor surfaces as the
// descriptor-level error instead of a raw EBADF.
func checkValidity(op string, d sysraw.Descriptor) error {
	if v := d.Validity(); !v.Ok() {
		return &StorageError{Op: op, Err: v.Err()}
	}
	return nil
}

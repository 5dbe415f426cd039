//go:build darwin

package fsinfo

import (
	"golang.org/x/sys/unix"

	sysraw "github.com/sysraw/sysraw"
)

// kindFromName maps a statfs f_fstypename to a Kind.
func kindFromName(name string) Kind {
	switch name {
	case "apfs":
		return APFS
	case "hfs":
		return HFS
	case "tmpfs":
		return Tmpfs
	case "nfs":
		return NFS
	case "smbfs":
		return SMB
	case "msdos", "exfat":
		return FAT
	case "ntfs":
		return NTFS
	case "zfs":
		return ZFS
	default:
		return Unknown
	}
}

// StatsOf probes the filesystem behind the descriptor.
func StatsOf(d sysraw.Descriptor) (Stats, error) {
	if err := checkValidity("fstatfs", d); err != nil {
		return Stats{}, err
	}

	var sfs unix.Statfs_t
	if err := unix.Fstatfs(d.Raw(), &sfs); err != nil {
		return Stats{}, &StorageError{Op: "fstatfs", Err: err}
	}

	var st unix.Stat_t
	if err := unix.Fstat(d.Raw(), &st); err != nil {
		return Stats{}, &StorageError{Op: "fstat", Err: err}
	}

	return Stats{
		Kind:            kindFromName(unix.ByteSliceToString(sfs.Fstypename[:])),
		BlockSize:       int64(sfs.Bsize),
		Blocks:          sfs.Blocks,
		BlocksFree:      sfs.Bfree,
		BlocksAvailable: sfs.Bavail,
		Device:          uint64(st.Dev),
	}, nil
}

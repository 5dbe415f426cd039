//go:build linux

package fsinfo

import (
	"golang.org/x/sys/unix"

	sysraw "github.com/sysraw/sysraw"
)

// Superblock magics not exported by x/sys/unix.
const (
	zfsSuperMagic      = 0x2fc12fc1
	bcachefsSuperMagic = 0xca451a4e
	ntfsSuperMagic     = 0x5346544e
	exfatSuperMagic    = 0x2011bab0
	smb2SuperMagic     = 0xfe534d42
	cifsSuperMagic     = 0xff534d42
)

// kindFromMagic maps a statfs f_type to a Kind.
func kindFromMagic(magic uint32) Kind {
	switch magic {
	case unix.BTRFS_SUPER_MAGIC:
		return Btrfs
	case unix.XFS_SUPER_MAGIC:
		return XFS
	case unix.EXT4_SUPER_MAGIC:
		// ext2/ext3/ext4 share one magic; the distinction does not
		// matter here, none of them can reflink.
		return Ext4
	case zfsSuperMagic:
		return ZFS
	case unix.TMPFS_MAGIC:
		return Tmpfs
	case unix.OVERLAYFS_SUPER_MAGIC:
		return Overlay
	case unix.NFS_SUPER_MAGIC:
		return NFS
	case unix.SMB_SUPER_MAGIC, smb2SuperMagic, cifsSuperMagic:
		return SMB
	case unix.MSDOS_SUPER_MAGIC, exfatSuperMagic:
		return FAT
	case ntfsSuperMagic:
		return NTFS
	case bcachefsSuperMagic:
		return Bcachefs
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
		Kind:            kindFromMagic(uint32(sfs.Type)),
		BlockSize:       int64(sfs.Bsize),
		Blocks:          sfs.Blocks,
		BlocksFree:      sfs.Bfree,
		BlocksAvailable: sfs.Bavail,
		Device:          uint64(st.Dev),
	}, nil
}

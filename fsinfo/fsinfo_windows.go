//go:build windows

package fsinfo

import (
	"golang.org/x/sys/windows"

	sysraw "github.com/sysraw/sysraw"
)

// kindFromName maps a volume filesystem name to a Kind.
func kindFromName(name string) Kind {
	switch name {
	case "NTFS":
		return NTFS
	case "ReFS":
		return ReFS
	case "FAT", "FAT32", "exFAT":
		return FAT
	default:
		return Unknown
	}
}

// StatsOf probes the volume behind the descriptor. Device identity is the
// volume serial number. Windows exposes no block size through a handle, so
// BlockSize is reported as zero; the clone engine only needs Kind and
// Device here.
func StatsOf(d sysraw.Descriptor) (Stats, error) {
	if err := checkValidity("GetVolumeInformationByHandle", d); err != nil {
		return Stats{}, err
	}

	var (
		serial  uint32
		maxComp uint32
		fsFlags uint32
		fsName  [windows.MAX_PATH + 1]uint16
	)
	err := windows.GetVolumeInformationByHandle(
		windows.Handle(d.Raw()),
		nil, 0,
		&serial, &maxComp, &fsFlags,
		&fsName[0], uint32(len(fsName)),
	)
	if err != nil {
		return Stats{}, &StorageError{Op: "GetVolumeInformationByHandle", Err: err}
	}

	return Stats{
		Kind:   kindFromName(windows.UTF16ToString(fsName[:])),
		Device: uint64(serial),
	}, nil
}

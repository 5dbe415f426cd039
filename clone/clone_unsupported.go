//go:build unix && !linux && !darwin

package clone

import (
	sysraw "github.com/sysraw/sysraw"
)

// No clone primitive on this platform; every reflink attempt is
// structurally unsupported and the Behavior policy decides what runs.

func platformReflinkFile(from, to string) error {
	return errNoReflink
}

func platformReflinkDescriptors(src, dst sysraw.Descriptor) error {
	return errNoReflink
}

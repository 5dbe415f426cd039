//go:build windows

package sysraw

import "golang.org/x/sys/windows"

// Validity probes the handle via GetHandleInformation, which fails on a
// closed or never-issued HANDLE without affecting its state. Exhaustion is
// not detectable on Windows; a dead handle always reports Closed.
func (d Descriptor) Validity() Validity {
	if d.raw < 0 {
		return NeverOpened
	}
	h := windows.Handle(d.raw)
	if h == windows.InvalidHandle || h == 0 {
		return NeverOpened
	}
	var flags uint32
	if err := windows.GetHandleInformation(h, &flags); err != nil {
		return Closed
	}
	return Valid
}

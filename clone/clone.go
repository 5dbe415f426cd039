// Package clone performs copy-on-write file duplication (reflink) with a
// caller-selected fallback policy.
//
// A reflink creates a new file sharing data blocks with the source until
// either side is modified. Whether that is possible depends on the kernel,
// the filesystem and the device pair, so every call takes a Behavior that
// decides what happens when cloning is structurally impossible: fail with
// the reason, fall back to a byte-for-byte copy, or skip the clone attempt
// entirely. The Result reports which path actually ran, because the space
// and copy-on-first-write costs differ materially.
//
// Non-structural failures (no space, I/O error, permission) surface
// immediately under every Behavior: a fallback copy would hit the same
// wall and double the cost of failing.
package clone

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	sysraw "github.com/sysraw/sysraw"
	"github.com/sysraw/sysraw/fsinfo"
)

// Behavior selects the fallback policy for a single clone call. The three
// are independent strategies, not strictness levels.
type Behavior int

const (
	// ReflinkOrFail attempts the clone and, if cloning is structurally
	// impossible, fails with the reason. No byte copy ever runs.
	ReflinkOrFail Behavior = iota

	// ReflinkOrCopy attempts the clone and falls back to a byte-for-byte
	// copy when cloning is structurally impossible.
	ReflinkOrCopy

	// CopyOnly never attempts the clone syscall; it always byte-copies.
	CopyOnly
)

func (b Behavior) String() string {
	switch b {
	case ReflinkOrFail:
		return "reflink-or-fail"
	case ReflinkOrCopy:
		return "reflink-or-copy"
	case CopyOnly:
		return "copy-only"
	default:
		return "unknown"
	}
}

// Result reports which duplication path executed. It is only produced on
// success, never alongside an error.
type Result int

const (
	// Reflinked means the destination shares extents with the source.
	Reflinked Result = iota

	// Copied means the destination holds its own copy of every byte.
	Copied
)

func (r Result) String() string {
	switch r {
	case Reflinked:
		return "reflinked"
	case Copied:
		return "copied"
	default:
		return "unknown"
	}
}

// ErrorCode classifies a clone failure. Codes are themselves errors so
// call sites can match with errors.Is.
type ErrorCode int

const (
	// ErrUnsupported indicates the clone primitive is absent: no syscall
	// on this platform, or a filesystem without reflink support.
	ErrUnsupported ErrorCode = iota + 1

	// ErrCrossDevice indicates source and destination live on different
	// devices; extents cannot be shared across them.
	ErrCrossDevice

	// ErrAlreadyExists indicates the destination path already exists.
	ErrAlreadyExists

	// ErrPermissionDenied indicates missing access rights.
	ErrPermissionDenied

	// ErrNoSpace indicates the filesystem (or its quota) is full.
	ErrNoSpace

	// ErrIOFailure indicates a low-level read or write error.
	ErrIOFailure

	// ErrUnknown carries an unclassified platform error; the original
	// errno remains reachable through Unwrap.
	ErrUnknown
)

func (c ErrorCode) Error() string {
	switch c {
	case ErrUnsupported:
		return "cloning unsupported"
	case ErrCrossDevice:
		return "cross-device clone"
	case ErrAlreadyExists:
		return "destination already exists"
	case ErrPermissionDenied:
		return "permission denied"
	case ErrNoSpace:
		return "no space left"
	case ErrIOFailure:
		return "i/o failure"
	case ErrUnknown:
		return "unknown error"
	default:
		return "error code " + strconv.Itoa(int(c))
	}
}

// structural reports whether the failure means cloning is impossible for
// this source/destination pair as such. Only structural failures are
// eligible for the ReflinkOrCopy fallback.
func (c ErrorCode) structural() bool {
	switch c {
	case ErrUnsupported, ErrCrossDevice, ErrAlreadyExists:
		return true
	default:
		return false
	}
}

// Error is a clone failure with operation context.
type Error struct {
	Op   string
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "clone: " + e.Op + ": " + e.Code.Error() + ": " + e.Err.Error()
	}
	return "clone: " + e.Op + ": " + e.Code.Error()
}

// Is reports whether e matches target, so errors.Is(err, ErrCrossDevice)
// works on wrapped failures.
func (e *Error) Is(target error) bool {
	if c, ok := target.(ErrorCode); ok {
		return e.Code == c
	}
	return false
}

func (e *Error) Unwrap() error {
	return e.Err
}

// errNoReflink marks platforms and pairings without a clone primitive.
var errNoReflink = errors.New("no reflink primitive")

// The reflink steps and the device probe are held in variables so the
// policy matrix is exercisable without a reflink-capable filesystem.
var (
	reflinkFile        = platformReflinkFile
	reflinkDescriptors = platformReflinkDescriptors
	sameDevice         = fsinfo.SameDevice
)

// classify translates a platform error into the package taxonomy. The
// portable sentinels cover what the os package wraps on every platform;
// classifyPlatform resolves raw errnos.
func classify(op string, err error) *Error {
	switch {
	case errors.Is(err, errNoReflink):
		return &Error{Op: op, Code: ErrUnsupported, Err: err}
	case errors.Is(err, fs.ErrExist):
		return &Error{Op: op, Code: ErrAlreadyExists, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &Error{Op: op, Code: ErrPermissionDenied, Err: err}
	}
	return &Error{Op: op, Code: classifyPlatform(err), Err: err}
}

// File duplicates the file at from into a new file at to, per behavior.
// On success the destination is byte-identical to the source at the moment
// of the call; the Result says whether it shares extents or owns them.
func File(from, to string, behavior Behavior) (Result, error) {
	if behavior == CopyOnly {
		if err := copyFile(from, to); err != nil {
			return 0, err
		}
		return Copied, nil
	}

	err := tryReflinkFile(from, to)
	if err == nil {
		return Reflinked, nil
	}

	var ce *Error
	if behavior == ReflinkOrCopy && errors.As(err, &ce) && ce.Code.structural() {
		if err := copyFile(from, to); err != nil {
			return 0, err
		}
		return Copied, nil
	}
	return 0, err
}

// Descriptors duplicates the open file behind src into the open file
// behind dst, per behavior. The destination descriptor must be writable;
// its previous contents are replaced. Platforms whose clone primitive is
// path-only (Darwin) report the reflink step as structurally unsupported,
// and the Behavior policy applies exactly as for any structural failure.
func Descriptors(src, dst sysraw.Descriptor, behavior Behavior) (Result, error) {
	if v := src.Validity(); !v.Ok() {
		return 0, &Error{Op: "clone", Code: ErrUnknown, Err: v.Err()}
	}
	if v := dst.Validity(); !v.Ok() {
		return 0, &Error{Op: "clone", Code: ErrUnknown, Err: v.Err()}
	}

	if behavior == CopyOnly {
		if err := copyDescriptorContent(src, dst); err != nil {
			return 0, err
		}
		return Copied, nil
	}

	err := tryReflinkDescriptors(src, dst)
	if err == nil {
		return Reflinked, nil
	}

	var ce *Error
	if behavior == ReflinkOrCopy && errors.As(err, &ce) && ce.Code.structural() {
		if err := copyDescriptorContent(src, dst); err != nil {
			return 0, err
		}
		return Copied, nil
	}
	return 0, err
}

// tryReflinkFile runs the same-device pre-check and then the platform
// clone. A probe failure aborts the attempt (it is never treated as
// cross-device); a device mismatch is reported as structural without
// bothering the kernel.
func tryReflinkFile(from, to string) error {
	srcF, err := os.Open(from)
	if err != nil {
		return classify("clone", err)
	}
	defer srcF.Close()

	dirF, err := os.Open(filepath.Dir(to))
	if err != nil {
		return classify("clone", err)
	}
	defer dirF.Close()

	same, err := sameDevice(sysraw.FileDescriptor(srcF), sysraw.FileDescriptor(dirF))
	if err != nil {
		// Probe failure: propagate the StorageError and abort rather
		// than guessing about the device pair.
		return err
	}
	if !same {
		return &Error{Op: "clone", Code: ErrCrossDevice}
	}

	if err := reflinkFile(from, to); err != nil {
		return classify("clone", err)
	}
	return nil
}

func tryReflinkDescriptors(src, dst sysraw.Descriptor) error {
	same, err := sameDevice(src, dst)
	if err != nil {
		return err
	}
	if !same {
		return &Error{Op: "clone", Code: ErrCrossDevice}
	}
	if err := reflinkDescriptors(src, dst); err != nil {
		return classify("clone", err)
	}
	return nil
}

// copyFile is the byte-for-byte fallback. The destination is created
// exclusively with the source's permission bits, and a partial destination
// is removed on failure so no truncated file survives.
func copyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return classify("copy", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return classify("copy", err)
	}

	dst, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return classify("copy", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(to)
		return classify("copy", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(to)
		return classify("copy", err)
	}
	return nil
}

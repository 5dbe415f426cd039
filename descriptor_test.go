package sysraw_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sysraw "github.com/sysraw/sysraw"
)

func TestValidityOpenFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "probe.dat"))
	require.NoError(t, err)
	defer f.Close()

	d := sysraw.FileDescriptor(f)
	assert.Equal(t, sysraw.Valid, d.Validity())
	assert.True(t, d.Validity().Ok())
	assert.NoError(t, d.Validity().Err())
}

func TestValidityClosedFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "probe.dat"))
	require.NoError(t, err)

	d := sysraw.FileDescriptor(f)
	require.NoError(t, f.Close())

	v := d.Validity()
	assert.False(t, v.Ok(), "closed descriptor must not probe as valid")
	assert.Error(t, v.Err())
}

func TestValidityNeverOpened(t *testing.T) {
	for _, raw := range []int{-1, -42} {
		d := sysraw.NewDescriptor(raw)
		assert.Equal(t, sysraw.NeverOpened, d.Validity())
		assert.ErrorIs(t, d.Validity().Err(), sysraw.ErrInvalid)
	}
}

func TestValidityGarbageDoesNotCrash(t *testing.T) {
	// Values that were never issued, including ones far past any
	// plausible descriptor limit.
	for _, raw := range []int{1 << 20, 1 << 30} {
		d := sysraw.NewDescriptor(raw)
		v := d.Validity()
		assert.False(t, v.Ok())
	}
}

func TestValidityNilFile(t *testing.T) {
	d := sysraw.FileDescriptor(nil)
	assert.Equal(t, sysraw.NeverOpened, d.Validity())
}

func TestValidityString(t *testing.T) {
	scenarios := map[sysraw.Validity]string{
		sysraw.Valid:       "valid",
		sysraw.Closed:      "closed",
		sysraw.Exhausted:   "exhausted",
		sysraw.NeverOpened: "never opened",
		sysraw.Validity(99): "unknown",
	}

	for v, want := range scenarios {
		assert.Equal(t, want, v.String())
	}
}

func TestValidityErrMapping(t *testing.T) {
	assert.ErrorIs(t, sysraw.Closed.Err(), sysraw.ErrClosed)
	assert.ErrorIs(t, sysraw.Exhausted.Err(), sysraw.ErrExhausted)
	assert.ErrorIs(t, sysraw.NeverOpened.Err(), sysraw.ErrInvalid)
}

package mmap_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sysraw "github.com/sysraw/sysraw"
	"github.com/sysraw/sysraw/mmap"
)

func TestMapOnePage(t *testing.T) {
	r, err := mmap.Map(mmap.PageSize(), mmap.ProtDefault, false)
	require.NoError(t, err)

	assert.Equal(t, mmap.PageSize(), r.Len())
	assert.NotZero(t, r.Addr())
	assert.True(t, r.Mapped())
	assert.False(t, r.Shared())
	assert.Equal(t, mmap.ProtDefault, r.Prot())

	// Fresh anonymous memory is zero-filled and writable.
	data := r.Data()
	assert.Equal(t, byte(0), data[0])
	data[0] = 0xAB
	data[r.Len()-1] = 0xCD
	assert.Equal(t, byte(0xAB), data[0])

	require.NoError(t, r.Unmap())
}

func TestMapRoundsUpToPageSize(t *testing.T) {
	scenarios := map[string]struct {
		request int
		want    int
	}{
		"single byte":    {request: 1, want: mmap.PageSize()},
		"exactly a page": {request: mmap.PageSize(), want: mmap.PageSize()},
		"page plus one":  {request: mmap.PageSize() + 1, want: 2 * mmap.PageSize()},
	}

	for scenario, data := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			r, err := mmap.Map(data.request, mmap.ProtDefault, false)
			require.NoError(t, err)
			defer r.Unmap()

			assert.Equal(t, data.want, r.Len())
			assert.Len(t, r.Data(), data.want)
		})
	}
}

func TestMapRejectsBadLength(t *testing.T) {
	for _, length := range []int{0, -1, -4096} {
		_, err := mmap.Map(length, mmap.ProtDefault, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, mmap.ErrInvalidLength)
	}
}

func TestDoubleUnmap(t *testing.T) {
	r, err := mmap.Map(1, mmap.ProtDefault, false)
	require.NoError(t, err)

	require.NoError(t, r.Unmap())
	assert.False(t, r.Mapped())
	assert.Zero(t, r.Addr())

	err = r.Unmap()
	require.Error(t, err)
	assert.ErrorIs(t, err, mmap.ErrNotMapped)
}

func TestSyncAfterUnmap(t *testing.T) {
	r, err := mmap.Map(1, mmap.ProtDefault, false)
	require.NoError(t, err)
	require.NoError(t, r.Unmap())

	err = r.Sync(mmap.SyncAsync)
	require.Error(t, err)
	assert.ErrorIs(t, err, mmap.ErrNotMapped)
}

func TestSyncAnonymous(t *testing.T) {
	r, err := mmap.Map(mmap.PageSize(), mmap.ProtDefault, false)
	require.NoError(t, err)
	defer r.Unmap()

	copy(r.Data(), []byte("dirty"))
	assert.NoError(t, r.Sync(mmap.SyncAsync))
}

func TestMapShared(t *testing.T) {
	r, err := mmap.Map(mmap.PageSize(), mmap.ProtDefault, true)
	require.NoError(t, err)
	defer r.Unmap()

	assert.True(t, r.Shared())
	copy(r.Data(), []byte("shared page"))
	assert.Equal(t, []byte("shared page"), r.Data()[:11])
}

func TestSyncFlagsCombine(t *testing.T) {
	pairs := []struct{ a, b mmap.SyncFlags }{
		{mmap.SyncSync, mmap.SyncAsync},
		{mmap.SyncSync, mmap.SyncInvalidate},
		{mmap.SyncAsync, mmap.SyncInvalidate},
		{mmap.SyncSync, mmap.SyncSync},
	}

	for _, p := range pairs {
		combined := p.a | p.b
		assert.Equal(t, p.a.Raw()|p.b.Raw(), combined.Raw())
		assert.True(t, combined.Has(p.a))
		assert.True(t, combined.Has(p.b))
	}
}

func TestSyncFlagsValueSemantics(t *testing.T) {
	// Equal bit patterns are interchangeable values: a set keyed on
	// SyncFlags collapses duplicates.
	set := map[mmap.SyncFlags]struct{}{}
	set[mmap.SyncSync] = struct{}{}
	set[mmap.SyncSync|mmap.SyncSync] = struct{}{}
	assert.Len(t, set, 1)

	set[mmap.SyncSync|mmap.SyncInvalidate] = struct{}{}
	assert.Len(t, set, 2)
}

func TestSyncFlagsString(t *testing.T) {
	assert.Equal(t, "none", mmap.SyncFlags(0).String())
	assert.Equal(t, "sync", mmap.SyncSync.String())
	assert.Equal(t, "sync|invalidate", (mmap.SyncSync | mmap.SyncInvalidate).String())
	assert.Equal(t, "async", mmap.SyncAsync.String())
}

func TestProtString(t *testing.T) {
	assert.Equal(t, "rw-", mmap.ProtDefault.String())
	assert.Equal(t, "r--", mmap.ProtRead.String())
	assert.Equal(t, "rwx", (mmap.ProtDefault | mmap.ProtExec).String())
	assert.Equal(t, "---", mmap.Prot(0).String())
}

func TestMapDescriptor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backing.dat")
	content := bytes.Repeat([]byte("0123456789abcdef"), 256)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := mmap.MapDescriptor(sysraw.FileDescriptor(f), 0, len(content), mmap.ProtRead, true)
	require.NoError(t, err)
	defer r.Unmap()

	assert.Equal(t, content, r.Data()[:len(content)])
}

func TestMapDescriptorPrivateWritesStayPrivate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cow.dat")
	content := make([]byte, mmap.PageSize())
	copy(content, []byte("original"))
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := mmap.MapDescriptor(sysraw.FileDescriptor(f), 0, len(content), mmap.ProtDefault, false)
	require.NoError(t, err)
	defer r.Unmap()

	copy(r.Data(), []byte("modified"))
	require.NoError(t, r.Sync(mmap.SyncSync))

	// Private mapping: the write must never reach the backing file.
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), onDisk[:8])
}

func TestMapDescriptorMisalignedOffset(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "mis.dat"))
	require.NoError(t, err)
	defer f.Close()

	_, err = mmap.MapDescriptor(sysraw.FileDescriptor(f), 1, mmap.PageSize(), mmap.ProtRead, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, mmap.ErrInvalidLength)
}

func TestMapDescriptorDead(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "dead.dat"))
	require.NoError(t, err)
	d := sysraw.FileDescriptor(f)
	require.NoError(t, f.Close())

	_, err = mmap.MapDescriptor(d, 0, mmap.PageSize(), mmap.ProtRead, false)
	require.Error(t, err)
}

func TestResizeGrowPreservesContents(t *testing.T) {
	r, err := mmap.Map(mmap.PageSize(), mmap.ProtDefault, false)
	require.NoError(t, err)
	defer r.Unmap()

	copy(r.Data(), []byte("keep me"))
	require.NoError(t, r.Resize(3*mmap.PageSize()))

	assert.Equal(t, 3*mmap.PageSize(), r.Len())
	assert.Equal(t, []byte("keep me"), r.Data()[:7])
}

func TestResizeShrink(t *testing.T) {
	r, err := mmap.Map(4*mmap.PageSize(), mmap.ProtDefault, false)
	require.NoError(t, err)
	defer r.Unmap()

	require.NoError(t, r.Resize(mmap.PageSize()))
	assert.Equal(t, mmap.PageSize(), r.Len())
}

func TestResizeDescriptorBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grow.dat")
	content := make([]byte, 2*mmap.PageSize())
	copy(content, []byte("first page"))
	copy(content[mmap.PageSize():], []byte("second page"))
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := mmap.MapDescriptor(sysraw.FileDescriptor(f), 0, mmap.PageSize(), mmap.ProtRead, true)
	require.NoError(t, err)
	defer r.Unmap()

	require.NoError(t, r.Resize(2*mmap.PageSize()))

	// Growing a descriptor-backed mapping keeps it live and exposes the
	// rest of the backing object.
	assert.True(t, r.Mapped())
	assert.Equal(t, 2*mmap.PageSize(), r.Len())
	assert.Equal(t, []byte("first page"), r.Data()[:10])
	assert.Equal(t, []byte("second page"), r.Data()[mmap.PageSize():mmap.PageSize()+11])
}

func TestResizeAfterUnmap(t *testing.T) {
	r, err := mmap.Map(1, mmap.ProtDefault, false)
	require.NoError(t, err)
	require.NoError(t, r.Unmap())

	err = r.Resize(mmap.PageSize())
	assert.ErrorIs(t, err, mmap.ErrNotMapped)
}

func TestLockUnlock(t *testing.T) {
	r, err := mmap.Map(mmap.PageSize(), mmap.ProtDefault, false)
	require.NoError(t, err)
	defer r.Unmap()

	if err := r.Lock(); err != nil {
		// RLIMIT_MEMLOCK may be zero in constrained environments.
		t.Skipf("mlock unavailable: %v", err)
	}
	assert.NoError(t, r.Unlock())
}

func TestAdvise(t *testing.T) {
	r, err := mmap.Map(mmap.PageSize(), mmap.ProtDefault, false)
	require.NoError(t, err)
	defer r.Unmap()

	assert.NoError(t, r.AdviseSequential())
	assert.NoError(t, r.AdviseRandom())
	assert.NoError(t, r.AdviseWillNeed())

	// After unmap every advice call reports the dead region.
	require.NoError(t, r.Unmap())
	assert.ErrorIs(t, r.AdviseDontNeed(), mmap.ErrNotMapped)
}

func TestErrorCodeMessages(t *testing.T) {
	scenarios := map[mmap.ErrorCode]string{
		mmap.ErrInvalidLength:    "invalid length",
		mmap.ErrOutOfMemory:      "out of memory",
		mmap.ErrPermissionDenied: "permission denied",
		mmap.ErrNotMapped:        "not mapped",
		mmap.ErrUnknown:          "unknown error",
	}

	for code, want := range scenarios {
		assert.Equal(t, want, code.Error())
	}
}

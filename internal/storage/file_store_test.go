package storage

import (
	"os"
	"path/filepath"
	"runboard/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileBlobStore, string, *testutil.MockMetrics) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "profile")
	metrics := testutil.NewMockMetrics()
	fs, err := NewFileBlobStore(dir, &testutil.MockLogger{}, metrics)
	require.NoError(t, err)
	return fs, dir, metrics
}

func TestFileBlobStore_SaveLoad(t *testing.T) {
	fs, dir, metrics := newTestFileStore(t)

	require.NoError(t, fs.Save("local_leaderboard", []byte("payload")))
	assert.Equal(t, 1, metrics.Persists)

	data, ok, err := fs.Load("local_leaderboard")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("payload"), data)

	_, err = os.Stat(filepath.Join(dir, "local_leaderboard.sav.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestFileBlobStore_LoadMissing(t *testing.T) {
	fs, _, _ := newTestFileStore(t)
	data, ok, err := fs.Load("nothing_here")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestFileBlobStore_ExistsDelete(t *testing.T) {
	fs, _, _ := newTestFileStore(t)
	assert.False(t, fs.Exists("run_summary_easy_solo"))

	require.NoError(t, fs.Save("run_summary_easy_solo", []byte("x")))
	assert.True(t, fs.Exists("run_summary_easy_solo"))

	require.NoError(t, fs.Delete("run_summary_easy_solo"))
	assert.False(t, fs.Exists("run_summary_easy_solo"))

	assert.NoError(t, fs.Delete("run_summary_easy_solo"), "deleting a missing key is not an error")
}

func TestFileBlobStore_RejectsPathKeys(t *testing.T) {
	fs, _, _ := newTestFileStore(t)
	assert.Error(t, fs.Save("../escape", []byte("x")))
	_, _, err := fs.Load("a/b")
	assert.Error(t, err)
	assert.False(t, fs.Exists(""))
}

func TestMemoryBlobStore_CopiesData(t *testing.T) {
	ms := NewMemoryBlobStore()
	buf := []byte("abc")
	require.NoError(t, ms.Save("k", buf))
	buf[0] = 'z'

	data, ok, err := ms.Load("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("abc"), data)

	data[1] = 'z'
	again, _, _ := ms.Load("k")
	assert.Equal(t, []byte("abc"), again)
	assert.Equal(t, 1, ms.Len())

	require.NoError(t, ms.Delete("k"))
	assert.False(t, ms.Exists("k"))
}

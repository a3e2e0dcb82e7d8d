// internal/applied/store_test.go

package applied

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/common/logger"
)

type failingStorage struct {
	*MemoryStorage
	setErr error
	getErr error
}

func (f *failingStorage) GetItem(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.MemoryStorage.GetItem(key)
}

func (f *failingStorage) SetItem(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStorage.SetItem(key, value)
}

func TestStore_EmptyByDefault(t *testing.T) {
	s := NewStore(NewMemoryStorage(), logger.NewTestLogger(t))
	assert.Empty(t, s.AppliedIDs())
	assert.False(t, s.IsApplied("a"))
}

func TestStore_AddIsIdempotentAndPersisted(t *testing.T) {
	storage := NewMemoryStorage()
	s := NewStore(storage, logger.NewTestLogger(t))

	assert.True(t, s.Add("a"))
	assert.True(t, s.Add("b"))
	assert.False(t, s.Add("a"))

	assert.True(t, s.IsApplied("a"))
	assert.Len(t, s.AppliedIDs(), 2)

	raw, ok, err := storage.GetItem(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, raw)
}

func TestStore_ReadsExistingState(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.SetItem(StorageKey, `["x","ghost-id"]`))

	s := NewStore(storage, logger.NewTestLogger(t))
	assert.Equal(t, []string{"ghost-id", "x"}, s.AppliedIDs().Sorted())
}

func TestStore_CorruptStateReadsEmpty(t *testing.T) {
	for _, raw := range []string{`not json`, `{"a":1}`, `[1,2]`} {
		storage := NewMemoryStorage()
		require.NoError(t, storage.SetItem(StorageKey, raw))

		s := NewStore(storage, logger.NewTestLogger(t))
		assert.Empty(t, s.AppliedIDs(), "raw %q", raw)

		// recovers on the next write
		s.Add("a")
		got, _, _ := storage.GetItem(StorageKey)
		assert.JSONEq(t, `["a"]`, got)
	}
}

func TestStore_NullStateReadsEmpty(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.SetItem(StorageKey, `null`))
	assert.Empty(t, NewStore(storage, logger.NewTestLogger(t)).AppliedIDs())
}

func TestStore_StorageReadError(t *testing.T) {
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), getErr: errors.New("disk gone")}
	s := NewStore(storage, logger.NewTestLogger(t))
	assert.Empty(t, s.AppliedIDs())
}

func TestStore_PersistFailureKeepsSessionState(t *testing.T) {
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), setErr: errors.New("read-only")}
	s := NewStore(storage, logger.NewTestLogger(t))

	assert.True(t, s.Add("a"))
	assert.True(t, s.IsApplied("a"))

	_, ok, _ := storage.MemoryStorage.GetItem(StorageKey)
	assert.False(t, ok)
}

func TestStore_PersistRecoversAfterFailure(t *testing.T) {
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), setErr: errors.New("read-only")}
	s := NewStore(storage, logger.NewTestLogger(t))
	s.Add("a")

	storage.setErr = nil
	assert.True(t, s.Add("b"))

	raw, ok, err := storage.MemoryStorage.GetItem(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, raw)
}

func TestStore_SeesWritesFromOtherStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.json")
	first := NewStore(NewFileStorage(path), logger.NewTestLogger(t))
	second := NewStore(NewFileStorage(path), logger.NewTestLogger(t))

	assert.Empty(t, first.AppliedIDs())
	second.Add("b")
	assert.True(t, first.IsApplied("b"))

	first.Add("a")
	assert.Equal(t, []string{"a", "b"}, second.AppliedIDs().Sorted())

	raw, ok, err := NewFileStorage(path).GetItem(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["b","a"]`, raw)
}

func TestStore_ReturnsCopy(t *testing.T) {
	s := NewStore(NewMemoryStorage(), logger.NewTestLogger(t))
	s.Add("a")

	ids := s.AppliedIDs()
	ids["b"] = struct{}{}
	assert.False(t, s.IsApplied("b"))
}

func TestFileStorage_RoundTripAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "applied.json")

	s := NewStore(NewFileStorage(path), logger.NewTestLogger(t))
	s.Add("job-1")
	s.Add("job-2")

	reopened := NewStore(NewFileStorage(path), logger.NewTestLogger(t))
	assert.Equal(t, []string{"job-1", "job-2"}, reopened.AppliedIDs().Sorted())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStorage_MissingFile(t *testing.T) {
	fs := NewFileStorage(filepath.Join(t.TempDir(), "none.json"))
	_, ok, err := fs.GetItem(StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o600))

	fs := NewFileStorage(path)
	_, _, err := fs.GetItem(StorageKey)
	assert.Error(t, err)

	s := NewStore(fs, logger.NewTestLogger(t))
	assert.Empty(t, s.AppliedIDs())

	s.Add("a")
	got, ok, err := fs.GetItem(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["a"]`, got)
}

func TestFileStorage_KeepsOtherKeys(t *testing.T) {
	fs := NewFileStorage(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, fs.SetItem("theme", "dark"))
	require.NoError(t, fs.SetItem(StorageKey, `["a"]`))

	v, ok, err := fs.GetItem("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}

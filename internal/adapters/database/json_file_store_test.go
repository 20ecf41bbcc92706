package database

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

func newTestFileStore(t *testing.T) (*JSONFileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notifications.json")
	store, err := NewJSONFileStore(path)
	require.NoError(t, err)
	return store, path
}

func TestNewJSONFileStore_CreatesEmptyObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "notifications.json")

	_, err := NewJSONFileStore(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestJSONFileStore_SaveGetDelete(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 123, "Москва", "08:30"))

	got, err := store.Get(ctx, 123)
	require.NoError(t, err)
	assert.Equal(t, &ports.ScheduleData{ChatID: "123", City: "Москва", Time: "08:30"}, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"123": {"city": "Москва", "time": "08:30"}}`, string(data))
	assert.Contains(t, string(data), "\n  \"123\"")

	require.NoError(t, store.Save(ctx, 123, "London", "21:00"))
	got, err = store.Get(ctx, 123)
	require.NoError(t, err)
	assert.Equal(t, "London", got.City)
	assert.Equal(t, "21:00", got.Time)

	deleted, err := store.Delete(ctx, 123)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, 123)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = store.Get(ctx, 123)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestJSONFileStore_GetAllSkipsMalformedEntries(t *testing.T) {
	store, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{
		"1": {"city": "Paris", "time": "07:00"},
		"2": "garbage",
		"3": {"city": "Berlin"},
		"-100500": {"city": "Rome", "time": "12:15"}
	}`), 0o644))

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, all, 2)
	assert.Equal(t, ports.ScheduleData{ChatID: "1", City: "Paris", Time: "07:00"}, all["1"])
	assert.Equal(t, "Rome", all["-100500"].City)
	assert.NotContains(t, all, "2")
	assert.NotContains(t, all, "3")
}

func TestJSONFileStore_GetRejectsIncompleteEntries(t *testing.T) {
	store, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{
		"1": {},
		"2": {"city": "Berlin"},
		"3": {"time": "07:00"},
		"4": {"city": "Oslo", "time": "06:45"}
	}`), 0o644))
	ctx := context.Background()

	for _, chatID := range []int64{1, 2, 3} {
		_, err := store.Get(ctx, chatID)
		assert.True(t, errors.IsNotFoundError(err), "chat %d: %v", chatID, err)
	}

	data, err := store.Get(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Oslo", data.City)
}

func TestJSONFileStore_CorruptFileIsStoreError(t *testing.T) {
	store, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	ctx := context.Background()

	_, err := store.GetAll(ctx)
	assert.True(t, errors.IsStoreIOError(err))

	err = store.Save(ctx, 1, "Paris", "07:00")
	assert.True(t, errors.IsStoreIOError(err))

	assert.True(t, errors.IsStoreIOError(store.Ping(ctx)))
}

func TestJSONFileStore_PicksUpExternalEdits(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, 1, "Paris", "07:00"))

	require.NoError(t, os.WriteFile(path, []byte(`{"2": {"city": "Oslo", "time": "06:45"}}`), 0o644))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.ScheduleData{"2": {ChatID: "2", City: "Oslo", Time: "06:45"}}, all)
}

func TestJSONFileStore_ConcurrentSavesAreNotLost(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := int64(1); i <= 25; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, chatID, "Kyiv", "09:00"))
		}(i)
	}
	wg.Wait()

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 25)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestNewJSONFileStore_EmptyPath(t *testing.T) {
	_, err := NewJSONFileStore("")
	assert.True(t, errors.IsConfigurationError(err))
}

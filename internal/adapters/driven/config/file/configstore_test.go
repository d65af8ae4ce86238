package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore_Success(t *testing.T) {
	store, dir := newStore(t)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(dir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Set("s", "hello"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("f", 2.5))
	require.NoError(t, store.Set("b", true))

	assert.Equal(t, "hello", store.GetString("s"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.Equal(t, 2.5, store.GetFloat("f"))
	assert.Equal(t, 42.0, store.GetFloat("i"))
	assert.True(t, store.GetBool("b"))

	// Wrong types and missing keys return zero values.
	assert.Empty(t, store.GetString("i"))
	assert.Zero(t, store.GetInt("s"))
	assert.Zero(t, store.GetFloat("s"))
	assert.False(t, store.GetBool("s"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_PersistenceAcrossReload(t *testing.T) {
	store1, dir := newStore(t)
	require.NoError(t, store1.Set("embedding.provider", "openai"))
	require.NoError(t, store1.Set("embedding.dimensions", 1536))
	require.NoError(t, store1.Set("capability.rate_limit", 2.5))
	require.NoError(t, store1.Set("retrieval.top_k", 5))
	require.NoError(t, store1.Set("verbose", true))

	store2, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store2.GetString("embedding.provider"))
	assert.Equal(t, 1536, store2.GetInt("embedding.dimensions"))
	assert.Equal(t, 2.5, store2.GetFloat("capability.rate_limit"))
	assert.Equal(t, 5, store2.GetInt("retrieval.top_k"))
	assert.True(t, store2.GetBool("verbose"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	assert.Contains(t, string(data), "[llm]")
	assert.Contains(t, string(data), "model = 'gpt-4o-mini'")
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	store, dir := newStore(t)

	store.mu.Lock()
	store.data["manual_key"] = "manual_value"
	store.mu.Unlock()

	require.NoError(t, store.Save())

	store2, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "manual_value", store2.GetString("manual_key"))
}

func TestConfigStore_Save_TargetIsDirectory(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	err := store.Set("another", "value")
	assert.Error(t, err)
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Set("valid", "data"))
	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, _ := newStore(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := "key" + string(rune('0'+i))
			_ = store.Set(key, i)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
		}()
	}
	wg.Wait()
}

func TestFlattenAndNest(t *testing.T) {
	flat := map[string]any{
		"embedding.provider": "mock",
		"embedding.model":    "m",
		"top":                int64(1),
		"a.b.c":              true,
	}

	nested := nestMap(flat)
	assert.Equal(t, map[string]any{"provider": "mock", "model": "m"}, nested["embedding"])
	assert.Equal(t, flattenMap(nested, ""), flat)
}

func TestNestMap_Collision(t *testing.T) {
	flat := map[string]any{
		"index":     "flat",
		"index.dir": "/tmp/x",
	}

	nested := nestMap(flat)

	assert.Equal(t, "flat", nested["index"])
	assert.Equal(t, "/tmp/x", nested["index.dir"])
}

package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyStoreRoundTrip(t *testing.T) {
	store := NewCompanyStore(t.TempDir())

	require.NoError(t, store.Save("co-42"))
	assert.Equal(t, "co-42", store.Load())

	require.NoError(t, store.Save("co-43"))
	assert.Equal(t, "co-43", store.Load())
}

func TestCompanyStoreEmptyWhenMissing(t *testing.T) {
	store := NewCompanyStore(t.TempDir())

	assert.Equal(t, "", store.Load())
}

func TestCompanyStoreCreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	store := NewCompanyStore(dir)

	require.NoError(t, store.Save("co-1"))

	_, err := os.Stat(filepath.Join(dir, "company.json"))
	assert.NoError(t, err)
}

func TestCompanyStoreIgnoresCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "company.json"), []byte("not json"), 0644))

	store := NewCompanyStore(dir)

	assert.Equal(t, "", store.Load())
}

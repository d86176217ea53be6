package topics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMissingFile(t *testing.T) {
	list, err := List(filepath.Join(t.TempDir(), "topics.txt"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListNormalizesAndDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	require.NoError(t, os.WriteFile(path, []byte("Golang\n  rust  \ngolang\n\nzig\n"), 0644))

	list, err := List(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "rust", "zig"}, list)
}

func TestAddAppendsNewTopics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")

	added, err := Add(path, []string{"golang", "rust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "rust"}, added)

	added, err = Add(path, []string{"Rust", "zig"})
	require.NoError(t, err)
	assert.Equal(t, []string{"zig"}, added)

	list, err := List(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "rust", "zig"}, list)
}

func TestAddNothingNewLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	require.NoError(t, os.WriteFile(path, []byte("golang\n"), 0644))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	added, err := Add(path, []string{"GOLANG"})
	require.NoError(t, err)
	assert.Empty(t, added)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	require.NoError(t, os.WriteFile(path, []byte("golang\nrust\nzig\n"), 0644))

	removed, err := Remove(path, []string{"Rust", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rust"}, removed)

	list, err := List(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "zig"}, list)
}

func TestRemoveNoMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.txt")
	require.NoError(t, os.WriteFile(path, []byte("golang\n"), 0644))

	removed, err := Remove(path, []string{"rust"})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRemove(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "local"))
	require.NoError(t, err)

	_, ok, err := st.Get("prefs")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set("prefs", `{"theme":"dark"}`))
	require.NoError(t, st.Set("prefs", `{"theme":"light"}`))

	value, ok, err := st.Get("prefs")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"theme":"light"}`, value)

	require.NoError(t, st.Remove("prefs"))
	_, ok, err = st.Get("prefs")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, st.Remove("prefs"), "removing a missing key is fine")
}

func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, st.Set("k", "v"))

	reopened, err := Open(dir)
	require.NoError(t, err)
	value, ok, err := reopened.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must be cleaned up")
}

func TestRejectsInvalidKeys(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, st.Set(key, "x"), "key %q", key)
	}
	_, err = Open("")
	assert.Error(t, err)
}

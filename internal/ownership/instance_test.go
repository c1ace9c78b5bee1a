package ownership

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureInstanceTag_GeneratesAndPersists(t *testing.T) {
	dir := t.TempDir()

	tag, err := EnsureInstanceTag(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, tag)
	assert.Regexp(t, `^[A-Za-z0-9_-]+$`, tag)

	data, err := os.ReadFile(filepath.Join(dir, instanceTagFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), tag)
}

func TestEnsureInstanceTag_StableAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	first, err := EnsureInstanceTag(dir)
	require.NoError(t, err)

	second, err := EnsureInstanceTag(dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEnsureInstanceTag_EmptyStateDirErrors(t *testing.T) {
	_, err := EnsureInstanceTag("")
	require.Error(t, err)
}

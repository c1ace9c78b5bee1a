package localdisk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName_StripsPathComponents(t *testing.T) {
	name, err := SanitizeName("../../etc/movie.mkv")
	require.NoError(t, err)
	assert.Equal(t, "movie.mkv", name)
}

func TestSanitizeName_PlainName(t *testing.T) {
	name, err := SanitizeName("Movie (2026)")
	require.NoError(t, err)
	assert.Equal(t, "Movie (2026)", name)
}

func TestSanitizeName_RejectsEmptyBaseName(t *testing.T) {
	_, err := SanitizeName("/")
	require.ErrorIs(t, err, ErrEmptyBaseName)

	_, err = SanitizeName("")
	require.ErrorIs(t, err, ErrEmptyBaseName)

	_, err = SanitizeName(".")
	require.ErrorIs(t, err, ErrEmptyBaseName)
}

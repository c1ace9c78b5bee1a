package ownership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopRegistry_AlwaysUnknownAndNoError(t *testing.T) {
	r := NoopRegistry{}
	ctx := context.Background()

	assert.NoError(t, r.ClaimOwnership(ctx, "ABCD"))
	assert.Equal(t, Unknown, r.IsOwnedByMe(ctx, "ABCD"))
	assert.Equal(t, Unknown, r.ReleaseOwnership(ctx, "ABCD"))
	assert.NoError(t, r.TestConnection(ctx))
}

func TestNew_DisabledYieldsNoop(t *testing.T) {
	r := New(false, "redis://localhost:6379/0", "radarr-4k", nil)
	assert.IsType(t, NoopRegistry{}, r)
}

func TestNew_MissingInstanceTagYieldsNoop(t *testing.T) {
	r := New(true, "redis://localhost:6379/0", "", nil)
	assert.IsType(t, NoopRegistry{}, r)
}

func TestNew_MissingConnectionStringYieldsNoop(t *testing.T) {
	r := New(true, "", "radarr-4k", nil)
	assert.IsType(t, NoopRegistry{}, r)
}

func TestNew_MalformedConnectionStringFallsBackToNoop(t *testing.T) {
	r := New(true, "not a url", "radarr-4k", nil)
	assert.IsType(t, NoopRegistry{}, r)
}

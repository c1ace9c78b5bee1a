package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerKey_UppercasesInfoHash(t *testing.T) {
	assert.Equal(t, "seedr:owners:ABCD1234", ownerKey("abcd1234"))
}

func TestNewRedisRegistry_AppliesTimeouts(t *testing.T) {
	r, err := NewRedisRegistry("redis://localhost:6379/0", "radarr-4k", nil)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "radarr-4k", r.instanceTag)
	assert.Equal(t, connectTimeout, r.client.Options().DialTimeout)
	assert.Equal(t, syncTimeout, r.client.Options().ReadTimeout)
	assert.Equal(t, syncTimeout, r.client.Options().WriteTimeout)
}

func TestNewRedisRegistry_RejectsMalformedURL(t *testing.T) {
	_, err := NewRedisRegistry("not-a-url://@@@", "radarr-4k", nil)
	require.Error(t, err)
}

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newTestKeyring(env map[string]string) *systemKeyring {
	keyring.MockInit()
	return &systemKeyring{
		account: KeyName,
		getenv:  func(k string) string { return env[k] },
	}
}

func TestKeyring_SetGetDelete(t *testing.T) {
	k := newTestKeyring(nil)

	_, err := k.GetKey()
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.False(t, k.IsAvailable())

	require.NoError(t, k.SetKey("s3cret"))

	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", key)
	assert.True(t, k.IsAvailable())

	require.NoError(t, k.DeleteKey())
	assert.ErrorIs(t, k.DeleteKey(), ErrKeyNotFound)
}

func TestKeyring_EnvironmentTakesPrecedence(t *testing.T) {
	k := newTestKeyring(map[string]string{EnvKey: "from-env"})
	require.NoError(t, k.SetKey("from-keyring"))

	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestKeyring_RejectsEmptyPassword(t *testing.T) {
	assert.Error(t, newTestKeyring(nil).SetKey(""))
}

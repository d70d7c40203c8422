package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletJWT_RoundTrip(t *testing.T) {
	key := []byte("test-secret")

	tokenString, err := GenerateWalletJWT("alice", time.Hour, key)
	require.NoError(t, err)

	token, err := ValidateWalletJWT(tokenString, key)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*WalletClaims)
	require.True(t, ok)
	assert.Equal(t, "alice", claims.Address)
}

func TestWalletJWT_WrongKey(t *testing.T) {
	tokenString, err := GenerateWalletJWT("alice", time.Hour, []byte("key-one"))
	require.NoError(t, err)

	_, err = ValidateWalletJWT(tokenString, []byte("key-two"))
	assert.Error(t, err)
}

func TestWalletJWT_Expired(t *testing.T) {
	key := []byte("test-secret")
	tokenString, err := GenerateWalletJWT("alice", -time.Minute, key)
	require.NoError(t, err)

	_, err = ValidateWalletJWT(tokenString, key)
	assert.Error(t, err)
}

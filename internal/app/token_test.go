package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", 42, time.Minute)
	require.NoError(t, err)

	userId, err := ParseAccessToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, 42, userId)

	_, err = ParseAccessToken("", token)
	assert.Error(t, err, "an unconfigured secret must reject every token")

	zero, err := NewAccessToken("secret", 0, time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", zero)
	assert.ErrorIs(t, err, errInvalidSubject)
}

package channeltoken

import (
	"testing"
	"time"

	"github.com/kazerdira/wolverix/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintThenVerify_RoundTripsRoomAndPlayer(t *testing.T) {
	m := NewMinter("test-secret", time.Minute)

	token, err := m.Mint("room-1", "P0")
	require.NoError(t, err)

	roomID, playerID, err := m.Verify(token)

	require.NoError(t, err)
	assert.Equal(t, "room-1", roomID)
	assert.Equal(t, models.PlayerID("P0"), playerID)
}

func TestVerify_ExpiredTokenIsRejected(t *testing.T) {
	m := NewMinter("test-secret", -time.Second)

	token, err := m.Mint("room-1", "P0")
	require.NoError(t, err)

	_, _, err = m.Verify(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecretIsRejected(t *testing.T) {
	minted := NewMinter("secret-a", time.Minute)
	token, err := minted.Mint("room-1", "P0")
	require.NoError(t, err)

	other := NewMinter("secret-b", time.Minute)
	_, _, err = other.Verify(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MalformedTokenIsRejected(t *testing.T) {
	m := NewMinter("test-secret", time.Minute)

	_, _, err := m.Verify("not-a-jwt")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

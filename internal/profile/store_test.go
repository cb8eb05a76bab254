package profile

import (
	"errors"
	"testing"

	"github.com/kazerdira/wolverix/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 8<<20)
	require.NoError(t, err)
	return s
}

func TestRead_LiteralTestIDReturnsFixture(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Read("test")

	require.NoError(t, err)
	assert.Equal(t, "test", p.ID)
	assert.Equal(t, "Test User", p.Name)
}

func TestRead_UnknownIDReturnsErrNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read("does-not-exist")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreate_ThenRead_RoundTrips(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create("Ava")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ava", created.Name)
	assert.NotNil(t, created.Stats.WinsByRole)

	read, err := s.Read(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, read)
}

func TestWrite_OverwritesExistingProfile(t *testing.T) {
	s := newTestStore(t)
	created, err := s.Create("Ava")
	require.NoError(t, err)

	created.AvatarURL = "/avatars/ava.png"
	require.NoError(t, s.Write(created))

	read, err := s.Read(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "/avatars/ava.png", read.AvatarURL)
}

func TestRecordResult_WinIncrementsPlayedWonAndRoleTally(t *testing.T) {
	s := newTestStore(t)
	created, err := s.Create("Ava")
	require.NoError(t, err)

	require.NoError(t, s.RecordResult(created.ID, true, models.RoleSeer))

	read, err := s.Read(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, read.Stats.GamesPlayed)
	assert.Equal(t, 1, read.Stats.GamesWon)
	assert.Equal(t, 1, read.Stats.WinsByRole[models.RoleSeer])
}

func TestRecordResult_LossIncrementsPlayedOnly(t *testing.T) {
	s := newTestStore(t)
	created, err := s.Create("Ava")
	require.NoError(t, err)

	require.NoError(t, s.RecordResult(created.ID, false, models.RoleWerewolf))

	read, err := s.Read(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, read.Stats.GamesPlayed)
	assert.Equal(t, 0, read.Stats.GamesWon)
	assert.Empty(t, read.Stats.WinsByRole)
}

func TestRecordResult_UnknownIDReturnsErrNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.RecordResult("does-not-exist", true, models.RoleSeer)

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveAvatar_WritesFileAndReturnsURL(t *testing.T) {
	s := newTestStore(t)

	url, err := s.SaveAvatar("player-1", ".png", []byte("not a real png but bytes"))

	require.NoError(t, err)
	assert.Equal(t, "/avatars/player-1.png", url)
}

func TestSaveAvatar_RejectsOversizedPayload(t *testing.T) {
	s := newTestStore(t)

	oversized := make([]byte, s.MaxAvatarBytes()+1)
	_, err := s.SaveAvatar("player-1", ".png", oversized)

	assert.ErrorIs(t, err, ErrAvatarTooLarge)
}

func TestSaveAvatar_RespectsConfiguredLimit(t *testing.T) {
	s, err := NewStore(t.TempDir(), 10)
	require.NoError(t, err)

	_, err = s.SaveAvatar("player-1", ".png", make([]byte, 11))

	assert.ErrorIs(t, err, ErrAvatarTooLarge)
}

package game

import (
	"testing"
	"time"

	"github.com/kazerdira/wolverix/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(players []*models.Player, stage models.Stage) *Room {
	r := &Room{
		durations: DefaultDurations(),
		scheduler: NewRoomScheduler(),
		state: &models.GameState{
			RoomID:        "room-1",
			Players:       players,
			Stage:         stage,
			NightActions:  map[models.PlayerID]models.NightAction{},
			DayVotes:      map[models.PlayerID]models.PlayerID{},
			WerewolfVotes: map[models.PlayerID]models.PlayerID{},
			SheriffVotes:  map[models.PlayerID]models.PlayerID{},
		},
	}
	return r
}

// TestNightSkip_NoLivingWolvesOrWitchAdvancesPastThoseStages covers
// property 9: a role-specific night stage with nobody eligible is skipped
// without landing there at all.
func TestNightSkip_NoLivingWolvesOrWitchAdvancesPastThoseStages(t *testing.T) {
	r := newTestRoom([]*models.Player{
		seatedPlayer("P0", models.RoleVillager, 0, true),
		seatedPlayer("P1", models.RoleSeer, 1, true),
	}, models.StageNightStart)

	r.mu.Lock()
	r.advanceLocked(&outboundBatch{})
	r.mu.Unlock()

	assert.Equal(t, models.StageSeerTurn, r.state.Stage)
}

// TestRecordAction_GuardRepeatTargetRejectedWithoutStateChange covers
// property 10.
func TestRecordAction_GuardRepeatTargetRejectedWithoutStateChange(t *testing.T) {
	r := newTestRoom([]*models.Player{
		seatedPlayer("P0", models.RoleGuard, 0, true),
		seatedPlayer("P1", models.RoleVillager, 1, true),
	}, models.StageGuardTurn)
	r.state.LastGuardedID = "P1"

	err := r.RecordAction("P0", models.ActionGuard, "P1")

	assert.ErrorIs(t, err, ErrGuardRepeat)
	assert.Empty(t, r.state.GuardTarget)
}

// TestRecordAction_WitchCannotSaveAndPoisonSameNight covers property 11.
// The witch's first action completes WITCH_TURN and the room advances, so
// the second action is rejected as out of stage and the poison is kept.
func TestRecordAction_WitchCannotSaveAndPoisonSameNight(t *testing.T) {
	r := newTestRoom([]*models.Player{
		seatedPlayer("P0", models.RoleWitch, 0, true),
		seatedPlayer("P1", models.RoleVillager, 1, true),
	}, models.StageWitchTurn)
	r.state.WitchHasSave = true
	r.state.WitchHasPoison = true
	r.state.WerewolfKillTarget = "P1"

	require.NoError(t, r.RecordAction("P0", models.ActionSave, ""))

	err := r.RecordAction("P0", models.ActionPoison, "P1")

	assert.ErrorIs(t, err, ErrWrongStage)
	assert.False(t, r.state.WitchHasSave)
	assert.True(t, r.state.WitchHasPoison)
}

// TestRecordVote_SecondVoteFromSameVoterOverwrites covers property 8 at
// the Room level (map assignment through RecordVote), not just the bare
// map semantics.
func TestRecordVote_SecondVoteFromSameVoterOverwrites(t *testing.T) {
	r := newTestRoom([]*models.Player{
		seatedPlayer("A", models.RoleVillager, 0, true),
		seatedPlayer("B", models.RoleVillager, 1, true),
		seatedPlayer("C", models.RoleVillager, 2, true),
	}, models.StageVote)

	require.NoError(t, r.RecordVote("A", "B"))
	require.NoError(t, r.RecordVote("A", "C"))

	assert.Len(t, r.state.DayVotes, 1)
	assert.Equal(t, models.PlayerID("C"), r.state.DayVotes["A"])
}

// TestScheduleTimerLocked_StaleExpectedStageIsANoOp covers property 7: a
// timer callback that fires after the room has already moved past its
// expected stage leaves state unchanged.
func TestScheduleTimerLocked_StaleExpectedStageIsANoOp(t *testing.T) {
	r := newTestRoom([]*models.Player{
		seatedPlayer("P0", models.RoleVillager, 0, true),
	}, models.StageDawn)

	r.mu.Lock()
	r.scheduleTimerLocked(models.StageDawn, 15*time.Millisecond)
	r.mu.Unlock()

	r.mu.Lock()
	r.state.Stage = models.StageGameOver
	r.mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, models.StageGameOver, r.state.Stage)
}

// TestRecordAction_RejectsWrongStage ensures an action submitted outside
// its matching stage is rejected rather than silently recorded.
func TestRecordAction_RejectsWrongStage(t *testing.T) {
	r := newTestRoom([]*models.Player{
		seatedPlayer("P0", models.RoleSeer, 0, true),
	}, models.StageWerewolfTurn)

	err := r.RecordAction("P0", models.ActionCheck, "P0")

	assert.ErrorIs(t, err, ErrWrongStage)
}

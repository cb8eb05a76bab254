package game

import (
	"testing"

	"github.com/kazerdira/wolverix/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func seatedPlayer(id models.PlayerID, role models.Role, seat int, alive bool) *models.Player {
	s := seat
	return &models.Player{ID: id, Name: string(id), Role: role, Seat: &s, IsAlive: alive}
}

// TestResolveNight_ScenarioA_SimpleKillAndIndependentSeerCheck grounds on
// spec scenario A: both wolves kill the seer; the guard protects someone
// else; the seer's check still resolves even though the seer dies this
// same night.
func TestResolveNight_ScenarioA_SimpleKillAndIndependentSeerCheck(t *testing.T) {
	state := &models.GameState{
		Players: []*models.Player{
			seatedPlayer("P0", models.RoleWerewolf, 0, true),
			seatedPlayer("P1", models.RoleWerewolf, 1, true),
			seatedPlayer("P2", models.RoleVillager, 2, true),
			seatedPlayer("P3", models.RoleVillager, 3, true),
			seatedPlayer("P4", models.RoleSeer, 4, true),
			seatedPlayer("P5", models.RoleGuard, 5, true),
		},
		WerewolfVotes: map[models.PlayerID]models.PlayerID{"P0": "P4", "P1": "P4"},
		GuardTarget:   "P5",
		NightActions:  map[models.PlayerID]models.NightAction{"P4": {Action: models.ActionCheck, Target: "P0"}},
	}

	result := ResolveNight(state)

	assert.Equal(t, []models.PlayerID{"P4"}, result.Dead)
	assert.Empty(t, result.Saved)
	assert.Empty(t, result.Poisoned)
	assert.Equal(t, map[models.PlayerID]bool{"P0": true}, result.Checked)
}

// TestResolveNight_ScenarioB_WitchSaves grounds on spec scenario B.
func TestResolveNight_ScenarioB_WitchSaves(t *testing.T) {
	state := &models.GameState{
		Players: []*models.Player{
			seatedPlayer("P0", models.RoleWerewolf, 0, true),
			seatedPlayer("P1", models.RoleWerewolf, 1, true),
			seatedPlayer("P2", models.RoleVillager, 2, true),
			seatedPlayer("P4", models.RoleWitch, 4, true),
		},
		WerewolfVotes:   map[models.PlayerID]models.PlayerID{"P0": "P2", "P1": "P2"},
		WitchHasSave:    true,
		WitchSaveTarget: "P2",
	}

	result := ResolveNight(state)

	assert.Empty(t, result.Dead)
	assert.Equal(t, models.PlayerID("P2"), result.Saved)
	assert.Empty(t, result.Poisoned)
}

// TestResolveNight_ScenarioC_GuardAndWitchSaveSameTarget grounds on spec
// scenario C: the guard and the witch protect the same target in the same
// night; only one death-prevention mechanism needs to apply, and no death
// results either way.
func TestResolveNight_ScenarioC_GuardAndWitchSaveSameTarget(t *testing.T) {
	state := &models.GameState{
		Players: []*models.Player{
			seatedPlayer("P0", models.RoleWerewolf, 0, true),
			seatedPlayer("P1", models.RoleWerewolf, 1, true),
			seatedPlayer("P3", models.RoleVillager, 3, true),
			seatedPlayer("P4", models.RoleWitch, 4, true),
			seatedPlayer("P5", models.RoleGuard, 5, true),
		},
		WerewolfVotes:   map[models.PlayerID]models.PlayerID{"P0": "P3", "P1": "P3"},
		GuardTarget:     "P3",
		WitchHasSave:    true,
		WitchSaveTarget: "P3",
	}

	result := ResolveNight(state)

	assert.Empty(t, result.Dead)
	assert.Equal(t, models.PlayerID("P3"), result.Saved)
}

// TestResolveNight_PoisonAlwaysKillsIndependentlyOfGuard covers the
// precedence: poison bypasses guard protection entirely.
func TestResolveNight_PoisonAlwaysKillsIndependentlyOfGuard(t *testing.T) {
	state := &models.GameState{
		Players: []*models.Player{
			seatedPlayer("P3", models.RoleVillager, 3, true),
		},
		GuardTarget:       "P3",
		WitchPoisonTarget: "P3",
	}

	result := ResolveNight(state)

	assert.Equal(t, []models.PlayerID{"P3"}, result.Dead)
	assert.Equal(t, models.PlayerID("P3"), result.Poisoned)
}

// TestResolveNight_TiedWerewolfVoteYieldsNoKill covers the werewolf-vote
// tie case feeding into handleWerewolfTieLocked.
func TestResolveNight_TiedWerewolfVoteYieldsNoKill(t *testing.T) {
	state := &models.GameState{
		Players: []*models.Player{
			seatedPlayer("P0", models.RoleWerewolf, 0, true),
			seatedPlayer("P1", models.RoleWerewolf, 1, true),
		},
		WerewolfVotes: map[models.PlayerID]models.PlayerID{"P0": "P2", "P1": "P3"},
	}
	assert.Equal(t, models.PlayerID(""), resolveWerewolfTarget(state))
	assert.Empty(t, ResolveNight(state).Dead)
}

func livingVoters(ids ...models.PlayerID) []*models.Player {
	players := make([]*models.Player, 0, len(ids))
	for i, id := range ids {
		players = append(players, seatedPlayer(id, models.RoleVillager, i, true))
	}
	return players
}

// TestResolveDayVotes_ScenarioD_TieEliminatesNobody grounds on spec
// scenario D.
func TestResolveDayVotes_ScenarioD_TieEliminatesNobody(t *testing.T) {
	state := &models.GameState{
		Players: livingVoters("A", "B", "C", "D"),
		DayVotes: map[models.PlayerID]models.PlayerID{
			"A": "C", "B": "C", "C": "A", "D": "A",
		},
	}

	result := ResolveDayVotes(state)

	assert.Empty(t, result.Eliminated)
}

// TestResolveDayVotes_ScenarioE_SheriffWeight grounds on spec scenario E:
// a living sheriff's vote counts 1.5x.
func TestResolveDayVotes_ScenarioE_SheriffWeight(t *testing.T) {
	players := livingVoters("P1", "P2", "P3", "P4", "P5")
	players[0].IsSheriff = true // P1
	state := &models.GameState{
		Players: players,
		DayVotes: map[models.PlayerID]models.PlayerID{
			"P1": "T1", "P2": "T1", "P3": "T2", "P4": "T2", "P5": "T2",
		},
	}

	result := ResolveDayVotes(state)

	assert.Equal(t, models.PlayerID("T2"), result.Eliminated)
}

// TestResolveDayVotes_ScenarioF_RevealedIdiotVoteWeightIsZero grounds on
// spec scenario F's follow-on assertion: once an Idiot has been revealed,
// their vote no longer counts.
func TestResolveDayVotes_ScenarioF_RevealedIdiotVoteWeightIsZero(t *testing.T) {
	players := livingVoters("IDIOT", "P2", "P3")
	players[0].Role = models.RoleIdiot
	players[0].HasVotedOut = true
	state := &models.GameState{
		Players: players,
		DayVotes: map[models.PlayerID]models.PlayerID{
			"IDIOT": "P2", "P2": "P3", "P3": "P3",
		},
	}

	result := ResolveDayVotes(state)

	// IDIOT's vote for P2 carries weight 0, so only P2->P3 and P3->P3 land:
	// P3 gets 2.0, a unique maximum.
	assert.Equal(t, models.PlayerID("P3"), result.Eliminated)
}

// TestResolveDayVotes_SecondVoteFromSameVoterOverwrites covers property 8.
func TestResolveDayVotes_SecondVoteFromSameVoterOverwrites(t *testing.T) {
	votes := map[models.PlayerID]models.PlayerID{}
	votes["A"] = "B"
	votes["A"] = "C"
	assert.Len(t, votes, 1)
	assert.Equal(t, models.PlayerID("C"), votes["A"])
}

// TestCheckGameOver_WolvesEliminatedWinsSimultaneousWipeTie covers
// property: wolves-eliminated is checked ahead of the good-side wipe
// conditions.
func TestCheckGameOver_WolvesEliminatedWinsSimultaneousWipeTie(t *testing.T) {
	state := &models.GameState{
		Players: []*models.Player{
			seatedPlayer("P0", models.RoleWerewolf, 0, false),
			seatedPlayer("P1", models.RoleSeer, 1, false),
			seatedPlayer("P2", models.RoleVillager, 2, true),
		},
	}
	ended := CheckGameOver(state)
	assert.True(t, ended)
	assert.Equal(t, models.FactionGood, state.Winner)
}

func TestCheckGameOver_GodsWipedIsWolfWin(t *testing.T) {
	state := &models.GameState{
		Players: []*models.Player{
			seatedPlayer("P0", models.RoleWerewolf, 0, true),
			seatedPlayer("P1", models.RoleSeer, 1, false),
		},
	}
	ended := CheckGameOver(state)
	assert.True(t, ended)
	assert.Equal(t, models.FactionWolf, state.Winner)
}

func TestCheckGameOver_GameContinuesWhenBothSidesRemain(t *testing.T) {
	state := &models.GameState{
		Players: []*models.Player{
			seatedPlayer("P0", models.RoleWerewolf, 0, true),
			seatedPlayer("P1", models.RoleVillager, 1, true),
			seatedPlayer("P2", models.RoleSeer, 2, true),
		},
	}
	assert.False(t, CheckGameOver(state))
	assert.Empty(t, state.Winner)
}

// TestDetermineSpeechOrder_AnchorsAtFirstLivingSeatPastLowestVictim covers
// the non-day-1 speech order rule.
func TestDetermineSpeechOrder_AnchorsAtFirstLivingSeatPastLowestVictim(t *testing.T) {
	state := &models.GameState{
		Day: 2,
		Players: []*models.Player{
			seatedPlayer("P0", models.RoleVillager, 0, true),
			seatedPlayer("P1", models.RoleVillager, 1, false),
			seatedPlayer("P2", models.RoleVillager, 2, true),
			seatedPlayer("P3", models.RoleVillager, 3, true),
		},
		NightlyDeaths: []models.PlayerID{"P1"},
	}

	order := DetermineSpeechOrder(state)

	assert.Equal(t, []models.PlayerID{"P2", "P3", "P0"}, order)
}

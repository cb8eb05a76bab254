package game

import (
	"github.com/kazerdira/wolverix/backend/internal/catalog"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

// nextStage computes the stage that follows current, given the ordered
// list in the phase-machine contract. Sheriff stages are only inserted
// when state.Day == 1 (they run once, after the first DAWN). VOTE_RESOLVE
// always maps to NIGHT_START here; advanceLocked replaces the result with
// GAME_OVER once a winner has been set.
func nextStage(current models.Stage, state *models.GameState) models.Stage {
	switch current {
	case models.StageWaiting:
		return models.StageRoleAssign
	case models.StageRoleAssign:
		return models.StageNightStart
	case models.StageNightStart:
		return models.StageWerewolfTurn
	case models.StageWerewolfTurn:
		return models.StageWitchTurn
	case models.StageWitchTurn:
		return models.StageSeerTurn
	case models.StageSeerTurn:
		return models.StageGuardTurn
	case models.StageGuardTurn:
		return models.StageNightResolve
	case models.StageNightResolve:
		return models.StageDawn
	case models.StageDawn:
		if state.Day == 1 {
			return models.StageSheriffElection
		}
		return models.StageSpeechOrder
	case models.StageSheriffElection:
		return models.StageSheriffSpeech
	case models.StageSheriffSpeech:
		return models.StageSheriffVote
	case models.StageSheriffVote:
		return models.StageSheriffResult
	case models.StageSheriffResult:
		return models.StageSpeechOrder
	case models.StageSpeechOrder:
		return models.StageDayDiscussion
	case models.StageDayDiscussion:
		return models.StageVote
	case models.StageVote:
		return models.StageVoteResolve
	case models.StageVoteResolve:
		return models.StageNightStart
	default:
		return models.StageGameOver
	}
}

// roleEligibleForStage reports whether any living player qualifies to act
// in a role-specific night stage; used to implement the skip rule (advance
// without broadcast when no eligible actor exists).
func roleEligibleForStage(stage models.Stage, state *models.GameState) bool {
	switch stage {
	case models.StageWerewolfTurn:
		for _, p := range state.LivingPlayers() {
			if catalog.IsWolf(p.Role) {
				return true
			}
		}
		return false
	case models.StageWitchTurn:
		return hasLivingRole(state, models.RoleWitch)
	case models.StageSeerTurn:
		return hasLivingRole(state, models.RoleSeer)
	case models.StageGuardTurn:
		return hasLivingRole(state, models.RoleGuard)
	default:
		return true
	}
}

func hasLivingRole(state *models.GameState, role models.Role) bool {
	for _, p := range state.LivingPlayers() {
		if p.Role == role {
			return true
		}
	}
	return false
}

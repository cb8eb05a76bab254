package game

import (
	"math/rand"

	"github.com/kazerdira/wolverix/backend/internal/catalog"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

// ResolveNight is a pure function implementing the fixed night-resolution
// precedence: werewolf target, guard protection, witch save, witch poison,
// death set, seer check. It does not mutate state; callers apply the
// result.
func ResolveNight(state *models.GameState) models.NightResult {
	result := models.NightResult{}

	killTarget := resolveWerewolfTarget(state)

	wasGuarded := killTarget != "" && killTarget == state.GuardTarget
	wasSaved := killTarget != "" && state.WitchSaveTarget == killTarget

	dead := make([]models.PlayerID, 0, 2)
	if killTarget != "" && !wasGuarded && !wasSaved {
		dead = append(dead, killTarget)
	}
	if state.WitchPoisonTarget != "" {
		already := false
		for _, d := range dead {
			if d == state.WitchPoisonTarget {
				already = true
			}
		}
		if !already {
			dead = append(dead, state.WitchPoisonTarget)
		}
	}

	result.Dead = dead
	if wasSaved {
		result.Saved = killTarget
	}
	if state.WitchPoisonTarget != "" {
		result.Poisoned = state.WitchPoisonTarget
	}

	if action, ok := state.NightActions[seerActor(state)]; ok && action.Action == models.ActionCheck {
		target := state.PlayerByID(action.Target)
		if target != nil {
			result.Checked = map[models.PlayerID]bool{target.ID: catalog.IsWolf(target.Role)}
		}
	}

	return result
}

// resolveWerewolfTarget finds the majority target over living wolf-faction
// voters. A tie (or an empty vote) yields no target.
func resolveWerewolfTarget(state *models.GameState) models.PlayerID {
	counts := map[models.PlayerID]int{}
	for voter, target := range state.WerewolfVotes {
		p := state.PlayerByID(voter)
		if p == nil || !p.IsAlive || !catalog.IsWolf(p.Role) {
			continue
		}
		counts[target]++
	}
	return uniqueMax(counts)
}

// uniqueMax returns the key with a strictly greater count than every other
// key, or "" if the map is empty or the maximum is tied.
func uniqueMax(counts map[models.PlayerID]int) models.PlayerID {
	max := 0
	var top models.PlayerID
	tied := false
	for target, count := range counts {
		if count > max {
			max = count
			top = target
			tied = false
		} else if count == max && max > 0 {
			tied = true
		}
	}
	if tied || max == 0 {
		return ""
	}
	return top
}

// seerActor returns the id of the seer, alive or dead, if the role is in
// play, to look up their recorded CHECK action.
func seerActor(state *models.GameState) models.PlayerID {
	for _, p := range state.Players {
		if p.Role == models.RoleSeer {
			return p.ID
		}
	}
	return ""
}

// witchActor returns the id of the witch, if the role is in play, so the
// night-resolve result can be delivered to them privately.
func witchActor(state *models.GameState) models.PlayerID {
	for _, p := range state.Players {
		if p.Role == models.RoleWitch {
			return p.ID
		}
	}
	return ""
}

// randIntn is indirected so deterministic tests can stub the randomness
// used by DetermineSpeechOrder.
var randIntn = rand.Intn

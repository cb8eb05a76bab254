package game

import (
	"time"

	"github.com/kazerdira/wolverix/backend/internal/models"
)

// enterStageLocked runs the per-stage entry handler from the phase-machine
// contract table: resets, panel delivery, and — for the two resolve
// stages — running the Resolution Rules and checking victory. Must be
// called with r.mu held; timers are scheduled at the end of each branch.
func (r *Room) enterStageLocked(stage models.Stage, batch *outboundBatch) {
	switch stage {
	case models.StageRoleAssign:
		r.assignRolesLocked()
		for _, p := range r.state.Players {
			if p.Role != "" {
				batch.sendTo(p.ID, models.WSTypeRoleAssignment, map[string]models.Role{"role": p.Role})
			}
		}
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
		r.scheduleTimerLocked(stage, r.durations.RoleAssign)

	case models.StageNightStart:
		r.state.Day++
		resetNightState(r.state)
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
		r.scheduleTimerLocked(stage, r.durations.NightStart)

	case models.StageWerewolfTurn:
		r.sendWerewolfPanelLocked(batch)
		r.scheduleTimerLocked(stage, r.durations.WerewolfTurn)

	case models.StageWitchTurn:
		r.sendWitchPanelLocked(batch)
		r.scheduleTimerLocked(stage, r.durations.WitchTurn)

	case models.StageSeerTurn:
		r.sendSeerPanelLocked(batch)
		r.scheduleTimerLocked(stage, r.durations.SeerTurn)

	case models.StageGuardTurn:
		r.sendGuardPanelLocked(batch)
		r.scheduleTimerLocked(stage, r.durations.GuardTurn)

	case models.StageNightResolve:
		r.resolveNightLocked(batch)
		r.scheduleTimerLocked(stage, r.durations.NightResolve)

	case models.StageDawn:
		batch.broadcast(models.WSTypeNightDeaths, r.state.NightlyDeaths)
		r.scheduleTimerLocked(stage, r.durations.Dawn)

	case models.StageSheriffElection:
		r.state.SheriffCandidates = nil
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
		r.scheduleTimerLocked(stage, r.durations.SheriffElection)

	case models.StageSheriffSpeech:
		r.activeSpeakers = append([]models.PlayerID(nil), r.state.SheriffCandidates...)
		r.speakerIdx = 0
		if len(r.activeSpeakers) > 0 {
			r.state.CurrentSpeaker = r.activeSpeakers[0]
		} else {
			r.state.CurrentSpeaker = ""
		}
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
		r.scheduleTimerLocked(stage, r.durations.SheriffSpeech*time.Duration(maxInt(1, len(r.activeSpeakers))))

	case models.StageSheriffVote:
		r.state.SheriffVotes = map[models.PlayerID]models.PlayerID{}
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
		r.scheduleTimerLocked(stage, r.durations.SheriffVote)

	case models.StageSheriffResult:
		r.resolveSheriffLocked(batch)
		r.scheduleTimerLocked(stage, r.durations.SheriffResult)

	case models.StageSpeechOrder:
		r.state.SpeechOrder = DetermineSpeechOrder(r.state)
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
		r.scheduleTimerLocked(stage, r.durations.SpeechOrder)

	case models.StageDayDiscussion:
		r.activeSpeakers = append([]models.PlayerID(nil), r.state.SpeechOrder...)
		r.speakerIdx = 0
		if len(r.activeSpeakers) > 0 {
			r.state.CurrentSpeaker = r.activeSpeakers[0]
		} else {
			r.state.CurrentSpeaker = ""
		}
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
		r.scheduleTimerLocked(stage, r.durations.DayDiscussion*time.Duration(maxInt(1, len(r.activeSpeakers))))

	case models.StageVote:
		r.state.DayVotes = map[models.PlayerID]models.PlayerID{}
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
		r.scheduleTimerLocked(stage, r.durations.Vote)

	case models.StageVoteResolve:
		r.resolveDayVoteLocked(batch)
		r.scheduleTimerLocked(stage, r.durations.VoteResolve)

	case models.StageGameOver:
		batch.broadcast(models.WSTypeGameOver, PublicView(r.state))
		if r.onGameOver != nil {
			r.onGameOver(r.state)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// resetNightState clears the per-night scratch fields, per the reset
// boundaries in the data model's invariants.
func resetNightState(state *models.GameState) {
	state.NightActions = map[models.PlayerID]models.NightAction{}
	state.WerewolfVotes = map[models.PlayerID]models.PlayerID{}
	state.WerewolfKillTarget = ""
	state.WerewolfTieStrikes = 0
	state.WitchSaveTarget = ""
	state.WitchPoisonTarget = ""
	state.GuardTarget = ""
	state.NightlyDeaths = nil
}

func (r *Room) resolveNightLocked(batch *outboundBatch) {
	result := ResolveNight(r.state)
	for _, id := range result.Dead {
		if p := r.state.PlayerByID(id); p != nil {
			p.IsAlive = false
		}
	}
	r.state.NightlyDeaths = result.Dead
	r.state.LastGuardedID = r.state.GuardTarget

	// Saved/poisoned targets are witch-only information; NIGHT_DEATHS
	// (broadcast at DAWN) is the public-facing death list, so nothing
	// about this night's save/poison goes out to the room at large.
	if witch := witchActor(r.state); witch != "" && (result.Saved != "" || result.Poisoned != "") {
		batch.sendTo(witch, models.WSTypeNightResult, models.NightResult{
			Saved: result.Saved, Poisoned: result.Poisoned,
		})
	}

	CheckGameOver(r.state)
}

func (r *Room) resolveDayVoteLocked(batch *outboundBatch) {
	result := ResolveDayVotes(r.state)
	if result.Eliminated != "" {
		if p := r.state.PlayerByID(result.Eliminated); p != nil {
			if p.Role == models.RoleIdiot {
				p.HasVotedOut = true
				batch.broadcastEvent(p.Name + " was revealed as the Idiot and survives, but may no longer vote")
			} else {
				p.IsAlive = false
			}
		}
	}
	batch.broadcast(models.WSTypeVoteResult, result)
	CheckGameOver(r.state)
}

func (r *Room) resolveSheriffLocked(batch *outboundBatch) {
	weights := map[models.PlayerID]int{}
	for _, target := range r.state.SheriffVotes {
		weights[target]++
	}
	winner := uniqueMax(weights)
	if winner != "" {
		if p := r.state.PlayerByID(winner); p != nil {
			p.IsSheriff = true
		}
	}
	batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
}

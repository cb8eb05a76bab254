package game

import (
	"time"

	"github.com/kazerdira/wolverix/backend/internal/catalog"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

// RecordAction handles a single night-skill decision (KILL, GUARD, SAVE,
// POISON, CHECK). It gates by role/stage/alive/potion-availability/
// guard-repeat rule, then re-evaluates the auto-advance predicate for the
// current stage.
func (r *Room) RecordAction(actorID models.PlayerID, action models.ActionType, target models.PlayerID) error {
	r.mu.Lock()
	batch := &outboundBatch{}
	var err error
	func() {
		defer r.mu.Unlock()
		err = r.recordActionLocked(actorID, action, target, batch)
		if err == nil {
			r.checkAutoAdvanceLocked(batch)
		}
	}()
	r.flush(batch)
	return err
}

func (r *Room) recordActionLocked(actorID models.PlayerID, action models.ActionType, target models.PlayerID, batch *outboundBatch) error {
	actor := r.state.PlayerByID(actorID)
	if actor == nil {
		return ErrPlayerNotFound
	}
	if !actor.IsAlive {
		return ErrNotEligible
	}

	switch action {
	case models.ActionKill:
		if r.state.Stage != models.StageWerewolfTurn || !catalog.IsWolf(actor.Role) {
			return ErrWrongStage
		}
		if r.state.PlayerByID(target) == nil {
			return ErrIllegalTarget
		}
		r.state.WerewolfVotes[actorID] = target
		votes := copyVotes(r.state.WerewolfVotes)
		for _, wolf := range livingWolves(r.state) {
			batch.sendTo(wolf, models.WSTypeWerewolfVoteUpdate, votes)
		}

	case models.ActionGuard:
		if r.state.Stage != models.StageGuardTurn || actor.Role != models.RoleGuard {
			return ErrWrongStage
		}
		if r.state.PlayerByID(target) == nil {
			return ErrIllegalTarget
		}
		if target == r.state.LastGuardedID {
			batch.event(actorID, "cannot guard the same player two nights in a row")
			return ErrGuardRepeat
		}
		r.state.GuardTarget = target
		r.state.NightActions[actorID] = models.NightAction{Action: action, Target: target}
		batch.event(actorID, "guard recorded")

	case models.ActionSave:
		if r.state.Stage != models.StageWitchTurn || actor.Role != models.RoleWitch {
			return ErrWrongStage
		}
		if !r.state.WitchHasSave {
			return ErrPotionExhausted
		}
		if _, poisoned := r.state.NightActions[actorID]; poisoned {
			return ErrSaveAndPoison
		}
		r.state.WitchHasSave = false
		r.state.WitchSaveTarget = r.state.WerewolfKillTarget
		r.state.NightActions[actorID] = models.NightAction{Action: action, Target: r.state.WerewolfKillTarget}
		batch.event(actorID, "save recorded")

	case models.ActionPoison:
		if r.state.Stage != models.StageWitchTurn || actor.Role != models.RoleWitch {
			return ErrWrongStage
		}
		if !r.state.WitchHasPoison {
			return ErrPotionExhausted
		}
		if existing, saved := r.state.NightActions[actorID]; saved && existing.Action == models.ActionSave {
			return ErrSaveAndPoison
		}
		if r.state.PlayerByID(target) == nil {
			return ErrIllegalTarget
		}
		r.state.WitchHasPoison = false
		r.state.WitchPoisonTarget = target
		r.state.NightActions[actorID] = models.NightAction{Action: action, Target: target}
		batch.event(actorID, "poison recorded")

	case models.ActionCheck:
		if r.state.Stage != models.StageSeerTurn || actor.Role != models.RoleSeer {
			return ErrWrongStage
		}
		targetPlayer := r.state.PlayerByID(target)
		if targetPlayer == nil {
			return ErrIllegalTarget
		}
		r.state.NightActions[actorID] = models.NightAction{Action: action, Target: target}
		isWolf := catalog.IsWolf(targetPlayer.Role)
		batch.event(actorID, checkResultMessage(targetPlayer.Name, isWolf))

	default:
		return ErrIllegalTarget
	}
	return nil
}

func checkResultMessage(name string, isWolf bool) string {
	verdict := "not a werewolf"
	if isWolf {
		verdict = "a werewolf"
	}
	return name + " is " + verdict
}

// RecordVote routes a vote to day_votes (VOTE) or sheriff_votes
// (SHERIFF_VOTE) by current stage; any other stage is rejected. Werewolf
// votes are recorded through RecordAction with KILL, not here. A second
// identical vote from the same voter overwrites (map assignment), never
// accumulates.
func (r *Room) RecordVote(voterID, targetID models.PlayerID) error {
	r.mu.Lock()
	batch := &outboundBatch{}
	var err error
	func() {
		defer r.mu.Unlock()
		voter := r.state.PlayerByID(voterID)
		if voter == nil {
			err = ErrPlayerNotFound
			return
		}
		if !voter.IsAlive {
			err = ErrNotEligible
			return
		}
		if r.state.PlayerByID(targetID) == nil {
			err = ErrIllegalTarget
			return
		}

		switch r.state.Stage {
		case models.StageVote:
			r.state.DayVotes[voterID] = targetID
			batch.broadcast(models.WSTypeVoteUpdate, copyVotes(r.state.DayVotes))
		case models.StageSheriffVote:
			r.state.SheriffVotes[voterID] = targetID
			batch.broadcast(models.WSTypeVoteUpdate, copyVotes(r.state.SheriffVotes))
		default:
			err = ErrWrongStage
			return
		}
		r.checkAutoAdvanceLocked(batch)
	}()
	r.flush(batch)
	return err
}

// RunForSheriff registers a candidacy during SHERIFF_ELECTION.
func (r *Room) RunForSheriff(playerID models.PlayerID) error {
	r.mu.Lock()
	batch := &outboundBatch{}
	var err error
	func() {
		defer r.mu.Unlock()
		if r.state.Stage != models.StageSheriffElection {
			err = ErrWrongStage
			return
		}
		p := r.state.PlayerByID(playerID)
		if p == nil || !p.IsAlive {
			err = ErrNotEligible
			return
		}
		for _, c := range r.state.SheriffCandidates {
			if c == playerID {
				return
			}
		}
		r.state.SheriffCandidates = append(r.state.SheriffCandidates, playerID)
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
	}()
	r.flush(batch)
	return err
}

// PassSpeakerTurn advances the running speaker sequence during
// SHERIFF_SPEECH or DAY_DISCUSSION; only the current speaker may pass.
func (r *Room) PassSpeakerTurn(playerID models.PlayerID) error {
	r.mu.Lock()
	batch := &outboundBatch{}
	var err error
	func() {
		defer r.mu.Unlock()
		if r.state.Stage != models.StageSheriffSpeech && r.state.Stage != models.StageDayDiscussion {
			err = ErrWrongStage
			return
		}
		if playerID != r.state.CurrentSpeaker {
			err = ErrNotEligible
			return
		}
		r.advanceSpeakerLocked(batch)
	}()
	r.flush(batch)
	return err
}

func (r *Room) advanceSpeakerLocked(batch *outboundBatch) {
	r.speakerIdx++
	if r.speakerIdx >= len(r.activeSpeakers) {
		r.advanceLocked(batch)
		return
	}
	r.state.CurrentSpeaker = r.activeSpeakers[r.speakerIdx]
	batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
}

// checkAutoAdvanceLocked evaluates the current stage's completeness
// predicate after a mutation; if met, it cancels the timer and advances.
func (r *Room) checkAutoAdvanceLocked(batch *outboundBatch) {
	if !stageComplete(r.state.Stage, r.state) {
		return
	}
	r.advanceLocked(batch)
}

func stageComplete(stage models.Stage, state *models.GameState) bool {
	switch stage {
	case models.StageWerewolfTurn:
		return allLivingActed(state, catalog.IsWolf, func(id models.PlayerID) bool {
			_, ok := state.WerewolfVotes[id]
			return ok
		})
	case models.StageWitchTurn:
		return allLivingActed(state, isRole(models.RoleWitch), actedInNightActions(state))
	case models.StageSeerTurn:
		return allLivingActed(state, isRole(models.RoleSeer), actedInNightActions(state))
	case models.StageGuardTurn:
		return allLivingActed(state, isRole(models.RoleGuard), actedInNightActions(state))
	case models.StageVote:
		return allLivingActed(state, func(models.Role) bool { return true }, func(id models.PlayerID) bool {
			_, ok := state.DayVotes[id]
			return ok
		})
	case models.StageSheriffVote:
		return allLivingActed(state, func(models.Role) bool { return true }, func(id models.PlayerID) bool {
			_, ok := state.SheriffVotes[id]
			return ok
		})
	default:
		return false
	}
}

func isRole(role models.Role) func(models.Role) bool {
	return func(r models.Role) bool { return r == role }
}

func actedInNightActions(state *models.GameState) func(models.PlayerID) bool {
	return func(id models.PlayerID) bool {
		_, ok := state.NightActions[id]
		return ok
	}
}

// allLivingActed reports whether every living player satisfying roleFilter
// has satisfied actedFilter. An empty eligible set counts as complete (the
// skip rule already prevents entering a stage with nobody eligible, but
// this guards the predicate regardless).
func allLivingActed(state *models.GameState, roleFilter func(models.Role) bool, actedFilter func(models.PlayerID) bool) bool {
	for _, p := range state.LivingPlayers() {
		if !roleFilter(p.Role) {
			continue
		}
		if !actedFilter(p.ID) {
			return false
		}
	}
	return true
}

// advanceLocked is the single entry point for every stage transition:
// cancel the outstanding timer, compute the next stage (applying the
// skip rule and the werewolf-tie re-vote rule), enter it, and schedule its
// timer. Must be called with r.mu held.
func (r *Room) advanceLocked(batch *outboundBatch) {
	r.scheduler.Cancel(r.state.RoomID)

	if r.state.Stage == models.StageWerewolfTurn {
		if r.handleWerewolfTieLocked(batch) {
			return // re-vote scheduled; stage unchanged
		}
	}

	current := r.state.Stage
	next := nextStage(current, r.state)
	for next != models.StageGameOver && isNightRoleStage(next) && !roleEligibleForStage(next, r.state) {
		next = nextStage(next, r.state)
	}
	if r.state.Winner != "" {
		next = models.StageGameOver
	}

	r.state.Stage = next
	r.enterStageLocked(next, batch)
}

func isNightRoleStage(stage models.Stage) bool {
	switch stage {
	case models.StageWerewolfTurn, models.StageWitchTurn, models.StageSeerTurn, models.StageGuardTurn:
		return true
	default:
		return false
	}
}

// handleWerewolfTieLocked implements the tie-handling rule: a tied
// werewolf vote clears and restarts WEREWOLF_TURN once; a second tie
// proceeds with no kill target.
func (r *Room) handleWerewolfTieLocked(batch *outboundBatch) bool {
	target := resolveWerewolfTarget(r.state)
	tied := target == "" && len(r.state.WerewolfVotes) > 0
	if tied && r.state.WerewolfTieStrikes == 0 {
		r.state.WerewolfTieStrikes++
		r.state.WerewolfVotes = map[models.PlayerID]models.PlayerID{}
		for _, p := range r.state.LivingPlayers() {
			if catalog.IsWolf(p.Role) {
				batch.event(p.ID, "vote tied, re-vote")
			}
		}
		r.scheduleTimerLocked(models.StageWerewolfTurn, r.durations.WerewolfTurn)
		return true
	}
	r.state.WerewolfKillTarget = target
	r.state.WerewolfTieStrikes = 0
	return false
}

func (r *Room) scheduleTimerLocked(stage models.Stage, d time.Duration) {
	if d <= 0 {
		return
	}
	r.state.Timer = int(d / time.Second)
	roomID := r.state.RoomID
	r.scheduler.Schedule(roomID, stage, d, func(expected models.Stage) {
		r.mu.Lock()
		batch := &outboundBatch{}
		if r.state.Stage == expected {
			r.advanceLocked(batch)
		}
		r.mu.Unlock()
		r.flush(batch)
	})
}

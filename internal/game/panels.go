package game

import (
	"github.com/kazerdira/wolverix/backend/internal/catalog"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

// werewolfPanel is the private payload sent to each living werewolf at the
// start of WEREWOLF_TURN: the living targets, the votes cast so far this
// night, and the rest of the wolf team (so wolves can coordinate without
// having to guess each other's identity).
type werewolfPanel struct {
	Targets   []models.PlayerID                   `json:"targets"`
	Votes     map[models.PlayerID]models.PlayerID `json:"votes"`
	Teammates []models.PlayerID                   `json:"teammates"`
}

func (r *Room) sendWerewolfPanelLocked(batch *outboundBatch) {
	targets := livingTargets(r.state, nil)
	votes := copyVotes(r.state.WerewolfVotes)
	wolves := livingWolves(r.state)
	for _, id := range wolves {
		teammates := make([]models.PlayerID, 0, len(wolves)-1)
		for _, w := range wolves {
			if w != id {
				teammates = append(teammates, w)
			}
		}
		panel := werewolfPanel{Targets: targets, Votes: votes, Teammates: teammates}
		batch.sendTo(id, models.WSTypeWerewolfPanel, panel)
	}
}

// livingWolves returns the ids of every living wolf-faction player, in
// seat order.
func livingWolves(state *models.GameState) []models.PlayerID {
	out := make([]models.PlayerID, 0, 2)
	for _, p := range state.LivingPlayers() {
		if catalog.IsWolf(p.Role) {
			out = append(out, p.ID)
		}
	}
	return out
}

// witchPanel tells the witch who the wolves chose tonight (so SAVE has a
// target) and which potions remain.
type witchPanel struct {
	KillTarget models.PlayerID `json:"kill_target,omitempty"`
	HasSave    bool            `json:"has_save"`
	HasPoison  bool            `json:"has_poison"`
	Targets    []models.PlayerID `json:"targets"`
}

func (r *Room) sendWitchPanelLocked(batch *outboundBatch) {
	panel := witchPanel{
		KillTarget: r.state.WerewolfKillTarget,
		HasSave:    r.state.WitchHasSave,
		HasPoison:  r.state.WitchHasPoison,
		Targets:    livingTargets(r.state, nil),
	}
	for _, p := range r.state.LivingPlayers() {
		if p.Role == models.RoleWitch {
			batch.sendTo(p.ID, models.WSTypeWitchPanel, panel)
		}
	}
}

type seerPanel struct {
	Targets []models.PlayerID `json:"targets"`
}

func (r *Room) sendSeerPanelLocked(batch *outboundBatch) {
	panel := seerPanel{Targets: livingTargets(r.state, nil)}
	for _, p := range r.state.LivingPlayers() {
		if p.Role == models.RoleSeer {
			batch.sendTo(p.ID, models.WSTypeSeerPanel, panel)
		}
	}
}

// guardPanel excludes last night's guarded player, mirroring the
// guard-repeat rejection in RecordAction.
type guardPanel struct {
	Targets []models.PlayerID `json:"targets"`
}

func (r *Room) sendGuardPanelLocked(batch *outboundBatch) {
	panel := guardPanel{Targets: livingTargets(r.state, []models.PlayerID{r.state.LastGuardedID})}
	for _, p := range r.state.LivingPlayers() {
		if p.Role == models.RoleGuard {
			batch.sendTo(p.ID, models.WSTypeGuardPanel, panel)
		}
	}
}

func livingTargets(state *models.GameState, exclude []models.PlayerID) []models.PlayerID {
	excluded := map[models.PlayerID]bool{}
	for _, id := range exclude {
		if id != "" {
			excluded[id] = true
		}
	}
	out := make([]models.PlayerID, 0, len(state.Players))
	for _, p := range state.LivingPlayers() {
		if !excluded[p.ID] {
			out = append(out, p.ID)
		}
	}
	return out
}

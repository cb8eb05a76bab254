// Package game implements the Resolution Rules (C3), Phase Machine (C4),
// and Room Coordinator (C5): the per-room serialized mutation authority
// that drives a room through its timed phase list and applies the night
// and day resolution rules.
package game

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/kazerdira/wolverix/backend/internal/catalog"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

// Room is the Coordinator for a single game: it owns the room's exclusive
// mutex and its single timer task, and is the only code path allowed to
// mutate the room's GameState.
type Room struct {
	mu          sync.Mutex
	state       *models.GameState
	template    *models.GameTemplate
	durations   Durations
	scheduler   *RoomScheduler
	broadcaster Broadcaster
	onGameOver  func(state *models.GameState)

	nextPlayerSeq int

	activeSpeakers []models.PlayerID // SHERIFF_SPEECH or DAY_DISCUSSION running order
	speakerIdx     int
}

// NewRoom creates a waiting room with the host already seated.
func NewRoom(roomID, hostProfileID, hostName string, config models.RoomConfig, durations Durations, scheduler *RoomScheduler, broadcaster Broadcaster, onGameOver func(*models.GameState)) *Room {
	hostID := models.PlayerID("P0")
	host := &models.Player{
		ID: hostID, ProfileID: hostProfileID, Name: hostName,
		IsAlive: true, IsHost: true, Connected: true,
	}
	state := &models.GameState{
		RoomID: roomID, HostID: hostID, Config: config,
		Players: []*models.Player{host}, Stage: models.StageWaiting,
		NightActions: map[models.PlayerID]models.NightAction{},
		DayVotes:     map[models.PlayerID]models.PlayerID{},
		WerewolfVotes: map[models.PlayerID]models.PlayerID{},
		SheriffVotes:  map[models.PlayerID]models.PlayerID{},
		WitchHasSave:   true,
		WitchHasPoison: true,
	}
	return &Room{
		state: state, durations: durations, scheduler: scheduler,
		broadcaster: broadcaster, onGameOver: onGameOver, nextPlayerSeq: 1,
	}
}

// PublicView returns the redacted snapshot safe to broadcast or hand to an
// HTTP caller.
func (r *Room) PublicView() PublicState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return PublicView(r.state)
}

// RoomID returns the room's id without requiring callers to reach into the
// locked state.
func (r *Room) RoomID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.RoomID
}

// Join seats a new player in the lobby.
func (r *Room) Join(profileID, name string) (models.PlayerID, error) {
	r.mu.Lock()
	batch := &outboundBatch{}

	var id models.PlayerID
	var err error
	func() {
		defer r.mu.Unlock()
		if r.state.Stage != models.StageWaiting {
			err = ErrGameStarted
			return
		}
		template := r.templateLocked()
		if template != nil {
			maxPlayers := maxOf(template.PlayerCounts)
			if len(r.state.Players) >= maxPlayers {
				err = ErrRoomFull
				return
			}
		}
		id = models.PlayerID(fmt.Sprintf("P%d", r.nextPlayerSeq))
		r.nextPlayerSeq++
		r.state.Players = append(r.state.Players, &models.Player{
			ID: id, ProfileID: profileID, Name: name, IsAlive: true, Connected: true,
		})
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
	}()
	r.flush(batch)
	return id, err
}

func (r *Room) templateLocked() *models.GameTemplate {
	if r.template != nil {
		return r.template
	}
	return catalog.TemplateByName(r.state.Config.TemplateName)
}

func maxOf(xs []int) int {
	max := 0
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	return max
}

// SetReady records a player's readiness and, once every seated player is
// ready and the seated count matches the template, starts the ROLE_ASSIGN
// transition automatically.
func (r *Room) SetReady(playerID models.PlayerID, ready bool) error {
	r.mu.Lock()
	batch := &outboundBatch{}
	var err error
	var shouldStart bool
	func() {
		defer r.mu.Unlock()
		if r.state.Stage != models.StageWaiting {
			err = ErrWrongStage
			return
		}
		p := r.state.PlayerByID(playerID)
		if p == nil {
			err = ErrPlayerNotFound
			return
		}
		p.IsReady = ready
		batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
		shouldStart = r.readyToStartLocked()
	}()
	if err != nil {
		r.flush(batch)
		return err
	}
	if shouldStart {
		r.mu.Lock()
		// Re-validate: another SetReady (or Start) may have already
		// advanced the stage, or flipped a player back to not-ready,
		// between releasing the lock above and re-acquiring it here.
		if r.state.Stage == models.StageWaiting && r.readyToStartLocked() {
			r.advanceLocked(batch)
		}
		r.mu.Unlock()
	}
	r.flush(batch)
	return nil
}

// readyToStartLocked reports whether the lobby is both at the template's
// seat count and every seated player is ready. Must be called with r.mu
// held.
func (r *Room) readyToStartLocked() bool {
	template := r.templateLocked()
	if template == nil {
		return false
	}
	countMatches := false
	for _, c := range template.PlayerCounts {
		if c == len(r.state.Players) {
			countMatches = true
		}
	}
	allReady := len(r.state.Players) > 0
	for _, pl := range r.state.Players {
		if !pl.IsReady {
			allReady = false
		}
	}
	return countMatches && allReady
}

// TakeSeat assigns a lobby seat, rejecting duplicates.
func (r *Room) TakeSeat(playerID models.PlayerID, seat int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := &outboundBatch{}
	defer r.flush(batch)

	if r.state.Stage != models.StageWaiting {
		return ErrInvalidStage
	}
	p := r.state.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	for _, other := range r.state.Players {
		if other.ID != playerID && other.Seat != nil && *other.Seat == seat {
			return ErrSeatTaken
		}
	}
	seatCopy := seat
	p.Seat = &seatCopy
	batch.broadcast(models.WSTypeGameStateUpdate, PublicView(r.state))
	return nil
}

// Start is the host-only manual start, used when the lobby wants to begin
// before every seat is auto-filled; it assigns any missing seats before
// transitioning.
func (r *Room) Start(requesterID models.PlayerID) error {
	r.mu.Lock()
	batch := &outboundBatch{}
	var err error
	func() {
		if r.state.HostID != requesterID {
			err = ErrNotHost
			return
		}
		if r.state.Stage != models.StageWaiting {
			err = ErrWrongStage
			return
		}
		template := r.templateLocked()
		if template == nil {
			err = ErrBadCount
			return
		}
		ok := false
		for _, c := range template.PlayerCounts {
			if c == len(r.state.Players) {
				ok = true
			}
		}
		if !ok {
			err = ErrBadCount
			return
		}
		r.autoAssignSeatsLocked()
		r.advanceLocked(batch)
	}()
	r.mu.Unlock()
	r.flush(batch)
	return err
}

func (r *Room) autoAssignSeatsLocked() {
	taken := map[int]bool{}
	for _, p := range r.state.Players {
		if p.Seat != nil {
			taken[*p.Seat] = true
		}
	}
	next := 0
	for _, p := range r.state.Players {
		if p.Seat != nil {
			continue
		}
		for taken[next] {
			next++
		}
		seat := next
		p.Seat = &seat
		taken[next] = true
	}
}

// OnDisconnect marks a player's channel closed. Per the error-handling
// design, disconnects never mutate game state: the player keeps their role
// and aliveness and simply stops receiving deliveries until reconnect.
func (r *Room) OnDisconnect(playerID models.PlayerID) {
	r.mu.Lock()
	batch := &outboundBatch{}
	func() {
		defer r.mu.Unlock()
		p := r.state.PlayerByID(playerID)
		if p == nil {
			return
		}
		p.Connected = false
		batch.broadcast(models.WSTypePlayerDisconnected, map[string]models.PlayerID{"player_id": playerID})
	}()
	r.flush(batch)
}

// OnReconnect marks a player's channel open again.
func (r *Room) OnReconnect(playerID models.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.state.PlayerByID(playerID); p != nil {
		p.Connected = true
	}
}

// SnapshotForConnect returns the frames to send a newly connected channel:
// always the full public snapshot, plus a STAGE_CHANGE if the room is
// mid-stage. That STAGE_CHANGE carries the stage's full timer length as
// last scheduled, not the time remaining.
func (r *Room) SnapshotForConnect() []models.WSMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := []models.WSMessage{{Type: models.WSTypeGameStateUpdate, Payload: PublicView(r.state)}}
	if r.state.Stage != models.StageWaiting && r.state.Stage != models.StageGameOver {
		msgs = append(msgs, models.WSMessage{Type: models.WSTypeStageChange, Payload: stageChangePayload(r.state)})
	}
	return msgs
}

func stageChangePayload(state *models.GameState) map[string]interface{} {
	return map[string]interface{}{
		"stage": state.Stage,
		"timer": state.Timer,
		"day":   state.Day,
	}
}

// assignRoles shuffles the template's role pool and deals one role to each
// seated player, in seat order, grounded on the teacher's
// Engine.assignRoles (shuffle, then positional assignment).
func (r *Room) assignRolesLocked() {
	template := r.templateLocked()
	if template == nil {
		return
	}
	roles := make([]models.Role, 0, len(r.state.Players))
	for role, count := range template.Roles {
		for i := 0; i < count; i++ {
			roles = append(roles, role)
		}
	}
	rand.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	seated := append([]*models.Player(nil), r.state.Players...)
	sortBySeat(seated)
	for i, p := range seated {
		if i < len(roles) {
			p.Role = roles[i]
		}
	}
}

func sortBySeat(players []*models.Player) {
	for i := 1; i < len(players); i++ {
		for j := i; j > 0; j-- {
			a, b := players[j-1], players[j]
			if seatValue(a) > seatValue(b) {
				players[j-1], players[j] = players[j], players[j-1]
			} else {
				break
			}
		}
	}
}

func seatValue(p *models.Player) int {
	if p.Seat == nil {
		return 1 << 30
	}
	return *p.Seat
}

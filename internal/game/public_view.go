package game

import "github.com/kazerdira/wolverix/backend/internal/models"

// PublicPlayer is the redacted per-player view: no role, no hidden flags,
// except the fields the design notes explicitly carve out (is_sheriff,
// is_alive, seat).
type PublicPlayer struct {
	ID        models.PlayerID `json:"id"`
	Name      string          `json:"name"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	Seat      *int            `json:"seat,omitempty"`
	IsAlive   bool            `json:"is_alive"`
	IsHost    bool            `json:"is_host"`
	IsReady   bool            `json:"is_ready"`
	IsSheriff bool            `json:"is_sheriff"`
	Connected bool            `json:"connected"`
}

// PublicState is the safe-to-broadcast projection of GameState: it strips
// roles, night_actions, werewolf_votes, witch potion booleans, and seer
// results. Roles are revealed only once the game has ended.
type PublicState struct {
	RoomID            string                   `json:"room_id"`
	HostID            models.PlayerID          `json:"host_id"`
	Config            models.RoomConfig        `json:"config"`
	Players           []PublicPlayer           `json:"players"`
	Stage             models.Stage             `json:"stage"`
	Day               int                      `json:"day"`
	Timer             int                      `json:"timer"`
	SpeechOrder       []models.PlayerID        `json:"speech_order,omitempty"`
	CurrentSpeaker    models.PlayerID          `json:"current_speaker_id,omitempty"`
	SheriffCandidates []models.PlayerID        `json:"sheriff_candidates,omitempty"`
	Winner            models.Faction           `json:"winner,omitempty"`
	Roles             map[models.PlayerID]models.Role `json:"roles,omitempty"`
}

// PublicView projects a GameState into its redacted broadcast form.
func PublicView(state *models.GameState) PublicState {
	players := make([]PublicPlayer, 0, len(state.Players))
	for _, p := range state.Players {
		players = append(players, PublicPlayer{
			ID: p.ID, Name: p.Name, AvatarURL: p.AvatarURL, Seat: p.Seat,
			IsAlive: p.IsAlive, IsHost: p.IsHost, IsReady: p.IsReady,
			IsSheriff: p.IsSheriff, Connected: p.Connected,
		})
	}

	view := PublicState{
		RoomID: state.RoomID, HostID: state.HostID, Config: state.Config,
		Players: players, Stage: state.Stage, Day: state.Day, Timer: state.Timer,
		SpeechOrder: state.SpeechOrder, CurrentSpeaker: state.CurrentSpeaker,
		SheriffCandidates: state.SheriffCandidates, Winner: state.Winner,
	}

	if state.Stage == models.StageGameOver {
		view.Roles = make(map[models.PlayerID]models.Role, len(state.Players))
		for _, p := range state.Players {
			view.Roles[p.ID] = p.Role
		}
	}
	return view
}

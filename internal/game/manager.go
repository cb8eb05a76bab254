package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/kazerdira/wolverix/backend/internal/catalog"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

// Manager owns every live Room and is the shared global instance the
// bootstrap HTTP surface and the websocket dispatcher both hold a
// reference to (see the design notes on the single shared game manager).
type Manager struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	broadcaster Broadcaster
	durations   Durations
	onGameOver  func(*models.GameState)
	scheduler   *RoomScheduler
}

func NewManager(broadcaster Broadcaster, durations Durations, onGameOver func(*models.GameState)) *Manager {
	return &Manager{
		rooms:       map[string]*Room{},
		broadcaster: broadcaster,
		durations:   durations,
		onGameOver:  onGameOver,
		scheduler:   NewRoomScheduler(),
	}
}

// CreateRoom allocates a fresh room code and seats the host as its first
// player.
func (m *Manager) CreateRoom(hostProfileID, hostName string, config models.RoomConfig) (roomID string, hostID models.PlayerID, err error) {
	if config.TemplateName == "" {
		config.TemplateName = catalog.ListTemplates()[0].Name
	}
	if catalog.TemplateByName(config.TemplateName) == nil {
		return "", "", ErrBadCount
	}

	roomID = generateRoomCode()
	room := NewRoom(roomID, hostProfileID, hostName, config, m.durations, m.scheduler, m.broadcaster, m.onGameOver)

	m.mu.Lock()
	m.rooms[roomID] = room
	m.mu.Unlock()

	return roomID, room.state.HostID, nil
}

// GetRoom looks up a room by id.
func (m *Manager) GetRoom(roomID string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[roomID]
	return r, ok
}

// ListLobbyRooms returns a summary of every room still in WAITING, for the
// GET /games listing.
func (m *Manager) ListLobbyRooms() []models.RoomSummary {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	out := make([]models.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		view := r.PublicView()
		if view.Stage != models.StageWaiting {
			continue
		}
		template := catalog.TemplateByName(view.Config.TemplateName)
		max := 0
		if template != nil {
			for _, c := range template.PlayerCounts {
				if c > max {
					max = c
				}
			}
		}
		hostName := ""
		for _, p := range view.Players {
			if p.IsHost {
				hostName = p.Name
			}
		}
		out = append(out, models.RoomSummary{
			RoomID: view.RoomID, HostName: hostName, PlayerCount: len(view.Players),
			MaxPlayers: max, TemplateName: view.Config.TemplateName,
		})
	}
	return out
}

// RemoveRoom drops a room from the registry. Rooms are not removed
// automatically: the GAME_OVER hook wired in cmd/server only records
// profile results.
func (m *Manager) RemoveRoom(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
}

func generateRoomCode() string {
	return uuid.NewString()[:8]
}

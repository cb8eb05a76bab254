package ws

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
	"github.com/kazerdira/wolverix/backend/internal/game"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

// Dispatcher routes inbound frames from a connected client to the owning
// room's Coordinator methods, and delivers the on-connect snapshot.
type Dispatcher struct {
	hub     *Hub
	manager *Manager
}

// Manager is the subset of *game.Manager the dispatcher needs; declared
// here so this package depends only on behavior, not the concrete type.
type Manager interface {
	GetRoom(roomID string) (*game.Room, bool)
}

func NewDispatcher(hub *Hub, manager Manager) *Dispatcher {
	return &Dispatcher{hub: hub, manager: manager}
}

// Connect wires a single player's already-upgraded connection: it
// registers the client, replays the snapshot, and starts the read/write
// pumps. It blocks until the connection closes.
func (d *Dispatcher) Connect(conn *websocket.Conn, roomID string, playerID models.PlayerID) {
	room, ok := d.manager.GetRoom(roomID)
	if !ok {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room not found"))
		conn.Close()
		return
	}

	client := NewClient(d.hub, conn, roomID, playerID,
		func(pid models.PlayerID, msg models.WSMessage) { d.route(room, pid, msg) },
		func(pid models.PlayerID) { room.OnDisconnect(pid) },
	)
	client.Register()
	room.OnReconnect(playerID)
	for _, m := range room.SnapshotForConnect() {
		client.Deliver(m)
	}

	go client.WritePump()
	client.ReadPump()
}

// route maps one inbound frame to the matching Room operation. An unknown
// type is logged and ignored; a payload that fails to decode is reported
// to the sender as a GAME_EVENT, like any rejected action. Neither drops
// the connection.
func (d *Dispatcher) route(room *game.Room, playerID models.PlayerID, msg models.WSMessage) {
	var err error
	switch msg.Type {
	case models.WSInReady:
		var p struct {
			Ready bool `json:"ready"`
		}
		if decodeErr := decode(msg.Payload, &p); decodeErr != nil {
			err = decodeErr
			break
		}
		err = room.SetReady(playerID, p.Ready)

	case models.WSInTakeSeat:
		var p struct {
			Seat int `json:"seat"`
		}
		if decodeErr := decode(msg.Payload, &p); decodeErr != nil {
			err = decodeErr
			break
		}
		err = room.TakeSeat(playerID, p.Seat)

	case models.WSInStartGame:
		err = room.Start(playerID)

	case models.WSInWerewolfVote:
		err = d.recordTargeted(room, playerID, msg.Payload, models.ActionKill)

	case models.WSInWitchAction:
		var p struct {
			Action models.ActionType `json:"action"`
			Target models.PlayerID   `json:"target_id"`
		}
		if decodeErr := decode(msg.Payload, &p); decodeErr != nil {
			err = decodeErr
			break
		}
		err = room.RecordAction(playerID, p.Action, p.Target)

	case models.WSInSeerCheck:
		err = d.recordTargeted(room, playerID, msg.Payload, models.ActionCheck)

	case models.WSInGuardAction:
		err = d.recordTargeted(room, playerID, msg.Payload, models.ActionGuard)

	case models.WSInVotePlayer:
		err = d.recordVote(room, playerID, msg.Payload)

	case models.WSInRunForSheriff:
		err = room.RunForSheriff(playerID)

	case models.WSInSheriffVote:
		err = d.recordVote(room, playerID, msg.Payload)

	case models.WSInPassTurn:
		err = room.PassSpeakerTurn(playerID)

	case models.WSInConfirmAction:
		// Acknowledgement-only frame; no state change.

	default:
		log.Printf("ws: unknown inbound type %q from %s", msg.Type, playerID)
		return
	}

	if err != nil {
		d.hub.SendTo(room.RoomID(), playerID, models.WSMessage{
			Type:    models.WSTypeGameEvent,
			Payload: models.GameEventPayload{Message: err.Error()},
		})
	}
}

func (d *Dispatcher) recordTargeted(room *game.Room, playerID models.PlayerID, payload interface{}, action models.ActionType) error {
	var p struct {
		Target models.PlayerID `json:"target_id"`
	}
	if err := decode(payload, &p); err != nil {
		return err
	}
	return room.RecordAction(playerID, action, p.Target)
}

func (d *Dispatcher) recordVote(room *game.Room, playerID models.PlayerID, payload interface{}) error {
	var p struct {
		Target models.PlayerID `json:"target_id"`
	}
	if err := decode(payload, &p); err != nil {
		return err
	}
	return room.RecordVote(playerID, p.Target)
}

func decode(payload interface{}, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

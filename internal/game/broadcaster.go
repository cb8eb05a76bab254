package game

import "github.com/kazerdira/wolverix/backend/internal/models"

// Broadcaster is the Connection Registry surface the Coordinator needs:
// broadcast to every connection in a room, or send to exactly one. The
// game package depends only on this interface so internal/ws can own the
// actual socket plumbing.
type Broadcaster interface {
	Broadcast(roomID string, msg models.WSMessage)
	SendTo(roomID string, playerID models.PlayerID, msg models.WSMessage)
}

// outboundBatch accumulates frames produced while the room lock is held.
// The Coordinator flushes a batch only after releasing the lock, per the
// concurrency model's "mutate under lock, release, then send" discipline.
type outboundBatch struct {
	broadcasts []models.WSMessage
	directs    []directMsg
}

type directMsg struct {
	PlayerID models.PlayerID
	Msg      models.WSMessage
}

func (b *outboundBatch) broadcast(msgType string, payload interface{}) {
	b.broadcasts = append(b.broadcasts, models.WSMessage{Type: msgType, Payload: payload})
}

func (b *outboundBatch) sendTo(id models.PlayerID, msgType string, payload interface{}) {
	b.directs = append(b.directs, directMsg{PlayerID: id, Msg: models.WSMessage{Type: msgType, Payload: payload}})
}

func (b *outboundBatch) event(id models.PlayerID, message string) {
	b.sendTo(id, models.WSTypeGameEvent, models.GameEventPayload{Message: message})
}

func (b *outboundBatch) broadcastEvent(message string) {
	b.broadcast(models.WSTypeGameEvent, models.GameEventPayload{Message: message})
}

func (r *Room) flush(batch *outboundBatch) {
	if r.broadcaster == nil {
		return
	}
	for _, m := range batch.broadcasts {
		r.broadcaster.Broadcast(r.state.RoomID, m)
	}
	for _, d := range batch.directs {
		r.broadcaster.SendTo(r.state.RoomID, d.PlayerID, d.Msg)
	}
}

package game

import (
	"sync"
	"time"

	"github.com/kazerdira/wolverix/backend/internal/models"
)

// RoomScheduler owns the single outstanding timer task per room, mirroring
// the concurrency model's requirement that every timed stage registers one
// timer bound to (room_id, expected_stage, duration), cancelled before any
// explicit advance.
type RoomScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewRoomScheduler constructs an empty scheduler.
func NewRoomScheduler() *RoomScheduler {
	return &RoomScheduler{timers: make(map[string]*time.Timer)}
}

// Schedule cancels any existing timer for roomID and starts a new one that
// calls onExpire(expectedStage) after duration. onExpire is responsible for
// checking that the room's current stage still matches expectedStage
// before acting — stale timers must no-op.
func (s *RoomScheduler) Schedule(roomID string, expectedStage models.Stage, duration time.Duration, onExpire func(models.Stage)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[roomID]; ok {
		existing.Stop()
	}
	s.timers[roomID] = time.AfterFunc(duration, func() {
		onExpire(expectedStage)
	})
}

// Cancel stops the outstanding timer for roomID, if any. Called as the
// first step of every explicit advance per the design notes.
func (s *RoomScheduler) Cancel(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[roomID]; ok {
		existing.Stop()
		delete(s.timers, roomID)
	}
}

// Stop cancels every outstanding timer. The server's shutdown path in
// cmd/server does not call it.
func (s *RoomScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for roomID, t := range s.timers {
		t.Stop()
		delete(s.timers, roomID)
	}
}

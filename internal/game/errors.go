package game

import "errors"

// Structural errors — recoverable at the request boundary.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room full")
	ErrGameStarted    = errors.New("game already started")
	ErrPlayerNotFound = errors.New("player not found")
	ErrSeatTaken      = errors.New("seat taken")
	ErrBadCount       = errors.New("player count does not match template")
	ErrNotHost        = errors.New("requester is not host")
)

// State errors — rejected actions surfaced as a private GAME_EVENT, never
// a broadcast.
var (
	ErrWrongStage     = errors.New("wrong stage for this action")
	ErrNotEligible    = errors.New("player not eligible for this action")
	ErrIllegalTarget  = errors.New("illegal target")
	ErrInvalidStage   = errors.New("invalid stage")
	ErrPotionExhausted = errors.New("potion already used")
	ErrGuardRepeat    = errors.New("cannot guard the same player two nights in a row")
	ErrSaveAndPoison  = errors.New("witch may not save and poison the same night")
)

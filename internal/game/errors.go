package game

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomExists    = errors.New("room already exists")
	ErrNotHost       = errors.New("not the host")
	ErrAlreadyJoined = errors.New("already in a room")
	ErrNotInRoom     = errors.New("not in a room")
	ErrInGame        = errors.New("game in progress")
	ErrBadPassword   = errors.New("wrong room password")

	// ErrRejected covers every in-game action refused by the rules. The
	// actor has already been told why when there is anything to tell.
	ErrRejected = errors.New("action rejected")
)

package domain

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrInvalidPin     = errors.New("invalid pin")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrAlreadyVoted   = errors.New("already voted")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnknownRequest = errors.New("unknown request")
	ErrNotInRoom      = errors.New("not in a room")
	ErrEmptySong      = errors.New("song is required")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrUnknownAction  = errors.New("unknown action")
)

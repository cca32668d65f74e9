package signal

import (
	"errors"

	"github.com/dkeye/Jukebox/internal/domain"
)

const errBadPayload = "bad_payload"

// userMessage maps an orchestrator error to the text shown to the caller.
// An empty result means the error is not reported.
func userMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrUnknownRequest),
		errors.Is(err, domain.ErrInvalidStatus):
		return ""
	case errors.Is(err, domain.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, domain.ErrInvalidPin):
		return "Invalid PIN"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, domain.ErrAlreadyVoted):
		return "Already voted"
	case errors.Is(err, domain.ErrNotInRoom):
		return "Join a room first"
	case errors.Is(err, domain.ErrEmptySong):
		return "Song is required"
	case errors.Is(err, domain.ErrUsernameEmpty):
		return "Name is required"
	case errors.Is(err, domain.ErrUnknownAction):
		return "Unknown action"
	default:
		return "Internal error"
	}
}

package ledger

import "errors"

// Errors reported by ledger operations.
var (
	ErrClientNotFound  = errors.New("client not found")
	ErrNoRoomAvailable = errors.New("no room available for the requested booking")
	ErrBookingNotFound = errors.New("booking not found")
	// ErrPersistence wraps a failed flush. The in-memory change has already
	// been applied when it is returned.
	ErrPersistence = errors.New("failed to persist booking state")
)

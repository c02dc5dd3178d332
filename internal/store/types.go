package store

import (
	"errors"

	"room-booking-backend/internal/db"
	"room-booking-backend/internal/model"
)

var (
	// ErrNoState is returned by Load when nothing has been saved yet.
	ErrNoState = errors.New("no booking state stored")
	// ErrCorrupt is returned when stored data cannot be turned back into a
	// consistent ledger.
	ErrCorrupt = db.ErrCorrupt
	// ErrSchemaMismatch is returned when the store was written by an
	// incompatible schema version.
	ErrSchemaMismatch = errors.New("booking store schema mismatch")
)

// State is everything the ledger persists, in the order it is written:
// bookings, clients, both counters and the institution name.
type State struct {
	Bookings        map[model.RefNum]*model.Booking
	Clients         []*model.Client
	ClientIDCounter model.ClientID
	RefNumCounter   model.RefNum
	Institution     string
}

// EmptyState returns the initial state for a new institution.
func EmptyState(institution string) *State {
	return &State{
		Bookings:    make(map[model.RefNum]*model.Booking),
		Institution: institution,
	}
}

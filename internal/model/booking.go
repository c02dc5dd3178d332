package model

import "fmt"

// RefNum is the reference number handed to a client for a booking.
type RefNum int

// Booking links one client to one catalog room for the requested window.
type Booking struct {
	refNum       RefNum
	room         Room
	client       *Client
	requirements Requirements
}

// NewBooking builds a booking. The client must already be registered.
func NewBooking(ref RefNum, room Room, client *Client, req Requirements) (*Booking, error) {
	if ref < 1 {
		return nil, fmt.Errorf("%w: reference number cannot be less than 1", ErrInvalidArgument)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: the assigned client cannot be nil", ErrInvalidArgument)
	}
	return &Booking{
		refNum:       ref,
		room:         room,
		client:       client,
		requirements: req,
	}, nil
}

// Accessors for the booking's parts. Client returns the shared client record.

func (b *Booking) RefNum() RefNum             { return b.refNum }
func (b *Booking) Room() Room                 { return b.room }
func (b *Booking) Client() *Client            { return b.client }
func (b *Booking) Requirements() Requirements { return b.requirements }

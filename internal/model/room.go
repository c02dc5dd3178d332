package model

import "fmt"

// Room represents a bookable teaching room from the institution's catalog.
type Room struct {
	Number           int
	ComputerCapacity int
	BreakoutCapacity int
	HasPrinter       bool
	HasSmartboard    bool
}

// NewRoom validates and builds a catalog room.
func NewRoom(number, computers, breakout int, printer, smartboard bool) (Room, error) {
	if computers < 0 {
		return Room{}, fmt.Errorf("%w: room %d computer capacity cannot be negative", ErrInvalidArgument, number)
	}
	if breakout < 0 {
		return Room{}, fmt.Errorf("%w: room %d breakout capacity cannot be negative", ErrInvalidArgument, number)
	}
	return Room{
		Number:           number,
		ComputerCapacity: computers,
		BreakoutCapacity: breakout,
		HasPrinter:       printer,
		HasSmartboard:    smartboard,
	}, nil
}

// Equal reports whether two rooms are the same catalog entry.
// Printer and smartboard flags do not take part in the comparison.
func (r Room) Equal(o Room) bool {
	return r.Number == o.Number &&
		r.ComputerCapacity == o.ComputerCapacity &&
		r.BreakoutCapacity == o.BreakoutCapacity
}

// DefaultCatalog returns the rooms seeded at startup when the configuration
// does not override them.
func DefaultCatalog() []Room {
	return []Room{
		{Number: 4, ComputerCapacity: 0, BreakoutCapacity: 12},
		{Number: 8, ComputerCapacity: 18, BreakoutCapacity: 10, HasPrinter: true, HasSmartboard: true},
		{Number: 11, ComputerCapacity: 20, BreakoutCapacity: 0, HasPrinter: true, HasSmartboard: true},
		{Number: 12, ComputerCapacity: 6, BreakoutCapacity: 0, HasSmartboard: true},
		{Number: 14, ComputerCapacity: 18, BreakoutCapacity: 2, HasPrinter: true, HasSmartboard: true},
		{Number: 13, ComputerCapacity: 18, BreakoutCapacity: 10, HasPrinter: true, HasSmartboard: true},
		{Number: 201, ComputerCapacity: 14, BreakoutCapacity: 10, HasPrinter: true, HasSmartboard: true},
		{Number: 71, ComputerCapacity: 0, BreakoutCapacity: 20, HasPrinter: true},
		{Number: 9, ComputerCapacity: 18, BreakoutCapacity: 0, HasPrinter: true, HasSmartboard: true},
		{Number: 100, ComputerCapacity: 12, BreakoutCapacity: 6, HasPrinter: true, HasSmartboard: true},
	}
}

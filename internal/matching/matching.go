// Package matching selects catalog rooms that can host a booking request.
package matching

import (
	"fmt"
	"slices"

	"cloud.google.com/go/civil"

	"room-booking-backend/internal/model"
)

// Policy selects how an existing booking blocks a requested slot.
type Policy string

const (
	// PolicyLegacy blocks a room when the requested start equals the existing
	// start, precedes it on the same day, or falls strictly inside it.
	PolicyLegacy Policy = "legacy"
	// PolicyStrict blocks a room only when the two half-open windows intersect.
	PolicyStrict Policy = "strict"
)

// ParsePolicy maps a configuration value onto a Policy. Empty means legacy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyLegacy:
		return PolicyLegacy, nil
	case PolicyStrict:
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("unknown overlap policy %q", s)
}

// Engine ranks eligible rooms for booking requirements.
type Engine struct {
	policy Policy
}

// NewEngine creates an engine using the given overlap policy.
func NewEngine(policy Policy) *Engine {
	if policy == "" {
		policy = PolicyLegacy
	}
	return &Engine{policy: policy}
}

// Policy returns the overlap policy in effect.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Candidates returns the rooms able to host req, best fit first. Neither the
// catalog nor the bookings are modified.
func (e *Engine) Candidates(catalog []model.Room, bookings []*model.Booking, req model.Requirements) []model.Room {
	rooms := slices.Clone(catalog)

	for _, b := range bookings {
		if !e.blocks(b.Requirements(), req) {
			continue
		}
		booked := b.Room()
		rooms = slices.DeleteFunc(rooms, booked.Equal)
	}

	wanted := req.ComputerCapacity()
	rooms = slices.DeleteFunc(rooms, func(r model.Room) bool {
		return r.ComputerCapacity < wanted
	})

	slices.SortStableFunc(rooms, func(a, b model.Room) int {
		return (a.ComputerCapacity - wanted) - (b.ComputerCapacity - wanted)
	})
	return rooms
}

// blocks reports whether an existing booking's window rules out the request
// for the same room.
func (e *Engine) blocks(existing, req model.Requirements) bool {
	if e.policy == PolicyStrict {
		return overlaps(existing, req)
	}
	return legacyBlocks(existing, req)
}

func legacyBlocks(existing, req model.Requirements) bool {
	if existing.Date() != req.Date() {
		return false
	}
	requested := model.SinceMidnight(req.Time())
	start := model.SinceMidnight(existing.Time())
	end := model.SinceMidnight(existing.EndOfDay())

	if requested == start || requested < start {
		return true
	}
	return requested > start && requested < end
}

func overlaps(existing, req model.Requirements) bool {
	return before(req.Start(), existing.End()) && before(existing.Start(), req.End())
}

func before(a, b civil.DateTime) bool {
	if a.Date != b.Date {
		return a.Date.Before(b.Date)
	}
	return model.SinceMidnight(a.Time) < model.SinceMidnight(b.Time)
}

package model

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Bounds on a booking's duration in whole hours.
const (
	MinDurationHours = 1
	MaxDurationHours = 24
)

// Requirements captures what a client asked for when requesting a booking.
type Requirements struct {
	computerCapacity int
	durationHours    int
	date             civil.Date
	time             civil.Time
}

// NewRequirements validates and builds booking requirements.
func NewRequirements(computers, durationHours int, date civil.Date, start civil.Time) (Requirements, error) {
	if computers < 0 {
		return Requirements{}, fmt.Errorf("%w: the number of computers cannot be negative", ErrInvalidArgument)
	}
	if durationHours < MinDurationHours || durationHours > MaxDurationHours {
		return Requirements{}, fmt.Errorf("%w: the duration must be between %d and %d hours",
			ErrInvalidArgument, MinDurationHours, MaxDurationHours)
	}
	if !date.IsValid() {
		return Requirements{}, fmt.Errorf("%w: invalid booking date %v", ErrInvalidArgument, date)
	}
	if !start.IsValid() {
		return Requirements{}, fmt.Errorf("%w: invalid booking time %v", ErrInvalidArgument, start)
	}
	return Requirements{
		computerCapacity: computers,
		durationHours:    durationHours,
		date:             date,
		time:             start,
	}, nil
}

// Accessors for the requested values.

func (r Requirements) ComputerCapacity() int { return r.computerCapacity }
func (r Requirements) DurationHours() int    { return r.durationHours }
func (r Requirements) Date() civil.Date      { return r.date }
func (r Requirements) Time() civil.Time      { return r.time }

// Duration returns the booked length as a time.Duration.
func (r Requirements) Duration() time.Duration {
	return time.Duration(r.durationHours) * time.Hour
}

// Start returns the absolute start of the requested window.
func (r Requirements) Start() civil.DateTime {
	return civil.DateTime{Date: r.date, Time: r.time}
}

// End returns the absolute end of the requested window, rolling into the
// next day when needed.
func (r Requirements) End() civil.DateTime {
	return civil.DateTimeOf(r.Start().In(time.UTC).Add(r.Duration()))
}

// EndOfDay returns the end time as read on a clock, wrapping past midnight.
func (r Requirements) EndOfDay() civil.Time {
	return r.End().Time
}

// SinceMidnight converts a clock time into an offset from the start of the day.
func SinceMidnight(t civil.Time) time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nanosecond)
}

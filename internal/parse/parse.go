// Package parse validates raw command-line values before they reach the ledger.
package parse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"room-booking-backend/internal/model"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z ]+$`)
	phoneRe = regexp.MustCompile(`^(\+44\s?7\d{3}|\(?07\d{3}\)?)\s?\d{3}\s?\d{3}$`)
	emailRe = regexp.MustCompile(`^\w+@[a-zA-Z_]+?\.[a-zA-Z]{2,3}$`)
)

// ClientName accepts letters and spaces, starting with a letter.
func ClientName(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !nameRe.MatchString(s) {
		return "", fmt.Errorf("invalid client name %q: only letters and spaces are allowed", raw)
	}
	return s, nil
}

// Phone accepts UK mobile numbers such as "07345 555432", "(07345) 555432"
// or "+44 7345 555 432".
func Phone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !phoneRe.MatchString(s) {
		return "", fmt.Errorf("invalid UK phone number %q", raw)
	}
	return s, nil
}

// Email accepts an optional address. An empty value is returned unchanged.
func Email(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}
	if !emailRe.MatchString(s) {
		return "", fmt.Errorf("invalid email address %q", raw)
	}
	return s, nil
}

// Date parses a YYYY-MM-DD date.
func Date(raw string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

// Time parses an HH:MM or HH:MM:SS clock time.
func Time(raw string) (civil.Time, error) {
	s := strings.TrimSpace(raw)
	if strings.Count(s, ":") == 1 {
		s += ":00"
	}
	t, err := civil.ParseTime(s)
	if err != nil {
		return civil.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	return t, nil
}

// OpeningHours is the daily window in which bookings may take place.
type OpeningHours struct {
	Open  civil.Time
	Close civil.Time
}

// NewOpeningHours parses the configured opening and closing times.
func NewOpeningHours(open, close string) (OpeningHours, error) {
	o, err := Time(open)
	if err != nil {
		return OpeningHours{}, fmt.Errorf("opening time: %w", err)
	}
	c, err := Time(close)
	if err != nil {
		return OpeningHours{}, fmt.Errorf("closing time: %w", err)
	}
	if !o.Before(c) {
		return OpeningHours{}, fmt.Errorf("opening time %s must be before closing time %s", o, c)
	}
	return OpeningHours{Open: o, Close: c}, nil
}

// Check reports an error unless a booking starting at start and lasting
// hours fits entirely inside the opening hours.
func (h OpeningHours) Check(start civil.Time, hours int) error {
	if start.Before(h.Open) {
		return fmt.Errorf("bookings cannot start before %s", hhmm(h.Open))
	}
	// measured from midnight; a booking running past midnight never fits
	end := model.SinceMidnight(start) + time.Duration(hours)*time.Hour
	if end > model.SinceMidnight(h.Close) {
		return fmt.Errorf("a %d hour booking at %s would end after closing time %s", hours, hhmm(start), hhmm(h.Close))
	}
	return nil
}

func hhmm(t civil.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

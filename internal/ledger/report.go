package ledger

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"room-booking-backend/internal/model"
)

// BookingSummary renders a single booking.
func (l *Ledger) BookingSummary(ref model.RefNum) (string, error) {
	b, ok := l.bookings[ref]
	if !ok {
		return "", fmt.Errorf("%w: reference number %d", ErrBookingNotFound, ref)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reference Number: %d\n", b.RefNum())
	writeDetails(&sb, b)
	return sb.String(), nil
}

// ReportByClient renders every booking made by clients whose name matches
// ignoring case. It returns an empty string when nothing matches.
func (l *Ledger) ReportByClient(name string) string {
	return l.report(func(b *model.Booking) bool {
		return strings.EqualFold(b.Client().Name(), name)
	})
}

// ReportByDateRange renders every booking dated strictly after start and
// strictly before end. Bookings on either boundary date are left out.
func (l *Ledger) ReportByDateRange(start, end civil.Date) string {
	return l.report(func(b *model.Booking) bool {
		d := b.Requirements().Date()
		return d.After(start) && d.Before(end)
	})
}

func (l *Ledger) report(match func(*model.Booking) bool) string {
	var sb strings.Builder
	results := 0
	for _, b := range l.sortedBookings() {
		if !match(b) {
			continue
		}
		results++
		if results > 1 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Result No: %d\n", results)
		fmt.Fprintf(&sb, "Reference Number: %d\n", b.RefNum())
		writeDetails(&sb, b)
	}
	return sb.String()
}

func writeDetails(sb *strings.Builder, b *model.Booking) {
	c := b.Client()
	req := b.Requirements()
	fmt.Fprintf(sb, "Client Name: %s\n", c.Name())
	fmt.Fprintf(sb, "Phone Number: %s\n", c.Phone())
	fmt.Fprintf(sb, "Email Address: %s\n", c.Email())
	fmt.Fprintf(sb, "Room Number: %d\n", b.Room().Number)
	fmt.Fprintf(sb, "Booking Date: %s\n", req.Date())
	fmt.Fprintf(sb, "Booking Time: %s\n", formatTime(req.Time()))
	fmt.Fprintf(sb, "Booking Duration: %d hour(s)\n", req.DurationHours())
}

func formatTime(t civil.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

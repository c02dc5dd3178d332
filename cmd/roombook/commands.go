package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"room-booking-backend/config"
	"room-booking-backend/internal/ledger"
	"room-booking-backend/internal/model"
	"room-booking-backend/internal/parse"
)

// action runs one validated command against an open ledger.
type action func(ctx context.Context, l *ledger.Ledger) error

// parseCommand validates the command line before any storage is opened.
func parseCommand(cfg *config.Config, name string, args []string, out io.Writer) (action, error) {
	fs := newFlagSet(name, out)

	switch name {
	case "clients":
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return func(ctx context.Context, l *ledger.Ledger) error {
			for _, c := range l.Clients() {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", c.ID(), c.Name(), c.Phone(), c.Email())
			}
			return nil
		}, nil

	case "add-client":
		rawName := fs.String("name", "", "client name")
		rawPhone := fs.String("phone", "", "UK phone number")
		rawEmail := fs.String("email", "", "email address (optional)")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		clientName, err := parse.ClientName(*rawName)
		if err != nil {
			return nil, err
		}
		phone, email, err := contact(*rawPhone, *rawEmail)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, l *ledger.Ledger) error {
			id, err := l.AddClient(ctx, clientName, phone, email)
			if id > 0 {
				fmt.Fprintf(out, "Client added - ID: %d\n", id)
			}
			return err
		}, nil

	case "update-client":
		id := fs.Int("id", 0, "client ID")
		rawPhone := fs.String("phone", "", "UK phone number")
		rawEmail := fs.String("email", "", "email address (optional)")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		phone, email, err := contact(*rawPhone, *rawEmail)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, l *ledger.Ledger) error {
			if err := l.UpdateClientContact(ctx, model.ClientID(*id), phone, email); err != nil {
				return err
			}
			fmt.Fprintf(out, "Client %d updated\n", *id)
			return nil
		}, nil

	case "book":
		clientID := fs.Int("client", 0, "client ID")
		readReq := requirementFlags(fs)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		req, err := readReq(cfg)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, l *ledger.Ledger) error {
			ref, err := l.CreateBooking(ctx, model.ClientID(*clientID), req)
			if ref == 0 {
				return err
			}
			fmt.Fprintf(out, "Booking created - Ref Num: %d\n", ref)
			if summary, sErr := l.BookingSummary(ref); sErr == nil {
				fmt.Fprint(out, summary)
			}
			return err
		}, nil

	case "cancel":
		ref := fs.Int("ref", 0, "booking reference number")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return func(ctx context.Context, l *ledger.Ledger) error {
			cancelled, err := l.CancelBooking(ctx, model.RefNum(*ref))
			if err != nil {
				return err
			}
			if !cancelled {
				return fmt.Errorf("cancellation unsuccessful for reference number %d: %w", *ref, ledger.ErrBookingNotFound)
			}
			fmt.Fprintf(out, "Booking cancelled - Ref Num: %d\n", *ref)
			return nil
		}, nil

	case "show":
		ref := fs.Int("ref", 0, "booking reference number")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return func(ctx context.Context, l *ledger.Ledger) error {
			summary, err := l.BookingSummary(model.RefNum(*ref))
			if err != nil {
				return err
			}
			fmt.Fprint(out, summary)
			return nil
		}, nil

	case "report-client":
		rawName := fs.String("name", "", "client name")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		clientName, err := parse.ClientName(*rawName)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, l *ledger.Ledger) error {
			printReport(out, l.ReportByClient(clientName))
			return nil
		}, nil

	case "report-dates":
		rawFrom := fs.String("from", "", "start date, exclusive (YYYY-MM-DD)")
		rawTo := fs.String("to", "", "end date, exclusive (YYYY-MM-DD)")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		from, err := parse.Date(*rawFrom)
		if err != nil {
			return nil, err
		}
		to, err := parse.Date(*rawTo)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, l *ledger.Ledger) error {
			printReport(out, l.ReportByDateRange(from, to))
			return nil
		}, nil

	case "rooms":
		readReq := requirementFlags(fs)
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		filtered := false
		fs.Visit(func(*flag.Flag) { filtered = true })
		var req model.Requirements
		if filtered {
			var err error
			if req, err = readReq(cfg); err != nil {
				return nil, err
			}
		}
		return func(ctx context.Context, l *ledger.Ledger) error {
			rooms := l.Rooms()
			if filtered {
				rooms = l.AvailableRooms(req)
			}
			fmt.Fprintln(out, "Room\tComputers\tBreakout\tPrinter\tSmartboard")
			for _, r := range rooms {
				fmt.Fprintf(out, "%d\t%d\t%d\t%s\t%s\n", r.Number, r.ComputerCapacity, r.BreakoutCapacity,
					yesNo(r.HasPrinter), yesNo(r.HasSmartboard))
			}
			return nil
		}, nil

	}

	usage(out)
	return nil, fmt.Errorf("unknown command %q", name)
}

func contact(rawPhone, rawEmail string) (string, string, error) {
	phone, err := parse.Phone(rawPhone)
	if err != nil {
		return "", "", err
	}
	email, err := parse.Email(rawEmail)
	if err != nil {
		return "", "", err
	}
	return phone, email, nil
}

// requirementFlags registers the booking request flags on fs and returns a
// function that validates them once fs has been parsed.
func requirementFlags(fs *flag.FlagSet) func(cfg *config.Config) (model.Requirements, error) {
	computers := fs.Int("computers", 0, "number of computers needed")
	hours := fs.Int("hours", 1, "duration in whole hours")
	rawDate := fs.String("date", "", "booking date (YYYY-MM-DD)")
	rawTime := fs.String("time", "", "start time (HH:MM)")

	return func(cfg *config.Config) (model.Requirements, error) {
		inst := cfg.Institution
		if *computers < 0 || *computers > inst.MaxComputerCapacity {
			return model.Requirements{}, fmt.Errorf("computers must be between 0 and %d", inst.MaxComputerCapacity)
		}
		if *hours < model.MinDurationHours || *hours > inst.MaxDurationHours {
			return model.Requirements{}, fmt.Errorf("hours must be between %d and %d", model.MinDurationHours, inst.MaxDurationHours)
		}
		date, err := parse.Date(*rawDate)
		if err != nil {
			return model.Requirements{}, err
		}
		start, err := parse.Time(*rawTime)
		if err != nil {
			return model.Requirements{}, err
		}
		opening, err := parse.NewOpeningHours(inst.OpeningTime, inst.ClosingTime)
		if err != nil {
			return model.Requirements{}, fmt.Errorf("invalid institution opening hours: %w", err)
		}
		if err := opening.Check(start, *hours); err != nil {
			return model.Requirements{}, err
		}
		return model.NewRequirements(*computers, *hours, date, start)
	}
}

func printReport(out io.Writer, report string) {
	if report == "" {
		fmt.Fprintln(out, "No bookings found")
		return
	}
	fmt.Fprint(out, report)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

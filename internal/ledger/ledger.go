// Package ledger owns the clients, rooms and bookings of one institution and
// keeps them persisted after every change.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"room-booking-backend/internal/matching"
	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
)

// Options configures a Ledger. Zero values fall back to the default catalog,
// the legacy overlap policy and a no-op logger.
type Options struct {
	Institution string
	Rooms       []model.Room
	Engine      *matching.Engine
	Logger      *zap.Logger
}

// Ledger is the single owner of booking state. It is not safe for concurrent
// use.
type Ledger struct {
	store  store.Store
	engine *matching.Engine
	logger *zap.Logger

	institution     string
	rooms           []model.Room
	clients         []*model.Client
	bookings        map[model.RefNum]*model.Booking
	clientIDCounter model.ClientID
	refNumCounter   model.RefNum
}

// Open loads the stored state for the institution. When nothing has been
// stored yet the ledger starts empty and is written out immediately.
func Open(ctx context.Context, st store.Store, opts Options) (*Ledger, error) {
	if strings.TrimSpace(opts.Institution) == "" {
		return nil, fmt.Errorf("%w: institution name cannot be empty", model.ErrInvalidArgument)
	}
	rooms := opts.Rooms
	if rooms == nil {
		rooms = model.DefaultCatalog()
	}
	if err := validateCatalog(rooms); err != nil {
		return nil, err
	}

	l := &Ledger{
		store:  st,
		engine: opts.Engine,
		logger: opts.Logger,
		rooms:  slices.Clone(rooms),
	}
	if l.engine == nil {
		l.engine = matching.NewEngine(matching.PolicyLegacy)
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}

	state, err := st.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNoState):
		l.logger.Info("no stored bookings found, starting a new ledger", zap.String("institution", opts.Institution))
		state = store.EmptyState(opts.Institution)
		l.restore(state)
		if err := l.flush(ctx); err != nil {
			return nil, err
		}
		return l, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load bookings for %s: %w", opts.Institution, err)
	}

	if !strings.EqualFold(state.Institution, opts.Institution) {
		l.logger.Warn("stored institution name differs from configuration, keeping stored name",
			zap.String("stored", state.Institution), zap.String("configured", opts.Institution))
	}
	l.restore(state)
	l.logger.Info("ledger loaded",
		zap.String("institution", l.institution),
		zap.Int("clients", len(l.clients)),
		zap.Int("bookings", len(l.bookings)))
	return l, nil
}

func validateCatalog(rooms []model.Room) error {
	if len(rooms) == 0 {
		return fmt.Errorf("%w: the room catalog cannot be empty", model.ErrInvalidArgument)
	}
	seen := make(map[int]bool, len(rooms))
	for _, r := range rooms {
		if seen[r.Number] {
			return fmt.Errorf("%w: room %d appears more than once in the catalog", model.ErrInvalidArgument, r.Number)
		}
		seen[r.Number] = true
		if _, err := model.NewRoom(r.Number, r.ComputerCapacity, r.BreakoutCapacity, r.HasPrinter, r.HasSmartboard); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) restore(state *store.State) {
	l.institution = state.Institution
	l.clients = state.Clients
	l.bookings = state.Bookings
	if l.bookings == nil {
		l.bookings = make(map[model.RefNum]*model.Booking)
	}
	l.clientIDCounter = state.ClientIDCounter
	l.refNumCounter = state.RefNumCounter
}

func (l *Ledger) flush(ctx context.Context) error {
	err := l.store.Save(ctx, &store.State{
		Bookings:        l.bookings,
		Clients:         l.clients,
		ClientIDCounter: l.clientIDCounter,
		RefNumCounter:   l.refNumCounter,
		Institution:     l.institution,
	})
	if err != nil {
		l.logger.Error("failed to flush booking state", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// AddClient registers a client and returns the new client ID.
func (l *Ledger) AddClient(ctx context.Context, name, phone, email string) (model.ClientID, error) {
	id := l.clientIDCounter + 1
	c, err := model.NewClient(id, name, phone, email)
	if err != nil {
		return 0, err
	}
	l.clientIDCounter = id
	l.clients = append(l.clients, c)
	l.logger.Info("client added", zap.Int("clientID", int(id)), zap.String("name", name))

	return id, l.flush(ctx)
}

// UpdateClientContact replaces the phone number and email of a client.
func (l *Ledger) UpdateClientContact(ctx context.Context, id model.ClientID, phone, email string) error {
	c := l.findClient(id)
	if c == nil {
		return fmt.Errorf("%w: id %d", ErrClientNotFound, id)
	}
	if err := c.SetPhone(phone); err != nil {
		return err
	}
	c.SetEmail(email)
	l.logger.Info("client contact updated", zap.Int("clientID", int(id)))

	return l.flush(ctx)
}

// CreateBooking books the best fitting free room for the client. On a flush
// failure the reference number is still returned together with the error.
func (l *Ledger) CreateBooking(ctx context.Context, clientID model.ClientID, req model.Requirements) (model.RefNum, error) {
	client := l.findClient(clientID)
	if client == nil {
		return 0, fmt.Errorf("%w: id %d", ErrClientNotFound, clientID)
	}

	candidates := l.AvailableRooms(req)
	if len(candidates) == 0 {
		return 0, fmt.Errorf("%w: %d computers for %d hours on %s at %s", ErrNoRoomAvailable,
			req.ComputerCapacity(), req.DurationHours(), req.Date(), formatTime(req.Time()))
	}

	ref := l.refNumCounter + 1
	b, err := model.NewBooking(ref, candidates[0], client, req)
	if err != nil {
		return 0, err
	}
	l.refNumCounter = ref
	l.bookings[ref] = b
	l.logger.Info("booking created",
		zap.Int("refNum", int(ref)),
		zap.Int("clientID", int(clientID)),
		zap.Int("room", b.Room().Number),
		zap.String("date", req.Date().String()),
		zap.String("time", formatTime(req.Time())),
		zap.Int("hours", req.DurationHours()))

	return ref, l.flush(ctx)
}

// CancelBooking removes a booking and reports whether one was removed. The
// state is flushed either way.
func (l *Ledger) CancelBooking(ctx context.Context, ref model.RefNum) (bool, error) {
	_, ok := l.bookings[ref]
	if ok {
		delete(l.bookings, ref)
		l.logger.Info("booking cancelled", zap.Int("refNum", int(ref)))
	}
	return ok, l.flush(ctx)
}

// AvailableRooms returns the rooms that could host req, best fit first.
func (l *Ledger) AvailableRooms(req model.Requirements) []model.Room {
	return l.engine.Candidates(l.rooms, l.sortedBookings(), req)
}

// Rooms returns a copy of the room catalog.
func (l *Ledger) Rooms() []model.Room {
	return slices.Clone(l.rooms)
}

// Clients returns copies of the registered clients in registration order.
// Changing a copy does not change the ledger; use UpdateClientContact.
func (l *Ledger) Clients() []*model.Client {
	out := make([]*model.Client, 0, len(l.clients))
	for _, c := range l.clients {
		out = append(out, c.Clone())
	}
	return out
}

// Client returns a copy of the client with the given ID.
func (l *Ledger) Client(id model.ClientID) (*model.Client, error) {
	c := l.findClient(id)
	if c == nil {
		return nil, fmt.Errorf("%w: id %d", ErrClientNotFound, id)
	}
	return c.Clone(), nil
}

// Institution returns the name of the institution whose bookings are held.
func (l *Ledger) Institution() string {
	return l.institution
}

// findClient scans the whole list; the last matching entry wins.
func (l *Ledger) findClient(id model.ClientID) *model.Client {
	var found *model.Client
	for _, c := range l.clients {
		if c.ID() == id {
			found = c
		}
	}
	return found
}

func (l *Ledger) sortedBookings() []*model.Booking {
	refs := slices.Sorted(maps.Keys(l.bookings))
	out := make([]*model.Booking, 0, len(refs))
	for _, ref := range refs {
		out = append(out, l.bookings[ref])
	}
	return out
}

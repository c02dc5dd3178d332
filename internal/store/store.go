package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"gorm.io/gorm"

	"room-booking-backend/internal/db"
	"room-booking-backend/internal/model"
)

// Store defines the persistence operations the ledger depends on.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store. The schema must already be
// migrated (see db.Init).
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Save replaces the whole stored state in a single transaction.
func (s *gormStore) Save(ctx context.Context, state *State) error {
	bookings := bookingRecords(state.Bookings)
	clients := clientRecords(state.Clients)
	meta := db.MetaRecord{
		ID:              db.MetaID,
		SchemaVersion:   db.SchemaVersion,
		Institution:     state.Institution,
		ClientIDCounter: int(state.ClientIDCounter),
		RefNumCounter:   int(state.RefNumCounter),
		UpdatedAt:       time.Now().UTC(),
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&db.BookingRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear bookings: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&db.ClientRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear clients: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&db.MetaRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear ledger header: %w", err)
		}

		if len(bookings) > 0 {
			if err := tx.Create(&bookings).Error; err != nil {
				return fmt.Errorf("failed to write %d bookings: %w", len(bookings), err)
			}
		}
		if len(clients) > 0 {
			if err := tx.Create(&clients).Error; err != nil {
				return fmt.Errorf("failed to write %d clients: %w", len(clients), err)
			}
		}
		if err := tx.Create(&meta).Error; err != nil {
			return fmt.Errorf("failed to write ledger header: %w", err)
		}
		return nil
	})
}

// Load reads the stored state. The header row is checked first so that an
// incompatible store is rejected before any rows are decoded.
func (s *gormStore) Load(ctx context.Context) (*State, error) {
	tx := s.db.WithContext(ctx)

	var meta db.MetaRecord
	if err := tx.First(&meta, db.MetaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, missingHeader(tx)
		}
		return nil, classify(fmt.Errorf("failed to read ledger header: %w", err))
	}
	if meta.SchemaVersion != db.SchemaVersion {
		return nil, fmt.Errorf("%w: stored version %d, supported version %d",
			ErrSchemaMismatch, meta.SchemaVersion, db.SchemaVersion)
	}

	var bookingRows []db.BookingRecord
	if err := tx.Order("ref_num").Find(&bookingRows).Error; err != nil {
		return nil, classify(fmt.Errorf("failed to read bookings: %w", err))
	}
	var clientRows []db.ClientRecord
	if err := tx.Order("position").Find(&clientRows).Error; err != nil {
		return nil, classify(fmt.Errorf("failed to read clients: %w", err))
	}

	return decodeState(meta, bookingRows, clientRows)
}

// missingHeader tells an empty store apart from one that lost its header row.
// Only an empty store yields ErrNoState.
func missingHeader(tx *gorm.DB) error {
	var clients, bookings int64
	if err := tx.Model(&db.ClientRecord{}).Count(&clients).Error; err != nil {
		return classify(fmt.Errorf("failed to count clients: %w", err))
	}
	if err := tx.Model(&db.BookingRecord{}).Count(&bookings).Error; err != nil {
		return classify(fmt.Errorf("failed to count bookings: %w", err))
	}
	if clients > 0 || bookings > 0 {
		return corrupt("ledger header missing with %d clients and %d bookings stored", clients, bookings)
	}
	return ErrNoState
}

func classify(err error) error {
	if db.IsCorrupt(err) && !errors.Is(err, ErrCorrupt) {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return err
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}

func decodeState(meta db.MetaRecord, bookingRows []db.BookingRecord, clientRows []db.ClientRecord) (*State, error) {
	state := EmptyState(meta.Institution)
	state.ClientIDCounter = model.ClientID(meta.ClientIDCounter)
	state.RefNumCounter = model.RefNum(meta.RefNumCounter)

	for _, row := range clientRows {
		c, err := model.NewClient(model.ClientID(row.ID), row.Name, row.Phone, row.Email)
		if err != nil {
			return nil, corrupt("client %d: %v", row.ID, err)
		}
		if c.ID() > state.ClientIDCounter {
			return nil, corrupt("client %d is ahead of the client id counter %d", row.ID, meta.ClientIDCounter)
		}
		state.Clients = append(state.Clients, c)
	}

	for _, row := range bookingRows {
		b, err := decodeBooking(row, state.Clients)
		if err != nil {
			return nil, corrupt("booking %d: %v", row.RefNum, err)
		}
		if b.RefNum() > state.RefNumCounter {
			return nil, corrupt("booking %d is ahead of the reference counter %d", row.RefNum, meta.RefNumCounter)
		}
		state.Bookings[b.RefNum()] = b
	}
	return state, nil
}

func decodeBooking(row db.BookingRecord, clients []*model.Client) (*model.Booking, error) {
	var client *model.Client
	for _, c := range clients {
		if c.ID() == model.ClientID(row.ClientID) {
			client = c
		}
	}
	if client == nil {
		return nil, fmt.Errorf("client %d does not exist", row.ClientID)
	}

	room, err := model.NewRoom(row.RoomNumber, row.RoomComputers, row.RoomBreakout, row.RoomPrinter, row.RoomSmartboard)
	if err != nil {
		return nil, err
	}

	date, err := civil.ParseDate(row.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := civil.ParseTime(row.Time)
	if err != nil {
		return nil, fmt.Errorf("time: %w", err)
	}
	req, err := model.NewRequirements(row.ComputerCapacity, row.DurationHours, date, start)
	if err != nil {
		return nil, err
	}

	return model.NewBooking(model.RefNum(row.RefNum), room, client, req)
}

func bookingRecords(bookings map[model.RefNum]*model.Booking) []db.BookingRecord {
	refs := make([]model.RefNum, 0, len(bookings))
	for ref := range bookings {
		refs = append(refs, ref)
	}
	slices.Sort(refs)

	records := make([]db.BookingRecord, 0, len(refs))
	for _, ref := range refs {
		b := bookings[ref]
		room := b.Room()
		req := b.Requirements()
		records = append(records, db.BookingRecord{
			RefNum:           int(b.RefNum()),
			ClientID:         int(b.Client().ID()),
			RoomNumber:       room.Number,
			RoomComputers:    room.ComputerCapacity,
			RoomBreakout:     room.BreakoutCapacity,
			RoomPrinter:      room.HasPrinter,
			RoomSmartboard:   room.HasSmartboard,
			ComputerCapacity: req.ComputerCapacity(),
			DurationHours:    req.DurationHours(),
			Date:             req.Date().String(),
			Time:             req.Time().String(),
		})
	}
	return records
}

func clientRecords(clients []*model.Client) []db.ClientRecord {
	records := make([]db.ClientRecord, 0, len(clients))
	for i, c := range clients {
		records = append(records, db.ClientRecord{
			ID:       int(c.ID()),
			Position: i,
			Name:     c.Name(),
			Phone:    c.Phone(),
			Email:    c.Email(),
		})
	}
	return records
}

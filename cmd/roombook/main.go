package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"room-booking-backend/config"
	"room-booking-backend/internal/db"
	"room-booking-backend/internal/ledger"
	"room-booking-backend/internal/logging"
	"room-booking-backend/internal/matching"
	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
)

const defaultConfigPath = "./config/config.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		usage(out)
		return errors.New("no command given")
	}
	switch args[0] {
	case "help", "-h", "-help", "--help":
		usage(out)
		return nil
	}
	action, err := parseCommand(cfg, args[0], args[1:], out)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	l, closeDB, err := openLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	return action(ctx, l)
}

// loadConfig reads CONFIG_PATH, or the default path when it is unset. A
// missing default file means built-in defaults.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}
	return cfg, nil
}

func openLedger(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ledger.Ledger, func(), error) {
	policy, err := matching.ParsePolicy(cfg.Matching.OverlapPolicy)
	if err != nil {
		return nil, nil, err
	}
	rooms, err := catalog(cfg.Rooms)
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := db.Init(&cfg.Database, cfg.Institution.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(gormDB); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}
	logger.Debug("database initialized", zap.String("driver", cfg.Database.Driver))

	l, err := ledger.Open(ctx, store.NewGormStore(gormDB), ledger.Options{
		Institution: cfg.Institution.Name,
		Rooms:       rooms,
		Engine:      matching.NewEngine(policy),
		Logger:      logger,
	})
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return l, closeDB, nil
}

// catalog converts a configured room list. An empty list keeps the default
// catalog.
func catalog(cfgRooms []config.RoomConfig) ([]model.Room, error) {
	if len(cfgRooms) == 0 {
		return nil, nil
	}
	rooms := make([]model.Room, 0, len(cfgRooms))
	for _, rc := range cfgRooms {
		r, err := model.NewRoom(rc.Number, rc.ComputerCapacity, rc.BreakoutCapacity, rc.Printer, rc.Smartboard)
		if err != nil {
			return nil, fmt.Errorf("invalid room in configuration: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

func usage(out io.Writer) {
	fmt.Fprint(out, `usage: roombook <command> [flags]

commands:
  clients                                       list registered clients
  add-client -name -phone [-email]              register a client
  update-client -id -phone [-email]             change a client's contact details
  book -client -computers -hours -date -time    book the best fitting room
  cancel -ref                                   cancel a booking
  show -ref                                     show a booking
  report-client -name                           list bookings for a client name
  report-dates -from -to                        list bookings strictly between two dates
  rooms [-computers -hours -date -time]         list rooms, or those free for a request
`)
}

// newFlagSet returns a flag set that reports problems as errors instead of
// exiting.
func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(out)
	return set
}

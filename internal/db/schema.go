package db

import "time"

// SchemaVersion is bumped whenever the stored layout changes incompatibly.
const SchemaVersion = 1

// MetaRecord is the single header row of a store: counters and institution.
type MetaRecord struct {
	ID              int       `gorm:"primaryKey;autoIncrement:false"`
	SchemaVersion   int       `gorm:"not null"`
	Institution     string    `gorm:"size:128;not null"`
	ClientIDCounter int       `gorm:"not null"`
	RefNumCounter   int       `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName pins the table name used for the header row.
func (MetaRecord) TableName() string { return "ledger_meta" }

// MetaID is the primary key of the only MetaRecord.
const MetaID = 1

// ClientRecord is a registered client. Position keeps registration order.
type ClientRecord struct {
	ID       int    `gorm:"primaryKey;autoIncrement:false"`
	Position int    `gorm:"not null;index"`
	Name     string `gorm:"size:128;not null"`
	Phone    string `gorm:"size:32;not null"`
	Email    string `gorm:"size:256;not null"`
}

// TableName pins the client table name.
func (ClientRecord) TableName() string { return "clients" }

// BookingRecord is a booking with a snapshot of the room it holds.
type BookingRecord struct {
	RefNum           int    `gorm:"primaryKey;autoIncrement:false"`
	ClientID         int    `gorm:"not null;index"`
	RoomNumber       int    `gorm:"not null;index"`
	RoomComputers    int    `gorm:"not null"`
	RoomBreakout     int    `gorm:"not null"`
	RoomPrinter      bool   `gorm:"not null"`
	RoomSmartboard   bool   `gorm:"not null"`
	ComputerCapacity int    `gorm:"not null"`
	DurationHours    int    `gorm:"not null"`
	Date             string `gorm:"size:10;not null;index"` // YYYY-MM-DD
	Time             string `gorm:"size:18;not null"`       // HH:MM:SS[.fraction]
}

// TableName pins the booking table name.
func (BookingRecord) TableName() string { return "bookings" }

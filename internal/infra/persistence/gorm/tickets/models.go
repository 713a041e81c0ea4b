package ticketsgorm

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ticket is a maker/checker ticket row. Status values follow the lifecycle
// DRAFT → SUBMITTED → APPROVED|REJECTED (→ SUBMITTED again), APPROVED → COMPLETED.
type Ticket struct {
	gorm.Model
	Title           string   `gorm:"size:255;not null"`
	Description     string   `gorm:"type:text"`
	Amount          *float64 // nullable; non-negative enforced in logic
	Status          string   `gorm:"size:16;index"`
	Maker           string   `gorm:"size:64;index"`
	Checker         string   `gorm:"size:64"` // set only on APPROVED/REJECTED
	RejectionReason string   `gorm:"type:text"`
}

// AuditLog records every ticket transition and report export.
type AuditLog struct {
	gorm.Model
	Action     string `gorm:"size:32;index"`
	EntityType string `gorm:"size:32"`
	EntityID   string `gorm:"size:64;index"`
	Actor      string `gorm:"size:64;index"`
	Details    datatypes.JSON
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Ticket{}, &AuditLog{})
}

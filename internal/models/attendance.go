package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attendance statuses
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusHalfDay = "Half-day"
	StatusLeave   = "Leave"
)

// Person types referenced by attendance records
const (
	PersonEmployee = "employee"
	PersonManager  = "manager"
)

// Attendance - one record per person per day. The unique index is the
// uniqueness invariant; writes upsert against it.
type Attendance struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PersonID    uint            `gorm:"uniqueIndex:idx_person_date" json:"person_id"`
	PersonType  string          `gorm:"size:20;uniqueIndex:idx_person_date" json:"person_type"`
	Date        string          `gorm:"size:10;uniqueIndex:idx_person_date" json:"date"` // YYYY-MM-DD
	Status      string          `gorm:"size:20" json:"status"`
	HoursWorked decimal.Decimal `gorm:"type:decimal(5,2)" json:"hours_worked"`
	MarkedBy    uint            `json:"marked_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OfficialLeave - a declared holiday excluded from working days
type OfficialLeave struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Date   string `gorm:"uniqueIndex;size:10" json:"date"` // YYYY-MM-DD
	Reason string `gorm:"size:200" json:"reason"`
}

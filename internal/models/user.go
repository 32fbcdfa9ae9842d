package models

import (
	"time"
)

// User - The person logging into the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:100" json:"email"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Role         string    `json:"role"`  // 'admin', 'manager', 'employee'
	Shift        string    `json:"shift"` // 'morning', 'evening', 'night'
	CreatedAt    time.Time `json:"created_at"`
}

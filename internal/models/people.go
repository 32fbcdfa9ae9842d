package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee - a shift worker paid from attendance
type Employee struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:100" json:"name"`
	Email           string          `gorm:"size:100" json:"email"`
	Phone           string          `gorm:"size:20" json:"phone"`
	DOB             string          `gorm:"size:20" json:"dob"`
	Gender          string          `gorm:"size:10" json:"gender"`
	Aadhar          string          `gorm:"size:20" json:"aadhar"`
	Shift           string          `gorm:"size:20" json:"shift"`
	ExperienceYears int             `json:"experience_years"`
	BaseSalary      decimal.Decimal `gorm:"type:decimal(12,2)" json:"base_salary"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Manager - a shift manager with statutory payroll deduction settings
type Manager struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ManagerID       string          `gorm:"uniqueIndex;size:50" json:"manager_id"`
	Name            string          `gorm:"size:100" json:"name"`
	Email           string          `gorm:"size:100" json:"email"`
	Phone           string          `gorm:"size:20" json:"phone"`
	DOB             string          `gorm:"size:20" json:"dob"`
	Gender          string          `gorm:"size:10" json:"gender"`
	Aadhar          string          `gorm:"size:20" json:"aadhar"`
	Shift           string          `gorm:"size:20" json:"shift"`
	ExperienceYears int             `json:"experience_years"`
	BaseSalary      decimal.Decimal `gorm:"type:decimal(12,2)" json:"base_salary"`

	PFEnabled  bool            `gorm:"default:true" json:"pf_enabled"`
	ESIEnabled bool            `gorm:"default:true" json:"esi_enabled"`
	PFPercent  decimal.Decimal `gorm:"type:decimal(5,2);default:12" json:"pf_percent"`
	ESIPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0.75" json:"esi_percent"`

	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stack - one tracked lot of raw material, sold off in discrete orders.
// Quantities and money are decimals end to end so repeated partial
// deliveries and payments never drift.
type Stack struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	StackID  string          `gorm:"uniqueIndex;size:50" json:"stack_id"`
	Material string          `gorm:"size:100" json:"material"`
	TotalQty decimal.Decimal `gorm:"type:decimal(14,3)" json:"total_qty"`
	Unit     string          `gorm:"size:20" json:"unit"`

	Orders       []StackOrder `gorm:"foreignKey:StackRef;constraint:OnDelete:CASCADE" json:"orders"`
	PriceHistory []PricePoint `gorm:"foreignKey:StackRef;constraint:OnDelete:CASCADE" json:"price_history"`

	// Optional invoice header fields
	CustomerName  string `gorm:"size:100" json:"customer_name"`
	State         string `gorm:"size:50" json:"state"`
	StateCode     string `gorm:"size:10" json:"state_code"`
	OrderNo       string `gorm:"size:50" json:"order_no"`
	DCNo          string `gorm:"size:50" json:"dc_no"`
	RecipientCode string `gorm:"size:50" json:"recipient_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PricePoint - one entry in a stack's append-only price history.
// The newest entry is the price snapshotted onto new orders.
type PricePoint struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	StackRef   uint            `gorm:"index" json:"-"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	GSTRate    decimal.Decimal `gorm:"type:decimal(5,2)" json:"gst_rate"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// StackOrder - a sales order carved out of a stack. Price and GST rate
// are snapshots taken at creation; everything else derived from the
// payment/delivery history is computed on read, never stored.
type StackOrder struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	StackRef     uint            `gorm:"index" json:"-"`
	Buyer        string          `gorm:"size:100" json:"buyer"`
	Qty          decimal.Decimal `gorm:"type:decimal(14,3)" json:"qty"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_per_unit"`
	GSTRate      decimal.Decimal `gorm:"type:decimal(5,2)" json:"gst_rate"`
	AdvancePaid  decimal.Decimal `gorm:"type:decimal(12,2)" json:"advance_paid"`
	OrderedAt    time.Time       `json:"ordered_at"`

	Payments   []Payment  `gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE" json:"payments"`
	Deliveries []Delivery `gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE" json:"deliveries"`
}

// Payment - one append-only payment against a sales order
type Payment struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	OrderRef uint            `gorm:"index" json:"-"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	PaidAt   time.Time       `json:"paid_at"`
}

// Delivery - one append-only partial delivery against a sales order
type Delivery struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderRef    uint            `gorm:"index" json:"-"`
	Qty         decimal.Decimal `gorm:"type:decimal(14,3)" json:"qty"`
	DeliveredAt time.Time       `json:"delivered_at"`
}

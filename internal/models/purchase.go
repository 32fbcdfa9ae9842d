package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase - the supplier-side mirror of a stack: material received from
// one supplier and consumed via usage logs. Available stock is always
// recomputed from the order/usage history; the only persisted derived
// state is the one-shot low-stock alert latch.
type Purchase struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	MaterialName string `gorm:"size:100;uniqueIndex:idx_material_supplier" json:"material_name"`
	SupplierName string `gorm:"size:100;uniqueIndex:idx_material_supplier" json:"supplier_name"`
	Unit         string `gorm:"size:20" json:"unit"`

	PurchaseOrders []PurchaseOrder `gorm:"foreignKey:PurchaseRef;constraint:OnDelete:CASCADE" json:"purchase_orders"`
	UsageLogs      []UsageLog      `gorm:"foreignKey:PurchaseRef;constraint:OnDelete:CASCADE" json:"usage_logs"`

	LowStockThreshold decimal.Decimal `gorm:"type:decimal(14,3);default:10" json:"low_stock_threshold"`
	LowStockAlertSent bool            `json:"low_stock_alert_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PurchaseOrder - one order placed with the supplier, received in
// partial deliveries and paid off in installments
type PurchaseOrder struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	PurchaseRef  uint            `gorm:"index" json:"-"`
	OrderedQty   decimal.Decimal `gorm:"type:decimal(14,3)" json:"ordered_qty"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_per_unit"`
	GSTRate      decimal.Decimal `gorm:"type:decimal(5,2)" json:"gst_rate"`
	AdvancePaid  decimal.Decimal `gorm:"type:decimal(12,2)" json:"advance_paid"`
	OrderedAt    time.Time       `json:"ordered_at"`

	Payments   []PurchasePayment  `gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE" json:"payments"`
	Deliveries []PurchaseDelivery `gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE" json:"deliveries"`
}

// PurchasePayment - one payment made to the supplier against an order
type PurchasePayment struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	OrderRef uint            `gorm:"index" json:"-"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	PaidAt   time.Time       `json:"paid_at"`
}

// PurchaseDelivery - one delivery received from the supplier against an order
type PurchaseDelivery struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderRef    uint            `gorm:"index" json:"-"`
	Qty         decimal.Decimal `gorm:"type:decimal(14,3)" json:"qty"`
	DeliveredAt time.Time       `json:"delivered_at"`
}

// UsageLog - material drawn from available stock for production
type UsageLog struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PurchaseRef uint            `gorm:"index" json:"-"`
	UsedQty     decimal.Decimal `gorm:"type:decimal(14,3)" json:"used_qty"`
	UsedAt      time.Time       `json:"used_at"`
}

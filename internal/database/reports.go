package database

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cement-works/internal/ledger"
	"cement-works/internal/models"
)

// OverviewResult holds the business-wide totals for the dashboard and
// the chatbot. Balances are derived values, so they are recomputed from
// the full histories here instead of a SQL SUM over stored columns.
type OverviewResult struct {
	StackCount        int64           `json:"stack_count"`
	PurchaseCount     int64           `json:"purchase_count"`
	TotalReceivable   decimal.Decimal `json:"total_receivable"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
	LowStockMaterials []string        `json:"low_stock_materials"`
}

// GetOverview computes receivables across all stacks and payables
// across all purchase records.
func GetOverview(db *gorm.DB) (*OverviewResult, error) {
	var stacks []models.Stack
	if err := db.Preload("Orders.Payments").Preload("Orders.Deliveries").Find(&stacks).Error; err != nil {
		return nil, err
	}
	var purchases []models.Purchase
	if err := db.Preload("PurchaseOrders.Payments").Preload("PurchaseOrders.Deliveries").Preload("UsageLogs").Find(&purchases).Error; err != nil {
		return nil, err
	}

	result := OverviewResult{
		StackCount:      int64(len(stacks)),
		PurchaseCount:   int64(len(purchases)),
		TotalReceivable: decimal.Zero,
		TotalPayable:    decimal.Zero,
	}
	for _, s := range stacks {
		result.TotalReceivable = result.TotalReceivable.Add(ledger.SummarizeStack(s).TotalBalance)
	}
	for _, p := range purchases {
		sum := ledger.SummarizePurchase(p)
		result.TotalPayable = result.TotalPayable.Add(sum.TotalBalance)
		if !sum.AvailableStock.GreaterThan(p.LowStockThreshold) {
			result.LowStockMaterials = append(result.LowStockMaterials, p.MaterialName)
		}
	}
	return &result, nil
}

package ledger

import (
	"github.com/shopspring/decimal"

	"cement-works/internal/models"
)

// StackSummary is the derived view of one stack: per-order figures plus
// the lot-level running totals.
type StackSummary struct {
	Orders         []OrderSummary  `json:"orders"`
	TotalOrdered   decimal.Decimal `json:"total_ordered"`
	Available      decimal.Decimal `json:"available"`
	TotalGST       decimal.Decimal `json:"total_gst"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalWithGST   decimal.Decimal `json:"total_with_gst"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
	TotalDelivered decimal.Decimal `json:"total_delivered"`
}

// SummarizeStack recomputes all lot aggregates from the order history.
func SummarizeStack(s models.Stack) StackSummary {
	sum := StackSummary{
		TotalOrdered:   decimal.Zero,
		TotalGST:       decimal.Zero,
		TotalPaid:      decimal.Zero,
		TotalWithGST:   decimal.Zero,
		TotalBalance:   decimal.Zero,
		TotalDelivered: decimal.Zero,
	}
	for _, o := range s.Orders {
		os := SummarizeOrder(o)
		sum.Orders = append(sum.Orders, os)
		sum.TotalOrdered = sum.TotalOrdered.Add(o.Qty)
		sum.TotalGST = sum.TotalGST.Add(os.GSTAmount)
		sum.TotalPaid = sum.TotalPaid.Add(os.TotalPaid)
		sum.TotalWithGST = sum.TotalWithGST.Add(os.TotalWithGST)
		sum.TotalBalance = sum.TotalBalance.Add(os.BalanceDue)
		sum.TotalDelivered = sum.TotalDelivered.Add(os.DeliveredQty)
	}
	sum.Available = s.TotalQty.Sub(sum.TotalOrdered)
	return sum
}

// StackAvailable is the quantity still unsold: totalQty minus every
// accepted order, regardless of delivery state.
func StackAvailable(s models.Stack) decimal.Decimal {
	ordered := decimal.Zero
	for _, o := range s.Orders {
		ordered = ordered.Add(o.Qty)
	}
	return s.TotalQty.Sub(ordered)
}

// CheckOrderQty validates a new sales order against the stock still
// available, computed before the order is appended.
func CheckOrderQty(s models.Stack, qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return errInvalidAmount("order qty", qty)
	}
	available := StackAvailable(s)
	if qty.GreaterThan(available) {
		return errInsufficientStock("order qty", qty, available)
	}
	return nil
}

// PurchaseSummary is the derived view of one purchase record.
type PurchaseSummary struct {
	Orders         []OrderSummary  `json:"orders"`
	TotalOrdered   decimal.Decimal `json:"total_ordered"`
	TotalReceived  decimal.Decimal `json:"total_received"`
	TotalUsed      decimal.Decimal `json:"total_used"`
	AvailableStock decimal.Decimal `json:"available_stock"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
}

// SummarizePurchase recomputes a purchase record's aggregates from its
// full order and usage history. availableStock is received minus used;
// it is never cached in the database.
func SummarizePurchase(p models.Purchase) PurchaseSummary {
	sum := PurchaseSummary{
		TotalOrdered:  decimal.Zero,
		TotalReceived: decimal.Zero,
		TotalUsed:     decimal.Zero,
		TotalAmount:   decimal.Zero,
		TotalPaid:     decimal.Zero,
	}
	for _, o := range p.PurchaseOrders {
		os := SummarizePurchaseOrder(o)
		sum.Orders = append(sum.Orders, os)
		sum.TotalOrdered = sum.TotalOrdered.Add(o.OrderedQty)
		sum.TotalReceived = sum.TotalReceived.Add(os.DeliveredQty)
		sum.TotalAmount = sum.TotalAmount.Add(os.TotalWithGST)
		sum.TotalPaid = sum.TotalPaid.Add(os.TotalPaid)
	}
	for _, u := range p.UsageLogs {
		sum.TotalUsed = sum.TotalUsed.Add(u.UsedQty)
	}
	sum.AvailableStock = sum.TotalReceived.Sub(sum.TotalUsed)
	sum.TotalBalance = sum.TotalAmount.Sub(sum.TotalPaid)
	return sum
}

// CheckUsage validates a usage-log append against the available stock
// computed before the new entry.
func CheckUsage(p models.Purchase, usedQty decimal.Decimal) error {
	if usedQty.LessThanOrEqual(decimal.Zero) {
		return errInvalidAmount("used qty", usedQty)
	}
	available := SummarizePurchase(p).AvailableStock
	if usedQty.GreaterThan(available) {
		return errInsufficientStock("used qty", usedQty, available)
	}
	return nil
}

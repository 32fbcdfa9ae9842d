package ledger

import (
	"github.com/shopspring/decimal"

	"cement-works/internal/models"
)

var hundred = decimal.NewFromInt(100)

// OrderSummary holds every derived figure for one order. Nothing here
// is ever persisted; it is recomputed from the stored history on each
// read so serialising and reloading an order always reproduces it.
type OrderSummary struct {
	TotalValue   decimal.Decimal `json:"total_value"`
	GSTAmount    decimal.Decimal `json:"gst_amount"`
	TotalWithGST decimal.Decimal `json:"total_with_gst"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
	DeliveredQty decimal.Decimal `json:"delivered_qty"`
	PendingQty   decimal.Decimal `json:"pending_qty"`
}

// orderFinance is the common aggregation for sales and purchase orders:
// value, GST, payments and deliveries all reduce the same way.
func orderFinance(qty, pricePerUnit, gstRate, advancePaid decimal.Decimal, payments, deliveries []decimal.Decimal) OrderSummary {
	totalValue := qty.Mul(pricePerUnit)
	gstAmount := totalValue.Mul(gstRate).Div(hundred)

	totalPaid := advancePaid
	for _, p := range payments {
		totalPaid = totalPaid.Add(p)
	}

	delivered := decimal.Zero
	for _, d := range deliveries {
		delivered = delivered.Add(d)
	}

	return OrderSummary{
		TotalValue:   totalValue,
		GSTAmount:    gstAmount,
		TotalWithGST: totalValue.Add(gstAmount),
		TotalPaid:    totalPaid,
		BalanceDue:   totalValue.Add(gstAmount).Sub(totalPaid),
		DeliveredQty: delivered,
		PendingQty:   qty.Sub(delivered),
	}
}

// SummarizeOrder computes the derived figures for a sales order.
func SummarizeOrder(o models.StackOrder) OrderSummary {
	payments := make([]decimal.Decimal, len(o.Payments))
	for i, p := range o.Payments {
		payments[i] = p.Amount
	}
	deliveries := make([]decimal.Decimal, len(o.Deliveries))
	for i, d := range o.Deliveries {
		deliveries[i] = d.Qty
	}
	return orderFinance(o.Qty, o.PricePerUnit, o.GSTRate, o.AdvancePaid, payments, deliveries)
}

// SummarizePurchaseOrder computes the derived figures for a supplier order.
func SummarizePurchaseOrder(o models.PurchaseOrder) OrderSummary {
	payments := make([]decimal.Decimal, len(o.Payments))
	for i, p := range o.Payments {
		payments[i] = p.Amount
	}
	deliveries := make([]decimal.Decimal, len(o.Deliveries))
	for i, d := range o.Deliveries {
		deliveries[i] = d.Qty
	}
	return orderFinance(o.OrderedQty, o.PricePerUnit, o.GSTRate, o.AdvancePaid, payments, deliveries)
}

// CheckPayment validates a payment append against the balance computed
// BEFORE the append. Zero or negative amounts are invalid; anything
// above the current balance is rejected outright, never partially
// accepted.
func CheckPayment(balanceDue, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errInvalidAmount("payment amount", amount)
	}
	if amount.GreaterThan(balanceDue) {
		return errOverPayment("payment amount", amount, balanceDue)
	}
	return nil
}

// CheckDelivery validates a delivery append against the pending
// quantity computed before the append.
func CheckDelivery(pendingQty, qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return errInvalidAmount("delivery qty", qty)
	}
	if qty.GreaterThan(pendingQty) {
		return errOverDelivery("delivery qty", qty, pendingQty)
	}
	return nil
}

// LatestPrice returns the most recent price point, or zero price and
// rate when no price has been recorded yet. History is append-only so
// the last element is the newest.
func LatestPrice(history []models.PricePoint) (price, gstRate decimal.Decimal) {
	if len(history) == 0 {
		return decimal.Zero, decimal.Zero
	}
	last := history[len(history)-1]
	return last.Price, last.GSTRate
}

// BuyerInvoice totals a buyer's orders within one stack. Each order is
// summarised independently and then summed; a negative per-order
// balance (an overpayment already in the data) deliberately propagates
// into the total instead of being clamped at zero.
type BuyerInvoice struct {
	Buyer      string          `json:"buyer"`
	Orders     []OrderSummary  `json:"orders"`
	TotalBasic decimal.Decimal `json:"total_basic"`
	TotalGST   decimal.Decimal `json:"total_gst"`
	TotalValue decimal.Decimal `json:"total_value"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

// InvoiceForBuyer aggregates all of a buyer's orders in a stack.
func InvoiceForBuyer(buyer string, orders []models.StackOrder) BuyerInvoice {
	inv := BuyerInvoice{
		Buyer:      buyer,
		TotalBasic: decimal.Zero,
		TotalGST:   decimal.Zero,
		TotalValue: decimal.Zero,
		TotalPaid:  decimal.Zero,
		BalanceDue: decimal.Zero,
	}
	for _, o := range orders {
		s := SummarizeOrder(o)
		inv.Orders = append(inv.Orders, s)
		inv.TotalBasic = inv.TotalBasic.Add(s.TotalValue)
		inv.TotalGST = inv.TotalGST.Add(s.GSTAmount)
		inv.TotalValue = inv.TotalValue.Add(s.TotalWithGST)
		inv.TotalPaid = inv.TotalPaid.Add(s.TotalPaid)
		inv.BalanceDue = inv.BalanceDue.Add(s.BalanceDue)
	}
	return inv
}

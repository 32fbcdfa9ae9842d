package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"cement-works/internal/ledger"
	"cement-works/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummarizeOrder_DerivedFigures(t *testing.T) {
	order := models.StackOrder{
		Buyer:        "Sri Traders",
		Qty:          dec("100"),
		PricePerUnit: dec("350"),
		GSTRate:      dec("18"),
		AdvancePaid:  dec("5000"),
		Payments: []models.Payment{
			{Amount: dec("10000")},
			{Amount: dec("6300")},
		},
		Deliveries: []models.Delivery{
			{Qty: dec("40")},
			{Qty: dec("25")},
		},
	}

	s := ledger.SummarizeOrder(order)
	if !s.TotalValue.Equal(dec("35000")) {
		t.Fatalf("total value = %s, want 35000", s.TotalValue)
	}
	if !s.GSTAmount.Equal(dec("6300")) {
		t.Fatalf("gst amount = %s, want 6300", s.GSTAmount)
	}
	if !s.TotalWithGST.Equal(dec("41300")) {
		t.Fatalf("total with gst = %s, want 41300", s.TotalWithGST)
	}
	if !s.TotalPaid.Equal(dec("21300")) {
		t.Fatalf("total paid = %s, want 21300", s.TotalPaid)
	}
	if !s.BalanceDue.Equal(dec("20000")) {
		t.Fatalf("balance due = %s, want 20000", s.BalanceDue)
	}
	if !s.DeliveredQty.Equal(dec("65")) || !s.PendingQty.Equal(dec("35")) {
		t.Fatalf("delivered/pending = %s/%s, want 65/35", s.DeliveredQty, s.PendingQty)
	}
}

func TestCheckPayment_Bounds(t *testing.T) {
	balance := dec("20000")

	if err := ledger.CheckPayment(balance, dec("20000")); err != nil {
		t.Fatalf("payment equal to balance must be accepted: %v", err)
	}
	if err := ledger.CheckPayment(balance, dec("20000.01")); ledger.KindOf(err) != ledger.KindOverPayment {
		t.Fatalf("payment above balance: kind = %q, want OVER_PAYMENT", ledger.KindOf(err))
	}
	if err := ledger.CheckPayment(balance, decimal.Zero); ledger.KindOf(err) != ledger.KindInvalidAmount {
		t.Fatalf("zero payment: kind = %q, want INVALID_AMOUNT", ledger.KindOf(err))
	}
	if err := ledger.CheckPayment(balance, dec("-5")); ledger.KindOf(err) != ledger.KindInvalidAmount {
		t.Fatalf("negative payment: kind = %q, want INVALID_AMOUNT", ledger.KindOf(err))
	}
}

func TestCheckDelivery_Bounds(t *testing.T) {
	pending := dec("35")

	if err := ledger.CheckDelivery(pending, dec("35")); err != nil {
		t.Fatalf("delivery equal to pending must be accepted: %v", err)
	}
	if err := ledger.CheckDelivery(pending, dec("35.001")); ledger.KindOf(err) != ledger.KindOverDelivery {
		t.Fatalf("over delivery: kind = %q, want OVER_DELIVERY", ledger.KindOf(err))
	}
	if err := ledger.CheckDelivery(pending, decimal.Zero); ledger.KindOf(err) != ledger.KindInvalidAmount {
		t.Fatalf("zero delivery: kind = %q, want INVALID_AMOUNT", ledger.KindOf(err))
	}
}

func TestLatestPrice_EmptyAndAppendOnly(t *testing.T) {
	price, rate := ledger.LatestPrice(nil)
	if !price.IsZero() || !rate.IsZero() {
		t.Fatalf("empty history = %s/%s, want zeros", price, rate)
	}

	history := []models.PricePoint{
		{Price: dec("300"), GSTRate: dec("5")},
		{Price: dec("350"), GSTRate: dec("18")},
	}
	price, rate = ledger.LatestPrice(history)
	if !price.Equal(dec("350")) || !rate.Equal(dec("18")) {
		t.Fatalf("latest = %s/%s, want 350/18", price, rate)
	}
}

// A buyer who already overpaid one order must see the negative balance
// flow into the invoice total, not get it clamped at zero.
func TestInvoiceForBuyer_NegativeBalancePropagates(t *testing.T) {
	orders := []models.StackOrder{
		{
			Buyer: "Sri Traders", Qty: dec("10"), PricePerUnit: dec("100"), GSTRate: decimal.Zero,
			Payments: []models.Payment{{Amount: dec("1200")}}, // 200 overpaid
		},
		{
			Buyer: "Sri Traders", Qty: dec("10"), PricePerUnit: dec("100"), GSTRate: decimal.Zero,
			Payments: []models.Payment{{Amount: dec("500")}},
		},
	}

	inv := ledger.InvoiceForBuyer("Sri Traders", orders)
	if !inv.Orders[0].BalanceDue.Equal(dec("-200")) {
		t.Fatalf("first order balance = %s, want -200", inv.Orders[0].BalanceDue)
	}
	if !inv.BalanceDue.Equal(dec("300")) {
		t.Fatalf("invoice balance = %s, want 300 (overpayment offsets the other order)", inv.BalanceDue)
	}
	if !inv.TotalPaid.Equal(dec("1700")) {
		t.Fatalf("invoice paid = %s, want 1700", inv.TotalPaid)
	}
}

package ledger_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"cement-works/internal/ledger"
	"cement-works/internal/models"
)

type recordingNotifier struct {
	calls int
	fail  bool
	last  decimal.Decimal
}

func (n *recordingNotifier) Notify(_, _ string, available decimal.Decimal, _ string, _ decimal.Decimal) error {
	n.calls++
	n.last = available
	if n.fail {
		return errors.New("smtp down")
	}
	return nil
}

func monitoredPurchase(received string) *models.Purchase {
	return &models.Purchase{
		MaterialName:      "Gypsum",
		SupplierName:      "Mines Co",
		Unit:              "ton",
		LowStockThreshold: dec("10"),
		PurchaseOrders: []models.PurchaseOrder{
			{OrderedQty: dec("100"), Deliveries: []models.PurchaseDelivery{{Qty: dec(received)}}},
		},
	}
}

func use(p *models.Purchase, qty string) {
	p.UsageLogs = append(p.UsageLogs, models.UsageLog{UsedQty: dec(qty)})
}

func deliver(p *models.Purchase, qty string) {
	o := &p.PurchaseOrders[0]
	o.Deliveries = append(o.Deliveries, models.PurchaseDelivery{Qty: dec(qty)})
}

func TestMonitor_AlertFiresOnceThenLatches(t *testing.T) {
	notifier := &recordingNotifier{}
	monitor := ledger.NewMonitor(notifier)
	p := monitoredPurchase("15")

	// 15 -> 8: at or below threshold, one alert.
	use(p, "7")
	if !monitor.AfterUsage(p) {
		t.Fatal("crossing the threshold must change the latch")
	}
	if notifier.calls != 1 {
		t.Fatalf("notifier calls = %d, want 1", notifier.calls)
	}
	if !notifier.last.Equal(dec("8")) {
		t.Fatalf("alert stock = %s, want 8", notifier.last)
	}
	if !p.LowStockAlertSent {
		t.Fatal("latch must be set")
	}

	// 8 -> 5: still low, still latched, no second alert.
	use(p, "3")
	if monitor.AfterUsage(p) {
		t.Fatal("latched record must not change again")
	}
	if notifier.calls != 1 {
		t.Fatalf("notifier calls = %d, want still 1", notifier.calls)
	}
}

func TestMonitor_DeliveryResetsLatchSilently(t *testing.T) {
	notifier := &recordingNotifier{}
	monitor := ledger.NewMonitor(notifier)
	p := monitoredPurchase("15")

	use(p, "7")
	monitor.AfterUsage(p) // 8, alert + latch

	// 8 -> 12: above threshold, silent reset.
	deliver(p, "4")
	if !monitor.AfterDelivery(p) {
		t.Fatal("replenishing above threshold must reset the latch")
	}
	if p.LowStockAlertSent {
		t.Fatal("latch must be cleared")
	}
	if notifier.calls != 1 {
		t.Fatalf("reset must be silent, calls = %d", notifier.calls)
	}

	// 12 -> 9: breached again, a fresh alert.
	use(p, "3")
	if !monitor.AfterUsage(p) {
		t.Fatal("second breach must latch again")
	}
	if notifier.calls != 2 {
		t.Fatalf("notifier calls = %d, want 2", notifier.calls)
	}
}

func TestMonitor_DeliveryStillLowKeepsLatch(t *testing.T) {
	notifier := &recordingNotifier{}
	monitor := ledger.NewMonitor(notifier)
	p := monitoredPurchase("15")

	use(p, "7")
	monitor.AfterUsage(p) // 8, latched

	// 8 -> 10: exactly at threshold is still low; no reset.
	deliver(p, "2")
	if monitor.AfterDelivery(p) {
		t.Fatal("stock at the threshold must not reset the latch")
	}
	if !p.LowStockAlertSent {
		t.Fatal("latch must survive")
	}
}

func TestMonitor_NotifyFailureStillLatches(t *testing.T) {
	notifier := &recordingNotifier{fail: true}
	monitor := ledger.NewMonitor(notifier)
	p := monitoredPurchase("15")

	use(p, "7")
	if !monitor.AfterUsage(p) {
		t.Fatal("latch must transition even when the send fails")
	}
	if !p.LowStockAlertSent {
		t.Fatal("latch must be set despite the failure")
	}
}

package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cement-works/internal/models"
)

// Notifier delivers the one low-stock alert. Implementations are
// best-effort: a failed send is logged by the monitor and never rolls
// back the latch transition.
type Notifier interface {
	Notify(materialName, supplierName string, availableStock decimal.Decimal, unit string, threshold decimal.Decimal) error
}

// Monitor implements the low-stock latch. A purchase record is either
// Normal (LowStockAlertSent=false) or AlertSent. Usage driving stock to
// or below the threshold fires exactly one notification and latches;
// further usage while latched is silent. A delivery lifting stock back
// above the threshold resets the latch silently so the next breach
// notifies again.
type Monitor struct {
	notifier Notifier
}

func NewMonitor(n Notifier) *Monitor {
	return &Monitor{notifier: n}
}

// AfterUsage runs the Normal -> AlertSent transition check. It mutates
// only the latch field; the caller persists the record. Returns true
// when the latch changed.
func (m *Monitor) AfterUsage(p *models.Purchase) bool {
	sum := SummarizePurchase(*p)
	if p.LowStockAlertSent || sum.AvailableStock.GreaterThan(p.LowStockThreshold) {
		return false
	}
	if err := m.notifier.Notify(p.MaterialName, p.SupplierName, sum.AvailableStock, p.Unit, p.LowStockThreshold); err != nil {
		logrus.WithFields(logrus.Fields{
			"material": p.MaterialName,
			"supplier": p.SupplierName,
		}).WithError(err).Error("low stock notification failed")
	}
	p.LowStockAlertSent = true
	return true
}

// AfterDelivery runs the AlertSent -> Normal transition check. The
// reset is silent; it only re-arms the notifier.
func (m *Monitor) AfterDelivery(p *models.Purchase) bool {
	if !p.LowStockAlertSent {
		return false
	}
	sum := SummarizePurchase(*p)
	if sum.AvailableStock.GreaterThan(p.LowStockThreshold) {
		p.LowStockAlertSent = false
		return true
	}
	return false
}

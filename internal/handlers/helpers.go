package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cement-works/internal/chatbot"
	"cement-works/internal/ledger"
)

// BotCache is the chatbot's entity snapshot, loaded on login and reset
// on logout.
var BotCache = chatbot.NewCache()

// Monitor drives the low-stock latch. main() wires the SMTP notifier
// in; tests swap in a recorder.
var Monitor = ledger.NewMonitor(noopNotifier{})

type noopNotifier struct{}

func (noopNotifier) Notify(string, string, decimal.Decimal, string, decimal.Decimal) error {
	return nil
}

// lockForUpdate adds a row lock on dialects that support it. The
// sqlite test database has no SELECT ... FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// uintParam parses a numeric path parameter; 0 never matches a row id.
func uintParam(s string) uint {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// respondLedgerError maps a ledger validation failure onto the right
// HTTP status with the typed kind exposed to the client.
func respondLedgerError(c *gin.Context, err error) {
	kind := ledger.KindOf(err)
	status := http.StatusBadRequest
	if kind == "" {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": string(kind)})
}

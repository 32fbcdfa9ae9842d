package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies a validation failure so the API layer can render a
// precise message without string matching.
type Kind string

const (
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindOverDelivery      Kind = "OVER_DELIVERY"
	KindOverPayment       Kind = "OVER_PAYMENT"
	KindInvalidAmount     Kind = "INVALID_AMOUNT"
	KindNotFound          Kind = "NOT_FOUND"
	KindDuplicateKey      Kind = "DUPLICATE_KEY"
)

// Error carries the offending value and the limit it violated. All
// validation runs before any mutation is applied, so a returned Error
// means state is unchanged.
type Error struct {
	Kind  Kind
	What  string // which quantity/amount was rejected
	Value decimal.Decimal
	Limit decimal.Decimal
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInsufficientStock:
		return fmt.Sprintf("%s %s exceeds available stock %s", e.What, e.Value, e.Limit)
	case KindOverDelivery:
		return fmt.Sprintf("%s %s exceeds pending quantity %s", e.What, e.Value, e.Limit)
	case KindOverPayment:
		return fmt.Sprintf("%s %s exceeds balance due %s", e.What, e.Value, e.Limit)
	case KindInvalidAmount:
		return fmt.Sprintf("%s must be positive, got %s", e.What, e.Value)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.What)
	}
}

// KindOf unwraps err and reports its Kind, or "" when err is not a
// ledger validation error.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

func errInsufficientStock(what string, value, limit decimal.Decimal) error {
	return &Error{Kind: KindInsufficientStock, What: what, Value: value, Limit: limit}
}

func errOverDelivery(what string, value, limit decimal.Decimal) error {
	return &Error{Kind: KindOverDelivery, What: what, Value: value, Limit: limit}
}

func errOverPayment(what string, value, limit decimal.Decimal) error {
	return &Error{Kind: KindOverPayment, What: what, Value: value, Limit: limit}
}

func errInvalidAmount(what string, value decimal.Decimal) error {
	return &Error{Kind: KindInvalidAmount, What: what, Value: value}
}

// Package orders validates, sizes and dispatches order actions against a
// broker client, and normalizes order state across brokers.
package orders

import (
	"strings"

	"github.com/gopalmandloi007/tradedeck/internal/models"
)

// NormalizeStatus maps an order's fills and broker-native status word to
// the canonical status set. Fill arithmetic takes precedence over the
// reported word: a fully filled order is COMPLETED whatever the broker
// called it, and an untouched order with quantity outstanding reads as
// PENDING.
func NormalizeStatus(o models.Order) models.OrderStatus {
	switch {
	case o.Quantity > 0 && o.FilledQty == o.Quantity:
		return models.StatusCompleted
	case o.FilledQty > 0 && o.FilledQty < o.Quantity:
		return models.StatusPartiallyFilled
	case o.RemainingQty > 0 && o.FilledQty == 0:
		return models.StatusPending
	}

	switch strings.ToUpper(o.RawStatus) {
	case "CANCELLED", "CANCELED":
		return models.StatusCancelled
	case "REJECTED":
		return models.StatusRejected
	case "EXPIRED":
		return models.StatusExpired
	case "OPEN", "NEW", "REPLACED":
		return models.StatusOpen
	case "TRIGGER_PENDING":
		return models.StatusTriggerPending
	case "COMPLETE", "COMPLETED":
		return models.StatusCompleted
	default:
		return models.StatusUnknown
	}
}

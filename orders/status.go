package orders

import (
	"time"

	"storefront/apperr"
	"storefront/models"
)

// transitions is the allowed edge set of the fulfillment state machine.
// delivered and cancelled are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed:  {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

func ValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the order to the target status, appending a history
// entry and stamping shippedAt/deliveredAt where applicable. An illegal
// edge fails with InvalidTransition and leaves the order untouched.
func Transition(o *models.Order, to models.OrderStatus, actor, note string) error {
	if !ValidStatus(to) {
		return apperr.Newf(apperr.InvalidTransition, "unknown order status %q", to)
	}
	if !CanTransition(o.Status, to) {
		return apperr.Newf(apperr.InvalidTransition,
			"cannot transition order from %q to %q", o.Status, to)
	}

	now := time.Now()
	o.Status = to
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, models.StatusEvent{
		Status: to,
		At:     now,
		Actor:  actor,
		Note:   note,
	})
	switch to {
	case models.OrderShipped:
		o.ShippedAt = &now
	case models.OrderDelivered:
		o.DeliveredAt = &now
	}
	return nil
}

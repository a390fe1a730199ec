package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/apperr"
	"storefront/models"
)

func orderIn(status models.OrderStatus) *models.Order {
	return &models.Order{
		OrderID: "o1",
		Status:  status,
		StatusHistory: []models.StatusEvent{
			{Status: status, Actor: "u1"},
		},
	}
}

func TestTransitionEdgeSet(t *testing.T) {
	all := []models.OrderStatus{
		models.OrderPending, models.OrderConfirmed, models.OrderProcessing,
		models.OrderShipped, models.OrderDelivered, models.OrderCancelled,
	}
	allowed := map[models.OrderStatus][]models.OrderStatus{
		models.OrderPending:    {models.OrderConfirmed, models.OrderCancelled},
		models.OrderConfirmed:  {models.OrderProcessing, models.OrderCancelled},
		models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
		models.OrderShipped:    {models.OrderDelivered},
		models.OrderDelivered:  nil,
		models.OrderCancelled:  nil,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionAppendsHistory(t *testing.T) {
	o := orderIn(models.OrderPending)

	require.NoError(t, Transition(o, models.OrderConfirmed, "admin1", "payment ok"))
	assert.Equal(t, models.OrderConfirmed, o.Status)
	require.Len(t, o.StatusHistory, 2)
	assert.Equal(t, models.OrderConfirmed, o.StatusHistory[1].Status)
	assert.Equal(t, "admin1", o.StatusHistory[1].Actor)
	assert.Equal(t, "payment ok", o.StatusHistory[1].Note)
}

func TestTransitionStampsShippedAndDelivered(t *testing.T) {
	o := orderIn(models.OrderProcessing)

	require.NoError(t, Transition(o, models.OrderShipped, "admin1", ""))
	require.NotNil(t, o.ShippedAt)
	assert.Nil(t, o.DeliveredAt)

	require.NoError(t, Transition(o, models.OrderDelivered, "admin1", ""))
	require.NotNil(t, o.DeliveredAt)
}

func TestTransitionIllegalEdgeLeavesOrderUntouched(t *testing.T) {
	o := orderIn(models.OrderDelivered)

	err := Transition(o, models.OrderCancelled, "admin1", "")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(err))
	assert.Equal(t, models.OrderDelivered, o.Status)
	assert.Len(t, o.StatusHistory, 1)
}

func TestTransitionUnknownStatus(t *testing.T) {
	o := orderIn(models.OrderPending)

	err := Transition(o, models.OrderStatus("returned"), "admin1", "")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(err))
	assert.Equal(t, models.OrderPending, o.Status)
}

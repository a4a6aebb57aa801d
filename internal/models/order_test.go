package models_test

import (
	"testing"
	"time"

	"pasartani/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewOrder_TotalAndCopy(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: "P001", Quantity: 10, Price: 2.50},
		{ProductID: "P002", Quantity: 2, Price: 4.00},
	}
	order := models.NewOrder("ORD-0001", "C001", time.Now(), items, models.StatusPending)

	assert.Equal(t, 33.0, order.TotalAmount)
	assert.Equal(t, models.StatusPending, order.Status)

	// The order holds its own copy of the items; mutating the caller's slice
	// must not change the recorded order.
	items[0].Quantity = 999
	assert.Equal(t, 10, order.Items[0].Quantity)

	copied := order.ItemsCopy()
	copied[0].Quantity = 1
	assert.Equal(t, 10, order.Items[0].Quantity)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		allowed  bool
	}{
		{models.StatusPending, models.StatusDispatched, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusDelivered, false},
		{models.StatusDispatched, models.StatusDelivered, true},
		{models.StatusDispatched, models.StatusCancelled, true},
		{models.StatusDispatched, models.StatusPending, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusDispatched, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, models.CanTransition(tc.from, tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

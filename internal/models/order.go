package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusDispatched OrderStatus = "Dispatched"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// OrderItem is a single line within an order. Price is the product's price at
// the time the order was placed.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order represents a placed customer order. Items and TotalAmount are fixed
// at creation; only Status changes afterwards, and only along the forward
// transitions allowed by CanTransition.
type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customer_id"`
	OrderDate   time.Time   `json:"order_date"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
}

// NewOrder constructs an order with a defensive copy of its items and the
// total computed from the item prices captured at order time.
func NewOrder(id, customerID string, orderDate time.Time, items []OrderItem, status OrderStatus) *Order {
	copied := make([]OrderItem, len(items))
	copy(copied, items)

	var total float64
	for _, item := range copied {
		total += item.Price * float64(item.Quantity)
	}
	return &Order{
		ID:          id,
		CustomerID:  customerID,
		OrderDate:   orderDate,
		Items:       copied,
		TotalAmount: total,
		Status:      status,
	}
}

// CanTransition reports whether an order may move from one status to another.
// Pending -> Dispatched -> Delivered, with Cancelled reachable from Pending
// or Dispatched. Delivered and Cancelled are terminal.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusDispatched || to == StatusCancelled
	case StatusDispatched:
		return to == StatusDelivered || to == StatusCancelled
	default:
		return false
	}
}

// ItemsCopy returns a defensive copy of the ordered items.
func (o *Order) ItemsCopy() []OrderItem {
	copied := make([]OrderItem, len(o.Items))
	copy(copied, o.Items)
	return copied
}

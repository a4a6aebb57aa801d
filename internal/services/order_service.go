package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"pasartani/internal/models"
	"pasartani/internal/repositories"
)

// EventPublisher publishes order lifecycle events to the message broker. A
// nil publisher disables events; publish failures are logged and never fail
// the operation that triggered them.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

const eventExchange = "market"

// OrderService is the order engine: it validates carts, reserves stock
// atomically, owns the order lifecycle, and schedules delivery progression.
type OrderService struct {
	orders     *repositories.OrderStore
	products   *repositories.ProductStore
	users      *repositories.UserStore
	idgen      *IDGenerator
	dispatcher *Dispatcher
	publisher  EventPublisher
}

// NewOrderService creates a new OrderService. The dispatcher is attached
// separately because it needs the service's event hook.
func NewOrderService(orders *repositories.OrderStore, products *repositories.ProductStore, users *repositories.UserStore, idgen *IDGenerator, publisher EventPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		users:     users,
		idgen:     idgen,
		publisher: publisher,
	}
}

// AttachDispatcher wires the delivery-progression dispatcher.
func (s *OrderService) AttachDispatcher(d *Dispatcher) {
	s.dispatcher = d
}

// PublishDispatched emits the order.dispatched event; the dispatcher calls it
// after a successful progression.
func (s *OrderService) PublishDispatched(order models.Order) {
	s.publishEvent("order.dispatched", order)
}

// PlaceOrder validates the cart, reserves stock for every line in one atomic
// section, records the new Pending order, clears the customer's cart, and
// schedules the asynchronous dispatch progression.
//
// The seasonality and price reads are best-effort snapshots taken before the
// reservation; only the stock check-and-deduct is linearizable with
// concurrent orders and cancellations.
func (s *OrderService) PlaceOrder(customerID string, cart []models.CartItem) (*models.Order, error) {
	customer, ok := s.users.GetCustomer(customerID)
	if !ok {
		return nil, &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	if len(cart) == 0 {
		return nil, &models.ValidationError{Field: "cart", Reason: "cannot be empty"}
	}

	// 1-2. Pre-validate seasonality and snapshot prices.
	today := time.Now()
	items := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, &models.ValidationError{Field: "quantity", Reason: "must be positive"}
		}
		product, ok := s.products.Get(line.ProductID)
		if !ok {
			return nil, &models.NotFoundError{Entity: "product", ID: line.ProductID}
		}
		if !product.InSeason(today) {
			return nil, &models.OutOfSeasonError{ProductID: product.ID, ProductName: product.Name}
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	// 3. Customer eligibility.
	if !customer.EligibleForDelivery() {
		return nil, &models.DeliveryUnavailableError{Location: customer.Location}
	}

	// 4. All-or-nothing reservation: one critical section for the whole cart.
	if err := s.products.Reserve(items); err != nil {
		return nil, err
	}

	// 5. Record the order.
	orderID := s.idgen.Next(PrefixOrder)
	order := models.NewOrder(orderID, customerID, today, items, models.StatusPending)
	s.orders.Add(*order)
	log.Printf("Order %s for customer %s placed successfully", orderID, customer.Name)

	// 6. The cart is spent.
	s.users.ClearCart(customerID)

	// 7. Asynchronous delivery progression.
	if s.dispatcher != nil {
		s.dispatcher.Schedule(orderID)
	}

	s.publishEvent("order.created", *order)
	return order, nil
}

// CancelOrder cancels a Pending or Dispatched order and restores the reserved
// stock. It returns false if the order is unknown or already terminal. The
// conditional status write makes the refund exactly-once: a second
// cancellation loses the precondition check and never touches stock.
func (s *OrderService) CancelOrder(orderID string) bool {
	order, ok := s.orders.UpdateStatusIf(orderID, models.StatusCancelled,
		models.StatusPending, models.StatusDispatched)
	if !ok {
		log.Printf("Order %s cannot be cancelled", orderID)
		return false
	}

	s.products.Release(order.Items)
	log.Printf("Order %s cancelled successfully. Stock refunded.", orderID)
	s.publishEvent("order.cancelled", order)
	return true
}

// MarkDelivered completes a Dispatched order.
func (s *OrderService) MarkDelivered(orderID string) error {
	current, ok := s.orders.Get(orderID)
	if !ok {
		return &models.NotFoundError{Entity: "order", ID: orderID}
	}
	order, ok := s.orders.UpdateStatusIf(orderID, models.StatusDelivered, models.StatusDispatched)
	if !ok {
		return &models.ValidationError{
			Field:  "status",
			Reason: "order must be Dispatched to be delivered, currently " + string(current.Status),
		}
	}
	s.publishEvent("order.delivered", order)
	return nil
}

// GetOrder returns a snapshot copy of an order.
func (s *OrderService) GetOrder(orderID string) (models.Order, error) {
	order, ok := s.orders.Get(orderID)
	if !ok {
		return models.Order{}, &models.NotFoundError{Entity: "order", ID: orderID}
	}
	return order, nil
}

// OrdersForCustomer returns the customer's orders, most recent first.
func (s *OrderService) OrdersForCustomer(customerID string) []models.Order {
	return s.orders.ForCustomer(customerID)
}

// OrdersForFarmer returns orders containing any of the farmer's products,
// most recent first.
func (s *OrderService) OrdersForFarmer(farmerID string) ([]models.Order, error) {
	farmer, ok := s.users.GetFarmer(farmerID)
	if !ok {
		return nil, &models.NotFoundError{Entity: "farmer", ID: farmerID}
	}
	owned := make(map[string]struct{}, len(farmer.ProductIDs))
	for _, id := range farmer.ProductIDs {
		owned[id] = struct{}{}
	}
	return s.orders.ForProducts(owned), nil
}

// AddToCart merges a product line into the customer's stored cart.
func (s *OrderService) AddToCart(customerID, productID string, quantity int) error {
	customer, ok := s.users.GetCustomer(customerID)
	if !ok {
		return &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	if _, ok := s.products.Get(productID); !ok {
		return &models.NotFoundError{Entity: "product", ID: productID}
	}
	if err := customer.AddToCart(productID, quantity); err != nil {
		return err
	}
	s.users.UpdateCart(customerID, customer.Cart)
	return nil
}

// RemoveFromCart drops a product line from the customer's stored cart.
func (s *OrderService) RemoveFromCart(customerID, productID string) error {
	customer, ok := s.users.GetCustomer(customerID)
	if !ok {
		return &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	customer.RemoveFromCart(productID)
	s.users.UpdateCart(customerID, customer.Cart)
	return nil
}

// Cart returns the customer's current cart contents.
func (s *OrderService) Cart(customerID string) ([]models.CartItem, error) {
	customer, ok := s.users.GetCustomer(customerID)
	if !ok {
		return nil, &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	return customer.Cart, nil
}

// PlaceOrderFromCart submits the customer's stored cart as an order.
func (s *OrderService) PlaceOrderFromCart(customerID string) (*models.Order, error) {
	customer, ok := s.users.GetCustomer(customerID)
	if !ok {
		return nil, &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	return s.PlaceOrder(customerID, customer.Cart)
}

func (s *OrderService) publishEvent(routingKey string, order models.Order) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"event_id":    uuid.New().String(),
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"status":      order.Status,
		"total":       order.TotalAmount,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", routingKey, order.ID, err)
		return
	}
	if err := s.publisher.Publish(eventExchange, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}

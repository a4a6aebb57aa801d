package repositories

import (
	"sort"
	"sync"

	"pasartani/internal/models"
)

// OrderStore holds all placed orders in memory. Status changes go through
// UpdateStatusIf, a conditional write that only commits when the current
// status still matches one of the expected preconditions. This is how the
// background dispatch task and a concurrent cancellation are kept from
// racing each other.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

// NewOrderStore creates an empty in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[string]models.Order),
	}
}

// Add stores a new order.
func (s *OrderStore) Add(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

// Get returns a value copy of an order.
func (s *OrderStore) Get(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	return order, ok
}

// All returns value copies of every order.
func (s *OrderStore) All() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orderList := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orderList = append(orderList, o)
	}
	return orderList
}

// AllIDs returns every order id, used to seed the id generator.
func (s *OrderStore) AllIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	return ids
}

// UpdateStatusIf moves an order to a new status only when its current status
// matches one of the expected values. It returns the order as written and
// whether the write happened. An order is never refunded or dispatched
// twice because the losing caller observes a failed precondition here.
func (s *OrderStore) UpdateStatusIf(id string, to models.OrderStatus, from ...models.OrderStatus) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return models.Order{}, false
	}
	matched := false
	for _, f := range from {
		if order.Status == f {
			matched = true
			break
		}
	}
	if !matched {
		return order, false
	}
	order.Status = to
	s.orders[id] = order
	return order, true
}

// ForCustomer returns the customer's orders, most recent first. An empty
// customer id matches nothing, so a caller that failed to resolve its
// identity never sees other customers' orders.
func (s *OrderStore) ForCustomer(customerID string) []models.Order {
	if customerID == "" {
		return []models.Order{}
	}
	s.mu.RLock()
	matched := make([]models.Order, 0)
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			matched = append(matched, o)
		}
	}
	s.mu.RUnlock()

	sortByDateDesc(matched)
	return matched
}

// ForProducts returns orders containing any of the given product ids, most
// recent first. Used to list the orders relevant to one farmer.
func (s *OrderStore) ForProducts(productIDs map[string]struct{}) []models.Order {
	s.mu.RLock()
	matched := make([]models.Order, 0)
	for _, o := range s.orders {
		for _, item := range o.Items {
			if _, ok := productIDs[item.ProductID]; ok {
				matched = append(matched, o)
				break
			}
		}
	}
	s.mu.RUnlock()

	sortByDateDesc(matched)
	return matched
}

func sortByDateDesc(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}

package repositories

import (
	"sync"

	"pasartani/internal/models"
)

// ProductStore is the in-memory product catalog. All mutations on the catalog
// go through its single lock, so quantity adjustments are linearizable and a
// whole-cart reservation is one indivisible critical section. Correctness,
// not throughput, is the contract at this scale.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
	// ids preserves listing order, so searches that promise a stable input
	// order see products in the sequence they entered the catalog.
	ids []string
}

// NewProductStore creates an empty in-memory product store.
func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[string]models.Product),
	}
}

// AddOrUpdate inserts the product if its id is unseen, otherwise replaces the
// stored product in place.
func (s *ProductStore) AddOrUpdate(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		s.ids = append(s.ids, product.ID)
	}
	s.products[product.ID] = product
}

// Remove deletes a product from the catalog. It returns the removed product
// so the caller can unlink it from its owning farmer, and false if the id is
// unknown.
func (s *ProductStore) Remove(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return models.Product{}, false
	}
	delete(s.products, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return product, true
}

// Get returns a value copy of the product, so callers cannot mutate stored
// state through it.
func (s *ProductStore) Get(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	return product, ok
}

// All returns value copies of every product in the catalog, in listing
// order.
func (s *ProductStore) All() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	productList := make([]models.Product, 0, len(s.products))
	for _, id := range s.ids {
		productList = append(productList, s.products[id])
	}
	return productList
}

// AdjustQuantity atomically applies a delta to a product's available
// quantity. It returns false with no mutation if the product is unknown or
// the result would be negative.
func (s *ProductStore) AdjustQuantity(id string, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustLocked(id, delta)
}

// Reserve checks and deducts stock for every line of an order inside one
// critical section: either every line is deducted, or nothing is. A
// concurrent order can never observe or claim stock reserved here.
func (s *ProductStore) Reserve(items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		product, ok := s.products[item.ProductID]
		if !ok {
			return &models.NotFoundError{Entity: "product", ID: item.ProductID}
		}
		if product.QuantityAvailable < item.Quantity {
			return &models.InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: product.QuantityAvailable,
			}
		}
	}

	for _, item := range items {
		s.adjustLocked(item.ProductID, -item.Quantity)
	}
	return nil
}

// Release adds reserved stock back, item by item. Products removed from the
// catalog since the order was placed are skipped.
func (s *ProductStore) Release(items []models.OrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		s.adjustLocked(item.ProductID, item.Quantity)
	}
}

func (s *ProductStore) adjustLocked(id string, delta int) bool {
	product, ok := s.products[id]
	if !ok {
		return false
	}
	newQuantity := product.QuantityAvailable + delta
	if newQuantity < 0 {
		return false
	}
	product.QuantityAvailable = newQuantity
	s.products[id] = product
	return true
}

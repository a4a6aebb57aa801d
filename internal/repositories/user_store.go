package repositories

import (
	"sync"

	"pasartani/internal/models"
)

// UserStore holds all registered customers and farmers in memory. Reads
// return value copies; farmer-catalog linkage is maintained here so the
// product set of a farmer always matches the catalog.
type UserStore struct {
	mu        sync.RWMutex
	customers map[string]models.Customer
	farmers   map[string]models.Farmer
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		customers: make(map[string]models.Customer),
		farmers:   make(map[string]models.Farmer),
	}
}

// AddCustomer registers a customer. It returns false if the id is taken by
// any user.
func (s *UserStore) AddCustomer(c models.Customer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.existsLocked(c.ID) {
		return false
	}
	s.customers[c.ID] = cloneCustomer(c)
	return true
}

// AddFarmer registers a farmer. It returns false if the id is taken by any
// user.
func (s *UserStore) AddFarmer(f models.Farmer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.existsLocked(f.ID) {
		return false
	}
	s.farmers[f.ID] = cloneFarmer(f)
	return true
}

func (s *UserStore) existsLocked(id string) bool {
	if _, ok := s.customers[id]; ok {
		return true
	}
	_, ok := s.farmers[id]
	return ok
}

// cloneCustomer deep-copies the cart slice so a returned customer never
// aliases stored state.
func cloneCustomer(c models.Customer) models.Customer {
	c.Cart = append([]models.CartItem(nil), c.Cart...)
	return c
}

// cloneFarmer deep-copies the product id slice so a returned farmer never
// aliases stored state.
func cloneFarmer(f models.Farmer) models.Farmer {
	f.ProductIDs = append([]string(nil), f.ProductIDs...)
	return f
}

// GetCustomer returns a value copy of a customer.
func (s *UserStore) GetCustomer(id string) (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return models.Customer{}, false
	}
	return cloneCustomer(c), true
}

// GetFarmer returns a value copy of a farmer.
func (s *UserStore) GetFarmer(id string) (models.Farmer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.farmers[id]
	if !ok {
		return models.Farmer{}, false
	}
	return cloneFarmer(f), true
}

// GetUser returns the common user fields for any registered id.
func (s *UserStore) GetUser(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.customers[id]; ok {
		return c.User, true
	}
	if f, ok := s.farmers[id]; ok {
		return f.User, true
	}
	return models.User{}, false
}

// AllCustomers returns value copies of every customer.
func (s *UserStore) AllCustomers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		list = append(list, cloneCustomer(c))
	}
	return list
}

// AllFarmers returns value copies of every farmer.
func (s *UserStore) AllFarmers() []models.Farmer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Farmer, 0, len(s.farmers))
	for _, f := range s.farmers {
		list = append(list, cloneFarmer(f))
	}
	return list
}

// AllIDs returns every registered user id, used to seed the id generator.
func (s *UserStore) AllIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.customers)+len(s.farmers))
	for id := range s.customers {
		ids = append(ids, id)
	}
	for id := range s.farmers {
		ids = append(ids, id)
	}
	return ids
}

// UpdateCart replaces a customer's cart contents. The slice is copied so the
// store never shares a backing array with the caller.
func (s *UserStore) UpdateCart(customerID string, cart []models.CartItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok {
		return false
	}
	c.Cart = append([]models.CartItem(nil), cart...)
	s.customers[customerID] = c
	return true
}

// ClearCart empties a customer's cart.
func (s *UserStore) ClearCart(customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok {
		return
	}
	c.Cart = nil
	s.customers[customerID] = c
}

// LinkProduct records a product id in the owning farmer's catalog set. It
// returns false if the farmer is unknown; callers treat that as a warning,
// not an error, to tolerate imported data referencing missing farmers.
func (s *UserStore) LinkProduct(farmerID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.farmers[farmerID]
	if !ok {
		return false
	}
	for _, id := range f.ProductIDs {
		if id == productID {
			return true
		}
	}
	f.ProductIDs = append(f.ProductIDs, productID)
	s.farmers[farmerID] = f
	return true
}

// UnlinkProduct removes a product id from the owning farmer's catalog set.
func (s *UserStore) UnlinkProduct(farmerID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.farmers[farmerID]
	if !ok {
		return
	}
	kept := make([]string, 0, len(f.ProductIDs))
	for _, id := range f.ProductIDs {
		if id != productID {
			kept = append(kept, id)
		}
	}
	f.ProductIDs = kept
	s.farmers[farmerID] = f
}

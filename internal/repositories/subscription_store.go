package repositories

import (
	"sync"

	"pasartani/internal/models"
)

// SubscriptionStore holds all subscriptions in memory. The duplicate-Active
// check and the insert happen under one lock, so two concurrent subscribe
// calls for the same (customer, farmer) pair cannot both succeed.
type SubscriptionStore struct {
	mu   sync.RWMutex
	subs map[string]models.Subscription
}

// NewSubscriptionStore creates an empty in-memory subscription store.
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		subs: make(map[string]models.Subscription),
	}
}

// Add stores a subscription unconditionally, used when loading persisted
// records.
func (s *SubscriptionStore) Add(sub models.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = sub
}

// AddIfNoActive stores the subscription only if no Active subscription exists
// for the same (customer, farmer) pair.
func (s *SubscriptionStore) AddIfNoActive(sub models.Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subs {
		if existing.CustomerID == sub.CustomerID &&
			existing.FarmerID == sub.FarmerID &&
			existing.Status == models.SubActive {
			return false
		}
	}
	s.subs[sub.ID] = sub
	return true
}

// Get returns a value copy of a subscription.
func (s *SubscriptionStore) Get(id string) (models.Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	return sub, ok
}

// All returns value copies of every subscription.
func (s *SubscriptionStore) All() []models.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		list = append(list, sub)
	}
	return list
}

// AllIDs returns every subscription id, used to seed the id generator.
func (s *SubscriptionStore) AllIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	return ids
}

// ActiveForCustomer returns the customer's Active subscriptions.
func (s *SubscriptionStore) ActiveForCustomer(customerID string) []models.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Subscription, 0)
	for _, sub := range s.subs {
		if sub.CustomerID == customerID && sub.Status == models.SubActive {
			list = append(list, sub)
		}
	}
	return list
}

// Resume moves a Paused subscription back to Active. The status check, the
// duplicate-Active scan, and the write happen under one lock, so two
// concurrent resumes (or a resume racing a subscribe) cannot produce two
// Active subscriptions for the same (customer, farmer) pair.
func (s *SubscriptionStore) Resume(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return &models.NotFoundError{Entity: "subscription", ID: id}
	}
	if sub.Status != models.SubPaused {
		return &models.ValidationError{Field: "status", Reason: "only Paused subscriptions can be resumed"}
	}
	for _, existing := range s.subs {
		if existing.ID != sub.ID &&
			existing.CustomerID == sub.CustomerID &&
			existing.FarmerID == sub.FarmerID &&
			existing.Status == models.SubActive {
			return &models.DuplicateSubscriptionError{CustomerID: sub.CustomerID, FarmerID: sub.FarmerID}
		}
	}
	sub.Status = models.SubActive
	s.subs[id] = sub
	return nil
}

// SetStatus updates a subscription's status. It returns false if the id is
// unknown.
func (s *SubscriptionStore) SetStatus(id string, status models.SubscriptionStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return false
	}
	sub.Status = status
	s.subs[id] = sub
	return true
}

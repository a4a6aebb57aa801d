package services

import (
	"log"
	"time"

	"pasartani/internal/models"
	"pasartani/internal/repositories"
)

// SubscriptionService manages customer-to-farmer subscriptions.
type SubscriptionService struct {
	subs  *repositories.SubscriptionStore
	users *repositories.UserStore
	idgen *IDGenerator
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subs *repositories.SubscriptionStore, users *repositories.UserStore, idgen *IDGenerator) *SubscriptionService {
	return &SubscriptionService{
		subs:  subs,
		users: users,
		idgen: idgen,
	}
}

// Subscribe creates an Active subscription of the given type. It fails if
// either id is unknown or if the customer already has an Active subscription
// to the farmer.
func (s *SubscriptionService) Subscribe(customerID, farmerID, subType string) (*models.Subscription, error) {
	if _, ok := s.users.GetCustomer(customerID); !ok {
		return nil, &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	if _, ok := s.users.GetFarmer(farmerID); !ok {
		return nil, &models.NotFoundError{Entity: "farmer", ID: farmerID}
	}

	sub := models.NewSubscription(s.idgen.Next(PrefixSubscription), customerID, farmerID,
		time.Now(), models.SubActive, subType)
	if !s.subs.AddIfNoActive(*sub) {
		return nil, &models.DuplicateSubscriptionError{CustomerID: customerID, FarmerID: farmerID}
	}
	log.Printf("Customer %s subscribed to farmer %s for %s", customerID, farmerID, subType)
	return sub, nil
}

// Cancel moves a subscription to Cancelled.
func (s *SubscriptionService) Cancel(subscriptionID string) error {
	return s.setStatus(subscriptionID, models.SubCancelled)
}

// Pause moves a subscription to Paused.
func (s *SubscriptionService) Pause(subscriptionID string) error {
	return s.setStatus(subscriptionID, models.SubPaused)
}

// Resume moves a Paused subscription back to Active, subject to the
// one-Active-per-pair rule. The store enforces the rule atomically.
func (s *SubscriptionService) Resume(subscriptionID string) error {
	return s.subs.Resume(subscriptionID)
}

// Get returns a snapshot copy of a subscription.
func (s *SubscriptionService) Get(subscriptionID string) (models.Subscription, error) {
	sub, ok := s.subs.Get(subscriptionID)
	if !ok {
		return models.Subscription{}, &models.NotFoundError{Entity: "subscription", ID: subscriptionID}
	}
	return sub, nil
}

// ActiveForCustomer returns the customer's Active subscriptions.
func (s *SubscriptionService) ActiveForCustomer(customerID string) []models.Subscription {
	return s.subs.ActiveForCustomer(customerID)
}

func (s *SubscriptionService) setStatus(subscriptionID string, status models.SubscriptionStatus) error {
	if !s.subs.SetStatus(subscriptionID, status) {
		return &models.NotFoundError{Entity: "subscription", ID: subscriptionID}
	}
	return nil
}

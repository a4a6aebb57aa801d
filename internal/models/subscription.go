package models

import "time"

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubActive    SubscriptionStatus = "Active"
	SubCancelled SubscriptionStatus = "Cancelled"
	SubPaused    SubscriptionStatus = "Paused"
)

// Subscription links a customer to a farmer for recurring deliveries, e.g. a
// "Weekly Vegetable Box". At most one Active subscription may exist per
// (customer, farmer) pair.
type Subscription struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id"`
	FarmerID   string             `json:"farmer_id"`
	StartDate  time.Time          `json:"start_date"`
	Status     SubscriptionStatus `json:"status"`
	Type       string             `json:"type"`
}

// NewSubscription constructs a subscription record.
func NewSubscription(id, customerID, farmerID string, startDate time.Time, status SubscriptionStatus, subType string) *Subscription {
	return &Subscription{
		ID:         id,
		CustomerID: customerID,
		FarmerID:   farmerID,
		StartDate:  startDate,
		Status:     status,
		Type:       subType,
	}
}

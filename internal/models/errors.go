package models

import "fmt"

// ValidationError indicates a malformed field value at entity construction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// HarvestDateError indicates a missing or future-dated harvest date.
type HarvestDateError struct {
	Reason string
}

func (e *HarvestDateError) Error() string {
	return fmt.Sprintf("invalid harvest date: %s", e.Reason)
}

// OutOfSeasonError indicates an order-time seasonality failure for a product.
type OutOfSeasonError struct {
	ProductID   string
	ProductName string
}

func (e *OutOfSeasonError) Error() string {
	return fmt.Sprintf("product %s (%s) is currently out of season", e.ProductName, e.ProductID)
}

// DeliveryUnavailableError indicates the customer's location is not eligible
// for delivery.
type DeliveryUnavailableError struct {
	Location string
}

func (e *DeliveryUnavailableError) Error() string {
	return fmt.Sprintf("delivery is not available for location %q", e.Location)
}

// InsufficientStockError indicates a stock reservation failure.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)",
		e.ProductID, e.Requested, e.Available)
}

// NotFoundError indicates an unknown id was referenced by an id-based lookup.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// DuplicateSubscriptionError indicates an Active subscription already exists
// for the (customer, farmer) pair.
type DuplicateSubscriptionError struct {
	CustomerID string
	FarmerID   string
}

func (e *DuplicateSubscriptionError) Error() string {
	return fmt.Sprintf("customer %s is already actively subscribed to farmer %s",
		e.CustomerID, e.FarmerID)
}

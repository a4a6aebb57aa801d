package models

import "time"

// seasonWindowDays is how long after harvest a product counts as in season.
const seasonWindowDays = 30

// Product represents a farm product listed in the marketplace catalog.
type Product struct {
	ID                string    `json:"id"`
	Name              string    `json:"name" validate:"required,min=2,max=100"`
	Description       string    `json:"description" validate:"omitempty,max=500"`
	Price             float64   `json:"price" validate:"required,gt=0"`
	QuantityAvailable int       `json:"quantity_available" validate:"gte=0"`
	HarvestDate       time.Time `json:"harvest_date"`
	FarmerID          string    `json:"farmer_id"`
}

// NewProduct validates and constructs a product. Price must be positive,
// quantity non-negative, and the harvest date must not be in the future.
func NewProduct(id, name, description string, price float64, quantity int, harvestDate time.Time, farmerID string) (*Product, error) {
	if price <= 0 {
		return nil, &ValidationError{Field: "price", Reason: "must be a positive value"}
	}
	if quantity < 0 {
		return nil, &ValidationError{Field: "quantity_available", Reason: "cannot be negative"}
	}
	if harvestDate.IsZero() {
		return nil, &HarvestDateError{Reason: "harvest date cannot be empty"}
	}
	// Harvest dates should not be future-dated for a harvested product.
	if dateOnly(harvestDate).After(dateOnly(time.Now())) {
		return nil, &HarvestDateError{Reason: "harvest date cannot be in the future"}
	}
	return &Product{
		ID:                id,
		Name:              name,
		Description:       description,
		Price:             price,
		QuantityAvailable: quantity,
		HarvestDate:       harvestDate,
		FarmerID:          farmerID,
	}, nil
}

// InSeason reports whether the product was harvested within the last 30 days
// of the reference date, inclusive of both ends. Future harvest dates are
// never in season (they are also rejected at construction time).
func (p *Product) InSeason(ref time.Time) bool {
	if p.HarvestDate.IsZero() {
		return false
	}
	harvest := dateOnly(p.HarvestDate)
	day := dateOnly(ref)
	windowStart := day.AddDate(0, 0, -seasonWindowDays)
	return !harvest.Before(windowStart) && !harvest.After(day)
}

// dateOnly truncates a timestamp to its calendar date in local time, so
// season checks compare whole days the way order dates are recorded.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

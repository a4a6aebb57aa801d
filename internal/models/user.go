package models

import (
	"log"
	"strconv"
	"strings"
)

// Role identifies the kind of marketplace user. The set is closed: a user is
// either a Customer or a Farmer, fixed at creation.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleFarmer   Role = "Farmer"
)

// User holds the fields common to customers and farmers.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// Customer is a buyer: a delivery location plus a shopping cart.
type Customer struct {
	User
	Location string     `json:"location"`
	Cart     []CartItem `json:"cart,omitempty"`
}

// Farmer is a seller: a farm location plus the ids of the products it owns.
type Farmer struct {
	User
	Location   string   `json:"location"`
	ProductIDs []string `json:"product_ids,omitempty"`
}

// NewCustomer validates and constructs a customer. The location must be a
// "lat,lon" pair parseable into two floating-point numbers.
func NewCustomer(id, name, email, passwordHash, location string) (*Customer, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if _, _, err := ParseLocation(location); err != nil {
		return nil, err
	}
	return &Customer{
		User:     User{ID: id, Name: name, Email: email, PasswordHash: passwordHash, Role: RoleCustomer},
		Location: location,
	}, nil
}

// NewFarmer validates and constructs a farmer.
func NewFarmer(id, name, email, passwordHash, location string) (*Farmer, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if _, _, err := ParseLocation(location); err != nil {
		return nil, err
	}
	return &Farmer{
		User:     User{ID: id, Name: name, Email: email, PasswordHash: passwordHash, Role: RoleFarmer},
		Location: location,
	}, nil
}

// validateEmail performs the simple local@domain check: both sides non-empty.
func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return &ValidationError{Field: "email", Reason: "must be in 'local@domain' format"}
	}
	return nil
}

// ParseLocation strictly parses a "lat,lon" string into its two coordinates.
// Used at construction time, where malformed input is an error.
func ParseLocation(location string) (lat, lon float64, err error) {
	if strings.TrimSpace(location) == "" {
		return 0, 0, &ValidationError{Field: "location", Reason: "cannot be empty"}
	}
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return 0, 0, &ValidationError{Field: "location", Reason: "must be in 'latitude,longitude' format"}
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, &ValidationError{Field: "location", Reason: "latitude must be a valid number"}
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, &ValidationError{Field: "location", Reason: "longitude must be a valid number"}
	}
	return lat, lon, nil
}

// lenientCoordinate parses one coordinate of a "lat,lon" string, defaulting
// to 0.0 with a logged warning on malformed input. Legacy records may carry
// locations that no longer pass strict validation; accessors tolerate them
// instead of failing.
func lenientCoordinate(location string, index int) float64 {
	if strings.TrimSpace(location) == "" {
		return 0.0
	}
	parts := strings.Split(location, ",")
	if index >= len(parts) {
		log.Printf("Warning: could not parse coordinate %d from location %q, defaulting to 0", index, location)
		return 0.0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(parts[index]), 64)
	if err != nil {
		log.Printf("Warning: could not parse coordinate %d from location %q, defaulting to 0", index, location)
		return 0.0
	}
	return v
}

// Latitude returns the customer's latitude, or 0.0 if the stored location is
// malformed.
func (c *Customer) Latitude() float64 { return lenientCoordinate(c.Location, 0) }

// Longitude returns the customer's longitude, or 0.0 if the stored location
// is malformed.
func (c *Customer) Longitude() float64 { return lenientCoordinate(c.Location, 1) }

// Latitude returns the farmer's latitude, or 0.0 if the stored location is
// malformed.
func (f *Farmer) Latitude() float64 { return lenientCoordinate(f.Location, 0) }

// Longitude returns the farmer's longitude, or 0.0 if the stored location is
// malformed.
func (f *Farmer) Longitude() float64 { return lenientCoordinate(f.Location, 1) }

// EligibleForDelivery reports whether the customer's location parses into two
// numeric coordinates.
func (c *Customer) EligibleForDelivery() bool {
	_, _, err := ParseLocation(c.Location)
	return err == nil
}

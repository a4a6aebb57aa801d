package services

import (
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"pasartani/internal/models"
	"pasartani/internal/repositories"
)

// SearchService filters and orders catalog snapshots. Results are computed on
// demand, never persisted.
type SearchService struct {
	products *repositories.ProductStore
	users    *repositories.UserStore
}

// NewSearchService creates a new SearchService.
func NewSearchService(products *repositories.ProductStore, users *repositories.UserStore) *SearchService {
	return &SearchService{
		products: products,
		users:    users,
	}
}

// BySeason returns all products in season as of the given date, ordered by
// harvest date descending (most recently harvested first). Ties keep their
// input order.
func (s *SearchService) BySeason(date time.Time) []models.Product {
	inSeason := make([]models.Product, 0)
	for _, product := range s.products.All() {
		if product.InSeason(date) {
			inSeason = append(inSeason, product)
		}
	}
	sort.SliceStable(inSeason, func(i, j int) bool {
		return inSeason[i].HarvestDate.After(inSeason[j].HarvestDate)
	})
	return inSeason
}

// ByProximity returns the products of every farmer within radiusKm of the
// origin, nearest farmer first. The distance is plain Euclidean distance on
// the raw latitude/longitude numbers, compared directly against the radius
// in kilometers. That treats degrees as kilometers and is geometrically
// wrong, but it is the behavior the legacy data and callers expect, so it is
// kept as is. A malformed origin returns an empty result.
func (s *SearchService) ByProximity(origin string, radiusKm float64) []models.Product {
	lat, lon, err := models.ParseLocation(origin)
	if err != nil {
		log.Printf("Invalid origin location for proximity search: %q", origin)
		return []models.Product{}
	}

	type farmerDistance struct {
		farmer   models.Farmer
		distance float64
	}
	nearby := make([]farmerDistance, 0)
	for _, farmer := range s.users.AllFarmers() {
		dx := lat - farmer.Latitude()
		dy := lon - farmer.Longitude()
		distance := math.Sqrt(dx*dx + dy*dy)
		if distance <= radiusKm {
			nearby = append(nearby, farmerDistance{farmer: farmer, distance: distance})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].distance < nearby[j].distance
	})

	results := make([]models.Product, 0)
	for _, fd := range nearby {
		for _, productID := range fd.farmer.ProductIDs {
			if product, ok := s.products.Get(productID); ok {
				results = append(results, product)
			}
		}
	}
	return results
}

// ByCategory returns products whose name or description contains the term,
// case-insensitively. Matches whose description mentions "organic" are
// partitioned to the front; within each partition the input order is kept.
func (s *SearchService) ByCategory(term string) []models.Product {
	lowerTerm := strings.ToLower(term)

	organic := make([]models.Product, 0)
	others := make([]models.Product, 0)
	for _, product := range s.products.All() {
		if !strings.Contains(strings.ToLower(product.Name), lowerTerm) &&
			!strings.Contains(strings.ToLower(product.Description), lowerTerm) {
			continue
		}
		if strings.Contains(strings.ToLower(product.Description), "organic") {
			organic = append(organic, product)
		} else {
			others = append(others, product)
		}
	}
	return append(organic, others...)
}

// BySearchTerm returns products whose name, description, or id contains the
// term, case-insensitively. A blank term returns the full catalog.
func (s *SearchService) BySearchTerm(term string) []models.Product {
	all := s.products.All()
	if strings.TrimSpace(term) == "" {
		return all
	}
	lowerTerm := strings.ToLower(term)

	found := make([]models.Product, 0)
	for _, product := range all {
		if strings.Contains(strings.ToLower(product.Name), lowerTerm) ||
			strings.Contains(strings.ToLower(product.Description), lowerTerm) ||
			strings.Contains(strings.ToLower(product.ID), lowerTerm) {
			found = append(found, product)
		}
	}
	return found
}

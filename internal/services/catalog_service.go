package services

import (
	"log"

	"pasartani/internal/models"
	"pasartani/internal/repositories"
)

// CatalogService manages the product catalog and keeps the farmer-product
// linkage consistent with it.
type CatalogService struct {
	products *repositories.ProductStore
	users    *repositories.UserStore
	idgen    *IDGenerator
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products *repositories.ProductStore, users *repositories.UserStore, idgen *IDGenerator) *CatalogService {
	return &CatalogService{
		products: products,
		users:    users,
		idgen:    idgen,
	}
}

// AddOrUpdateProduct inserts the product if its id is unseen, otherwise
// replaces it in place, and records the id in the owning farmer's product
// set. Products referencing an unknown farmer are kept with a warning, to
// tolerate imported data.
func (s *CatalogService) AddOrUpdateProduct(product models.Product) {
	s.products.AddOrUpdate(product)
	if !s.users.LinkProduct(product.FarmerID, product.ID) {
		log.Printf("Warning: product %s (%s) references non-existent farmer ID %s",
			product.Name, product.ID, product.FarmerID)
	}
}

// RemoveProduct removes a product from the catalog and from the owning
// farmer's set. It returns false if the id is unknown.
func (s *CatalogService) RemoveProduct(id string) bool {
	removed, ok := s.products.Remove(id)
	if !ok {
		return false
	}
	s.users.UnlinkProduct(removed.FarmerID, id)
	return true
}

// AdjustQuantity atomically changes a product's available quantity by delta.
// It returns false with no mutation if the product is unknown or the result
// would be negative.
func (s *CatalogService) AdjustQuantity(id string, delta int) bool {
	return s.products.AdjustQuantity(id, delta)
}

// GetProduct returns a snapshot copy of a product.
func (s *CatalogService) GetProduct(id string) (models.Product, error) {
	product, ok := s.products.Get(id)
	if !ok {
		return models.Product{}, &models.NotFoundError{Entity: "product", ID: id}
	}
	return product, nil
}

// ListAll returns snapshot copies of every product in the catalog.
func (s *CatalogService) ListAll() []models.Product {
	return s.products.All()
}

// ListByFarmer returns the products owned by one farmer.
func (s *CatalogService) ListByFarmer(farmerID string) ([]models.Product, error) {
	farmer, ok := s.users.GetFarmer(farmerID)
	if !ok {
		return nil, &models.NotFoundError{Entity: "farmer", ID: farmerID}
	}
	list := make([]models.Product, 0, len(farmer.ProductIDs))
	for _, id := range farmer.ProductIDs {
		if product, ok := s.products.Get(id); ok {
			list = append(list, product)
		}
	}
	return list, nil
}

// NextProductID hands out a fresh product id for new listings.
func (s *CatalogService) NextProductID() string {
	return s.idgen.Next(PrefixProduct)
}

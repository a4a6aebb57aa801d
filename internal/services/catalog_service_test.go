package services_test

import (
	"testing"
	"time"

	"pasartani/internal/models"
	"pasartani/internal/repositories"
	"pasartani/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCatalogFixture(t *testing.T) (*services.CatalogService, *repositories.UserStore) {
	t.Helper()
	users := repositories.NewUserStore()
	farmer, err := models.NewFarmer("F001", "Green Acres Farm", "green@example.com", "hash", "25.0,55.0")
	assert.NoError(t, err)
	users.AddFarmer(*farmer)

	catalog := services.NewCatalogService(repositories.NewProductStore(), users, services.NewIDGenerator())
	return catalog, users
}

func catalogProduct(id string) models.Product {
	return models.Product{
		ID:                id,
		Name:              "Organic Carrots",
		Price:             2.50,
		QuantityAvailable: 100,
		HarvestDate:       time.Now().AddDate(0, 0, -5),
		FarmerID:          "F001",
	}
}

func TestCatalogService_AddLinksFarmer(t *testing.T) {
	catalog, users := newCatalogFixture(t)

	catalog.AddOrUpdateProduct(catalogProduct("P001"))

	farmer, _ := users.GetFarmer("F001")
	assert.Equal(t, []string{"P001"}, farmer.ProductIDs)

	// Updating does not duplicate the link
	catalog.AddOrUpdateProduct(catalogProduct("P001"))
	farmer, _ = users.GetFarmer("F001")
	assert.Len(t, farmer.ProductIDs, 1)

	// A product referencing an unknown farmer is kept anyway
	orphan := catalogProduct("P002")
	orphan.FarmerID = "F999"
	catalog.AddOrUpdateProduct(orphan)
	_, err := catalog.GetProduct("P002")
	assert.NoError(t, err)
}

func TestCatalogService_RemoveUnlinksFarmer(t *testing.T) {
	catalog, users := newCatalogFixture(t)
	catalog.AddOrUpdateProduct(catalogProduct("P001"))

	assert.True(t, catalog.RemoveProduct("P001"))
	farmer, _ := users.GetFarmer("F001")
	assert.Empty(t, farmer.ProductIDs)

	assert.False(t, catalog.RemoveProduct("P001"))

	var notFoundErr *models.NotFoundError
	_, err := catalog.GetProduct("P001")
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestCatalogService_ListByFarmer(t *testing.T) {
	catalog, _ := newCatalogFixture(t)
	catalog.AddOrUpdateProduct(catalogProduct("P001"))
	second := catalogProduct("P002")
	second.Name = "Farm Eggs"
	catalog.AddOrUpdateProduct(second)

	list, err := catalog.ListByFarmer("F001")
	assert.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = catalog.ListByFarmer("F999")
	assert.Error(t, err)

	assert.Len(t, catalog.ListAll(), 2)
}

func TestCatalogService_NextProductID(t *testing.T) {
	catalog, _ := newCatalogFixture(t)
	assert.Equal(t, "P001", catalog.NextProductID())
	assert.Equal(t, "P002", catalog.NextProductID())
}

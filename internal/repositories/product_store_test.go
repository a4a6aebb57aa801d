package repositories_test

import (
	"sync"
	"testing"
	"time"

	"pasartani/internal/models"
	"pasartani/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func newProduct(id string, quantity int) models.Product {
	return models.Product{
		ID:                id,
		Name:              "Product " + id,
		Price:             2.50,
		QuantityAvailable: quantity,
		HarvestDate:       time.Now().AddDate(0, 0, -5),
		FarmerID:          "F001",
	}
}

func TestProductStore_AddGetRemove(t *testing.T) {
	store := repositories.NewProductStore()

	store.AddOrUpdate(newProduct("P001", 100))
	store.AddOrUpdate(newProduct("P002", 50))

	product, ok := store.Get("P001")
	assert.True(t, ok)
	assert.Equal(t, 100, product.QuantityAvailable)

	// AddOrUpdate replaces in place without duplicating the listing
	updated := newProduct("P001", 75)
	store.AddOrUpdate(updated)
	assert.Len(t, store.All(), 2)
	product, _ = store.Get("P001")
	assert.Equal(t, 75, product.QuantityAvailable)

	removed, ok := store.Remove("P001")
	assert.True(t, ok)
	assert.Equal(t, "F001", removed.FarmerID)
	_, ok = store.Get("P001")
	assert.False(t, ok)

	_, ok = store.Remove("P999")
	assert.False(t, ok)
}

func TestProductStore_AllPreservesListingOrder(t *testing.T) {
	store := repositories.NewProductStore()
	for _, id := range []string{"P003", "P001", "P002"} {
		store.AddOrUpdate(newProduct(id, 10))
	}

	all := store.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "P003", all[0].ID)
	assert.Equal(t, "P001", all[1].ID)
	assert.Equal(t, "P002", all[2].ID)

	// Updating an existing product keeps its original position
	store.AddOrUpdate(newProduct("P003", 99))
	assert.Equal(t, "P003", store.All()[0].ID)
}

func TestProductStore_AdjustQuantity(t *testing.T) {
	store := repositories.NewProductStore()
	store.AddOrUpdate(newProduct("P001", 10))

	assert.True(t, store.AdjustQuantity("P001", -4))
	product, _ := store.Get("P001")
	assert.Equal(t, 6, product.QuantityAvailable)

	// Going negative is rejected with no mutation
	assert.False(t, store.AdjustQuantity("P001", -7))
	product, _ = store.Get("P001")
	assert.Equal(t, 6, product.QuantityAvailable)

	// Down to exactly zero is allowed
	assert.True(t, store.AdjustQuantity("P001", -6))
	product, _ = store.Get("P001")
	assert.Equal(t, 0, product.QuantityAvailable)

	assert.False(t, store.AdjustQuantity("P999", 1))
}

func TestProductStore_ConcurrentAdjustNeverOversells(t *testing.T) {
	store := repositories.NewProductStore()
	store.AddOrUpdate(newProduct("P001", 50))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	// 100 buyers race for 50 units, one each. Exactly 50 may win.
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.AdjustQuantity("P001", -1) {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, succeeded)
	product, _ := store.Get("P001")
	assert.Equal(t, 0, product.QuantityAvailable)
}

func TestProductStore_ReserveAllOrNothing(t *testing.T) {
	store := repositories.NewProductStore()
	store.AddOrUpdate(newProduct("P001", 10))
	store.AddOrUpdate(newProduct("P002", 5))

	// One line short on stock fails the whole reservation
	err := store.Reserve([]models.OrderItem{
		{ProductID: "P001", Quantity: 3},
		{ProductID: "P002", Quantity: 6},
	})
	var stockErr *models.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "P002", stockErr.ProductID)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	// Nothing was deducted
	p1, _ := store.Get("P001")
	p2, _ := store.Get("P002")
	assert.Equal(t, 10, p1.QuantityAvailable)
	assert.Equal(t, 5, p2.QuantityAvailable)

	// Unknown product also fails the whole reservation
	err = store.Reserve([]models.OrderItem{
		{ProductID: "P001", Quantity: 1},
		{ProductID: "P999", Quantity: 1},
	})
	var notFoundErr *models.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	p1, _ = store.Get("P001")
	assert.Equal(t, 10, p1.QuantityAvailable)

	// A satisfiable reservation deducts every line
	err = store.Reserve([]models.OrderItem{
		{ProductID: "P001", Quantity: 3},
		{ProductID: "P002", Quantity: 5},
	})
	assert.NoError(t, err)
	p1, _ = store.Get("P001")
	p2, _ = store.Get("P002")
	assert.Equal(t, 7, p1.QuantityAvailable)
	assert.Equal(t, 0, p2.QuantityAvailable)
}

func TestProductStore_Release(t *testing.T) {
	store := repositories.NewProductStore()
	store.AddOrUpdate(newProduct("P001", 7))

	store.Release([]models.OrderItem{
		{ProductID: "P001", Quantity: 3},
		// Products removed since the order was placed are skipped
		{ProductID: "P999", Quantity: 5},
	})

	product, _ := store.Get("P001")
	assert.Equal(t, 10, product.QuantityAvailable)
}

func TestProductStore_ConcurrentReserve(t *testing.T) {
	store := repositories.NewProductStore()
	store.AddOrUpdate(newProduct("P001", 30))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	// 10 carts of 4 units race for 30 units: at most 7 can succeed.
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Reserve([]models.OrderItem{{ProductID: "P001", Quantity: 4}})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 7, succeeded)
	product, _ := store.Get("P001")
	assert.Equal(t, 2, product.QuantityAvailable)
}

package repositories_test

import (
	"testing"

	"pasartani/internal/models"
	"pasartani/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormRepo(t *testing.T) *repositories.GormSnapshotRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	repo, err := repositories.NewGormSnapshotRepository(db)
	assert.NoError(t, err)
	return repo
}

func TestGormSnapshotRepository_RoundTrip(t *testing.T) {
	repo := newGormRepo(t)

	customer, err := models.NewCustomer("C001", "Alice Smith", "alice@example.com", "hash1", "24.8,54.9")
	assert.NoError(t, err)
	farmer, err := models.NewFarmer("F001", "Green Acres Farm", "green@example.com", "hash2", "25.0,55.0")
	assert.NoError(t, err)
	product, err := models.NewProduct("P001", "Organic Carrots", "Fresh, seasonal, organic",
		2.50, 100, dateDaysAgo(5), "F001")
	assert.NoError(t, err)

	order := models.NewOrder("ORD-0001", "C001", dateDaysAgo(1), []models.OrderItem{
		{ProductID: "P001", Quantity: 10, Price: 2.50},
		{ProductID: "P002", Quantity: 1, Price: 4.00},
	}, models.StatusDispatched)
	sub := models.NewSubscription("SUB-0001", "C001", "F001", dateDaysAgo(7),
		models.SubPaused, "Weekly Vegetable Box")

	err = repo.SaveAll(&repositories.Snapshot{
		Customers:     []models.Customer{*customer},
		Farmers:       []models.Farmer{*farmer},
		Products:      []models.Product{*product},
		Orders:        []models.Order{*order},
		Subscriptions: []models.Subscription{*sub},
	})
	assert.NoError(t, err)

	loaded, err := repo.LoadAll()
	assert.NoError(t, err)

	assert.Len(t, loaded.Customers, 1)
	assert.Equal(t, "alice@example.com", loaded.Customers[0].Email)
	assert.Len(t, loaded.Farmers, 1)
	assert.Equal(t, models.RoleFarmer, loaded.Farmers[0].Role)

	assert.Len(t, loaded.Products, 1)
	assert.Equal(t, 100, loaded.Products[0].QuantityAvailable)

	assert.Len(t, loaded.Orders, 1)
	assert.Equal(t, models.StatusDispatched, loaded.Orders[0].Status)
	assert.Equal(t, 29.0, loaded.Orders[0].TotalAmount)
	assert.Len(t, loaded.Orders[0].Items, 2)
	assert.Equal(t, "P002", loaded.Orders[0].Items[1].ProductID)

	assert.Len(t, loaded.Subscriptions, 1)
	assert.Equal(t, models.SubPaused, loaded.Subscriptions[0].Status)
}

func TestGormSnapshotRepository_SaveReplacesPreviousSnapshot(t *testing.T) {
	repo := newGormRepo(t)

	customer, err := models.NewCustomer("C001", "Alice Smith", "alice@example.com", "hash", "24.8,54.9")
	assert.NoError(t, err)
	assert.NoError(t, repo.SaveAll(&repositories.Snapshot{Customers: []models.Customer{*customer}}))

	// A later save with different contents fully replaces the first
	other, err := models.NewCustomer("C002", "Bob Jones", "bob@example.com", "hash", "24.0,54.0")
	assert.NoError(t, err)
	assert.NoError(t, repo.SaveAll(&repositories.Snapshot{Customers: []models.Customer{*other}}))

	loaded, err := repo.LoadAll()
	assert.NoError(t, err)
	assert.Len(t, loaded.Customers, 1)
	assert.Equal(t, "C002", loaded.Customers[0].ID)
}

func TestGormSnapshotRepository_SkipsInvalidRows(t *testing.T) {
	repo := newGormRepo(t)

	good, err := models.NewCustomer("C001", "Alice Smith", "alice@example.com", "hash", "24.8,54.9")
	assert.NoError(t, err)
	// A record whose location no longer passes validation
	bad := models.Customer{
		User:     models.User{ID: "C002", Name: "Bob", Email: "bob@example.com", Role: models.RoleCustomer},
		Location: "somewhere",
	}

	assert.NoError(t, repo.SaveAll(&repositories.Snapshot{Customers: []models.Customer{*good, bad}}))

	loaded, err := repo.LoadAll()
	assert.NoError(t, err)
	assert.Len(t, loaded.Customers, 1)
	assert.Equal(t, "C001", loaded.Customers[0].ID)
}

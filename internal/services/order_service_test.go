package services_test

import (
	"testing"
	"time"

	"pasartani/internal/models"
	"pasartani/internal/repositories"
	"pasartani/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

type orderFixture struct {
	orders   *repositories.OrderStore
	products *repositories.ProductStore
	users    *repositories.UserStore
	service  *services.OrderService
}

func newOrderFixture(t *testing.T, publisher services.EventPublisher) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orders:   repositories.NewOrderStore(),
		products: repositories.NewProductStore(),
		users:    repositories.NewUserStore(),
	}
	f.service = services.NewOrderService(f.orders, f.products, f.users, services.NewIDGenerator(), publisher)

	farmer, err := models.NewFarmer("F001", "Green Acres Farm", "green@example.com", "hash", "25.0,55.0")
	assert.NoError(t, err)
	f.users.AddFarmer(*farmer)

	customer, err := models.NewCustomer("C001", "Alice Smith", "alice@example.com", "hash", "24.8,54.9")
	assert.NoError(t, err)
	f.users.AddCustomer(*customer)

	product, err := models.NewProduct("P001", "Organic Carrots", "Fresh, seasonal, organic",
		2.50, 100, time.Now().AddDate(0, 0, -5), "F001")
	assert.NoError(t, err)
	f.products.AddOrUpdate(*product)
	f.users.LinkProduct("F001", "P001")

	return f
}

func TestOrderService_PlaceOrder(t *testing.T) {
	f := newOrderFixture(t, nil)

	order, err := f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 10}})
	assert.NoError(t, err)
	assert.Equal(t, "ORD-0001", order.ID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 25.0, order.TotalAmount)

	product, _ := f.products.Get("P001")
	assert.Equal(t, 90, product.QuantityAvailable)

	stored, err := f.service.GetOrder("ORD-0001")
	assert.NoError(t, err)
	assert.Equal(t, "C001", stored.CustomerID)
}

func TestOrderService_PlaceOrder_Failures(t *testing.T) {
	f := newOrderFixture(t, nil)

	// Unknown customer
	_, err := f.service.PlaceOrder("C999", []models.CartItem{{ProductID: "P001", Quantity: 1}})
	var notFoundErr *models.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)

	// Empty cart
	_, err = f.service.PlaceOrder("C001", nil)
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// Non-positive quantity
	_, err = f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 0}})
	assert.ErrorAs(t, err, &validationErr)

	// Unknown product
	_, err = f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P999", Quantity: 1}})
	assert.ErrorAs(t, err, &notFoundErr)

	// No stock was touched by any of the failures
	product, _ := f.products.Get("P001")
	assert.Equal(t, 100, product.QuantityAvailable)
}

func TestOrderService_PlaceOrder_OutOfSeason(t *testing.T) {
	f := newOrderFixture(t, nil)
	f.products.AddOrUpdate(models.Product{
		ID:                "P002",
		Name:              "Old Potatoes",
		Price:             1.00,
		QuantityAvailable: 50,
		HarvestDate:       time.Now().AddDate(0, 0, -45),
		FarmerID:          "F001",
	})

	_, err := f.service.PlaceOrder("C001", []models.CartItem{
		{ProductID: "P001", Quantity: 1},
		{ProductID: "P002", Quantity: 1},
	})
	var seasonErr *models.OutOfSeasonError
	assert.ErrorAs(t, err, &seasonErr)
	assert.Equal(t, "P002", seasonErr.ProductID)

	// The in-season line was not reserved either
	product, _ := f.products.Get("P001")
	assert.Equal(t, 100, product.QuantityAvailable)
}

func TestOrderService_PlaceOrder_DeliveryUnavailable(t *testing.T) {
	f := newOrderFixture(t, nil)
	// A legacy record whose location no longer parses
	f.users.AddCustomer(models.Customer{
		User:     models.User{ID: "C002", Name: "Bob", Email: "bob@example.com", Role: models.RoleCustomer},
		Location: "somewhere out there",
	})

	_, err := f.service.PlaceOrder("C002", []models.CartItem{{ProductID: "P001", Quantity: 1}})
	var deliveryErr *models.DeliveryUnavailableError
	assert.ErrorAs(t, err, &deliveryErr)

	product, _ := f.products.Get("P001")
	assert.Equal(t, 100, product.QuantityAvailable)
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	f := newOrderFixture(t, nil)

	_, err := f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 101}})
	var stockErr *models.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 101, stockErr.Requested)
	assert.Equal(t, 100, stockErr.Available)

	product, _ := f.products.Get("P001")
	assert.Equal(t, 100, product.QuantityAvailable)
}

func TestOrderService_TotalImmutableAfterPriceChange(t *testing.T) {
	f := newOrderFixture(t, nil)

	order, err := f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 10}})
	assert.NoError(t, err)
	assert.Equal(t, 25.0, order.TotalAmount)

	// The farmer raises the price after the order was placed
	product, _ := f.products.Get("P001")
	product.Price = 9.99
	f.products.AddOrUpdate(product)

	stored, err := f.service.GetOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 25.0, stored.TotalAmount)
	assert.Equal(t, 2.50, stored.Items[0].Price)
}

func TestOrderService_CancelOrder_RefundsExactlyOnce(t *testing.T) {
	f := newOrderFixture(t, nil)

	order, err := f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 10}})
	assert.NoError(t, err)
	product, _ := f.products.Get("P001")
	assert.Equal(t, 90, product.QuantityAvailable)

	assert.True(t, f.service.CancelOrder(order.ID))
	product, _ = f.products.Get("P001")
	assert.Equal(t, 100, product.QuantityAvailable)

	stored, _ := f.service.GetOrder(order.ID)
	assert.Equal(t, models.StatusCancelled, stored.Status)

	// A second cancellation must not refund again
	assert.False(t, f.service.CancelOrder(order.ID))
	product, _ = f.products.Get("P001")
	assert.Equal(t, 100, product.QuantityAvailable)

	assert.False(t, f.service.CancelOrder("ORD-9999"))
}

func TestOrderService_CancelDispatchedButNotDelivered(t *testing.T) {
	f := newOrderFixture(t, nil)

	order, err := f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 5}})
	assert.NoError(t, err)

	// Dispatched orders can still be cancelled
	_, ok := f.orders.UpdateStatusIf(order.ID, models.StatusDispatched, models.StatusPending)
	assert.True(t, ok)
	assert.True(t, f.service.CancelOrder(order.ID))

	// Delivered orders cannot
	second, err := f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 5}})
	assert.NoError(t, err)
	f.orders.UpdateStatusIf(second.ID, models.StatusDispatched, models.StatusPending)
	assert.NoError(t, f.service.MarkDelivered(second.ID))
	assert.False(t, f.service.CancelOrder(second.ID))

	product, _ := f.products.Get("P001")
	assert.Equal(t, 95, product.QuantityAvailable)
}

func TestOrderService_MarkDelivered(t *testing.T) {
	f := newOrderFixture(t, nil)

	order, err := f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 1}})
	assert.NoError(t, err)

	// Pending orders are not deliverable
	err = f.service.MarkDelivered(order.ID)
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	f.orders.UpdateStatusIf(order.ID, models.StatusDispatched, models.StatusPending)
	assert.NoError(t, f.service.MarkDelivered(order.ID))

	stored, _ := f.service.GetOrder(order.ID)
	assert.Equal(t, models.StatusDelivered, stored.Status)

	var notFoundErr *models.NotFoundError
	assert.ErrorAs(t, f.service.MarkDelivered("ORD-9999"), &notFoundErr)
}

func TestOrderService_CartFlow(t *testing.T) {
	f := newOrderFixture(t, nil)

	assert.NoError(t, f.service.AddToCart("C001", "P001", 3))
	assert.NoError(t, f.service.AddToCart("C001", "P001", 7))

	cart, err := f.service.Cart("C001")
	assert.NoError(t, err)
	assert.Len(t, cart, 1)
	assert.Equal(t, 10, cart[0].Quantity)

	// Unknown products cannot be carted
	var notFoundErr *models.NotFoundError
	assert.ErrorAs(t, f.service.AddToCart("C001", "P999", 1), &notFoundErr)

	order, err := f.service.PlaceOrderFromCart("C001")
	assert.NoError(t, err)
	assert.Equal(t, 25.0, order.TotalAmount)

	// The cart is spent once the order is placed
	cart, err = f.service.Cart("C001")
	assert.NoError(t, err)
	assert.Empty(t, cart)

	// An empty cart cannot be ordered again
	_, err = f.service.PlaceOrderFromCart("C001")
	assert.Error(t, err)

	assert.NoError(t, f.service.AddToCart("C001", "P001", 2))
	assert.NoError(t, f.service.RemoveFromCart("C001", "P001"))
	cart, _ = f.service.Cart("C001")
	assert.Empty(t, cart)
}

func TestOrderService_OrdersForFarmer(t *testing.T) {
	f := newOrderFixture(t, nil)

	other, err := models.NewFarmer("F002", "Hillside Farm", "hill@example.com", "hash", "26.0,56.0")
	assert.NoError(t, err)
	f.users.AddFarmer(*other)
	f.products.AddOrUpdate(models.Product{
		ID: "P002", Name: "Farm Eggs", Price: 4.00, QuantityAvailable: 50,
		HarvestDate: time.Now().AddDate(0, 0, -2), FarmerID: "F002",
	})
	f.users.LinkProduct("F002", "P002")

	_, err = f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 1}})
	assert.NoError(t, err)
	_, err = f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P002", Quantity: 1}})
	assert.NoError(t, err)

	orders, err := f.service.OrdersForFarmer("F001")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "P001", orders[0].Items[0].ProductID)

	orders, err = f.service.OrdersForFarmer("F002")
	assert.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = f.service.OrdersForFarmer("F999")
	var notFoundErr *models.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)

	assert.Len(t, f.service.OrdersForCustomer("C001"), 2)
}

func TestOrderService_PublishesLifecycleEvents(t *testing.T) {
	publisher := new(MockEventPublisher)
	f := newOrderFixture(t, publisher)

	publisher.On("Publish", "market", "order.created", mock.Anything).Return(nil).Once()
	publisher.On("Publish", "market", "order.cancelled", mock.Anything).Return(nil).Once()

	order, err := f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 2}})
	assert.NoError(t, err)
	assert.True(t, f.service.CancelOrder(order.ID))

	publisher.AssertExpectations(t)
}

func TestOrderService_PublishFailureDoesNotFailOrder(t *testing.T) {
	publisher := new(MockEventPublisher)
	f := newOrderFixture(t, publisher)

	publisher.On("Publish", "market", "order.created", mock.Anything).
		Return(assert.AnError).Once()

	order, err := f.service.PlaceOrder("C001", []models.CartItem{{ProductID: "P001", Quantity: 2}})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	publisher.AssertExpectations(t)
}
